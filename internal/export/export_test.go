package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eqtint/internal/annot"
)

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"beamer", "html", "latex", "typst"}, Formats())
}

func TestExtension(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"html", ".html"},
		{"latex", ".tex"},
		{"beamer", ".tex"},
		{"typst", ".typ"},
	}
	for _, tt := range tests {
		ext, err := Extension(tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ext)
	}

	_, err := Extension("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown export format "pdf"`)
	assert.Contains(t, err.Error(), "beamer, html, latex, typst")
}

func TestExport_AllFormats(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			out, err := Export(name, c, testScheme())
			require.NoError(t, err)
			assert.NotEmpty(t, out)

			// No exporter leaks the neutral intermediate forms, except the
			// HTML page whose description spans are the flat form itself.
			assert.NotContains(t, out, `\mark[`)
			if name != "html" {
				assert.NotContains(t, out, `\htmlClass`)
				assert.NotContains(t, out, `<span class="term-`)
			}
		})
	}
}

func TestExport_TermCoverage(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	declarations := map[string]string{
		"html":   "--term-",
		"latex":  `\definecolor{term`,
		"beamer": `\definecolor{term`,
		"typst":  "#let term-",
	}

	for name, marker := range declarations {
		t.Run(name, func(t *testing.T) {
			out, err := Export(name, c, testScheme())
			require.NoError(t, err)

			seen := 0
			for _, term := range c.TermOrder {
				if name == "html" {
					seen += strings.Count(out, marker+term+":")
				} else if name == "typst" {
					seen += strings.Count(out, marker+term+" ")
				} else {
					seen += strings.Count(out, marker+term+"}")
				}
			}
			assert.Equal(t, len(c.TermOrder), seen)
		})
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	c := annot.Parse(energyDoc)
	_, err := Export("docx", c, testScheme())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown export format "docx"`)
}

func TestExport_RejectsInvalidContent(t *testing.T) {
	c := annot.Parse("$$\n\\mark[a]{x}\n$$\n## Description\n[x]{.ghost}\n## .a\nbody\n")
	require.NotEmpty(t, c.Errors)

	_, err := Export("latex", c, testScheme())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
}
