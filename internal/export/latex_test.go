package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eqtint/internal/annot"
	"eqtint/internal/palette"
)

const energyDoc = `# Test
$$
\mark[a]{E} = \mark[b]{m}\mark[c]{c}^2
$$
## Description
[Energy]{.a} equals [mass]{.b} times [speed]{.c} squared.
## .a
Energy.
## .b
Mass.
## .c
Speed of light.
`

func testScheme() palette.Scheme {
	s, _ := palette.Builtin(palette.DefaultName)
	return s
}

func TestLaTeX_EndToEnd(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	out, err := LaTeX(c, testScheme())
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, `\definecolor{term`))
	assert.NotContains(t, out, `\htmlClass`)
	assert.NotContains(t, out, `<span`)
	assert.NotContains(t, out, `\mark[`)

	assert.Contains(t, out, `\documentclass{article}`)
	assert.Contains(t, out, `\section*{Test}`)
	assert.Contains(t, out, `\definecolor{terma}{HTML}{FF8787}`)
	assert.Contains(t, out, `\textcolor{terma}{E}`)
	assert.Contains(t, out, `\textcolor{terma}{Energy}`)
	assert.Contains(t, out, `\item[\textcolor{terma}{a}] Energy.`)
	assert.Contains(t, out, `\end{document}`)
}

func TestLaTeX_EscapesDefinitionBody(t *testing.T) {
	c := annot.Parse("$$\n\\mark[a]{x}\n$$\n## Description\n[x]{.a}\n## .a\ngrows 50% & $x$ total\n")
	require.Empty(t, c.Errors)

	out, err := LaTeX(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, `50\% \& $x$ total`)
}

func TestLaTeX_PaletteExhausted(t *testing.T) {
	c := annot.Parse("$$\n\\mark[a]{x}\\mark[b]{y}\n$$\n## Description\n[x]{.a} [y]{.b}\n## .a\nA.\n## .b\nB.\n")
	require.Empty(t, c.Errors)

	_, err := LaTeX(c, palette.Scheme{Name: "tiny", Colors: []string{"#111111"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, palette.ErrPaletteExhausted)
}

func TestLaTeX_StrayDefinitionUncolored(t *testing.T) {
	c := annot.Parse("$$\n\\mark[a]{x}\n$$\n## Description\n[x]{.a}\n## .a\nA.\n## .extra\nnot in equation\n")
	require.Empty(t, c.Errors)

	out, err := LaTeX(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, `\item[extra] not in equation`)
	assert.NotContains(t, out, `\textcolor{termextra}`)
	assert.NotContains(t, out, `\definecolor{termextra}`)
}

func TestLaTeX_NestedSpans(t *testing.T) {
	c := annot.Parse("$$\n\\mark[outer]{\\mark[inner]{x} + y}\n$$\n## Description\n[o]{.outer} [i]{.inner}\n## .outer\nO.\n## .inner\nI.\n")
	require.Empty(t, c.Errors)

	out, err := LaTeX(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, `\textcolor{termouter}{\textcolor{terminner}{x} + y}`)
}

func TestColorName(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"rate", "termrate"},
		{"growth-rate", "termgrowthrate"},
		{"x2", "termx2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, colorName(tt.term))
	}
}

func TestHexUpper(t *testing.T) {
	assert.Equal(t, "FF8787", hexUpper("#ff8787"))
	assert.Equal(t, "ABC", hexUpper("#abc"))
}
