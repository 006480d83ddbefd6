package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eqtint/internal/annot"
	"eqtint/internal/palette"
)

// passthroughRenderer makes equation markup inspectable in assertions.
type passthroughRenderer struct{}

func (passthroughRenderer) RenderMath(latex string) (string, error) {
	return "<div id=\"equation\">" + latex + "</div>\n", nil
}

func TestHTML_EndToEnd(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Test</title>")
	assert.Contains(t, out, "katex.render(")
	assert.Contains(t, out, "trust: true")

	assert.Contains(t, out, "--term-a: #FF8787;")
	assert.Contains(t, out, ".term-a { color: var(--term-a); }")
}

func TestHTML_TermDeclarationsPerTerm(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	for _, term := range c.TermOrder {
		assert.Equal(t, 1, strings.Count(out, "--term-"+term+":"), "one custom property for %s", term)
	}
}

func TestHTML_EquationKeepsClassWrappers(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	out, err := HTMLWith(c, testScheme(), passthroughRenderer{})
	require.NoError(t, err)

	// KaTeX consumes \htmlClass directly in trust mode, so the equation
	// goes to the renderer with the wrappers intact.
	assert.Contains(t, out, `\htmlClass{term-a}{E}`)
}

func TestHTML_DescriptionSpans(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, `<span class="term-a term-ref" data-term="a">Energy</span>`)
	assert.Contains(t, out, `<span class="term-b term-ref" data-term="b">mass</span>`)
}

func TestHTML_DefinitionsHidden(t *testing.T) {
	c := annot.Parse(energyDoc)
	require.Empty(t, c.Errors)

	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="definition" data-term="a" hidden>`)
	assert.Equal(t, 3, strings.Count(out, `<div class="definition" data-term=`))
}

func TestHTML_EscapesProse(t *testing.T) {
	c := annot.Parse("# A <b> title\n$$\n\\mark[a]{x}\n$$\n## Description\n[x]{.a} & more\n## .a\nbody\n")
	require.Empty(t, c.Errors)

	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>A &lt;b&gt; title</h1>")
	assert.Contains(t, out, "&amp; more")
}

func TestHTML_InlineMathLeftForAutoRender(t *testing.T) {
	c := annot.Parse("$$\n\\mark[a]{x}\n$$\n## Description\n[x]{.a} scales as $x^2$ here\n## .a\nbody\n")
	require.Empty(t, c.Errors)

	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, "$x^2$")
}

func TestHTML_UnknownTermFails(t *testing.T) {
	c := &annot.Content{
		Equation:    annot.EquationSpan("a", "x"),
		Description: annot.RefSpan("ghost", "missing"),
		TermOrder:   []string{"a"},
	}

	_, err := HTML(c, testScheme())
	require.Error(t, err)
	assert.ErrorIs(t, err, palette.ErrUnknownTerm)
}

func TestHTML_InteractionScriptPresent(t *testing.T) {
	c := annot.Parse(energyDoc)
	out, err := HTML(c, testScheme())
	require.NoError(t, err)

	assert.Contains(t, out, "mouseover")
	assert.Contains(t, out, "click")
	assert.Contains(t, out, "pinned")
}
