package annot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestParse_EndToEnd(t *testing.T) {
	c := Parse(energyDoc)

	assert.Equal(t, "Test", c.Title)
	assert.Equal(t, []string{"a", "b", "c"}, c.TermOrder)
	assert.Empty(t, c.Errors)
	assert.Empty(t, c.Warnings)

	assert.Equal(t,
		EquationSpan("a", "E")+" = "+EquationSpan("b", "m")+EquationSpan("c", "c")+"^2",
		c.Equation)
	assert.Equal(t,
		RefSpan("a", "Energy")+" equals "+RefSpan("b", "mass")+" times "+RefSpan("c", "speed")+" squared.",
		c.Description)

	require.Len(t, c.Definitions, 3)
	assert.Equal(t, Definition{Term: "a", Body: "Energy."}, c.Definitions[0])
	assert.Equal(t, Definition{Term: "b", Body: "Mass."}, c.Definitions[1])
	assert.Equal(t, Definition{Term: "c", Body: "Speed of light."}, c.Definitions[2])
}

func TestParse_TermOrderFirstSeen(t *testing.T) {
	c := Parse("$$\n\\mark[a]{x}\\mark[b]{y}\\mark[a]{z}\n$$\n")
	assert.Equal(t, []string{"a", "b"}, c.TermOrder)
}

func TestParse_NestedAnnotation(t *testing.T) {
	c := Parse("$$\n\\mark[outer]{\\mark[inner]{x} + y}\n$$\n")

	assert.Equal(t, []string{"outer", "inner"}, c.TermOrder)
	assert.Equal(t, EquationSpan("outer", EquationSpan("inner", "x")+" + y"), c.Equation)
}

func TestParse_BraceMatchingInContent(t *testing.T) {
	c := Parse("$$\n\\mark[x]{\\frac{a}{b}}\n$$\n")
	assert.Equal(t, EquationSpan("x", `\frac{a}{b}`), c.Equation)
}

func TestParse_MalformedMarkPassesThrough(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unmatched brace", `\mark[x]{\frac{a}`},
		{"missing bracket", `\mark[x{y}`},
		{"empty term", `\mark[]{y}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse("$$\n" + tt.input + "\n$$\n")
			assert.Contains(t, c.Equation, `\mark[`)
			assert.Empty(t, c.TermOrder)
		})
	}
}

func TestParse_MalformedRefPassesThrough(t *testing.T) {
	c := Parse("## Description\nSee [section 2] and [rates]{.rate} here.\n")
	assert.Contains(t, c.Description, "[section 2]")
	assert.Contains(t, c.Description, RefSpan("rate", "rates"))
}

func TestParse_NonAnnotationLatexPassesThrough(t *testing.T) {
	c := Parse("$$\n\\sum_{i=0}^{n} \\mark[x]{x_i}\n$$\n")
	assert.Equal(t, `\sum_{i=0}^{n} `+EquationSpan("x", "x_i"), c.Equation)
}

func TestParse_TitleRules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "# My Equation\n", "My Equation"},
		{"only first counts", "# First\n# Second\n", "First"},
		{"level two is not a title", "## Not a title\n", ""},
		{"no space is not a title", "#nope\n", ""},
		{"none", "just text\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input).Title)
		})
	}
}

func TestParse_DescriptionJoinsLines(t *testing.T) {
	c := Parse("## Description\nfirst line\nsecond line\n")
	assert.Equal(t, "first line second line", c.Description)
}

func TestParse_DefinitionHeadingEndsDescription(t *testing.T) {
	c := Parse("## Description\nprose here\n## .x\nx body\nmore body\n")
	assert.Equal(t, "prose here", c.Description)
	require.Len(t, c.Definitions, 1)
	assert.Equal(t, "x", c.Definitions[0].Term)
	assert.Equal(t, "x body\nmore body", c.Definitions[0].Body)
}

func TestParse_EmptyInput(t *testing.T) {
	c := Parse("")
	assert.Empty(t, c.Title)
	assert.Empty(t, c.Equation)
	assert.Empty(t, c.TermOrder)
	assert.Empty(t, c.Definitions)
	assert.Empty(t, c.Errors)
}

func TestParse_UnterminatedEquationBlock(t *testing.T) {
	// A missing closing delimiter swallows the rest of the file into the
	// equation; parsing still completes and diagnostics still run.
	c := Parse("$$\n\\mark[a]{x}\n## Description\n[x]{.a}\n")
	assert.NotNil(t, c)
	assert.Equal(t, []string{"a"}, c.TermOrder)
	assert.True(t, strings.Contains(c.Equation, "## Description"))
}
