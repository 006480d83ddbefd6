package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatexToTypst(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "x + y", "x + y"},
		{"frac", `\frac{a}{b}`, "frac(a, b)"},
		{"nested frac", `\frac{\frac{a}{b}}{c}`, "frac(frac(a, b), c)"},
		{"sqrt", `\sqrt{x}`, "sqrt(x)"},
		{"superscript group", "x^{n+1}", "x^(n+1)"},
		{"subscript group", "x_{i}", "x_(i)"},
		{"bare script", "x^2", "x^2"},
		{"bare braces dissolve", "{x}", "x"},
		{"cdot", `a \cdot b`, "a dot.op b"},
		{"infinity", `\infty`, "infinity"},
		{"greek passes through", `\alpha + \beta`, "alpha + beta"},
		{"text command", `\text{iff}`, `"iff"`},
		{"left right dropped", `\left( x \right)`, "( x )"},
		{"textcolor", `\textcolor{#FF8787}{x}`, `text(fill: rgb("#FF8787"), x)`},
		{"textcolor nested math", `\textcolor{#FF8787}{\frac{a}{b}}`, `text(fill: rgb("#FF8787"), frac(a, b))`},
		{"unknown command becomes word", `\operatorlike x`, "operatorlike x"},
		{"frac missing args", `\frac`, "frac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, latexToTypst(tt.input))
		})
	}
}
