package export

import (
	"fmt"
	"strconv"
	"strings"

	"eqtint/internal/annot"
	"eqtint/internal/log"
	"eqtint/internal/palette"
)

// colorName returns the LaTeX color name for a term. LaTeX color names
// must be alphanumeric, so everything else in the term is dropped.
func colorName(term string) string {
	var b strings.Builder
	b.WriteString("term")
	for _, r := range term {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// hexUpper strips the leading '#' and uppercases the hex digits, the form
// xcolor's HTML model expects.
func hexUpper(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}

// colorDefinitions emits one \definecolor line per term in order.
func colorDefinitions(c *annot.Content, s palette.Scheme) (string, error) {
	var b strings.Builder
	for _, term := range c.TermOrder {
		hex, err := palette.ColorFor(term, c.TermOrder, s)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\\definecolor{%s}{HTML}{%s}\n", colorName(term), hexUpper(hex))
	}
	return b.String(), nil
}

// colorizeEquation rewrites every tagged span in the equation to a
// \textcolor wrapper. A term that cannot be resolved aborts the export:
// emitting a wrong or missing color silently is worse than failing.
func colorizeEquation(c *annot.Content, s palette.Scheme) (string, error) {
	var rErr error
	eq := annot.TransformSpans(c.Equation, func(term, content string, _ int) (string, bool) {
		if _, err := palette.ColorFor(term, c.TermOrder, s); err != nil {
			if rErr == nil {
				rErr = err
			}
			return "", false
		}
		return `\textcolor{` + colorName(term) + `}{` + content + `}`, true
	})
	if rErr != nil {
		return "", rErr
	}
	return eq, nil
}

// Placeholders keep injected commands out of the escaping pass: references
// are replaced by \x00<n>\x00 tokens, the surrounding text is escaped, and
// the tokens are substituted back. NUL never occurs in source text.
const placeholderMark = "\x00"

func placeholder(n int) string {
	return placeholderMark + strconv.Itoa(n) + placeholderMark
}

// colorizeDescription escapes the description for LaTeX and rewrites every
// term reference to colored text. Unknown terms abort the export.
func colorizeDescription(c *annot.Content, s palette.Scheme) (string, error) {
	var rErr error
	var replacements []string
	masked := annot.TransformRefs(c.Description, func(term, display string, i int) (string, bool) {
		if _, err := palette.ColorFor(term, c.TermOrder, s); err != nil {
			if rErr == nil {
				rErr = err
			}
			return "", false
		}
		replacements = append(replacements, `\textcolor{`+colorName(term)+`}{`+escapeLaTeXText(display)+`}`)
		return placeholder(len(replacements) - 1), true
	})
	if rErr != nil {
		return "", rErr
	}

	out := escapeLaTeXText(masked)
	for i, rep := range replacements {
		out = strings.Replace(out, placeholder(i), rep, 1)
	}
	return out, nil
}

// definitionItem renders one definition list item. Definitions whose term
// is not in the equation stay uncolored so output never references a color
// that was not defined.
func definitionItem(d annot.Definition, c *annot.Content) string {
	label := escapeLaTeXText(d.Term)
	if c.HasTerm(d.Term) {
		label = `\textcolor{` + colorName(d.Term) + `}{` + label + `}`
	}
	return `\item[` + label + `] ` + escapeLaTeXText(d.Body)
}

// LaTeX renders a complete compilable article document.
func LaTeX(c *annot.Content, s palette.Scheme) (string, error) {
	defs, err := colorDefinitions(c, s)
	if err != nil {
		return "", fmt.Errorf("latex export: %w", err)
	}
	equation, err := colorizeEquation(c, s)
	if err != nil {
		return "", fmt.Errorf("latex export: %w", err)
	}
	description, err := colorizeDescription(c, s)
	if err != nil {
		return "", fmt.Errorf("latex export: %w", err)
	}

	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	b.WriteString("\\usepackage{amsmath}\n")
	b.WriteString("\\usepackage{xcolor}\n\n")
	b.WriteString(defs)
	b.WriteString("\n\\begin{document}\n\n")

	if c.Title != "" {
		fmt.Fprintf(&b, "\\section*{%s}\n\n", escapeLaTeXText(c.Title))
	}

	if equation != "" {
		b.WriteString("\\[\n")
		b.WriteString(equation)
		b.WriteString("\n\\]\n\n")
	}

	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}

	if len(c.Definitions) > 0 {
		b.WriteString("\\begin{description}\n")
		for _, d := range c.Definitions {
			b.WriteString(definitionItem(d, c))
			b.WriteString("\n")
		}
		b.WriteString("\\end{description}\n")
	}

	b.WriteString("\n\\end{document}\n")

	log.Debug(log.CatExport, "latex export complete", "terms", len(c.TermOrder), "bytes", b.Len())
	return b.String(), nil
}
