package export

import (
	"fmt"
	"strings"

	"eqtint/internal/annot"
	"eqtint/internal/log"
	"eqtint/internal/palette"
)

// anchorName builds the tikzmark node name for one span occurrence. The
// equation pass and the overlay pass must agree on these names, so both
// derive them from the same occurrence index sequence TransformSpans
// guarantees for identical markup.
func anchorName(term string, occurrence int) string {
	return fmt.Sprintf("term-%s-%d", term, occurrence)
}

// defAnchorName is the node name of a definition block on its slide.
func defAnchorName(term string) string {
	return "def-" + term
}

// anchoredEquation rewrites every span to an anchored, colored node and
// records which occurrence indices belong to each term. The returned map
// is the only source the overlay pass may use for routing connectors.
func anchoredEquation(c *annot.Content, s palette.Scheme) (string, map[string][]int, error) {
	occurrences := make(map[string][]int)
	var rErr error
	eq := annot.TransformSpans(c.Equation, func(term, content string, idx int) (string, bool) {
		if _, err := palette.ColorFor(term, c.TermOrder, s); err != nil {
			if rErr == nil {
				rErr = err
			}
			return "", false
		}
		occurrences[term] = append(occurrences[term], idx)
		return `\tikzmarknode{` + anchorName(term, idx) + `}{\textcolor{` + colorName(term) + `}{` + content + `}}`, true
	})
	if rErr != nil {
		return "", nil, rErr
	}
	return eq, occurrences, nil
}

// definitionFrame renders one progressive-disclosure frame: the full
// anchored equation, one definition, and a connector from each of the
// term's equation anchors down to the definition block. Definitions whose
// term never appears in the equation get a frame without connectors.
func definitionFrame(d annot.Definition, c *annot.Content, equation string, occurrences map[string][]int) string {
	var b strings.Builder
	b.WriteString("\\begin{frame}\n")
	if c.Title != "" {
		fmt.Fprintf(&b, "\\frametitle{%s}\n", escapeLaTeXText(c.Title))
	}
	b.WriteString("\\[\n")
	b.WriteString(equation)
	b.WriteString("\n\\]\n")
	b.WriteString("\\vspace{2em}\n\n")

	label := escapeLaTeXText(d.Term)
	if c.HasTerm(d.Term) {
		label = `\textcolor{` + colorName(d.Term) + `}{\textbf{` + label + `}}`
	} else {
		label = `\textbf{` + label + `}`
	}
	fmt.Fprintf(&b, "\\tikzmarknode{%s}{%s}\\quad %s\n",
		defAnchorName(d.Term), label, escapeLaTeXText(d.Body))

	if idxs := occurrences[d.Term]; len(idxs) > 0 {
		b.WriteString("\\begin{tikzpicture}[remember picture, overlay]\n")
		for _, idx := range idxs {
			fmt.Fprintf(&b, "\\draw[->, thick, %s] (%s.north) to[out=90, in=-90] (%s.south);\n",
				colorName(d.Term), defAnchorName(d.Term), anchorName(d.Term, idx))
		}
		b.WriteString("\\end{tikzpicture}\n")
	}

	b.WriteString("\\end{frame}\n")
	return b.String()
}

// Beamer renders a slide deck: a title frame with the colored equation and
// description, then one frame per definition in document order with a
// drawn connector from the equation occurrence anchors to the definition.
func Beamer(c *annot.Content, s palette.Scheme) (string, error) {
	defs, err := colorDefinitions(c, s)
	if err != nil {
		return "", fmt.Errorf("beamer export: %w", err)
	}
	equation, occurrences, err := anchoredEquation(c, s)
	if err != nil {
		return "", fmt.Errorf("beamer export: %w", err)
	}
	description, err := colorizeDescription(c, s)
	if err != nil {
		return "", fmt.Errorf("beamer export: %w", err)
	}

	var b strings.Builder
	b.WriteString("\\documentclass{beamer}\n")
	b.WriteString("\\usepackage{amsmath}\n")
	b.WriteString("\\usepackage{tikz}\n")
	b.WriteString("\\usetikzlibrary{tikzmark}\n")
	b.WriteString("\\setbeamertemplate{navigation symbols}{}\n\n")
	b.WriteString(defs)
	b.WriteString("\n\\begin{document}\n\n")

	// Opening frame: equation plus description, no connectors yet.
	b.WriteString("\\begin{frame}\n")
	if c.Title != "" {
		fmt.Fprintf(&b, "\\frametitle{%s}\n", escapeLaTeXText(c.Title))
	}
	if equation != "" {
		b.WriteString("\\[\n")
		b.WriteString(equation)
		b.WriteString("\n\\]\n")
	}
	if description != "" {
		b.WriteString("\\vspace{1em}\n")
		b.WriteString(description)
		b.WriteString("\n")
	}
	b.WriteString("\\end{frame}\n\n")

	for _, d := range c.Definitions {
		b.WriteString(definitionFrame(d, c, equation, occurrences))
		b.WriteString("\n")
	}

	b.WriteString("\\end{document}\n")

	log.Debug(log.CatExport, "beamer export complete",
		"terms", len(c.TermOrder), "frames", len(c.Definitions)+1, "bytes", b.Len())
	return b.String(), nil
}
