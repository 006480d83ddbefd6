package annot

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Token highlight styles for annotation source highlighting.
var (
	// HeadingStyle for "# Title", "## Description", and "## .term" lines
	HeadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	// DelimiterStyle for the $$ equation fences
	DelimiterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FECA57")).
			Bold(true)

	// CommandStyle for annotation machinery: \mark[, ]{, }, [, ]{.
	CommandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#54A0FF"))

	// TermStyle for term names wherever they appear
	TermStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#73F59F")).
			Bold(true)

	// DisplayStyle for the display text of a description reference
	DisplayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89DCEB"))
)

// Highlight applies syntax highlighting to raw annotation source.
// Returns the source with ANSI color codes applied. Malformed constructs
// are left unstyled; surrounding valid syntax still highlights.
func Highlight(source string) string {
	if source == "" {
		return ""
	}

	var out []string
	inEquation := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == equationDelimiter:
			inEquation = !inEquation
			out = append(out, DelimiterStyle.Render(line))
		case inEquation:
			out = append(out, highlightEquationLine(line))
		case trimmed == descriptionMarker:
			out = append(out, HeadingStyle.Render(line))
		case strings.HasPrefix(trimmed, definitionPrefix):
			head := definitionPrefix
			term := strings.TrimSpace(trimmed[len(definitionPrefix):])
			indent := line[:strings.Index(line, trimmed)]
			out = append(out, indent+HeadingStyle.Render(head)+TermStyle.Render(term))
		case isTitleLine(line):
			out = append(out, HeadingStyle.Render(line))
		default:
			out = append(out, highlightRefLine(line))
		}
	}
	return strings.Join(out, "\n")
}

// highlightEquationLine styles \mark[term]{content} constructs, leaving
// the rest of the LaTeX untouched.
func highlightEquationLine(line string) string {
	var b strings.Builder
	i := 0
	for {
		rel := strings.Index(line[i:], markPrefix)
		if rel < 0 {
			b.WriteString(line[i:])
			break
		}
		at := i + rel
		b.WriteString(line[i:at])

		m, ok := scanMark(line, at)
		if !ok {
			b.WriteString(line[at : at+len(markPrefix)])
			i = at + len(markPrefix)
			continue
		}

		b.WriteString(CommandStyle.Render(markPrefix))
		b.WriteString(TermStyle.Render(m.term))
		b.WriteString(CommandStyle.Render("]{"))
		b.WriteString(highlightEquationLine(m.content))
		b.WriteString(CommandStyle.Render("}"))
		i = m.end
	}
	return b.String()
}

// highlightRefLine styles [display]{.term} references.
func highlightRefLine(line string) string {
	var b strings.Builder
	i := 0
	for {
		rel := strings.IndexByte(line[i:], '[')
		if rel < 0 {
			b.WriteString(line[i:])
			break
		}
		at := i + rel

		r, ok := scanRef(line, at)
		if !ok {
			b.WriteString(line[i : at+1])
			i = at + 1
			continue
		}
		b.WriteString(line[i:at])

		b.WriteString(CommandStyle.Render("["))
		b.WriteString(DisplayStyle.Render(r.display))
		b.WriteString(CommandStyle.Render("]{."))
		b.WriteString(TermStyle.Render(r.term))
		b.WriteString(CommandStyle.Render("}"))
		i = r.end
	}
	return b.String()
}
