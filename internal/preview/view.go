package preview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"eqtint/internal/annot"
	"eqtint/internal/palette"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			MarginBottom(1)

	equationStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)
)

func spanZoneID(i int) string { return fmt.Sprintf("span-%d", i) }
func refZoneID(i int) string  { return fmt.Sprintf("ref-%d", i) }
func defZoneID(t string) string {
	return "def-" + t
}

// View renders the preview. The whole frame passes through zone.Scan so
// mouse zones marked below resolve to screen coordinates.
func (m Model) View() string {
	if m.loadErr != nil {
		return zone.Scan(errorStyle.Render(m.loadErr.Error()) + "\n\n" +
			statusStyle.Render("r to retry, q to quit"))
	}
	if m.content == nil {
		return zone.Scan(dimStyle.Render("loading " + m.path + "..."))
	}
	if m.showHelp {
		return zone.Scan(m.helpView())
	}
	if m.showSource {
		return zone.Scan(m.sourceView())
	}

	var b strings.Builder

	if m.content.Title != "" {
		b.WriteString(titleStyle.Render(m.content.Title))
		b.WriteString("\n")
	}

	b.WriteString(equationStyle.Render(m.equationView()))
	b.WriteString("\n")

	if m.content.Description != "" {
		b.WriteString("\n")
		b.WriteString(m.descriptionView())
		b.WriteString("\n")
	}

	if len(m.content.Definitions) > 0 {
		b.WriteString(m.definitionsView())
	}

	if m.showDiagnostics {
		if diag := m.diagnosticsView(); diag != "" {
			b.WriteString("\n")
			b.WriteString(diag)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())

	return zone.Scan(b.String())
}

// termColor resolves a term's palette color, substituting the fallback
// when the palette runs out. The exporters refuse short palettes; the
// live preview stays usable and reports the shortfall in diagnostics.
func (m Model) termColor(term string) string {
	hex, err := palette.ColorFor(term, m.content.TermOrder, m.scheme)
	if err != nil {
		return palette.FallbackColor
	}
	return hex
}

func (m Model) termStyle(term string) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(m.termColor(term)))
	if active, ok := m.interaction.Active(); ok && active == term {
		s = s.Bold(true).Underline(true)
	}
	return s
}

// equationView shows the equation with markup stripped and each tagged
// span rendered in its term color. Every span occurrence is a mouse zone.
func (m Model) equationView() string {
	return annot.TransformSpans(m.content.Equation, func(term, content string, index int) (string, bool) {
		return zone.Mark(spanZoneID(index), m.termStyle(term).Render(content)), true
	})
}

// descriptionView shows the prose with each reference rendered in its
// term color, wrapped to the window width.
func (m Model) descriptionView() string {
	text := annot.TransformRefs(m.content.Description, func(term, display string, index int) (string, bool) {
		return zone.Mark(refZoneID(index), m.termStyle(term).Render(display)), true
	})
	if m.width > 4 {
		text = wordwrap.String(text, m.width-2)
	}
	return text
}

// definitionsView shows the definition of the active term rendered as
// markdown, or a one-line-per-term index when nothing is selected.
func (m Model) definitionsView() string {
	var b strings.Builder

	active, hasActive := m.interaction.Active()
	if hasActive {
		for _, d := range m.content.Definitions {
			if d.Term != active {
				continue
			}
			b.WriteString(sectionStyle.Render(m.termStyle(d.Term).Render(d.Term)))
			b.WriteString("\n")
			b.WriteString(m.renderBody(d.Body))
			return b.String()
		}
		b.WriteString(sectionStyle.Render(m.termStyle(active).Render(active)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("no definition"))
		return b.String()
	}

	b.WriteString(sectionStyle.Render("Definitions"))
	b.WriteString("\n")
	for _, d := range m.content.Definitions {
		label := d.Term
		if m.content.HasTerm(d.Term) {
			label = m.termStyle(d.Term).Render(d.Term)
		}
		// Definitions for terms absent from the equation stay uncolored.
		line := fmt.Sprintf("%s %s %s", dimStyle.Render("•"), label, dimStyle.Render(firstLine(d.Body)))
		b.WriteString(zone.Mark(defZoneID(d.Term), line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderBody(body string) string {
	if m.md != nil {
		if out, err := m.md.Render(body); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return body
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return runewidth.Truncate(s, 60, "...")
}

// diagnosticsView lists validation errors and warnings, plus a palette
// shortfall notice when terms outnumber colors.
func (m Model) diagnosticsView() string {
	var lines []string
	for _, e := range m.content.Errors {
		lines = append(lines, errorStyle.Render("✗ "+e))
	}
	for _, w := range m.content.Warnings {
		lines = append(lines, warnStyle.Render("! "+w))
	}
	if n, c := len(m.content.TermOrder), len(m.scheme.Colors); n > c {
		lines = append(lines, warnStyle.Render(fmt.Sprintf(
			"! palette %q has %d colors for %d terms; extras use %s",
			m.scheme.Name, c, n, palette.FallbackColor)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	left := filepath.Base(m.path) + "  palette:" + m.schemeName
	switch {
	case m.interaction.Pinned():
		term, _ := m.interaction.Active()
		left += "  pinned:" + term
	default:
		if term, ok := m.interaction.Active(); ok {
			left += "  term:" + term
		}
	}
	return statusStyle.Render(left + "  •  ? help")
}

func (m Model) sourceView() string {
	header := sectionStyle.Render("Source") + "\n"
	return header + annot.Highlight(m.source) + "\n" + m.statusView()
}

func (m Model) helpView() string {
	rows := [][2]string{
		{"tab / l / →", "next term"},
		{"shift+tab / h / ←", "previous term"},
		{"enter / space", "pin or unpin term"},
		{"click", "pin term under cursor"},
		{"esc", "clear selection"},
		{"r", "reload file"},
		{"p", "cycle palette"},
		{"d", "toggle diagnostics"},
		{"s", "toggle source view"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("eqtint preview"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-20s %s\n", r[0], dimStyle.Render(r[1])))
	}
	return helpBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
