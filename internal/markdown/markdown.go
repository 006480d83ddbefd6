// Package markdown provides styled markdown rendering for definition
// bodies in the preview.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes document margins so definition bodies align with
// the pane edge instead of glamour's default indent.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour configured for inline definition rendering.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer wrapping at width. style is "dark", "light", or
// "" for terminal auto-detection.
func New(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	}
	switch style {
	case "dark":
		opts = append([]glamour.TermRendererOption{glamour.WithStandardStyle("dark")}, opts...)
	case "light":
		opts = append([]glamour.TermRendererOption{glamour.WithStandardStyle("light")}, opts...)
	default:
		opts = append([]glamour.TermRendererOption{glamour.WithAutoStyle()}, opts...)
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
