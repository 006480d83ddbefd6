// Package export renders parsed annotation content to publishable
// formats: an interactive HTML page, a LaTeX article, a Beamer deck
// with drawn term connectors, and a Typst document. All exporters share
// the palette resolution rules, so the same term always gets the same
// color in every format.
package export

import (
	"fmt"
	"sort"
	"strings"

	"eqtint/internal/annot"
	"eqtint/internal/palette"
)

type renderFunc func(*annot.Content, palette.Scheme) (string, error)

type format struct {
	render    renderFunc
	extension string
}

var formats = map[string]format{
	"html":   {HTML, ".html"},
	"latex":  {LaTeX, ".tex"},
	"beamer": {Beamer, ".tex"},
	"typst":  {Typst, ".typ"},
}

// Formats lists the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension returns the conventional file extension for a format name.
func Extension(name string) (string, error) {
	f, ok := formats[name]
	if !ok {
		return "", fmt.Errorf("unknown export format %q (valid formats: %s)", name, strings.Join(Formats(), ", "))
	}
	return f.extension, nil
}

// Export renders content to the named format. Content that failed
// validation is rejected outright; exporters assume a consistent
// document and would otherwise emit references to undefined colors.
func Export(name string, c *annot.Content, s palette.Scheme) (string, error) {
	f, ok := formats[name]
	if !ok {
		return "", fmt.Errorf("unknown export format %q (valid formats: %s)", name, strings.Join(Formats(), ", "))
	}
	if len(c.Errors) > 0 {
		return "", fmt.Errorf("cannot export: document has %d validation error(s), first: %s", len(c.Errors), c.Errors[0])
	}
	return f.render(c, s)
}
