package palette

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two resolution failure modes. Callers that want
// a lenient fallback (the preview substitutes a neutral gray) branch on
// these; exporters propagate them unchanged.
var (
	ErrUnknownTerm      = errors.New("term not in ordering")
	ErrPaletteExhausted = errors.New("palette has fewer colors than terms")
)

// FallbackColor is the neutral gray lenient call sites substitute when
// resolution fails. The core never applies it silently.
const FallbackColor = "#BBBBBB"

// ColorFor resolves the color for term by its position in order. It is
// deterministic and total for valid inputs: the same term, order, and
// scheme always yield the same color in every exporter.
func ColorFor(term string, order []string, s Scheme) (string, error) {
	idx := -1
	for i, t := range order {
		if t == term {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("resolving color for %q: %w", term, ErrUnknownTerm)
	}
	if idx >= len(s.Colors) {
		return "", fmt.Errorf("resolving color for %q (index %d, palette %q has %d colors): %w",
			term, idx, s.Name, len(s.Colors), ErrPaletteExhausted)
	}
	return s.Colors[idx], nil
}
