// Package palette provides named color schemes and positional term-color
// resolution. Schemes are plain configuration values passed explicitly to
// exporters and the preview; there is no ambient registry to mutate.
package palette

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"eqtint/internal/log"
)

// Scheme is a named ordered list of hex colors. Colors[i] belongs to the
// i-th term in first-appearance order.
type Scheme struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// hexColorRe matches "#RGB" or "#RRGGBB".
var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// builtins are the compiled-in schemes, keyed by name.
var builtins = map[string]Scheme{
	"vivid": {
		Name: "vivid",
		Colors: []string{
			"#FF8787", "#73F59F", "#54A0FF", "#7D56F4", "#FECA57",
			"#FF9F43", "#89DCEB", "#CBA6F7", "#FF6B6B", "#BBBBBB",
		},
	},
	"bright": {
		Name: "bright",
		Colors: []string{
			"#A3E635", "#22D3EE", "#E879F9", "#818CF8", "#FB7185",
			"#FBBF24", "#34D399", "#38BDF8", "#D946EF", "#A78BFA",
		},
	},
	"classic": {
		Name: "classic",
		Colors: []string{
			"#DC143C", "#4169E1", "#228B22", "#FF8C00", "#8B008B",
			"#008B8B", "#B8860B", "#708090",
		},
	},
	"grayscale": {
		Name: "grayscale",
		Colors: []string{
			"#333333", "#4D4D4D", "#666666", "#808080", "#999999",
			"#B3B3B3", "#CCCCCC", "#E5E5E5",
		},
	},
}

// DefaultName is the scheme used when none is configured.
const DefaultName = "vivid"

// Builtin returns the compiled-in scheme with the given name.
func Builtin(name string) (Scheme, bool) {
	s, ok := builtins[name]
	return s, ok
}

// Builtins returns all compiled-in schemes sorted by name.
func Builtins() []Scheme {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	schemes := make([]Scheme, 0, len(names))
	for _, name := range names {
		schemes = append(schemes, builtins[name])
	}
	return schemes
}

// Validate checks that the scheme has a name and well-formed hex colors.
func Validate(s Scheme) error {
	if s.Name == "" {
		return fmt.Errorf("palette name is required")
	}
	if len(s.Colors) == 0 {
		return fmt.Errorf("palette %q has no colors", s.Name)
	}
	for i, c := range s.Colors {
		if !hexColorRe.MatchString(c) {
			return fmt.Errorf("palette %q color %d: %q is not a hex color (expected #RRGGBB)", s.Name, i, c)
		}
	}
	return nil
}

// LoadFile reads a standalone palette YAML file:
//
//	name: mypalette
//	colors:
//	  - "#FF8787"
//	  - "#73F59F"
func LoadFile(path string) (Scheme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a user-supplied palette file
	if err != nil {
		return Scheme{}, fmt.Errorf("reading palette file: %w", err)
	}

	var s Scheme
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scheme{}, fmt.Errorf("parsing palette file %s: %w", path, err)
	}
	if err := Validate(s); err != nil {
		return Scheme{}, err
	}

	log.Debug(log.CatPalette, "loaded palette file", "path", path, "name", s.Name, "colors", len(s.Colors))
	return s, nil
}
