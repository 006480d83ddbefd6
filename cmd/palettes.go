package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"eqtint/internal/palette"
)

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List available palettes with color swatches",
	Long: `Palettes lists every builtin palette plus any palettes declared in the
config file, with a swatch per color in position order. Config palettes
shadow builtins of the same name.`,
	Args: cobra.NoArgs,
	RunE: runPalettes,
}

func init() {
	rootCmd.AddCommand(palettesCmd)
}

var (
	paletteNameStyle   = lipgloss.NewStyle().Bold(true)
	paletteOriginStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

func runPalettes(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	shadowed := make(map[string]bool)

	for _, p := range cfg.Palettes {
		shadowed[p.Name] = true
		scheme := palette.Scheme{Name: p.Name, Colors: p.Colors}
		fmt.Fprintln(out, paletteLine(scheme, "config", p.Name == cfg.Palette))
	}
	for _, scheme := range palette.Builtins() {
		if shadowed[scheme.Name] {
			continue
		}
		fmt.Fprintln(out, paletteLine(scheme, "builtin", scheme.Name == cfg.Palette))
	}
	return nil
}

func paletteLine(s palette.Scheme, origin string, active bool) string {
	var swatches strings.Builder
	for _, hex := range s.Colors {
		swatches.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██"))
	}
	marker := "  "
	if active {
		marker = "* "
	}
	return fmt.Sprintf("%s%-12s %s %s",
		marker,
		paletteNameStyle.Render(s.Name),
		swatches.String(),
		paletteOriginStyle.Render(fmt.Sprintf("(%s, %d colors)", origin, len(s.Colors))))
}
