package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eqtint/internal/config"
	"eqtint/internal/log"
	"eqtint/internal/preview"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "eqtint [file]",
	Short:   "Colored annotations for LaTeX equations",
	Long: `eqtint parses documents that annotate LaTeX equations with named terms,
links each term to its prose description and definition, and assigns every
term a color from a palette. Run with a file to open the live terminal
preview; use the export subcommand to render HTML, LaTeX, Beamer, or Typst.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runPreview,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/eqtint/config.yaml)")
	rootCmd.Flags().StringP("palette", "p", "",
		"palette to preview with (overrides config)")
	rootCmd.Flags().Bool("no-auto-reload", false,
		"disable re-parsing when the file changes on disk")

	_ = viper.BindPFlag("palette", rootCmd.Flags().Lookup("palette"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("palette", defaults.Palette)
	viper.SetDefault("ui.show_diagnostics", defaults.UI.ShowDiagnostics)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.mouse", defaults.UI.Mouse)
	viper.SetDefault("export.format", defaults.Export.Format)
	viper.SetDefault("export.output_dir", defaults.Export.OutputDir)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .eqtint/config.yaml (current directory)
		// 2. ~/.config/eqtint/config.yaml (user config)
		if _, err := os.Stat(".eqtint/config.yaml"); err == nil {
			viper.SetConfigFile(".eqtint/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "eqtint"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .eqtint/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".eqtint/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if name, _ := cmd.Flags().GetString("palette"); name != "" {
		if _, err := cfg.SchemeFor(name); err != nil {
			return err
		}
		cfg.Palette = name
	}
	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	if logPath := os.Getenv("EQTINT_DEBUG"); logPath != "" {
		if cleanup, err := log.Init(logPath); err == nil {
			defer cleanup()
		}
	}

	zone.NewGlobal()
	model := preview.New(path, cfg)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
