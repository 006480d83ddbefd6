// Package config provides configuration types and defaults for eqtint.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"eqtint/internal/log"
	"eqtint/internal/palette"
)

// PaletteConfig defines a user palette declared inline in the config file.
type PaletteConfig struct {
	Name   string   `mapstructure:"name"`
	Colors []string `mapstructure:"colors"`
}

// Config holds all configuration options for eqtint.
type Config struct {
	AutoReload bool            `mapstructure:"auto_reload"`
	Palette    string          `mapstructure:"palette"`
	Palettes   []PaletteConfig `mapstructure:"palettes"`
	UI         UIConfig        `mapstructure:"ui"`
	Export     ExportConfig    `mapstructure:"export"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
}

// UIConfig holds preview interface configuration options.
type UIConfig struct {
	ShowDiagnostics bool   `mapstructure:"show_diagnostics"`
	MarkdownStyle   string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Mouse           bool   `mapstructure:"mouse"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Format    string `mapstructure:"format"`
	OutputDir string `mapstructure:"output_dir"`
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // "none", "file", "stdout", "otlp"
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// exportFormats are the valid values for export.format, kept in sync with
// the exporter registry.
var exportFormats = map[string]bool{
	"html":   true,
	"latex":  true,
	"beamer": true,
	"typst":  true,
}

// ValidatePalettes checks inline palette declarations for errors.
// Returns nil if palettes are empty (builtins are always available).
func ValidatePalettes(palettes []PaletteConfig) error {
	seen := make(map[string]bool)
	for i, p := range palettes {
		if p.Name == "" {
			return fmt.Errorf("palette %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("palette %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		if err := palette.Validate(palette.Scheme{Name: p.Name, Colors: p.Colors}); err != nil {
			return fmt.Errorf("palette %d: %w", i, err)
		}
	}
	return nil
}

// ValidateExport checks export configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateExport(exp ExportConfig) error {
	if exp.Format != "" && !exportFormats[exp.Format] {
		return fmt.Errorf("export.format must be \"html\", \"latex\", \"beamer\", or \"typst\", got %q", exp.Format)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate runs every section validator.
func (c Config) Validate() error {
	if err := ValidatePalettes(c.Palettes); err != nil {
		return err
	}
	if err := ValidateExport(c.Export); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if _, err := c.SchemeFor(c.Palette); c.Palette != "" && err != nil {
		return err
	}
	return nil
}

// SchemeFor resolves a palette name against the inline palettes first and
// the builtins second, so a config can shadow a builtin name. An empty
// name resolves to the configured default, then the builtin default.
func (c Config) SchemeFor(name string) (palette.Scheme, error) {
	if name == "" {
		name = c.Palette
	}
	if name == "" {
		name = palette.DefaultName
	}

	for _, p := range c.Palettes {
		if p.Name == name {
			return palette.Scheme{Name: p.Name, Colors: p.Colors}, nil
		}
	}
	if s, ok := palette.Builtin(name); ok {
		return s, nil
	}
	return palette.Scheme{}, fmt.Errorf("unknown palette %q (builtins: vivid, bright, classic, grayscale)", name)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Palette:    palette.DefaultName,
		UI: UIConfig{
			ShowDiagnostics: true,
			MarkdownStyle:   "dark",
			Mouse:           true,
		},
		Export: ExportConfig{
			Format: "html",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# eqtint Configuration

# Reload the preview automatically when the source document changes
auto_reload: true

# Active palette for term colors (run 'eqtint palettes' to see them)
# Builtins: vivid (default), bright, classic, grayscale
palette: vivid

# UI settings
ui:
  show_diagnostics: true  # Show parse errors/warnings in the preview footer
  # markdown_style: dark  # Definition rendering style: "dark" (default) or "light"
  mouse: true             # Enable mouse hover/click on terms in the preview

# Export defaults (overridable per invocation with -f / -o)
export:
  format: html            # html, latex, beamer, or typst
  # output_dir: ./out

# Custom palettes - colors are assigned to terms positionally, in
# first-appearance order within the equation
# palettes:
#   - name: ocean
#     colors:
#       - "#54A0FF"
#       - "#22D3EE"
#       - "#818CF8"
#       - "#34D399"

# Distributed tracing configuration
# Enables end-to-end visibility into parse and export pipelines
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/eqtint/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
