package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"eqtint/internal/annot"
	"eqtint/internal/export"
	"eqtint/internal/log"
	"eqtint/internal/tracing"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Render an annotated document to HTML, LaTeX, Beamer, or Typst",
	Long: `Export parses the document, resolves every term's palette color, and
writes the rendered output next to the source file (or to --output).
Documents with validation errors are refused.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "",
		fmt.Sprintf("output format: %s (default from config)", strings.Join(export.Formats(), ", ")))
	exportCmd.Flags().StringP("output", "o", "",
		"output file path (default: source name with the format's extension)")
	exportCmd.Flags().StringP("palette", "p", "",
		"palette to color with (overrides config)")
	exportCmd.Flags().Bool("check", false,
		"compare against the existing output file and fail on drift instead of writing")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	path := args[0]
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Export.Format
	}
	ext, err := export.Extension(format)
	if err != nil {
		return err
	}

	paletteName, _ := cmd.Flags().GetString("palette")
	scheme, err := cfg.SchemeFor(paletteName)
	if err != nil {
		return err
	}

	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	ctx := tracing.ContextWithTraceID(context.Background(), tracing.GenerateTraceID())
	log.Debug(log.CatTrace, "export pipeline started",
		"trace_id", tracing.TraceIDFromContext(ctx), "path", path, "format", format)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()
	tracer := provider.Tracer()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's own document
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	ctx, parseSpan := tracer.Start(ctx, tracing.SpanParse)
	content := annot.Parse(string(data))
	parseSpan.SetAttributes(
		attribute.String(tracing.AttrDocumentPath, path),
		attribute.Int(tracing.AttrDocumentBytes, len(data)),
		attribute.String(tracing.AttrDocumentTitle, content.Title),
		attribute.Int(tracing.AttrTermCount, len(content.TermOrder)),
		attribute.Int(tracing.AttrDefinitionCount, len(content.Definitions)),
		attribute.Int(tracing.AttrErrorCount, len(content.Errors)),
		attribute.Int(tracing.AttrWarningCount, len(content.Warnings)),
	)
	parseSpan.End()

	for _, w := range content.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if len(content.Errors) > 0 {
		for _, e := range content.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
		}
		return fmt.Errorf("%s has %d validation error(s)", path, len(content.Errors))
	}

	ctx, renderSpan := tracer.Start(ctx, tracing.SpanExport)
	renderSpan.SetAttributes(
		attribute.String(tracing.AttrExportFormat, format),
		attribute.String(tracing.AttrPaletteName, scheme.Name),
		attribute.Int(tracing.AttrPaletteSize, len(scheme.Colors)),
	)
	rendered, err := export.Export(format, content, scheme)
	if err != nil {
		renderSpan.SetStatus(codes.Error, err.Error())
		renderSpan.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		renderSpan.End()
		return err
	}
	renderSpan.SetAttributes(attribute.Int(tracing.AttrExportBytes, len(rendered)))
	renderSpan.End()

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = outputPath(path, ext)
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		return checkDrift(cmd, outPath, rendered)
	}

	_, writeSpan := tracer.Start(ctx, tracing.SpanWrite)
	writeSpan.SetAttributes(attribute.String(tracing.AttrOutputPath, outPath))
	err = os.WriteFile(outPath, []byte(rendered), 0o644) //nolint:gosec // G306: rendered document, not a secret
	if err != nil {
		writeSpan.SetStatus(codes.Error, err.Error())
		writeSpan.End()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	writeSpan.End()

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(rendered))
	return nil
}

// outputPath places the rendered file next to the source, or under the
// configured output directory, swapping in the format's extension.
func outputPath(source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ext
	if cfg.Export.OutputDir != "" {
		return filepath.Join(cfg.Export.OutputDir, base)
	}
	return filepath.Join(filepath.Dir(source), base)
}

// checkDrift compares the freshly rendered output against what is on disk
// and fails with a line diff when they differ. A missing file counts as
// drift.
func checkDrift(cmd *cobra.Command, outPath, rendered string) error {
	existing, err := os.ReadFile(outPath) //nolint:gosec // G304: derived output path
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist; run export without --check to create it", outPath)
		}
		return fmt.Errorf("reading %s: %w", outPath, err)
	}
	if string(existing) == rendered {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", outPath)
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(existing), rendered, true)
	dmp.DiffCleanupSemantic(diffs)
	fmt.Fprint(cmd.ErrOrStderr(), dmp.DiffPrettyText(diffs))
	return fmt.Errorf("%s is out of date", outPath)
}
