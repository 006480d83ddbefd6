package tracing

// Span attribute keys for the annotation pipelines. These constants define
// the semantic conventions used across parse and export spans.
const (
	// Document attributes
	AttrDocumentPath  = "document.path"
	AttrDocumentBytes = "document.bytes"
	AttrDocumentTitle = "document.title"

	// Parse attributes
	AttrTermCount       = "parse.terms"
	AttrDefinitionCount = "parse.definitions"
	AttrErrorCount      = "parse.errors"
	AttrWarningCount    = "parse.warnings"
	AttrCacheHit        = "parse.cache_hit"

	// Export attributes
	AttrExportFormat = "export.format"
	AttrExportBytes  = "export.bytes"
	AttrOutputPath   = "export.output_path"

	// Palette attributes
	AttrPaletteName = "palette.name"
	AttrPaletteSize = "palette.colors"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names for the pipeline stages.
const (
	SpanParse    = "annot.parse"
	SpanValidate = "annot.validate"
	SpanExport   = "export.render"
	SpanWrite    = "export.write"
)
