package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer(), "disabled provider still hands out a usable tracer")
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_FileRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_path required")
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter")
}

func TestNewProvider_NoneExporter(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	assert.True(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_FileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	p, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   "file",
		FilePath:   path,
		SampleRate: 1.0,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, span := p.Tracer().Start(ctx, SpanParse)
	span.End()

	require.NoError(t, p.Shutdown(ctx))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	require.True(t, scanner.Scan(), "expected at least one span record")

	var record SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
	assert.Equal(t, SpanParse, record.Name)
	assert.Len(t, record.TraceID, 32)
	assert.Len(t, record.SpanID, 16)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "file", cfg.Exporter)
	assert.Equal(t, "eqtint", cfg.ServiceName)
	assert.Equal(t, 1.0, cfg.SampleRate)
}
