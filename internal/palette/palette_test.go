package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	s, ok := Builtin("vivid")
	require.True(t, ok)
	assert.Equal(t, "vivid", s.Name)
	assert.Len(t, s.Colors, 10)

	_, ok = Builtin("nonexistent")
	assert.False(t, ok)
}

func TestBuiltins_SortedAndValid(t *testing.T) {
	schemes := Builtins()
	require.NotEmpty(t, schemes)

	var prev string
	for _, s := range schemes {
		assert.Greater(t, s.Name, prev, "schemes should be sorted by name")
		prev = s.Name
		assert.NoError(t, Validate(s))
	}
}

func TestDefaultIsBuiltin(t *testing.T) {
	_, ok := Builtin(DefaultName)
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		wantErr string
	}{
		{"valid six digit", Scheme{Name: "p", Colors: []string{"#FF8787"}}, ""},
		{"valid three digit", Scheme{Name: "p", Colors: []string{"#F87"}}, ""},
		{"missing name", Scheme{Colors: []string{"#FF8787"}}, "name is required"},
		{"no colors", Scheme{Name: "p"}, "no colors"},
		{"missing hash", Scheme{Name: "p", Colors: []string{"FF8787"}}, "not a hex color"},
		{"bad length", Scheme{Name: "p", Colors: []string{"#FF87"}}, "not a hex color"},
		{"bad digits", Scheme{Name: "p", Colors: []string{"#GGGGGG"}}, "not a hex color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.scheme)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: ocean\ncolors:\n  - \"#54A0FF\"\n  - \"#22D3EE\"\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ocean", s.Name)
	assert.Equal(t, []string{"#54A0FF", "#22D3EE"}, s.Colors)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading palette file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing palette file")
	})

	t.Run("fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: p\ncolors:\n  - notacolor\n"), 0o644))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a hex color")
	})
}
