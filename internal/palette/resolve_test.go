package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestColorFor(t *testing.T) {
	s := Scheme{Name: "p", Colors: []string{"#111111", "#222222", "#333333"}}
	order := []string{"a", "b", "c"}

	for i, term := range order {
		color, err := ColorFor(term, order, s)
		require.NoError(t, err)
		assert.Equal(t, s.Colors[i], color)
	}
}

func TestColorFor_UnknownTerm(t *testing.T) {
	s := Scheme{Name: "p", Colors: []string{"#111111"}}
	_, err := ColorFor("ghost", []string{"a"}, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTerm)
}

func TestColorFor_PaletteExhausted(t *testing.T) {
	s := Scheme{Name: "p", Colors: []string{"#111111"}}
	_, err := ColorFor("b", []string{"a", "b"}, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaletteExhausted)
	assert.Contains(t, err.Error(), `"p"`)
}

func TestColorFor_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "terms")
		order := make([]string, n)
		for i := range order {
			order[i] = string(rune('a' + i))
		}
		colors := make([]string, rapid.IntRange(n, 12).Draw(rt, "colors"))
		for i := range colors {
			colors[i] = "#111111"
		}
		s := Scheme{Name: "p", Colors: colors}
		term := order[rapid.IntRange(0, n-1).Draw(rt, "pick")]

		first, err := ColorFor(term, order, s)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := ColorFor(term, order, s)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	})
}
