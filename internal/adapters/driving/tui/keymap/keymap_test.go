package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"quit", km.Quit.Keys(), []string{"q", "ctrl+c"}},
		{"help", km.Help.Keys(), []string{"?"}},
		{"back", km.Back.Keys(), []string{"esc"}},
		{"submit", km.Submit.Keys(), []string{"enter"}},
		{"up", km.Up.Keys(), []string{"up", "k"}},
		{"down", km.Down.Keys(), []string{"down", "j"}},
		{"new file", km.NewFile.Keys(), []string{"n"}},
		{"export", km.Export.Keys(), []string{"e"}},
		{"high risk", km.HighRiskOnly.Keys(), []string{"h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.keys)
		})
	}
}

func TestKeyMap_ResultsHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ResultsHelp()

	require.Len(t, help, 5)
	assert.Equal(t, "export csv", help[1].Help().Desc)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()

	assert.Len(t, groups, 3)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("e", km.Export))
	assert.True(t, Matches("k", km.Up))
	assert.False(t, Matches("x", km.Export))
}
