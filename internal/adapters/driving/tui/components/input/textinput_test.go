package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathInput(t *testing.T) {
	in := NewPathInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
}

func TestPathInput_TypesRunes(t *testing.T) {
	in := NewPathInput(nil)

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("data.csv")})

	assert.Equal(t, "data.csv", in.Value())
}

func TestPathInput_Path(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"sensors.csv", "sensors.csv"},
		{"  sensors.csv  ", "sensors.csv"},
		{`"/tmp/my data.csv"`, "/tmp/my data.csv"},
		{"'/tmp/my data.csv'", "/tmp/my data.csv"},
		{`"mismatched'`, `"mismatched'`},
		{`"`, `"`},
		{"", ""},
	}
	in := NewPathInput(nil)
	for _, tt := range tests {
		in.SetValue(tt.value)
		assert.Equal(t, tt.want, in.Path(), "value %q", tt.value)
	}
}

func TestPathInput_FocusAndBlur(t *testing.T) {
	in := NewPathInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestPathInput_SetWidth(t *testing.T) {
	in := NewPathInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 86, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestPathInput_ResetAndView(t *testing.T) {
	in := NewPathInput(nil)
	in.SetValue("x.csv")

	in.Reset()

	assert.Empty(t, in.Value())
	assert.Contains(t, in.View(), "CSV file:")
}
