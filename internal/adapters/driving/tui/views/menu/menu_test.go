package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
)

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.keymap)
	assert.Len(t, view.Items(), 6)
	assert.Equal(t, 0, view.Selected())
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	assert.NotNil(t, view.styles)
	assert.Nil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
	assert.Equal(t, 50, view.height)
}

func TestView_Update_Navigate(t *testing.T) {
	view := NewView(nil, nil)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.Selected())

	j := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	for i := 0; i < 10; i++ {
		view.Update(j)
	}
	assert.Equal(t, 5, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 4, view.Selected())

	k := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	for i := 0; i < 10; i++ {
		view.Update(k)
	}
	assert.Equal(t, 0, view.Selected())
}

func TestView_Update_SelectEmitsViewChanged(t *testing.T) {
	tests := []struct {
		pos  int
		want messages.ViewType
	}{
		{0, messages.ViewPredict},
		{1, messages.ViewAbout},
		{2, messages.ViewHistory},
		{3, messages.ViewSettings},
		{4, messages.ViewHelp},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			view := NewView(nil, nil)
			view.selected = tt.pos

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)

			assert.Equal(t, messages.ViewChanged{View: tt.want}, cmd())
		})
	}
}

func TestView_Update_SelectQuit(t *testing.T) {
	view := NewView(nil, nil)
	view.selected = 5

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Update_QKeyQuits(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)

	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, nil)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	out := view.View()

	assert.Contains(t, out, "failcast")
	assert.Contains(t, out, "Machine Failure Prediction")
	assert.Contains(t, out, "> Predict")
	assert.Contains(t, out, "Quit")
	assert.Contains(t, out, "Score a CSV of sensor readings")
}

func TestView_View_DescriptionFollowsSelection(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view.Update(tea.KeyMsg{Type: tea.KeyDown})

	out := view.View()
	assert.Contains(t, out, "Recent prediction runs")
	assert.NotContains(t, out, "Score a CSV of sensor readings")
}

func TestView_SetModelLine(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)

	assert.NotContains(t, view.View(), "logistic")

	view.SetModelLine("logistic model, 4 features")
	assert.Contains(t, view.View(), "logistic model, 4 features")
}

func TestItems_HaveDescriptions(t *testing.T) {
	for _, item := range NewView(nil, nil).Items() {
		assert.NotEmpty(t, item.Description, item.Label)
	}
}
