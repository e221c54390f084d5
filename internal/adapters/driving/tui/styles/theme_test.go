package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme_RiskColoursDistinct(t *testing.T) {
	theme := DefaultTheme()

	palette := []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error}
	seen := make(map[string]bool)
	for _, c := range palette {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[string(c)], "duplicate colour: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestNewStyles_KeepsTheme(t *testing.T) {
	theme := DefaultTheme()

	assert.Same(t, theme, NewStyles(theme).Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Title":      s.Title,
		"Subtitle":   s.Subtitle,
		"Normal":     s.Normal,
		"Muted":      s.Muted,
		"Selected":   s.Selected,
		"Error":      s.Error,
		"Success":    s.Success,
		"Warning":    s.Warning,
		"HighRisk":   s.HighRisk,
		"Elevated":   s.Elevated,
		"Sparkline":  s.Sparkline,
		"InputField": s.InputField,
		"StatusBar":  s.StatusBar,
		"Help":       s.Help,
		"Border":     s.Border,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
		assert.Contains(t, style.Render("risk"), "risk", name)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		risk, threshold float64
		want            RiskBand
	}{
		{0, 80, BandLow},
		{40, 80, BandLow},
		{40.01, 80, BandElevated},
		{80, 80, BandElevated},
		{80.01, 80, BandHigh},
		{100, 80, BandHigh},
		{30, 50, BandElevated},
		{51, 50, BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.risk, tt.threshold), "risk=%v threshold=%v", tt.risk, tt.threshold)
	}
}

func TestRiskBand_String(t *testing.T) {
	assert.Equal(t, "low", BandLow.String())
	assert.Equal(t, "elevated", BandElevated.String())
	assert.Equal(t, "high", BandHigh.String())
}

func TestStyles_ForBand(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.HighRisk, s.ForBand(BandHigh))
	assert.Equal(t, s.Elevated, s.ForBand(BandElevated))
	assert.Equal(t, s.Normal, s.ForBand(BandLow))
}
