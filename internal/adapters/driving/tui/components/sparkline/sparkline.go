// Package sparkline renders a compact risk trend using block characters.
package sparkline

import (
	"strings"

	"github.com/custodia-labs/failcast/internal/adapters/driving/tui/styles"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws risk percentages on a fixed 0..100 scale.
type Sparkline struct {
	styles *styles.Styles
	values []float64
	width  int
}

// New creates a sparkline with the given width in cells.
func New(s *styles.Styles, width int) *Sparkline {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Sparkline{styles: s, width: width}
}

// SetValues replaces the plotted values.
func (s *Sparkline) SetValues(values []float64) {
	s.values = values
}

// SetWidth sets the maximum number of cells.
func (s *Sparkline) SetWidth(width int) {
	s.width = width
}

// View renders the sparkline, or "" when there is nothing to draw.
func (s *Sparkline) View() string {
	line := Render(s.values, s.width)
	if line == "" {
		return ""
	}
	return s.styles.Sparkline.Render(line)
}

// Render returns the unstyled sparkline for values. When there are more
// values than width, each cell shows the maximum of the values it covers
// so that spikes stay visible.
func Render(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	cells := downsample(values, width)

	var b strings.Builder
	for _, v := range cells {
		b.WriteRune(block(v))
	}
	return b.String()
}

func downsample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		peak := values[start]
		for _, v := range values[start+1 : end] {
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
	}
	return out
}

func block(v float64) rune {
	if v <= 0 {
		return blocks[0]
	}
	if v >= 100 {
		return blocks[len(blocks)-1]
	}
	idx := int(v / 100 * float64(len(blocks)))
	if idx >= len(blocks) {
		idx = len(blocks) - 1
	}
	return blocks[idx]
}
