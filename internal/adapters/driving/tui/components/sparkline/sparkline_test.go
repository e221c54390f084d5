package sparkline

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, Render(nil, 10))
	assert.Empty(t, Render([]float64{50}, 0))
}

func TestRender_Scale(t *testing.T) {
	assert.Equal(t, "▁▁▅█", Render([]float64{-5, 0, 50, 100}, 10))
	assert.Equal(t, "█", Render([]float64{250}, 10))
	assert.Equal(t, "▇", Render([]float64{80}, 10))
	assert.Equal(t, "▁", Render([]float64{12.4}, 10))
}

func TestRender_DownsamplesByMax(t *testing.T) {
	values := []float64{0, 0, 0, 100, 0, 0}

	got := Render(values, 3)

	assert.Equal(t, 3, utf8.RuneCountInString(got))
	assert.Equal(t, "▁█▁", got)
}

func TestSparkline_View(t *testing.T) {
	s := New(nil, 20)
	assert.Empty(t, s.View())

	s.SetValues([]float64{10, 80})
	assert.Contains(t, s.View(), "▁▇")

	s.SetWidth(1)
	assert.Contains(t, s.View(), "▇")
}
