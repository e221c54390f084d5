// Package chart renders prediction charts as PNG images.
package chart

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	riskColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	thresholdColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Ensure Renderer implements the interface.
var _ driven.ChartRenderer = (*Renderer)(nil)

// Renderer draws charts with gonum/plot.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing DefaultWidth x DefaultHeight images.
func NewRenderer() *Renderer {
	return &Renderer{width: DefaultWidth, height: DefaultHeight}
}

// RenderRiskTrend draws risk % against row index with a dashed threshold line.
func (r *Renderer) RenderRiskTrend(w io.Writer, risks []float64, threshold float64) error {
	p := plot.New()
	p.Title.Text = "Risk Trend"
	p.X.Label.Text = "Row"
	p.Y.Label.Text = "Failure Risk (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())

	if len(risks) > 0 {
		pts := make(plotter.XYs, len(risks))
		for i, risk := range risks {
			pts[i].X = float64(i)
			pts[i].Y = risk
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("risk line: %w", err)
		}
		line.LineStyle.Color = riskColor
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("Failure Risk (%)", line)
	}

	end := float64(max(len(risks)-1, 1))
	limit, err := plotter.NewLine(plotter.XYs{{X: 0, Y: threshold}, {X: end, Y: threshold}})
	if err != nil {
		return fmt.Errorf("threshold line: %w", err)
	}
	limit.LineStyle.Color = thresholdColor
	limit.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	p.Add(limit)
	p.Legend.Add(fmt.Sprintf("Threshold (%g%%)", threshold), limit)
	p.Legend.Top = true

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
