package driven

import "io"

// ChartRenderer draws the risk trend of a prediction.
type ChartRenderer interface {
	// RenderRiskTrend writes a PNG line chart of risk percentages by row,
	// with the high-risk threshold marked.
	RenderRiskTrend(w io.Writer, risks []float64, threshold float64) error
}
