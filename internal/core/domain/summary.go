package domain

// Summary describes an uploaded table before prediction.
type Summary struct {
	Rows    int
	Head    *Table
	Columns []ColumnSummary
}

// ColumnSummary holds descriptive statistics for one column.
// Statistics are only set when Numeric is true.
type ColumnSummary struct {
	Name    string
	Type    string
	Numeric bool
	Count   int
	Mean    float64
	Std     float64
	Min     float64
	Max     float64
}
