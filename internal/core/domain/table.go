package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names appended to every prediction output.
const (
	PredictedFailureColumn = "Predicted Failure"
	FailureRiskColumn      = "Failure Risk (%)"
)

// DefaultLabelColumn is the ground-truth column left out of model input.
const DefaultLabelColumn = "fail"

// DefaultRiskThreshold is the risk percentage above which a row is high risk.
const DefaultRiskThreshold = 80.0

// Table is a tabular dataset with named columns.
// Cells keep their original text so an exported table reproduces the
// uploaded values exactly.
//
// Operations on Table never modify their input. Row slices may be shared
// between an input table and the tables derived from it, so callers must
// treat cells as read-only.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates a table from column names and rows.
func NewTable(columns []string, rows [][]string) *Table {
	if rows == nil {
		rows = [][]string{}
	}
	return &Table{Columns: columns, Rows: rows}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Select returns a table holding the named columns in the given order.
func (t *Table) Select(columns []string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, name := range columns {
		idx[i] = t.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("column %q: %w", name, ErrNotFound)
		}
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]string, len(idx))
		for i, j := range idx {
			out[i] = row[j]
		}
		rows[r] = out
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return NewTable(cols, rows), nil
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return NewTable(t.Columns, t.Rows[:n])
}

// NormalizeColumns returns the table with leading and trailing whitespace
// removed from every column name. Column order and rows are unchanged.
func NormalizeColumns(t *Table) *Table {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = strings.TrimSpace(c)
	}
	return NewTable(cols, t.Rows)
}

// IsLabelColumn reports whether a column name is the label column,
// compared case-insensitively.
func IsLabelColumn(name, label string) bool {
	return strings.ToLower(name) == strings.ToLower(label)
}

// DeriveFeatures returns every column except those whose lowercased name
// equals the lowercased label. Column and row order are preserved.
// When no column matches, t itself is returned.
func DeriveFeatures(t *Table, label string) *Table {
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !IsLabelColumn(c, label) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Columns) {
		return t
	}

	cols := make([]string, len(keep))
	for i, j := range keep {
		cols[i] = t.Columns[j]
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]string, len(keep))
		for i, j := range keep {
			out[i] = row[j]
		}
		rows[r] = out
	}
	return NewTable(cols, rows)
}

// RiskPercent converts a positive-class probability to a percentage
// rounded to two decimals, halves to even.
func RiskPercent(p float64) float64 {
	return math.RoundToEven(p*100*100) / 100
}

// FormatRisk renders a risk percentage the way it is written to CSV.
// Whole numbers keep one decimal ("80.0").
func FormatRisk(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// Annotate returns the table with the Predicted Failure and Failure Risk (%)
// columns appended, aligned with rows by position. Risk scores are
// probabilities in [0,1]. If the table already carries either column its
// values are replaced in place.
func Annotate(t *Table, labels []string, risks []float64) (*Table, error) {
	if len(labels) != len(t.Rows) || len(risks) != len(t.Rows) {
		return nil, fmt.Errorf("%w: %d rows, %d labels, %d risk scores",
			ErrPredictionShape, len(t.Rows), len(labels), len(risks))
	}

	cols := make([]string, len(t.Columns), len(t.Columns)+2)
	copy(cols, t.Columns)

	labelIdx := t.ColumnIndex(PredictedFailureColumn)
	if labelIdx < 0 {
		labelIdx = len(cols)
		cols = append(cols, PredictedFailureColumn)
	}
	riskIdx := t.ColumnIndex(FailureRiskColumn)
	if riskIdx < 0 {
		riskIdx = len(cols)
		cols = append(cols, FailureRiskColumn)
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		out := make([]string, len(cols))
		copy(out, row)
		out[labelIdx] = labels[r]
		out[riskIdx] = FormatRisk(RiskPercent(risks[r]))
		rows[r] = out
	}
	return NewTable(cols, rows), nil
}

// SelectHighRisk returns the rows whose Failure Risk (%) is strictly
// greater than threshold. A row at exactly the threshold is not selected.
func SelectHighRisk(t *Table, threshold float64) (*Table, error) {
	cells, ok := t.Column(FailureRiskColumn)
	if !ok {
		return nil, ErrRiskColumnMissing
	}

	rows := make([][]string, 0)
	for r, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: %q", r+1, ErrNonNumeric, cell)
		}
		if v > threshold {
			rows = append(rows, t.Rows[r])
		}
	}
	return NewTable(t.Columns, rows), nil
}
