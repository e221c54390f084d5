// Package summary describes uploaded tables with gota dataframes.
package summary

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// TypeEmpty marks the columns of a table with no rows.
const TypeEmpty = "empty"

// Ensure Summariser implements the interface.
var _ driven.TableSummariser = (*Summariser)(nil)

// Summariser implements driven.TableSummariser.
type Summariser struct{}

// NewSummariser creates a summariser.
func NewSummariser() *Summariser {
	return &Summariser{}
}

// Summarise keeps the first head rows of t and computes count, mean,
// standard deviation, min and max for every numeric column.
func (s *Summariser) Summarise(t *domain.Table, head int) (*domain.Summary, error) {
	summary := &domain.Summary{
		Rows:    t.NumRows(),
		Head:    t.Head(head),
		Columns: make([]domain.ColumnSummary, len(t.Columns)),
	}

	if t.NumRows() == 0 {
		for i, name := range t.Columns {
			summary.Columns[i] = domain.ColumnSummary{Name: name, Type: TypeEmpty}
		}
		return summary, nil
	}

	records := make([][]string, 0, t.NumRows()+1)
	records = append(records, t.Columns)
	records = append(records, t.Rows...)
	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return nil, fmt.Errorf("loading dataframe: %w", df.Err)
	}

	// gota renames blank and duplicate headers, so columns are matched by position
	for i, name := range df.Names() {
		summary.Columns[i] = describe(t.Columns[i], df.Col(name))
	}
	return summary, nil
}

func describe(name string, col series.Series) domain.ColumnSummary {
	cs := domain.ColumnSummary{Name: name, Type: string(col.Type())}
	if col.Type() != series.Int && col.Type() != series.Float {
		cs.Count = nonEmpty(col)
		return cs
	}

	values := make([]float64, 0, col.Len())
	for _, v := range col.Float() {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	cs.Numeric = true
	cs.Count = len(values)
	if len(values) == 0 {
		return cs
	}

	present := series.Floats(values)
	cs.Mean = present.Mean()
	cs.Std = present.StdDev()
	cs.Min = present.Min()
	cs.Max = present.Max()
	return cs
}

func nonEmpty(col series.Series) int {
	n := 0
	for i, isNaN := range col.IsNaN() {
		if !isNaN && col.Elem(i).String() != "" {
			n++
		}
	}
	return n
}
