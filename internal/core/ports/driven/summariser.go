package driven

import "github.com/custodia-labs/failcast/internal/core/domain"

// TableSummariser produces the preview shown before prediction results.
type TableSummariser interface {
	// Summarise describes t, keeping its first head rows.
	Summarise(t *domain.Table, head int) (*domain.Summary, error)
}
