package services

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable parses CSV with a mandatory header row.
// A header with no data rows is a valid empty table.
func ReadTable(r io.Reader) (*domain.Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCSV, err)
	}

	rows := make([][]string, 0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCSV, err)
		}
		rows = append(rows, rec)
	}

	return domain.NewTable(header, rows), nil
}

// WriteTable writes t as UTF-8 CSV with a header row and no index column.
func WriteTable(w io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}
