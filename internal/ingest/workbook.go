// internal/ingest/workbook.go
package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads the first sheet of an uploaded .xlsx/.xls workbook
// into raw rows: header row first, then one RawRow per data row. An
// unreadable file, a sheetless workbook, or a sheet with no data rows is
// an input-shape error and fails the whole request.
func ReadWorkbook(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unreadable workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	var header []string
	var out []RawRow
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheets[0], err)
		}

		if header == nil {
			header = cols
			continue
		}

		if rowIsBlank(cols) {
			continue
		}

		raw := make(RawRow, len(header))
		for i, h := range header {
			if strings.TrimSpace(h) == "" {
				continue
			}
			var val string
			if i < len(cols) {
				val = cols[i]
			}
			raw[h] = val
		}
		out = append(out, raw)
	}

	if header == nil {
		return nil, fmt.Errorf("workbook is empty")
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("workbook has no data rows")
	}

	return out, nil
}

func rowIsBlank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
