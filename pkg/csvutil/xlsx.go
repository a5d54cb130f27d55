package csvutil

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// readXLSX materialises the first sheet of a workbook. Line numbers are sheet row numbers.
func readXLSX(path string) ([]rawRecord, error) {
	f, err := excelize.OpenFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	out := make([]rawRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		out = append(out, rawRecord{line: i + 1, fields: row})
	}
	return out, nil
}
