package loader

import (
	"fmt"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool { return hasExt(filename, ".xlsx", ".xlsm") }

// Load reads the selected sheet; the first non-empty row is the header.
func (xlsxLoader) Load(path string, opt Options) ([]record.RawObservation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		return fromTable(row, rows[i+1:]), nil
	}
	return nil, nil
}
