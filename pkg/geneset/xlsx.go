package geneset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet pairs a worksheet name with its table.
type Sheet struct {
	Name  string
	Table Table
}

func setRow(xlsx *excelize.File, sheet string, row int, fields []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	var value = make([]interface{}, len(fields))
	for i, f := range fields {
		value[i] = f
	}
	return xlsx.SetSheetRow(sheet, cell, &value)
}

func buildWorkbook(sheets []Sheet) (*excelize.File, error) {
	var xlsx = excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := xlsx.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, fmt.Errorf("geneset: rename sheet: %w", err)
			}
		} else {
			if _, err := xlsx.NewSheet(s.Name); err != nil {
				return nil, fmt.Errorf("geneset: new sheet %s: %w", s.Name, err)
			}
		}
		if err := setRow(xlsx, s.Name, 1, s.Table.Header); err != nil {
			return nil, fmt.Errorf("geneset: write header of %s: %w", s.Name, err)
		}
		for rIdx, row := range s.Table.Rows {
			if err := setRow(xlsx, s.Name, rIdx+2, row); err != nil {
				return nil, fmt.Errorf("geneset: write row %d of %s: %w", rIdx+2, s.Name, err)
			}
		}
	}
	return xlsx, nil
}

// WriteXlsx streams a workbook with one worksheet per sheet to w, header row
// first.
func WriteXlsx(w io.Writer, sheets []Sheet) error {
	xlsx, err := buildWorkbook(sheets)
	if err != nil {
		return err
	}
	if err := xlsx.Write(w); err != nil {
		return fmt.Errorf("geneset: write workbook: %w", err)
	}
	return nil
}

// SaveXlsx writes the workbook to path.
func SaveXlsx(path string, sheets []Sheet) error {
	xlsx, err := buildWorkbook(sheets)
	if err != nil {
		return err
	}
	return xlsx.SaveAs(path)
}
