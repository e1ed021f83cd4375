package service

import (
	"time"

	"tindahan-pos/pkg/validator"

	"github.com/xuri/excelize/v2"
)

// sheetRows is one worksheet: a heading row followed by data rows
type sheetRows struct {
	Name     string
	Headings []string
	Rows     [][]interface{}
}

// buildWorkbook writes each sheet in order; the default "Sheet1" is renamed to the first one
func buildWorkbook(sheets ...sheetRows) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, err
		}

		headings := make([]interface{}, len(sheet.Headings))
		for j, h := range sheet.Headings {
			headings[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &headings); err != nil {
			return nil, err
		}

		for j, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return nil, err
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func cellDate(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format(validator.DateLayout)
}

func cellString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cellUint(id *uint) interface{} {
	if id == nil {
		return ""
	}
	return *id
}
