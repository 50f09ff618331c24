package document

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type SpreadsheetReader struct{}

func NewSpreadsheetReader() *SpreadsheetReader {
	return &SpreadsheetReader{}
}

// Read loads a spreadsheet container into a Workbook. The first non-empty row
// of each sheet is taken as the header row; remaining rows become data rows
// numbered from 1.
func (sr *SpreadsheetReader) Read(data []byte) (*Workbook, error) {
	const op = "document.SpreadsheetReader.Read"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Msg: "file cannot be read as a spreadsheet", Err: fmt.Errorf("%s: %w", op, err)}
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, &FormatError{Msg: "spreadsheet contains no sheets"}
	}

	wb := &Workbook{}
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, &FormatError{Msg: fmt.Sprintf("cannot read sheet %q", name), Err: fmt.Errorf("%s: %w", op, err)}
		}

		sheet := Sheet{Name: name}
		var headers []string
		dataIdx := 0
		for _, raw := range rows {
			if headers == nil {
				if rowEmpty(raw) {
					continue
				}
				headers = raw
				continue
			}
			if rowEmpty(raw) {
				continue
			}

			dataIdx++
			cells := make(map[string]string, len(headers))
			for i, h := range headers {
				if h == "" {
					continue
				}
				if i < len(raw) {
					cells[h] = raw[i]
				} else {
					cells[h] = ""
				}
			}
			sheet.Rows = append(sheet.Rows, NewRow(dataIdx, cells))
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
