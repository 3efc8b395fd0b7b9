package reader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// isXLSX checks the ZIP magic bytes (PK\x03\x04) an xlsx starts with.
func isXLSX(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}

// isOLE2 checks the compound-document magic bytes of legacy .xls files.
func isOLE2(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == 0xD0 && data[1] == 0xCF && data[2] == 0x11 && data[3] == 0xE0
}

// readWorkbook reads the first sheet of an xlsx workbook as a string
// matrix. Cell values arrive already formatted by excelize, so numeric
// and date cells come through as text.
func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("readWorkbook: open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("readWorkbook: workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("readWorkbook: read rows: %w", err)
	}
	return rows, nil
}
