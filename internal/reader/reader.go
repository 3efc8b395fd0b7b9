// Package reader decodes statement exports (xlsx workbooks, delimited
// text) into the raw cell matrix the normalizer consumes. All rows are
// returned as they appear in the file, banner rows included; header
// detection is the normalizer's job.
package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFile decodes a statement file into a raw string matrix. The
// format is chosen by content first (xlsx magic bytes), then by file
// extension for delimited text.
func ReadFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: %w", err)
	}
	return ReadBytes(data, filepath.Ext(path))
}

// ReadBytes decodes raw file bytes; ext is the file extension used when
// content sniffing is inconclusive. An unsupported type is the only
// fatal condition here.
func ReadBytes(data []byte, ext string) ([][]string, error) {
	if isXLSX(data) {
		return readWorkbook(data)
	}
	if isOLE2(data) {
		return nil, fmt.Errorf("ReadBytes: legacy .xls (OLE2) workbooks are not supported, convert to .xlsx")
	}
	switch strings.ToLower(ext) {
	case ".csv", ".tsv", ".txt":
		return readDelimited(data)
	case ".xlsx":
		return readWorkbook(data)
	default:
		return nil, fmt.Errorf("ReadBytes: unsupported file type %q", ext)
	}
}
