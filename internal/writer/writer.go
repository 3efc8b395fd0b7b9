// Package writer serializes canonical record sequences into the
// six-column delimited output consumed downstream.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvloznov/statement-normalizer/internal/normalizer"
)

// Write serializes records as CSV with the canonical header row. Numeric
// amounts render in plain decimal form, absent fields as empty strings.
func Write(w io.Writer, records []normalizer.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(normalizer.CanonicalFields); err != nil {
		return fmt.Errorf("Write: header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.Fields()); err != nil {
			return fmt.Errorf("Write: record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("Write: flush: %w", err)
	}
	return nil
}

// WriteFile writes records to <outdir>/normalized_<stem>.csv, where stem
// is the source file's base name without extension. The output directory
// is created if missing. Returns the path written.
func WriteFile(outdir, sourcePath string, records []normalizer.Record) (string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", fmt.Errorf("WriteFile: create outdir: %w", err)
	}

	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outPath := filepath.Join(outdir, "normalized_"+stem+".csv")

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("WriteFile: create output: %w", err)
	}
	defer f.Close()

	if err := Write(f, records); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("WriteFile: close output: %w", err)
	}
	return outPath, nil
}
