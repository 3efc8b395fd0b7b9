package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvloznov/statement-normalizer/internal/bq"
	"github.com/dvloznov/statement-normalizer/internal/gcsio"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/normalizer"
	"github.com/dvloznov/statement-normalizer/internal/reader"
	"github.com/dvloznov/statement-normalizer/internal/writer"
)

// FetchStep loads the statement bytes from the local filesystem or GCS.
type FetchStep struct{}

func (s *FetchStep) Execute(ctx context.Context, state *State) error {
	input := state.Opts.Input

	if gcsio.IsURI(input) {
		if state.Opts.Storage == nil {
			return fmt.Errorf("FetchStep: gs:// input needs a storage service")
		}
		data, err := state.Opts.Storage.FetchStatement(ctx, input)
		if err != nil {
			return err
		}
		state.RawBytes = data
		state.SourceName = gcsio.FilenameFromURI(input)
		return nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("FetchStep: %w", err)
	}
	state.RawBytes = data
	state.SourceName = filepath.Base(input)
	return nil
}

// DecodeStep turns the raw bytes into the cell matrix.
type DecodeStep struct{}

func (s *DecodeStep) Execute(ctx context.Context, state *State) error {
	matrix, err := reader.ReadBytes(state.RawBytes, filepath.Ext(state.SourceName))
	if err != nil {
		return err
	}
	state.Matrix = matrix
	return nil
}

// NormalizeStep runs the header-detection engine over the matrix.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	state.Records = normalizer.NormalizeWithScanLimit(state.Matrix, state.Opts.ScanLimit)

	log := logger.FromContext(ctx)
	log.Debug().
		Int("rows", len(state.Matrix)).
		Int("records", len(state.Records)).
		Msg("Matrix normalized")
	return nil
}

// WriteStep writes the normalized CSV next to the other outputs.
type WriteStep struct{}

func (s *WriteStep) Execute(ctx context.Context, state *State) error {
	outPath, err := writer.WriteFile(state.Opts.OutDir, state.SourceName, state.Records)
	if err != nil {
		return err
	}
	state.OutPath = outPath
	return nil
}

// UploadStep copies the normalized CSV to the configured bucket. Skipped
// when no bucket is configured.
type UploadStep struct{}

func (s *UploadStep) Execute(ctx context.Context, state *State) error {
	bucket := state.Opts.UploadBucket
	if bucket == "" {
		return nil
	}
	if state.Opts.Storage == nil {
		return fmt.Errorf("UploadStep: upload bucket set but no storage service")
	}

	objectName := "normalized/" + filepath.Base(state.OutPath)
	if err := state.Opts.Storage.UploadNormalized(ctx, bucket, objectName, state.OutPath); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("bucket", bucket).
		Str("object", objectName).
		Msg("Normalized CSV uploaded")
	return nil
}

// InsertRecordsStep streams the records into BigQuery. Skipped when no
// destination is configured.
type InsertRecordsStep struct{}

func (s *InsertRecordsStep) Execute(ctx context.Context, state *State) error {
	dest := state.Opts.BQDest
	if dest == nil {
		return nil
	}

	rows := bq.FromRecords(state.Records, state.RunID, state.SourceName)
	if err := bq.InsertRecords(ctx, *dest, rows); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int("rows", len(rows)).
		Str("table", dest.Table).
		Msg("Records inserted into BigQuery")
	return nil
}
