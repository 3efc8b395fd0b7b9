// Command normalize converts one bank statement into the canonical CSV
// layout. The input may be a local .xlsx/.csv/.tsv/.txt file or a
// gs:// URI.
//
// Usage:
//
//	normalize -input statement.xlsx [-outdir outbox] [-bucket my-bucket]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/bq"
	"github.com/dvloznov/statement-normalizer/internal/config"
	"github.com/dvloznov/statement-normalizer/internal/gcsio"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/pipeline"
)

func main() {
	cfg := config.Load()

	var (
		input     = flag.String("input", "", "Statement to normalize: local path or gs:// URI")
		outDir    = flag.String("outdir", cfg.OutDir, "Directory for the normalized CSV")
		scanLimit = flag.Int("scan-limit", cfg.ScanLimit, "Rows to scan for the header (0 = default)")
		bucket    = flag.String("bucket", cfg.GCSBucket, "GCS bucket for a copy of the output (or set GCS_BUCKET env)")
		bqProject = flag.String("bq-project", cfg.BQProject, "BigQuery project for record insertion (or set BQ_PROJECT env)")
		timeout   = flag.Duration("timeout", 10*time.Minute, "Overall run timeout")
	)
	flag.Parse()

	log := logger.New()

	if *input == "" {
		log.Fatal().Msg("Missing required flag: -input")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	opts := pipeline.Options{
		Input:        *input,
		OutDir:       *outDir,
		ScanLimit:    *scanLimit,
		UploadBucket: *bucket,
	}
	if gcsio.IsURI(*input) || *bucket != "" {
		opts.Storage = gcsio.NewService()
	}
	if *bqProject != "" {
		opts.BQDest = &bq.Dest{
			Project: *bqProject,
			Dataset: cfg.BQDataset,
			Table:   cfg.BQTable,
		}
	}

	state, err := pipeline.NormalizeFile(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Normalization failed")
	}

	log.Info().
		Int("records", len(state.Records)).
		Str("output", state.OutPath).
		Msg("Done")
}
