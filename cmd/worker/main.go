// Command worker watches an inbox directory and normalizes every
// statement file that appears there. Each file is processed once per
// worker lifetime; results land in the output directory.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/bq"
	"github.com/dvloznov/statement-normalizer/internal/config"
	"github.com/dvloznov/statement-normalizer/internal/gcsio"
	"github.com/dvloznov/statement-normalizer/internal/jobs"
	"github.com/dvloznov/statement-normalizer/internal/jobs/inmemory"
	"github.com/dvloznov/statement-normalizer/internal/logger"
	"github.com/dvloznov/statement-normalizer/internal/pipeline"
)

func main() {
	cfg := config.Load()

	var (
		inbox    = flag.String("inbox", "inbox", "Directory to watch for statement files")
		outDir   = flag.String("outdir", cfg.OutDir, "Directory for normalized CSVs")
		interval = flag.Duration("interval", 30*time.Second, "Inbox poll interval")
		workers  = flag.Int("workers", 2, "Concurrent normalization workers")
		bucket   = flag.String("bucket", cfg.GCSBucket, "GCS bucket for copies of the output (or set GCS_BUCKET env)")
	)
	flag.Parse()

	log := logger.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var storage gcsio.StorageService
	if *bucket != "" {
		storage = gcsio.NewService()
	}
	var bqDest *bq.Dest
	if cfg.BQProject != "" {
		bqDest = &bq.Dest{Project: cfg.BQProject, Dataset: cfg.BQDataset, Table: cfg.BQTable}
	}

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(100, *workers, store)

	handler := func(ctx context.Context, job *jobs.NormalizeJob) error {
		state, err := pipeline.NormalizeFile(ctx, pipeline.Options{
			Input:        job.Input,
			OutDir:       job.OutDir,
			ScanLimit:    cfg.ScanLimit,
			UploadBucket: *bucket,
			BQDest:       bqDest,
			Storage:      storage,
		})
		if err != nil {
			return err
		}
		job.OutPath = state.OutPath
		job.Records = len(state.Records)
		return nil
	}

	go func() {
		if err := queue.Start(ctx, handler); err != nil {
			log.Error().Err(err).Msg("Job consumer stopped with error")
		}
	}()

	// One publish per file; the set survives across polls so a file is
	// enqueued once for as long as it stays in the inbox.
	seen := make(map[string]bool)

	scan := func() {
		fresh, err := scanInbox(*inbox, seen)
		if err != nil {
			log.Warn().Err(err).Str("inbox", *inbox).Msg("Failed to read inbox directory")
			return
		}
		for _, path := range fresh {
			job := &jobs.NormalizeJob{Input: path, OutDir: *outDir}
			if err := queue.PublishNormalize(ctx, job); err != nil {
				log.Error().Err(err).Str("input", path).Msg("Failed to enqueue statement")
				continue
			}
			log.Info().Str("job_id", job.JobID).Str("input", path).Msg("Statement enqueued")
		}
	}

	log.Info().
		Str("inbox", *inbox).
		Str("outdir", *outDir).
		Dur("interval", *interval).
		Msg("Starting statement worker")

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	scan()
	for {
		select {
		case <-ticker.C:
			scan()
		case <-quit:
			log.Info().Msg("Shutting down worker...")
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := queue.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error stopping job queue")
			}
			if err := queue.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close job queue")
			}

			log.Info().Msg("Worker exited")
			return
		}
	}
}

// scanInbox returns the supported statement files not yet enqueued and
// marks them seen. Entries whose file has left the inbox are forgotten,
// so a statement dropped in again is picked up again and the set stays
// bounded by the directory contents.
func scanInbox(inbox string, seen map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(entries))
	var fresh []string
	for _, entry := range entries {
		if entry.IsDir() || !supportedExt(entry.Name()) {
			continue
		}
		path := filepath.Join(inbox, entry.Name())
		present[path] = true
		if !seen[path] {
			seen[path] = true
			fresh = append(fresh, path)
		}
	}

	for path := range seen {
		if !present[path] {
			delete(seen, path)
		}
	}
	return fresh, nil
}

func supportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".csv", ".tsv", ".txt":
		return true
	}
	return false
}
