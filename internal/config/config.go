// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings shared by the CLI, worker and API.
type Config struct {
	// OutDir is where normalized CSV files are written.
	OutDir string

	// ScanLimit bounds the header search; 0 keeps the engine default.
	ScanLimit int

	// Port is the HTTP listen port for the API service.
	Port string

	// GCSBucket, when set, receives a copy of every normalized CSV.
	GCSBucket string

	// BigQuery destination for normalized records. Insertion is skipped
	// when BQProject is empty.
	BQProject string
	BQDataset string
	BQTable   string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in when present; real environment
// variables always win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		OutDir:    getenv("OUTDIR", "outbox"),
		ScanLimit: getint("HEADER_SCAN_LIMIT", 0),
		Port:      getenv("PORT", "8080"),
		GCSBucket: os.Getenv("GCS_BUCKET"),
		BQProject: os.Getenv("BQ_PROJECT"),
		BQDataset: getenv("BQ_DATASET", "finance"),
		BQTable:   getenv("BQ_TABLE", "normalized_records"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
