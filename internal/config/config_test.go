package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OUTDIR", "")
	t.Setenv("PORT", "")
	t.Setenv("BQ_PROJECT", "")

	cfg := Load()
	if cfg.OutDir != "outbox" {
		t.Errorf("OutDir = %q, want outbox", cfg.OutDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ScanLimit != 0 {
		t.Errorf("ScanLimit = %d, want 0", cfg.ScanLimit)
	}
	if cfg.BQProject != "" {
		t.Errorf("BQProject = %q, want empty", cfg.BQProject)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OUTDIR", "/tmp/normalized")
	t.Setenv("HEADER_SCAN_LIMIT", "50")
	t.Setenv("GCS_BUCKET", "statements")

	cfg := Load()
	if cfg.OutDir != "/tmp/normalized" {
		t.Errorf("OutDir = %q", cfg.OutDir)
	}
	if cfg.ScanLimit != 50 {
		t.Errorf("ScanLimit = %d, want 50", cfg.ScanLimit)
	}
	if cfg.GCSBucket != "statements" {
		t.Errorf("GCSBucket = %q", cfg.GCSBucket)
	}
}

func TestLoadBadScanLimit(t *testing.T) {
	t.Setenv("HEADER_SCAN_LIMIT", "not a number")

	if cfg := Load(); cfg.ScanLimit != 0 {
		t.Errorf("ScanLimit = %d, want fallback 0", cfg.ScanLimit)
	}
}
