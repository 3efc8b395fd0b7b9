package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeStorage is an in-memory StorageService for tests.
type fakeStorage struct {
	objects map[string][]byte // keyed by gs:// URI
	uploads []string          // "bucket/object" of every upload
}

func (f *fakeStorage) FetchStatement(ctx context.Context, gcsURI string) ([]byte, error) {
	data, ok := f.objects[gcsURI]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", gcsURI)
	}
	return data, nil
}

func (f *fakeStorage) UploadNormalized(ctx context.Context, bucket, objectName, localPath string) error {
	if _, err := os.Stat(localPath); err != nil {
		return err
	}
	f.uploads = append(f.uploads, bucket+"/"+objectName)
	return nil
}

const statementCSV = "Bank X\nДата,Сумма,Плательщик,ИНН,Назначение,Получатель\n01.02.2023,\"1000,50\",ООО Ромашка,1234567890,оплата,ООО Василек\n"

func TestNormalizeFileLocal(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "march.csv")
	if err := os.WriteFile(input, []byte(statementCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := NormalizeFile(context.Background(), Options{
		Input:  input,
		OutDir: filepath.Join(dir, "outbox"),
	})
	if err != nil {
		t.Fatalf("NormalizeFile failed: %v", err)
	}

	if len(state.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(state.Records))
	}
	if state.Records[0].Date != "2023-02-01" {
		t.Errorf("date = %q", state.Records[0].Date)
	}
	if state.RunID == "" {
		t.Error("expected a run id")
	}

	data, err := os.ReadFile(state.OutPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if filepath.Base(state.OutPath) != "normalized_march.csv" {
		t.Errorf("output name = %q", filepath.Base(state.OutPath))
	}
	if !strings.Contains(string(data), "2023-02-01,1000.5,") {
		t.Errorf("output = %q, missing normalized row", string(data))
	}
}

func TestNormalizeFileFromGCS(t *testing.T) {
	storage := &fakeStorage{objects: map[string][]byte{
		"gs://statements/2023/march.csv": []byte(statementCSV),
	}}
	dir := t.TempDir()

	state, err := NormalizeFile(context.Background(), Options{
		Input:        "gs://statements/2023/march.csv",
		OutDir:       dir,
		UploadBucket: "normalized-bucket",
		Storage:      storage,
	})
	if err != nil {
		t.Fatalf("NormalizeFile failed: %v", err)
	}

	if state.SourceName != "march.csv" {
		t.Errorf("source name = %q", state.SourceName)
	}
	if len(storage.uploads) != 1 || storage.uploads[0] != "normalized-bucket/normalized/normalized_march.csv" {
		t.Errorf("uploads = %v", storage.uploads)
	}
}

func TestNormalizeFileMissingInput(t *testing.T) {
	_, err := NormalizeFile(context.Background(), Options{
		Input:  filepath.Join(t.TempDir(), "missing.csv"),
		OutDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if !strings.Contains(err.Error(), "pipeline step 1") {
		t.Errorf("err = %v, want step 1 failure", err)
	}
}

func TestNormalizeFileUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.pdf")
	if err := os.WriteFile(input, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NormalizeFile(context.Background(), Options{Input: input, OutDir: dir})
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if !strings.Contains(err.Error(), "pipeline step 2") {
		t.Errorf("err = %v, want step 2 failure", err)
	}
}

func TestNormalizeFileGCSWithoutStorage(t *testing.T) {
	_, err := NormalizeFile(context.Background(), Options{
		Input:  "gs://bucket/file.csv",
		OutDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error when storage service is missing")
	}
}
