// Package bq persists normalized statement records to BigQuery. The sink
// is optional; nothing here runs unless a destination is configured.
package bq

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dvloznov/statement-normalizer/internal/normalizer"
)

// Dest names the destination table.
type Dest struct {
	Project string
	Dataset string
	Table   string
}

// RecordRow is the normalized_records table schema.
type RecordRow struct {
	RecordID   string `bigquery:"record_id"` // REQUIRED
	RunID      string `bigquery:"run_id"`    // NULLABLE
	SourceFile string `bigquery:"source_file"`

	Date   bigquery.NullDate `bigquery:"date"`   // NULLABLE
	Amount *big.Rat          `bigquery:"amount"` // NULLABLE NUMERIC

	Payer    string `bigquery:"payer"`
	INN      string `bigquery:"inn"`
	Purpose  string `bigquery:"purpose"`
	Receiver string `bigquery:"receiver"`

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// FromRecord maps a canonical record onto a table row. Empty date and
// absent amount become NULL.
func FromRecord(rec normalizer.Record, runID, sourceFile string) *RecordRow {
	row := &RecordRow{
		RecordID:   uuid.NewString(),
		RunID:      runID,
		SourceFile: sourceFile,
		Payer:      rec.Payer,
		INN:        rec.INN,
		Purpose:    rec.Purpose,
		Receiver:   rec.Receiver,
		CreatedTS:  time.Now(),
	}
	if rec.Date != "" {
		if d, err := civil.ParseDate(rec.Date); err == nil {
			row.Date = bigquery.NullDate{Date: d, Valid: true}
		}
	}
	if rec.Amount != nil {
		row.Amount = new(big.Rat).SetFloat64(*rec.Amount)
	}
	return row
}

// FromRecords maps a whole record sequence.
func FromRecords(recs []normalizer.Record, runID, sourceFile string) []*RecordRow {
	rows := make([]*RecordRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, FromRecord(rec, runID, sourceFile))
	}
	return rows
}
