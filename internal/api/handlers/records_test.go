package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/bq"
)

type fakeQuerier struct {
	rows  []*bq.RecordRow
	err   error
	start time.Time
	end   time.Time
}

func (q *fakeQuerier) QueryByDateRange(_ context.Context, start, end time.Time) ([]*bq.RecordRow, error) {
	q.start, q.end = start, end
	return q.rows, q.err
}

func TestRecordsHandlerList(t *testing.T) {
	querier := &fakeQuerier{rows: []*bq.RecordRow{
		{RecordID: "r1", Payer: "ООО Ромашка"},
		{RecordID: "r2", Payer: "ООО Василек"},
	}}
	h := NewRecordsHandler(querier, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/records?start=2023-02-01&end=2023-02-28", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := querier.start.Format("2006-01-02"); got != "2023-02-01" {
		t.Errorf("start passed to querier = %q", got)
	}
	if got := querier.end.Format("2006-01-02"); got != "2023-02-28" {
		t.Errorf("end passed to querier = %q", got)
	}

	var resp struct {
		Records []*bq.RecordRow `json:"records"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Records) != 2 {
		t.Fatalf("count = %d, records = %d, want 2", resp.Count, len(resp.Records))
	}
	if resp.Records[0].RecordID != "r1" {
		t.Errorf("RecordID = %q, want r1", resp.Records[0].RecordID)
	}
}

func TestRecordsHandlerListValidation(t *testing.T) {
	h := NewRecordsHandler(&fakeQuerier{}, testLogger())

	tests := []struct {
		name  string
		query string
	}{
		{"missing start", "end=2023-02-28"},
		{"missing end", "start=2023-02-01"},
		{"malformed start", "start=01.02.2023&end=2023-02-28"},
		{"end before start", "start=2023-02-28&end=2023-02-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/records?"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.List(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestRecordsHandlerListUnconfigured(t *testing.T) {
	h := NewRecordsHandler(nil, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/records?start=2023-02-01&end=2023-02-28", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRecordsHandlerListQueryError(t *testing.T) {
	h := NewRecordsHandler(&fakeQuerier{err: errors.New("table not found")}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/records?start=2023-02-01&end=2023-02-28", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
