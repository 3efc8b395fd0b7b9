package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-normalizer/internal/api/middleware"
	"github.com/dvloznov/statement-normalizer/internal/bq"
)

// RecordQuerier reads normalized records back from the warehouse.
type RecordQuerier interface {
	QueryByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*bq.RecordRow, error)
}

// RecordsHandler serves read access to stored normalized records.
type RecordsHandler struct {
	querier RecordQuerier
	log     zerolog.Logger
}

// NewRecordsHandler creates the records handler. A nil querier means no
// warehouse is configured and every request is answered 503.
func NewRecordsHandler(querier RecordQuerier, log zerolog.Logger) *RecordsHandler {
	return &RecordsHandler{querier: querier, log: log}
}

// List handles GET /api/records?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.querier == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Record storage is not configured")
		return
	}

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Query parameter 'start' must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Query parameter 'end' must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		middleware.WriteError(w, http.StatusBadRequest, "'end' must not precede 'start'")
		return
	}

	rows, err := h.querier.QueryByDateRange(r.Context(), start, end)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query records")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query records")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": rows,
		"count":   len(rows),
	})
}
