package http

import (
	"encoding/json"
	"net/http"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/transport/http/httpError"
)

// AggregateRequest is the body of an aggregate call
type AggregateRequest struct {
	// Filter is the filter document to evaluate before reducing
	Filter *logbook.Document `json:"filter,omitempty"`
	// Aggregate groups and reduces the filtered records
	Aggregate logbook.AggregateQuery `json:"aggregate"`
}

func (h *httpServer) aggregateHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var req AggregateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to decode aggregate request"))
			return
		}
		results, err := db.Aggregate(r.Context(), req.Filter, req.Aggregate)
		if err != nil {
			httpError.Error(w, err)
			return
		}
		json.NewEncoder(w).Encode(&results)
	}
}

func (h *httpServer) statsHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		stats, err := db.Stats(r.Context())
		if err != nil {
			httpError.Error(w, err)
			return
		}
		json.NewEncoder(w).Encode(&stats)
	}
}
