package http

import (
	"encoding/json"
	"net/http"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/transport/http/httpError"
	"github.com/gorilla/mux"
	"github.com/spf13/cast"
)

// FindRequest is the body of a find call
type FindRequest struct {
	// Filter is the filter document to evaluate (empty matches all)
	Filter *logbook.Document `json:"filter,omitempty"`
	// Options adjust sorting and projection of the results
	Options *logbook.FindOptions `json:"options,omitempty"`
}

func (h *httpServer) findHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var req FindRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to decode find request"))
			return
		}
		results, err := db.Find(r.Context(), req.Filter, req.Options)
		if err != nil {
			httpError.Error(w, err)
			return
		}
		json.NewEncoder(w).Encode(&results)
	}
}

func (h *httpServer) listHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		results, err := db.Find(r.Context(), nil, nil)
		if err != nil {
			httpError.Error(w, err)
			return
		}
		json.NewEncoder(w).Encode(&results)
	}
}

func (h *httpServer) getHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := cast.ToInt64(mux.Vars(r)["id"])
		document, err := db.Get(r.Context(), id)
		if err != nil {
			httpError.Error(w, err)
			return
		}
		json.NewEncoder(w).Encode(document)
	}
}
