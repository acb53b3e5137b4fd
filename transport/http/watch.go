package http

import (
	"context"
	"net/http"

	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/transport/http/httpError"
	"go.uber.org/zap"
)

// watchHandler streams the filtered result set over a websocket: once on
// connect and again every time the journal changes. The filter document
// rides in the 'filter' query parameter as url encoded json.
func (h *httpServer) watchHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter *logbook.Document
		if raw := r.URL.Query().Get("filter"); raw != "" {
			var err error
			filter, err = logbook.NewDocumentFromBytes([]byte(raw))
			if err != nil {
				httpError.Error(w, errors.Wrap(err, errors.Validation, "failed to decode filter"))
				return
			}
		}
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied to the client
			h.logger.Debug("failed to upgrade connection", zap.Error(err))
			return
		}
		defer conn.Close()
		err = db.Watch(r.Context(), filter, nil, func(ctx context.Context, documents logbook.Documents) (bool, error) {
			if err := conn.WriteJSON(&documents); err != nil {
				// the peer hanging up ends the watch, not the server
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			h.logger.Error("watch failed", zap.Error(err))
		}
	}
}
