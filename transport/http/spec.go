package http

import (
	"bytes"
	_ "embed"
	"net/http"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/logbook"
	"github.com/autom8ter/logbook/errors"
	"github.com/autom8ter/logbook/transport/http/httpError"
	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml.tmpl
var openapiTemplate string

// getSpec renders the openapi specification for the server and validates
// it before returning it
func (h *httpServer) getSpec(db *logbook.DB) ([]byte, error) {
	t, err := template.New("").Funcs(sprig.FuncMap()).Parse(openapiTemplate)
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to parse openapi template")
	}
	buf := bytes.NewBuffer(nil)
	err = t.Execute(buf, map[string]any{
		"title":         h.params.Title,
		"description":   h.params.Description,
		"version":       h.params.Version,
		"port":          h.params.Port,
		"search_fields": db.Config().SearchFields,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to render openapi template")
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.Internal, "failed to load openapi spec")
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, errors.Wrap(err, errors.Internal, "invalid openapi spec")
	}
	return buf.Bytes(), nil
}

func (h *httpServer) specHandler(db *logbook.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bits, err := h.getSpec(db)
		if err != nil {
			httpError.Error(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(bits)
	}
}
