package httpError

import (
	"net/http"

	"github.com/autom8ter/logbook/errors"
)

// Error writes the error to the response, mapping the error's code to an
// http status. Codes outside the http status range map to a 500.
func Error(w http.ResponseWriter, err error) {
	e := errors.Extract(err)
	status := http.StatusInternalServerError
	if e.Code >= 400 && e.Code < 600 {
		status = int(e.Code)
	}
	http.Error(w, e.RemoveError().Error(), status)
}
