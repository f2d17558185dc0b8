package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/nvellon/hal"
)

type HALResource interface {
	Resource() *hal.Resource
}

// WriteJSON renders HAL resources as `application/hal+json` and errors as
// problems; anything else is plain json.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	contentType := "application/json"
	switch t := v.(type) {
	case HALResource:
		contentType = "application/hal+json"
		v = t.Resource()
	case error:
		contentType = ProblemContentType
		v = NewErrorProblem(t, code)
	case Problem:
		contentType = ProblemContentType
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	_, err = w.Write(b)

	return err
}

func MustWriteJSON(w http.ResponseWriter, code int, v interface{}) {
	if err := WriteJSON(w, code, v); err != nil {
		panic(err)
	}
}

// WriteJSONError writes `err` as a problem with the status of `StatusCode`.
func WriteJSONError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusCode(err), err)
}
