package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/sweetshop/internal/apperr"
)

// maxBody caps request bodies read by DecodeJSON.
const maxBody = 1 << 20

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteErr renders err through the apperr taxonomy. Errors outside it become
// a 500 and are logged; their text is only sent back when dev is set.
func WriteErr(w http.ResponseWriter, r *http.Request, err error, dev bool) {
	status, code, msg, ok := apperr.Describe(err)
	var details interface{}
	if !ok {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
		if dev {
			details = err.Error()
		}
	}
	WriteError(w, status, code, msg, details)
}

// DecodeJSON reads a single JSON object from the request body into dst.
// An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}
