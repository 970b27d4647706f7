package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/korolhresti/newsdigest/internal/apperr"
)

type handler struct {
	d *Deps
}

// writeJSON marshals v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its HTTP status via apperr and writes a small
// JSON envelope. Errors that didn't originate as *apperr.Error are
// treated as internal.
func writeError(w http.ResponseWriter, err error) {
	ae, ok := err.(*apperr.Error)
	if !ok {
		ae = apperr.Internal(err)
	}
	writeJSON(w, ae.HTTPStatus(), errorBody{Error: ae.Message, Code: string(ae.Code)})
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func apperrForbidden(format string, args ...any) error {
	return apperr.Forbidden(format, args...)
}

func apperrValidation(format string, args ...any) error {
	return apperr.Validation(format, args...)
}

// decodeJSON reads and validates the request body into dst. A malformed
// body surfaces as a 400 validation error, matching apperr's mapping.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}
