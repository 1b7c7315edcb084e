package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/aimspurefied/healer-ui-api/internal/upstream"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteUpstreamError maps a backend call failure onto our response:
// client-caused classifications keep their status, upstream-side
// failures surface as 502 so they are distinguishable from our own
// errors.
func WriteUpstreamError(w http.ResponseWriter, err error) {
	switch upstream.KindOf(err) {
	case upstream.KindValidation:
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
	case upstream.KindNotFound:
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case upstream.KindAuth:
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "upstream_auth_failed", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "upstream_failed", Err: err})
	}
}
