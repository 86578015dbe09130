package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pos-backend/internal/apperr"
)

// envelope is the uniform response shape: exactly one of Data, Message, or
// Error is set.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

// respondError maps the error to its status code and envelope. Errors outside
// the apperr taxonomy become a 500 with a generic message; the detail is
// logged, never leaked.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if e := apperr.From(err); e != nil {
		writeJSON(w, e.HTTPStatus(), envelope{
			Success: false,
			Error:   &errorBody{Message: e.Message, Details: e.Details},
		})
		return
	}

	zctx.From(r.Context()).Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Error:   &errorBody{Message: "Internal server error"},
	})
}

// decodeBody parses the JSON request body into dst, translating malformed
// input into a validation error.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
