package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/email-otp-api/internal/domain"
)

// Envelope is the uniform response wrapper. Every response carries
// Success; failures carry a human-readable Error message.
type Envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Error   string               `json:"error,omitempty"`
	User    *domain.VerifiedUser `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Error: msg})
}

// httpError maps domain sentinels to HTTP status codes. Validation-class
// failures (missing field, not found, no pending code, expired, invalid)
// are the caller's to fix and map to 400; everything else is a 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoPendingOTP),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrOTPInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
