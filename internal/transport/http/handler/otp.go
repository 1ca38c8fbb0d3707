package handler

import (
	"encoding/json"
	"net/http"

	"github.com/email-otp-api/internal/application/verification"
	"github.com/email-otp-api/internal/domain"
	"github.com/email-otp-api/internal/pkg/validate"
)

// OTPHandler handles the OTP issue and verify endpoints.
type OTPHandler struct {
	svc verification.Service
}

func NewOTPHandler(svc verification.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

// Issue emails a caller-supplied code and records it against the
// account. Validation runs before any side effect.
func (h *OTPHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.IssueOTP(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "OTP sent successfully"})
}

// Verify checks a submitted code and promotes the account to verified.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.svc.VerifyOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Email verified successfully",
		User:    user,
	})
}
