package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/email-otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockOTPSvc struct{ mock.Mock }

func (m *mockOTPSvc) IssueOTP(ctx context.Context, req domain.IssueOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockOTPSvc) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.VerifiedUser, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.VerifiedUser); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// --- Issue ---

func TestIssue_InvalidBody(t *testing.T) {
	svc := &mockOTPSvc{}
	h := NewOTPHandler(svc)
	r := httptest.NewRequest(http.MethodPost, "/v1/otp/issue", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.Issue(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "IssueOTP", mock.Anything, mock.Anything)
}

func TestIssue_MissingOTPField(t *testing.T) {
	svc := &mockOTPSvc{}
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Issue, "/v1/otp/issue", map[string]string{"email": "a@x.com"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	// No email may be sent and no store call made on a validation failure.
	svc.AssertNotCalled(t, "IssueOTP", mock.Anything, mock.Anything)
}

func TestIssue_MissingEmailField(t *testing.T) {
	svc := &mockOTPSvc{}
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Issue, "/v1/otp/issue", map[string]string{"otp": "123456"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "IssueOTP", mock.Anything, mock.Anything)
}

func TestIssue_DeliveryFailure_Maps500(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("IssueOTP", mock.Anything, mock.Anything).
		Return(fmt.Errorf("send verification email: %w", domain.ErrDelivery))
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Issue, "/v1/otp/issue", domain.IssueOTPRequest{
		Email: "a@x.com", OTP: "123456",
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestIssue_HappyPath(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("IssueOTP", mock.Anything, domain.IssueOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	}).Return(nil)
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Issue, "/v1/otp/issue", domain.IssueOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "OTP sent successfully", env.Message)
	svc.AssertExpectations(t)
}

// --- Verify ---

func TestVerify_MissingAccountID(t *testing.T) {
	svc := &mockOTPSvc{}
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Verify, "/v1/otp/verify", map[string]string{
		"email": "a@x.com", "otp": "123456",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything)
}

func TestVerify_InvalidCode_Maps400(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("verification code does not match: %w", domain.ErrOTPInvalid))
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Verify, "/v1/otp/verify", domain.VerifyOTPRequest{
		Email: "a@x.com", OTP: "000000", AccountID: "u1",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.False(t, env.Success)
}

func TestVerify_Expired_Maps400(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("verification code has expired: %w", domain.ErrOTPExpired))
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Verify, "/v1/otp/verify", domain.VerifyOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerify_UserNotFound_Maps400(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Verify, "/v1/otp/verify", domain.VerifyOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerify_NoExpiry_Maps500(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("VerifyOTP", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("pending code has no expiry: %w", domain.ErrNoExpiry))
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Verify, "/v1/otp/verify", domain.VerifyOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestVerify_HappyPath(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("VerifyOTP", mock.Anything, domain.VerifyOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	}).Return(&domain.VerifiedUser{Email: "a@x.com", AccountID: "u1"}, nil)
	h := NewOTPHandler(svc)

	rr := postJSON(t, h.Verify, "/v1/otp/verify", domain.VerifyOTPRequest{
		Email: "a@x.com", OTP: "123456", AccountID: "u1",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, "Email verified successfully", env.Message)
	require.NotNil(t, env.User)
	assert.Equal(t, "a@x.com", env.User.Email)
	assert.Equal(t, "u1", env.User.AccountID)
	svc.AssertExpectations(t)
}

// --- Health ---

func TestHealth_PlainText(t *testing.T) {
	h := NewHealthHandler()
	r := httptest.NewRequest(http.MethodGet, "/v1/health-check", nil)
	rr := httptest.NewRecorder()
	h.Live(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "ok", rr.Body.String())
}
