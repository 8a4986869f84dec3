package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caravanly/caravan-api/internal/application/auth"
	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) RequestCode(ctx context.Context, req auth.RequestCodeRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockAuthService) VerifyCode(ctx context.Context, req auth.VerifyCodeRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRequestCode_HappyPath(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("RequestCode", mock.Anything, auth.RequestCodeRequest{Email: "alice@example.com"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-code", strings.NewReader(`{"email":"alice@example.com"}`))
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).RequestCode(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestRequestCode_InvalidEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-code", strings.NewReader(`{"email":"not-an-email"}`))
	rr := httptest.NewRecorder()
	NewAuthHandler(&mockAuthService{}).RequestCode(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyCode_ReturnsTokens(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("VerifyCode", mock.Anything, auth.VerifyCodeRequest{Email: "alice@example.com", Code: "123456"}).
		Return(&auth.LoginResult{
			Bearer:       "jwt-token",
			RefreshToken: "refresh-token",
			Session:      &domain.Session{SessionID: "sess1", UserID: "u1"},
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-code",
		strings.NewReader(`{"email":"alice@example.com","code":"123456"}`))
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).VerifyCode(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env AuthEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "jwt-token", env.Bearer)
	assert.Equal(t, "refresh-token", env.RefreshToken)
	require.NotNil(t, env.Session)
	assert.Equal(t, "u1", env.Session.UserID)
}

func TestVerifyCode_InvalidCode_MapsToUnauthorized(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("VerifyCode", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCode)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-code",
		strings.NewReader(`{"email":"alice@example.com","code":"000000"}`))
	rr := httptest.NewRecorder()
	NewAuthHandler(svc).VerifyCode(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestVerifyCode_ShortCode(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-code",
		strings.NewReader(`{"email":"alice@example.com","code":"12"}`))
	rr := httptest.NewRecorder()
	NewAuthHandler(&mockAuthService{}).VerifyCode(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
