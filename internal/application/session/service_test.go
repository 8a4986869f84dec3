package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error {
	return m.Called(ctx, sessionID, newToken, newExpiry).Error(0)
}
func (m *mockSessionStore) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionID, updates).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, role, sessionID string) (string, error) {
	args := m.Called(userID, role, sessionID)
	return args.String(0), args.Error(1)
}

func TestGetCurrent_RevokedSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "sess1").Return(&domain.Session{SessionID: "sess1", Enable: false}, nil)

	svc := NewService(ServiceDeps{SessionRepo: ss})
	_, err := svc.GetCurrent(context.Background(), "sess1")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestGetCurrent_AttachesUser(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}

	ss.On("Get", mock.Anything, "sess1").Return(&domain.Session{SessionID: "sess1", UserID: "u1", Enable: true}, nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", DisplayName: "Alice"}, nil)

	svc := NewService(ServiceDeps{SessionRepo: ss, UserRepo: us})
	sess, err := svc.GetCurrent(context.Background(), "sess1")

	require.NoError(t, err)
	require.NotNil(t, sess.User)
	assert.Equal(t, "Alice", sess.User.DisplayName)
}

func TestRefresh_RotatesTokenAndSigns(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}
	signer := &mockSigner{}

	ss.On("GetByRefreshToken", mock.Anything, "old-token").Return(&domain.Session{
		SessionID:        "sess1",
		UserID:           "u1",
		Enable:           true,
		RefreshToken:     "old-token",
		RefreshExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Role: domain.RoleUser, Enable: 1}, nil)

	var rotatedToken string
	ss.On("RotateRefreshToken", mock.Anything, "sess1", mock.AnythingOfType("string"), mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) { rotatedToken = args.String(2) }).
		Return(nil)
	signer.On("Sign", "u1", domain.RoleUser, "sess1").Return("bearer-jwt", nil)

	svc := NewService(ServiceDeps{SessionRepo: ss, UserRepo: us, Signer: signer, RefreshDur: 24 * time.Hour})
	res, err := svc.Refresh(context.Background(), "old-token")

	require.NoError(t, err)
	assert.Equal(t, "bearer-jwt", res.Bearer)
	assert.NotEqual(t, "old-token", res.RefreshToken)
	assert.Equal(t, rotatedToken, res.RefreshToken)
	assert.Len(t, res.RefreshToken, 64)
}

func TestRefresh_EmptyToken(t *testing.T) {
	svc := NewService(ServiceDeps{})
	_, err := svc.Refresh(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("GetByRefreshToken", mock.Anything, "stale").Return(&domain.Session{
		SessionID:        "sess1",
		UserID:           "u1",
		Enable:           true,
		RefreshExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}, nil)

	svc := NewService(ServiceDeps{SessionRepo: ss})
	_, err := svc.Refresh(context.Background(), "stale")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_UnknownToken(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("GetByRefreshToken", mock.Anything, "bogus").Return(nil, domain.ErrUnauthorized)

	svc := NewService(ServiceDeps{SessionRepo: ss})
	_, err := svc.Refresh(context.Background(), "bogus")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_DisabledAccount(t *testing.T) {
	ss := &mockSessionStore{}
	us := &mockUserStore{}

	ss.On("GetByRefreshToken", mock.Anything, "tok").Return(&domain.Session{
		SessionID:        "sess1",
		UserID:           "u1",
		Enable:           true,
		RefreshExpiresAt: time.Now().Add(time.Hour).Unix(),
	}, nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Enable: 0}, nil)

	svc := NewService(ServiceDeps{SessionRepo: ss, UserRepo: us})
	_, err := svc.Refresh(context.Background(), "tok")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestLogout_DisablesSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Update", mock.Anything, "sess1", map[string]interface{}{"enable": false}).Return(nil)

	svc := NewService(ServiceDeps{SessionRepo: ss})
	require.NoError(t, svc.Logout(context.Background(), "sess1"))
	ss.AssertExpectations(t)
}
