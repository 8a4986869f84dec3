package session

import (
	"context"
	"fmt"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
	pkgtoken "github.com/caravanly/caravan-api/internal/pkg/token"
)

type Service interface {
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	// Refresh rotates the refresh token and issues a new bearer token.
	// The presented token is single-use; a replay after rotation fails.
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type RefreshResult struct {
	Bearer       string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	Session      *domain.Session `json:"session"`
}

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, newToken string, newExpiry int64) error
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type service struct {
	repo       sessionStore
	userRepo   userStore
	signer     jwtSigner
	refreshDur time.Duration
}

type ServiceDeps struct {
	SessionRepo sessionStore
	UserRepo    userStore
	Signer      jwtSigner
	RefreshDur  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.SessionRepo,
		userRepo:   deps.UserRepo,
		signer:     deps.Signer,
		refreshDur: deps.RefreshDur,
	}
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthorized)
	}
	if u, err := s.userRepo.Get(ctx, sess.UserID); err == nil {
		sess.User = u
	}
	return sess, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token required: %w", domain.ErrBadRequest)
	}
	sess, err := s.repo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if sess.RefreshExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}

	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if u.Enable == 0 {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}

	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	newExpiry := time.Now().Add(s.refreshDur).Unix()
	if err := s.repo.RotateRefreshToken(ctx, sess.SessionID, newToken, newExpiry); err != nil {
		return nil, err
	}

	bearer, err := s.signer.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	sess.RefreshToken = newToken
	sess.RefreshExpiresAt = newExpiry
	sess.User = u
	return &RefreshResult{Bearer: bearer, RefreshToken: newToken, Session: sess}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.repo.Update(ctx, sessionID, map[string]interface{}{
		"enable": false,
	})
}
