package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/caravanly/caravan-api/internal/pkg/id"
	pkgtoken "github.com/caravanly/caravan-api/internal/pkg/token"
)

type RequestCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type LoginResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

type Service interface {
	// RequestCode issues a fresh one-time code for the email and mails it.
	// Issuing replaces any previously live code for the same address.
	RequestCode(ctx context.Context, req RequestCodeRequest) error
	// VerifyCode consumes the code exactly once and returns an authenticated
	// session. A previously used, unknown, or mismatched code fails with
	// ErrInvalidCode; a correct but stale one with ErrCodeExpired.
	VerifyCode(ctx context.Context, req VerifyCodeRequest) (*LoginResult, error)
}

type otpStore interface {
	Put(ctx context.Context, c *domain.OtpCode) error
	Consume(ctx context.Context, email, code string) (*domain.OtpCode, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type service struct {
	otpRepo         otpStore
	userRepo        userStore
	sessionRepo     sessionStore
	mailer          mailer
	jwtProvider     jwtSigner
	otpExpiry       time.Duration
	refreshTokenDur time.Duration
}

type ServiceDeps struct {
	OtpRepo         otpStore
	UserRepo        userStore
	SessionRepo     sessionStore
	Mailer          mailer
	JWTProvider     jwtSigner
	OTPExpiry       time.Duration
	RefreshTokenDur time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otpRepo:         deps.OtpRepo,
		userRepo:        deps.UserRepo,
		sessionRepo:     deps.SessionRepo,
		mailer:          deps.Mailer,
		jwtProvider:     deps.JWTProvider,
		otpExpiry:       deps.OTPExpiry,
		refreshTokenDur: deps.RefreshTokenDur,
	}
}

func (s *service) RequestCode(ctx context.Context, req RequestCodeRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}

	code, err := newCode()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	otp := &domain.OtpCode{
		Email:     email,
		Code:      code,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.otpExpiry).Unix(),
	}
	if err := s.otpRepo.Put(ctx, otp); err != nil {
		return err
	}
	return s.mailer.SendEmail(email, "Your Caravanly login code", "Your code: "+code)
}

func (s *service) VerifyCode(ctx context.Context, req VerifyCodeRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	rec, err := s.otpRepo.Consume(ctx, email, req.Code)
	if err != nil {
		return nil, err
	}
	// The conditional delete already removed the record, so an expired code
	// cannot be retried either.
	if rec.ExpiresAt < time.Now().Unix() {
		return nil, domain.ErrCodeExpired
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		u, err = s.register(ctx, email)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case u.Enable == 0:
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}

	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &LoginResult{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

// register creates a user record on first successful code verification.
// The display name defaults to the local part of the email until the user
// sets one.
func (s *service) register(ctx context.Context, email string) (*domain.User, error) {
	displayName := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		displayName = email[:i]
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:      id.New(),
		Email:       email,
		DisplayName: displayName,
		Role:        domain.RoleUser,
		Enable:      1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}
	slog.Info("registered user on first login", "user_id", u.UserID)
	return u, nil
}

// newCode generates a 6-digit numeric code with crypto/rand.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
