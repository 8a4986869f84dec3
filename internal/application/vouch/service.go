package vouch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
)

type Service interface {
	// Create appends a directed vouch edge. At most one vouch may exist per
	// (voucher, vouchee) pair; the storage condition enforces it.
	Create(ctx context.Context, voucherID, voucheeID string) (*domain.Vouch, error)
	// ListForUser returns the vouches a user has received with each
	// voucher's profile summary attached.
	ListForUser(ctx context.Context, voucheeID string) ([]domain.Vouch, int, error)
}

type vouchStore interface {
	PutIfAbsent(ctx context.Context, v *domain.Vouch) error
	ListByVouchee(ctx context.Context, voucheeID string) ([]domain.Vouch, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type notifier interface {
	Notify(ctx context.Context, userID, kind, actorID, message string)
}

type service struct {
	repo     vouchStore
	userRepo userStore
	notifier notifier
}

type ServiceDeps struct {
	VouchRepo vouchStore
	UserRepo  userStore
	Notifier  notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.VouchRepo, userRepo: deps.UserRepo, notifier: deps.Notifier}
}

func (s *service) Create(ctx context.Context, voucherID, voucheeID string) (*domain.Vouch, error) {
	if voucherID == voucheeID {
		return nil, domain.ErrSelfVouch
	}
	vouchee, err := s.userRepo.Get(ctx, voucheeID)
	if err != nil {
		return nil, fmt.Errorf("vouchee: %w", err)
	}

	v := &domain.Vouch{
		VoucherID: voucherID,
		VoucheeID: voucheeID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.PutIfAbsent(ctx, v); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, vouchee.UserID, domain.NotifVouchReceived, voucherID,
			"Someone vouched for you")
	}
	return v, nil
}

func (s *service) ListForUser(ctx context.Context, voucheeID string) ([]domain.Vouch, int, error) {
	vouches, err := s.repo.ListByVouchee(ctx, voucheeID)
	if err != nil {
		return nil, 0, err
	}
	for i := range vouches {
		u, err := s.userRepo.Get(ctx, vouches[i].VoucherID)
		if err != nil {
			slog.Warn("could not load voucher profile", "user_id", vouches[i].VoucherID, "err", err)
			continue
		}
		vouches[i].Voucher = &domain.ProfileSummary{
			UserID:      u.UserID,
			DisplayName: u.DisplayName,
			PhotoURL:    u.PhotoURL,
		}
	}
	return vouches, len(vouches), nil
}
