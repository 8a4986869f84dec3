package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/caravanly/caravan-api/internal/pkg/id"
)

type Service interface {
	// Notify records an in-app notification and, when the recipient has a
	// phone number, sends an SMS. Both are best-effort; callers never see
	// delivery failures.
	Notify(ctx context.Context, userID, kind, actorID, message string)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, actingUserID string) (*domain.Notification, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	repo     notificationStore
	userRepo userStore
	sms      smsSender
}

type ServiceDeps struct {
	NotificationRepo notificationStore
	UserRepo         userStore
	SMS              smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.NotificationRepo, userRepo: deps.UserRepo, sms: deps.SMS}
}

func (s *service) Notify(ctx context.Context, userID, kind, actorID, message string) {
	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Kind:           kind,
		ActorID:        actorID,
		Message:        message,
		Readed:         0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		slog.Error("could not store notification", "user_id", userID, "kind", kind, "err", err)
		return
	}

	if s.sms == nil {
		return
	}
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil || u.Phone == nil || *u.Phone == "" {
		return
	}
	if err := s.sms.SendSMS(ctx, *u.Phone, message); err != nil {
		slog.Warn("sms delivery failed", "user_id", userID, "err", err)
	}
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, actingUserID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != actingUserID {
		return nil, fmt.Errorf("notification belongs to another user: %w", domain.ErrForbidden)
	}
	return s.repo.MarkAsRead(ctx, notificationID)
}
