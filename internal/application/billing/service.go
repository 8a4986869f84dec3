package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
)

type Service interface {
	// Apply folds a RevenueCat webhook event into the local entitlement
	// record. Replayed deliveries converge on the same state.
	Apply(ctx context.Context, ev domain.WebhookEvent) (*domain.Subscription, error)
	// GetStatus returns the caller's entitlement record, or ErrNotFound
	// when no webhook has ever arrived for them.
	GetStatus(ctx context.Context, appUserID string) (*domain.Subscription, error)
}

type subscriptionStore interface {
	Upsert(ctx context.Context, s *domain.Subscription) error
	SetFields(ctx context.Context, appUserID string, updates map[string]interface{}) (*domain.Subscription, error)
	Get(ctx context.Context, appUserID string) (*domain.Subscription, error)
}

type service struct {
	repo subscriptionStore
}

type ServiceDeps struct {
	SubscriptionRepo subscriptionStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.SubscriptionRepo}
}

func (s *service) Apply(ctx context.Context, ev domain.WebhookEvent) (*domain.Subscription, error) {
	switch ev.Type {
	case domain.EventInitialPurchase, domain.EventRenewal:
		sub := &domain.Subscription{
			AppUserID:    ev.AppUserID,
			Status:       domain.SubscriptionActive,
			Plan:         domain.PlanFromProduct(ev.ProductID),
			ExpiresAt:    ev.ExpiresAt(),
			RevenueCatID: ev.AppUserID,
			UpdatedAt:    time.Now().UTC(),
		}
		if err := s.repo.Upsert(ctx, sub); err != nil {
			return nil, fmt.Errorf("apply %s: %w", ev.Type, err)
		}
		slog.Info("subscription activated", "app_user_id", ev.AppUserID, "plan", sub.Plan, "event", ev.Type)
		return sub, nil

	case domain.EventCancellation:
		// Auto-renew turned off; access continues until the period end,
		// so plan and expires_at stay as they are.
		sub, err := s.repo.SetFields(ctx, ev.AppUserID, map[string]interface{}{
			"status": domain.SubscriptionCancelled,
		})
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", ev.Type, err)
		}
		slog.Info("subscription cancelled", "app_user_id", ev.AppUserID)
		return sub, nil

	case domain.EventExpiration:
		sub, err := s.repo.SetFields(ctx, ev.AppUserID, map[string]interface{}{
			"status": domain.SubscriptionExpired,
			"plan":   domain.PlanFree,
		})
		if err != nil {
			return nil, fmt.Errorf("apply %s: %w", ev.Type, err)
		}
		slog.Info("subscription expired", "app_user_id", ev.AppUserID)
		return sub, nil

	default:
		return nil, fmt.Errorf("%q: %w", ev.Type, domain.ErrUnknownEvent)
	}
}

func (s *service) GetStatus(ctx context.Context, appUserID string) (*domain.Subscription, error) {
	return s.repo.Get(ctx, appUserID)
}
