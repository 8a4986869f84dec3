package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/caravanly/caravan-api/internal/pkg/id"
)

type Service interface {
	// Create opens a pending match request from requester to target. At most
	// one open request may exist per ordered pair; the storage condition
	// decides the winner under concurrent creates.
	Create(ctx context.Context, requesterID, targetID string) (*domain.MatchRequest, error)
	// Resolve moves a pending request to accepted or rejected. Only the
	// target may resolve, and a terminal request stays terminal.
	Resolve(ctx context.Context, requestID, decision, actingUserID string) (*domain.MatchRequest, error)
	ListSent(ctx context.Context, userID, status string) ([]domain.MatchRequest, error)
	ListReceived(ctx context.Context, userID, status string) ([]domain.MatchRequest, error)
}

type matchStore interface {
	PutIfAbsent(ctx context.Context, m *domain.MatchRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*domain.MatchRequest, error)
	Transition(ctx context.Context, pairID, requestID, newStatus string) (*domain.MatchRequest, error)
	ListByRequester(ctx context.Context, requesterID, status string) ([]domain.MatchRequest, error)
	ListByTarget(ctx context.Context, targetID, status string) ([]domain.MatchRequest, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// notifier delivers a best-effort notification; failures never fail the
// ledger operation that triggered them.
type notifier interface {
	Notify(ctx context.Context, userID, kind, actorID, message string)
}

type service struct {
	repo     matchStore
	userRepo userStore
	notifier notifier
}

type ServiceDeps struct {
	MatchRepo matchStore
	UserRepo  userStore
	Notifier  notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.MatchRepo, userRepo: deps.UserRepo, notifier: deps.Notifier}
}

func (s *service) Create(ctx context.Context, requesterID, targetID string) (*domain.MatchRequest, error) {
	if requesterID == targetID {
		return nil, domain.ErrSelfMatch
	}
	target, err := s.userRepo.Get(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("target user: %w", err)
	}

	now := time.Now().UTC()
	m := &domain.MatchRequest{
		PairID:      domain.MatchPairID(requesterID, targetID),
		RequestID:   id.New(),
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      domain.MatchStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.PutIfAbsent(ctx, m); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, target.UserID, domain.NotifMatchRequested, requesterID,
			"You received a new caravan match request")
	}
	return m, nil
}

func (s *service) Resolve(ctx context.Context, requestID, decision, actingUserID string) (*domain.MatchRequest, error) {
	if decision != domain.MatchStatusAccepted && decision != domain.MatchStatusRejected {
		return nil, fmt.Errorf("decision must be accepted or rejected: %w", domain.ErrBadRequest)
	}
	m, err := s.repo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if m.TargetID != actingUserID {
		return nil, domain.ErrNotRequestTarget
	}
	if domain.IsTerminalMatchStatus(m.Status) {
		return nil, domain.ErrAlreadyResolved
	}

	// The conditional update is the authority; the checks above only give
	// precise errors without a write.
	resolved, err := s.repo.Transition(ctx, m.PairID, m.RequestID, decision)
	if err != nil {
		return nil, err
	}

	if decision == domain.MatchStatusAccepted && s.notifier != nil {
		s.notifier.Notify(ctx, resolved.RequesterID, domain.NotifMatchAccepted, actingUserID,
			"Your caravan match request was accepted")
	}
	return resolved, nil
}

func (s *service) ListSent(ctx context.Context, userID, status string) ([]domain.MatchRequest, error) {
	if err := validStatusFilter(status); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListByRequester(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	s.attachProfiles(ctx, requests, false)
	return requests, nil
}

func (s *service) ListReceived(ctx context.Context, userID, status string) ([]domain.MatchRequest, error) {
	if err := validStatusFilter(status); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListByTarget(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	s.attachProfiles(ctx, requests, true)
	return requests, nil
}

// attachProfiles joins each request with the counterpart's profile summary.
// A missing profile (deleted user) leaves the field nil rather than failing
// the listing.
func (s *service) attachProfiles(ctx context.Context, requests []domain.MatchRequest, requesterSide bool) {
	for i := range requests {
		counterpartID := requests[i].TargetID
		if requesterSide {
			counterpartID = requests[i].RequesterID
		}
		u, err := s.userRepo.Get(ctx, counterpartID)
		if err != nil {
			slog.Warn("could not load counterpart profile", "user_id", counterpartID, "err", err)
			continue
		}
		summary := &domain.ProfileSummary{UserID: u.UserID, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
		if requesterSide {
			requests[i].Requester = summary
		} else {
			requests[i].Target = summary
		}
	}
}

func validStatusFilter(status string) error {
	switch status {
	case "", domain.MatchStatusPending, domain.MatchStatusAccepted, domain.MatchStatusRejected:
		return nil
	default:
		return fmt.Errorf("unknown status filter %q: %w", status, domain.ErrBadRequest)
	}
}
