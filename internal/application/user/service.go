package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caravanly/caravan-api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, int, error)
	Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
	UploadPhoto(ctx context.Context, userID, filename string, r io.Reader) (string, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
	QueryPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type vouchStore interface {
	ListByVouchee(ctx context.Context, voucheeID string) ([]domain.Vouch, error)
}

type sessionStore interface {
	SoftDeleteByUser(ctx context.Context, userID string) error
}

type photoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type contentTyper func(filename string) string

type service struct {
	repo        userStore
	vouchRepo   vouchStore
	sessionRepo sessionStore
	photos      photoStore
	contentType contentTyper
}

type ServiceDeps struct {
	UserRepo    userStore
	VouchRepo   vouchStore
	SessionRepo sessionStore
	PhotoStore  photoStore
	ContentType contentTyper
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.UserRepo,
		vouchRepo:   deps.VouchRepo,
		sessionRepo: deps.SessionRepo,
		photos:      deps.PhotoStore,
		contentType: deps.ContentType,
	}
}

// Get returns the profile along with the received vouch count.
func (s *service) Get(ctx context.Context, userID string) (*domain.User, int, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if u.Enable == 0 {
		return nil, 0, fmt.Errorf("user disabled: %w", domain.ErrNotFound)
	}

	count := 0
	if s.vouchRepo != nil {
		vouches, err := s.vouchRepo.ListByVouchee(ctx, userID)
		if err == nil {
			count = len(vouches)
		}
	}
	return u, count, nil
}

func (s *service) Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		if *req.Role != domain.RoleAdmin && *req.Role != domain.RoleUser {
			return nil, fmt.Errorf("unknown role %q: %w", *req.Role, domain.ErrBadRequest)
		}
		updates["role"] = *req.Role
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// Delete disables the account, revokes every session tied to it, and
// removes the stored profile photo if there is one.
func (s *service) Delete(ctx context.Context, userID string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if s.sessionRepo != nil {
		if err := s.sessionRepo.SoftDeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}
	if s.photos != nil && u.PhotoURL != "" {
		key := fmt.Sprintf("profiles/%s/photo", userID)
		if err := s.photos.Delete(ctx, key); err != nil {
			slog.Warn("delete profile photo", "user_id", userID, "err", err)
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.QueryPage(ctx, limit, cursor)
}

// UploadPhoto stores the image and records a presigned URL on the profile.
func (s *service) UploadPhoto(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	if s.photos == nil {
		return "", fmt.Errorf("photo storage not configured: %w", domain.ErrBadRequest)
	}
	contentType := s.contentType(filename)
	if contentType == "application/octet-stream" {
		return "", fmt.Errorf("unsupported image type: %w", domain.ErrBadRequest)
	}

	key := fmt.Sprintf("profiles/%s/photo", userID)
	if _, err := s.photos.Upload(ctx, key, r, contentType); err != nil {
		return "", err
	}
	url, err := s.photos.PresignedURL(ctx, key, 7*24*time.Hour)
	if err != nil {
		return "", err
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{"photo_url": url}); err != nil {
		return "", err
	}
	return url, nil
}
