package user

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, filename string, r io.Reader) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	repo    userStore
	avatars objectStore
}

func NewService(repo userStore, avatars objectStore) Service {
	return &service{repo: repo, avatars: avatars}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// UpdateAvatar stores the image under a per-user key (new uploads overwrite
// the previous avatar) and records the object URL on the user.
func (s *service) UpdateAvatar(ctx context.Context, userID, filename string, r io.Reader) (*domain.User, error) {
	contentType, err := avatarContentType(filename)
	if err != nil {
		return nil, err
	}
	key := "avatars/" + userID + strings.ToLower(path.Ext(filename))
	url, err := s.avatars.Upload(ctx, key, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func avatarContentType(filename string) (string, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	case ".gif":
		return "image/gif", nil
	case ".webp":
		return "image/webp", nil
	default:
		return "", fmt.Errorf("unsupported avatar format: %w", domain.ErrBadRequest)
	}
}
