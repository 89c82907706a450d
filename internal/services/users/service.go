// Package users manages profiles and avatar uploads.
package users

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/lifehubapp/lifehub/pkg/media"
)

const (
	maxAvatarBytes = 5 << 20

	avatarURLTTL = 24 * time.Hour
)

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetAvatar(ctx context.Context, id uuid.UUID, avatar string) error
}

type Service struct {
	users UserRepo
	media media.Store // nil when no object storage is configured
	log   *zap.Logger
}

func NewService(users UserRepo, mediaStore media.Store, log *zap.Logger) *Service {
	return &Service{users: users, media: mediaStore, log: log}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all active family members.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile applies the non-empty fields.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, name, avatar string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the image and records its object key on the user. The
// returned URL is presigned and short-lived; clients re-fetch it rather than
// persisting it.
func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, contentType string, data []byte) (string, error) {
	if s.media == nil {
		return "", media.ErrStorageNotConfigured
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", media.ErrUnsupportedMedia, contentType)
	}
	if len(data) > maxAvatarBytes {
		return "", media.ErrObjectTooLarge
	}

	key := media.AvatarKey(id.String(), ext)
	if _, err := s.media.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	if err := s.users.SetAvatar(ctx, id, key); err != nil {
		return "", err
	}

	url, err := s.media.PresignedURL(ctx, key, avatarURLTTL)
	if err != nil {
		// Upload succeeded; the key is retrievable later even if the URL
		// could not be signed now.
		s.log.Warn("failed to presign avatar url", zap.String("key", key), zap.Error(err))
		return key, nil
	}
	return url, nil
}

// AvatarURL resolves a stored avatar key to a presigned URL. Empty in, empty
// out.
func (s *Service) AvatarURL(ctx context.Context, key string) string {
	if key == "" || s.media == nil {
		return key
	}
	url, err := s.media.PresignedURL(ctx, key, avatarURLTTL)
	if err != nil {
		return key
	}
	return url
}
