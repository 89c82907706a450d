// Package media stores user-uploaded media (avatars) in S3-compatible
// storage.
package media

import (
	"context"
	"io"
	"time"
)

// Object describes a stored media object.
type Object struct {
	Key          string    `json:"key"`
	Bucket       string    `json:"bucket"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url,omitempty"` // presigned, when requested
}

// Store is the media storage boundary.
type Store interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*Object, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	EnsureBucket(ctx context.Context) error
}

// AvatarKey is the object key for a user's avatar. One avatar per user; a
// re-upload overwrites in place.
func AvatarKey(userID string, ext string) string {
	return "avatars/" + userID + ext
}
