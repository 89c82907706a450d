package media

import "errors"

var (
	ErrNotFound             = errors.New("media object not found")
	ErrUnsupportedMedia     = errors.New("unsupported media type")
	ErrObjectTooLarge       = errors.New("media object too large")
	ErrStorageNotConfigured = errors.New("media storage not configured")
)
