// Package errs contains sentinel errors used across layers for stable error
// mapping between services and the HTTP surface.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates the provider rejected the supplied
	// username/password. Terminal; the user must correct their input.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMFARequired is a control-flow signal, not a failure: the provider
	// wants a one-time code before it will complete the login.
	ErrMFARequired = errors.New("mfa required")

	// ErrInvalidMFACode indicates the supplied one-time code was wrong or
	// expired. The user may retry the code without re-entering the password.
	ErrInvalidMFACode = errors.New("invalid or expired mfa code")

	// ErrTokenExpired indicates stored credentials/tokens are no longer valid
	// and the user must re-link the provider.
	ErrTokenExpired = errors.New("token expired")

	// ErrReplayedCode indicates an OAuth authorization code was already
	// exchanged. Terminal; the user must restart the OAuth flow.
	ErrReplayedCode = errors.New("authorization code already used")

	// ErrNotConnected indicates no usable connection exists for the provider.
	ErrNotConnected = errors.New("provider not connected")

	// ErrSyncInProgress indicates a sync for the same (user, provider) is
	// already running.
	ErrSyncInProgress = errors.New("sync already in progress")
)
