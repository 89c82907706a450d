package schemas

import "time"

// ConnectionStatus is the caller-facing projection of a provider link. It is
// derived from the persisted connection row on every read, never cached.
type ConnectionStatus string

const (
	StatusNotConnected ConnectionStatus = "not_connected"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
	StatusExpired      ConnectionStatus = "expired"
)

// ConnectionSnapshot is the non-sensitive view of an external connection
// returned by link, status and sync endpoints. Credential material never
// appears here.
type ConnectionSnapshot struct {
	Connected      bool             `json:"connected" doc:"Whether the link is currently usable"`
	Provider       string           `json:"provider" doc:"Provider name" enum:"garmin,strava"`
	DisplayName    string           `json:"display_name,omitempty" doc:"Display name reported by the provider"`
	ProviderUserID string           `json:"provider_user_id,omitempty" doc:"User/athlete ID at the provider"`
	Profile        string           `json:"profile,omitempty" doc:"Profile URL at the provider"`
	SyncStatus     ConnectionStatus `json:"sync_status" doc:"Derived connection status"`
	LastError      string           `json:"last_error,omitempty" doc:"Last recorded sync error"`
	CreatedAt      *time.Time       `json:"created_at,omitempty"`
	LastSyncAt     *time.Time       `json:"last_sync_at,omitempty"`
}

// ConnectionResponse wraps a snapshot for the HTTP surface.
type ConnectionResponse struct {
	Body ConnectionSnapshot
}

// UnlinkResponse acknowledges a provider unlink. Unlinking an absent
// connection is a no-op success.
type UnlinkResponse struct {
	Body struct {
		Message string `json:"message" example:"provider unlinked"`
	}
}
