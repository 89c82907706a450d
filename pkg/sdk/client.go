// Package sdk is a thin client for the lifehub API used by lifehubctl. It
// wires config (viper), token storage (OS keyring) and a plain HTTP client
// so commands don't have to.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/lifehubapp/lifehub/pkg/sdk/sdkerr"
)

// Sdk carries the base URL and bearer token for one server. Token may be
// empty for unauthenticated calls (login, ingest).
type Sdk struct {
	BaseURL string
	Token   string

	hc *http.Client
}

// NewSdk returns an SDK bound to the configured base URL, with any stored
// token loaded from the keyring.
func NewSdk() (*Sdk, error) {
	baseURL := viper.GetString(BaseUrlKey)
	token, _ := LoadToken(baseURL)

	return &Sdk{
		BaseURL: baseURL,
		Token:   token,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ClearCredentials removes the cached token for the SDK's base URL from the
// keyring and resets the in-memory copy.
func (s *Sdk) ClearCredentials() {
	if s == nil || s.BaseURL == "" {
		return
	}
	_ = DeleteToken(s.BaseURL)
	s.Token = ""
}

func (s *Sdk) ensureValidToken() error {
	if s.Token == "" {
		return sdkerr.New(sdkerr.CodeUnauthorized, fmt.Errorf("missing credentials"))
	}
	expired, err := IsTokenExpired(s.Token, 30*time.Second)
	if err != nil {
		return sdkerr.New(sdkerr.CodeUnknown, err)
	}
	if expired {
		return sdkerr.New(sdkerr.CodeExpiredToken, fmt.Errorf("stored token has expired"))
	}
	return nil
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// do issues one JSON request. When auth is true the stored token is attached
// and checked for expiry first. A 401 clears cached credentials so the next
// command prompts for login.
func (s *Sdk) do(ctx context.Context, method, path string, headers map[string]string, in, out interface{}, auth bool) error {
	if auth {
		if err := s.ensureValidToken(); err != nil {
			return err
		}
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return sdkerr.New(sdkerr.CodeUnknown, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, body)
	if err != nil {
		return sdkerr.New(sdkerr.CodeUnknown, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return sdkerr.New(sdkerr.CodeUnknown, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return sdkerr.New(sdkerr.CodeUnknown, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if auth {
			s.ClearCredentials()
		}
		return sdkerr.New(sdkerr.CodeUnauthorized, apiDetail(resp.StatusCode, raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return sdkerr.New(sdkerr.CodeAPI, apiDetail(resp.StatusCode, raw))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return sdkerr.New(sdkerr.CodeUnknown, err)
		}
	}
	return nil
}

func apiDetail(status int, raw []byte) error {
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && (ae.Detail != "" || ae.Title != "") {
		if ae.Detail != "" {
			return fmt.Errorf("status %d: %s", status, ae.Detail)
		}
		return fmt.Errorf("status %d: %s", status, ae.Title)
	}
	return fmt.Errorf("status %d", status)
}

// TokenResponse mirrors the server's login/register response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// User mirrors the server's user response body.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionSnapshot mirrors the server's provider connection view.
type ConnectionSnapshot struct {
	Connected      bool       `json:"connected"`
	Provider       string     `json:"provider"`
	DisplayName    string     `json:"display_name,omitempty"`
	ProviderUserID string     `json:"provider_user_id,omitempty"`
	SyncStatus     string     `json:"sync_status"`
	LastError      string     `json:"last_error,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
}

// SyncResult mirrors the server's sync outcome body.
type SyncResult struct {
	Success      bool      `json:"success"`
	ItemsSynced  int       `json:"items_synced"`
	ItemsCreated int       `json:"items_created"`
	ItemsUpdated int       `json:"items_updated"`
	Errors       []string  `json:"errors"`
	LastSyncAt   time.Time `json:"last_sync_at"`
}

// WorkPacket is one desktop heartbeat.
type WorkPacket struct {
	UserID               string    `json:"user_id"`
	Timestamp            time.Time `json:"timestamp"`
	ScreenTimeMinutes    *int      `json:"screen_time_minutes,omitempty"`
	FocusScore           *int      `json:"focus_score,omitempty"`
	ActiveWindowCategory string    `json:"active_window_category,omitempty"`
}

// Login exchanges credentials for a bearer token. The token is returned, not
// stored; callers decide whether to persist it.
func (s *Sdk) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	in := map[string]string{"email": email, "password": password}
	var out TokenResponse
	if err := s.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, in, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user's profile.
func (s *Sdk) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.do(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Connection returns the snapshot for one provider ("garmin" or "strava").
func (s *Sdk) Connection(ctx context.Context, provider string) (*ConnectionSnapshot, error) {
	var out ConnectionSnapshot
	path := fmt.Sprintf("/api/v1/%s/connection", provider)
	if err := s.do(ctx, http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sync triggers a sync pass for one provider. days of 0 uses the server
// default window.
func (s *Sdk) Sync(ctx context.Context, provider string, days int) (*SyncResult, error) {
	in := map[string]int{}
	if days > 0 {
		in["days"] = days
	}
	var out SyncResult
	path := fmt.Sprintf("/api/v1/%s/sync", provider)
	if err := s.do(ctx, http.MethodPost, path, nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// IngestWork pushes one work metric packet with API-key auth. It does not
// require a login token, so unattended agents can call it.
func (s *Sdk) IngestWork(ctx context.Context, apiKey string, packet *WorkPacket) error {
	headers := map[string]string{"X-API-Key": apiKey}
	return s.do(ctx, http.MethodPost, "/api/v1/ingest/work", headers, packet, nil, false)
}
