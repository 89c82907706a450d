// Package strava links user accounts to Strava via the standard OAuth2
// authorization-code flow and pulls activities. Unlike a typical OAuth
// integration there is no process-wide application: every user registers
// their own Strava app and stores its client id and secret, so all oauth2
// configuration is built per user at call time.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/lifehubapp/lifehub/internal/errs"
)

const (
	authURL  = "https://www.strava.com/oauth/authorize"
	tokenURL = "https://www.strava.com/oauth/token"
	apiBase  = "https://www.strava.com/api/v3"

	// Strava wants comma-separated scopes, so they go in as one element.
	scopes = "activity:read_all,read_all"

	activitiesPerPage = 200
	maxActivityPages  = 10
)

// AppConfig is one user's Strava application credentials, decrypted.
type AppConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Token is the persisted view of a Strava OAuth token pair.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64 // unix seconds
}

// Athlete is the identity Strava reports alongside the token exchange.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Profile   string `json:"profile"`
}

// ActivitySummary mirrors the fields of /athlete/activities this system
// keeps. Heart rate comes back as a float even though max is a whole number.
type ActivitySummary struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	Distance           *float64  `json:"distance"`
	MovingTime         *int      `json:"moving_time"`
	ElapsedTime        *int      `json:"elapsed_time"`
	AverageSpeed       *float64  `json:"average_speed"`
	MaxSpeed           *float64  `json:"max_speed"`
	AverageHeartrate   *float64  `json:"average_heartrate"`
	MaxHeartrate       *float64  `json:"max_heartrate"`
	TotalElevationGain *float64  `json:"total_elevation_gain"`
	Calories           *float64  `json:"calories"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
}

// Client is the provider boundary; tests substitute a fake.
type Client interface {
	Exchange(ctx context.Context, app AppConfig, code string) (*Token, *Athlete, error)
	Refresh(ctx context.Context, app AppConfig, refreshToken string) (*Token, error)
	Activities(ctx context.Context, accessToken string, after, before time.Time) ([]ActivitySummary, error)
}

// oauthConfig builds the per-user oauth2 configuration.
func oauthConfig(app AppConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		RedirectURL:  app.RedirectURL,
		Scopes:       []string{scopes},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}

// AuthCodeURL builds the provider authorize URL for one user's app.
func AuthCodeURL(app AppConfig, state string) string {
	return oauthConfig(app).AuthCodeURL(state,
		oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// HTTPClient implements Client against the live Strava API.
type HTTPClient struct {
	hc *http.Client
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{hc: &http.Client{Timeout: 30 * time.Second}}
}

func (c *HTTPClient) Exchange(ctx context.Context, app AppConfig, code string) (*Token, *Athlete, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.hc)
	tok, err := oauthConfig(app).Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("code exchange: %w", err)
	}

	// Strava embeds the athlete in the token response.
	athlete := &Athlete{}
	if raw := tok.Extra("athlete"); raw != nil {
		buf, err := json.Marshal(raw)
		if err == nil {
			_ = json.Unmarshal(buf, athlete)
		}
	}

	return fromOAuthToken(tok), athlete, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, app AppConfig, refreshToken string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.hc)
	src := oauthConfig(app).TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}
	return fromOAuthToken(tok), nil
}

// Activities pages through /athlete/activities for the window. Pagination is
// capped; a window dense enough to hit the cap is syncing far too much at
// once anyway.
func (c *HTTPClient) Activities(ctx context.Context, accessToken string, after, before time.Time) ([]ActivitySummary, error) {
	var all []ActivitySummary
	for page := 1; page <= maxActivityPages; page++ {
		q := url.Values{
			"after":    {strconv.FormatInt(after.Unix(), 10)},
			"before":   {strconv.FormatInt(before.Unix(), 10)},
			"per_page": {strconv.Itoa(activitiesPerPage)},
			"page":     {strconv.Itoa(page)},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/athlete/activities?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := c.hc.Do(req)
		if err != nil {
			return nil, err
		}

		var batch []ActivitySummary
		switch resp.StatusCode {
		case http.StatusOK:
			err = json.NewDecoder(resp.Body).Decode(&batch)
		case http.StatusUnauthorized, http.StatusForbidden:
			err = errs.ErrTokenExpired
		default:
			err = fmt.Errorf("strava api returned status %d", resp.StatusCode)
		}
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		if len(batch) < activitiesPerPage {
			break
		}
	}
	return all, nil
}

func fromOAuthToken(tok *oauth2.Token) *Token {
	out := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresAt = tok.Expiry.Unix()
	}
	// Strava also reports expires_at directly; prefer it when present.
	if raw := tok.Extra("expires_at"); raw != nil {
		if f, ok := raw.(float64); ok {
			out.ExpiresAt = int64(f)
		}
	}
	return out
}
