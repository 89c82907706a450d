package garmin

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
)

// Garmin China runs a full parallel deployment; the SSO and API hosts differ
// only in TLD. The China SSO rejects non-browser user agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var (
	csrfRe   = regexp.MustCompile(`name="_csrf"\s+value="([^"]+)"`)
	ticketRe = regexp.MustCompile(`embed\?ticket=([^"]+)"`)
)

// sessionState is the JSON payload behind Session.Blob. It carries the OAuth
// token plus the profile identifiers the data endpoints key on.
type sessionState struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	DisplayName  string `json:"display_name"`
	ProfileID    string `json:"profile_id"`
	FullName     string `json:"full_name"`
}

// HTTPClient implements Client against the live Garmin SSO and Connect API.
type HTTPClient struct {
	hc  *http.Client
	log *zap.Logger
}

func NewHTTPClient(log *zap.Logger) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		hc: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		log: log,
	}
}

func ssoHost(isCN bool) string {
	if isCN {
		return "sso.garmin.cn"
	}
	return "sso.garmin.com"
}

func apiHost(isCN bool) string {
	if isCN {
		return "connectapi.garmin.cn"
	}
	return "connectapi.garmin.com"
}

// LoginURL is the human-facing sign-in page for the account's region. It is
// surfaced in error messages so users land on the right deployment.
func LoginURL(isCN bool) string {
	if isCN {
		return "https://connect.garmin.cn/signin"
	}
	return "https://connect.garmin.com/signin"
}

func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*Session, *Profile, error) {
	sso := ssoHost(creds.IsCN)
	embedURL := fmt.Sprintf("https://%s/sso/embed", sso)
	signinURL := fmt.Sprintf("https://%s/sso/signin?id=gauth-widget&embedWidget=true&gauthHost=%s", sso, url.QueryEscape(embedURL))

	// Prime the session cookies, then scrape the CSRF token off the form.
	if _, err := c.get(ctx, embedURL); err != nil {
		return nil, nil, fmt.Errorf("sso embed: %w", err)
	}
	page, err := c.get(ctx, signinURL)
	if err != nil {
		return nil, nil, fmt.Errorf("sso signin page: %w", err)
	}
	csrf := matchOne(csrfRe, page)
	if csrf == "" {
		return nil, nil, fmt.Errorf("sso signin page: csrf token not found")
	}

	form := url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
		"embed":    {"true"},
		"_csrf":    {csrf},
	}
	page, status, err := c.postForm(ctx, signinURL, form, signinURL)
	if err != nil {
		return nil, nil, fmt.Errorf("sso signin: %w", err)
	}
	if status == http.StatusForbidden || status == http.StatusUnauthorized {
		return nil, nil, errs.ErrInvalidCredentials
	}

	switch {
	case strings.Contains(page, "verifyMFA"):
		if creds.MFACode == "" {
			return nil, nil, errs.ErrMFARequired
		}
		csrf = matchOne(csrfRe, page)
		if csrf == "" {
			return nil, nil, fmt.Errorf("mfa page: csrf token not found")
		}
		mfaURL := fmt.Sprintf("https://%s/sso/verifyMFA/loginEnterMfaCode?id=gauth-widget&embedWidget=true&gauthHost=%s", sso, url.QueryEscape(embedURL))
		form := url.Values{
			"mfa-code": {creds.MFACode},
			"embed":    {"true"},
			"_csrf":    {csrf},
			"fromPage": {"setupEnterMfaCode"},
		}
		page, status, err = c.postForm(ctx, mfaURL, form, signinURL)
		if err != nil {
			return nil, nil, fmt.Errorf("sso verify mfa: %w", err)
		}
		if status >= 400 || strings.Contains(page, "verifyMFA") {
			return nil, nil, errs.ErrInvalidMFACode
		}
	case strings.Contains(page, "Invalid") || !strings.Contains(page, "ticket="):
		return nil, nil, errs.ErrInvalidCredentials
	}

	ticket := matchOne(ticketRe, page)
	if ticket == "" {
		return nil, nil, errs.ErrInvalidCredentials
	}

	state, err := c.exchangeTicket(ctx, ticket, creds.IsCN)
	if err != nil {
		return nil, nil, fmt.Errorf("ticket exchange: %w", err)
	}

	sess := &Session{IsCN: creds.IsCN}
	profile, err := c.socialProfile(ctx, state, creds.IsCN)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch profile: %w", err)
	}
	state.DisplayName = profile.UserID
	state.FullName = profile.DisplayName

	blob, err := json.Marshal(state)
	if err != nil {
		return nil, nil, err
	}
	sess.Blob = base64.StdEncoding.EncodeToString(blob)
	return sess, profile, nil
}

// Resume rebuilds a session from a stored blob and verifies it still works
// with one cheap profile call. A dead session surfaces errs.ErrTokenExpired
// so the caller falls back to a password login.
func (c *HTTPClient) Resume(ctx context.Context, blob string, isCN bool) (*Session, error) {
	state, err := decodeState(blob)
	if err != nil {
		return nil, errs.ErrTokenExpired
	}
	if state.ExpiresAt > 0 && time.Now().Unix() >= state.ExpiresAt {
		return nil, errs.ErrTokenExpired
	}
	if _, err := c.socialProfile(ctx, state, isCN); err != nil {
		return nil, errs.ErrTokenExpired
	}
	return &Session{Blob: blob, IsCN: isCN}, nil
}

func (c *HTTPClient) FetchDay(ctx context.Context, sess *Session, day time.Time) (*DayData, error) {
	state, err := decodeState(sess.Blob)
	if err != nil {
		return nil, errs.ErrTokenExpired
	}
	ds := day.Format("2006-01-02")
	api := apiHost(sess.IsCN)

	out := &DayData{}

	summaryURL := fmt.Sprintf("https://%s/usersummary-service/usersummary/daily/%s?calendarDate=%s",
		api, url.PathEscape(state.DisplayName), ds)
	var summary DailySummary
	if err := c.getJSON(ctx, summaryURL, state.AccessToken, &summary); err != nil {
		return nil, err
	}
	out.Summary = &summary

	sleepURL := fmt.Sprintf("https://%s/wellness-service/wellness/dailySleepData/%s?date=%s&nonSleepBufferMinutes=60",
		api, url.PathEscape(state.DisplayName), ds)
	var sleep SleepData
	if err := c.getJSON(ctx, sleepURL, state.AccessToken, &sleep); err != nil {
		// Sleep data is regularly absent (watch not worn overnight); only
		// auth failures abort the day.
		if errors.Is(err, errs.ErrTokenExpired) {
			return nil, err
		}
		c.log.Debug("sleep data unavailable", zap.String("date", ds), zap.Error(err))
	} else {
		out.Sleep = &sleep
	}

	return out, nil
}

func (c *HTTPClient) exchangeTicket(ctx context.Context, ticket string, isCN bool) (*sessionState, error) {
	exchangeURL := fmt.Sprintf("https://%s/oauth-service/oauth/exchange/user/2.0", apiHost(isCN))
	form := url.Values{"ticket": {ticket}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exchangeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth exchange returned status %d", resp.StatusCode)
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &sessionState{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    time.Now().Unix() + token.ExpiresIn,
	}, nil
}

func (c *HTTPClient) socialProfile(ctx context.Context, state *sessionState, isCN bool) (*Profile, error) {
	profileURL := fmt.Sprintf("https://%s/userprofile-service/socialProfile", apiHost(isCN))
	var body struct {
		ProfileID   int64  `json:"profileId"`
		DisplayName string `json:"displayName"`
		FullName    string `json:"fullName"`
	}
	if err := c.getJSON(ctx, profileURL, state.AccessToken, &body); err != nil {
		return nil, err
	}
	return &Profile{
		UserID:      body.DisplayName,
		DisplayName: body.FullName,
		ProfileURL:  fmt.Sprintf("https://connect.garmin.%s/modern/profile/%s", tld(isCN), body.DisplayName),
	}, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, rawURL, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.ErrTokenExpired
	default:
		return fmt.Errorf("garmin api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return string(body), err
}

func (c *HTTPClient) postForm(ctx context.Context, rawURL string, form url.Values, referer string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", referer)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode, err
}

func decodeState(blob string) (*sessionState, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, err
	}
	state := new(sessionState)
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, err
	}
	return state, nil
}

func matchOne(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func tld(isCN bool) string {
	if isCN {
		return "cn"
	}
	return "com"
}
