package strava

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/lifehubapp/lifehub/pkg/kv"
	"github.com/lifehubapp/lifehub/pkg/secretbox"
)

type fakeClient struct {
	exchange   func(app AppConfig, code string) (*Token, *Athlete, error)
	refresh    func(app AppConfig, refreshToken string) (*Token, error)
	activities func(accessToken string, after, before time.Time) ([]ActivitySummary, error)

	exchangeCalls int
	refreshCalls  int
}

func (f *fakeClient) Exchange(_ context.Context, app AppConfig, code string) (*Token, *Athlete, error) {
	f.exchangeCalls++
	return f.exchange(app, code)
}

func (f *fakeClient) Refresh(_ context.Context, app AppConfig, refreshToken string) (*Token, error) {
	f.refreshCalls++
	return f.refresh(app, refreshToken)
}

func (f *fakeClient) Activities(_ context.Context, accessToken string, after, before time.Time) ([]ActivitySummary, error) {
	return f.activities(accessToken, after, before)
}

type fakeConnRepo struct {
	rows map[models.Provider]*models.ExternalConnection
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{rows: make(map[models.Provider]*models.ExternalConnection)}
}

func (r *fakeConnRepo) Get(_ context.Context, _ uuid.UUID, provider models.Provider) (*models.ExternalConnection, error) {
	conn, ok := r.rows[provider]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return conn, nil
}

func (r *fakeConnRepo) Upsert(_ context.Context, conn *models.ExternalConnection) error {
	r.rows[conn.Provider] = conn
	return nil
}

func (r *fakeConnRepo) Update(_ context.Context, conn *models.ExternalConnection) error {
	r.rows[conn.Provider] = conn
	return nil
}

func (r *fakeConnRepo) Delete(_ context.Context, _ uuid.UUID, provider models.Provider) error {
	if _, ok := r.rows[provider]; !ok {
		return errs.ErrNotFound
	}
	delete(r.rows, provider)
	return nil
}

type fakeActivityRepo struct {
	byProviderID map[int64]*models.Activity
	nextID       int64
	inserts      int
	updates      int
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{byProviderID: make(map[int64]*models.Activity)}
}

func (r *fakeActivityRepo) GetByID(_ context.Context, _ uuid.UUID, id int64) (*models.Activity, error) {
	for _, a := range r.byProviderID {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeActivityRepo) GetByProviderID(_ context.Context, _ uuid.UUID, id int64) (*models.Activity, error) {
	return r.byProviderID[id], nil
}

func (r *fakeActivityRepo) Insert(_ context.Context, a *models.Activity) error {
	r.inserts++
	r.nextID++
	a.ID = r.nextID
	r.byProviderID[a.ProviderActivityID] = a
	return nil
}

func (r *fakeActivityRepo) Update(_ context.Context, a *models.Activity) error {
	r.updates++
	r.byProviderID[a.ProviderActivityID] = a
	return nil
}

func (r *fakeActivityRepo) Range(_ context.Context, _ uuid.UUID, start, end time.Time) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range r.byProviderID {
		if !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeHealthRepo struct {
	rows map[string]*models.HealthMetric
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{rows: make(map[string]*models.HealthMetric)}
}

func (r *fakeHealthRepo) GetByDate(_ context.Context, _ uuid.UUID, date time.Time) (*models.HealthMetric, error) {
	m, ok := r.rows[date.Format("2006-01-02")]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return m, nil
}

func (r *fakeHealthRepo) Insert(_ context.Context, m *models.HealthMetric) error {
	r.rows[m.Date.Format("2006-01-02")] = m
	return nil
}

func (r *fakeHealthRepo) Update(_ context.Context, m *models.HealthMetric) error {
	r.rows[m.Date.Format("2006-01-02")] = m
	return nil
}

type harness struct {
	svc        *Service
	client     *fakeClient
	conns      *fakeConnRepo
	activities *fakeActivityRepo
	health     *fakeHealthRepo
	kv         kv.Store
	userID     uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	box, err := secretbox.NewFromPassphrase("strava-service-test-passphrase!!")
	require.NoError(t, err)

	h := &harness{
		client:     &fakeClient{},
		conns:      newFakeConnRepo(),
		activities: newFakeActivityRepo(),
		health:     newFakeHealthRepo(),
		kv:         kv.NewMemoryStore(),
		userID:     uuid.New(),
	}
	h.svc = NewService(h.conns, h.activities, h.health, h.client, box, h.kv,
		"http://localhost:8000/api/v1/strava/callback", zap.NewNop())
	return h
}

func (h *harness) configureApp(t *testing.T) {
	t.Helper()
	require.NoError(t, h.svc.SaveAppConfig(context.Background(), h.userID, "12345", "shhh"))
}

// mintState runs the authorize step and pulls the state out of the URL, the
// same way a browser would carry it to the callback.
func (h *harness) mintState(t *testing.T) string {
	t.Helper()
	raw, err := h.svc.AuthorizeURL(context.Background(), h.userID)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func (h *harness) link(t *testing.T) *models.ExternalConnection {
	t.Helper()
	h.configureApp(t)
	h.client.exchange = func(app AppConfig, code string) (*Token, *Athlete, error) {
		return &Token{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    time.Now().Add(6 * time.Hour).Unix(),
		}, &Athlete{ID: 42, Firstname: "Alice", Lastname: "Runner"}, nil
	}
	conn, err := h.svc.Callback(context.Background(), h.userID, "code-"+uuid.NewString(), h.mintState(t))
	require.NoError(t, err)
	return conn
}

func TestSaveAppConfigKeepsExistingTokens(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	tokenBefore := conn.AccessToken

	require.NoError(t, h.svc.SaveAppConfig(context.Background(), h.userID, "6789", "other"))

	after := h.conns.rows[models.ProviderStrava]
	assert.Equal(t, tokenBefore, after.AccessToken)
	assert.Equal(t, models.StatusConnected, after.SyncStatus)
}

func TestAuthorizeURLRequiresAppConfig(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.AuthorizeURL(context.Background(), h.userID)
	require.ErrorIs(t, err, errs.ErrNotConnected)
}

func TestAuthorizeURLEmbedsAppAndState(t *testing.T) {
	h := newHarness(t)
	h.configureApp(t)

	u, err := h.svc.AuthorizeURL(context.Background(), h.userID)
	require.NoError(t, err)
	assert.Contains(t, u, "client_id=12345")
	assert.Contains(t, u, "state=")
	assert.Contains(t, u, "approval_prompt=auto")
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	h := newHarness(t)
	h.configureApp(t)

	_, err := h.svc.Callback(context.Background(), h.userID, "some-code", "forged-state")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.Zero(t, h.client.exchangeCalls)
}

func TestCallbackStateIsSingleUse(t *testing.T) {
	h := newHarness(t)
	h.configureApp(t)
	h.client.exchange = func(AppConfig, string) (*Token, *Athlete, error) {
		return &Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour).Unix()}, &Athlete{ID: 1}, nil
	}

	raw, err := h.svc.AuthorizeURL(context.Background(), h.userID)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	_, err = h.svc.Callback(context.Background(), h.userID, "code-1", state)
	require.NoError(t, err)

	_, err = h.svc.Callback(context.Background(), h.userID, "code-2", state)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestCallbackRejectsReplayedCode(t *testing.T) {
	h := newHarness(t)
	h.configureApp(t)
	h.client.exchange = func(AppConfig, string) (*Token, *Athlete, error) {
		return &Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour).Unix()}, &Athlete{ID: 1}, nil
	}

	_, err := h.svc.Callback(context.Background(), h.userID, "the-code", h.mintState(t))
	require.NoError(t, err)
	require.Equal(t, 1, h.client.exchangeCalls)

	_, err = h.svc.Callback(context.Background(), h.userID, "the-code", h.mintState(t))
	require.ErrorIs(t, err, errs.ErrReplayedCode)
	// The replay never reaches the provider.
	assert.Equal(t, 1, h.client.exchangeCalls)
}

func TestCallbackRequiresState(t *testing.T) {
	h := newHarness(t)
	h.configureApp(t)

	_, err := h.svc.Callback(context.Background(), h.userID, "some-code", "")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.Zero(t, h.client.exchangeCalls)
}

func TestCallbackRetriesAfterExchangeFailure(t *testing.T) {
	h := newHarness(t)
	h.configureApp(t)
	h.client.exchange = func(AppConfig, string) (*Token, *Athlete, error) {
		if h.client.exchangeCalls == 1 {
			return nil, nil, fmt.Errorf("upstream timeout")
		}
		return &Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour).Unix()}, &Athlete{ID: 1}, nil
	}

	_, err := h.svc.Callback(context.Background(), h.userID, "the-code", h.mintState(t))
	require.Error(t, err)

	// The failed exchange must not burn the code.
	conn, err := h.svc.Callback(context.Background(), h.userID, "the-code", h.mintState(t))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConnected, conn.SyncStatus)
	assert.Equal(t, 2, h.client.exchangeCalls)
}

func TestCallbackStoresAthleteIdentitySealed(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)

	assert.Equal(t, "42", conn.ProviderUserID)
	assert.Equal(t, "Alice Runner", conn.ProviderDisplayName)
	assert.Equal(t, models.StatusConnected, conn.SyncStatus)
	assert.NotEqual(t, "access-1", conn.AccessToken)
	assert.NotEqual(t, "refresh-1", conn.RefreshToken)
}

func TestEnsureTokenSkipsRefreshWhenFresh(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)

	h.client.activities = func(token string, _, _ time.Time) ([]ActivitySummary, error) {
		assert.Equal(t, "access-1", token)
		return nil, nil
	}

	_, err := h.svc.SyncWindow(context.Background(), conn, testDay(), testDay())
	require.NoError(t, err)
	assert.Zero(t, h.client.refreshCalls)
}

func TestEnsureTokenRefreshesNearExpiry(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	conn.TokenExpiresAt = time.Now().Add(time.Minute).Unix()

	h.client.refresh = func(app AppConfig, refreshToken string) (*Token, error) {
		assert.Equal(t, "refresh-1", refreshToken)
		return &Token{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresAt: time.Now().Add(6 * time.Hour).Unix()}, nil
	}
	h.client.activities = func(token string, _, _ time.Time) ([]ActivitySummary, error) {
		assert.Equal(t, "access-2", token)
		return nil, nil
	}

	_, err := h.svc.SyncWindow(context.Background(), conn, testDay(), testDay())
	require.NoError(t, err)
	assert.Equal(t, 1, h.client.refreshCalls)
	assert.Equal(t, models.StatusConnected, h.conns.rows[models.ProviderStrava].SyncStatus)
}

func TestEnsureTokenRefreshFailureMarksExpired(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	conn.TokenExpiresAt = time.Now().Add(-time.Hour).Unix()

	h.client.refresh = func(AppConfig, string) (*Token, error) {
		return nil, fmt.Errorf("invalid grant")
	}

	_, err := h.svc.SyncWindow(context.Background(), conn, testDay(), testDay())
	require.ErrorIs(t, err, errs.ErrTokenExpired)

	stored := h.conns.rows[models.ProviderStrava]
	assert.Equal(t, models.StatusExpired, stored.SyncStatus)
	assert.Contains(t, stored.LastError, "refresh failed")
}

func testDay() time.Time { return time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC) }

func rideOn(day time.Time, id int64, movingSeconds int) ActivitySummary {
	return ActivitySummary{
		ID:         id,
		Name:       "Morning Ride",
		Type:       "Ride",
		MovingTime: &movingSeconds,
		StartDate:  day.Add(7 * time.Hour),
	}
}

func TestSyncWindowIsIdempotent(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	day := testDay()

	h.client.activities = func(string, time.Time, time.Time) ([]ActivitySummary, error) {
		return []ActivitySummary{rideOn(day, 1001, 1800)}, nil
	}

	first, err := h.svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ItemsCreated)
	assert.Zero(t, first.ItemsUpdated)

	second, err := h.svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	assert.Zero(t, second.ItemsCreated)
	assert.Equal(t, 1, second.ItemsUpdated)
	assert.Equal(t, 1, h.activities.inserts)

	// Exercise minutes roll up once, not on every pass.
	metric := h.health.rows[day.Format("2006-01-02")]
	require.NotNil(t, metric)
	require.NotNil(t, metric.ExerciseMinutes)
	assert.Equal(t, 30, *metric.ExerciseMinutes)
}

func TestSyncWindowAccumulatesExerciseAcrossActivities(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	day := testDay()

	h.client.activities = func(string, time.Time, time.Time) ([]ActivitySummary, error) {
		return []ActivitySummary{
			rideOn(day, 1001, 1800),
			rideOn(day, 1002, 600),
		}, nil
	}

	result, err := h.svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsCreated)

	metric := h.health.rows[day.Format("2006-01-02")]
	require.NotNil(t, metric)
	require.NotNil(t, metric.ExerciseMinutes)
	assert.Equal(t, 40, *metric.ExerciseMinutes)
}

func TestSyncWindowPreservesRowIdentityOnUpdate(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	day := testDay()

	h.client.activities = func(string, time.Time, time.Time) ([]ActivitySummary, error) {
		return []ActivitySummary{rideOn(day, 1001, 1800)}, nil
	}

	_, err := h.svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	originalID := h.activities.byProviderID[1001].ID

	_, err = h.svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	assert.Equal(t, originalID, h.activities.byProviderID[1001].ID)
}

func TestActivityReturnsSyncedRow(t *testing.T) {
	h := newHarness(t)
	conn := h.link(t)
	day := testDay()

	h.client.activities = func(string, time.Time, time.Time) ([]ActivitySummary, error) {
		return []ActivitySummary{rideOn(day, 1001, 1800)}, nil
	}
	_, err := h.svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)

	rowID := h.activities.byProviderID[1001].ID
	got, err := h.svc.Activity(context.Background(), h.userID, rowID)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), got.ProviderActivityID)
	assert.Equal(t, "Morning Ride", got.Name)
}

func TestActivityUnknownIDIsNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Activity(context.Background(), h.userID, 999)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUnlinkAbsentConnectionIsNoop(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.svc.Unlink(context.Background(), h.userID))
}

func TestUnlinkRemovesAppConfig(t *testing.T) {
	h := newHarness(t)
	h.link(t)
	require.NoError(t, h.svc.Unlink(context.Background(), h.userID))

	assert.Empty(t, h.conns.rows)
	_, err := h.svc.AuthorizeURL(context.Background(), h.userID)
	require.ErrorIs(t, err, errs.ErrNotConnected)
}
