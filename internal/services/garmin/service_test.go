package garmin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/lifehubapp/lifehub/pkg/secretbox"
)

type fakeClient struct {
	login    func(creds Credentials) (*Session, *Profile, error)
	resume   func(blob string, isCN bool) (*Session, error)
	fetchDay func(day time.Time) (*DayData, error)

	loginCalls int
}

func (f *fakeClient) Login(_ context.Context, creds Credentials) (*Session, *Profile, error) {
	f.loginCalls++
	return f.login(creds)
}

func (f *fakeClient) Resume(_ context.Context, blob string, isCN bool) (*Session, error) {
	if f.resume == nil {
		return nil, errs.ErrTokenExpired
	}
	return f.resume(blob, isCN)
}

func (f *fakeClient) FetchDay(_ context.Context, _ *Session, day time.Time) (*DayData, error) {
	return f.fetchDay(day)
}

type fakeConnRepo struct {
	rows    map[models.Provider]*models.ExternalConnection
	upserts int
	updates int
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
	r.upserts++
	r.rows[conn.Provider] = conn
	return nil
}

func (r *fakeConnRepo) Update(_ context.Context, conn *models.ExternalConnection) error {
	r.updates++
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

type fakeHealthRepo struct {
	rows    map[string]*models.HealthMetric
	inserts int
	updates int
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{rows: make(map[string]*models.HealthMetric)}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func (r *fakeHealthRepo) GetByDate(_ context.Context, _ uuid.UUID, date time.Time) (*models.HealthMetric, error) {
	m, ok := r.rows[dayKey(date)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return m, nil
}

func (r *fakeHealthRepo) Insert(_ context.Context, m *models.HealthMetric) error {
	r.inserts++
	r.rows[dayKey(m.Date)] = m
	return nil
}

func (r *fakeHealthRepo) Update(_ context.Context, m *models.HealthMetric) error {
	r.updates++
	r.rows[dayKey(m.Date)] = m
	return nil
}

func newTestService(t *testing.T, client Client) (*Service, *fakeConnRepo, *fakeHealthRepo) {
	t.Helper()
	box, err := secretbox.NewFromPassphrase("garmin-service-test-passphrase!!")
	require.NoError(t, err)
	conns := newFakeConnRepo()
	health := newFakeHealthRepo()
	return NewService(conns, health, client, box, zap.NewNop()), conns, health
}

func TestConnectMFARequiredPersistsNothing(t *testing.T) {
	client := &fakeClient{
		login: func(creds Credentials) (*Session, *Profile, error) {
			if creds.MFACode == "" {
				return nil, nil, errs.ErrMFARequired
			}
			return &Session{Blob: "blob"}, &Profile{UserID: "g-1"}, nil
		},
	}
	svc, conns, _ := newTestService(t, client)

	_, err := svc.Connect(context.Background(), uuid.New(), Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, errs.ErrMFARequired)
	assert.Zero(t, conns.upserts)
	assert.Empty(t, conns.rows)
}

func TestConnectTwoStepMFAStoresSingleRow(t *testing.T) {
	client := &fakeClient{
		login: func(creds Credentials) (*Session, *Profile, error) {
			switch creds.MFACode {
			case "":
				return nil, nil, errs.ErrMFARequired
			case "123456":
				return &Session{Blob: "session-state"}, &Profile{UserID: "g-1", DisplayName: "Alice"}, nil
			default:
				return nil, nil, errs.ErrInvalidMFACode
			}
		},
	}
	svc, conns, _ := newTestService(t, client)
	userID := uuid.New()

	_, err := svc.Connect(context.Background(), userID, Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, errs.ErrMFARequired)

	_, err = svc.Connect(context.Background(), userID, Credentials{Username: "u", Password: "p", MFACode: "999999"})
	require.ErrorIs(t, err, errs.ErrInvalidMFACode)
	assert.Empty(t, conns.rows)

	conn, err := svc.Connect(context.Background(), userID, Credentials{Username: "u", Password: "p", MFACode: "123456"})
	require.NoError(t, err)
	assert.Equal(t, 1, conns.upserts)
	assert.Equal(t, models.StatusConnected, conn.SyncStatus)
	assert.Equal(t, "Alice", conn.ProviderDisplayName)

	// Stored credential material is sealed, never plaintext.
	assert.NotEqual(t, "u", conn.Username)
	assert.NotEqual(t, "p", conn.Password)
	assert.NotEqual(t, "session-state", conn.SessionBlob)
}

func TestConnectInvalidCredentialsIncludesLoginHint(t *testing.T) {
	client := &fakeClient{
		login: func(Credentials) (*Session, *Profile, error) {
			return nil, nil, errs.ErrInvalidCredentials
		},
	}
	svc, conns, _ := newTestService(t, client)

	_, err := svc.Connect(context.Background(), uuid.New(), Credentials{Username: "u", Password: "bad", IsCN: true})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "garmin.cn")
	assert.Empty(t, conns.rows)
}

func TestUnlinkAbsentConnectionIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeClient{})
	require.NoError(t, svc.Unlink(context.Background(), uuid.New()))
}

func linkedConnection(t *testing.T, svc *Service, conns *fakeConnRepo, client *fakeClient) *models.ExternalConnection {
	t.Helper()
	client.login = func(creds Credentials) (*Session, *Profile, error) {
		return &Session{Blob: "session-state"}, &Profile{UserID: "g-1"}, nil
	}
	conn, err := svc.Connect(context.Background(), uuid.New(), Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)
	client.resume = func(blob string, isCN bool) (*Session, error) {
		return &Session{Blob: blob, IsCN: isCN}, nil
	}
	return conn
}

func TestSyncWindowMergesWithoutClobbering(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc, conns, health := newTestService(t, client)
	conn := linkedConnection(t, svc, conns, client)

	// A manually entered value the provider knows nothing about.
	steps := 9000
	require.NoError(t, health.Insert(context.Background(), &models.HealthMetric{
		UserID: conn.UserID,
		Date:   day,
		Steps:  &steps,
	}))
	health.inserts = 0

	sleepSeconds := 7 * 3600
	client.fetchDay = func(time.Time) (*DayData, error) {
		return &DayData{Summary: &DailySummary{SleepSeconds: &sleepSeconds}}, nil
	}

	result, err := svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsSynced)
	assert.Equal(t, 1, result.ItemsUpdated)
	assert.Zero(t, result.ItemsCreated)

	merged := health.rows[dayKey(day)]
	require.NotNil(t, merged.Steps)
	assert.Equal(t, 9000, *merged.Steps)
	require.NotNil(t, merged.SleepHours)
	assert.InDelta(t, 7.0, *merged.SleepHours, 0.001)
}

func TestSyncWindowAuthErrorAborts(t *testing.T) {
	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc, conns, health := newTestService(t, client)
	conn := linkedConnection(t, svc, conns, client)

	client.fetchDay = func(time.Time) (*DayData, error) {
		return nil, errs.ErrTokenExpired
	}

	result, err := svc.SyncWindow(context.Background(), conn, start, start.AddDate(0, 0, 6))
	require.ErrorIs(t, err, errs.ErrTokenExpired)
	assert.Zero(t, result.ItemsSynced)
	assert.Zero(t, health.inserts)
}

func TestSyncWindowRecordsPerDayErrors(t *testing.T) {
	start := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc, conns, health := newTestService(t, client)
	conn := linkedConnection(t, svc, conns, client)

	steps := 100
	client.fetchDay = func(day time.Time) (*DayData, error) {
		if day.Equal(start) {
			return nil, fmt.Errorf("transient provider error")
		}
		return &DayData{Summary: &DailySummary{TotalSteps: &steps}}, nil
	}

	result, err := svc.SyncWindow(context.Background(), conn, start, start.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsSynced)
	assert.Equal(t, 2, result.ItemsCreated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "2026-08-20")
	assert.Equal(t, 2, health.inserts)
}

func TestSyncWindowSkipsEmptyDays(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc, conns, health := newTestService(t, client)
	conn := linkedConnection(t, svc, conns, client)

	client.fetchDay = func(time.Time) (*DayData, error) {
		return &DayData{}, nil
	}

	result, err := svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	assert.Zero(t, result.ItemsSynced)
	assert.Zero(t, health.inserts)
}

func TestSessionFallsBackToPasswordLogin(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc, conns, _ := newTestService(t, client)
	conn := linkedConnection(t, svc, conns, client)

	// Stored session is dead; only a fresh password login works.
	client.resume = func(string, bool) (*Session, error) {
		return nil, errs.ErrTokenExpired
	}
	client.login = func(creds Credentials) (*Session, *Profile, error) {
		if creds.Username != "u" || creds.Password != "p" {
			return nil, nil, errs.ErrInvalidCredentials
		}
		return &Session{Blob: "fresh-session"}, &Profile{UserID: "g-1"}, nil
	}
	client.fetchDay = func(time.Time) (*DayData, error) {
		return &DayData{}, nil
	}

	updatesBefore := conns.updates
	_, err := svc.SyncWindow(context.Background(), conn, day, day)
	require.NoError(t, err)
	// The refreshed session gets persisted for the next pass.
	assert.Greater(t, conns.updates, updatesBefore)
}

func TestSessionMFAFallbackSurfacesAsExpired(t *testing.T) {
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	client := &fakeClient{}
	svc, conns, _ := newTestService(t, client)
	conn := linkedConnection(t, svc, conns, client)

	client.resume = func(string, bool) (*Session, error) {
		return nil, errs.ErrTokenExpired
	}
	client.login = func(Credentials) (*Session, *Profile, error) {
		return nil, nil, errs.ErrMFARequired
	}

	_, err := svc.SyncWindow(context.Background(), conn, day, day)
	require.ErrorIs(t, err, errs.ErrTokenExpired)
	assert.False(t, errors.Is(err, errs.ErrMFARequired))
}
