package health

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type dayKey struct {
	userID uuid.UUID
	day    time.Time
}

type fakeHealthRepo struct {
	byDay   map[dayKey]*models.HealthMetric
	inserts int
	updates int
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{byDay: make(map[dayKey]*models.HealthMetric)}
}

func (r *fakeHealthRepo) GetByDate(_ context.Context, userID uuid.UUID, date time.Time) (*models.HealthMetric, error) {
	if m, ok := r.byDay[dayKey{userID, date}]; ok {
		return m, nil
	}
	return nil, errs.ErrNotFound
}

func (r *fakeHealthRepo) Range(_ context.Context, userID uuid.UUID, start, end time.Time) ([]models.HealthMetric, error) {
	var out []models.HealthMetric
	for k, m := range r.byDay {
		if k.userID == userID && !k.day.Before(start) && !k.day.After(end) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeHealthRepo) Insert(_ context.Context, metric *models.HealthMetric) error {
	r.inserts++
	r.byDay[dayKey{metric.UserID, metric.Date}] = metric
	return nil
}

func (r *fakeHealthRepo) Update(_ context.Context, metric *models.HealthMetric) error {
	r.updates++
	r.byDay[dayKey{metric.UserID, metric.Date}] = metric
	return nil
}

func (r *fakeHealthRepo) Delete(_ context.Context, userID uuid.UUID, date time.Time) error {
	k := dayKey{userID, date}
	if _, ok := r.byDay[k]; !ok {
		return errs.ErrNotFound
	}
	delete(r.byDay, k)
	return nil
}

type fakeWorkRepo struct {
	rows []*models.WorkMetric
}

func (r *fakeWorkRepo) Insert(_ context.Context, metric *models.WorkMetric) error {
	r.rows = append(r.rows, metric)
	return nil
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestUpsertNormalizesDateToUTCMidnight(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewService(repo, &fakeWorkRepo{}, "", zap.NewNop())
	userID := uuid.New()

	loc := time.FixedZone("JST", 9*3600)
	entry := &models.HealthMetric{
		UserID: userID,
		Date:   time.Date(2026, 8, 20, 23, 45, 0, 0, loc),
		Steps:  intp(4000),
	}

	got, err := svc.Upsert(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, 1, repo.inserts)
}

func TestUpsertMergesIntoExistingDay(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewService(repo, &fakeWorkRepo{}, "", zap.NewNop())
	userID := uuid.New()
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	repo.byDay[dayKey{userID, day}] = &models.HealthMetric{
		UserID:     userID,
		Date:       day,
		Steps:      intp(9000),
		SleepHours: floatp(7.5),
	}

	got, err := svc.Upsert(context.Background(), &models.HealthMetric{
		UserID:      userID,
		Date:        day,
		StressLevel: intp(30),
	})
	require.NoError(t, err)

	// Synced values survive, the manual field lands on top.
	require.NotNil(t, got.Steps)
	assert.Equal(t, 9000, *got.Steps)
	require.NotNil(t, got.SleepHours)
	assert.Equal(t, 7.5, *got.SleepHours)
	require.NotNil(t, got.StressLevel)
	assert.Equal(t, 30, *got.StressLevel)
	assert.Equal(t, 0, repo.inserts)
	assert.Equal(t, 1, repo.updates)
}

func TestDeleteRemovesDay(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewService(repo, &fakeWorkRepo{}, "", zap.NewNop())
	userID := uuid.New()
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo.byDay[dayKey{userID, day}] = &models.HealthMetric{UserID: userID, Date: day, Steps: intp(100)}

	// The caller's timestamp collapses to the same UTC day.
	loc := time.FixedZone("JST", 9*3600)
	err := svc.Delete(context.Background(), userID, time.Date(2026, 8, 20, 23, 45, 0, 0, loc))
	require.NoError(t, err)
	assert.Empty(t, repo.byDay)
}

func TestDeleteAbsentDayIsNotFound(t *testing.T) {
	svc := NewService(newFakeHealthRepo(), &fakeWorkRepo{}, "", zap.NewNop())
	err := svc.Delete(context.Background(), uuid.New(), time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestIngestHealthRejectsWrongKey(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewService(repo, &fakeWorkRepo{}, "secret-key", zap.NewNop())

	_, err := svc.IngestHealth(context.Background(), "wrong", &models.HealthMetric{UserID: uuid.New()})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.Zero(t, repo.inserts)
}

func TestIngestHealthMergesLikeManualEntry(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewService(repo, &fakeWorkRepo{}, "secret-key", zap.NewNop())
	userID := uuid.New()
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repo.byDay[dayKey{userID, day}] = &models.HealthMetric{UserID: userID, Date: day, Steps: intp(9000)}

	got, err := svc.IngestHealth(context.Background(), "secret-key", &models.HealthMetric{
		UserID:     userID,
		Date:       day,
		SleepHours: floatp(7.0),
	})
	require.NoError(t, err)

	require.NotNil(t, got.Steps)
	assert.Equal(t, 9000, *got.Steps)
	require.NotNil(t, got.SleepHours)
	assert.Equal(t, 7.0, *got.SleepHours)
	assert.Equal(t, 1, repo.updates)
}

func TestIngestWorkRejectsWhenNoKeyConfigured(t *testing.T) {
	work := &fakeWorkRepo{}
	svc := NewService(newFakeHealthRepo(), work, "", zap.NewNop())

	err := svc.IngestWork(context.Background(), "", &models.WorkMetric{UserID: uuid.New()})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.Empty(t, work.rows)
}

func TestIngestWorkRejectsWrongKey(t *testing.T) {
	work := &fakeWorkRepo{}
	svc := NewService(newFakeHealthRepo(), work, "secret-key", zap.NewNop())

	err := svc.IngestWork(context.Background(), "wrong", &models.WorkMetric{UserID: uuid.New()})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.Empty(t, work.rows)
}

func TestIngestWorkStampsMissingTimestamp(t *testing.T) {
	work := &fakeWorkRepo{}
	svc := NewService(newFakeHealthRepo(), work, "secret-key", zap.NewNop())

	before := time.Now().UTC()
	err := svc.IngestWork(context.Background(), "secret-key", &models.WorkMetric{
		UserID:            uuid.New(),
		ScreenTimeMinutes: intp(42),
	})
	require.NoError(t, err)

	require.Len(t, work.rows, 1)
	got := work.rows[0]
	assert.False(t, got.Timestamp.Before(before))
	require.NotNil(t, got.ScreenTimeMinutes)
	assert.Equal(t, 42, *got.ScreenTimeMinutes)
}

func TestIngestWorkKeepsCallerTimestamp(t *testing.T) {
	work := &fakeWorkRepo{}
	svc := NewService(newFakeHealthRepo(), work, "secret-key", zap.NewNop())

	ts := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	err := svc.IngestWork(context.Background(), "secret-key", &models.WorkMetric{
		UserID:    uuid.New(),
		Timestamp: ts,
	})
	require.NoError(t, err)

	require.Len(t, work.rows, 1)
	assert.Equal(t, ts, work.rows[0].Timestamp)
}
