package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// HealthStore persists per-day health rows. One row exists per (user, date);
// merging remote data into an existing row is the reconciler's job, the store
// only reads and writes whole rows.
type HealthStore struct {
	db bun.IDB
}

func (s *HealthStore) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.HealthMetric, error) {
	metric := new(models.HealthMetric)
	err := s.db.NewSelect().
		Model(metric).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *HealthStore) Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.HealthMetric, error) {
	var metrics []models.HealthMetric
	err := s.db.NewSelect().
		Model(&metrics).
		Where("user_id = ?", userID).
		Where("date >= ?", start.Format("2006-01-02")).
		Where("date <= ?", end.Format("2006-01-02")).
		Order("date ASC").
		Scan(ctx)
	return metrics, err
}

func (s *HealthStore) Insert(ctx context.Context, metric *models.HealthMetric) error {
	_, err := s.db.NewInsert().Model(metric).Returning("*").Exec(ctx)
	return err
}

// Delete removes a day's row. Absent rows report ErrNotFound so the caller
// can distinguish a delete from a no-op.
func (s *HealthStore) Delete(ctx context.Context, userID uuid.UUID, date time.Time) error {
	res, err := s.db.NewDelete().
		Model((*models.HealthMetric)(nil)).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *HealthStore) Update(ctx context.Context, metric *models.HealthMetric) error {
	metric.UpdatedAt = time.Now()
	res, err := s.db.NewUpdate().Model(metric).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
