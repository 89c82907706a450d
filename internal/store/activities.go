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

// ActivityStore persists synced provider activities.
type ActivityStore struct {
	db bun.IDB
}

// GetByID looks an activity up by its row id, scoped to the user so one user
// cannot read another's activities.
func (s *ActivityStore) GetByID(ctx context.Context, userID uuid.UUID, id int64) (*models.Activity, error) {
	activity := new(models.Activity)
	err := s.db.NewSelect().
		Model(activity).
		Where("user_id = ?", userID).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// GetByProviderID looks an activity up by its provider-side identifier.
// Returns (nil, nil) when no row exists so the reconciler can distinguish
// insert from update without error plumbing.
func (s *ActivityStore) GetByProviderID(ctx context.Context, userID uuid.UUID, providerActivityID int64) (*models.Activity, error) {
	activity := new(models.Activity)
	err := s.db.NewSelect().
		Model(activity).
		Where("user_id = ?", userID).
		Where("provider_activity_id = ?", providerActivityID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *ActivityStore) Insert(ctx context.Context, activity *models.Activity) error {
	_, err := s.db.NewInsert().Model(activity).Returning("*").Exec(ctx)
	return err
}

func (s *ActivityStore) Update(ctx context.Context, activity *models.Activity) error {
	activity.UpdatedAt = time.Now()
	_, err := s.db.NewUpdate().Model(activity).WherePK().Exec(ctx)
	return err
}

func (s *ActivityStore) Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Activity, error) {
	var activities []models.Activity
	err := s.db.NewSelect().
		Model(&activities).
		Where("user_id = ?", userID).
		Where("date >= ?", start.Format("2006-01-02")).
		Where("date <= ?", end.Format("2006-01-02")).
		Order("date DESC").
		Order("start_date DESC").
		Scan(ctx)
	return activities, err
}

// Recent returns the newest activities for a user, capped at limit.
func (s *ActivityStore) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := s.db.NewSelect().
		Model(&activities).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("start_date DESC").
		Limit(limit).
		Scan(ctx)
	return activities, err
}
