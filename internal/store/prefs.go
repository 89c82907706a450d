package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// PrefStore persists per-user dashboard preferences.
type PrefStore struct {
	db bun.IDB
}

// GetOrCreate returns the user's preference row, inserting the defaults on
// first access.
func (s *PrefStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	pref := new(models.UserPreference)
	err := s.db.NewSelect().
		Model(pref).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	pref = &models.UserPreference{
		UserID:          userID,
		ShowSleep:       true,
		ShowExercise:    true,
		ShowWorkTime:    true,
		ShowFocus:       true,
		ShowStress:      true,
		ShowSleepStages: true,
		DefaultViewTab:  "activity",
	}
	_, err = s.db.NewInsert().Model(pref).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (s *PrefStore) Update(ctx context.Context, pref *models.UserPreference) error {
	pref.UpdatedAt = time.Now()
	_, err := s.db.NewUpdate().Model(pref).WherePK().Exec(ctx)
	return err
}
