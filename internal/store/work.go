package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// WorkStore persists desktop heartbeat packets.
type WorkStore struct {
	db bun.IDB
}

func (s *WorkStore) Insert(ctx context.Context, metric *models.WorkMetric) error {
	_, err := s.db.NewInsert().Model(metric).Returning("*").Exec(ctx)
	return err
}

func (s *WorkStore) Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.WorkMetric, error) {
	var metrics []models.WorkMetric
	err := s.db.NewSelect().
		Model(&metrics).
		Where("user_id = ?", userID).
		Where("timestamp >= ?", start).
		Where("timestamp < ?", end).
		Order("timestamp ASC").
		Scan(ctx)
	return metrics, err
}
