// Package health handles manual health metric entry, metric listing and
// work-metric ingestion from desktop clients.
package health

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type HealthRepo interface {
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.HealthMetric, error)
	Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.HealthMetric, error)
	Insert(ctx context.Context, metric *models.HealthMetric) error
	Update(ctx context.Context, metric *models.HealthMetric) error
	Delete(ctx context.Context, userID uuid.UUID, date time.Time) error
}

type WorkRepo interface {
	Insert(ctx context.Context, metric *models.WorkMetric) error
}

type Service struct {
	health       HealthRepo
	work         WorkRepo
	ingestAPIKey string
	log          *zap.Logger
}

func NewService(health HealthRepo, work WorkRepo, ingestAPIKey string, log *zap.Logger) *Service {
	return &Service{
		health:       health,
		work:         work,
		ingestAPIKey: ingestAPIKey,
		log:          log,
	}
}

// Upsert merges a manual entry into the day's row. Only non-nil fields are
// written; omitted fields keep whatever value they had, synced or manual.
func (s *Service) Upsert(ctx context.Context, entry *models.HealthMetric) (*models.HealthMetric, error) {
	day := time.Date(entry.Date.Year(), entry.Date.Month(), entry.Date.Day(), 0, 0, 0, 0, time.UTC)
	entry.Date = day

	existing, err := s.health.GetByDate(ctx, entry.UserID, day)
	switch {
	case err == nil:
		existing.MergeFrom(entry)
		if err := s.health.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, errs.ErrNotFound):
		if err := s.health.Insert(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	default:
		return nil, err
	}
}

// List returns the user's metrics in [start, end].
func (s *Service) List(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.HealthMetric, error) {
	return s.health.Range(ctx, userID, start, end)
}

// Delete removes a day's row entirely. Deleting a day that has no row is
// ErrNotFound, matching the read side.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, date time.Time) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.health.Delete(ctx, userID, day); err != nil {
		return err
	}
	s.log.Info("health metric deleted",
		zap.String("user_id", userID.String()),
		zap.String("date", day.Format("2006-01-02")))
	return nil
}

// checkKey authenticates an ingest caller against the shared API key. An
// unset key disables ingestion entirely rather than accepting everything.
func (s *Service) checkKey(apiKey string) error {
	if s.ingestAPIKey == "" {
		return errs.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.ingestAPIKey)) != 1 {
		return errs.ErrUnauthorized
	}
	return nil
}

// IngestHealth upserts one day of health data on behalf of a device. Same
// merge semantics as a manual Upsert, authenticated by the ingest key.
func (s *Service) IngestHealth(ctx context.Context, apiKey string, entry *models.HealthMetric) (*models.HealthMetric, error) {
	if err := s.checkKey(apiKey); err != nil {
		return nil, err
	}
	return s.Upsert(ctx, entry)
}

// IngestWork records one heartbeat packet from a desktop client. The caller
// authenticates with the shared ingest API key, not a user token, since the
// packets arrive from unattended machines.
func (s *Service) IngestWork(ctx context.Context, apiKey string, metric *models.WorkMetric) error {
	if err := s.checkKey(apiKey); err != nil {
		return err
	}
	if metric.Timestamp.IsZero() {
		metric.Timestamp = time.Now().UTC()
	}
	if err := s.work.Insert(ctx, metric); err != nil {
		return err
	}
	s.log.Debug("work metric recorded", zap.String("user_id", metric.UserID.String()))
	return nil
}
