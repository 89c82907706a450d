// Package syncer drives sync passes against linked providers. It owns the
// cross-cutting rules: window bounds, one sync at a time per connection,
// status and timestamp bookkeeping. The per-provider fetching and
// reconciliation live with the provider services.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/lifehubapp/lifehub/pkg/kv"
)

const (
	kvPrefixLock = "sync:lock:"

	// A sync pass holding its lock longer than this is assumed dead.
	lockTTL = 15 * time.Minute

	maxWindowDays = 365

	defaultGarminDays = 7
	defaultStravaDays = 30
)

// ProviderSyncer is one provider's reconciler. It fills the result's item
// counts and per-item errors; the engine owns the success flag, lock, status
// and timestamps.
type ProviderSyncer interface {
	SyncWindow(ctx context.Context, conn *models.ExternalConnection, start, end time.Time) (*schemas.SyncResult, error)
}

type ConnectionRepo interface {
	Get(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.ExternalConnection, error)
	Update(ctx context.Context, conn *models.ExternalConnection) error
}

type Service struct {
	conns     ConnectionRepo
	kv        kv.Store
	providers map[models.Provider]ProviderSyncer
	log       *zap.Logger
	now       func() time.Time
}

func NewService(conns ConnectionRepo, kvStore kv.Store, log *zap.Logger) *Service {
	return &Service{
		conns:     conns,
		kv:        kvStore,
		providers: make(map[models.Provider]ProviderSyncer),
		log:       log,
		now:       time.Now,
	}
}

// Register binds a provider reconciler. Wiring happens once at startup.
func (s *Service) Register(provider models.Provider, ps ProviderSyncer) {
	s.providers[provider] = ps
}

// Sync runs one pass for (user, provider). Concurrent passes for the same
// connection are rejected with errs.ErrSyncInProgress; different connections
// run in parallel. Every attempt, successful or not, stamps last_sync_at and
// the resulting status on the connection.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID, provider models.Provider, days int, startDate *time.Time) (*schemas.SyncResult, error) {
	ps, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("no syncer registered for provider %q", provider)
	}

	conn, err := s.conns.Get(ctx, userID, provider)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	if conn.SyncStatus == models.StatusConfigSet {
		return nil, errs.ErrNotConnected
	}

	lockKey := kvPrefixLock + userID.String() + ":" + string(provider)
	acquired, err := s.kv.SetNX(ctx, lockKey, []byte("1"), lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !acquired {
		return nil, errs.ErrSyncInProgress
	}
	defer func() {
		if err := s.kv.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			s.log.Warn("failed to release sync lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	start, end := s.window(provider, days, startDate)
	s.log.Info("sync started",
		zap.String("user_id", userID.String()),
		zap.String("provider", string(provider)),
		zap.Time("start", start),
		zap.Time("end", end))

	result, syncErr := ps.SyncWindow(ctx, conn, start, end)
	if result == nil {
		result = &schemas.SyncResult{}
	}

	now := s.now()
	conn.LastSyncAt = &now
	result.LastSyncAt = now

	if syncErr != nil {
		if errors.Is(syncErr, errs.ErrTokenExpired) || errors.Is(syncErr, errs.ErrInvalidCredentials) {
			conn.SyncStatus = models.StatusExpired
		} else {
			conn.SyncStatus = models.StatusError
		}
		conn.LastError = syncErr.Error()
		result.Success = false
		result.Errors = append(result.Errors, syncErr.Error())
	} else {
		conn.SyncStatus = models.StatusConnected
		conn.LastError = ""
		// Per-item failures do not sink the pass; only a pass that produced
		// nothing but errors counts as failed.
		result.Success = result.ItemsSynced > 0 || len(result.Errors) == 0
	}

	if err := s.conns.Update(ctx, conn); err != nil {
		s.log.Error("failed to record sync outcome", zap.Error(err))
		if syncErr == nil {
			syncErr = err
			result.Success = false
		}
	}

	s.log.Info("sync finished",
		zap.String("user_id", userID.String()),
		zap.String("provider", string(provider)),
		zap.Bool("success", result.Success),
		zap.Int("synced", result.ItemsSynced),
		zap.Int("created", result.ItemsCreated),
		zap.Int("updated", result.ItemsUpdated),
		zap.Int("errors", len(result.Errors)))

	return result, syncErr
}

// window resolves the [start, end] range. Days defaults per provider, an
// explicit start date wins over days, and no window reaches back further
// than maxWindowDays.
func (s *Service) window(provider models.Provider, days int, startDate *time.Time) (time.Time, time.Time) {
	now := s.now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if startDate != nil {
		start := startDate.UTC().Truncate(24 * time.Hour)
		if floor := end.AddDate(0, 0, -maxWindowDays); start.Before(floor) {
			start = floor
		}
		if start.After(end) {
			start = end
		}
		return start, end
	}

	if days <= 0 {
		if provider == models.ProviderGarmin {
			days = defaultGarminDays
		} else {
			days = defaultStravaDays
		}
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}
	return end.AddDate(0, 0, -(days - 1)), end
}
