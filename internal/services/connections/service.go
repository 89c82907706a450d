// Package connections projects persisted provider links into the
// caller-facing connection status. The projection is a pure function of the
// stored row (or its absence), recomputed on every read; there is no cached
// "connected" flag to drift out of date.
package connections

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type ConnectionRepo interface {
	Get(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.ExternalConnection, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ExternalConnection, error)
}

type Service struct {
	conns ConnectionRepo
}

func NewService(conns ConnectionRepo) *Service {
	return &Service{conns: conns}
}

// Project derives the caller-facing status from a stored row. A missing row
// and a config_set row (Strava app credentials without tokens) both read as
// not_connected.
func Project(conn *models.ExternalConnection) schemas.ConnectionStatus {
	if conn == nil {
		return schemas.StatusNotConnected
	}
	switch conn.SyncStatus {
	case models.StatusConnected:
		return schemas.StatusConnected
	case models.StatusError:
		return schemas.StatusError
	case models.StatusExpired:
		return schemas.StatusExpired
	default:
		return schemas.StatusNotConnected
	}
}

// Snapshot builds the non-sensitive view of a link for one provider. conn may
// be nil.
func Snapshot(provider models.Provider, conn *models.ExternalConnection) schemas.ConnectionSnapshot {
	status := Project(conn)
	snap := schemas.ConnectionSnapshot{
		Provider:   string(provider),
		SyncStatus: status,
		Connected:  status == schemas.StatusConnected,
	}
	if conn == nil {
		return snap
	}
	snap.DisplayName = conn.ProviderDisplayName
	snap.ProviderUserID = conn.ProviderUserID
	snap.Profile = conn.ProviderProfile
	snap.LastError = conn.LastError
	snap.LastSyncAt = conn.LastSyncAt
	if !conn.CreatedAt.IsZero() {
		created := conn.CreatedAt
		snap.CreatedAt = &created
	}
	return snap
}

// Get returns the snapshot for one provider. An absent link is not an error;
// it reads as not_connected.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, provider models.Provider) (schemas.ConnectionSnapshot, error) {
	conn, err := s.conns.Get(ctx, userID, provider)
	if errors.Is(err, errs.ErrNotFound) {
		return Snapshot(provider, nil), nil
	}
	if err != nil {
		return schemas.ConnectionSnapshot{}, err
	}
	return Snapshot(provider, conn), nil
}

// List returns one snapshot per known provider, present or not.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]schemas.ConnectionSnapshot, error) {
	rows, err := s.conns.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byProvider := make(map[models.Provider]*models.ExternalConnection, len(rows))
	for i := range rows {
		byProvider[rows[i].Provider] = &rows[i]
	}

	providers := []models.Provider{models.ProviderGarmin, models.ProviderStrava}
	snaps := make([]schemas.ConnectionSnapshot, 0, len(providers))
	for _, p := range providers {
		snaps = append(snaps, Snapshot(p, byProvider[p]))
	}
	return snaps, nil
}
