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

// ConnectionStore persists provider links. At most one row exists per
// (user, provider); Upsert enforces that at the SQL level.
type ConnectionStore struct {
	db bun.IDB
}

func (s *ConnectionStore) Get(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.ExternalConnection, error) {
	conn := new(models.ExternalConnection)
	err := s.db.NewSelect().
		Model(conn).
		Where("user_id = ?", userID).
		Where("provider = ?", provider).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *ConnectionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ExternalConnection, error) {
	var conns []models.ExternalConnection
	err := s.db.NewSelect().
		Model(&conns).
		Where("user_id = ?", userID).
		Order("provider ASC").
		Scan(ctx)
	return conns, err
}

// Upsert inserts the connection or replaces the existing row for the same
// (user, provider). The caller owns all field values; nothing is merged here.
func (s *ConnectionStore) Upsert(ctx context.Context, conn *models.ExternalConnection) error {
	conn.UpdatedAt = time.Now()
	_, err := s.db.NewInsert().
		Model(conn).
		On("CONFLICT (user_id, provider) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("password = EXCLUDED.password").
		Set("session_blob = EXCLUDED.session_blob").
		Set("is_cn = EXCLUDED.is_cn").
		Set("client_id = EXCLUDED.client_id").
		Set("client_secret = EXCLUDED.client_secret").
		Set("access_token = EXCLUDED.access_token").
		Set("refresh_token = EXCLUDED.refresh_token").
		Set("token_expires_at = EXCLUDED.token_expires_at").
		Set("provider_user_id = EXCLUDED.provider_user_id").
		Set("provider_display_name = EXCLUDED.provider_display_name").
		Set("provider_profile = EXCLUDED.provider_profile").
		Set("sync_status = EXCLUDED.sync_status").
		Set("last_error = EXCLUDED.last_error").
		Set("last_sync_at = EXCLUDED.last_sync_at").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	return err
}

// Update saves changes to an already-loaded connection row.
func (s *ConnectionStore) Update(ctx context.Context, conn *models.ExternalConnection) error {
	conn.UpdatedAt = time.Now()
	res, err := s.db.NewUpdate().Model(conn).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *ConnectionStore) Delete(ctx context.Context, userID uuid.UUID, provider models.Provider) error {
	res, err := s.db.NewDelete().
		Model((*models.ExternalConnection)(nil)).
		Where("user_id = ?", userID).
		Where("provider = ?", provider).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
