package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// UserStore persists family member accounts.
type UserStore struct {
	db bun.IDB
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("email = ?", user.Email).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return errs.ErrAlreadyExists
	}

	_, err = s.db.NewInsert().Model(user).Returning("*").Exec(ctx)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := new(models.User)
	err := s.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := s.db.NewSelect().Model(user).Where("email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every active account, ordered by creation so the dashboard
// shows family members in a stable order.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.NewSelect().
		Model(&users).
		Where("is_active = TRUE").
		Order("created_at ASC").
		Scan(ctx)
	return users, err
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	res, err := s.db.NewUpdate().Model(user).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetAvatar updates just the avatar object key.
func (s *UserStore) SetAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	res, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("avatar = ?", avatar).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
