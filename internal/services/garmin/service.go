package garmin

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
	"github.com/lifehubapp/lifehub/pkg/secretbox"
)

// ConnectionRepo is the slice of the connection store this service needs.
type ConnectionRepo interface {
	Get(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.ExternalConnection, error)
	Upsert(ctx context.Context, conn *models.ExternalConnection) error
	Update(ctx context.Context, conn *models.ExternalConnection) error
	Delete(ctx context.Context, userID uuid.UUID, provider models.Provider) error
}

// HealthRepo is the slice of the health store the reconciler needs.
type HealthRepo interface {
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.HealthMetric, error)
	Insert(ctx context.Context, metric *models.HealthMetric) error
	Update(ctx context.Context, metric *models.HealthMetric) error
}

// Service owns the Garmin link flow and the per-day reconciliation used by
// the sync engine.
type Service struct {
	conns  ConnectionRepo
	health HealthRepo
	client Client
	box    *secretbox.Box
	log    *zap.Logger
}

func NewService(conns ConnectionRepo, health HealthRepo, client Client, box *secretbox.Box, log *zap.Logger) *Service {
	return &Service{
		conns:  conns,
		health: health,
		client: client,
		box:    box,
		log:    log,
	}
}

// Connect runs one step of the link flow. A first call without an MFA code
// either links the account outright or returns errs.ErrMFARequired; in the
// latter case nothing is persisted and the caller resubmits the same
// credentials together with the code. Wrong codes return
// errs.ErrInvalidMFACode and stay retryable.
func (s *Service) Connect(ctx context.Context, userID uuid.UUID, creds Credentials) (*models.ExternalConnection, error) {
	sess, profile, err := s.client.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return nil, fmt.Errorf("%w: check your credentials at %s", errs.ErrInvalidCredentials, LoginURL(creds.IsCN))
		}
		return nil, err
	}

	sealedUser, err := s.box.Seal(creds.Username)
	if err != nil {
		return nil, err
	}
	sealedPass, err := s.box.Seal(creds.Password)
	if err != nil {
		return nil, err
	}
	sealedBlob, err := s.box.Seal(sess.Blob)
	if err != nil {
		return nil, err
	}

	conn := &models.ExternalConnection{
		UserID:              userID,
		Provider:            models.ProviderGarmin,
		Username:            sealedUser,
		Password:            sealedPass,
		SessionBlob:         sealedBlob,
		IsCN:                creds.IsCN,
		ProviderUserID:      profile.UserID,
		ProviderDisplayName: profile.DisplayName,
		ProviderProfile:     profile.ProfileURL,
		SyncStatus:          models.StatusConnected,
	}
	if err := s.conns.Upsert(ctx, conn); err != nil {
		return nil, err
	}

	s.log.Info("garmin account linked",
		zap.String("user_id", userID.String()),
		zap.Bool("is_cn", creds.IsCN))
	return conn, nil
}

// Test verifies credentials without persisting anything. The two-step MFA
// contract is the same as Connect's.
func (s *Service) Test(ctx context.Context, creds Credentials) error {
	_, _, err := s.client.Login(ctx, creds)
	return err
}

// Unlink removes the connection. Deleting an absent link is not an error.
func (s *Service) Unlink(ctx context.Context, userID uuid.UUID) error {
	err := s.conns.Delete(ctx, userID, models.ProviderGarmin)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}

// session returns a usable provider session for the connection, preferring
// the stored session blob and falling back to a fresh password login. A
// successful fallback reseals the new session so the next sync skips the
// login again. MFA-protected accounts whose session died cannot re-login
// unattended; that surfaces as errs.ErrTokenExpired and the user relinks.
func (s *Service) session(ctx context.Context, conn *models.ExternalConnection) (*Session, error) {
	if conn.SessionBlob != "" {
		blob, err := s.box.Open(conn.SessionBlob)
		if err == nil {
			if sess, err := s.client.Resume(ctx, blob, conn.IsCN); err == nil {
				return sess, nil
			}
		}
		s.log.Info("stored garmin session stale, retrying with password login",
			zap.String("user_id", conn.UserID.String()))
	}

	username, err := s.box.Open(conn.Username)
	if err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	password, err := s.box.Open(conn.Password)
	if err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	sess, _, err := s.client.Login(ctx, Credentials{
		Username: username,
		Password: password,
		IsCN:     conn.IsCN,
	})
	if err != nil {
		if errors.Is(err, errs.ErrMFARequired) {
			return nil, errs.ErrTokenExpired
		}
		return nil, err
	}

	if sealed, err := s.box.Seal(sess.Blob); err == nil {
		conn.SessionBlob = sealed
		if err := s.conns.Update(ctx, conn); err != nil {
			s.log.Warn("failed to persist refreshed garmin session", zap.Error(err))
		}
	}
	return sess, nil
}

// SyncWindow pulls every day in [start, end] and merges it into the health
// table. Per-day failures are recorded and the loop continues; only auth
// failures abort, since every later day would fail identically. The returned
// result carries item counts and errors; the sync engine owns the success
// flag and timestamps.
func (s *Service) SyncWindow(ctx context.Context, conn *models.ExternalConnection, start, end time.Time) (*schemas.SyncResult, error) {
	sess, err := s.session(ctx, conn)
	if err != nil {
		return nil, err
	}

	report := &schemas.SyncResult{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		data, err := s.client.FetchDay(ctx, sess, day)
		if err != nil {
			if errors.Is(err, errs.ErrTokenExpired) || errors.Is(err, errs.ErrInvalidCredentials) {
				return report, err
			}
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", day.Format("2006-01-02"), err))
			continue
		}

		incoming := mapDay(conn.UserID, day, data)
		if !incoming.HasData() {
			continue
		}

		existing, err := s.health.GetByDate(ctx, conn.UserID, day)
		switch {
		case err == nil:
			existing.MergeFrom(incoming)
			if err := s.health.Update(ctx, existing); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", day.Format("2006-01-02"), err))
				continue
			}
			report.ItemsUpdated++
		case errors.Is(err, errs.ErrNotFound):
			if err := s.health.Insert(ctx, incoming); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", day.Format("2006-01-02"), err))
				continue
			}
			report.ItemsCreated++
		default:
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", day.Format("2006-01-02"), err))
			continue
		}
		report.ItemsSynced++
	}
	return report, nil
}
