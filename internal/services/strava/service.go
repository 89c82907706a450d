package strava

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/lifehubapp/lifehub/pkg/kv"
	"github.com/lifehubapp/lifehub/pkg/secretbox"
)

const (
	kvPrefixState = "strava:state:"
	kvPrefixCode  = "strava:code:"

	stateTTL = 10 * time.Minute
	codeTTL  = time.Hour

	// Tokens within this margin of expiry get refreshed before use.
	refreshMargin = 5 * time.Minute
)

type ConnectionRepo interface {
	Get(ctx context.Context, userID uuid.UUID, provider models.Provider) (*models.ExternalConnection, error)
	Upsert(ctx context.Context, conn *models.ExternalConnection) error
	Update(ctx context.Context, conn *models.ExternalConnection) error
	Delete(ctx context.Context, userID uuid.UUID, provider models.Provider) error
}

type ActivityRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*models.Activity, error)
	GetByProviderID(ctx context.Context, userID uuid.UUID, providerActivityID int64) (*models.Activity, error)
	Insert(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Activity, error)
}

type HealthRepo interface {
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.HealthMetric, error)
	Insert(ctx context.Context, metric *models.HealthMetric) error
	Update(ctx context.Context, metric *models.HealthMetric) error
}

// Service owns the Strava link flow and activity reconciliation.
type Service struct {
	conns       ConnectionRepo
	activities  ActivityRepo
	health      HealthRepo
	client      Client
	box         *secretbox.Box
	kv          kv.Store
	redirectURL string
	log         *zap.Logger
}

func NewService(
	conns ConnectionRepo,
	activities ActivityRepo,
	health HealthRepo,
	client Client,
	box *secretbox.Box,
	kvStore kv.Store,
	redirectURL string,
	log *zap.Logger,
) *Service {
	return &Service{
		conns:       conns,
		activities:  activities,
		health:      health,
		client:      client,
		box:         box,
		kv:          kvStore,
		redirectURL: redirectURL,
		log:         log,
	}
}

// SaveAppConfig stores the user's own Strava application credentials. A row
// without OAuth tokens sits in config_set until the authorization flow
// completes; reconfiguring an already linked row keeps its tokens.
func (s *Service) SaveAppConfig(ctx context.Context, userID uuid.UUID, clientID, clientSecret string) error {
	sealedID, err := s.box.Seal(clientID)
	if err != nil {
		return err
	}
	sealedSecret, err := s.box.Seal(clientSecret)
	if err != nil {
		return err
	}

	conn, err := s.conns.Get(ctx, userID, models.ProviderStrava)
	switch {
	case err == nil:
		conn.ClientID = sealedID
		conn.ClientSecret = sealedSecret
		return s.conns.Update(ctx, conn)
	case errors.Is(err, errs.ErrNotFound):
		return s.conns.Upsert(ctx, &models.ExternalConnection{
			UserID:       userID,
			Provider:     models.ProviderStrava,
			ClientID:     sealedID,
			ClientSecret: sealedSecret,
			SyncStatus:   models.StatusConfigSet,
		})
	default:
		return err
	}
}

// HasAppConfig reports whether app credentials are on file.
func (s *Service) HasAppConfig(ctx context.Context, userID uuid.UUID) (bool, error) {
	conn, err := s.conns.Get(ctx, userID, models.ProviderStrava)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return conn.ClientID != "" && conn.ClientSecret != "", nil
}

// AuthorizeURL builds the provider authorize URL from the caller's stored app
// config, minting a single-use state bound to the user.
func (s *Service) AuthorizeURL(ctx context.Context, userID uuid.UUID) (string, error) {
	app, _, err := s.appConfig(ctx, userID)
	if err != nil {
		return "", err
	}

	state := randomString(32)
	if err := s.kv.Set(ctx, stateKey(userID, state), []byte("1"), stateTTL); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return AuthCodeURL(*app, state), nil
}

// Callback exchanges the authorization code for tokens and finalizes the
// link. The state is mandatory and consumed on first use; the code itself is
// protected by a SetNX guard so a duplicate submission cannot race a
// concurrent exchange. The guard is released when the exchange fails, keeping
// the code usable for a retry after a transient provider error.
func (s *Service) Callback(ctx context.Context, userID uuid.UUID, code, state string) (*models.ExternalConnection, error) {
	if state == "" {
		return nil, fmt.Errorf("%w: missing state", errs.ErrUnauthorized)
	}
	if _, err := s.kv.Get(ctx, stateKey(userID, state)); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid or expired state", errs.ErrUnauthorized)
		}
		return nil, err
	}
	if err := s.kv.Delete(ctx, stateKey(userID, state)); err != nil {
		s.log.Warn("failed to delete state after use", zap.Error(err))
	}

	app, conn, err := s.appConfig(ctx, userID)
	if err != nil {
		return nil, err
	}

	guard := kvPrefixCode + hashCode(code)
	ok, err := s.kv.SetNX(ctx, guard, []byte("1"), codeTTL)
	if err != nil {
		return nil, fmt.Errorf("code replay guard: %w", err)
	}
	if !ok {
		return nil, errs.ErrReplayedCode
	}

	token, athlete, err := s.client.Exchange(ctx, *app, code)
	if err != nil {
		if delErr := s.kv.Delete(ctx, guard); delErr != nil {
			s.log.Warn("failed to release code guard after exchange failure", zap.Error(delErr))
		}
		return nil, err
	}

	if err := s.sealToken(conn, token); err != nil {
		return nil, err
	}
	conn.ProviderUserID = strconv.FormatInt(athlete.ID, 10)
	conn.ProviderDisplayName = displayName(athlete)
	conn.ProviderProfile = athlete.Profile
	conn.SyncStatus = models.StatusConnected
	conn.LastError = ""

	if err := s.conns.Update(ctx, conn); err != nil {
		return nil, err
	}

	s.log.Info("strava account linked",
		zap.String("user_id", userID.String()),
		zap.String("athlete_id", conn.ProviderUserID))
	return conn, nil
}

// Unlink removes the connection. Deleting an absent link is not an error.
func (s *Service) Unlink(ctx context.Context, userID uuid.UUID) error {
	err := s.conns.Delete(ctx, userID, models.ProviderStrava)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}

// ListActivities returns synced activities in [start, end].
func (s *Service) ListActivities(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Activity, error) {
	return s.activities.Range(ctx, userID, start, end)
}

// Activity returns one synced activity by its row id, scoped to the user.
func (s *Service) Activity(ctx context.Context, userID uuid.UUID, id int64) (*models.Activity, error) {
	return s.activities.GetByID(ctx, userID, id)
}

// ensureToken returns a usable access token, refreshing when the stored one
// expires within the margin. A failed refresh marks the connection expired so
// the status projection tells the user to relink.
func (s *Service) ensureToken(ctx context.Context, conn *models.ExternalConnection) (string, error) {
	app := AppConfig{RedirectURL: s.redirectURL}
	var err error
	if app.ClientID, err = s.box.Open(conn.ClientID); err != nil || app.ClientID == "" {
		return "", errs.ErrNotConnected
	}
	if app.ClientSecret, err = s.box.Open(conn.ClientSecret); err != nil || app.ClientSecret == "" {
		return "", errs.ErrNotConnected
	}

	if conn.TokenExpiresAt > time.Now().Add(refreshMargin).Unix() {
		return s.box.Open(conn.AccessToken)
	}

	s.log.Info("refreshing strava token", zap.String("user_id", conn.UserID.String()))
	refreshToken, err := s.box.Open(conn.RefreshToken)
	if err != nil || refreshToken == "" {
		return "", s.markExpired(ctx, conn, "refresh token missing")
	}

	token, err := s.client.Refresh(ctx, app, refreshToken)
	if err != nil {
		return "", s.markExpired(ctx, conn, fmt.Sprintf("token refresh failed: %v", err))
	}

	if err := s.sealToken(conn, token); err != nil {
		return "", err
	}
	conn.SyncStatus = models.StatusConnected
	conn.LastError = ""
	if err := s.conns.Update(ctx, conn); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func (s *Service) markExpired(ctx context.Context, conn *models.ExternalConnection, reason string) error {
	conn.SyncStatus = models.StatusExpired
	conn.LastError = reason
	if err := s.conns.Update(ctx, conn); err != nil {
		s.log.Warn("failed to persist expired status", zap.Error(err))
	}
	return errs.ErrTokenExpired
}

// SyncWindow pulls every activity in [start, end] and reconciles it by
// provider activity id, so re-running the same window is idempotent. Moving
// time rolls up into the day's exercise minutes only for newly inserted
// activities; updates must not double-count.
func (s *Service) SyncWindow(ctx context.Context, conn *models.ExternalConnection, start, end time.Time) (*schemas.SyncResult, error) {
	accessToken, err := s.ensureToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	summaries, err := s.client.Activities(ctx, accessToken, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	report := &schemas.SyncResult{}
	for i := range summaries {
		summary := &summaries[i]
		if summary.ID == 0 {
			continue
		}

		incoming := mapActivity(conn.UserID, summary)
		existing, err := s.activities.GetByProviderID(ctx, conn.UserID, summary.ID)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("activity %d: %v", summary.ID, err))
			continue
		}

		if existing != nil {
			incoming.ID = existing.ID
			incoming.CreatedAt = existing.CreatedAt
			if err := s.activities.Update(ctx, incoming); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("activity %d: %v", summary.ID, err))
				continue
			}
			report.ItemsUpdated++
		} else {
			if err := s.activities.Insert(ctx, incoming); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("activity %d: %v", summary.ID, err))
				continue
			}
			report.ItemsCreated++
			if err := s.rollUpExercise(ctx, conn.UserID, incoming); err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("activity %d: %v", summary.ID, err))
			}
		}
		report.ItemsSynced++
	}
	return report, nil
}

// rollUpExercise accumulates a new activity's moving time into the day's
// health row.
func (s *Service) rollUpExercise(ctx context.Context, userID uuid.UUID, activity *models.Activity) error {
	if activity.MovingTimeSeconds == nil || *activity.MovingTimeSeconds <= 0 {
		return nil
	}
	minutes := *activity.MovingTimeSeconds / 60

	metric, err := s.health.GetByDate(ctx, userID, activity.Date)
	switch {
	case err == nil:
		if metric.ExerciseMinutes == nil {
			metric.ExerciseMinutes = &minutes
		} else {
			total := *metric.ExerciseMinutes + minutes
			metric.ExerciseMinutes = &total
		}
		return s.health.Update(ctx, metric)
	case errors.Is(err, errs.ErrNotFound):
		return s.health.Insert(ctx, &models.HealthMetric{
			UserID:          userID,
			Date:            activity.Date,
			ExerciseMinutes: &minutes,
		})
	default:
		return err
	}
}

// appConfig loads and decrypts the user's app credentials.
func (s *Service) appConfig(ctx context.Context, userID uuid.UUID) (*AppConfig, *models.ExternalConnection, error) {
	conn, err := s.conns.Get(ctx, userID, models.ProviderStrava)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: strava app not configured", errs.ErrNotConnected)
	}
	if err != nil {
		return nil, nil, err
	}

	app := AppConfig{RedirectURL: s.redirectURL}
	if app.ClientID, err = s.box.Open(conn.ClientID); err != nil {
		return nil, nil, err
	}
	if app.ClientSecret, err = s.box.Open(conn.ClientSecret); err != nil {
		return nil, nil, err
	}
	if app.ClientID == "" || app.ClientSecret == "" {
		return nil, nil, fmt.Errorf("%w: strava app not configured", errs.ErrNotConnected)
	}
	return &app, conn, nil
}

func (s *Service) sealToken(conn *models.ExternalConnection, token *Token) error {
	sealed, err := s.box.Seal(token.AccessToken)
	if err != nil {
		return err
	}
	conn.AccessToken = sealed
	if sealed, err = s.box.Seal(token.RefreshToken); err != nil {
		return err
	}
	conn.RefreshToken = sealed
	conn.TokenExpiresAt = token.ExpiresAt
	return nil
}

func mapActivity(userID uuid.UUID, s *ActivitySummary) *models.Activity {
	activityType := s.Type
	if activityType == "" {
		activityType = s.SportType
	}

	day := s.StartDate
	if day.IsZero() {
		day = s.StartDateLocal
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	a := &models.Activity{
		UserID:             userID,
		ProviderActivityID: s.ID,
		Date:               day,
		ActivityType:       activityType,
		Name:               s.Name,
		DistanceMeters:     s.Distance,
		MovingTimeSeconds:  s.MovingTime,
		ElapsedTimeSeconds: s.ElapsedTime,
		AverageSpeedMps:    s.AverageSpeed,
		MaxSpeedMps:        s.MaxSpeed,
		AverageHeartrate:   s.AverageHeartrate,
		ElevationGainM:     s.TotalElevationGain,
		Calories:           s.Calories,
	}
	if s.MaxHeartrate != nil {
		hr := int(*s.MaxHeartrate)
		a.MaxHeartrate = &hr
	}
	if !s.StartDate.IsZero() {
		start := s.StartDate
		a.StartDate = &start
	}
	if !s.StartDateLocal.IsZero() {
		local := s.StartDateLocal
		a.StartDateLocal = &local
	}
	return a
}

func displayName(a *Athlete) string {
	name := a.Firstname
	if a.Lastname != "" {
		if name != "" {
			name += " "
		}
		name += a.Lastname
	}
	if name == "" {
		name = a.Username
	}
	return name
}

func stateKey(userID uuid.UUID, state string) string {
	return kvPrefixState + userID.String() + ":" + state
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func randomString(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length]
}
