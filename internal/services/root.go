// Package services wires the service layer together.
package services

import (
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/lifehubapp/lifehub/internal/config"
	"github.com/lifehubapp/lifehub/internal/services/connections"
	"github.com/lifehubapp/lifehub/internal/services/dashboard"
	"github.com/lifehubapp/lifehub/internal/services/garmin"
	"github.com/lifehubapp/lifehub/internal/services/health"
	"github.com/lifehubapp/lifehub/internal/services/iam"
	"github.com/lifehubapp/lifehub/internal/services/prefs"
	"github.com/lifehubapp/lifehub/internal/services/strava"
	"github.com/lifehubapp/lifehub/internal/services/syncer"
	"github.com/lifehubapp/lifehub/internal/services/users"
	"github.com/lifehubapp/lifehub/internal/store"
	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/lifehubapp/lifehub/pkg/kv"
	"github.com/lifehubapp/lifehub/pkg/media"
	"github.com/lifehubapp/lifehub/pkg/secretbox"
)

type Container struct {
	IAM         *iam.Service
	Users       *users.Service
	Garmin      *garmin.Service
	Strava      *strava.Service
	Syncer      *syncer.Service
	Connections *connections.Service
	Dashboard   *dashboard.Service
	Health      *health.Service
	Prefs       *prefs.Service
}

// New builds the full service graph. mediaStore may be nil when object
// storage is not configured; avatar uploads are then rejected.
func New(cfg *config.EnvConfig, db *bun.DB, kvStore kv.Store, mediaStore media.Store, log *zap.Logger) (*Container, error) {
	box, err := secretbox.NewFromPassphrase(cfg.CredentialKey())
	if err != nil {
		return nil, err
	}

	repos := store.New(db)

	garminSvc := garmin.NewService(
		repos.Connections, repos.Health,
		garmin.NewHTTPClient(log.Named("garmin")),
		box, log.Named("garmin"))

	stravaSvc := strava.NewService(
		repos.Connections, repos.Activities, repos.Health,
		strava.NewHTTPClient(),
		box, kvStore, cfg.StravaRedirectURL(), log.Named("strava"))

	syncSvc := syncer.NewService(repos.Connections, kvStore, log.Named("syncer"))
	syncSvc.Register(models.ProviderGarmin, garminSvc)
	syncSvc.Register(models.ProviderStrava, stravaSvc)

	return &Container{
		IAM: iam.NewService(repos.Users, []byte(cfg.AuthSecret),
			time.Duration(cfg.AccessTokenTTL)*time.Second, log.Named("iam")),
		Users:       users.NewService(repos.Users, mediaStore, log.Named("users")),
		Garmin:      garminSvc,
		Strava:      stravaSvc,
		Syncer:      syncSvc,
		Connections: connections.NewService(repos.Connections),
		Dashboard:   dashboard.NewService(repos.Health, repos.Work, repos.Users),
		Health:      health.NewService(repos.Health, repos.Work, cfg.IngestAPIKey, log.Named("health")),
		Prefs:       prefs.NewService(repos.Prefs),
	}, nil
}
