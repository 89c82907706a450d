// Package routes registers the HTTP surface. Handlers stay thin: decode,
// call the service, map sentinel errors to status codes.
package routes

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/services"
)

func RegisterRoutes(api huma.API, svcs *services.Container) {
	RegisterIndex(api)
	RegisterHealth(api)
	RegisterAuth(api, svcs.IAM)
	RegisterUsers(api, svcs.IAM, svcs.Users)
	RegisterGarmin(api, svcs.IAM, svcs.Garmin, svcs.Syncer, svcs.Connections)
	RegisterStrava(api, svcs.IAM, svcs.Strava, svcs.Syncer, svcs.Connections)
	RegisterDashboard(api, svcs.IAM, svcs.Dashboard)
	RegisterHealthMetrics(api, svcs.IAM, svcs.Health)
	RegisterPreferences(api, svcs.IAM, svcs.Prefs)
	RegisterIngest(api, svcs.Health)
}

// mapErr converts service sentinels into huma's typed errors. Unknown errors
// become 500s with a generic message so internals never leak to clients.
func mapErr(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, errs.ErrInvalidMFACode):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, errs.ErrTokenExpired):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, errs.ErrReplayedCode):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, errs.ErrNotConnected):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, errs.ErrSyncInProgress):
		return huma.Error409Conflict(err.Error())
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
