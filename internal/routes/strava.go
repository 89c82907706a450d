package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/connections"
	"github.com/lifehubapp/lifehub/internal/services/iam"
	"github.com/lifehubapp/lifehub/internal/services/strava"
	"github.com/lifehubapp/lifehub/internal/services/syncer"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type activitiesInput struct {
	StartDate *time.Time `query:"start_date" doc:"Window start (inclusive), defaults to 30 days ago"`
	EndDate   *time.Time `query:"end_date" doc:"Window end (inclusive), defaults to today"`
}

func RegisterStrava(api huma.API, iamSvc *iam.Service, stravaSvc *strava.Service, syncSvc *syncer.Service, connSvc *connections.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "strava-get-config",
		Method:      http.MethodGet,
		Path:        "/api/v1/strava/config",
		Summary:     "Check whether Strava app credentials are configured",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.StravaAppConfigResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		has, err := stravaSvc.HasAppConfig(ctx, userID)
		if err != nil {
			return nil, mapErr(err)
		}
		resp := &schemas.StravaAppConfigResponse{}
		resp.Body.HasConfig = has
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-save-config",
		Method:      http.MethodPost,
		Path:        "/api/v1/strava/config",
		Summary:     "Store Strava app credentials",
		Description: "Each user registers their own Strava application; its client id and secret are stored encrypted.",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.StravaAppConfigRequest) (*schemas.StravaAppConfigResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		if err := stravaSvc.SaveAppConfig(ctx, userID, input.Body.ClientID, input.Body.ClientSecret); err != nil {
			return nil, mapErr(err)
		}
		resp := &schemas.StravaAppConfigResponse{}
		resp.Body.HasConfig = true
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-authorize",
		Method:      http.MethodGet,
		Path:        "/api/v1/strava/authorize",
		Summary:     "Build the Strava authorization URL",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.StravaAuthorizeResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		url, err := stravaSvc.AuthorizeURL(ctx, userID)
		if err != nil {
			return nil, mapErr(err)
		}
		resp := &schemas.StravaAuthorizeResponse{}
		resp.Body.AuthorizationURL = url
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-callback",
		Method:      http.MethodPost,
		Path:        "/api/v1/strava/callback",
		Summary:     "Complete the Strava authorization",
		Description: "Exchanges the authorization code for tokens. Each code is accepted exactly once; replays are rejected.",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.StravaCallbackRequest) (*schemas.ConnectionResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		conn, err := stravaSvc.Callback(ctx, userID, input.Body.Code, input.Body.State)
		if err != nil {
			return nil, mapErr(err)
		}

		// Initial sync pass; its outcome lands on the connection row and is
		// visible in the returned snapshot.
		_, _ = syncSvc.Sync(ctx, userID, models.ProviderStrava, 0, nil)

		snap := connections.Snapshot(models.ProviderStrava, conn)
		return &schemas.ConnectionResponse{Body: snap}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-connection",
		Method:      http.MethodGet,
		Path:        "/api/v1/strava/connection",
		Summary:     "Get the Strava connection status",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.ConnectionResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		snap, err := connSvc.Get(ctx, userID, models.ProviderStrava)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.ConnectionResponse{Body: snap}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-unlink",
		Method:      http.MethodDelete,
		Path:        "/api/v1/strava/connection",
		Summary:     "Unlink the Strava account",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.UnlinkResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		if err := stravaSvc.Unlink(ctx, userID); err != nil {
			return nil, mapErr(err)
		}
		resp := &schemas.UnlinkResponse{}
		resp.Body.Message = "strava unlinked"
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/strava/sync",
		Summary:     "Sync Strava activities",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.SyncRequest) (*schemas.SyncResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		result, err := syncSvc.Sync(ctx, userID, models.ProviderStrava, input.Body.Days, input.Body.StartDate)
		if result == nil {
			return nil, mapErr(err)
		}
		return &schemas.SyncResponse{Body: *result}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-activities",
		Method:      http.MethodGet,
		Path:        "/api/v1/strava/activities",
		Summary:     "List synced activities",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *activitiesInput) (*schemas.ActivitiesResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		end := time.Now().UTC().Truncate(24 * time.Hour)
		start := end.AddDate(0, 0, -30)
		if input.EndDate != nil {
			end = *input.EndDate
		}
		if input.StartDate != nil {
			start = *input.StartDate
		}

		activities, err := stravaSvc.ListActivities(ctx, userID, start, end)
		if err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.ActivitiesResponse{}
		resp.Body.Activities = make([]schemas.ActivityView, 0, len(activities))
		for i := range activities {
			resp.Body.Activities = append(resp.Body.Activities, activityView(&activities[i]))
		}
		resp.Body.Count = len(resp.Body.Activities)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "strava-activity",
		Method:      http.MethodGet,
		Path:        "/api/v1/strava/activities/{activity_id}",
		Summary:     "Get a single synced activity",
		Tags:        []string{TagStrava.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct {
		ActivityID int64 `path:"activity_id"`
	}) (*schemas.ActivityResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		activity, err := stravaSvc.Activity(ctx, userID, input.ActivityID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.ActivityResponse{Body: activityView(activity)}, nil
	})
}

func activityView(a *models.Activity) schemas.ActivityView {
	return schemas.ActivityView{
		ID:                 a.ID,
		ProviderActivityID: a.ProviderActivityID,
		Date:               a.Date,
		ActivityType:       a.ActivityType,
		Name:               a.Name,
		DistanceMeters:     a.DistanceMeters,
		MovingTimeSeconds:  a.MovingTimeSeconds,
		ElapsedTimeSeconds: a.ElapsedTimeSeconds,
		AverageSpeedMps:    a.AverageSpeedMps,
		MaxSpeedMps:        a.MaxSpeedMps,
		AverageHeartrate:   a.AverageHeartrate,
		MaxHeartrate:       a.MaxHeartrate,
		ElevationGainM:     a.ElevationGainM,
		Calories:           a.Calories,
		StartDate:          a.StartDate,
		StartDateLocal:     a.StartDateLocal,
	}
}
