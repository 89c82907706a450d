package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/connections"
	"github.com/lifehubapp/lifehub/internal/services/garmin"
	"github.com/lifehubapp/lifehub/internal/services/iam"
	"github.com/lifehubapp/lifehub/internal/services/syncer"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

func RegisterGarmin(api huma.API, iamSvc *iam.Service, garminSvc *garmin.Service, syncSvc *syncer.Service, connSvc *connections.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "garmin-connect",
		Method:      http.MethodPost,
		Path:        "/api/v1/garmin/connect",
		Summary:     "Link a Garmin account",
		Description: "Starts or completes the two-step link flow. When the account requires MFA the response carries state awaiting_mfa and nothing is persisted; resubmit the same credentials with the code.",
		Tags:        []string{TagGarmin.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.GarminConnectRequest) (*schemas.GarminConnectResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}

		conn, err := garminSvc.Connect(ctx, userID, garmin.Credentials{
			Username: input.Body.Username,
			Password: input.Body.Password,
			MFACode:  input.Body.MFAToken,
			IsCN:     input.Body.IsCN,
		})
		if errors.Is(err, errs.ErrMFARequired) {
			resp := &schemas.GarminConnectResponse{}
			resp.Body.State = schemas.LinkStateAwaitingMFA
			resp.Body.Message = "multi-factor authentication required; resubmit credentials with mfa_token"
			return resp, nil
		}
		if err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.GarminConnectResponse{}
		resp.Body.State = schemas.LinkStateLinked
		resp.Body.Message = "garmin account linked"
		snap := connections.Snapshot(models.ProviderGarmin, conn)
		resp.Body.Connection = &snap

		// Initial sync pass. A failure here does not undo the link; the
		// result is reported alongside.
		if sync, err := syncSvc.Sync(ctx, userID, models.ProviderGarmin, 0, nil); sync != nil || err == nil {
			resp.Body.Sync = sync
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "garmin-test",
		Method:      http.MethodPost,
		Path:        "/api/v1/garmin/test",
		Summary:     "Test Garmin credentials without linking",
		Tags:        []string{TagGarmin.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.GarminTestRequest) (*schemas.GarminTestResponse, error) {
		if _, err := iamSvc.RequireID(ctx); err != nil {
			return nil, mapErr(err)
		}

		resp := &schemas.GarminTestResponse{}
		resp.Body.Region = "garmin.com"
		if input.Body.IsCN {
			resp.Body.Region = "garmin.cn"
		}

		err := garminSvc.Test(ctx, garmin.Credentials{
			Username: input.Body.Username,
			Password: input.Body.Password,
			MFACode:  input.Body.MFAToken,
			IsCN:     input.Body.IsCN,
		})
		if err != nil {
			resp.Body.Valid = false
			resp.Body.Error = err.Error()
			return resp, nil
		}
		resp.Body.Valid = true
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "garmin-connection",
		Method:      http.MethodGet,
		Path:        "/api/v1/garmin/connection",
		Summary:     "Get the Garmin connection status",
		Tags:        []string{TagGarmin.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.ConnectionResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		snap, err := connSvc.Get(ctx, userID, models.ProviderGarmin)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.ConnectionResponse{Body: snap}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "garmin-unlink",
		Method:      http.MethodDelete,
		Path:        "/api/v1/garmin/connection",
		Summary:     "Unlink the Garmin account",
		Description: "Removes the stored credentials and session. Unlinking an absent connection succeeds.",
		Tags:        []string{TagGarmin.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.UnlinkResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		if err := garminSvc.Unlink(ctx, userID); err != nil {
			return nil, mapErr(err)
		}
		resp := &schemas.UnlinkResponse{}
		resp.Body.Message = "garmin unlinked"
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "garmin-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/garmin/sync",
		Summary:     "Sync Garmin health data",
		Tags:        []string{TagGarmin.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.SyncRequest) (*schemas.SyncResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		result, err := syncSvc.Sync(ctx, userID, models.ProviderGarmin, input.Body.Days, input.Body.StartDate)
		if result == nil {
			return nil, mapErr(err)
		}
		// Auth failures still produce a result; the body reports success
		// false with the error recorded.
		return &schemas.SyncResponse{Body: *result}, nil
	})
}
