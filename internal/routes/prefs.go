package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/iam"
	"github.com/lifehubapp/lifehub/internal/services/prefs"
)

func RegisterPreferences(api huma.API, iamSvc *iam.Service, prefSvc *prefs.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "prefs-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/preferences",
		Summary:     "Get dashboard preferences",
		Tags:        []string{TagPreferences.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, _ *struct{}) (*schemas.PreferencesResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		p, err := prefSvc.Get(ctx, userID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.PreferencesResponse{Body: *p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "prefs-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/preferences",
		Summary:     "Update dashboard preferences",
		Tags:        []string{TagPreferences.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.PreferencesUpdateRequest) (*schemas.PreferencesResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		p, err := prefSvc.Update(ctx, userID, &input.Body)
		if err != nil {
			return nil, mapErr(err)
		}
		return &schemas.PreferencesResponse{Body: *p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "prefs-hidden-cards",
		Method:      http.MethodPut,
		Path:        "/api/v1/preferences/hidden-cards",
		Summary:     "Update the hidden card list",
		Tags:        []string{TagPreferences.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.HiddenCardsRequest) (*schemas.HiddenCardsResponse, error) {
		userID, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		cards, err := prefSvc.UpdateHiddenCards(ctx, userID, input.Body.HiddenCards)
		if err != nil {
			return nil, mapErr(err)
		}
		resp := &schemas.HiddenCardsResponse{}
		resp.Body.Message = "hidden cards updated"
		resp.Body.HiddenCards = cards
		return resp, nil
	})
}
