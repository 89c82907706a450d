package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/iam"
	"github.com/lifehubapp/lifehub/internal/services/users"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

func RegisterUsers(api huma.API, iamSvc *iam.Service, usersSvc *users.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "users-me",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get the current user's profile",
		Tags:        []string{TagUsers.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*schemas.UserResponse, error) {
		id, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		user, err := usersSvc.Get(ctx, id)
		if err != nil {
			return nil, mapErr(err)
		}
		return userResponse(ctx, usersSvc, user), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "users-update-me",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update the current user's profile",
		Tags:        []string{TagUsers.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.UpdateUserRequest) (*schemas.UserResponse, error) {
		id, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		user, err := usersSvc.UpdateProfile(ctx, id, input.Body.Name, input.Body.Avatar)
		if err != nil {
			return nil, mapErr(err)
		}
		return userResponse(ctx, usersSvc, user), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "users-upload-avatar",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/avatar",
		Summary:     "Upload an avatar image",
		Tags:        []string{TagUsers.String()},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *schemas.AvatarUploadRequest) (*schemas.AvatarUploadResponse, error) {
		id, err := iamSvc.RequireID(ctx)
		if err != nil {
			return nil, mapErr(err)
		}
		url, err := usersSvc.UploadAvatar(ctx, id, input.ContentType, input.RawBody)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		resp := &schemas.AvatarUploadResponse{}
		resp.Body.Avatar = url
		return resp, nil
	})
}

func userResponse(ctx context.Context, usersSvc *users.Service, user *models.User) *schemas.UserResponse {
	resp := &schemas.UserResponse{}
	resp.Body.ID = user.ID.String()
	resp.Body.Name = user.Name
	resp.Body.Email = user.Email
	resp.Body.Avatar = usersSvc.AvatarURL(ctx, user.Avatar)
	resp.Body.CreatedAt = user.CreatedAt
	return resp
}
