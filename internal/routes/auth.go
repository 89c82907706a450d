package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/internal/services/iam"
)

func RegisterAuth(api huma.API, iamSvc *iam.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "auth-register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register a new account",
		Tags:          []string{TagAuth.String()},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *schemas.RegisterRequest) (*schemas.TokenResponse, error) {
		user, err := iamSvc.Register(ctx, input.Body.Name, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, mapErr(err)
		}
		token, err := iamSvc.IssueToken(user)
		if err != nil {
			return nil, mapErr(err)
		}
		return tokenResponse(token, iamSvc.TokenTTLSeconds()), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{TagAuth.String()},
	}, func(ctx context.Context, input *schemas.LoginRequest) (*schemas.TokenResponse, error) {
		token, err := iamSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, mapErr(err)
		}
		return tokenResponse(token, iamSvc.TokenTTLSeconds()), nil
	})
}

func tokenResponse(token string, ttl int) *schemas.TokenResponse {
	resp := &schemas.TokenResponse{}
	resp.Body.AccessToken = token
	resp.Body.TokenType = "bearer"
	resp.Body.ExpiresIn = ttl
	return resp
}
