package iam

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Middleware validates the bearer token when present and attaches the
// principal to the context. Operations declaring a bearer security
// requirement are rejected outright when no valid principal exists; everything
// else passes through.
func (s *Service) Middleware(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		authed := false
		if token := bearerToken(ctx.Header("Authorization")); token != "" {
			if user, err := s.ValidateToken(token); err == nil {
				ctx = huma.WithValue(ctx, principalKey, user)
				authed = true
			}
		}

		if requiresBearer(ctx.Operation()) && !authed {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or missing access token")
			return
		}
		next(ctx)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

func requiresBearer(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, req := range op.Security {
		if _, ok := req["bearer"]; ok {
			return true
		}
	}
	return false
}
