package iam

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
)

type ctxKey string

const principalKey ctxKey = "lifehub.principal"

// Principal returns the authenticated user from the context, if any.
func (s *Service) Principal(ctx context.Context) (*schemas.User, bool) {
	if v := ctx.Value(principalKey); v != nil {
		if p, ok := v.(*schemas.User); ok {
			return p, true
		}
	}
	return nil, false
}

// Must returns the principal or panics. Only call behind routes that set
// Security on the operation; the middleware rejects anonymous requests there.
func (s *Service) Must(ctx context.Context) *schemas.User {
	if p, ok := s.Principal(ctx); ok && p != nil {
		return p
	}
	panic("principal missing in context; ensure IAM middleware is installed and auth performed")
}

// MustID is Must with the id parsed, since most services key on the UUID.
func (s *Service) MustID(ctx context.Context) uuid.UUID {
	id, err := uuid.Parse(s.Must(ctx).ID)
	if err != nil {
		panic("principal carries a malformed user id")
	}
	return id
}

// RequireID is the non-panicking form for handlers that prefer an error.
func (s *Service) RequireID(ctx context.Context) (uuid.UUID, error) {
	p, ok := s.Principal(ctx)
	if !ok || p == nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return id, nil
}
