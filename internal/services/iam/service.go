// Package iam handles account registration, password login and the JWT
// middleware that attaches the authenticated principal to request contexts.
package iam

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// TokenAudience is the expected audience claim for access tokens.
const TokenAudience = "lifehub"

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service struct {
	users     UserRepo
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *zap.Logger
}

func NewService(users UserRepo, jwtSecret []byte, tokenTTL time.Duration, log *zap.Logger) *Service {
	return &Service{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks the password and mints an access token. Unknown emails and
// wrong passwords both map to errs.ErrUnauthorized so the response does not
// reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return "", errs.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", errs.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", errs.ErrUnauthorized
	}
	return s.IssueToken(user)
}

// IssueToken mints an HS256 application JWT for the user.
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"name":  user.Name,
		"email": user.Email,
		"iss":   "lifehub",
		"aud":   TokenAudience,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// TokenTTLSeconds is the configured access token lifetime.
func (s *Service) TokenTTLSeconds() int {
	return int(s.tokenTTL.Seconds())
}

// ValidateToken verifies an application JWT and returns the principal. It
// enforces HMAC signing to avoid algorithm confusion attacks and checks the
// audience claim.
func (s *Service) ValidateToken(tokenString string) (*schemas.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errs.ErrUnauthorized
	}

	aud, _ := claims["aud"].(string)
	if aud != TokenAudience {
		return nil, fmt.Errorf("%w: invalid audience", errs.ErrUnauthorized)
	}

	user := &schemas.User{}
	user.ID, _ = claims["sub"].(string)
	user.Name, _ = claims["name"].(string)
	user.Email, _ = claims["email"].(string)
	if user.ID == "" {
		return nil, errs.ErrUnauthorized
	}
	return user, nil
}
