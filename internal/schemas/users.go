package schemas

import "time"

// User is the authenticated principal attached to the request context by the
// IAM middleware.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RegisterRequest struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"100"`
		Email    string `json:"email" format:"email"`
		Password string `json:"password" minLength:"8" maxLength:"72"`
	}
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" format:"email"`
		Password string `json:"password"`
	}
}

// TokenResponse carries a freshly minted application JWT.
type TokenResponse struct {
	Body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type" example:"bearer"`
		ExpiresIn   int    `json:"expires_in" doc:"Access token lifetime in seconds"`
	}
}

type UserResponse struct {
	Body struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Avatar    string    `json:"avatar,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
}

type UpdateUserRequest struct {
	Body struct {
		Name   string `json:"name,omitempty" maxLength:"100"`
		Avatar string `json:"avatar,omitempty" maxLength:"255"`
	}
}

// AvatarUploadRequest accepts raw image bytes.
type AvatarUploadRequest struct {
	ContentType string `header:"Content-Type" doc:"Image MIME type" example:"image/png"`
	RawBody     []byte
}

type AvatarUploadResponse struct {
	Body struct {
		Avatar string `json:"avatar" doc:"URL of the stored avatar"`
	}
}
