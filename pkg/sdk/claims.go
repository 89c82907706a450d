package sdk

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserClaims struct {
	ID    string
	Name  string
	Email string
	Iss   string
	Iat   int64
	Exp   int64
}

// ParseTokenClaims decodes the claims without verifying the signature. The
// CLI only reads cosmetic fields from its own token; verification happens
// server-side on every request.
func ParseTokenClaims(tokenStr string) (jwt.MapClaims, error) {
	var claims jwt.MapClaims
	parser := new(jwt.Parser)
	_, _, err := parser.ParseUnverified(tokenStr, &claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func ParseUserFromToken(tokenStr string) (*UserClaims, error) {
	mc, err := ParseTokenClaims(tokenStr)
	if err != nil {
		return nil, err
	}

	uc := &UserClaims{}

	if sub, ok := mc["sub"]; ok {
		uc.ID = fmt.Sprintf("%v", sub)
	}
	if name, ok := mc["name"].(string); ok {
		uc.Name = name
	}
	if email, ok := mc["email"].(string); ok {
		uc.Email = email
	}
	if iss, ok := mc["iss"].(string); ok {
		uc.Iss = iss
	}

	if iat, ok := mc["iat"].(float64); ok {
		uc.Iat = int64(iat)
	}
	if exp, ok := mc["exp"].(float64); ok {
		uc.Exp = int64(exp)
	}

	return uc, nil
}

// IsTokenExpired reports whether the token's exp claim is within leeway of
// now. A token without an exp claim is treated as expired.
func IsTokenExpired(tokenStr string, leeway time.Duration) (bool, error) {
	uc, err := ParseUserFromToken(tokenStr)
	if err != nil {
		return false, err
	}
	if uc.Exp == 0 {
		return true, nil
	}
	return time.Now().Add(leeway).Unix() >= uc.Exp, nil
}
