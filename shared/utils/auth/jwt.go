package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rollcall-backend/shared/config"
)

// AccessCodeCookieName is the cookie carrying the editor access session.
const AccessCodeCookieName = "access-code"

// AccessSessionDuration bounds how long an access-code exchange stays valid.
const AccessSessionDuration = 12 * time.Hour

type AccessClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(config.GetConfig().JWTSecret)
}

// GenerateAccessToken mints a signed session token after a successful
// access-code exchange
func GenerateAccessToken() (string, error) {
	claims := AccessClaims{
		Scope: "template-editor",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessSessionDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateAccessToken verifies a session token and returns its claims
func ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
