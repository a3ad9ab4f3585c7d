package rest

import (
	"time"

	"github.com/golang-jwt/jwt"
)

type TokenClaims struct {
	Subject string `json:"sub"`
	Type    string `json:"typ"`
	Exp     int64  `json:"exp"`
}

// CreateAccessToken signs a control API access token for subject.
func CreateAccessToken(secret, subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"typ": "access",
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
