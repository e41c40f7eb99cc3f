// Package auth implements the signed session credential: a compact JWT
// carrying a username claim, signed with the server secret (HS256).
// Verification fails closed; callers get a sentinel error, never a panic.
package auth

import (
	"errors"
	"time"

	"github.com/cuadratic/tasklist/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the username assertion plus the standard registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken signs a credential for username. A zero validityDuration
// issues a token without an expiry claim; sessions then stay valid until the
// secret changes.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims := Claims{Username: username}
	if validityDuration != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUsernameFromToken verifies tokenString and returns the username claim.
// Any decode or signature failure yields common.ErrInvalidToken; an expired
// token yields common.ErrTokenExpired.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
