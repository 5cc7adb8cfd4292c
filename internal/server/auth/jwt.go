// Package auth issues and verifies the bearer tokens that identify the
// principal (owner) behind an upload or claim.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the owner identifier.
type Claims struct {
	jwt.RegisteredClaims
	Owner string `json:"owner"`
}

// GenerateToken signs an HS256 token for owner that expires after validity.
func GenerateToken(owner string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Owner: owner,
	})

	return token.SignedString(secretKey)
}

// GetOwnerFromToken verifies tokenString and returns the owner it was issued
// for. Expired tokens yield common.ErrTokenExpired; every other failure
// yields common.ErrInvalidToken.
func GetOwnerFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Owner, nil
}
