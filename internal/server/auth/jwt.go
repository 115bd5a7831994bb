// Package auth holds the credential primitives of the server: signed token
// values, token digests, password hashing and the ownership gate.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophtasks/internal/common"
)

// Claims carries the user id in "sub" and the token row id in "jti".
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for userID bound to the stored token tokenID.
// A zero validity produces a token without "exp".
func GenerateToken(userID int64, tokenID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(userID, 10),
			ID:       tokenID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if validity != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns the user and token ids it
// names. Expired tokens yield common.ErrTokenExpired; anything else that
// fails verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (userID int64, tokenID string, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", common.ErrTokenExpired
		}
		return 0, "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.ID == "" {
		return 0, "", common.ErrInvalidToken
	}

	userID, err = strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", common.ErrInvalidToken
	}

	return userID, claims.ID, nil
}
