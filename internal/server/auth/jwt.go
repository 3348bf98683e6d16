// Package auth mints and verifies the HS256 JSON Web Tokens used for
// sessions. Access tokens carry the public profile of the user; refresh
// tokens carry only the user id.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Type     string `json:"typ"`
	UserID   string `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"username"`
	FullName string `json:"fullName"`
}

// RefreshClaims is the payload of a refresh token.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Type   string `json:"typ"`
	UserID string `json:"id"`
}

// Profile is the identity embedded into an access token.
type Profile struct {
	UserID   string
	Email    string
	UserName string
	FullName string
}

// now is a seam for tests.
var now = time.Now

func registered(userID string, validity time.Duration) jwt.RegisteredClaims {
	t := now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(t),
		ExpiresAt: jwt.NewNumericDate(t.Add(validity)),
	}
}

// GenerateAccessToken signs an access token for p valid for validity.
func GenerateAccessToken(p Profile, secretKey []byte, validity time.Duration) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: registered(p.UserID, validity),
		Type:             typeAccess,
		UserID:           p.UserID,
		Email:            p.Email,
		UserName:         p.UserName,
		FullName:         p.FullName,
	}
	return sign(claims, secretKey)
}

// GenerateRefreshToken signs a refresh token for userID valid for validity.
func GenerateRefreshToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: registered(userID, validity),
		Type:             typeRefresh,
		UserID:           userID,
	}
	return sign(claims, secretKey)
}

func sign(claims jwt.Claims, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("empty signing key")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ParseAccessToken verifies tokenString and returns its claims.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields an error wrapping common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secretKey []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return nil, err
	}
	if claims.Type != typeAccess || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken verifies tokenString and returns its claims, with the
// same error contract as ParseAccessToken.
func ParseRefreshToken(tokenString string, secretKey []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return nil, err
	}
	if claims.Type != typeRefresh || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func parse(tokenString string, claims jwt.Claims, secretKey []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
