package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var profile = Profile{UserID: "user-123", Email: "a@x.com", UserName: "alice", FullName: "Alice A"}

func TestAccessToken_RoundTrip(t *testing.T) {
	secret := []byte("super-secret")

	tok, err := GenerateAccessToken(profile, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != profile.UserID || claims.Email != profile.Email ||
		claims.UserName != profile.UserName || claims.FullName != profile.FullName {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be set")
	}
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	secret := []byte("refresh-secret")

	tok, err := GenerateRefreshToken("u1", secret, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	claims, err := ParseRefreshToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseRefreshToken error: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("userID mismatch: got %q", claims.UserID)
	}
}

func TestTokens_DifferWithinSameSecond(t *testing.T) {
	secret := []byte("s")
	a, _ := GenerateRefreshToken("u1", secret, time.Hour)
	b, _ := GenerateRefreshToken("u1", secret, time.Hour)
	if a == b {
		t.Fatal("two refresh tokens for the same user must differ")
	}
}

func TestParse_Expired(t *testing.T) {
	secret := []byte("secret")

	tok, err := GenerateRefreshToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	_, err = ParseRefreshToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := GenerateAccessToken(profile, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseAccessToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_TokenKindMismatch(t *testing.T) {
	secret := []byte("shared")

	refresh, _ := GenerateRefreshToken("u1", secret, time.Hour)
	if _, err := ParseAccessToken(refresh, secret); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	access, _ := GenerateAccessToken(profile, secret, time.Hour)
	if _, err := ParseRefreshToken(access, secret); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Type:             typeRefresh,
		UserID:           "u1",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := ParseRefreshToken(tok, []byte("k")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestParse_MalformedString(t *testing.T) {
	if _, err := ParseAccessToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestGenerate_EmptySecret(t *testing.T) {
	if _, err := GenerateRefreshToken("u1", nil, time.Hour); err == nil {
		t.Fatal("expected error for empty key")
	}
}
