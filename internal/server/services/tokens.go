package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

const msgTokenGeneration = "something went wrong while generating refresh and access token"

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService mints access/refresh pairs and rotates refresh tokens.
// The user row holds at most one refresh token; issuing a new pair
// overwrites it and logging out clears it.
type TokenService struct {
	db                           dbx.DBTX
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewTokenService(db dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Issue mints a new pair for userID and stores the refresh token.
func (s *TokenService) Issue(ctx context.Context, userID string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.WrapError(common.KindNotFound, "user not found", err)
		}
		return nil, common.Internal(err)
	}
	return s.issue(ctx, user)
}

func (s *TokenService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	profile := auth.Profile{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		FullName: user.FullName,
	}

	accessToken, err := auth.GenerateAccessToken(profile, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.WrapError(common.KindInternal, msgTokenGeneration, err)
	}

	refreshToken, err := auth.GenerateRefreshToken(user.ID, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.WrapError(common.KindInternal, msgTokenGeneration, err)
	}

	if err := s.repomanager.Users(s.db).SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		// The row can vanish between the caller's lookup and this write.
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.WrapError(common.KindNotFound, "user not found", err)
		}
		return nil, common.WrapError(common.KindInternal, msgTokenGeneration, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Rotate exchanges a valid, current refresh token for a new pair.
//
// A token that verifies but no longer matches the stored one was either
// superseded by a later login/refresh or replayed, and is rejected with
// KindTokenExpiredOrReused. A token presented after logout is invalid.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, common.NewError(common.KindUnauthorized, "unauthorized request")
	}

	claims, err := auth.ParseRefreshToken(presented, s.refreshSecret)
	if err != nil {
		return nil, common.WrapError(common.KindInvalidToken, "invalid refresh token", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.WrapError(common.KindInvalidToken, "invalid refresh token", err)
		}
		return nil, common.Internal(err)
	}

	if user.RefreshToken == nil {
		return nil, common.NewError(common.KindInvalidToken, "invalid refresh token")
	}

	if subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		return nil, common.NewError(common.KindTokenExpiredOrReused, "refresh token is expired or used")
	}

	return s.issue(ctx, user)
}

// Revoke clears the stored refresh token of userID. Repeated calls succeed.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	err := s.repomanager.Users(s.db).SetRefreshToken(ctx, userID, nil)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.WrapError(common.KindNotFound, "user not found", err)
		}
		return common.Internal(err)
	}
	return nil
}

// ParseAccess verifies an access token. Any failure is KindUnauthorized.
func (s *TokenService) ParseAccess(token string) (*auth.AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.NewError(common.KindUnauthorized, "unauthorized request")
	}
	claims, err := auth.ParseAccessToken(token, s.accessSecret)
	if err != nil {
		return nil, common.WrapError(common.KindUnauthorized, "invalid access token", err)
	}
	return claims, nil
}
