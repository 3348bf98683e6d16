package rest

import (
	"time"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
)

// registerRequest carries the text parts of the multipart registration
// form. The files are read separately.
type registerRequest struct {
	FullName string `form:"fullName" binding:"required,notblank"`
	Email    string `form:"email" binding:"required,notblank,email"`
	Username string `form:"username" binding:"required,notblank"`
	Password string `form:"password" binding:"required,notblank"`
}

type loginRequest struct {
	Username string `json:"username" binding:"omitempty"`
	Email    string `json:"email" binding:"omitempty"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// PublicUser is the user as exposed to clients. It never carries the
// password hash or the refresh token.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toPublicUser(u *models.User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:         u.ID,
		Username:   u.UserName,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImageURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type loginResponse struct {
	User         *PublicUser `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type tokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func toTokensResponse(p *services.TokenPair) tokensResponse {
	return tokensResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}
