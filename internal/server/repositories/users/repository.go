// Package users declares the repository contract for user accounts and its
// PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

// Repository defines persistence operations on users.
type Repository interface {
	// Create inserts user and fills in ID and timestamps. A duplicate
	// username or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns common.ErrorNotFound when the user is absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByLogin finds a user whose username equals username or whose email
	// equals email. Empty arguments never match.
	GetByLogin(ctx context.Context, username, email string) (*models.User, error)

	// SetRefreshToken writes only the refresh_token column; nil clears it.
	SetRefreshToken(ctx context.Context, id string, token *string) error
}
