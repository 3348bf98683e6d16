package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It enforces the same
// uniqueness rules as the PostgreSQL schema and is safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.RefreshToken != nil {
		t := *u.RefreshToken
		c.RefreshToken = &t
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.UserName == user.UserName || u.Email == user.Email {
			return nil, fmt.Errorf("create user: %w", common.ErrorAlreadyExists)
		}
	}

	c := copyUser(user)
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	r.users[c.ID] = c

	return copyUser(c), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, username, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.User
	for _, u := range r.users {
		if (username != "" && u.UserName == username) || (email != "" && u.Email == email) {
			if found == nil || u.CreatedAt.Before(found.CreatedAt) {
				found = u
			}
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return copyUser(found), nil
}

func (r *MemoryRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if token == nil {
		u.RefreshToken = nil
	} else {
		t := *token
		u.RefreshToken = &t
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}
