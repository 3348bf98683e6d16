// Package services holds the business logic of the server: credential
// verification, session token issuance and rotation, and the user account
// operations built on top of them.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/cryptox"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
)

// Login identifies a user by username or email. Either may be empty.
type Login struct {
	Username string
	Email    string
}

// CredentialVerifier checks a presented password against the stored hash.
type CredentialVerifier struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewCredentialVerifier(db dbx.DBTX, m repomanager.RepositoryManager) *CredentialVerifier {
	return &CredentialVerifier{db: db, repomanager: m}
}

// Verify looks the user up and compares password with its hash.
//
// A wrong password is reported as (user, false, nil). An absent user is an
// error of kind KindNotFound; storage failures are internal errors.
func (v *CredentialVerifier) Verify(ctx context.Context, login Login, password string) (*models.User, bool, error) {
	repo := v.repomanager.Users(v.db)

	user, err := repo.GetByLogin(ctx, login.Username, login.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, common.WrapError(common.KindNotFound, "user does not exist", err)
		}
		return nil, false, common.Internal(err)
	}

	ok, err := cryptox.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, false, common.Internal(err)
	}

	return user, ok, nil
}
