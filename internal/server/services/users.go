package services

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/cryptox"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidtube/internal/server/storage"
)

// Upload is a file received from a client and spooled to local disk.
type Upload struct {
	LocalPath string
	Filename  string
}

type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *Upload
	CoverImage *Upload
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	verifier    *CredentialVerifier
	tokens      *TokenService
	uploader    storage.Uploader
	log         logging.Logger
	bcryptCost  int

	removeFile func(string) error
}

func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, v *CredentialVerifier, t *TokenService,
	u storage.Uploader, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		verifier:    v,
		tokens:      t,
		uploader:    u,
		log:         log.With("module", "services.users"),
		bcryptCost:  cryptox.DefaultCost,
		removeFile:  os.Remove,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates a new account. Uploaded files are removed from local disk
// before Register returns, whatever the outcome.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	defer s.cleanup(ctx, in.Avatar, in.CoverImage)

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", in.FullName},
		{"email", in.Email},
		{"username", in.Username},
		{"password", in.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		return nil, common.NewError(common.KindBadRequest, "all fields are required", missing...)
	}

	username, email := normalize(in.Username), normalize(in.Email)
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByLogin(ctx, username, email)
	switch {
	case err == nil:
		return nil, common.NewError(common.KindConflict, "user with email or username already exists")
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.Internal(err)
	}

	if in.Avatar == nil || in.Avatar.LocalPath == "" {
		return nil, common.NewError(common.KindBadRequest, "avatar file is required")
	}

	// The password is checked and hashed before any upload happens.
	if len(in.Password) > cryptox.MaxPasswordLength {
		return nil, common.NewError(common.KindBadRequest, "password is too long")
	}
	hash, err := cryptox.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, common.Internal(err)
	}

	avatarURL, err := s.uploader.Upload(ctx, in.Avatar.LocalPath)
	if err != nil {
		return nil, common.Internal(err)
	}

	var coverURL string
	if in.CoverImage != nil && in.CoverImage.LocalPath != "" {
		coverURL, err = s.uploader.Upload(ctx, in.CoverImage.LocalPath)
		if err != nil {
			return nil, common.Internal(err)
		}
	}

	user, err := repo.Create(ctx, &models.User{
		UserName:      username,
		Email:         email,
		FullName:      strings.TrimSpace(in.FullName),
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.WrapError(common.KindConflict, "user with email or username already exists", err)
		}
		return nil, common.Internal(err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) cleanup(ctx context.Context, uploads ...*Upload) {
	for _, u := range uploads {
		if u == nil || u.LocalPath == "" {
			continue
		}
		if err := s.removeFile(u.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn(ctx, "failed to remove temp file", "path", u.LocalPath, "error", err)
		}
	}
}

// Login verifies the credentials and opens a session.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	login := Login{Username: normalize(in.Username), Email: normalize(in.Email)}
	if in.Password == "" || (login.Username == "" && login.Email == "") {
		return nil, common.NewError(common.KindBadRequest, "all fields are required")
	}

	user, ok, err := s.verifier.Verify(ctx, login, in.Password)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.WrapError(common.KindBadRequest, "user does not exist", err)
		}
		return nil, err
	}
	if !ok {
		return nil, common.NewError(common.KindBadRequest, "invalid user credentials")
	}

	pair, err := s.tokens.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = &pair.RefreshToken

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: user, Tokens: pair}, nil
}

// Logout revokes the refresh token of userID.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return err
	}
	s.log.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// Refresh rotates the presented refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken)
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.WrapError(common.KindNotFound, "user not found", err)
		}
		return nil, common.Internal(err)
	}
	return user, nil
}
