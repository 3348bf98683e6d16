package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	usersrepo "github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// fakeUsersRepo is an in-memory users.Repository.
type fakeUsersRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User

	// forced errors
	getByLoginErr error
	getByIDErr    error
	createErr     error
	setErr        error

	setCalls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func clone(u *models.User) *models.User {
	c := *u
	if u.RefreshToken != nil {
		t := *u.RefreshToken
		c.RefreshToken = &t
	}
	return &c
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, e := range f.users {
		if e.UserName == u.UserName || e.Email == u.Email {
			return nil, fmt.Errorf("create user: %w", common.ErrorAlreadyExists)
		}
	}
	f.seq++
	c := clone(u)
	c.ID = "u" + strconv.Itoa(f.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.users[c.ID] = c
	return clone(c), nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (f *fakeUsersRepo) GetByLogin(ctx context.Context, username, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByLoginErr != nil {
		return nil, f.getByLoginErr
	}
	for _, u := range f.users {
		if (username != "" && u.UserName == username) || (email != "" && u.Email == email) {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) SetRefreshToken(ctx context.Context, id string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if token == nil {
		u.RefreshToken = nil
	} else {
		t := *token
		u.RefreshToken = &t
	}
	return nil
}

func (f *fakeUsersRepo) stored(id string) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u.RefreshToken
	}
	return nil
}

// add inserts a user with a bcrypt hash of password.
func (f *fakeUsersRepo) add(username, email, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u, err := f.Create(context.Background(), &models.User{
		UserName:     username,
		Email:        email,
		FullName:     "Test " + username,
		PasswordHash: string(hash),
		AvatarURL:    "http://cdn/" + username + ".png",
	})
	if err != nil {
		panic(err)
	}
	return u
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }

type fakeUploader struct {
	mu      sync.Mutex
	paths   []string
	errFor  map[string]error
	baseURL string
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errFor[localPath]; ok {
		return "", err
	}
	f.paths = append(f.paths, localPath)
	return f.baseURL + "/" + localPath, nil
}

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:            "access-secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenSecret:           "refresh-secret",
		RefreshTokenValidityDuration: 24 * time.Hour,
	}
}

type fixture struct {
	repo     *fakeUsersRepo
	uploader *fakeUploader
	verifier *CredentialVerifier
	tokens   *TokenService
	users    *UserService
	removed  []string
}

func newFixture() *fixture {
	repo := newFakeUsersRepo()
	rm := &fakeRepoManager{u: repo}
	f := &fixture{
		repo:     repo,
		uploader: &fakeUploader{baseURL: "http://cdn", errFor: map[string]error{}},
	}
	f.verifier = NewCredentialVerifier(nil, rm)
	f.tokens = NewTokenService(nil, rm, testConfig())
	f.users = NewUserService(nil, rm, f.verifier, f.tokens, f.uploader, logging.Nop{})
	f.users.bcryptCost = bcrypt.MinCost
	f.users.removeFile = func(p string) error {
		f.removed = append(f.removed, p)
		return nil
	}
	return f
}
