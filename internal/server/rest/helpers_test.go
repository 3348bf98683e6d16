package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.UploadTempDir = t.TempDir()
	cfg.MaxUploadSize = 1 << 20
	cfg.AccessTokenSecret = "access-secret"
	cfg.RefreshTokenSecret = "refresh-secret"
	cfg.AccessTokenValidityDuration = 15 * time.Minute
	cfg.RefreshTokenValidityDuration = 24 * time.Hour
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, us UserService, tp AccessTokenParser) *HTTPServer {
	t.Helper()
	s, err := NewHTTPServer(cfg, logging.Nop{}, us, tp)
	require.NoError(t, err)
	return s
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path string, body any) *http.Request {
	var r io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// fakeUserService records its inputs and returns canned results.
type fakeUserService struct {
	registerIn  services.RegisterInput
	registerOut *models.User
	registerErr error
	// set to inspect spooled files while the handler is still running
	onRegister func(services.RegisterInput)

	loginIn  services.LoginInput
	loginOut *services.LoginResult
	loginErr error

	logoutID  string
	logoutErr error

	refreshIn  string
	refreshOut *services.TokenPair
	refreshErr error

	currentID  string
	currentOut *models.User
	currentErr error
}

func (f *fakeUserService) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	f.registerIn = in
	if f.onRegister != nil {
		f.onRegister(in)
	}
	return f.registerOut, f.registerErr
}

func (f *fakeUserService) Login(_ context.Context, in services.LoginInput) (*services.LoginResult, error) {
	f.loginIn = in
	return f.loginOut, f.loginErr
}

func (f *fakeUserService) Logout(_ context.Context, id string) error {
	f.logoutID = id
	return f.logoutErr
}

func (f *fakeUserService) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	f.refreshIn = token
	return f.refreshOut, f.refreshErr
}

func (f *fakeUserService) CurrentUser(_ context.Context, id string) (*models.User, error) {
	f.currentID = id
	return f.currentOut, f.currentErr
}

type fakeTokens struct {
	seen string
}

// ParseAccess accepts exactly "good-token" and returns user u1.
func (f *fakeTokens) ParseAccess(token string) (*auth.AccessClaims, error) {
	f.seen = token
	if token != "good-token" {
		return nil, common.NewError(common.KindUnauthorized, "unauthorized request")
	}
	return &auth.AccessClaims{UserID: "u1"}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
