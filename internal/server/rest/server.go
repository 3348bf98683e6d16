// Package rest exposes the user and session API over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/filex"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/auth"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// UserService is the account API the handlers rely on.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// AccessTokenParser verifies access tokens for the auth middleware.
type AccessTokenParser interface {
	ParseAccess(token string) (*auth.AccessClaims, error)
}

type HTTPServer struct {
	address       string
	router        *gin.Engine
	logger        logging.Logger
	users         UserService
	tokens        AccessTokenParser
	cookies       *CookieManager
	accessTTL     time.Duration
	refreshTTL    time.Duration
	uploadDir     string
	maxUploadSize int64
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us UserService, tp AccessTokenParser) (*HTTPServer, error) {
	uploadDir, err := filex.EnsureDir(cfg.UploadTempDir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}

	s := &HTTPServer{
		address:       cfg.HTTPAddr,
		logger:        l.With("module", "http_server"),
		users:         us,
		tokens:        tp,
		cookies:       NewCookieManager(cfg.CookieSecure, cfg.CookieSameSite, cfg.CookieDomain),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		uploadDir:     uploadDir,
		maxUploadSize: cfg.MaxUploadSize,
	}

	registerValidation()

	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.MaxMultipartMemory = 8 << 20

	corsMiddleware, err := newCORS(cfg.CORSOrigin)
	if err != nil {
		return nil, err
	}
	router.Use(recovery(s.logger), requestLogger(s.logger), corsMiddleware)

	s.router = router
	s.setUpRoutes()

	return s, nil
}

func newCORS(origins string) (gin.HandlerFunc, error) {
	cc := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			cc.AllowAllOrigins = true
		default:
			cc.AllowOrigins = append(cc.AllowOrigins, o)
		}
	}
	if cc.AllowAllOrigins {
		cc.AllowOrigins = nil
	}
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("cors: %w", err)
	}
	return cors.New(cc), nil
}

func (s *HTTPServer) setUpRoutes() {
	api := s.router.Group("/api/v1")
	api.GET("/healthcheck", s.healthcheck)

	users := api.Group("/users")
	users.POST("/register", limitBody(s.maxUploadSize), s.register)
	users.POST("/login", limitBody(maxJSONBodySize), s.login)
	users.POST("/refresh-token", limitBody(maxJSONBodySize), s.refreshToken)

	secured := users.Group("", s.authRequired())
	secured.POST("/logout", s.logout)
	secured.GET("/current-user", s.currentUser)

	s.router.NoRoute(func(c *gin.Context) {
		abortWithStatus(c, http.StatusNotFound, "route not found")
	})
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}
