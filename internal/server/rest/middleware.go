package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey = "userID"
	ctxClaimsKey = "claims"

	maxJSONBodySize = 16 << 10
)

func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

func recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(c.Request.Context(), "panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		abortWithStatus(c, http.StatusInternalServerError, "internal server error")
	})
}

// limitBody caps the number of bytes a handler may read from the body.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// authRequired accepts the access token from the accessToken cookie or an
// Authorization: Bearer header and stores the user id in the context.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.cookies.Get(c, common.AccessTokenCookieName)
		if token == "" {
			token = bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		}

		claims, err := s.tokens.ParseAccess(token)
		if err != nil {
			abortWithError(c, s.logger, err)
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}
