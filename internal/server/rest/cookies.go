package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager sets and clears the session cookies. Every cookie it writes
// is httpOnly and shares the same Secure, SameSite and Domain attributes so
// that deletion matches what was set.
type CookieManager struct {
	secure   bool
	sameSite http.SameSite
	domain   string
	path     string
}

func NewCookieManager(secure bool, sameSite, domain string) *CookieManager {
	return &CookieManager{
		secure:   secure,
		sameSite: parseSameSite(sameSite),
		domain:   domain,
		path:     "/",
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Set writes name=value living for ttl.
func (m *CookieManager) Set(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(m.sameSite)
	c.SetCookie(name, value, int(ttl/time.Second), m.path, m.domain, m.secure, true)
}

// Get returns the cookie value, or "" if it is absent.
func (m *CookieManager) Get(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}

// Delete expires the cookie on the client.
func (m *CookieManager) Delete(c *gin.Context, name string) {
	c.SetSameSite(m.sameSite)
	c.SetCookie(name, "", -1, m.path, m.domain, m.secure, true)
}
