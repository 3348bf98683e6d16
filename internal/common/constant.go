// Package common contains shared constants and error values used across
// vidtube components.
package common

// Cookie names carrying the session tokens.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// AuthorizationHeaderName carries a "Bearer <token>" access token for clients
// that do not keep cookies.
const AuthorizationHeaderName = "Authorization"
