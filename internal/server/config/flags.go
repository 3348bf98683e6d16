package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
)

var flagNames = []string{
	"a", "d", "t", "r", "u", "p", "b", "g", "e",
	"access-secret", "refresh-secret", "cors-origin", "cookie-secure",
	"upload-dir", "s3-public-url", "log-level",
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string              HTTP bind address (e.g. ":8000")
//	-d string              PostgreSQL DSN
//	-t duration            access token validity (e.g. "15m")
//	-r duration            refresh token validity (e.g. "240h")
//	-u string              S3 access key
//	-p string              S3 secret key
//	-b string              S3 bucket
//	-g string              S3 region
//	-e string              S3 base endpoint
//	-access-secret string  HMAC key for access tokens
//	-refresh-secret string HMAC key for refresh tokens
//	-cors-origin string    allowed browser origin
//	-cookie-secure bool    Secure attribute on session cookies (use -cookie-secure=false)
//	-upload-dir string     local staging directory for uploads
//	-s3-public-url string  public base URL of stored assets
//	-log-level string      debug, info, warn, error
//
// Arguments not listed above are filtered out before parsing.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.RefreshTokenValidityDuration, "r", config.RefreshTokenValidityDuration, "refresh token validity")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.AccessTokenSecret, "access-secret", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "refresh-secret", config.RefreshTokenSecret, "refresh token secret")
	fs.StringVar(&config.CORSOrigin, "cors-origin", config.CORSOrigin, "allowed CORS origin")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "secure session cookies")
	fs.StringVar(&config.UploadTempDir, "upload-dir", config.UploadTempDir, "upload staging directory")
	fs.StringVar(&config.S3PublicBaseURL, "s3-public-url", config.S3PublicBaseURL, "public base URL of stored assets")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
