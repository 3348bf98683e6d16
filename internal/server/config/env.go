package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/timex"
	"github.com/joho/godotenv"
)

// withDotEnv returns a lookup that consults lookup first and then the
// variables of the dotenv file at path. A missing file is not an error.
func withDotEnv(lookup func(string) (string, bool), path string) func(string) (string, bool) {
	fileVars, err := godotenv.Read(path)
	if err != nil {
		return lookup
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
}

// parseEnv overlays values from environment variables.
//
//	PORT                  HTTP port; becomes ":PORT"
//	HTTP_ADDR             full bind address, wins over PORT
//	DATABASE_DSN
//	ACCESS_TOKEN_SECRET   ACCESS_TOKEN_EXPIRY   (duration, e.g. "1h" or "1d")
//	REFRESH_TOKEN_SECRET  REFRESH_TOKEN_EXPIRY  (duration, e.g. "240h" or "10d")
//	CORS_ORIGIN
//	COOKIE_SECURE COOKIE_SAME_SITE COOKIE_DOMAIN
//	UPLOAD_TEMP_DIR MAX_UPLOAD_SIZE
//	S3_ACCESS_KEY S3_SECRET_KEY S3_BUCKET S3_REGION S3_BASE_ENDPOINT S3_PUBLIC_BASE_URL
//	LOG_LEVEL
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		config.HTTPAddr = ":" + v
	}
	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("ACCESS_TOKEN_SECRET", &config.AccessTokenSecret)
	str("REFRESH_TOKEN_SECRET", &config.RefreshTokenSecret)
	str("CORS_ORIGIN", &config.CORSOrigin)
	str("COOKIE_SAME_SITE", &config.CookieSameSite)
	str("COOKIE_DOMAIN", &config.CookieDomain)
	str("UPLOAD_TEMP_DIR", &config.UploadTempDir)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_PUBLIC_BASE_URL", &config.S3PublicBaseURL)
	str("LOG_LEVEL", &config.LogLevel)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ACCESS_TOKEN_EXPIRY", &config.AccessTokenValidityDuration},
		{"REFRESH_TOKEN_EXPIRY", &config.RefreshTokenValidityDuration},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := timex.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("COOKIE_SECURE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env COOKIE_SECURE: %w", err)
		}
		config.CookieSecure = b
	}

	if v, ok := lookup("MAX_UPLOAD_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("env MAX_UPLOAD_SIZE: %w", err)
		}
		config.MaxUploadSize = n
	}

	return nil
}
