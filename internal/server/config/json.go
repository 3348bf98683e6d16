package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vidtube/internal/flagx"
	"github.com/dmitrijs2005/vidtube/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// strings such as "15m" or integer nanoseconds. Pointer fields distinguish
// "absent" from the zero value.
type JsonConfig struct {
	HTTPAddr                     string          `json:"http_addr"`
	DatabaseDSN                  string          `json:"database_dsn"`
	AccessTokenSecret            string          `json:"access_token_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenSecret           string          `json:"refresh_token_secret"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	CORSOrigin                   string          `json:"cors_origin"`
	CookieSecure                 *bool           `json:"cookie_secure"`
	CookieSameSite               string          `json:"cookie_same_site"`
	CookieDomain                 string          `json:"cookie_domain"`
	UploadTempDir                string          `json:"upload_temp_dir"`
	MaxUploadSize                int64           `json:"max_upload_size"`
	S3AccessKey                  string          `json:"s3_access_key"`
	S3SecretKey                  string          `json:"s3_secret_key"`
	S3Bucket                     string          `json:"s3_bucket"`
	S3Region                     string          `json:"s3_region"`
	S3BaseEndpoint               string          `json:"s3_base_endpoint"`
	S3PublicBaseURL              string          `json:"s3_public_base_url"`
	LogLevel                     string          `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config in args.
// Without the flag nothing is loaded. Only keys present in the file
// override the current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	setString(&config.CORSOrigin, c.CORSOrigin)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.CookieSameSite, c.CookieSameSite)
	setString(&config.CookieDomain, c.CookieDomain)
	setString(&config.UploadTempDir, c.UploadTempDir)
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
