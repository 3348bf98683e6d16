package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-t", "15m", "-r", "72h",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-access-secret", "as", "-refresh-secret", "rs", "-cors-origin", "http://app",
				"-cookie-secure=true", "-upload-dir", "/tmp/up", "-s3-public-url", "http://cdn", "-log-level", "debug",
			},
			expected: &Config{
				HTTPAddr:                     "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				AccessTokenSecret:            "as",
				AccessTokenValidityDuration:  15 * time.Minute,
				RefreshTokenSecret:           "rs",
				RefreshTokenValidityDuration: 72 * time.Hour,
				CORSOrigin:                   "http://app",
				CookieSecure:                 true,
				UploadTempDir:                "/tmp/up",
				S3AccessKey:                  "user",
				S3SecretKey:                  "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				S3PublicBaseURL:              "http://cdn",
				LogLevel:                     "debug",
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{HTTPAddr: ":1"},
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
