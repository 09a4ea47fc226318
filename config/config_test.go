package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var credentialVars = []string{
	"REDDIT_CLIENT_ID",
	"REDDIT_CLIENT_SECRET",
	"REDDIT_USERNAME",
	"REDDIT_PASSWORD",
}

// unsetEnv removes the variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		prev, ok := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		if ok {
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
	}
}

func setCredentials(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "client-id")
	t.Setenv("REDDIT_CLIENT_SECRET", "client-secret")
	t.Setenv("REDDIT_USERNAME", "spez")
	t.Setenv("REDDIT_PASSWORD", "hunter2")
}

func TestLoadArgs_Defaults(t *testing.T) {
	setCredentials(t)

	cfg, err := LoadArgs([]string{})
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "client-secret", cfg.ClientSecret)
	assert.Equal(t, "spez", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "reddit-mcp-server", cfg.UserAgent)
	assert.Equal(t, "https://oauth.reddit.com", cfg.APIURL)
	assert.Equal(t, "https://www.reddit.com/api/v1/access_token", cfg.TokenURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.VerifyAuth)
}

func TestLoadArgs_FlagsOverrideEnv(t *testing.T) {
	setCredentials(t)
	t.Setenv("REDDIT_USER_AGENT", "env-agent")

	cfg, err := LoadArgs([]string{
		"--user-agent", "flag-agent",
		"--max-retries", "5",
		"--retry-delay", "250ms",
		"--log-format", "json",
		"--debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "flag-agent", cfg.UserAgent)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Debug)
}

func TestLoadArgs_EnvFile(t *testing.T) {
	unsetEnv(t, credentialVars...)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "REDDIT_CLIENT_ID=file-id\n" +
		"REDDIT_CLIENT_SECRET=file-secret\n" +
		"REDDIT_USERNAME=file-user\n" +
		"REDDIT_PASSWORD=file-pass\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Cleanup(func() { unsetAll(credentialVars) })

	cfg, err := LoadArgs([]string{"--env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "file-secret", cfg.ClientSecret)
	assert.Equal(t, "file-user", cfg.Username)
	assert.Equal(t, "file-pass", cfg.Password)
}

func TestLoadArgs_MissingCredentials(t *testing.T) {
	unsetEnv(t, credentialVars...)

	_, err := LoadArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDDIT_CLIENT_ID")
	assert.Contains(t, err.Error(), "REDDIT_PASSWORD")
}

func TestLoadArgs_InvalidLogFormat(t *testing.T) {
	setCredentials(t)

	_, err := LoadArgs([]string{"--log-format", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse flags")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ClientID:       "id",
		ClientSecret:   "secret",
		Username:       "user",
		Password:       "pass",
		RequestTimeout: time.Second,
		MaxRetries:     1,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.ClientSecret = "" }, wantErr: "REDDIT_CLIENT_SECRET"},
		{name: "missing username", mutate: func(c *Config) { c.Username = "" }, wantErr: "REDDIT_USERNAME"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, wantErr: "max-retries"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "request-timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func unsetAll(keys []string) {
	for _, key := range keys {
		_ = os.Unsetenv(key)
	}
}
