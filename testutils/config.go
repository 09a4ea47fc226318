package testutils

import (
	"time"

	"reddit-mcp-server/config"
)

// Credentials accepted by the fake Reddit token endpoint
const (
	TestClientID     = "test-client-id"
	TestClientSecret = "test-client-secret"
	TestUsername     = "test_user"
	TestPassword     = "test-password"
	TestUserAgent    = "reddit-mcp-server-tests/1.0"
	TestAccessToken  = "test-access-token"
)

// LoadTestConfig returns a configuration pointing at the given fake Reddit server
func LoadTestConfig(baseURL string) *config.Config {
	return &config.Config{
		ClientID:       TestClientID,
		ClientSecret:   TestClientSecret,
		Username:       TestUsername,
		Password:       TestPassword,
		UserAgent:      TestUserAgent,
		APIURL:         baseURL,
		TokenURL:       baseURL + "/api/v1/access_token",
		RequestTimeout: 5 * time.Second,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
		LogFormat:      "text",
	}
}
