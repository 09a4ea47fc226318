package client

import (
	"context"
	"net"
	"net/http"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"

	"reddit-mcp-server/config"
	"reddit-mcp-server/types"
)

// userAgentTransport stamps every outgoing request, token requests included,
// with the configured User-Agent. Reddit throttles requests without one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// passwordTokenSource runs the resource owner password grant on every call.
// Reddit script apps get no refresh token, so an expired token is replaced by
// a fresh grant; oauth2.ReuseTokenSource caches it until expiry.
type passwordTokenSource struct {
	ctx      context.Context
	config   *oauth2.Config
	username string
	password string
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.config.PasswordCredentialsToken(s.ctx, s.username, s.password)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	return token, nil
}

func classifyTokenError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errors.Mark(errors.Wrap(err, "token request failed"), types.ErrRemote)
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= http.StatusInternalServerError {
		return errors.Mark(errors.Wrap(err, "token endpoint unavailable"), types.ErrRemote)
	}
	return errors.Mark(errors.Wrap(err, "password grant rejected"), types.ErrAuth)
}

// newAuthenticatedHTTPClient returns an http.Client that attaches a bearer
// token obtained with the account credentials from cfg.
func newAuthenticatedHTTPClient(cfg *config.Config) *http.Client {
	base := &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: cfg.UserAgent,
		},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	source := &passwordTokenSource{
		ctx:      ctx,
		config:   oauthConfig,
		username: cfg.Username,
		password: cfg.Password,
	}

	httpClient := oauth2.NewClient(ctx, source)
	httpClient.Timeout = cfg.RequestTimeout
	return httpClient
}
