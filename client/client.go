package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"reddit-mcp-server/config"
	"reddit-mcp-server/types"
)

//go:generate mockgen -destination=client_mock.go -package=client . RedditClient

// RedditClient defines the interface for Reddit API operations
type RedditClient interface {
	Me(ctx context.Context) (*Account, error)
	Saved(ctx context.Context, username string, limit int) ([]Thing, error)
	Search(ctx context.Context, opts SearchOptions) ([]*Link, error)
	Comments(ctx context.Context, postID string, opts CommentsOptions) (*Link, []*Comment, error)
	Reply(ctx context.Context, parentID, text string) (*Comment, error)
	Ping(ctx context.Context) error
}

// SearchOptions are the query parameters of a search request
type SearchOptions struct {
	Query      string
	Subreddit  string
	Sort       string
	TimeFilter string
	Limit      int
}

// CommentsOptions are the query parameters of a comments request. Reddit's
// limit parameter counts nested comments too, so sibling limits are applied
// by the caller.
type CommentsOptions struct {
	Depth int
	Sort  string
}

// Client provides access to Reddit API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration
}

// New creates a new Reddit client authenticated as the configured account.
// No request is made until the first call.
func New(cfg *config.Config, logger *slog.Logger) RedditClient {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		httpClient: newAuthenticatedHTTPClient(cfg),
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Me returns the authenticated account
func (c *Client) Me(ctx context.Context) (*Account, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/me", nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "me request failed")
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, errors.Wrap(err, "failed to decode account")
	}
	if account.Name == "" {
		return nil, errors.Mark(errors.New("authenticated account has no name"), types.ErrAuth)
	}

	return &account, nil
}

// Ping checks that Reddit is reachable and the credentials are accepted
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Me(ctx); err != nil {
		return errors.Wrap(err, "ping failed")
	}
	return nil
}

// Saved returns the most recent items saved by username, links and comments mixed
func (c *Client) Saved(ctx context.Context, username string, limit int) ([]Thing, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	endpoint := "/user/" + url.PathEscape(username) + "/saved"
	listing, err := c.getListing(ctx, endpoint, query)
	if err != nil {
		return nil, errors.Wrap(err, "saved request failed")
	}

	return listing.Children, nil
}

// Search searches links across Reddit, or inside one subreddit when set
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]*Link, error) {
	endpoint, query := buildSearchQuery(opts)

	listing, err := c.getListing(ctx, endpoint, query)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}

	return listing.Links(), nil
}

// Comments returns a post together with its comment forest
func (c *Client) Comments(ctx context.Context, postID string, opts CommentsOptions) (*Link, []*Comment, error) {
	postID = strings.TrimPrefix(postID, KindLink+"_")
	if postID == "" {
		return nil, nil, errors.Mark(errors.New("post id is required"), types.ErrInvalidArgument)
	}

	query := url.Values{}
	if opts.Depth > 0 {
		query.Set("depth", strconv.Itoa(opts.Depth))
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/comments/"+url.PathEscape(postID), query, nil)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "comments request for %s failed", postID)
	}

	// The response is a pair of listings: the post, then its comments
	var listings []Listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode comments")
	}
	if len(listings) == 0 {
		return nil, nil, errors.Mark(errors.Newf("post %s not found", postID), types.ErrNotFound)
	}

	links := listings[0].Links()
	if len(links) == 0 {
		return nil, nil, errors.Mark(errors.Newf("post %s not found", postID), types.ErrNotFound)
	}

	var comments []*Comment
	if len(listings) > 1 {
		comments = listings[1].Comments()
	}

	return links[0], comments, nil
}

// Reply posts text as a reply to the thing with the given fullname
func (c *Client) Reply(ctx context.Context, parentID, text string) (*Comment, error) {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", parentID)
	form.Set("text", text)

	body, err := c.doRequest(ctx, http.MethodPost, "/api/comment", nil, form)
	if err != nil {
		return nil, errors.Wrapf(err, "reply to %s failed", parentID)
	}

	var resp struct {
		JSON struct {
			Errors [][]string `json:"errors"`
			Data   struct {
				Things []Thing `json:"things"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode reply response")
	}

	if len(resp.JSON.Errors) > 0 {
		return nil, errors.Wrapf(apiErrors(resp.JSON.Errors), "reply to %s rejected", parentID)
	}

	for _, thing := range resp.JSON.Data.Things {
		if thing.Comment != nil {
			return thing.Comment, nil
		}
	}

	return nil, errors.Mark(errors.Newf("reply to %s returned no comment", parentID), types.ErrRemote)
}

func (c *Client) getListing(ctx context.Context, endpoint string, query url.Values) (*Listing, error) {
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, err
	}

	var listing Listing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, errors.Wrap(err, "failed to decode listing")
	}
	return &listing, nil
}

// doRequest sends one API request, retrying GETs on transport failures,
// 429 and 5xx responses. POSTs are sent once so a reply is never duplicated.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query, form url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("raw_json", "1")
	reqURL := c.baseURL + endpoint + "?" + query.Encode()

	retries := c.maxRetries
	if method != http.MethodGet {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("Retrying request", "attempt", attempt, "url", reqURL, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("Sending request", "method", method, "url", reqURL)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, types.ErrAuth) {
				return nil, err
			}
			lastErr = err
			continue
		}

		bodyBytes, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 400 {
			httpErr := classifyStatus(resp.StatusCode, bodyBytes)
			if isRetryableStatus(resp.StatusCode) && attempt < retries {
				lastErr = httpErr
				continue
			}
			return nil, httpErr
		}

		return bodyBytes, nil
	}

	if errors.Is(lastErr, types.ErrRateLimited) {
		return nil, errors.Wrapf(lastErr, "request failed after %d attempts", retries+1)
	}
	return nil, errors.Mark(
		errors.Wrapf(lastErr, "request failed after %d attempts", retries+1),
		types.ErrRemote,
	)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// classifyStatus builds an HTTPError marked with the kind matching the status
func classifyStatus(status int, body []byte) error {
	httpErr := &types.HTTPError{
		StatusCode: status,
		Message:    errorMessage(body),
	}

	switch {
	case status == http.StatusUnauthorized:
		return errors.Mark(httpErr, types.ErrAuth)
	case status == http.StatusForbidden:
		return errors.Mark(httpErr, types.ErrForbidden)
	case status == http.StatusNotFound:
		return errors.Mark(httpErr, types.ErrNotFound)
	case status == http.StatusTooManyRequests:
		return errors.Mark(httpErr, types.ErrRateLimited)
	default:
		return errors.Mark(httpErr, types.ErrRemote)
	}
}

// errorMessage extracts Reddit's error text from a JSON error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Reason != "":
			return payload.Reason
		case payload.Message != "":
			return payload.Message
		case payload.Error != nil:
			return fmt.Sprint(payload.Error)
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// apiErrors converts the json.errors triples of a form endpoint into an error
func apiErrors(errs [][]string) error {
	parts := make([]string, 0, len(errs))
	kind := types.ErrForbidden
	for _, e := range errs {
		if len(e) == 0 {
			continue
		}
		code := e[0]
		switch code {
		case "RATELIMIT":
			kind = types.ErrRateLimited
		case "NO_TEXT", "TOO_LONG", "INVALID_THING_ID":
			kind = types.ErrInvalidArgument
		}
		if len(e) > 1 && e[1] != "" {
			parts = append(parts, code+": "+e[1])
		} else {
			parts = append(parts, code)
		}
	}

	return errors.Mark(errors.New(strings.Join(parts, "; ")), kind)
}
