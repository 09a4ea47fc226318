package client

import (
	"net/url"
	"strconv"
	"strings"
)

// buildSearchQuery returns the endpoint and query parameters for a search.
// A subreddit scopes the search with restrict_sr; otherwise all of Reddit is
// searched.
func buildSearchQuery(opts SearchOptions) (string, url.Values) {
	query := url.Values{}
	query.Set("q", opts.Query)
	query.Set("type", "link")

	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}
	if opts.TimeFilter != "" {
		query.Set("t", opts.TimeFilter)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	subreddit := NormalizeSubreddit(opts.Subreddit)
	if subreddit == "" {
		return "/search", query
	}

	query.Set("restrict_sr", "true")
	return "/r/" + url.PathEscape(subreddit) + "/search", query
}

// NormalizeSubreddit strips an "r/" or "/r/" prefix and surrounding spaces
func NormalizeSubreddit(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/")
	if len(name) > 2 && strings.EqualFold(name[:2], "r/") {
		name = name[2:]
	}
	return strings.Trim(name, "/")
}
