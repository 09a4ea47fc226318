package search

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"reddit-mcp-server/client"
	"reddit-mcp-server/tools/posts"
	"reddit-mcp-server/types"
)

// Defaults applied when an argument is left empty
const (
	DefaultSort  = "relevance"
	DefaultLimit = 10
)

// Sorts lists the accepted sort orders
var Sorts = []string{"relevance", "hot", "new", "top", "comments"}

// TimeFilters lists the accepted time windows
var TimeFilters = []string{"hour", "day", "week", "month", "year", "all"}

// Handler handles search operations
type Handler struct {
	client client.RedditClient
	logger *slog.Logger
}

// NewHandler creates a new search handler
func NewHandler(client client.RedditClient, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// Args represents arguments for search_reddit tool
type Args struct {
	Query      string `json:"query" jsonschema:"required" jsonschema_description:"The search query" validate:"required"`
	Subreddit  string `json:"subreddit,omitempty" jsonschema_description:"If set, the search is limited to this subreddit"`
	Sort       string `json:"sort,omitempty" jsonschema:"enum=relevance,enum=hot,enum=new,enum=top,enum=comments" jsonschema_description:"Sort order of the results (default relevance)" validate:"omitempty,oneof=relevance hot new top comments"`
	TimeFilter string `json:"time_filter,omitempty" jsonschema:"enum=hour,enum=day,enum=week,enum=month,enum=year,enum=all" jsonschema_description:"Only return posts from this time window" validate:"omitempty,oneof=hour day week month year all"`
	Limit      int    `json:"limit,omitempty" jsonschema_description:"Maximum number of results (default 10)" validate:"omitempty,min=1,max=100"`
}

// Execute searches Reddit and returns posts in the remote sort order
func (h *Handler) Execute(ctx context.Context, args Args) ([]posts.Post, error) {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", types.ErrInvalidArgument)
	}

	opts := client.SearchOptions{
		Query:      query,
		Subreddit:  args.Subreddit,
		Sort:       strings.ToLower(strings.TrimSpace(args.Sort)),
		TimeFilter: strings.ToLower(strings.TrimSpace(args.TimeFilter)),
		Limit:      args.Limit,
	}
	if opts.Sort == "" {
		opts.Sort = DefaultSort
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	if !slices.Contains(Sorts, opts.Sort) {
		return nil, fmt.Errorf("%w: unsupported sort %q", types.ErrInvalidArgument, opts.Sort)
	}
	if opts.TimeFilter != "" && !slices.Contains(TimeFilters, opts.TimeFilter) {
		return nil, fmt.Errorf("%w: unsupported time filter %q", types.ErrInvalidArgument, opts.TimeFilter)
	}

	h.logger.Debug("Searching Reddit",
		"query", opts.Query,
		"subreddit", opts.Subreddit,
		"sort", opts.Sort,
		"time_filter", opts.TimeFilter,
		"limit", opts.Limit)

	links, err := h.client.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if len(links) == 0 {
		h.logger.Debug("No search results found", "query", opts.Query)
	}

	return posts.FromClientList(links), nil
}
