package tools

import (
	"log/slog"

	"reddit-mcp-server/client"
	"reddit-mcp-server/tools/comments"
	"reddit-mcp-server/tools/posts"
	"reddit-mcp-server/tools/search"
)

// Handler aggregates all tool handlers
type Handler struct {
	Search   *search.Handler
	Posts    *posts.Handler
	Comments *comments.Handler
	logger   *slog.Logger
}

// NewHandler creates a new aggregated tool handler
func NewHandler(client client.RedditClient, logger *slog.Logger) *Handler {
	return &Handler{
		Search:   search.NewHandler(client, logger),
		Posts:    posts.NewHandler(client, logger),
		Comments: comments.NewHandler(client, logger),
		logger:   logger,
	}
}
