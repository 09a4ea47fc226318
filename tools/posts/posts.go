package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reddit-mcp-server/client"
	"reddit-mcp-server/tools/comments"
	"reddit-mcp-server/types"
)

// Defaults applied when an argument is left at zero
const (
	DefaultSavedLimit   = 25
	DefaultCommentLimit = 20
	DefaultCommentDepth = 3

	// commentSort orders the comment forest of fetch_reddit_post_content
	commentSort = "top"
)

// Handler handles post operations
type Handler struct {
	client client.RedditClient
	logger *slog.Logger
}

// NewHandler creates a new post handler
func NewHandler(client client.RedditClient, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// SavedPostsArgs represents arguments for get_saved_posts tool
type SavedPostsArgs struct {
	Limit     int    `json:"limit,omitempty" jsonschema_description:"Maximum number of saved items to fetch before filtering (default 25)" validate:"omitempty,min=1,max=100"`
	Subreddit string `json:"subreddit,omitempty" jsonschema_description:"If set, only posts from this subreddit are returned"`
}

// PostContentArgs represents arguments for fetch_reddit_post_content tool
type PostContentArgs struct {
	PostID       string `json:"post_id" jsonschema:"required" jsonschema_description:"ID of the Reddit post" validate:"required"`
	CommentLimit int    `json:"comment_limit,omitempty" jsonschema_description:"Maximum number of top-level comments (default 20)" validate:"omitempty,min=1,max=100"`
	CommentDepth int    `json:"comment_depth,omitempty" jsonschema_description:"Maximum nesting depth of the comment tree (default 3)" validate:"omitempty,min=1,max=10"`
}

// Post is a submission as returned by the tools
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Body        string  `json:"body,omitempty"`
}

// PostContent is a post with its comment tree
type PostContent struct {
	Post
	Comments []comments.Comment `json:"comments"`
}

// FromClient maps an API link
func FromClient(l *client.Link) Post {
	return Post{
		ID:          l.ID,
		Title:       l.Title,
		URL:         l.URL,
		Permalink:   l.PermalinkURL(),
		Author:      l.AuthorName(),
		Subreddit:   l.Subreddit,
		Score:       l.Score,
		NumComments: l.NumComments,
		CreatedUTC:  l.CreatedUTC,
		Body:        l.Selftext,
	}
}

// FromClientList maps API links, keeping their order
func FromClientList(links []*client.Link) []Post {
	result := make([]Post, 0, len(links))
	for _, l := range links {
		result = append(result, FromClient(l))
	}
	return result
}

// GetSavedPosts returns posts saved by the authenticated user. Saved comments
// are skipped and the subreddit filter is applied after the fetch, so fewer
// than limit posts may come back.
func (h *Handler) GetSavedPosts(ctx context.Context, args SavedPostsArgs) ([]Post, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = DefaultSavedLimit
	}
	subreddit := client.NormalizeSubreddit(args.Subreddit)

	h.logger.Debug("Fetching saved posts", "limit", limit, "subreddit", subreddit)

	me, err := h.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve authenticated user: %w", err)
	}

	saved, err := h.client.Saved(ctx, me.Name, limit)
	if err != nil {
		return nil, fmt.Errorf("get saved posts failed: %w", err)
	}

	result := make([]Post, 0, len(saved))
	for _, item := range saved {
		if item.Link == nil {
			continue
		}
		if subreddit != "" && !strings.EqualFold(item.Link.Subreddit, subreddit) {
			continue
		}
		result = append(result, FromClient(item.Link))
	}

	if len(result) == 0 {
		h.logger.Debug("No saved posts found", "user", me.Name, "subreddit", subreddit)
	}

	return result, nil
}

// FetchPostContent returns a post with a comment tree bounded by the
// comment limit on top-level comments and the comment depth on nesting
func (h *Handler) FetchPostContent(ctx context.Context, args PostContentArgs) (*PostContent, error) {
	postID := strings.TrimSpace(args.PostID)
	if postID == "" {
		return nil, fmt.Errorf("%w: post_id is required", types.ErrInvalidArgument)
	}

	limit := args.CommentLimit
	if limit <= 0 {
		limit = DefaultCommentLimit
	}
	depth := args.CommentDepth
	if depth <= 0 {
		depth = DefaultCommentDepth
	}

	h.logger.Debug("Fetching post content", "post_id", postID, "comment_limit", limit, "comment_depth", depth)

	link, forest, err := h.client.Comments(ctx, postID, client.CommentsOptions{
		Depth: depth,
		Sort:  commentSort,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch post content failed: %w", err)
	}

	return &PostContent{
		Post:     FromClient(link),
		Comments: comments.BuildTree(forest, limit, depth),
	}, nil
}
