package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"reddit-mcp-server/client"
	"reddit-mcp-server/types"
)

// Defaults applied when an argument is left at zero
const (
	DefaultLimit = 25
)

// Handler handles comment operations
type Handler struct {
	client client.RedditClient
	logger *slog.Logger
}

// NewHandler creates a new comment handler
func NewHandler(client client.RedditClient, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// GetCommentsArgs represents arguments for get_comments tool
type GetCommentsArgs struct {
	SubmissionID string `json:"submission_id" jsonschema:"required" jsonschema_description:"ID of the Reddit submission (post) to fetch comments from" validate:"required"`
	Limit        int    `json:"limit,omitempty" jsonschema_description:"Maximum number of top-level comments to return (default 25)" validate:"omitempty,min=1,max=500"`
}

// ReplyArgs represents arguments for reply_to_comment tool
type ReplyArgs struct {
	CommentID string `json:"comment_id" jsonschema:"required" jsonschema_description:"ID of the comment to reply to, with or without the t1_ prefix" validate:"required"`
	Text      string `json:"text" jsonschema:"required" jsonschema_description:"Markdown text of the reply" validate:"required"`
}

// Comment is a comment as returned by the tools
type Comment struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	Score      int       `json:"score"`
	Depth      int       `json:"depth"`
	CreatedUTC float64   `json:"created_utc"`
	Permalink  string    `json:"permalink,omitempty"`
	Replies    []Comment `json:"replies,omitempty"`
}

// ReplyResult describes the comment created by a reply
type ReplyResult struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	Permalink string `json:"permalink,omitempty"`
	Message   string `json:"message"`
}

// GetComments returns the top-level comments of a submission
func (h *Handler) GetComments(ctx context.Context, args GetCommentsArgs) ([]Comment, error) {
	if strings.TrimSpace(args.SubmissionID) == "" {
		return nil, fmt.Errorf("%w: submission_id is required", types.ErrInvalidArgument)
	}

	limit := args.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	h.logger.Debug("Fetching comments", "submission_id", args.SubmissionID, "limit", limit)

	_, forest, err := h.client.Comments(ctx, strings.TrimSpace(args.SubmissionID), client.CommentsOptions{Depth: 1})
	if err != nil {
		return nil, fmt.Errorf("get comments failed: %w", err)
	}

	result := BuildTree(forest, limit, 1)
	if len(result) == 0 {
		h.logger.Debug("No comments found", "submission_id", args.SubmissionID)
	}

	return result, nil
}

// ReplyToComment posts a reply to an existing comment as the authenticated user
func (h *Handler) ReplyToComment(ctx context.Context, args ReplyArgs) (*ReplyResult, error) {
	commentID := strings.TrimSpace(args.CommentID)
	if commentID == "" {
		return nil, fmt.Errorf("%w: comment_id is required", types.ErrInvalidArgument)
	}
	if strings.TrimSpace(args.Text) == "" {
		return nil, fmt.Errorf("%w: text must not be blank", types.ErrInvalidArgument)
	}

	parentID := commentFullname(commentID)
	h.logger.Info("Replying to comment", "comment_id", parentID)

	reply, err := h.client.Reply(ctx, parentID, args.Text)
	if err != nil {
		return nil, fmt.Errorf("reply to comment failed: %w", err)
	}

	h.logger.Info("Reply posted", "comment_id", parentID, "reply_id", reply.ID)

	return &ReplyResult{
		ID:        reply.ID,
		ParentID:  parentID,
		Author:    reply.AuthorName(),
		Body:      reply.Body,
		Permalink: reply.PermalinkURL(),
		Message:   "Successfully replied to comment. New comment ID: " + reply.ID,
	}, nil
}

// BuildTree converts a comment forest into tool comments. At most limit
// top-level comments are kept (all when limit <= 0) and nesting stops before
// maxDepth, so maxDepth 1 yields top-level comments only.
func BuildTree(forest []*client.Comment, limit, maxDepth int) []Comment {
	if limit > 0 && len(forest) > limit {
		forest = forest[:limit]
	}

	tree := buildLevel(forest, 0, maxDepth)
	if tree == nil {
		return []Comment{}
	}
	return tree
}

func buildLevel(level []*client.Comment, depth, maxDepth int) []Comment {
	if depth >= maxDepth || len(level) == 0 {
		return nil
	}

	out := make([]Comment, 0, len(level))
	for _, c := range level {
		node := FromClient(c, depth)
		node.Replies = buildLevel(c.Replies, depth+1, maxDepth)
		out = append(out, node)
	}
	return out
}

// FromClient maps a single API comment without its replies
func FromClient(c *client.Comment, depth int) Comment {
	return Comment{
		ID:         c.ID,
		Author:     c.AuthorName(),
		Body:       c.Body,
		Score:      c.Score,
		Depth:      depth,
		CreatedUTC: c.CreatedUTC,
		Permalink:  c.PermalinkURL(),
	}
}

func commentFullname(id string) string {
	if strings.HasPrefix(id, client.KindComment+"_") {
		return id
	}
	return client.KindComment + "_" + id
}
