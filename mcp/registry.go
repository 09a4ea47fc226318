package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	mcp_golang "github.com/metoro-io/mcp-golang"

	"reddit-mcp-server/config"
	"reddit-mcp-server/tools"
	"reddit-mcp-server/tools/comments"
	"reddit-mcp-server/tools/posts"
	"reddit-mcp-server/tools/search"
	"reddit-mcp-server/types"
)

// Tool names exposed over MCP
const (
	ToolGetSavedPosts    = "get_saved_posts"
	ToolSearchReddit     = "search_reddit"
	ToolGetComments      = "get_comments"
	ToolReplyToComment   = "reply_to_comment"
	ToolFetchPostContent = "fetch_reddit_post_content"
)

// Response represents unified response format for all MCP tools
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
}

// Meta contains metadata about the response
type Meta struct {
	Total     int    `json:"total"`
	Count     int    `json:"count"`
	Limit     int    `json:"limit,omitempty"`
	Subreddit string `json:"subreddit,omitempty"`
	Query     string `json:"query,omitempty"`
	Sort      string `json:"sort,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Registry handles MCP tool registration
type Registry struct {
	tools    *tools.Handler
	config   *config.Config
	logger   *slog.Logger
	validate *validator.Validate
}

// NewRegistry creates a new MCP tool registry
func NewRegistry(toolsHandler *tools.Handler, cfg *config.Config, logger *slog.Logger) *Registry {
	return &Registry{
		tools:    toolsHandler,
		config:   cfg,
		logger:   logger,
		validate: newValidator(),
	}
}

// newValidator reports field errors by their JSON argument names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterAll registers all Reddit tools with MCP server
func (r *Registry) RegisterAll(server *mcp_golang.Server) error {
	r.logger.Info("Registering all Reddit tools with MCP...")

	if err := r.registerPostTools(server); err != nil {
		return fmt.Errorf("failed to register post tools: %w", err)
	}

	if err := r.registerSearchTools(server); err != nil {
		return fmt.Errorf("failed to register search tools: %w", err)
	}

	if err := r.registerCommentTools(server); err != nil {
		return fmt.Errorf("failed to register comment tools: %w", err)
	}

	r.logger.Info("All Reddit tools registered successfully")
	return nil
}

// registerPostTools registers saved posts and post content tools
func (r *Registry) registerPostTools(server *mcp_golang.Server) error {
	err := server.RegisterTool(ToolGetSavedPosts,
		"Fetch the authenticated user's saved posts, optionally filtered by subreddit",
		func(ctx context.Context, args posts.SavedPostsArgs) (*mcp_golang.ToolResponse, error) {
			return r.handleGetSavedPostsTool(ctx, args)
		})
	if err != nil {
		return err
	}

	err = server.RegisterTool(ToolFetchPostContent,
		"Fetch a Reddit post with its comment tree, bounded by a top-level comment limit and a nesting depth",
		func(ctx context.Context, args posts.PostContentArgs) (*mcp_golang.ToolResponse, error) {
			return r.handleFetchPostContentTool(ctx, args)
		})
	if err != nil {
		return err
	}

	r.logger.Debug("Post tools registered")
	return nil
}

// registerSearchTools registers search-related tools
func (r *Registry) registerSearchTools(server *mcp_golang.Server) error {
	err := server.RegisterTool(ToolSearchReddit,
		"Search Reddit posts, optionally within a single subreddit",
		func(ctx context.Context, args search.Args) (*mcp_golang.ToolResponse, error) {
			return r.handleSearchRedditTool(ctx, args)
		})
	if err != nil {
		return err
	}

	r.logger.Debug("Search tools registered")
	return nil
}

// registerCommentTools registers comment read and reply tools
func (r *Registry) registerCommentTools(server *mcp_golang.Server) error {
	err := server.RegisterTool(ToolGetComments,
		"Fetch top-level comments of a Reddit submission",
		func(ctx context.Context, args comments.GetCommentsArgs) (*mcp_golang.ToolResponse, error) {
			return r.handleGetCommentsTool(ctx, args)
		})
	if err != nil {
		return err
	}

	err = server.RegisterTool(ToolReplyToComment,
		"Post a reply to a Reddit comment as the authenticated user",
		func(ctx context.Context, args comments.ReplyArgs) (*mcp_golang.ToolResponse, error) {
			return r.handleReplyToCommentTool(ctx, args)
		})
	if err != nil {
		return err
	}

	r.logger.Debug("Comment tools registered")
	return nil
}

// handleGetSavedPostsTool processes saved posts requests
func (r *Registry) handleGetSavedPostsTool(ctx context.Context, args posts.SavedPostsArgs) (*mcp_golang.ToolResponse, error) {
	if err := r.validateArgs(args); err != nil {
		return r.errorResponse("Invalid get_saved_posts arguments", err)
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	saved, err := r.tools.Posts.GetSavedPosts(ctx, args)
	if err != nil {
		return r.errorResponse("Failed to get saved posts", err)
	}

	limit := args.Limit
	if limit <= 0 {
		limit = posts.DefaultSavedLimit
	}

	response := &Response{
		Success: true,
		Data:    saved,
		Meta: &Meta{
			Total:     len(saved),
			Count:     len(saved),
			Limit:     limit,
			Subreddit: args.Subreddit,
			Operation: ToolGetSavedPosts,
		},
	}

	return r.successResponse(response)
}

// handleSearchRedditTool processes search requests
func (r *Registry) handleSearchRedditTool(ctx context.Context, args search.Args) (*mcp_golang.ToolResponse, error) {
	args.Sort = strings.ToLower(strings.TrimSpace(args.Sort))
	args.TimeFilter = strings.ToLower(strings.TrimSpace(args.TimeFilter))
	if err := r.validateArgs(args); err != nil {
		return r.errorResponse("Invalid search_reddit arguments", err)
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	results, err := r.tools.Search.Execute(ctx, args)
	if err != nil {
		return r.errorResponse("Failed to search Reddit", err)
	}

	sort := args.Sort
	if sort == "" {
		sort = search.DefaultSort
	}
	limit := args.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	response := &Response{
		Success: true,
		Data:    results,
		Meta: &Meta{
			Total:     len(results),
			Count:     len(results),
			Limit:     limit,
			Subreddit: args.Subreddit,
			Query:     args.Query,
			Sort:      sort,
			Operation: ToolSearchReddit,
		},
	}

	return r.successResponse(response)
}

// handleGetCommentsTool processes comment listing requests
func (r *Registry) handleGetCommentsTool(ctx context.Context, args comments.GetCommentsArgs) (*mcp_golang.ToolResponse, error) {
	if err := r.validateArgs(args); err != nil {
		return r.errorResponse("Invalid get_comments arguments", err)
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	list, err := r.tools.Comments.GetComments(ctx, args)
	if err != nil {
		return r.errorResponse("Failed to get comments", err)
	}

	limit := args.Limit
	if limit <= 0 {
		limit = comments.DefaultLimit
	}

	response := &Response{
		Success: true,
		Data:    list,
		Meta: &Meta{
			Total:     len(list),
			Count:     len(list),
			Limit:     limit,
			PostID:    args.SubmissionID,
			Operation: ToolGetComments,
		},
	}

	return r.successResponse(response)
}

// handleReplyToCommentTool processes reply requests
func (r *Registry) handleReplyToCommentTool(ctx context.Context, args comments.ReplyArgs) (*mcp_golang.ToolResponse, error) {
	if err := r.validateArgs(args); err != nil {
		return r.errorResponse("Invalid reply_to_comment arguments", err)
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	reply, err := r.tools.Comments.ReplyToComment(ctx, args)
	if err != nil {
		return r.errorResponse("Failed to reply to comment", err)
	}

	response := &Response{
		Success: true,
		Data:    reply,
		Meta: &Meta{
			Total:     1,
			Count:     1,
			Operation: ToolReplyToComment,
		},
	}

	return r.successResponse(response)
}

// handleFetchPostContentTool processes post content requests
func (r *Registry) handleFetchPostContentTool(ctx context.Context, args posts.PostContentArgs) (*mcp_golang.ToolResponse, error) {
	if err := r.validateArgs(args); err != nil {
		return r.errorResponse("Invalid fetch_reddit_post_content arguments", err)
	}

	ctx, cancel := r.callContext(ctx)
	defer cancel()

	content, err := r.tools.Posts.FetchPostContent(ctx, args)
	if err != nil {
		return r.errorResponse("Failed to fetch post content", err)
	}

	limit := args.CommentLimit
	if limit <= 0 {
		limit = posts.DefaultCommentLimit
	}

	response := &Response{
		Success: true,
		Data:    content,
		Meta: &Meta{
			Total:     content.NumComments,
			Count:     len(content.Comments),
			Limit:     limit,
			Subreddit: content.Subreddit,
			PostID:    content.ID,
			Operation: ToolFetchPostContent,
		},
	}

	return r.successResponse(response)
}

// Helper methods

// callContext bounds one tool call by the worst case of the client's retry
// loop: every attempt timing out plus the delays between attempts
func (r *Registry) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config == nil || r.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	retries := max(r.config.MaxRetries, 0)
	budget := time.Duration(retries+1)*r.config.RequestTimeout + time.Duration(retries)*r.config.RetryDelay
	return context.WithTimeout(ctx, budget)
}

// validateArgs checks struct tags and marks failures as invalid arguments
func (r *Registry) validateArgs(args interface{}) error {
	err := r.validate.Struct(args)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Mark(err, types.ErrInvalidArgument)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}

	return errors.Mark(errors.New(strings.Join(msgs, "; ")), types.ErrInvalidArgument)
}

func (r *Registry) successResponse(response *Response) (*mcp_golang.ToolResponse, error) {
	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return r.errorResponse("Failed to serialize response", err)
	}

	return mcp_golang.NewToolResponse(
		mcp_golang.NewTextContent(string(jsonData)),
	), nil
}

func (r *Registry) errorResponse(message string, err error) (*mcp_golang.ToolResponse, error) {
	response := &Response{
		Success: false,
		Error:   message,
	}
	if err != nil {
		response.Error = fmt.Sprintf("%s: %v", message, err)
		response.ErrorType = types.KindOf(err)
	}

	if r.logger != nil {
		r.logger.Warn("Tool call failed", "error", response.Error, "error_type", response.ErrorType)
	}

	jsonData, _ := json.MarshalIndent(response, "", "  ")
	return mcp_golang.NewToolResponse(
		mcp_golang.NewTextContent(string(jsonData)),
	), nil
}
