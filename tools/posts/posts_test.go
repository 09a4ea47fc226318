package posts

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"reddit-mcp-server/client"
	"reddit-mcp-server/types"
)

type PostsTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	client  *client.MockRedditClient
	handler *Handler
}

func (s *PostsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = client.NewMockRedditClient(s.ctrl)
	s.handler = NewHandler(s.client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func link(id, subreddit string) *client.Link {
	return &client.Link{
		ID:          id,
		Title:       "Title " + id,
		URL:         "https://example.com/" + id,
		Permalink:   "/r/" + subreddit + "/comments/" + id + "/title/",
		Author:      "author_" + id,
		Subreddit:   subreddit,
		Score:       42,
		NumComments: 7,
		CreatedUTC:  1700000000,
	}
}

func (s *PostsTestSuite) TestGetSavedPosts_DefaultLimit() {
	ctx := context.Background()
	s.client.EXPECT().Me(ctx).Return(&client.Account{Name: "spez"}, nil)
	s.client.EXPECT().Saved(ctx, "spez", DefaultSavedLimit).Return([]client.Thing{
		{Kind: client.KindLink, Link: link("p1", "golang")},
		{Kind: client.KindComment, Comment: &client.Comment{ID: "c1"}},
		{Kind: client.KindLink, Link: link("p2", "rust")},
	}, nil)

	result, err := s.handler.GetSavedPosts(ctx, SavedPostsArgs{})
	s.Require().NoError(err)
	s.Require().Len(result, 2)

	s.Equal(Post{
		ID:          "p1",
		Title:       "Title p1",
		URL:         "https://example.com/p1",
		Permalink:   "https://www.reddit.com/r/golang/comments/p1/title/",
		Author:      "author_p1",
		Subreddit:   "golang",
		Score:       42,
		NumComments: 7,
		CreatedUTC:  1700000000,
	}, result[0])
	s.Equal("p2", result[1].ID)
}

func (s *PostsTestSuite) TestGetSavedPosts_SubredditFilterIgnoresCase() {
	ctx := context.Background()
	s.client.EXPECT().Me(ctx).Return(&client.Account{Name: "spez"}, nil)
	s.client.EXPECT().Saved(ctx, "spez", 50).Return([]client.Thing{
		{Kind: client.KindLink, Link: link("p1", "ReactJS")},
		{Kind: client.KindLink, Link: link("p2", "golang")},
		{Kind: client.KindLink, Link: link("p3", "reactjs")},
	}, nil)

	result, err := s.handler.GetSavedPosts(ctx, SavedPostsArgs{Limit: 50, Subreddit: "r/reactjs"})
	s.Require().NoError(err)
	s.Require().Len(result, 2)
	s.Equal("p1", result[0].ID)
	s.Equal("p3", result[1].ID)
}

func (s *PostsTestSuite) TestGetSavedPosts_DeletedAuthor() {
	ctx := context.Background()
	deleted := link("p1", "golang")
	deleted.Author = ""

	s.client.EXPECT().Me(ctx).Return(&client.Account{Name: "spez"}, nil)
	s.client.EXPECT().Saved(ctx, "spez", 10).Return([]client.Thing{{Kind: client.KindLink, Link: deleted}}, nil)

	result, err := s.handler.GetSavedPosts(ctx, SavedPostsArgs{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(result, 1)
	s.Equal(client.DeletedAuthor, result[0].Author)
}

func (s *PostsTestSuite) TestGetSavedPosts_EmptyIsNotNil() {
	ctx := context.Background()
	s.client.EXPECT().Me(ctx).Return(&client.Account{Name: "spez"}, nil)
	s.client.EXPECT().Saved(ctx, "spez", DefaultSavedLimit).Return(nil, nil)

	result, err := s.handler.GetSavedPosts(ctx, SavedPostsArgs{})
	s.Require().NoError(err)
	s.NotNil(result)
	s.Empty(result)
}

func (s *PostsTestSuite) TestGetSavedPosts_AuthError() {
	ctx := context.Background()
	authErr := errors.Mark(&types.HTTPError{StatusCode: 401, Message: "Unauthorized"}, types.ErrAuth)
	s.client.EXPECT().Me(ctx).Return(nil, authErr)

	_, err := s.handler.GetSavedPosts(ctx, SavedPostsArgs{})
	s.Require().Error(err)
	s.True(errors.Is(err, types.ErrAuth))
	s.Contains(err.Error(), "failed to resolve authenticated user")
}

func (s *PostsTestSuite) TestGetSavedPosts_RemoteError() {
	ctx := context.Background()
	s.client.EXPECT().Me(ctx).Return(&client.Account{Name: "spez"}, nil)
	s.client.EXPECT().Saved(ctx, "spez", DefaultSavedLimit).Return(nil, errors.Wrap(types.ErrRemote, "connection reset"))

	_, err := s.handler.GetSavedPosts(ctx, SavedPostsArgs{})
	s.Require().Error(err)
	s.Equal("remote", types.KindOf(err))
}

func (s *PostsTestSuite) TestFetchPostContent_Defaults() {
	ctx := context.Background()
	post := link("abc", "golang")
	post.Selftext = "self text body"

	s.client.EXPECT().
		Comments(ctx, "abc", client.CommentsOptions{Depth: DefaultCommentDepth, Sort: "top"}).
		Return(post, []*client.Comment{
			{ID: "c1", Body: "top", Author: "a", Replies: client.Replies{
				{ID: "c1a", Body: "reply", Author: "b", Replies: client.Replies{
					{ID: "c1a1", Body: "deep", Author: "c", Replies: client.Replies{
						{ID: "c1a1a", Body: "too deep"},
					}},
				}},
			}},
		}, nil)

	content, err := s.handler.FetchPostContent(ctx, PostContentArgs{PostID: "abc"})
	s.Require().NoError(err)

	s.Equal("abc", content.ID)
	s.Equal("self text body", content.Body)
	s.Require().Len(content.Comments, 1)

	top := content.Comments[0]
	s.Equal(0, top.Depth)
	s.Require().Len(top.Replies, 1)
	s.Equal(1, top.Replies[0].Depth)
	s.Require().Len(top.Replies[0].Replies, 1)

	deepest := top.Replies[0].Replies[0]
	s.Equal("c1a1", deepest.ID)
	s.Equal(2, deepest.Depth)
	s.Empty(deepest.Replies, "depth 3 must stop at nesting level 2")
}

func (s *PostsTestSuite) TestFetchPostContent_CommentLimit() {
	ctx := context.Background()
	forest := make([]*client.Comment, 0, 5)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		forest = append(forest, &client.Comment{ID: id, Author: "x"})
	}

	s.client.EXPECT().
		Comments(ctx, "abc", client.CommentsOptions{Depth: 1, Sort: "top"}).
		Return(link("abc", "golang"), forest, nil)

	content, err := s.handler.FetchPostContent(ctx, PostContentArgs{PostID: " abc ", CommentLimit: 2, CommentDepth: 1})
	s.Require().NoError(err)
	s.Require().Len(content.Comments, 2)
	s.Equal("a", content.Comments[0].ID)
	s.Equal("b", content.Comments[1].ID)
}

func (s *PostsTestSuite) TestFetchPostContent_NoComments() {
	ctx := context.Background()
	s.client.EXPECT().Comments(ctx, "abc", gomock.Any()).Return(link("abc", "golang"), nil, nil)

	content, err := s.handler.FetchPostContent(ctx, PostContentArgs{PostID: "abc"})
	s.Require().NoError(err)
	s.NotNil(content.Comments)
	s.Empty(content.Comments)
}

func (s *PostsTestSuite) TestFetchPostContent_NotFound() {
	ctx := context.Background()
	notFound := errors.Mark(&types.HTTPError{StatusCode: 404}, types.ErrNotFound)
	s.client.EXPECT().Comments(ctx, "missing", gomock.Any()).Return(nil, nil, notFound)

	_, err := s.handler.FetchPostContent(ctx, PostContentArgs{PostID: "missing"})
	s.Require().Error(err)
	s.True(errors.Is(err, types.ErrNotFound))
}

func (s *PostsTestSuite) TestFetchPostContent_MissingID() {
	_, err := s.handler.FetchPostContent(context.Background(), PostContentArgs{PostID: "  "})
	s.Require().Error(err)
	s.True(errors.Is(err, types.ErrInvalidArgument))
}

func TestPostsSuite(t *testing.T) {
	suite.Run(t, new(PostsTestSuite))
}
