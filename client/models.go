package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Thing kinds returned by the Reddit API
const (
	KindComment = "t1"
	KindAccount = "t2"
	KindLink    = "t3"
	KindMore    = "more"
	KindListing = "Listing"
)

// WebURL is the public site used to build absolute permalinks
const WebURL = "https://www.reddit.com"

// DeletedAuthor is shown for posts and comments whose author is gone
const DeletedAuthor = "[deleted]"

// Account is the authenticated user
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Link is a Reddit submission
type Link struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	IsSelf      bool    `json:"is_self"`
	Over18      bool    `json:"over_18"`
}

// AuthorName returns the author or DeletedAuthor when there is none
func (l *Link) AuthorName() string {
	return authorOrDeleted(l.Author)
}

// PermalinkURL returns the absolute permalink
func (l *Link) PermalinkURL() string {
	return absoluteURL(l.Permalink)
}

// Comment is a Reddit comment with its loaded replies
type Comment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ParentID   string  `json:"parent_id"`
	LinkID     string  `json:"link_id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Permalink  string  `json:"permalink"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
	Depth      int     `json:"depth"`
	CreatedUTC float64 `json:"created_utc"`
	Replies    Replies `json:"replies"`
}

// AuthorName returns the author or DeletedAuthor when there is none
func (c *Comment) AuthorName() string {
	return authorOrDeleted(c.Author)
}

// PermalinkURL returns the absolute permalink
func (c *Comment) PermalinkURL() string {
	return absoluteURL(c.Permalink)
}

// Replies holds the child comments of a comment. Reddit sends an empty
// string instead of a listing when there are none; "more" stubs are dropped.
type Replies []*Comment

func (r *Replies) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '"' || bytes.Equal(b, []byte("null")) {
		*r = nil
		return nil
	}

	var listing Listing
	if err := json.Unmarshal(b, &listing); err != nil {
		return fmt.Errorf("failed to decode replies: %w", err)
	}
	*r = listing.Comments()
	return nil
}

// Thing is one child of a listing. Exactly one payload is set for known
// kinds; other kinds (more, accounts, ...) keep only Kind.
type Thing struct {
	Kind    string
	Link    *Link
	Comment *Comment
}

func (t *Thing) UnmarshalJSON(b []byte) error {
	var raw struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	t.Kind = raw.Kind
	switch raw.Kind {
	case KindLink:
		var link Link
		if err := json.Unmarshal(raw.Data, &link); err != nil {
			return fmt.Errorf("failed to decode link: %w", err)
		}
		t.Link = &link
	case KindComment:
		var comment Comment
		if err := json.Unmarshal(raw.Data, &comment); err != nil {
			return fmt.Errorf("failed to decode comment: %w", err)
		}
		t.Comment = &comment
	}
	return nil
}

// Listing is one page of things
type Listing struct {
	After    string
	Before   string
	Children []Thing
}

func (l *Listing) UnmarshalJSON(b []byte) error {
	var raw struct {
		Kind string `json:"kind"`
		Data struct {
			After    string  `json:"after"`
			Before   string  `json:"before"`
			Children []Thing `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Kind != "" && raw.Kind != KindListing {
		return fmt.Errorf("expected %s, got %q", KindListing, raw.Kind)
	}

	l.After = raw.Data.After
	l.Before = raw.Data.Before
	l.Children = raw.Data.Children
	return nil
}

// Links returns the submissions of the listing in order
func (l *Listing) Links() []*Link {
	links := make([]*Link, 0, len(l.Children))
	for _, child := range l.Children {
		if child.Link != nil {
			links = append(links, child.Link)
		}
	}
	return links
}

// Comments returns the comments of the listing in order
func (l *Listing) Comments() []*Comment {
	comments := make([]*Comment, 0, len(l.Children))
	for _, child := range l.Children {
		if child.Comment != nil {
			comments = append(comments, child.Comment)
		}
	}
	return comments
}

func authorOrDeleted(author string) string {
	if author == "" {
		return DeletedAuthor
	}
	return author
}

func absoluteURL(permalink string) string {
	if permalink == "" {
		return ""
	}
	return WebURL + permalink
}
