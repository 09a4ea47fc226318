package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeReddit is an httptest server speaking enough of the Reddit OAuth API
// for client and registry tests. API handlers are registered per test; every
// API request must carry the bearer token issued by the token endpoint.
type FakeReddit struct {
	*httptest.Server

	mux         *http.ServeMux
	tokenCalls  atomic.Int32
	mu          sync.Mutex
	userAgents  []string
	rejectGrant atomic.Bool
	tokenStatus atomic.Int32
}

// NewFakeReddit starts a fake Reddit server that is closed with the test
func NewFakeReddit(t *testing.T) *FakeReddit {
	t.Helper()

	f := &FakeReddit{mux: http.NewServeMux()}
	f.mux.HandleFunc("POST /api/v1/access_token", f.handleToken)
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)

	return f
}

// Handle registers an API handler behind the bearer token check
func (f *FakeReddit) Handle(pattern string, handler http.HandlerFunc) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+TestAccessToken {
			WriteJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized", "error": 401})
			return
		}
		handler(w, r)
	})
}

// RejectGrant makes the token endpoint refuse the password grant
func (f *FakeReddit) RejectGrant() {
	f.rejectGrant.Store(true)
}

// FailToken makes the token endpoint answer every request with status
func (f *FakeReddit) FailToken(status int) {
	f.tokenStatus.Store(int32(status))
}

// TokenCalls returns how many token requests were received
func (f *FakeReddit) TokenCalls() int {
	return int(f.tokenCalls.Load())
}

// UserAgents returns the User-Agent of every request received so far
func (f *FakeReddit) UserAgents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.userAgents...)
}

func (f *FakeReddit) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.userAgents = append(f.userAgents, r.Header.Get("User-Agent"))
	f.mu.Unlock()

	f.mux.ServeHTTP(w, r)
}

func (f *FakeReddit) handleToken(w http.ResponseWriter, r *http.Request) {
	f.tokenCalls.Add(1)

	if status := int(f.tokenStatus.Load()); status != 0 {
		WriteJSON(w, status, map[string]any{"message": http.StatusText(status), "error": status})
		return
	}

	id, secret, ok := r.BasicAuth()
	if !ok || id != TestClientID || secret != TestClientSecret {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized", "error": 401})
		return
	}

	if err := r.ParseForm(); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}

	if f.rejectGrant.Load() ||
		r.PostForm.Get("grant_type") != "password" ||
		r.PostForm.Get("username") != TestUsername ||
		r.PostForm.Get("password") != TestPassword {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": TestAccessToken,
		"token_type":   "bearer",
		"expires_in":   86400,
		"scope":        "*",
	})
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Listing wraps things in a Reddit listing envelope
func Listing(children ...map[string]any) map[string]any {
	if children == nil {
		children = []map[string]any{}
	}
	return map[string]any{
		"kind": "Listing",
		"data": map[string]any{
			"after":    nil,
			"before":   nil,
			"children": children,
		},
	}
}

// LinkThing returns a t3 thing with sensible defaults overridden by fields
func LinkThing(id string, fields map[string]any) map[string]any {
	data := map[string]any{
		"id":           id,
		"name":         "t3_" + id,
		"title":        "Post " + id,
		"url":          "https://example.com/" + id,
		"permalink":    "/r/golang/comments/" + id + "/post_" + id + "/",
		"author":       "author_" + id,
		"subreddit":    "golang",
		"selftext":     "",
		"score":        10,
		"ups":          10,
		"num_comments": 0,
		"created_utc":  1700000000.0,
		"is_self":      false,
		"over_18":      false,
	}
	for k, v := range fields {
		data[k] = v
	}
	return map[string]any{"kind": "t3", "data": data}
}

// CommentThing returns a t1 thing; replies become a nested listing, or the
// empty string Reddit sends when there are none
func CommentThing(id string, depth int, fields map[string]any, replies ...map[string]any) map[string]any {
	data := map[string]any{
		"id":          id,
		"name":        "t1_" + id,
		"parent_id":   "t3_post",
		"link_id":     "t3_post",
		"author":      "commenter_" + id,
		"body":        "Comment " + id,
		"permalink":   "/r/golang/comments/post/_/" + id + "/",
		"subreddit":   "golang",
		"score":       1,
		"depth":       depth,
		"created_utc": 1700000100.0,
		"replies":     "",
	}
	if len(replies) > 0 {
		data["replies"] = Listing(replies...)
	}
	for k, v := range fields {
		data[k] = v
	}
	return map[string]any{"kind": "t1", "data": data}
}

// MoreThing returns a "load more comments" stub
func MoreThing(id string, children ...string) map[string]any {
	return map[string]any{
		"kind": "more",
		"data": map[string]any{
			"id":       id,
			"name":     "t1_" + id,
			"count":    len(children),
			"children": children,
		},
	}
}
