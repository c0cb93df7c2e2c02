package social

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molenker/internal/domain"
)

func TestMoltxClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search/posts", r.URL.Path)
		assert.Equal(t, "!molenker", r.URL.Query().Get("q"))
		assert.Equal(t, "new", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"posts":[
			{"id":"p1","content":"!molenker name: A","author":{"name":"crab","display_name":"Crab","avatar_url":"https://x/a.png"}},
			{"id":"p2","content":"hello","author":{}},
			{"id":"","content":"no id"}
		]}}`))
	}))
	defer server.Close()

	client := NewMoltxClient(server.URL, "!molenker")
	posts, err := client.Search(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, domain.Post{
		ID:        "p1",
		Content:   "!molenker name: A",
		AgentName: "crab",
		AvatarURL: "https://x/a.png",
		URL:       "https://moltx.io/post/p1",
		Source:    domain.SourceMoltx,
	}, posts[0])
	assert.Equal(t, "Unknown Agent", posts[1].AgentName)
}

func TestMoltxClient_EmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	posts, err := NewMoltxClient(server.URL, "!molenker").Search(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestMoltxClient_UpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewMoltxClient(server.URL, "!molenker").Search(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestMoltxClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewMoltxClient(url, "!molenker", WithTimeout(time.Second)).Search(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUpstreamStatus))
}

func TestMoltbookClient_FetchPost(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantContent string
		wantAuthor  string
	}{
		{
			name:        "nested post with author object",
			body:        `{"post":{"content":"!molenker nested","author":{"name":"CrabAgent"}}}`,
			wantContent: "!molenker nested",
			wantAuthor:  "CrabAgent",
		},
		{
			name:        "top level with author string",
			body:        `{"content":"!molenker flat","author":"Shrimp"}`,
			wantContent: "!molenker flat",
			wantAuthor:  "Shrimp",
		},
		{
			name:        "missing author",
			body:        `{"post":{"content":"x"}}`,
			wantContent: "x",
			wantAuthor:  "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/posts/abc", r.URL.Path)
				assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			post, err := NewMoltbookClient(server.URL).FetchPost(context.Background(), "abc", "key-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, post.Content)
			assert.Equal(t, tt.wantAuthor, post.AgentName)
			assert.Equal(t, "https://www.moltbook.com/post/abc", post.URL)
			assert.Equal(t, domain.SourceMoltbook, post.Source)
		})
	}
}

func TestMoltbookClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewMoltbookClient(server.URL).FetchPost(context.Background(), "abc", "bad")
	assert.ErrorIs(t, err, ErrUpstreamStatus)
}

func TestLimiter_HonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001)
	require.True(t, limiter.Allow())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewMoltxClient(server.URL, "!molenker", WithLimiter(limiter)).Search(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
