package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"molenker/internal/domain"
)

// DefaultMoltbookBaseURL is the public Moltbook site.
const DefaultMoltbookBaseURL = "https://www.moltbook.com"

const unknownAuthor = "Unknown"

// MoltbookClient fetches individual Moltbook posts using the agent's API key.
type MoltbookClient struct {
	baseClient
}

// NewMoltbookClient creates a Moltbook client.
func NewMoltbookClient(baseURL string, opts ...ClientOption) *MoltbookClient {
	if baseURL == "" {
		baseURL = DefaultMoltbookBaseURL
	}
	return &MoltbookClient{baseClient: newBaseClient(strings.TrimRight(baseURL, "/"), opts)}
}

var _ PostFetcher = (*MoltbookClient)(nil)

type moltbookPost struct {
	Content string          `json:"content"`
	Author  json.RawMessage `json:"author"`
}

type moltbookResponse struct {
	Post    *moltbookPost   `json:"post"`
	Content string          `json:"content"`
	Author  json.RawMessage `json:"author"`
}

// FetchPost retrieves one post. Content and author may sit at the top level or
// under "post"; the nested form wins.
func (c *MoltbookClient) FetchPost(ctx context.Context, postID, credential string) (*domain.Post, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)

	body, err := c.get(ctx, domain.SourceMoltbook, c.baseURL+"/api/v1/posts/"+url.PathEscape(postID), header)
	if err != nil {
		return nil, err
	}

	var decoded moltbookResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal moltbook post: %w", err)
	}

	content := decoded.Content
	author := authorName(decoded.Author)
	if decoded.Post != nil {
		if decoded.Post.Content != "" {
			content = decoded.Post.Content
		}
		if name := authorName(decoded.Post.Author); name != "" {
			author = name
		}
	}
	if author == "" {
		author = unknownAuthor
	}

	return &domain.Post{
		ID:        postID,
		Content:   content,
		AgentName: author,
		URL:       MoltbookPostURL(postID),
		Source:    domain.SourceMoltbook,
	}, nil
}

// authorName accepts either a bare string or an object with a name field.
func authorName(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name != "" {
			return obj.Name
		}
		return obj.DisplayName
	}
	return ""
}

// MoltbookPostURL is the public page for a Moltbook post.
func MoltbookPostURL(id string) string {
	return "https://www.moltbook.com/post/" + id
}
