package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"molenker/internal/domain"
)

// DefaultMoltxBaseURL is the public Moltx API.
const DefaultMoltxBaseURL = "https://moltx.io"

const unknownMoltxAgent = "Unknown Agent"

// MoltxClient searches Moltx for trigger posts.
type MoltxClient struct {
	baseClient
	trigger string
}

// NewMoltxClient creates a client searching for trigger.
func NewMoltxClient(baseURL, trigger string, opts ...ClientOption) *MoltxClient {
	if baseURL == "" {
		baseURL = DefaultMoltxBaseURL
	}
	return &MoltxClient{
		baseClient: newBaseClient(strings.TrimRight(baseURL, "/"), opts),
		trigger:    trigger,
	}
}

var _ Searcher = (*MoltxClient)(nil)

type moltxAuthor struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type moltxPost struct {
	ID      string      `json:"id"`
	Content string      `json:"content"`
	Author  moltxAuthor `json:"author"`
}

type moltxSearchResponse struct {
	Data struct {
		Posts []moltxPost `json:"posts"`
	} `json:"data"`
}

// Search returns the newest posts matching the trigger.
func (c *MoltxClient) Search(ctx context.Context) ([]domain.Post, error) {
	q := url.Values{}
	q.Set("q", c.trigger)
	q.Set("sort", "new")

	body, err := c.get(ctx, domain.SourceMoltx, c.baseURL+"/v1/search/posts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var decoded moltxSearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal moltx search: %w", err)
	}

	posts := make([]domain.Post, 0, len(decoded.Data.Posts))
	for _, p := range decoded.Data.Posts {
		if p.ID == "" {
			continue
		}
		agent := p.Author.Name
		if agent == "" {
			agent = unknownMoltxAgent
		}
		posts = append(posts, domain.Post{
			ID:        p.ID,
			Content:   p.Content,
			AgentName: agent,
			AvatarURL: p.Author.AvatarURL,
			URL:       MoltxPostURL(p.ID),
			Source:    domain.SourceMoltx,
		})
	}
	return posts, nil
}

// MoltxPostURL is the public page for a Moltx post.
func MoltxPostURL(id string) string {
	return "https://moltx.io/post/" + id
}
