package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single deploy call when the caller sets no deadline.
const DefaultTimeout = 120 * time.Second

// HTTPGateway posts deploy payloads to a signing sidecar.
type HTTPGateway struct {
	endpoint string
	token    string
	split    RewardSplit
	client   *http.Client
}

// GatewayOption configures HTTPGateway.
type GatewayOption func(*HTTPGateway)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *HTTPGateway) {
		g.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

// WithBearerToken authenticates requests to the sidecar.
func WithBearerToken(token string) GatewayOption {
	return func(g *HTTPGateway) {
		g.token = token
	}
}

// NewHTTPGateway creates a gateway that posts to endpoint.
func NewHTTPGateway(endpoint string, split RewardSplit, opts ...GatewayOption) *HTTPGateway {
	g := &HTTPGateway{
		endpoint: endpoint,
		split:    split,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ Gateway = (*HTTPGateway)(nil)

type socialURL struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type deployMetadata struct {
	Description     string      `json:"description"`
	SocialMediaURLs []socialURL `json:"socialMediaUrls"`
	AuditURLs       []string    `json:"auditUrls"`
}

type deployContext struct {
	Interface string `json:"interface"`
	Platform  string `json:"platform"`
	MessageID string `json:"messageId"`
	ID        string `json:"id"`
}

type deployRewards struct {
	Recipients []RewardRecipient `json:"recipients"`
}

type deployPayload struct {
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	TokenAdmin string         `json:"tokenAdmin"`
	Image      string         `json:"image"`
	Metadata   deployMetadata `json:"metadata"`
	Context    deployContext  `json:"context"`
	Rewards    deployRewards  `json:"rewards"`
}

type deployResponse struct {
	Success      bool            `json:"success"`
	TxHash       string          `json:"txHash"`
	TokenAddress string          `json:"tokenAddress"`
	Error        json.RawMessage `json:"error,omitempty"`
}

// buildPayload assembles the sidecar request body for req.
func (g *HTTPGateway) buildPayload(req Request) deployPayload {
	socials := []socialURL{}
	if req.Website != "" {
		socials = append(socials, socialURL{Platform: "website", URL: req.Website})
	}
	if req.Twitter != "" {
		socials = append(socials, socialURL{Platform: "twitter", URL: TwitterURL(req.Twitter)})
	}

	return deployPayload{
		Name:       req.Name,
		Symbol:     req.Symbol,
		TokenAdmin: g.split.PlatformWallet,
		Image:      req.Image,
		Metadata: deployMetadata{
			Description:     req.Description,
			SocialMediaURLs: socials,
			AuditURLs:       []string{},
		},
		Context: deployContext{
			Interface: Interface,
			Platform:  req.Source,
			MessageID: req.CorrelationID,
			ID:        req.OwnerWallet,
		},
		Rewards: deployRewards{Recipients: g.split.Recipients(req.OwnerWallet)},
	}
}

// Deploy sends one deploy request. Transport failures are returned as errors;
// sidecar rejections come back as an unsuccessful Result.
func (g *HTTPGateway) Deploy(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(g.buildPayload(req))
	if err != nil {
		return nil, fmt.Errorf("marshal deploy payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("deploy request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deploy response: %w", err)
	}

	var decoded deployResponse
	decodeErr := json.Unmarshal(respBody, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		if decodeErr == nil && len(decoded.Error) > 0 {
			msg += ": " + errorText(decoded.Error)
		}
		return &Result{Success: false, Error: msg}, nil
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unmarshal deploy response: %w", decodeErr)
	}

	return &Result{
		Success:      decoded.Success,
		TxHash:       decoded.TxHash,
		TokenAddress: decoded.TokenAddress,
		Error:        errorText(decoded.Error),
	}, nil
}

// errorText flattens a JSON error that may be a string or an object.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
