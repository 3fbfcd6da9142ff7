package droplet

import (
	"bytes"
	"context"
	"dropletbot/internal/domain"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.digitalocean.com"

// Result is what the initiator is told about a single remote call.
type Result struct {
	OK         bool
	StatusCode int
	Message    string
}

func (r Result) String() string {
	return r.Message
}

type actionRequest struct {
	Type string `json:"type"`
	Size string `json:"size,omitempty"`
}

// Client issues actions against one droplet. Calls are never retried.
type Client struct {
	baseURL    string
	token      string
	dropletID  string
	sizes      map[domain.Tier]string
	httpClient *http.Client
}

// Options configures a Client. Sizes maps each tier to a DigitalOcean size slug.
type Options struct {
	BaseURL   string
	Token     string
	DropletID string
	Sizes     map[domain.Tier]string
	Timeout   time.Duration
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	sizes := make(map[domain.Tier]string, len(opts.Sizes))
	for tier, slug := range opts.Sizes {
		sizes[tier] = slug
	}
	return &Client{
		baseURL:    baseURL,
		token:      opts.Token,
		dropletID:  opts.DropletID,
		sizes:      sizes,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

// Execute is the single dispatch point for confirmed actions.
func (c *Client) Execute(ctx context.Context, action domain.Action) Result {
	if action.Kind == domain.ActionResize {
		return c.Resize(ctx, action.Tier)
	}
	return c.PerformAction(ctx, action.Kind)
}

func (c *Client) PerformAction(ctx context.Context, kind domain.ActionKind) Result {
	switch kind {
	case domain.ActionPowerOn, domain.ActionPowerOff, domain.ActionReboot:
	default:
		return Result{Message: fmt.Sprintf("Failed to perform action: unsupported action %q", kind)}
	}

	status, body, err := c.post(ctx, actionRequest{Type: string(kind)})
	if err != nil {
		return Result{Message: fmt.Sprintf("Failed to perform action: %v", err)}
	}
	if status != http.StatusCreated {
		return Result{StatusCode: status, Message: fmt.Sprintf("Failed to perform action: %s", body)}
	}
	return Result{OK: true, StatusCode: status, Message: "Action initiated successfully."}
}

func (c *Client) Resize(ctx context.Context, tier domain.Tier) Result {
	size, ok := c.sizes[tier]
	if !ok || size == "" {
		return Result{Message: fmt.Sprintf("Failed to resize droplet: no size configured for tier %q", tier)}
	}

	status, body, err := c.post(ctx, actionRequest{Type: string(domain.ActionResize), Size: size})
	if err != nil {
		return Result{Message: fmt.Sprintf("Failed to resize droplet: %v", err)}
	}
	if status != http.StatusCreated {
		return Result{StatusCode: status, Message: fmt.Sprintf("Failed to resize droplet: %s", body)}
	}
	return Result{OK: true, StatusCode: status, Message: "Droplet resizing initiated successfully."}
}

// post returns the status and raw body; err is only set when no response arrived.
func (c *Client) post(ctx context.Context, payload actionRequest) (int, string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}

	url := fmt.Sprintf("%s/v2/droplets/%s/actions", c.baseURL, c.dropletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("error reading response (%d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, string(bodyBytes), nil
}
