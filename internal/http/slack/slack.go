package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://slack.com"

// Client reads and writes the authenticated user's profile status.
type Client struct {
	BaseURL string
	Timeout time.Duration

	mu         sync.RWMutex
	httpClient *http.Client
	hasToken   bool
}

// NewClient creates a Slack client authenticating with a static bearer token.
func NewClient(token string) *Client {
	c := &Client{BaseURL: defaultBaseURL, Timeout: 15 * time.Second}
	c.SetToken(token)
	return c
}

// SetToken replaces the bearer token used by subsequent requests.
func (c *Client) SetToken(token string) {
	if token == "" {
		log.Println("Warning: Slack API token is empty.")
	}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = c.Timeout

	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient = httpClient
	c.hasToken = token != ""
}

func (c *Client) client() (*http.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpClient, c.hasToken
}

// ProfileWrapper is the envelope used by users.profile.get and users.profile.set.
type ProfileWrapper struct {
	OK      bool                `json:"ok,omitempty"`
	Error   string              `json:"error,omitempty"`
	Profile *model.RemoteStatus `json:"profile,omitempty"`
}

// GetStatus fetches the current profile status.
// Endpoint: GET /api/users.profile.get
func (c *Client) GetStatus(ctx context.Context) (model.RemoteStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("users.profile.get"), nil)
	if err != nil {
		return model.RemoteStatus{}, errors.Wrap(err, "create profile get request")
	}

	var wrapper ProfileWrapper
	if err := c.do(req, &wrapper); err != nil {
		return model.RemoteStatus{}, errors.Wrap(err, "execute profile get request")
	}
	if wrapper.Profile == nil {
		return model.RemoteStatus{}, errors.New("profile missing from response")
	}
	return *wrapper.Profile, nil
}

// SetStatus overwrites the profile status.
// Endpoint: POST /api/users.profile.set
func (c *Client) SetStatus(ctx context.Context, status model.RemoteStatus) error {
	body, err := json.Marshal(ProfileWrapper{Profile: &status})
	if err != nil {
		return errors.Wrap(err, "marshal profile")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("users.profile.set"), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create profile set request")
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var wrapper ProfileWrapper
	if err := c.do(req, &wrapper); err != nil {
		return errors.Wrap(err, "execute profile set request")
	}
	return nil
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/api/%s", strings.TrimRight(c.BaseURL, "/"), method)
}

// do executes the request and decodes the Slack envelope, turning ok=false into an error.
func (c *Client) do(req *http.Request, wrapper *ProfileWrapper) error {
	httpClient, hasToken := c.client()
	if !hasToken {
		return errors.New("slack API token is not set")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(wrapper); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if !wrapper.OK {
		return fmt.Errorf("slack API error: %s", wrapper.Error)
	}
	return nil
}
