package wud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	fetchTimeout = 5 * time.Second
	probeTimeout = 10 * time.Second
)

// Client talks to one WUD instance. All fields are immutable after
// construction; the client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	url        string
	username   string
	password   string
	logger     *slog.Logger
}

// NewClient builds a client for the given containers endpoint with Basic
// auth credentials. httpClient may be nil, in which case the default client
// is used; per-call timeouts come from contexts either way.
func NewClient(url, username, password string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		url:        url,
		username:   username,
		password:   password,
		logger:     logger,
	}
}

// URL returns the containers endpoint the client was built for. Follow-up
// requests (install triggers) derive their endpoints from it.
func (c *Client) URL() string { return c.url }

// Containers fetches the full list of monitored containers. The call is
// bounded to 5 seconds on top of whatever deadline ctx already carries.
func (c *Client) Containers(ctx context.Context) ([]Container, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build containers request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: c.url}
	}

	var containers []Container
	if err := json.NewDecoder(resp.Body).Decode(&containers); err != nil {
		return nil, fmt.Errorf("decode containers payload: %w", err)
	}

	return containers, nil
}

// TriggerUpdate asks WUD to run the named trigger for a container. WUD
// answers 200 when the trigger was accepted; anything else is an error.
func (c *Client) TriggerUpdate(ctx context.Context, containerID, triggerPath string) error {
	endpoint := fmt.Sprintf("%s/%s/triggers/%s", c.url, containerID, triggerPath)

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c.logger.Debug("sending update request to WUD trigger endpoint", "endpoint", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("build trigger request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("WUD rejected trigger", "endpoint", endpoint, "status", resp.StatusCode, "body", string(body))
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	return nil
}

// Probe checks connectivity at configuration time: a single GET against the
// containers endpoint with a 10 second bound. Any non-200 response or
// transport failure rejects the configuration.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: c.url}
	}

	return nil
}
