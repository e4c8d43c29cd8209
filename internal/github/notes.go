// Package github fetches release notes for a container's release URL. It is
// a best-effort enrichment: every failure path degrades to "no notes".
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	notesTimeout = 10 * time.Second
	acceptHeader = "application/vnd.github.v3+json"

	webHost = "https://github.com/"
	apiHost = "https://api.github.com/repos/"
)

// Client fetches release bodies from the GitHub API.
type Client struct {
	httpClient *http.Client
	token      string
	logger     *slog.Logger
}

// NewClient builds a notes client. token is optional; when set it is sent as
// an Authorization header so lookups share the account's rate limit instead
// of the anonymous one.
func NewClient(httpClient *http.Client, token string, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: httpClient, token: token, logger: logger}
}

// apiURL rewrites a github.com release URL into its API equivalent. ok is
// false when the URL is not a GitHub release URL this client understands.
func apiURL(releaseURL string) (string, bool) {
	if releaseURL == "" || !strings.Contains(releaseURL, "github.com") {
		return "", false
	}

	switch {
	case strings.Contains(releaseURL, "/releases/tag/") || strings.Contains(releaseURL, "/tags/"):
		api := strings.Replace(releaseURL, webHost, apiHost, 1)
		// The API names the segment "tags" where the web UI uses "tag".
		api = strings.Replace(api, "/releases/tag/", "/releases/tags/", 1)
		return api, true
	case strings.Contains(releaseURL, "/releases/latest"):
		return strings.Replace(releaseURL, webHost, apiHost, 1), true
	default:
		return "", false
	}
}

// ReleaseNotes resolves releaseURL to a GitHub API lookup and returns the
// release body. It returns ("", nil) whenever notes are simply not
// available: non-GitHub URL, unsupported URL shape, rate limit, missing
// body, timeout or transport failure. Only an unexpected HTTP status
// surfaces as an error.
func (c *Client) ReleaseNotes(ctx context.Context, releaseURL string) (string, error) {
	if releaseURL == "" || !strings.Contains(releaseURL, "github.com") {
		c.logger.Debug("no GitHub URL found or not applicable", "url", releaseURL)
		return "", nil
	}

	api, ok := apiURL(releaseURL)
	if !ok {
		c.logger.Error("unsupported GitHub URL format", "url", releaseURL)
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, notesTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build release notes request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Best effort: timeouts and transport errors are swallowed.
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.logger.Error("timeout fetching release notes from GitHub")
		} else {
			c.logger.Error("error fetching release notes from GitHub API", "error", err)
		}
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		c.logger.Warn("GitHub API rate limit exceeded", "url", api)
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("release notes lookup: unexpected status %d from %s", resp.StatusCode, api)
	}

	var payload struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode release notes payload: %w", err)
	}

	return payload.Body, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
