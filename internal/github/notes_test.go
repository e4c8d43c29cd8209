package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIURL(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "release tag URL",
			in:     "https://github.com/nginx/nginx/releases/tag/release-1.26.1",
			want:   "https://api.github.com/repos/nginx/nginx/releases/tags/release-1.26.1",
			wantOK: true,
		},
		{
			name:   "tags URL",
			in:     "https://github.com/redis/redis/tags/7.2.4",
			want:   "https://api.github.com/repos/redis/redis/tags/7.2.4",
			wantOK: true,
		},
		{
			name:   "latest release URL",
			in:     "https://github.com/traefik/traefik/releases/latest",
			want:   "https://api.github.com/repos/traefik/traefik/releases/latest",
			wantOK: true,
		},
		{name: "plain repo URL unsupported", in: "https://github.com/nginx/nginx", wantOK: false},
		{name: "not github", in: "https://gitlab.com/x/y/releases/tag/v1", wantOK: false},
		{name: "empty", in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := apiURL(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// serveNotes points a release URL at a local test server. The URL carries
// "github.com" in its path so the loose host classification accepts it while
// the https://github.com/ prefix rewrite leaves the local address intact.
func serveNotes(t *testing.T, handler http.HandlerFunc) (*Client, string) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := NewClient(ts.Client(), "", nil)
	return client, ts.URL + "/github.com/owner/repo/releases/tag/v1.0.0"
}

func TestReleaseNotesBody(t *testing.T) {
	var gotAccept, gotPath string
	client, releaseURL := serveNotes(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"body": "## What changed\n- stuff"}`))
	})

	body, err := client.ReleaseNotes(context.Background(), releaseURL)
	require.NoError(t, err)
	assert.Equal(t, "## What changed\n- stuff", body)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Contains(t, gotPath, "/releases/tags/v1.0.0", "API uses 'tags' where the web UI uses 'tag'")
}

func TestReleaseNotesRateLimit(t *testing.T) {
	client, releaseURL := serveNotes(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	// 403 is absent notes, never an error.
	body, err := client.ReleaseNotes(context.Background(), releaseURL)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestReleaseNotesUnexpectedStatus(t *testing.T) {
	client, releaseURL := serveNotes(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.ReleaseNotes(context.Background(), releaseURL)
	assert.Error(t, err)
}

func TestReleaseNotesMissingBody(t *testing.T) {
	client, releaseURL := serveNotes(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "v1.0.0"}`))
	})

	body, err := client.ReleaseNotes(context.Background(), releaseURL)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestReleaseNotesTransportErrorSwallowed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	releaseURL := ts.URL + "/github.com/owner/repo/releases/tag/v1.0.0"
	ts.Close() // nothing listens anymore

	client := NewClient(nil, "", nil)
	body, err := client.ReleaseNotes(context.Background(), releaseURL)
	require.NoError(t, err, "transport failures are best-effort, not errors")
	assert.Empty(t, body)
}

func TestReleaseNotesNotApplicable(t *testing.T) {
	client := NewClient(nil, "", nil)

	for _, url := range []string{"", "https://example.com/changelog", "https://github.com/owner/repo"} {
		body, err := client.ReleaseNotes(context.Background(), url)
		require.NoError(t, err)
		assert.Empty(t, body)
	}
}

func TestReleaseNotesSendsToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"body": "notes"}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.Client(), "ghp_secret", nil)
	releaseURL := ts.URL + "/github.com/owner/repo/releases/tag/v1.0.0"

	_, err := client.ReleaseNotes(context.Background(), releaseURL)
	require.NoError(t, err)
	assert.Equal(t, "token ghp_secret", gotAuth)
}
