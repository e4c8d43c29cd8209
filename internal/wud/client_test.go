package wud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const containersPayload = `[
  {
    "id": "abc123",
    "name": "nginx",
    "watcher": "local",
    "status": "running",
    "updateAvailable": true,
    "image": {"tag": {"value": "1.25.0"}},
    "result": {"tag": "1.26.1", "link": "https://github.com/nginx/nginx/releases/tag/release-1.26.1"},
    "link": "https://github.com/nginx/nginx/releases",
    "labels": {"wud.trigger.hass": "update.docker"}
  },
  {
    "id": "def456",
    "name": "redis",
    "updateAvailable": false,
    "image": {"tag": {"value": "7.2.4"}},
    "link": "https://github.com/redis/redis/releases/tag/7.2.4"
  }
]`

func TestContainers(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(containersPayload))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "homeassistant", "secret", nil, nil)

	containers, err := client.Containers(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 2)

	assert.NotEmpty(t, gotAuth, "expected Basic auth header")

	nginx := containers[0]
	assert.Equal(t, "nginx", nginx.Name)
	assert.Equal(t, "1.25.0", nginx.InstalledVersion())
	assert.Equal(t, "1.26.1", nginx.LatestVersion())
	require.NotNil(t, nginx.Result)
	assert.True(t, nginx.UpdateAvailable)

	redis := containers[1]
	assert.Equal(t, "7.2.4", redis.LatestVersion(), "no update means latest == installed")
	assert.Nil(t, redis.Result)
}

func TestContainersBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "user", "wrong", nil, nil)

	_, err := client.Containers(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestContainersTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "user", "pass", nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Containers(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "expected timeout classification, got %v", err)
}

func TestContainersConnectError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close() // nothing listens anymore

	client := NewClient(ts.URL, "user", "pass", nil, nil)

	_, err := client.Containers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCannotConnect), "expected connect classification, got %v", err)
}

func TestTriggerUpdate(t *testing.T) {
	var gotMethod, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(ts.URL+"/api/containers", "user", "pass", nil, nil)

	err := client.TriggerUpdate(context.Background(), "abc123", "update/docker")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/containers/abc123/triggers/update/docker", gotPath)
}

func TestTriggerUpdateRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such trigger", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(ts.URL+"/api/containers", "user", "pass", nil, nil)

	err := client.TriggerUpdate(context.Background(), "abc123", "update/docker")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK, wantErr: false},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("[]"))
			}))
			defer ts.Close()

			client := NewClient(ts.URL, "user", "pass", nil, nil)
			err := client.Probe(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTriggerPath(t *testing.T) {
	tests := []struct {
		name     string
		labels   map[string]string
		wantPath string
		wantOK   bool
	}{
		{
			name:     "dot delimited label",
			labels:   map[string]string{"wud.trigger.hass": "docker.compose.update"},
			wantPath: "docker/compose/update",
			wantOK:   true,
		},
		{
			name:     "single segment",
			labels:   map[string]string{"wud.trigger.hass": "update"},
			wantPath: "update",
			wantOK:   true,
		},
		{name: "missing label", labels: map[string]string{}, wantOK: false},
		{name: "nil labels", labels: nil, wantOK: false},
		{name: "empty value", labels: map[string]string{"wud.trigger.hass": ""}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Container{Labels: tt.labels}
			path, ok := c.TriggerPath("wud.trigger.hass")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
