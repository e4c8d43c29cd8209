package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SisyphusMD/wudwatch/internal/wud"
)

// Snapshot maps container name to its latest known record. It is replaced
// wholesale on every successful refresh and never mutated in place, so
// readers may hold on to one across a refresh boundary.
type Snapshot map[string]wud.Container

// Coordinator runs the periodic refresh cycle against one WUD instance and
// fans successful snapshots out to its listeners. It is the only writer of
// the snapshot; entity projections and API handlers only read.
type Coordinator struct {
	client   *wud.Client
	instance string
	interval time.Duration
	logger   *slog.Logger

	mu          sync.RWMutex
	data        Snapshot
	lastSuccess bool
	successAt   time.Time
	runID       string
	listeners   []func()
}

// New builds a coordinator. instance is the user-facing name of the WUD
// instance; it flows into entity names.
func New(client *wud.Client, instance string, interval time.Duration, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client:   client,
		instance: instance,
		interval: interval,
		logger:   logger,
		data:     Snapshot{},
	}
}

// AddListener registers a callback invoked synchronously after every
// successful refresh. Listeners must not block; they re-render from the new
// snapshot.
func (c *Coordinator) AddListener(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Refresh fetches the container list once and, on success, swaps in the new
// snapshot and notifies listeners. On any failure the previous snapshot is
// retained and only the success flag flips; stale data beats no data.
func (c *Coordinator) Refresh(ctx context.Context) error {
	containers, err := c.client.Containers(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastSuccess = false
		c.mu.Unlock()

		c.logger.Error("error fetching data from WUD", "instance", c.instance, "error", err)

		return fmt.Errorf("refresh failed: %w", err)
	}

	// Key by name; a duplicate name later in the array wins.
	next := make(Snapshot, len(containers))
	for _, container := range containers {
		next[container.Name] = container
	}

	c.mu.Lock()
	c.data = next
	c.lastSuccess = true
	c.successAt = time.Now()
	c.runID = uuid.New().String()
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	c.logger.Debug("refresh complete", "instance", c.instance, "containers", len(next), "run_id", c.runID)

	for _, fn := range listeners {
		fn()
	}

	return nil
}

// Start runs the fixed-interval refresh loop until ctx is cancelled. The
// eager startup refresh is the caller's job (its failure is a setup
// failure); refresh failures inside the loop are logged and absorbed.
func (c *Coordinator) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("refresh loop started", "instance", c.instance, "interval", c.interval)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("refresh loop stopping", "instance", c.instance)
			return
		case <-ticker.C:
			// Errors already logged inside Refresh; the loop just keeps its
			// schedule. No backoff beyond the fixed period.
			_ = c.Refresh(ctx)
		}
	}
}

// Data returns the current snapshot. The returned map must be treated as
// read-only.
func (c *Coordinator) Data() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Get looks up one container record by name in the current snapshot.
func (c *Coordinator) Get(name string) (wud.Container, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	container, ok := c.data[name]
	return container, ok
}

// LastUpdateSuccess reports whether the most recent refresh succeeded.
// Entities gate their availability on it.
func (c *Coordinator) LastUpdateSuccess() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

// LastSuccess returns when a refresh last succeeded; zero before the first
// success.
func (c *Coordinator) LastSuccess() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.successAt
}

// RunID identifies the refresh cycle that produced the current snapshot.
func (c *Coordinator) RunID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runID
}

// Client exposes the immutable WUD client for follow-up requests such as
// install triggers.
func (c *Coordinator) Client() *wud.Client { return c.client }

// Instance returns the user-facing name of the watched WUD instance.
func (c *Coordinator) Instance() string { return c.instance }
