// Package entity projects update entities out of the coordinator's
// snapshot. An entity holds no state of its own beyond its key; every
// getter recomputes from the current snapshot at read time.
package entity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SisyphusMD/wudwatch/internal/consts"
	"github.com/SisyphusMD/wudwatch/internal/wud"
)

// Source is the snapshot view an entity reads from. *coordinator.Coordinator
// satisfies it.
type Source interface {
	Get(name string) (wud.Container, bool)
	LastUpdateSuccess() bool
	Instance() string
}

// Installer dispatches update triggers. *wud.Client satisfies it.
type Installer interface {
	TriggerUpdate(ctx context.Context, containerID, triggerPath string) error
}

// NotesFetcher resolves a release URL to its release notes.
// *github.Client satisfies it.
type NotesFetcher interface {
	ReleaseNotes(ctx context.Context, releaseURL string) (string, error)
}

// Entity is one update entity, bound to a container name at construction.
// The container set is enumerated once from the first successful snapshot;
// a key that later disappears simply projects as "no data".
type Entity struct {
	source    Source
	installer Installer
	notes     NotesFetcher
	key       string
	logger    *slog.Logger
}

// New binds an entity to its container name.
func New(source Source, installer Installer, notes NotesFetcher, key string, logger *slog.Logger) *Entity {
	if logger == nil {
		logger = slog.Default()
	}
	return &Entity{
		source:    source,
		installer: installer,
		notes:     notes,
		key:       key,
		logger:    logger,
	}
}

// Key returns the container name the entity is bound to.
func (e *Entity) Key() string { return e.key }

// Name returns the user-facing entity name, "<container> (<instance>)".
func (e *Entity) Name() string {
	return fmt.Sprintf("%s (%s)", e.key, e.source.Instance())
}

// UniqueID returns a stable identifier, "<instance>_<container>".
func (e *Entity) UniqueID() string {
	return fmt.Sprintf("%s_%s", e.source.Instance(), e.key)
}

// InstalledVersion returns the running tag, or "" when the container is
// absent from the snapshot.
func (e *Entity) InstalledVersion() string {
	container, ok := e.source.Get(e.key)
	if !ok {
		return ""
	}
	return container.InstalledVersion()
}

// LatestVersion returns the update tag when one is available, otherwise the
// installed tag.
func (e *Entity) LatestVersion() string {
	container, ok := e.source.Get(e.key)
	if !ok {
		return ""
	}
	return container.LatestVersion()
}

// UpdateAvailable reports whether WUD found a newer tag.
func (e *Entity) UpdateAvailable() bool {
	container, ok := e.source.Get(e.key)
	return ok && container.UpdateAvailable
}

// ReleaseURL returns the release link for the relevant tag, after the
// fixups for the malformed links WUD emits on some pre-release tags.
func (e *Entity) ReleaseURL() string {
	container, ok := e.source.Get(e.key)
	if !ok {
		return ""
	}

	var link, tag string
	if container.UpdateAvailable && container.Result != nil {
		link = container.Result.Link
		tag = container.Result.Tag
	} else {
		link = container.Link
		tag = container.Image.Tag.Value
	}

	return FixReleaseURL(link, tag)
}

// Available reports whether the last refresh succeeded; a stale snapshot
// still renders, it just renders unavailable.
func (e *Entity) Available() bool {
	return e.source.LastUpdateSuccess()
}

// InProgress is always false: the WUD API exposes no progress signal.
func (e *Entity) InProgress() bool { return false }

// ReleaseNotes fetches the notes for the current release URL. ok is false
// when no notes are available for any reason; notes lookups never fail the
// caller.
func (e *Entity) ReleaseNotes(ctx context.Context) (string, bool) {
	if _, present := e.source.Get(e.key); !present {
		return "", false
	}

	body, err := e.notes.ReleaseNotes(ctx, e.ReleaseURL())
	if err != nil {
		e.logger.Error("error fetching release notes", "entity", e.Name(), "error", err)
		return "", false
	}
	if body == "" {
		return "", false
	}
	return body, true
}

// Install asks WUD to run the container's configured update trigger.
// Fire-and-forget: every failure is logged, none is surfaced, and no local
// state changes. The next periodic refresh picks up whatever the trigger
// did.
func (e *Entity) Install(ctx context.Context) {
	e.logger.Info("starting update", "entity", e.Name())

	container, ok := e.source.Get(e.key)
	if !ok {
		e.logger.Error("container data not found", "entity", e.Name())
		return
	}

	triggerPath, ok := container.TriggerPath(consts.TriggerLabel)
	if !ok {
		e.logger.Error("trigger label not found", "entity", e.Name(), "label", consts.TriggerLabel)
		return
	}

	if container.ID == "" {
		e.logger.Error("no container id", "entity", e.Name())
		return
	}

	if err := e.installer.TriggerUpdate(ctx, container.ID, triggerPath); err != nil {
		e.logger.Error("failed to trigger update", "entity", e.Name(), "error", err)
		return
	}

	e.logger.Info("update triggered successfully", "entity", e.Name())
}
