package wud

import "strings"

// Tag is the version tag WUD resolved for an image.
type Tag struct {
	Value string `json:"value"`
}

// Image is the subset of WUD's image object this watcher reads.
type Image struct {
	Tag Tag `json:"tag"`
}

// Result carries the update WUD found. Only present on records where
// updateAvailable is true.
type Result struct {
	Tag  string `json:"tag"`
	Link string `json:"link"`
}

// Container is one record from GET /api/containers. WUD sends more fields
// than these; unknown ones are dropped on decode. The record is treated as
// immutable and replaced wholesale on every refresh.
type Container struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Watcher         string            `json:"watcher"`
	Status          string            `json:"status"`
	UpdateAvailable bool              `json:"updateAvailable"`
	Image           Image             `json:"image"`
	Result          *Result           `json:"result,omitempty"`
	Link            string            `json:"link"`
	Labels          map[string]string `json:"labels"`
}

// InstalledVersion returns the currently running tag.
func (c Container) InstalledVersion() string {
	return c.Image.Tag.Value
}

// LatestVersion returns the update tag when one is available, otherwise the
// installed tag.
func (c Container) LatestVersion() string {
	if c.UpdateAvailable && c.Result != nil {
		return c.Result.Tag
	}
	return c.Image.Tag.Value
}

// TriggerPath reads the named label and turns its dot-delimited value into
// the URL path segment WUD's trigger endpoint expects. ok is false when the
// label is absent or empty.
func (c Container) TriggerPath(label string) (string, bool) {
	v, ok := c.Labels[label]
	if !ok || v == "" {
		return "", false
	}
	return strings.ReplaceAll(v, ".", "/"), true
}
