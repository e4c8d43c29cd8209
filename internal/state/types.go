package state

import "time"

// ContainerEntry is the slice of a container record worth remembering
// between runs: enough to tell what changed, nothing more.
type ContainerEntry struct {
	Name            string `json:"name"`
	Installed       string `json:"installed"`
	Latest          string `json:"latest"`
	UpdateAvailable bool   `json:"update_available"`
}

// Snapshot is the persisted form of one refresh cycle.
type Snapshot struct {
	Version    string                    `json:"version"` // state file version
	RunID      string                    `json:"run_id"`
	Taken      time.Time                 `json:"taken"`
	Instance   string                    `json:"instance"`
	Containers map[string]ContainerEntry `json:"containers"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:    "1.0",
		Containers: make(map[string]ContainerEntry),
	}
}
