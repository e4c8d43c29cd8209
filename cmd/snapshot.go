package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SisyphusMD/wudwatch/internal/coordinator"
	"github.com/SisyphusMD/wudwatch/internal/state"
)

// snapshotFrom converts the coordinator's live snapshot into the persisted
// form.
func snapshotFrom(instance string, coord *coordinator.Coordinator) *state.Snapshot {
	snap := state.NewSnapshot()
	snap.Instance = instance
	snap.RunID = coord.RunID()
	snap.Taken = coord.LastSuccess()

	for name, c := range coord.Data() {
		snap.Containers[name] = state.ContainerEntry{
			Name:            name,
			Installed:       c.InstalledVersion(),
			Latest:          c.LatestVersion(),
			UpdateAvailable: c.UpdateAvailable,
		}
	}

	return snap
}

// summarize renders a snapshot as one stable line per container so two runs
// can be diffed textually.
func summarize(snap *state.Snapshot) string {
	if snap == nil || len(snap.Containers) == 0 {
		return ""
	}

	names := make([]string, 0, len(snap.Containers))
	for name := range snap.Containers {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		entry := snap.Containers[name]
		if entry.UpdateAvailable {
			fmt.Fprintf(&sb, "%s %s -> %s (update available)\n", name, entry.Installed, entry.Latest)
		} else {
			fmt.Fprintf(&sb, "%s %s (up to date)\n", name, entry.Installed)
		}
	}
	return sb.String()
}

func summarizeContainers(instance string, coord *coordinator.Coordinator) string {
	return summarize(snapshotFrom(instance, coord))
}
