package router

import (
	"sort"

	"fitdesk/internal/transport/http/handler"
)

// prioritizer lets a module mount earlier; the default is 100.
type prioritizer interface{ Priority() int }

// MountAll mounts modules in ascending priority, keeping the given order for
// ties.
func MountAll(r handler.Routes, mods ...handler.Module) {
	mods = append([]handler.Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		if m != nil {
			m.Mount(r)
		}
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
