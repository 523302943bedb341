package hooks

import (
	"sort"
	"strings"
	"sync"

	"finitefield.org/hanko-theme/internal/header"
)

// DefaultPriority is used by hosts that do not care about ordering.
const DefaultPriority = 10

type entry struct {
	name     string
	priority int
	seq      int
	fragment string
}

// Registry collects head fragments and concatenates them into the opaque
// head extension handed to the header renderer. Fragments are never parsed.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	nextSeq int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers fragment under name. Re-adding a name replaces its fragment and
// priority but keeps the original insertion slot.
func (r *Registry) Add(name string, priority int, fragment string) {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if name != "" {
		for i := range r.entries {
			if r.entries[i].name == name {
				r.entries[i].priority = priority
				r.entries[i].fragment = fragment
				return
			}
		}
	}
	r.entries = append(r.entries, entry{name: name, priority: priority, seq: r.nextSeq, fragment: fragment})
	r.nextSeq++
}

// Remove drops the fragment registered under name.
func (r *Registry) Remove(name string) bool {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of registered fragments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Render joins fragments by ascending priority, then registration order.
func (r *Registry) Render() header.HeadExtension {
	r.mu.RLock()
	ordered := make([]entry, len(r.entries))
	copy(ordered, r.entries)
	r.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority == ordered[j].priority {
			return ordered[i].seq < ordered[j].seq
		}
		return ordered[i].priority < ordered[j].priority
	})
	parts := make([]string, 0, len(ordered))
	for _, e := range ordered {
		if e.fragment == "" {
			continue
		}
		parts = append(parts, e.fragment)
	}
	return header.HeadExtension(strings.Join(parts, "\n"))
}
