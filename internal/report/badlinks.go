// Package report accumulates resolution diagnostics during a run and
// produces deterministic listings of them once the run is done.
package report

import (
	"sort"

	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
)

type badLink struct {
	fix   string
	state string
}

// BadLinks records references that could not be resolved where they point.
// The first write for a (source, target) pair wins.
type BadLinks struct {
	entries map[string]map[string]badLink
	count   int
}

// NewBadLinks creates an empty accumulator
func NewBadLinks() *BadLinks {
	return &BadLinks{entries: make(map[string]map[string]badLink)}
}

// Add records target as broken inside source. An empty fix means no
// correction is known. It reports whether the entry was new.
func (b *BadLinks) Add(source, target, fix, state string) bool {
	targets, ok := b.entries[source]
	if !ok {
		targets = make(map[string]badLink)
		b.entries[source] = targets
	}
	if _, exists := targets[target]; exists {
		return false
	}
	targets[target] = badLink{fix: fix, state: state}
	b.count++
	return true
}

// Fix returns the recorded correction for a pair and whether the pair exists
func (b *BadLinks) Fix(source, target string) (string, bool) {
	e, ok := b.entries[source][target]
	return e.fix, ok
}

// Len returns the number of recorded pairs
func (b *BadLinks) Len() int {
	return b.count
}

// Finalize lists every entry sorted by source, then target
func (b *BadLinks) Finalize() []model.BadLink {
	out := make([]model.BadLink, 0, b.count)
	for source, targets := range b.entries {
		for target, e := range targets {
			entry := model.BadLink{Source: source, Target: target, State: e.state}
			if e.fix != "" {
				fix := e.fix
				entry.Fix = &fix
			}
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}
