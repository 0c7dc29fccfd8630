// Package keymap resolves key events to editing actions. User overrides
// take precedence over the compiled-in defaults.
package keymap

import (
	"sort"
	"sync"

	"github.com/kcaldas/promptline/pkg/actions"
	"github.com/kcaldas/promptline/pkg/keys"
)

// Source tells where a resolved binding came from.
type Source string

const (
	SourceOverride Source = "override"
	SourceDefault  Source = "default"
	SourceFallback Source = "fallback"
)

// Binding is one row of the effective table.
type Binding struct {
	Event       keys.Event
	Action      actions.Action
	Source      Source
	Description string
}

// Table maps events to actions. Overrides are checked first, then the
// defaults, then the fallback. A Table may be shared by sequential prompt
// sessions; it is safe for concurrent use.
type Table struct {
	mu        sync.RWMutex
	overrides map[keys.Event]actions.Action
}

// New returns a table with no overrides.
func New() *Table {
	return &Table{overrides: make(map[keys.Event]actions.Action)}
}

// Resolve returns the action bound to ev. It never fails.
func (t *Table) Resolve(ev keys.Event) actions.Action {
	a, _ := t.ResolveWithSource(ev)
	return a
}

// ResolveWithSource is Resolve that also reports which tier matched.
func (t *Table) ResolveWithSource(ev keys.Event) (actions.Action, Source) {
	ev = ev.Normalize()
	if a, ok := t.Lookup(ev); ok {
		return a, SourceOverride
	}
	if a, ok := Default(ev); ok {
		return a, SourceDefault
	}
	return Fallback(ev), SourceFallback
}

// Set binds ev to a, replacing any previous override. Both are stored in
// their normalised form.
func (t *Table) Set(ev keys.Event, a actions.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides[ev.Normalize()] = a.Normalize()
}

// Remove drops the override for ev so that the default applies again.
func (t *Table) Remove(ev keys.Event) bool {
	ev = ev.Normalize()
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.overrides[ev]
	delete(t.overrides, ev)
	return ok
}

// Lookup returns the override for ev only.
func (t *Table) Lookup(ev keys.Event) (actions.Action, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.overrides[ev.Normalize()]
	return a, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.overrides)
}

// Overrides returns a copy of the override map.
func (t *Table) Overrides() map[keys.Event]actions.Action {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[keys.Event]actions.Action, len(t.overrides))
	for ev, a := range t.overrides {
		out[ev] = a
	}
	return out
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	return &Table{overrides: t.Overrides()}
}

// Merge copies every override of other into t. Bindings in other win.
func (t *Table) Merge(other *Table) {
	incoming := other.Overrides()
	t.mu.Lock()
	defer t.mu.Unlock()
	for ev, a := range incoming {
		t.overrides[ev] = a
	}
}

// Replace swaps the overrides of t for those of other.
func (t *Table) Replace(other *Table) {
	incoming := other.Overrides()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides = incoming
}

// Effective lists every default and override, with overrides shadowing
// defaults, sorted by the text form of the event.
func (t *Table) Effective() []Binding {
	rows := make(map[keys.Event]Binding)
	for _, e := range defaultEntries {
		if _, seen := rows[e.Event]; !seen {
			rows[e.Event] = Binding{Event: e.Event, Action: e.Action, Source: SourceDefault, Description: e.Description}
		}
	}
	for ev, a := range t.Overrides() {
		rows[ev] = Binding{Event: ev, Action: a, Source: SourceOverride}
	}

	out := make([]Binding, 0, len(rows))
	for _, b := range rows {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Event.String() < out[j].Event.String()
	})
	return out
}
