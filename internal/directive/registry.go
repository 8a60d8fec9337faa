package directive

import (
	"errors"
	"fmt"
)

type owned[H any] struct {
	entry  Entry
	handle H
}

// Registry owns compiled handles. The arena is the single owner; the
// positional and name views only refer into it, so every handle is released
// exactly once no matter how the views alias.
//
// Registry does no locking. Callers serialize access the same way they
// serialize access to the VM that produced the handles.
type Registry[H any] struct {
	declared int
	arena    []owned[H]     // compile order
	bySlot   map[int]int    // positional key -> arena index
	byName   map[string]int // section -> arena index, last writer wins
	extra    int            // next key handed to a reopened section
	released bool
}

// NewRegistry creates an empty registry for a declaration set of the given
// size. Keys 0..declared-1 belong to the declared sections; reopenings are
// keyed from declared upwards.
func NewRegistry[H any](declared int) *Registry[H] {
	declared = max(declared, 0)
	return &Registry[H]{
		declared: declared,
		bySlot:   make(map[int]int),
		byName:   make(map[string]int),
		extra:    declared,
	}
}

// Add takes ownership of h and returns its positional key. The first
// occurrence of a section takes its declared index e.Decl; a later one, or
// one whose declared index is already used, gets the next free key past the
// declared range. Existing keys are never overwritten. The name view moves
// to the newest handle for e.Section.
func (r *Registry[H]) Add(e Entry, h H) int {
	slot := e.Decl
	if _, taken := r.bySlot[slot]; taken || slot < 0 {
		for {
			slot = r.extra
			r.extra++
			if _, taken := r.bySlot[slot]; !taken {
				break
			}
		}
	}
	e.Slot = slot
	r.bySlot[slot] = len(r.arena)
	r.byName[e.Section] = len(r.arena)
	r.arena = append(r.arena, owned[H]{entry: e, handle: h})
	r.released = false
	return slot
}

// ByIndex returns the handle stored under positional key i.
func (r *Registry[H]) ByIndex(i int) (H, Entry, bool) {
	var zero H
	idx, ok := r.bySlot[i]
	if !ok {
		return zero, Entry{}, false
	}
	o := r.arena[idx]
	return o.handle, o.entry, true
}

// ByName returns the most recently added handle for section.
func (r *Registry[H]) ByName(section string) (H, Entry, bool) {
	var zero H
	idx, ok := r.byName[section]
	if !ok {
		return zero, Entry{}, false
	}
	o := r.arena[idx]
	return o.handle, o.entry, true
}

// Entries returns all entries in compile order.
func (r *Registry[H]) Entries() []Entry {
	out := make([]Entry, len(r.arena))
	for i := range r.arena {
		out[i] = r.arena[i].entry
	}
	return out
}

// Shadowed reports entries no longer reachable by name because a later
// occurrence of the same section replaced them.
func (r *Registry[H]) Shadowed() []Entry {
	var out []Entry
	for i := range r.arena {
		if r.byName[r.arena[i].entry.Section] != i {
			out = append(out, r.arena[i].entry)
		}
	}
	return out
}

// Len returns the number of positional entries.
func (r *Registry[H]) Len() int {
	return len(r.arena)
}

// ReleaseAll hands every owned handle to release once and empties the
// registry. Calling it again without new additions is a no-op.
func (r *Registry[H]) ReleaseAll(release func(H) error) error {
	arena := r.arena
	r.arena = nil
	r.bySlot = make(map[int]int)
	r.byName = make(map[string]int)
	r.extra = r.declared
	already := r.released
	r.released = true

	if already {
		return nil
	}
	var errs []error
	for i := range arena {
		if err := release(arena[i].handle); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", arena[i].entry.Location(), err))
		}
	}
	return errors.Join(errs...)
}
