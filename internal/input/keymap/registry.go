package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/markpad/internal/input/key"
)

// ErrNilKeymap is returned when registering a nil keymap.
var ErrNilKeymap = errors.New("nil keymap")

// Registry holds keymaps and resolves key events to bindings.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	keymaps []*Keymap // registration order
	index   map[key.Chord]Binding
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[key.Chord]Binding)}
}

// Register validates km and adds it, replacing any keymap with the same
// name.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return ErrNilKeymap
	}
	if err := km.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(km.Name)
	r.keymaps = append(r.keymaps, km.Clone())
	r.rebuildLocked()
	return nil
}

// Unregister removes the keymap named name. Returns false if absent.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.removeLocked(name) {
		return false
	}
	r.rebuildLocked()
	return true
}

func (r *Registry) removeLocked(name string) bool {
	for i, km := range r.keymaps {
		if km.Name == name {
			r.keymaps = append(r.keymaps[:i], r.keymaps[i+1:]...)
			return true
		}
	}
	return false
}

// rebuildLocked rebuilds the chord index. Keymaps are applied in
// ascending priority with a stable sort, so later registrations win ties.
func (r *Registry) rebuildLocked() {
	ordered := make([]*Keymap, len(r.keymaps))
	copy(ordered, r.keymaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	index := make(map[key.Chord]Binding)
	for _, km := range ordered {
		for _, b := range km.Bindings {
			c, err := key.ParseChord(b.Keys)
			if err != nil {
				continue
			}
			index[c] = b
		}
	}
	r.index = index
}

// Lookup returns the binding for ev.
func (r *Registry) Lookup(ev key.Event) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.index[ev.Chord()]
	if !ok {
		return Binding{}, false
	}
	return b.clone(), true
}

// KeysFor returns the canonical chords bound to action, sorted.
func (r *Registry) KeysFor(action string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for c, b := range r.index {
		if b.Action == action {
			out = append(out, c.String())
		}
	}
	sort.Strings(out)
	return out
}

// Bindings returns the effective bindings, one per chord, sorted by
// category then keys.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.index))
	for c, b := range r.index {
		b = b.clone()
		b.Keys = c.String()
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Names returns registered keymap names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.keymaps))
	for i, km := range r.keymaps {
		names[i] = km.Name
	}
	return names
}

// Replace swaps every keymap whose Source is source for kms. The previous
// state is kept if any of kms fails validation.
func (r *Registry) Replace(source string, kms []*Keymap) error {
	for _, km := range kms {
		if km == nil {
			return ErrNilKeymap
		}
		if err := km.Validate(); err != nil {
			return fmt.Errorf("replace %s keymaps: %w", source, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.keymaps[:0:0]
	for _, km := range r.keymaps {
		if km.Source != source {
			kept = append(kept, km)
		}
	}
	for _, km := range kms {
		c := km.Clone()
		c.Source = source
		kept = append(kept, c)
	}
	r.keymaps = kept
	r.rebuildLocked()
	return nil
}
