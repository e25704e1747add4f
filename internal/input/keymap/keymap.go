package keymap

import (
	"fmt"

	"github.com/dshills/markpad/internal/input/key"
)

// Priorities for built-in and user keymaps.
const (
	DefaultPriority = 0
	UserPriority    = 100
)

// Keymap is a named set of bindings.
type Keymap struct {
	Name     string    `json:"name" yaml:"name"`
	Source   string    `json:"source,omitempty" yaml:"source,omitempty"`
	Priority int       `json:"priority,omitempty" yaml:"priority,omitempty"`
	Bindings []Binding `json:"bindings" yaml:"bindings"`
}

// New creates an empty keymap.
func New(name string) *Keymap {
	return &Keymap{Name: name}
}

// WithPriority sets the keymap priority.
func (k *Keymap) WithPriority(priority int) *Keymap {
	k.Priority = priority
	return k
}

// WithSource sets where the keymap came from.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add binds keys to action.
func (k *Keymap) Add(keys, action string) *Keymap {
	return k.AddBinding(NewBinding(keys, action))
}

// AddBinding appends b.
func (k *Keymap) AddBinding(b Binding) *Keymap {
	k.Bindings = append(k.Bindings, b)
	return k
}

// Validate checks that every binding names an action and a parseable chord.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Action == "" {
			return fmt.Errorf("keymap %q binding %d (%s): empty action", k.Name, i, b.Keys)
		}
		if _, err := key.ParseChord(b.Keys); err != nil {
			return fmt.Errorf("keymap %q binding %d: %w", k.Name, i, err)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (k *Keymap) Clone() *Keymap {
	c := *k
	c.Bindings = make([]Binding, len(k.Bindings))
	for i, b := range k.Bindings {
		c.Bindings[i] = b.clone()
	}
	return &c
}
