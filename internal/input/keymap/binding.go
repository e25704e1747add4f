package keymap

// Binding maps a key chord to an action.
type Binding struct {
	// Keys is the chord, e.g. "Ctrl+B" or "A-i".
	Keys string `json:"keys" yaml:"keys"`

	// Action is the action name, e.g. "format.bold".
	Action string `json:"action" yaml:"action"`

	// Args are fixed arguments passed to the action.
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// NewBinding returns a binding of keys to action.
func NewBinding(keys, action string) Binding {
	return Binding{Keys: keys, Action: action}
}

// WithArgs sets the action arguments.
func (b Binding) WithArgs(args map[string]any) Binding {
	b.Args = args
	return b
}

// WithDescription sets the description.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// WithCategory sets the display category.
func (b Binding) WithCategory(category string) Binding {
	b.Category = category
	return b
}

// clone returns a copy with its own Args map.
func (b Binding) clone() Binding {
	if b.Args != nil {
		args := make(map[string]any, len(b.Args))
		for k, v := range b.Args {
			args[k] = v
		}
		b.Args = args
	}
	return b
}

// Category groups bindings for display.
type Category struct {
	Name     string
	Bindings []Binding
}

// GroupByCategory groups bindings by Category, keeping first-seen order.
// Uncategorized bindings are grouped under "Other".
func GroupByCategory(bindings []Binding) []Category {
	index := make(map[string]int)
	var out []Category
	for _, b := range bindings {
		name := b.Category
		if name == "" {
			name = "Other"
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Category{Name: name})
		}
		out[i].Bindings = append(out[i].Bindings, b)
	}
	return out
}
