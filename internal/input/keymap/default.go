package keymap

// DefaultName is the name of the built-in keymap.
const DefaultName = "default"

func heading(keys string, level int) Binding {
	return Binding{
		Keys:        keys,
		Action:      "format.heading",
		Args:        map[string]any{"level": level},
		Description: "Heading",
		Category:    "Format",
	}
}

// Default returns the built-in editor keymap.
//
// Terminals deliver Ctrl+I as Tab, so italic is also bound to Alt+i.
func Default() *Keymap {
	return &Keymap{
		Name:     DefaultName,
		Source:   "default",
		Priority: DefaultPriority,
		Bindings: []Binding{
			{Keys: "Ctrl+B", Action: "format.bold", Description: "Bold", Category: "Format"},
			{Keys: "Alt+i", Action: "format.italic", Description: "Italic", Category: "Format"},
			{Keys: "Alt+s", Action: "format.strike", Description: "Strikethrough", Category: "Format"},
			{Keys: "Alt+c", Action: "format.code", Description: "Inline code", Category: "Format"},
			{Keys: "Alt+Shift+c", Action: "format.codeBlock", Description: "Code block", Category: "Format"},
			{Keys: "Alt+q", Action: "format.quote", Description: "Quote", Category: "Format"},
			{Keys: "Ctrl+K", Action: "format.link", Description: "Link", Category: "Format"},
			{Keys: "Alt+-", Action: "format.rule", Description: "Horizontal rule", Category: "Format"},
			heading("Alt+1", 1),
			heading("Alt+2", 2),
			heading("Alt+3", 3),
			heading("Alt+4", 4),
			heading("Alt+5", 5),
			heading("Alt+6", 6),

			{Keys: "Alt+u", Action: "list.bullet", Description: "Bullet list", Category: "List"},
			{Keys: "Alt+o", Action: "list.ordered", Description: "Numbered list", Category: "List"},

			{Keys: "Tab", Action: "edit.indent", Description: "Indent", Category: "Edit"},
			{Keys: "Backtab", Action: "edit.outdent", Description: "Outdent", Category: "Edit"},
			{Keys: "Shift+Tab", Action: "edit.outdent", Description: "Outdent", Category: "Edit"},
			{Keys: "Enter", Action: "edit.newline", Description: "New line", Category: "Edit"},
			{Keys: "Backspace", Action: "edit.deleteBackward", Description: "Delete backward", Category: "Edit"},
			{Keys: "Delete", Action: "edit.deleteForward", Description: "Delete forward", Category: "Edit"},
			{Keys: "Ctrl+A", Action: "edit.selectAll", Description: "Select all", Category: "Edit"},

			{Keys: "Ctrl+Z", Action: "history.undo", Description: "Undo", Category: "History"},
			{Keys: "Ctrl+Y", Action: "history.redo", Description: "Redo", Category: "History"},
			{Keys: "Ctrl+Shift+Z", Action: "history.redo", Description: "Redo", Category: "History"},

			{Keys: "Left", Action: "cursor.left", Category: "Movement"},
			{Keys: "Right", Action: "cursor.right", Category: "Movement"},
			{Keys: "Up", Action: "cursor.up", Category: "Movement"},
			{Keys: "Down", Action: "cursor.down", Category: "Movement"},
			{Keys: "Home", Action: "cursor.lineStart", Category: "Movement"},
			{Keys: "End", Action: "cursor.lineEnd", Category: "Movement"},
			{Keys: "Ctrl+Home", Action: "cursor.docStart", Category: "Movement"},
			{Keys: "Ctrl+End", Action: "cursor.docEnd", Category: "Movement"},
			{Keys: "Shift+Left", Action: "select.left", Category: "Selection"},
			{Keys: "Shift+Right", Action: "select.right", Category: "Selection"},
			{Keys: "Shift+Up", Action: "select.up", Category: "Selection"},
			{Keys: "Shift+Down", Action: "select.down", Category: "Selection"},
			{Keys: "Shift+Home", Action: "select.lineStart", Category: "Selection"},
			{Keys: "Shift+End", Action: "select.lineEnd", Category: "Selection"},

			{Keys: "Ctrl+S", Action: "session.save", Description: "Save", Category: "Session"},

			{Keys: "Alt+e", Action: "layout.maximizeEditor", Description: "Maximize editor", Category: "Layout"},
			{Keys: "Alt+p", Action: "layout.maximizePreview", Description: "Maximize preview", Category: "Layout"},
			{Keys: "Alt+0", Action: "layout.restore", Description: "Restore split", Category: "Layout"},

			{Keys: "PageUp", Action: "view.pageUp", Category: "View"},
			{Keys: "PageDown", Action: "view.pageDown", Category: "View"},
			{Keys: "Alt+y", Action: "preview.copyCode", Description: "Copy code block", Category: "View"},
			{Keys: "Ctrl+Q", Action: "app.quit", Description: "Quit", Category: "App"},
		},
	}
}
