// Package renderer draws the markpad screen.
//
// The screen is split into an editor pane and a preview pane separated by
// a one-column divider, with the status line on the bottom row:
//
//	┌──────────────┬──────────────┐
//	│ editor       │ preview      │
//	│ (raw text)   │ (rendered)   │
//	├──────────────┴──────────────┤
//	│ status                      │
//	└─────────────────────────────┘
//
// The divider position and maximize state come from a split.State. Each
// pane has a viewport.Viewport holding its scroll position; the two
// viewports are the panes handed to the scroll synchronizer.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	r := renderer.New(term)
//	l := r.Layout(state)
//	r.Render(renderer.Frame{Content: text, Preview: lines, Split: state})
package renderer
