// Package layout groups the two-pane layout coordinators of the editor.
//
// The split subpackage tracks the resizable divider and the maximize state
// of the editor and preview panes. The scrollsync subpackage keeps the two
// panes scrolled to the same relative position.
package layout
