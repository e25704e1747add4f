// Package preview renders note markdown for the preview pane and tracks
// the fenced code blocks shown there.
//
// Rendering goes through glamour; escape sequences are stripped so the
// terminal front end can lay the lines out cell by cell. Code blocks get
// identifiers from a monotonic counter so the "copied" marker of a block
// is deterministic across renders.
package preview
