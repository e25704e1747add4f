package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/preview"
	"github.com/dshills/markpad/internal/renderer/statusline"
	"github.com/dshills/markpad/internal/session"
)

// Front-end actions, bound in the default keymap.
const (
	ActionQuit     = "app.quit"
	ActionPageUp   = "view.pageUp"
	ActionPageDown = "view.pageDown"
	ActionCopyCode = "preview.copyCode"
)

// registerCommands adds the front-end actions to the session so key
// bindings resolve them like any other action.
func (app *Application) registerCommands() error {
	commands := []struct {
		name string
		fn   session.CommandFunc
	}{
		{ActionQuit, app.quitCommand},
		{ActionPageUp, app.pageCommand(false)},
		{ActionPageDown, app.pageCommand(true)},
		{ActionCopyCode, app.copyCodeCommand},
	}
	for _, c := range commands {
		if err := app.session.RegisterCommand(c.name, c.fn); err != nil {
			return fmt.Errorf("register %s: %w", c.name, err)
		}
	}
	return nil
}

// quitCommand exits. With unsaved changes the first press only warns and
// a second press in a row discards them.
func (app *Application) quitCommand(s *session.Session, _ map[string]any) error {
	if s.Modified() && !app.ui.confirmQuit {
		app.ui.quitArmed = true
		keys := app.keys.KeysFor(ActionQuit)
		again := "quit"
		if len(keys) > 0 {
			again = strings.Join(keys, " or ")
		}
		app.statusMessage(statusline.MessageWarning, "Unsaved changes: press %s again to discard them", again)
		return nil
	}
	app.ui.discard = s.Modified()
	return ErrQuit
}

// pageCommand scrolls the editor pane by a page without moving the caret.
func (app *Application) pageCommand(down bool) session.CommandFunc {
	return func(s *session.Session, _ map[string]any) error {
		r := app.Renderer()
		if r == nil {
			return nil
		}
		v := r.EditorView()
		var moved bool
		if down {
			moved = v.PageDown()
		} else {
			moved = v.PageUp()
		}
		app.ui.followCaret = false
		if moved {
			s.OnScroll(scrollsync.Editor)
		}
		return nil
	}
}

// copyCodeCommand copies the fenced code block containing the caret.
func (app *Application) copyCodeCommand(s *session.Session, _ map[string]any) error {
	b, err := app.blocks.CopyAt(s.Head())
	if errors.Is(err, preview.ErrNoCodeBlock) {
		app.statusMessage(statusline.MessageWarning, "No code block at the caret")
		return nil
	}
	if err != nil {
		return NewOperationError("copy", fmt.Sprintf("code block %d", b.ID), err)
	}
	lang := b.Lang
	if lang == "" {
		lang = "code"
	}
	app.statusMessage(statusline.MessageInfo, "Copied %s block (%d lines)", lang, strings.Count(b.Code, "\n")+1)
	return nil
}

// statusMessage sets a status line message from the event loop goroutine.
func (app *Application) statusMessage(typ statusline.MessageType, format string, args ...any) {
	if r := app.Renderer(); r != nil {
		r.Status().SetMessage(fmt.Sprintf(format, args...), typ)
	}
}
