package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/input/key"
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
	"github.com/dshills/markpad/internal/renderer"
	"github.com/dshills/markpad/internal/renderer/backend"
	"github.com/dshills/markpad/internal/renderer/statusline"
	"github.com/dshills/markpad/internal/renderer/viewport"
	"github.com/dshills/markpad/internal/session"
	"github.com/dshills/markpad/internal/store"
)

// WheelStep is the number of rows one wheel notch scrolls.
const WheelStep = 3

// eventLoop reads backend events until the user quits or the backend
// closes. Errors from handlers are shown on the status line.
func (app *Application) eventLoop() error {
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			return nil
		}

		err := app.handleBackendEvent(ev)
		if errors.Is(err, ErrQuit) {
			return ErrQuit
		}
		if err != nil {
			app.log.Warn("%v", err)
			app.renderer.Status().SetMessage(err.Error(), messageTypeFor(err))
		}
		app.redraw()
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		if app.ui.pasting {
			app.collectPaste(ev.Key)
			return nil
		}
		return app.handleKeyEvent(ev.Key)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
		return nil
	case backend.EventPaste:
		return app.handlePasteEvent(ev)
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Data)
	default:
		// Resize needs only the redraw that follows every event.
		return nil
	}
}

// handleKeyEvent runs the bound action for ev, or types it.
func (app *Application) handleKeyEvent(ev key.Event) error {
	start := time.Now()

	// A quit warning only holds for the very next key.
	app.ui.confirmQuit = app.ui.quitArmed
	app.ui.quitArmed = false
	app.ui.followCaret = true

	handled, err := app.session.Dispatch(ev)
	app.metrics.RecordInput(time.Since(start), handled)
	if err != nil {
		return err
	}
	if !handled {
		app.renderer.Status().SetMessage(fmt.Sprintf("%s is not bound", ev.Chord()), statusline.MessageInfo)
	}
	return nil
}

// handleMouseEvent drags the divider, places the caret, extends the
// selection and scrolls the pane under the pointer.
func (app *Application) handleMouseEvent(ev backend.Event) {
	start := time.Now()
	defer func() { app.metrics.RecordInput(time.Since(start), true) }()

	l := app.renderer.LastLayout()
	x, y := ev.MouseX, ev.MouseY

	switch {
	case ev.MouseButton.IsWheel():
		pane, ok := l.PaneAt(x, y)
		if !ok {
			return
		}
		var delta int
		switch ev.MouseButton {
		case backend.MouseWheelUp:
			delta = -WheelStep
		case backend.MouseWheelDown:
			delta = WheelStep
		default:
			return
		}
		if app.paneView(pane).ScrollBy(delta) {
			app.ui.followCaret = false
			app.session.OnScroll(pane)
		}

	case ev.MouseButton == backend.MouseLeft:
		if app.session.Split().IsResizing() {
			app.session.UpdateResize(float64(x), l.Container())
			return
		}
		if !app.ui.selecting && l.OnDivider(x, y) {
			app.session.BeginResize()
			return
		}
		off, ok := app.renderer.EditorOffsetAt(app.session.CurrentContent(), x, y)
		if !ok {
			return
		}
		if !app.ui.selecting {
			app.ui.selecting = true
			app.ui.anchor = off
		}
		app.session.SetSelection(textrange.Span(app.ui.anchor, off))
		app.ui.followCaret = true

	case ev.MouseButton == backend.MouseNone:
		if app.session.Split().IsResizing() {
			app.session.EndResize()
		}
		app.ui.selecting = false
	}
}

// paneView returns the viewport for pane.
func (app *Application) paneView(pane scrollsync.PaneID) *viewport.Viewport {
	if pane == scrollsync.Preview {
		return app.renderer.PreviewView()
	}
	return app.renderer.EditorView()
}

// handlePasteEvent brackets a paste. The pasted keys are collected and
// typed as one edit when the paste ends.
func (app *Application) handlePasteEvent(ev backend.Event) error {
	if ev.PasteStart {
		app.ui.pasting = true
		app.ui.paste.Reset()
		return nil
	}
	app.ui.pasting = false
	text := app.ui.paste.String()
	app.ui.paste.Reset()
	if text == "" {
		return nil
	}
	app.ui.followCaret = true
	return app.session.ApplyToolbarAction(session.ActionInsert, map[string]any{"text": text})
}

func (app *Application) collectPaste(ev key.Event) {
	switch {
	case ev.Key == key.KeyRune:
		app.ui.paste.WriteRune(ev.Rune)
	case ev.Key == key.KeyEnter:
		app.ui.paste.WriteByte('\n')
	case ev.Key == key.KeyTab:
		app.ui.paste.WriteByte('\t')
	}
}

// handleInterrupt applies data posted from other goroutines.
func (app *Application) handleInterrupt(data any) error {
	switch d := data.(type) {
	case notice:
		app.renderer.Status().SetMessage(d.text, d.typ)
	case quitRequest:
		return ErrQuit
	}
	return nil
}

// messageTypeFor picks the status severity for a handler error.
func messageTypeFor(err error) statusline.MessageType {
	switch {
	case errors.Is(err, session.ErrSaveInProgress),
		errors.Is(err, session.ErrNotReady),
		errors.Is(err, ErrUnsavedChanges):
		return statusline.MessageWarning
	default:
		return statusline.MessageError
	}
}

// redraw renders the preview and draws a frame.
func (app *Application) redraw() {
	start := time.Now()

	st := app.session.Layout()
	l := app.renderer.Layout(st)
	content := app.session.CurrentContent()

	var lines []string
	if !l.Preview.Empty() {
		width := l.Preview.Width
		if wrap := app.Config().Preview.WordWrap; wrap > 0 {
			width = min(width, wrap)
		}
		var err error
		lines, err = app.preview.Render(content, width)
		if err != nil {
			app.log.Warn("preview: %v", err)
		}
	}
	if !app.ui.scannedOnce || content != app.ui.scanned {
		app.blocks.Scan(content)
		app.ui.scanned, app.ui.scannedOnce = content, true
	}

	status := app.renderer.Status()
	status.SetState(app.session.State().String())
	status.SetTitle(noteTitle(app.note, content))
	status.SetModified(app.session.Modified())
	status.SetLayout(layoutLabel(st))

	frame := renderer.Frame{
		Content:     content,
		Selection:   app.session.Selection(),
		Head:        app.session.Head(),
		Preview:     lines,
		Split:       st,
		Resizing:    app.session.Split().IsResizing(),
		FollowCaret: app.ui.followCaret,
		ShowCaret:   true,
	}
	// Following the caret scrolls the editor like a wheel does, so the
	// preview is synced and the frame drawn again.
	if app.renderer.Render(frame) && app.session.OnScroll(scrollsync.Editor) {
		app.renderer.Render(frame)
	}
	app.metrics.RecordRender(time.Since(start))
}

// noteTitle is the stored title, or one derived from content for notes
// that have none yet.
func noteTitle(n store.Note, content string) string {
	if n.Title != "" && n.Title != "Untitled" {
		return n.Title
	}
	return store.TitleFrom(content)
}

// layoutLabel describes st for the status line.
func layoutLabel(st split.State) string {
	switch {
	case st.EditorMaximized:
		return "editor"
	case st.PreviewMaximized:
		return "preview"
	default:
		return fmt.Sprintf("split %.0f%%", st.Position)
	}
}
