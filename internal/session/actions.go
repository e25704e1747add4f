package session

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/markpad/internal/engine/textrange"
	"github.com/dshills/markpad/internal/engine/transform"
)

// Action names shared by key bindings and the toolbar.
const (
	ActionBold        = "format.bold"
	ActionItalic      = "format.italic"
	ActionStrike      = "format.strike"
	ActionCode        = "format.code"
	ActionCodeBlock   = "format.codeBlock"
	ActionHeading     = "format.heading"
	ActionQuote       = "format.quote"
	ActionLink        = "format.link"
	ActionRule        = "format.rule"
	ActionBulletList  = "list.bullet"
	ActionOrderedList = "list.ordered"

	ActionIndent         = "edit.indent"
	ActionOutdent        = "edit.outdent"
	ActionNewline        = "edit.newline"
	ActionDeleteBackward = "edit.deleteBackward"
	ActionDeleteForward  = "edit.deleteForward"
	ActionSelectAll      = "edit.selectAll"
	ActionInsert         = "edit.insert"

	ActionUndo = "history.undo"
	ActionRedo = "history.redo"

	ActionSave = "session.save"

	ActionMaximizeEditor  = "layout.maximizeEditor"
	ActionMaximizePreview = "layout.maximizePreview"
	ActionRestore         = "layout.restore"
	ActionToggleEditor    = "layout.toggleEditor"
	ActionTogglePreview   = "layout.togglePreview"

	// PluginPrefix starts the names of script-defined transforms.
	PluginPrefix = "plugin."
)

var formatKinds = map[string]transform.Kind{
	ActionBold:           transform.KindBold,
	ActionItalic:         transform.KindItalic,
	ActionStrike:         transform.KindStrike,
	ActionCode:           transform.KindInlineCode,
	ActionCodeBlock:      transform.KindCodeBlock,
	ActionHeading:        transform.KindHeading,
	ActionQuote:          transform.KindQuote,
	ActionLink:           transform.KindLink,
	ActionRule:           transform.KindRule,
	ActionBulletList:     transform.KindBulletList,
	ActionOrderedList:    transform.KindOrderedList,
	ActionIndent:         transform.KindIndent,
	ActionOutdent:        transform.KindOutdent,
	ActionDeleteBackward: transform.KindDeleteBackward,
	ActionDeleteForward:  transform.KindDeleteForward,
}

// TransformFunc computes a new content and selection. Results are clamped
// before they are installed.
type TransformFunc func(content string, sel textrange.Selection) (transform.Result, error)

// CommandFunc runs an application command. It is called without the
// session lock held and may call back into the session.
type CommandFunc func(s *Session, args map[string]any) error

type customTransform struct {
	label string
	fn    TransformFunc
}

// RegisterTransform adds a named transform, typically "plugin.<script>".
// The label names the history entry.
func (s *Session) RegisterTransform(name, label string, fn TransformFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.knownLocked(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, name)
	}
	if label == "" {
		label = name
	}
	s.transforms[name] = customTransform{label: label, fn: fn}
	return nil
}

// UnregisterTransform removes a named transform.
func (s *Session) UnregisterTransform(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.transforms[name]
	delete(s.transforms, name)
	return ok
}

// RegisterCommand adds a named command.
func (s *Session) RegisterCommand(name string, fn CommandFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.knownLocked(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, name)
	}
	s.commands[name] = fn
	return nil
}

func (s *Session) knownLocked(name string) bool {
	if _, ok := formatKinds[name]; ok {
		return true
	}
	if _, ok := s.transforms[name]; ok {
		return true
	}
	_, ok := s.commands[name]
	return ok
}

// Actions returns the registered transform and command names.
func (s *Session) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.transforms)+len(s.commands))
	for name := range s.transforms {
		names = append(names, name)
	}
	for name := range s.commands {
		names = append(names, name)
	}
	return names
}

// ApplyToolbarAction runs the named action. Key bindings resolve to the
// same names. No-op actions such as undo with an empty history succeed
// silently.
func (s *Session) ApplyToolbarAction(action string, args map[string]any) error {
	if err := s.run(action, args); err != nil {
		return &ActionError{Action: action, Err: err}
	}
	return nil
}

func (s *Session) run(action string, args map[string]any) error {
	if kind, ok := formatKinds[action]; ok {
		op := transform.Op{Kind: kind}
		switch kind {
		case transform.KindHeading:
			level, err := intArg(args, "level")
			if err != nil {
				return err
			}
			op.Level = level
		case transform.KindLink:
			op.URL = stringArg(args, "url")
		case transform.KindIndent, transform.KindOutdent:
			if w, err := intArg(args, "width"); err == nil && w > 0 {
				op.Width = w
			}
		}
		_, err := s.apply(op)
		return err
	}

	switch action {
	case ActionInsert:
		text := stringArg(args, "text")
		if !utf8.ValidString(text) {
			return ErrInvalidText
		}
		return s.Type(text)
	case ActionNewline:
		return s.Type("\n")
	case ActionSelectAll:
		return s.SelectAll()
	case ActionUndo:
		if err := s.ready(); err != nil {
			return err
		}
		s.Undo()
		return nil
	case ActionRedo:
		if err := s.ready(); err != nil {
			return err
		}
		s.Redo()
		return nil
	case ActionSave:
		return s.SaveAsync(context.Background())
	case ActionMaximizeEditor:
		s.split.MaximizeEditor()
		return nil
	case ActionMaximizePreview:
		s.split.MaximizePreview()
		return nil
	case ActionRestore:
		s.split.Restore()
		return nil
	case ActionToggleEditor:
		s.split.ToggleEditor()
		return nil
	case ActionTogglePreview:
		s.split.TogglePreview()
		return nil
	}

	if dir, ok := cursorActions[action]; ok {
		return s.move(dir)
	}

	s.mu.Lock()
	ct, isTransform := s.transforms[action]
	cmd, isCommand := s.commands[action]
	s.mu.Unlock()

	switch {
	case isTransform:
		return s.applyCustom(ct)
	case isCommand:
		return cmd(s, args)
	}
	return ErrUnknownAction
}

func (s *Session) applyCustom(ct customTransform) error {
	s.mu.Lock()
	if !s.state.editable() {
		err := s.stateErrLocked()
		s.mu.Unlock()
		return err
	}
	content, sel := s.content, s.selectionLocked()
	s.mu.Unlock()

	// fn runs without the lock held.
	res, err := ct.fn(content, sel)
	if err != nil {
		return err
	}
	if !utf8.ValidString(res.Content) {
		return fmt.Errorf("%s: %w", ct.label, ErrInvalidText)
	}
	res.Selection = textrange.Clamp(res.Content, res.Selection)

	var events pending
	s.mu.Lock()
	if !s.state.editable() {
		err := s.stateErrLocked()
		s.mu.Unlock()
		return err
	}
	if s.content != content {
		s.mu.Unlock()
		return fmt.Errorf("content changed while %s ran", ct.label)
	}
	s.commitLocked(res, ct.label, false, &events)
	s.mu.Unlock()

	s.publish(events)
	return nil
}

// ready returns nil when the session accepts edits.
func (s *Session) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.editable() {
		return s.stateErrLocked()
	}
	return nil
}

// Type inserts text at the selection as part of a typing burst.
func (s *Session) Type(text string) error {
	if text == "" {
		return nil
	}
	_, err := s.apply(transform.Op{Kind: transform.KindInsert, Text: text})
	return err
}

// SelectAll selects the whole note.
func (s *Session) SelectAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.editable() {
		return s.stateErrLocked()
	}
	s.anchor, s.head = 0, textrange.Len(s.content)
	s.typing = false
	s.goal = -1
	return nil
}

// intArg reads an integer argument. Keymap files decode numbers as int
// (YAML) or float64 (JSON), and toolbars may pass strings.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument %s: %v is not an integer", name, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("argument %s: %w", name, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %s: unsupported type %T", name, v)
	}
}

func stringArg(args map[string]any, name string) string {
	v, ok := args[name]
	if !ok {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}
