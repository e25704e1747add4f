package session

import (
	"context"
	"time"

	"github.com/dshills/markpad/internal/engine/history"
	"github.com/dshills/markpad/internal/engine/transform"
	"github.com/dshills/markpad/internal/event"
	"github.com/dshills/markpad/internal/input/keymap"
	"github.com/dshills/markpad/internal/layout/scrollsync"
	"github.com/dshills/markpad/internal/layout/split"
	"github.com/dshills/markpad/internal/logging"
)

// PersistFunc stores content. It is the boundary to the note store.
type PersistFunc func(ctx context.Context, content string) error

// DefaultTypingCheckpoint is the pause that ends a typing burst.
const DefaultTypingCheckpoint = time.Second

type options struct {
	id               string
	historyDepth     int
	indentWidth      int
	typingCheckpoint time.Duration
	now              func() time.Time
	keys             *keymap.Registry
	publisher        event.Publisher
	logger           *logging.Logger
	persist          PersistFunc
	editorPane       scrollsync.Pane
	previewPane      scrollsync.Pane
	scrollOpts       []scrollsync.Option
	splitOpts        []split.Option
}

func defaultOptions() options {
	return options{
		historyDepth:     history.DefaultMaxEntries,
		indentWidth:      transform.DefaultIndentWidth,
		typingCheckpoint: DefaultTypingCheckpoint,
		now:              time.Now,
		publisher:        event.Nop{},
		logger:           logging.NullLogger,
	}
}

// Option configures a Session.
type Option func(*options)

// WithID sets the session ID. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithHistoryDepth caps the undo stack.
func WithHistoryDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyDepth = n
		}
	}
}

// WithIndentWidth sets the number of spaces inserted by indent.
func WithIndentWidth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.indentWidth = n
		}
	}
}

// WithTypingCheckpoint sets the pause that ends a typing burst. Zero makes
// every keystroke its own undo step.
func WithTypingCheckpoint(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.typingCheckpoint = d
		}
	}
}

// WithClock sets the time source for typing bursts and history entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithKeymap sets the key binding registry. The built-in keymap is used
// otherwise.
func WithKeymap(r *keymap.Registry) Option {
	return func(o *options) {
		o.keys = r
	}
}

// WithPublisher sets where session events are published.
func WithPublisher(p event.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPersist sets the persistence used by the session.save action.
func WithPersist(fn PersistFunc) Option {
	return func(o *options) {
		o.persist = fn
	}
}

// WithPanes sets the editor and preview pane handles for scroll sync.
func WithPanes(editor, preview scrollsync.Pane) Option {
	return func(o *options) {
		o.editorPane = editor
		o.previewPane = preview
	}
}

// WithScrollOptions passes options to the scroll synchronizer.
func WithScrollOptions(opts ...scrollsync.Option) Option {
	return func(o *options) {
		o.scrollOpts = append(o.scrollOpts, opts...)
	}
}

// WithSplitOptions passes options to the split controller.
func WithSplitOptions(opts ...split.Option) Option {
	return func(o *options) {
		o.splitOpts = append(o.splitOpts, opts...)
	}
}
