package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/dshills/markpad/internal/logging"
	"github.com/dshills/markpad/internal/session"
)

const ext = ".json"

// Store is a directory of note documents.
// All methods are safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
	log *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l.WithComponent("store")
		}
	}
}

// Open returns a store rooted at dir, creating it if needed.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, opErr("open", "", err)
	}
	s := &Store{
		dir: dir,
		now: time.Now,
		log: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+ext)
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Create stores a new note. An empty title is derived from content.
func (s *Store) Create(ctx context.Context, title, content string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, opErr("create", "", err)
	}
	if !utf8.ValidString(content) {
		return Note{}, opErr("create", "", ErrInvalidContent)
	}
	if title == "" {
		title = TitleFrom(content)
	}

	now := s.now().UTC()
	n := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Revision:  1,
	}

	raw := []byte("{}")
	var err error
	for _, f := range []struct {
		path  string
		value any
	}{
		{fieldID, n.ID},
		{fieldTitle, n.Title},
		{fieldContent, n.Content},
		{fieldCreatedAt, stamp(n.CreatedAt)},
		{fieldUpdatedAt, stamp(n.UpdatedAt)},
		{fieldRevision, n.Revision},
	} {
		if raw, err = sjson.SetBytes(raw, f.path, f.value); err != nil {
			return Note{}, opErr("create", n.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(n.ID, raw); err != nil {
		return Note{}, opErr("create", n.ID, err)
	}
	s.log.Info("created note %s", n.ID)
	return n, nil
}

// Get loads a note.
func (s *Store) Get(ctx context.Context, id string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, opErr("get", id, err)
	}
	if err := checkID(id); err != nil {
		return Note{}, opErr("get", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.read(id)
	if err != nil {
		return Note{}, opErr("get", id, err)
	}
	n, err := parseNote(raw)
	if err != nil {
		return Note{}, opErr("get", id, err)
	}
	return n, nil
}

// List returns all notes, most recently updated first. Unreadable
// documents are logged and skipped.
func (s *Store) List(ctx context.Context) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, opErr("list", "", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, opErr("list", "", err)
	}

	var notes []Note
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if checkID(id) != nil {
			continue
		}
		raw, err := s.read(id)
		if err != nil {
			s.log.Warn("list: read %s: %v", name, err)
			continue
		}
		n, err := parseNote(raw)
		if err != nil {
			s.log.Warn("list: parse %s: %v", name, err)
			continue
		}
		notes = append(notes, n)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// SaveContent replaces the content of a note, bumping its revision and
// update time. Other fields in the document are preserved.
func (s *Store) SaveContent(ctx context.Context, id, content string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, opErr("save", id, err)
	}
	if err := checkID(id); err != nil {
		return Note{}, opErr("save", id, err)
	}
	if !utf8.ValidString(content) {
		return Note{}, opErr("save", id, ErrInvalidContent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.read(id)
	if err != nil {
		return Note{}, opErr("save", id, err)
	}
	n, err := parseNote(raw)
	if err != nil {
		return Note{}, opErr("save", id, err)
	}

	n.Content = content
	n.UpdatedAt = s.now().UTC()
	n.Revision++

	if raw, err = sjson.SetBytes(raw, fieldContent, n.Content); err == nil {
		if raw, err = sjson.SetBytes(raw, fieldUpdatedAt, stamp(n.UpdatedAt)); err == nil {
			raw, err = sjson.SetBytes(raw, fieldRevision, n.Revision)
		}
	}
	if err != nil {
		return Note{}, opErr("save", id, err)
	}
	if err := s.write(id, raw); err != nil {
		return Note{}, opErr("save", id, err)
	}
	s.log.Debug("saved note %s revision %d", id, n.Revision)
	return n, nil
}

// Rename changes a note's title.
func (s *Store) Rename(ctx context.Context, id, title string) error {
	if err := ctx.Err(); err != nil {
		return opErr("rename", id, err)
	}
	if err := checkID(id); err != nil {
		return opErr("rename", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.read(id)
	if err != nil {
		return opErr("rename", id, err)
	}
	if raw, err = sjson.SetBytes(raw, fieldTitle, title); err != nil {
		return opErr("rename", id, err)
	}
	if err := s.write(id, raw); err != nil {
		return opErr("rename", id, err)
	}
	return nil
}

// Delete removes a note.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return opErr("delete", id, err)
	}
	if err := checkID(id); err != nil {
		return opErr("delete", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrNotFound
		}
		return opErr("delete", id, err)
	}
	s.log.Info("deleted note %s", id)
	return nil
}

// Persister returns a session persistence function that saves into note id.
func (s *Store) Persister(id string) session.PersistFunc {
	return func(ctx context.Context, content string) error {
		_, err := s.SaveContent(ctx, id, content)
		return err
	}
}

func (s *Store) read(id string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return raw, err
}

// write replaces the document atomically.
func (s *Store) write(id string, raw []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, s.path(id)); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
