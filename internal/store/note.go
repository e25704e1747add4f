package store

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Note is a stored note.
type Note struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Revision  int64
}

// Document field paths.
const (
	fieldID        = "id"
	fieldTitle     = "title"
	fieldContent   = "content"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
	fieldRevision  = "revision"
)

// parseNote reads a note document.
func parseNote(raw []byte) (Note, error) {
	if !gjson.ValidBytes(raw) {
		return Note{}, ErrInvalidDocument
	}
	r := gjson.GetManyBytes(raw, fieldID, fieldTitle, fieldContent, fieldCreatedAt, fieldUpdatedAt, fieldRevision)
	if r[0].String() == "" {
		return Note{}, ErrInvalidDocument
	}
	return Note{
		ID:        r[0].String(),
		Title:     r[1].String(),
		Content:   r[2].String(),
		CreatedAt: r[3].Time(),
		UpdatedAt: r[4].Time(),
		Revision:  r[5].Int(),
	}, nil
}

// TitleFrom derives a title from the first non-blank line of content,
// without heading markers.
func TitleFrom(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return "Untitled"
}
