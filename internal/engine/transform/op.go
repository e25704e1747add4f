package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/markpad/internal/engine/textrange"
)

// ErrUnknownKind is returned by Apply for an Op it cannot dispatch.
var ErrUnknownKind = errors.New("unknown transform kind")

// Kind identifies a transform operation.
type Kind uint8

const (
	KindNone Kind = iota
	KindBold
	KindItalic
	KindStrike
	KindInlineCode
	KindCodeBlock
	KindHeading
	KindQuote
	KindLink
	KindRule
	KindBulletList
	KindOrderedList
	KindIndent
	KindOutdent
	KindInsert
	KindDeleteBackward
	KindDeleteForward
)

var kindNames = map[Kind]string{
	KindNone:           "none",
	KindBold:           "bold",
	KindItalic:         "italic",
	KindStrike:         "strike",
	KindInlineCode:     "code",
	KindCodeBlock:      "codeBlock",
	KindHeading:        "heading",
	KindQuote:          "quote",
	KindLink:           "link",
	KindRule:           "rule",
	KindBulletList:     "bullet",
	KindOrderedList:    "ordered",
	KindIndent:         "indent",
	KindOutdent:        "outdent",
	KindInsert:         "insert",
	KindDeleteBackward: "deleteBackward",
	KindDeleteForward:  "deleteForward",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindFromName returns the Kind for a name as produced by String.
// Returns KindNone if the name is not recognized.
func KindFromName(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindNone
}

// Default arguments.
const (
	DefaultLinkURL = "url"
	MaxHeading     = 6
)

// Op describes a transform and its arguments.
type Op struct {
	Kind Kind

	// Level is the heading level (1..6). Zero means 1.
	Level int

	// URL is the link target. Empty means DefaultLinkURL.
	URL string

	// Text is the text inserted by KindInsert.
	Text string

	// Width is the indent width. Zero means DefaultIndentWidth.
	Width int
}

// Label returns a short human-readable description, used for history
// entries and status messages.
func (o Op) Label() string {
	switch o.Kind {
	case KindBold:
		return "Bold"
	case KindItalic:
		return "Italic"
	case KindStrike:
		return "Strikethrough"
	case KindInlineCode:
		return "Inline code"
	case KindCodeBlock:
		return "Code block"
	case KindHeading:
		return fmt.Sprintf("Heading %d", o.headingLevel())
	case KindQuote:
		return "Quote"
	case KindLink:
		return "Link"
	case KindRule:
		return "Horizontal rule"
	case KindBulletList:
		return "Bullet list"
	case KindOrderedList:
		return "Numbered list"
	case KindIndent:
		return "Indent"
	case KindOutdent:
		return "Outdent"
	case KindInsert:
		return "Typing"
	case KindDeleteBackward, KindDeleteForward:
		return "Delete"
	default:
		return o.Kind.String()
	}
}

func (o Op) headingLevel() int {
	switch {
	case o.Level < 1:
		return 1
	case o.Level > MaxHeading:
		return MaxHeading
	default:
		return o.Level
	}
}

// Delimiters returns the before/after strings for wrapping operations.
// ok is false for operations that are not a plain InsertAround.
func (o Op) Delimiters() (before, after string, ok bool) {
	switch o.Kind {
	case KindBold:
		return "**", "**", true
	case KindItalic:
		return "*", "*", true
	case KindStrike:
		return "~~", "~~", true
	case KindInlineCode:
		return "`", "`", true
	case KindCodeBlock:
		return "```\n", "\n```", true
	case KindHeading:
		return strings.Repeat("#", o.headingLevel()) + " ", "", true
	case KindQuote:
		return "> ", "", true
	case KindLink:
		url := o.URL
		if url == "" {
			url = DefaultLinkURL
		}
		return "[", "](" + url + ")", true
	case KindRule:
		return "\n---\n", "", true
	default:
		return "", "", false
	}
}

// Apply runs op against content and sel.
func Apply(content string, sel textrange.Selection, op Op) (Result, error) {
	if before, after, ok := op.Delimiters(); ok {
		return InsertAround(content, sel, before, after), nil
	}

	switch op.Kind {
	case KindBulletList:
		return FormatMultiLineList(content, sel, BulletList), nil
	case KindOrderedList:
		return FormatMultiLineList(content, sel, OrderedList), nil
	case KindIndent:
		return Indent(content, sel, op.Width), nil
	case KindOutdent:
		return Outdent(content, sel, op.Width), nil
	case KindInsert:
		return InsertText(content, sel, op.Text), nil
	case KindDeleteBackward:
		return DeleteBackward(content, sel), nil
	case KindDeleteForward:
		return DeleteForward(content, sel), nil
	default:
		return Result{Content: content, Selection: textrange.Clamp(content, sel)},
			fmt.Errorf("%w: %s", ErrUnknownKind, op.Kind)
	}
}
