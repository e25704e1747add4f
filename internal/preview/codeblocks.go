package preview

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/dshills/markpad/internal/engine/textrange"
)

// ErrNoCodeBlock is returned by CopyAt when the offset is outside every
// fenced block.
var ErrNoCodeBlock = errors.New("no code block at caret")

// CodeBlock is a fenced block found in the note.
type CodeBlock struct {
	ID   int
	Lang string
	Code string

	// Start and End span the block including its fences, in code units.
	Start int
	End   int
}

// Contains reports whether offset falls inside the block.
func (b CodeBlock) Contains(offset int) bool {
	return offset >= b.Start && offset <= b.End
}

// CodeBlocks tracks the code blocks of the previewed note and which of
// them were copied.
type CodeBlocks struct {
	mu     sync.Mutex
	next   int
	blocks []CodeBlock
	copied map[int]bool
	write  func(string) error
}

// NewCodeBlocks creates a tracker that copies with the system clipboard.
func NewCodeBlocks() *CodeBlocks {
	return &CodeBlocks{
		copied: make(map[int]bool),
		write:  clipboard.WriteAll,
	}
}

// SetWriter replaces the clipboard writer.
func (c *CodeBlocks) SetWriter(write func(string) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.write = write
}

// Scan extracts the fenced blocks of content. Every block gets a fresh ID
// and earlier copied markers are dropped.
func (c *CodeBlocks) Scan(content string) []CodeBlock {
	found := parseFences(content)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range found {
		c.next++
		found[i].ID = c.next
	}
	c.blocks = found
	c.copied = make(map[int]bool)
	return append([]CodeBlock(nil), found...)
}

// Blocks returns the blocks from the last Scan.
func (c *CodeBlocks) Blocks() []CodeBlock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CodeBlock(nil), c.blocks...)
}

// At returns the block containing offset.
func (c *CodeBlocks) At(offset int) (CodeBlock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range c.blocks {
		if b.Contains(offset) {
			return b, true
		}
	}
	return CodeBlock{}, false
}

// Copied reports whether the block with id was copied since the last Scan.
func (c *CodeBlocks) Copied(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied[id]
}

// CopyAt copies the code of the block containing offset to the clipboard.
func (c *CodeBlocks) CopyAt(offset int) (CodeBlock, error) {
	b, ok := c.At(offset)
	if !ok {
		return CodeBlock{}, ErrNoCodeBlock
	}

	c.mu.Lock()
	write := c.write
	c.mu.Unlock()

	if err := write(b.Code); err != nil {
		return b, fmt.Errorf("copy block %d: %w", b.ID, err)
	}

	c.mu.Lock()
	c.copied[b.ID] = true
	c.mu.Unlock()
	return b, nil
}

// parseFences finds ``` and ~~~ fenced blocks. An unclosed fence runs to
// the end of the content.
func parseFences(content string) []CodeBlock {
	var blocks []CodeBlock
	var (
		open   bool
		fence  string
		lang   string
		start  int
		code   []string
		offset int
	)

	lines := strings.SplitAfter(content, "\n")
	for _, raw := range lines {
		if raw == "" {
			continue
		}
		line := strings.TrimRight(raw, "\r\n")
		trimmed := strings.TrimLeft(line, " ")
		lineLen := textrange.Len(raw)

		switch {
		case !open && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")):
			open = true
			fence = trimmed[:3]
			lang = strings.TrimSpace(strings.TrimLeft(trimmed, fence[:1]))
			start = offset
			code = code[:0]
		case open && strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "":
			blocks = append(blocks, CodeBlock{
				Lang:  lang,
				Code:  strings.Join(code, "\n"),
				Start: start,
				End:   offset + textrange.Len(line),
			})
			open = false
		case open:
			code = append(code, line)
		}
		offset += lineLen
	}

	if open {
		blocks = append(blocks, CodeBlock{
			Lang:  lang,
			Code:  strings.Join(code, "\n"),
			Start: start,
			End:   offset,
		})
	}
	return blocks
}
