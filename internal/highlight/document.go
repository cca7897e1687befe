package highlight

import (
	"strconv"
	"strings"

	"logviewer/internal/errors"
)

// Block is one line of the displayed text.
type Block struct {
	Text   string
	Spans  []Span
	Marked bool
}

// Document is the text pane's model: the content split into blocks, the
// current syntax spans, the goto-line mark and the cursor block.
type Document struct {
	path        string
	blocks      []Block
	marked      int
	cursor      int
	highlighted bool
}

// NewDocument splits text into blocks on "\n".
func NewDocument(path, text string) *Document {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, len(lines))
	for i, line := range lines {
		blocks[i] = Block{Text: line}
	}
	return &Document{path: path, blocks: blocks, marked: -1}
}

// Text joins the blocks back; it always equals the text given to
// NewDocument.
func (d *Document) Text() string {
	lines := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		lines[i] = b.Text
	}
	return strings.Join(lines, "\n")
}

// Path is the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// Blocks returns the blocks; callers must not modify them.
func (d *Document) Blocks() []Block { return d.blocks }

// BlockCount returns the number of blocks.
func (d *Document) BlockCount() int { return len(d.blocks) }

// Highlighted reports whether syntax spans are applied.
func (d *Document) Highlighted() bool { return d.highlighted }

// Cursor returns the block holding the text cursor.
func (d *Document) Cursor() int { return d.cursor }

// MarkedBlock returns the goto-line block or -1.
func (d *Document) MarkedBlock() int { return d.marked }

// ApplyHighlight re-runs engine over every block.
func (d *Document) ApplyHighlight(engine Engine) {
	texts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		texts[i] = b.Text
	}
	spans := engine.Highlight(d.path, texts)
	for i := range d.blocks {
		if i < len(spans) {
			d.blocks[i].Spans = spans[i]
		} else {
			d.blocks[i].Spans = nil
		}
	}
	d.highlighted = true
}

// ClearHighlight drops every syntax span; the text is untouched.
func (d *Document) ClearHighlight() {
	for i := range d.blocks {
		d.blocks[i].Spans = nil
	}
	d.highlighted = false
}

// MarkBlock puts the goto mark on block index, clamped to the document,
// and moves the cursor there. Views scroll so the cursor block is the
// first visible line. The previous mark is removed.
func (d *Document) MarkBlock(index int) int {
	if index < 0 {
		index = 0
	}
	if index >= len(d.blocks) {
		index = len(d.blocks) - 1
	}
	if d.marked >= 0 && d.marked < len(d.blocks) {
		d.blocks[d.marked].Marked = false
	}
	d.blocks[index].Marked = true
	d.marked = index

	d.cursor = index
	return index
}

// ParseLine turns the goto field into a 0-indexed block number. An empty
// field returns ok=false and no error.
func ParseLine(input string) (index int, ok bool, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false, nil
	}
	n, convErr := strconv.Atoi(input)
	if convErr != nil {
		return 0, false, errors.Wrapf(convErr, "invalid line number %q", input)
	}
	if n < 0 {
		return 0, false, errors.Newf("invalid line number %q", input)
	}
	if n == 0 {
		return 0, true, nil
	}
	return n - 1, true, nil
}
