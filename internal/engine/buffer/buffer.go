package buffer

import (
	"fmt"
	"io"
)

// Buffer is a segmented line store. See the package documentation for the
// storage layout.
type Buffer struct {
	arena      arena
	head, tail blockID
	blockCount int

	length    int64 // visible bytes, line endings included, sentinels excluded
	lineCount int

	chapters      []blockID
	chapterSize   int
	chaptersStale bool

	capacity  int
	maxBlocks int

	revision RevisionID
}

// NewBuffer creates a buffer holding one empty line.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		capacity:    DefaultBlockCapacity,
		chapterSize: DefaultChapterSize,
		head:        noBlock,
		tail:        noBlock,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.load([]byte{sentinel}, 0)
	return b
}

// NewBufferFromString creates a buffer holding text. If text needs more
// blocks than WithMaxBlocks allows, the buffer is left empty; use
// NewBufferFromReader to get the error instead.
func NewBufferFromString(text string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	_ = b.SetText(text)
	b.revision = 0
	return b
}

// NewBufferFromReader creates a buffer from everything read from r.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading buffer content: %w", err)
	}
	b := NewBuffer(opts...)
	if err := b.SetText(string(data)); err != nil {
		return nil, err
	}
	b.revision = 0
	return b, nil
}

// fillLimit is how many bytes a freshly packed block receives.
func (b *Buffer) fillLimit() int {
	n := b.capacity * loadFillPercent / 100
	if n < 1 {
		n = 1
	}
	return n
}

// blocksFor returns how many packed blocks n stored bytes need.
func (b *Buffer) blocksFor(n int) int {
	fill := b.fillLimit()
	return (n + fill - 1) / fill
}

// load replaces all blocks with stored, packed to the fill limit.
func (b *Buffer) load(stored []byte, length int64) {
	b.arena.reset()
	b.blockCount = 0
	b.chapters = b.chapters[:0]
	b.chaptersStale = false

	fill := b.fillLimit()
	prev := noBlock
	for off := 0; off < len(stored); off += fill {
		end := min(off+fill, len(stored))
		var id blockID
		if prev.valid() {
			id = b.linkAfter(prev)
		} else {
			id = b.arena.alloc(b.capacity)
			b.head, b.tail = id, id
			b.blockCount = 1
			b.chapters = append(b.chapters, id)
		}
		blk := b.arena.get(id)
		blk.used = copy(blk.data, stored[off:end])
		prev = id
	}

	b.refresh(b.head, b.blockCount)
	b.length = length
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	return uint32(b.lineCount)
}

// Len returns the number of visible bytes, line endings included.
func (b *Buffer) Len() ByteOffset {
	return b.length
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return b.length == 0
}

// BlockCount returns the number of storage blocks in use.
func (b *Buffer) BlockCount() int {
	return b.blockCount
}

// Revision returns the current revision.
func (b *Buffer) Revision() RevisionID {
	return b.revision
}

// HasLine returns true if line exists.
func (b *Buffer) HasLine(line uint32) bool {
	return int(line) < b.lineCount
}

// line locates and scans one line, optionally copying its content.
func (b *Buffer) line(line uint32, out *[]byte) (lineSpan, error) {
	if !b.HasLine(line) {
		return lineSpan{}, fmt.Errorf("line %d: %w", line, ErrOutOfRange)
	}
	start, err := b.locate(int(line))
	if err != nil {
		return lineSpan{}, err
	}
	return b.scan(start, out)
}

// at resolves (line, col) to a stored position and the line's span.
func (b *Buffer) at(line, col uint32) (pos, lineSpan, error) {
	span, err := b.line(line, nil)
	if err != nil {
		return pos{}, span, err
	}
	if int(col) > span.content {
		return pos{}, span, fmt.Errorf("column %d on line %d: %w", col, line, ErrOutOfRange)
	}
	p, err := b.advance(span.start, int(col))
	return p, span, err
}

// LineLen returns the number of visible bytes on line, excluding its
// line ending.
func (b *Buffer) LineLen(line uint32) (uint32, error) {
	span, err := b.line(line, nil)
	if err != nil {
		return 0, err
	}
	return uint32(span.content), nil
}

// LineText returns the visible content of line. Copying stops at the first
// line ending byte or sentinel.
func (b *Buffer) LineText(line uint32) (string, error) {
	var out []byte
	if _, err := b.line(line, &out); err != nil {
		return "", err
	}
	return string(out), nil
}

// TextRange returns the text between two positions with original line
// endings. A reversed range on one line yields the empty string; a
// reversed range across lines is an error.
func (b *Buffer) TextRange(startLine, startCol, endLine, endCol uint32) (string, error) {
	s, _, err := b.at(startLine, startCol)
	if err != nil {
		return "", err
	}
	e, _, err := b.at(endLine, endCol)
	if err != nil {
		return "", err
	}
	if startLine == endLine && startCol >= endCol {
		return "", nil
	}
	if endLine < startLine {
		return "", fmt.Errorf("range %d:%d-%d:%d reversed: %w", startLine, startCol, endLine, endCol, ErrOutOfRange)
	}
	return string(b.collect(s, e)), nil
}

// Text returns the whole document.
func (b *Buffer) Text() string {
	tail := b.arena.get(b.tail)
	return string(b.collect(pos{id: b.head}, pos{id: b.tail, off: tail.used}))
}

// collect copies the stored bytes in [s, e) without sentinels.
func (b *Buffer) collect(s, e pos) []byte {
	out := make([]byte, 0, b.distance(s, e))
	for id, off := s.id, s.off; id.valid(); {
		blk := b.arena.get(id)
		if blk == nil {
			break
		}
		end := blk.used
		if id == e.id {
			end = e.off
		}
		for _, c := range blk.data[off:end] {
			if c != sentinel {
				out = append(out, c)
			}
		}
		if id == e.id {
			break
		}
		id, off = blk.next, 0
	}
	return out
}

// LineEnding returns the dominant line ending style of the document.
func (b *Buffer) LineEnding() LineEnding {
	return DetectLineEnding(b.Text())
}

// Validate walks every block and checks the storage invariants.
func (b *Buffer) Validate() error {
	var (
		count  int
		lines  int
		length int64
		prev   = noBlock
	)
	for id := b.head; id.valid(); count++ {
		if count >= b.blockCount {
			return fmt.Errorf("%w: list longer than block count %d", ErrMalformedBlock, b.blockCount)
		}
		blk := b.arena.get(id)
		if blk == nil {
			return fmt.Errorf("%w: dead handle in block list", ErrMalformedBlock)
		}
		if blk.prev != prev {
			return fmt.Errorf("%w: block %d back link broken", ErrMalformedBlock, count)
		}
		if blk.used <= 0 || blk.used > len(blk.data) {
			return fmt.Errorf("%w: block %d uses %d of %d bytes", ErrMalformedBlock, count, blk.used, len(blk.data))
		}
		if n := b.countLines(blk); n != blk.lines {
			return fmt.Errorf("%w: block %d records %d lines, holds %d", ErrMalformedBlock, count, blk.lines, n)
		}
		if blk.firstLine != lines {
			return fmt.Errorf("%w: block %d first line %d, want %d", ErrMalformedBlock, count, blk.firstLine, lines)
		}
		for _, c := range blk.data[:blk.used] {
			if c != sentinel {
				length++
			}
		}
		lines += blk.lines
		prev = id
		id = blk.next
	}

	switch {
	case count != b.blockCount:
		return fmt.Errorf("%w: walked %d blocks, counted %d", ErrMalformedBlock, count, b.blockCount)
	case prev != b.tail:
		return fmt.Errorf("%w: tail handle mismatch", ErrMalformedBlock)
	case lines != b.lineCount:
		return fmt.Errorf("%w: %d lines stored, %d counted", ErrMalformedBlock, lines, b.lineCount)
	case length != b.length:
		return fmt.Errorf("%w: %d bytes stored, %d counted", ErrMalformedBlock, length, b.length)
	case b.arena.get(b.tail).lastByte() != sentinel:
		return fmt.Errorf("%w: document not terminated", ErrMalformedBlock)
	}
	return nil
}
