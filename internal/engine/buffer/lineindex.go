package buffer

import (
	"fmt"
	"sort"
)

// pos addresses one stored byte. off may equal the block's used count,
// meaning "just past the last byte of this block".
type pos struct {
	id  blockID
	off int
}

// startsLine reports whether the first byte of blk begins a line.
func (b *Buffer) startsLine(blk *block) bool {
	prev := b.arena.get(blk.prev)
	return prev == nil || prev.lastByte() == sentinel
}

// countLines counts the line starts inside blk.
func (b *Buffer) countLines(blk *block) int {
	n := 0
	atStart := b.startsLine(blk)
	for i := 0; i < blk.used; i++ {
		if atStart {
			n++
		}
		atStart = blk.data[i] == sentinel
	}
	return n
}

// refresh recounts n blocks starting at id, then renumbers the first line
// of every following block until the numbering agrees with what is stored.
// An invalid id means the head.
func (b *Buffer) refresh(id blockID, n int) {
	if b.arena.get(id) == nil {
		id = b.head
	}

	first := 0
	if blk := b.arena.get(id); blk != nil {
		if prev := b.arena.get(blk.prev); prev != nil {
			first = prev.firstLine + prev.lines
		}
	}

	for touched := 0; id.valid(); touched++ {
		blk := b.arena.get(id)
		if blk == nil {
			break
		}
		if touched < n {
			blk.lines = b.countLines(blk)
		} else if blk.firstLine == first {
			break
		}
		blk.firstLine = first
		first += blk.lines
		id = blk.next
	}

	tail := b.arena.get(b.tail)
	b.lineCount = tail.firstLine + tail.lines
}

// chapterFor returns the chapter block from which to start walking
// towards line.
func (b *Buffer) chapterFor(line int) blockID {
	if b.chaptersStale || len(b.chapters) == 0 {
		b.rebuildChapters()
	}

	// Last chapter whose first line is at or before the target.
	i := sort.Search(len(b.chapters), func(i int) bool {
		blk := b.arena.get(b.chapters[i])
		return blk == nil || blk.firstLine > line
	}) - 1
	if i < 0 {
		return b.head
	}
	if b.arena.get(b.chapters[i]) == nil {
		b.rebuildChapters()
		return b.head
	}
	return b.chapters[i]
}

func (b *Buffer) rebuildChapters() {
	b.chapters = b.chapters[:0]
	i := 0
	for id := b.head; id.valid() && i < b.blockCount; i++ {
		blk := b.arena.get(id)
		if blk == nil {
			break
		}
		if i%b.chapterSize == 0 {
			b.chapters = append(b.chapters, id)
		}
		id = blk.next
	}
	b.chaptersStale = false
}

// locate returns the position of the first byte of line.
func (b *Buffer) locate(line int) (pos, error) {
	if line < 0 || line >= b.lineCount {
		return pos{}, ErrLineNotFound
	}

	id := b.chapterFor(line)
	for steps := 0; steps <= b.blockCount; steps++ {
		blk := b.arena.get(id)
		if blk == nil {
			return pos{}, fmt.Errorf("%w: dead handle while locating line %d", ErrMalformedBlock, line)
		}
		if line >= blk.firstLine && line < blk.firstLine+blk.lines {
			k := line - blk.firstLine
			atStart := b.startsLine(blk)
			for i := 0; i < blk.used; i++ {
				if atStart {
					if k == 0 {
						return pos{id: id, off: i}, nil
					}
					k--
				}
				atStart = blk.data[i] == sentinel
			}
			return pos{}, fmt.Errorf("%w: line %d not in block", ErrMalformedBlock, line)
		}
		id = blk.next
	}
	return pos{}, fmt.Errorf("%w: walk exceeded block count locating line %d", ErrMalformedBlock, line)
}

// lineSpan describes one stored line.
type lineSpan struct {
	start    pos
	content  int  // visible bytes
	ending   int  // line ending bytes
	last     byte // last line ending byte
	sentinel pos
}

// scan walks the line starting at start. If out is non-nil the visible
// bytes are appended to it.
func (b *Buffer) scan(start pos, out *[]byte) (lineSpan, error) {
	span := lineSpan{start: start}
	id, off := start.id, start.off
	for steps := 0; steps <= b.blockCount; steps++ {
		blk := b.arena.get(id)
		if blk == nil {
			break
		}
		for i := off; i < blk.used; i++ {
			c := blk.data[i]
			switch c {
			case sentinel:
				span.sentinel = pos{id: id, off: i}
				return span, nil
			case '\r', '\n':
				span.ending++
				span.last = c
			default:
				span.content++
				if out != nil {
					*out = append(*out, c)
				}
			}
		}
		id, off = blk.next, 0
	}
	return span, fmt.Errorf("%w: unterminated line", ErrMalformedBlock)
}

// advance moves p forward by n stored bytes.
func (b *Buffer) advance(p pos, n int) (pos, error) {
	for steps := 0; steps <= b.blockCount; steps++ {
		blk := b.arena.get(p.id)
		if blk == nil {
			break
		}
		room := blk.used - p.off
		if n <= room {
			p.off += n
			return p, nil
		}
		n -= room
		p = pos{id: blk.next}
	}
	return p, fmt.Errorf("%w: advanced past end of document", ErrMalformedBlock)
}

// distance counts the stored bytes between a and b, a <= b.
func (b *Buffer) distance(a, z pos) int {
	n := 0
	for id, off := a.id, a.off; id.valid(); {
		blk := b.arena.get(id)
		if blk == nil {
			break
		}
		if id == z.id {
			return n + z.off - off
		}
		n += blk.used - off
		id, off = blk.next, 0
	}
	return n
}

// linkAfter allocates a block and links it after prev.
func (b *Buffer) linkAfter(prev blockID) blockID {
	id := b.arena.alloc(b.capacity)
	blk := b.arena.get(id)
	p := b.arena.get(prev)

	blk.prev = prev
	blk.next = p.next
	if nb := b.arena.get(p.next); nb != nil {
		nb.prev = id
	}
	p.next = id
	b.blockCount++

	if prev == b.tail {
		b.tail = id
		if !b.chaptersStale && (b.blockCount-1)%b.chapterSize == 0 {
			b.chapters = append(b.chapters, id)
		}
	} else {
		b.chaptersStale = true
	}
	return id
}

// unlink removes a block from the list and frees it.
func (b *Buffer) unlink(id blockID) {
	blk := b.arena.get(id)
	if blk == nil {
		return
	}
	if p := b.arena.get(blk.prev); p != nil {
		p.next = blk.next
	} else {
		b.head = blk.next
	}
	if n := b.arena.get(blk.next); n != nil {
		n.prev = blk.prev
	} else {
		b.tail = blk.prev
	}
	b.arena.release(id)
	b.blockCount--
	b.chaptersStale = true
}
