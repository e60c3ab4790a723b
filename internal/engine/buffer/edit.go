package buffer

import "fmt"

// encoded is inserted text in storage form.
type encoded struct {
	stored  []byte
	visible int64 // bytes excluding sentinels
	breaks  int   // line breaks
	tail    int   // visible bytes after the last break
}

// encode converts text to storage form. Every "\n", "\r" or "\r\n" is one
// line break, kept as given and followed by a sentinel. NUL bytes are
// dropped.
func encode(text string) encoded {
	enc := encoded{stored: make([]byte, 0, len(text)+len(text)/16+1)}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case sentinel:
			continue
		case '\r':
			enc.stored = append(enc.stored, '\r')
			enc.visible++
			if i+1 < len(text) && text[i+1] == '\n' {
				enc.stored = append(enc.stored, '\n')
				enc.visible++
				i++
			}
			enc.stored = append(enc.stored, sentinel)
			enc.breaks++
			enc.tail = 0
		case '\n':
			enc.stored = append(enc.stored, '\n', sentinel)
			enc.visible++
			enc.breaks++
			enc.tail = 0
		default:
			enc.stored = append(enc.stored, c)
			enc.visible++
			enc.tail++
		}
	}
	return enc
}

// SetText replaces the whole document. Blocks are repacked with slack for
// later edits.
func (b *Buffer) SetText(text string) error {
	enc := encode(text)
	enc.stored = append(enc.stored, sentinel)
	if b.maxBlocks > 0 && b.blocksFor(len(enc.stored)) > b.maxBlocks {
		return fmt.Errorf("loading %d bytes: %w", len(text), ErrAllocationFailure)
	}
	b.load(enc.stored, enc.visible)
	b.revision++
	return nil
}

// InsertText inserts text at (line, col) and returns the position just
// after it.
func (b *Buffer) InsertText(line, col uint32, text string) (Point, error) {
	p, _, err := b.at(line, col)
	if err != nil {
		return Point{}, err
	}

	enc := encode(text)
	if len(enc.stored) == 0 {
		return Point{Line: line, Column: col}, nil
	}
	if err := b.insertAt(p, enc.stored); err != nil {
		return Point{}, err
	}
	b.length += enc.visible
	b.revision++

	if enc.breaks == 0 {
		return Point{Line: line, Column: col + uint32(enc.tail)}, nil
	}
	end := Point{Line: line + uint32(enc.breaks), Column: uint32(enc.tail)}

	// A trailing "\r" may now sit before a stored "\n", or a leading "\n"
	// after a stored "\r". The position after the text stays valid: it
	// becomes the start of the line after the joined ending.
	if _, err := b.joinCR(end.Line); err != nil {
		return Point{}, err
	}
	if col == 0 {
		joined, err := b.joinCR(line)
		if err != nil {
			return Point{}, err
		}
		if joined {
			end.Line--
		}
	}
	return end, nil
}

// joinCR merges line into the line before it when that line ends in a
// lone "\r" and line holds nothing but "\n", so the pair is stored as one
// "\r\n" ending. It reports whether the lines were merged.
func (b *Buffer) joinCR(line uint32) (bool, error) {
	if line == 0 || !b.HasLine(line) {
		return false, nil
	}
	prev, err := b.line(line-1, nil)
	if err != nil {
		return false, err
	}
	if prev.ending != 1 || prev.last != '\r' {
		return false, nil
	}
	cur, err := b.line(line, nil)
	if err != nil {
		return false, err
	}
	if cur.content != 0 || cur.ending != 1 || cur.last != '\n' {
		return false, nil
	}

	end, err := b.advance(prev.sentinel, 1)
	if err != nil {
		return false, err
	}
	b.deleteBetween(prev.sentinel, end)
	return true, nil
}

// InsertChar inserts one byte at (line, col). "\n" and "\r" split the line.
func (b *Buffer) InsertChar(line, col uint32, ch byte) error {
	if ch == sentinel {
		return ErrInvalidChar
	}
	_, err := b.InsertText(line, col, string([]byte{ch}))
	return err
}

// insertAt splices data into the block list at p. When the block cannot
// take it, the block is split: the bytes after p plus data spill into new
// blocks linked after it.
func (b *Buffer) insertAt(p pos, data []byte) error {
	blk := b.arena.get(p.id)
	if blk == nil {
		return fmt.Errorf("%w: insert into dead block", ErrMalformedBlock)
	}

	if blk.used+len(data) <= len(blk.data) {
		copy(blk.data[p.off+len(data):], blk.data[p.off:blk.used])
		copy(blk.data[p.off:], data)
		blk.used += len(data)
		b.refresh(p.id, 2)
		return nil
	}

	spill := make([]byte, 0, len(data)+blk.used-p.off)
	spill = append(spill, data...)
	spill = append(spill, blk.data[p.off:blk.used]...)

	keep := min(max(b.fillLimit()-p.off, 0), len(spill))
	added := b.blocksFor(len(spill) - keep)
	if b.maxBlocks > 0 && b.blockCount+added > b.maxBlocks {
		return fmt.Errorf("splitting block for %d bytes: %w", len(data), ErrAllocationFailure)
	}

	blk.used = p.off + copy(blk.data[p.off:], spill[:keep])
	rest := spill[keep:]
	prev := p.id
	fill := b.fillLimit()
	for len(rest) > 0 {
		id := b.linkAfter(prev)
		nb := b.arena.get(id)
		nb.used = copy(nb.data[:min(fill, len(rest))], rest)
		rest = rest[nb.used:]
		prev = id
	}

	b.refresh(p.id, added+2)
	return nil
}

// DeleteChar deletes the byte at (line, col). At the end of a line the
// following line is merged into it.
func (b *Buffer) DeleteChar(line, col uint32) error {
	n, err := b.LineLen(line)
	if err != nil {
		return err
	}
	switch {
	case col > n:
		return fmt.Errorf("column %d on line %d: %w", col, line, ErrOutOfRange)
	case col < n:
		return b.DeleteRange(line, col, line, col+1)
	case int(line)+1 < b.lineCount:
		return b.DeleteRange(line, col, line+1, 0)
	}
	return fmt.Errorf("delete at end of document: %w", ErrOutOfRange)
}

// DeleteRange deletes the text between two positions. Line endings in the
// range are removed with it, merging the boundary lines. If the deletion
// leaves a lone "\r" ending right before a "\n" line, the two become one
// "\r\n" ending and (startLine, 0) addresses the line after it.
func (b *Buffer) DeleteRange(startLine, startCol, endLine, endCol uint32) error {
	s, _, err := b.at(startLine, startCol)
	if err != nil {
		return err
	}
	e, _, err := b.at(endLine, endCol)
	if err != nil {
		return err
	}
	if startLine == endLine && startCol >= endCol {
		return nil
	}
	if endLine < startLine {
		return fmt.Errorf("range %d:%d-%d:%d reversed: %w", startLine, startCol, endLine, endCol, ErrOutOfRange)
	}

	removed := b.distance(s, e) - int(endLine-startLine)
	b.deleteBetween(s, e)
	b.length -= int64(removed)
	b.revision++

	if startCol == 0 {
		if _, err := b.joinCR(startLine); err != nil {
			return err
		}
	}
	return nil
}

// deleteBetween removes the stored bytes in [s, e).
func (b *Buffer) deleteBetween(s, e pos) {
	sb := b.arena.get(s.id)
	anchor := sb.prev

	if s.id == e.id {
		copy(sb.data[s.off:], sb.data[e.off:sb.used])
		sb.used -= e.off - s.off
		if sb.used == 0 {
			b.unlink(s.id)
			b.refresh(anchor, 2)
			return
		}
		b.refresh(s.id, 2)
		return
	}

	sb.used = s.off
	for id := sb.next; id != e.id; {
		next := b.arena.get(id).next
		b.unlink(id)
		id = next
	}

	eb := b.arena.get(e.id)
	copy(eb.data, eb.data[e.off:eb.used])
	eb.used -= e.off

	switch {
	case sb.used+eb.used <= len(sb.data):
		copy(sb.data[sb.used:], eb.data[:eb.used])
		sb.used += eb.used
		b.unlink(e.id)
		if sb.used == 0 {
			b.unlink(s.id)
			b.refresh(anchor, 2)
			return
		}
	case sb.used == 0:
		b.unlink(s.id)
		b.refresh(anchor, 2)
		return
	}
	b.refresh(s.id, 3)
}

// MergeLine joins line with the line after it. Merging the last line is a
// no-op.
func (b *Buffer) MergeLine(line uint32) error {
	n, err := b.LineLen(line)
	if err != nil {
		return err
	}
	if int(line)+1 >= b.lineCount {
		return nil
	}
	return b.DeleteRange(line, n, line+1, 0)
}

// Compact repacks the document into as few blocks as the fill limit
// allows. It fails without changes if repacking needs more blocks than
// WithMaxBlocks permits.
func (b *Buffer) Compact() error {
	stored := make([]byte, 0, b.blockCount*b.capacity)
	for id := b.head; id.valid(); {
		blk := b.arena.get(id)
		if blk == nil {
			return fmt.Errorf("%w: dead handle while compacting", ErrMalformedBlock)
		}
		stored = append(stored, blk.data[:blk.used]...)
		id = blk.next
	}
	if b.maxBlocks > 0 && b.blocksFor(len(stored)) > b.maxBlocks {
		return fmt.Errorf("compacting %d bytes: %w", len(stored), ErrAllocationFailure)
	}
	b.load(stored, b.length)
	return nil
}
