package buffer

import "fmt"

// InsertLine inserts text as a new line before line. A line equal to the
// line count appends after the last line.
func (b *Buffer) InsertLine(line uint32, text string) error {
	if int(line) > b.lineCount {
		return fmt.Errorf("line %d: %w", line, ErrOutOfRange)
	}
	if int(line) == b.lineCount {
		last := line - 1
		n, err := b.LineLen(last)
		if err != nil {
			return err
		}
		_, err = b.InsertText(last, n, "\n"+text)
		return err
	}
	_, err := b.InsertText(line, 0, text+"\n")
	return err
}

// InsertLineAfter inserts text as a new line after line.
func (b *Buffer) InsertLineAfter(line uint32, text string) error {
	if !b.HasLine(line) {
		return fmt.Errorf("line %d: %w", line, ErrOutOfRange)
	}
	return b.InsertLine(line+1, text)
}

// DeleteLine removes line and its line ending. Deleting the only line
// clears it.
func (b *Buffer) DeleteLine(line uint32) error {
	n, err := b.LineLen(line)
	if err != nil {
		return err
	}
	switch {
	case b.lineCount == 1:
		return b.DeleteRange(0, 0, 0, n)
	case int(line) == b.lineCount-1:
		prev, err := b.LineLen(line - 1)
		if err != nil {
			return err
		}
		return b.DeleteRange(line-1, prev, line, n)
	}
	return b.DeleteRange(line, 0, line+1, 0)
}

// ReplaceLine replaces the visible content of line with text.
func (b *Buffer) ReplaceLine(line uint32, text string) error {
	n, err := b.LineLen(line)
	if err != nil {
		return err
	}
	// Insert first: it is the only step that can fail.
	if _, err := b.InsertText(line, n, text); err != nil {
		return err
	}
	return b.DeleteRange(line, 0, line, n)
}

// ReplaceChar overwrites the byte at (line, col). Line ending bytes can
// not be written this way.
func (b *Buffer) ReplaceChar(line, col uint32, ch byte) error {
	if ch == sentinel || ch == '\r' || ch == '\n' {
		return ErrInvalidChar
	}
	p, span, err := b.at(line, col)
	if err != nil {
		return err
	}
	if int(col) >= span.content {
		return fmt.Errorf("column %d on line %d: %w", col, line, ErrOutOfRange)
	}
	// p may sit just past the end of its block.
	if blk := b.arena.get(p.id); p.off == blk.used {
		p = pos{id: blk.next}
	}
	b.arena.get(p.id).data[p.off] = ch
	b.revision++
	return nil
}
