package buffer

// Defaults for new buffers.
const (
	DefaultBlockCapacity = 2048
	DefaultChapterSize   = 10

	// loadFillPercent is how full blocks are packed on load and compaction,
	// leaving slack for typing before the first split.
	loadFillPercent = 95
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithBlockCapacity sets the byte capacity of each storage block.
// Non-positive values are ignored.
func WithBlockCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// WithChapterSize sets how many blocks each chapter index entry covers.
// Non-positive values are ignored.
func WithChapterSize(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.chapterSize = n
		}
	}
}

// WithMaxBlocks caps the number of storage blocks. Operations that would
// need more fail with ErrAllocationFailure. Zero means unlimited.
func WithMaxBlocks(n int) Option {
	return func(b *Buffer) {
		if n >= 0 {
			b.maxBlocks = n
		}
	}
}

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped form of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf && cr >= crlf:
		return LineEndingCR
	}
	return LineEndingLF
}
