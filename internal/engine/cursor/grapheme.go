package cursor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// nextBoundary returns the byte offset of the grapheme cluster boundary
// after col.
func nextBoundary(s string, col int) int {
	if col >= len(s) {
		return len(s)
	}
	if s[col] < utf8.RuneSelf && (col+1 == len(s) || s[col+1] < utf8.RuneSelf) {
		return col + 1
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[col:], -1)
	return col + len(cluster)
}

// prevBoundary returns the byte offset of the grapheme cluster boundary
// before col.
func prevBoundary(s string, col int) int {
	if col <= 0 {
		return 0
	}
	if col > len(s) {
		col = len(s)
	}
	if s[col-1] < utf8.RuneSelf && (col == 1 || s[col-2] < utf8.RuneSelf) {
		return col - 1
	}

	state := -1
	for i := 0; i < col; {
		cluster, _, _, st := uniseg.FirstGraphemeClusterInString(s[i:], state)
		if i+len(cluster) >= col {
			return i
		}
		i += len(cluster)
		state = st
	}
	return 0
}

// snap returns the largest grapheme cluster boundary at or before col.
func snap(s string, col int) int {
	if col >= len(s) {
		return len(s)
	}
	if col <= 0 || s[col] < utf8.RuneSelf && s[col-1] < utf8.RuneSelf {
		return max(col, 0)
	}

	state := -1
	for i := 0; i < len(s); {
		cluster, _, _, st := uniseg.FirstGraphemeClusterInString(s[i:], state)
		if i+len(cluster) > col {
			return i
		}
		i += len(cluster)
		state = st
	}
	return len(s)
}
