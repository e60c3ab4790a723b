package engine

import (
	"github.com/dshills/blockedit/internal/engine/buffer"
)

// Option configures a Controller during creation.
type Option func(*Controller)

// WithContent sets the initial content.
func WithContent(content string) Option {
	return func(c *Controller) {
		c.initContent = content
	}
}

// WithBufferOptions passes options through to the underlying buffer.
func WithBufferOptions(opts ...buffer.Option) Option {
	return func(c *Controller) {
		c.bufOpts = append(c.bufOpts, opts...)
	}
}

// WithClipboard sets the clipboard collaborator.
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) {
		if cb != nil {
			c.clipboard = cb
		}
	}
}

// WithRenderer sets the rendering collaborator.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithSingleLine restricts the document to one line. Line breaks typed or
// pasted become a single space.
func WithSingleLine() Option {
	return func(c *Controller) {
		c.singleLine = true
	}
}

// WithLineEnding sets the sequence inserted by BreakLine. By default it is
// detected from the initial content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(c *Controller) {
		c.lineEnding = ending
		c.lineEndingSet = true
	}
}

// WithReadOnly creates a read-only controller.
// Edit operations will return ErrReadOnly; navigation and copy still work.
func WithReadOnly() Option {
	return func(c *Controller) {
		c.readOnly = true
	}
}
