// Package app runs the blockedit terminal editor: a multi-line editing
// widget over one document, a status bar, and a message row that hosts
// the go-to-line and save-as prompts.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/dshills/blockedit/internal/config"
	"github.com/dshills/blockedit/internal/config/notify"
	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
	"github.com/dshills/blockedit/internal/renderer/statusline"
	"github.com/dshills/blockedit/internal/widget"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptGoTo
	promptSaveAs
)

// Options configures an Application.
type Options struct {
	// Path is the file to edit. It need not exist yet; empty starts an
	// unnamed document.
	Path string
	// Config defaults to the built-in settings.
	Config *config.Config
	// Logger defaults to a logger that discards everything.
	Logger *Logger
	// Clipboard defaults to an in-memory clipboard.
	Clipboard engine.Clipboard
}

// Application owns the widgets and runs the event loop. All methods except
// Run must be called from the goroutine running the loop, or before it
// starts.
type Application struct {
	backend backend.Backend
	cfg     *config.Config
	log     *Logger

	doc    *Document
	editor *widget.TextEdit
	entry  *widget.TextEntry
	status *statusline.StatusLine
	prompt promptKind

	subs          []*notify.Subscription
	width, height int
	running       atomic.Bool
	quitArmed     bool
	quit          bool
}

// New creates the editor on b, which must already be initialized.
func New(b backend.Backend, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New(config.WithEnvPrefix(""))
	}
	log := opts.Logger
	if log == nil {
		log = NullLogger()
	}

	content, err := ReadFile(opts.Path)
	if err != nil {
		return nil, err
	}
	theme, err := cfg.Theme().Theme()
	if err != nil {
		return nil, NewOperationError("load", "theme", err)
	}

	e := cfg.Editor()
	wopts := widget.Options{
		DoubleClickTimeout: e.DoubleClickTimeout,
		TabWidth:           e.TabWidth,
		LineNumbers:        e.LineNumbers,
		ScrollMargin:       e.ScrollMargin,
		Theme:              theme,
		ReadOnly:           e.ReadOnly,
		Clipboard:          opts.Clipboard,
		BufferOptions:      cfg.Buffer().Options(),
	}
	wopts.LineEnding, wopts.FixedLineEnding = e.LineEndingOverride()

	a := &Application{
		backend: b,
		cfg:     cfg,
		log:     log.WithComponent("app"),
		status:  statusline.New(),
	}
	a.width, a.height = b.Size()

	a.editor, err = widget.NewTextEdit(b, a.editorRect(), content, wopts)
	if err != nil {
		opErr := NewOperationError("open", opts.Path, err)
		if errors.Is(err, buffer.ErrAllocationFailure) {
			opErr = opErr.WithContext("larger than buffer.maxBlocks allows")
		}
		return nil, opErr
	}
	a.editor.Focus()

	eopts := wopts
	eopts.ReadOnly = false
	eopts.BufferOptions = nil
	eopts.FixedLineEnding = false
	a.entry, err = widget.NewTextEntry(b, core.RectFromSize(a.height-1, 0, 1, a.width), "", eopts)
	if err != nil {
		return nil, NewOperationError("create", "prompt", err)
	}
	a.entry.OnSubmit = a.submitPrompt
	a.entry.OnCancel = a.closePrompt

	a.doc = NewDocument(opts.Path, a.editor.Controller())

	// Observers run on the watcher goroutine; the change is handed to the
	// loop as an interrupt.
	a.subs = append(a.subs, cfg.Subscribe(func(ch notify.Change) {
		b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: ch})
	}))
	return a, nil
}

// Document returns the edited document.
func (a *Application) Document() *Document { return a.doc }

// Editor returns the editing widget.
func (a *Application) Editor() *widget.TextEdit { return a.editor }

// Status returns the status line.
func (a *Application) Status() *statusline.StatusLine { return a.status }

func (a *Application) editorRect() core.ScreenRect {
	return core.RectFromSize(0, 0, max(a.height-a.status.Height(), 0), a.width)
}

// Run draws the editor and handles events until the user quits, the
// backend closes or ctx is done.
func (a *Application) Run(ctx context.Context) (err error) {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	// PollEvent blocks, so cancellation is delivered as an empty interrupt.
	stop := context.AfterFunc(ctx, func() {
		a.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			a.log.Error("%v", err)
		}
	}()

	a.log.WithField("document", a.doc.ID).Info("editing %q", a.doc.Path)
	a.quit = false
	a.draw()
	for !a.quit {
		ev := a.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			return nil
		}
		if err := a.HandleEvent(ev); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		a.draw()
	}
	a.log.Info("quit")
	return nil
}

// Close drops the settings subscriptions.
func (a *Application) Close() {
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	a.subs = nil
}

// HandleEvent applies one event. Errors from editing are shown on the
// message row, not returned.
func (a *Application) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		a.resize(ev.Width, ev.Height)
	case backend.EventFocus:
		a.log.Debug("terminal focus %v", ev.Focused)
	case backend.EventInterrupt:
		a.handleInterrupt(ev.Data)
	case backend.EventKey:
		a.handleKey(ev)
	case backend.EventPaste:
		_, err := a.target().HandleEvent(ev)
		a.report(err)
	case backend.EventMouse:
		a.handleMouse(ev)
	}
	return nil
}

func (a *Application) target() widget.Widget {
	if a.prompt != promptNone {
		return a.entry
	}
	return a.editor
}

func (a *Application) handleKey(ev backend.Event) {
	if a.prompt == promptNone {
		a.status.ClearMessage()
		if ev.Key == backend.KeyRune && ev.Mod.Has(backend.ModCtrl) {
			switch unicode.ToLower(ev.Rune) {
			case 'q':
				a.requestQuit()
				return
			case 's':
				a.quitArmed = false
				a.save()
				return
			case 'g':
				a.quitArmed = false
				a.openPrompt(promptGoTo, "Go to line: ")
				return
			}
		}
	}
	a.quitArmed = false
	_, err := a.target().HandleEvent(ev)
	a.report(err)
}

func (a *Application) handleMouse(ev backend.Event) {
	if ev.MouseButton == backend.MouseNone {
		// A release ends the gesture wherever it started.
		_, _ = a.entry.HandleEvent(ev)
		_, _ = a.editor.HandleEvent(ev)
		return
	}
	if a.prompt != promptNone && a.entry.Contains(ev.MouseX, ev.MouseY) {
		_, err := a.entry.HandleEvent(ev)
		a.report(err)
		return
	}
	_, err := a.editor.HandleEvent(ev)
	a.report(err)
}

func (a *Application) handleInterrupt(data any) {
	switch d := data.(type) {
	case notify.Change:
		a.applySettings(d)
	case error:
		a.log.Error("settings: %v", d)
		a.status.SetMessage("settings: "+d.Error(), statusline.MessageError)
	}
}

// applySettings updates the widgets for settings that changed while
// running. Buffer, readOnly and lineEnding settings apply to the next
// file opened.
func (a *Application) applySettings(ch notify.Change) {
	a.log.Info("settings changed: %s", strings.Join(ch.Paths, ", "))

	if ch.Affects("editor") {
		e := a.cfg.Editor()
		a.editor.SetTabWidth(e.TabWidth)
		a.entry.SetTabWidth(e.TabWidth)
		a.editor.SetLineNumbers(e.LineNumbers)
		a.editor.SetDoubleClickTimeout(e.DoubleClickTimeout)
		a.entry.SetDoubleClickTimeout(e.DoubleClickTimeout)
	}
	if ch.Affects("theme") {
		theme, err := a.cfg.Theme().Theme()
		if err != nil {
			a.report(NewOperationError("load", "theme", err))
		} else {
			a.editor.SetTheme(theme)
			a.entry.SetTheme(theme)
		}
	}
	if ch.Affects("logging.level") {
		a.log.SetLevel(ParseLogLevel(a.cfg.Logging().Level))
	}
}

func (a *Application) resize(width, height int) {
	a.width, a.height = width, height
	a.backend.Clear()
	a.editor.SetRect(a.editorRect())
}

// report shows err on the message row.
func (a *Application) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, engine.ErrReadOnly) {
		a.backend.Beep()
		a.status.SetMessage("Document is read-only", statusline.MessageWarning)
		return
	}
	a.log.Error("%v", err)
	a.status.SetMessage(err.Error(), statusline.MessageError)
}

func (a *Application) requestQuit() {
	if a.doc.IsModified() && !a.quitArmed {
		a.quitArmed = true
		a.log.Warn("%v", NewOperationError("quit", a.doc.Path, ErrUnsavedChanges).WithContext("confirmation needed"))
		a.status.SetMessage("Unsaved changes; press Ctrl+Q again to quit", statusline.MessageWarning)
		return
	}
	a.quit = true
}

func (a *Application) save() {
	if a.doc.IsScratch() {
		a.openPrompt(promptSaveAs, "Save as: ")
		return
	}
	if err := a.doc.Save(); err != nil {
		a.report(err)
		return
	}
	a.saved()
}

func (a *Application) saved() {
	lines := a.editor.Controller().LineCount()
	a.log.Info("wrote %d lines to %s", lines, a.doc.Path)
	a.status.SetMessage(fmt.Sprintf("Wrote %d lines to %s", lines, a.doc.Name), statusline.MessageInfo)
}

func (a *Application) openPrompt(kind promptKind, label string) {
	a.prompt = kind
	a.status.SetPrompt(label)
	// Size the entry before any input so its pan uses the real width.
	a.entry.SetRect(a.promptRect(core.NewCellMeasurer(core.DefaultTabWidth).MeasureText(label)))
	a.report(a.entry.SetText(""))
	a.entry.Focus()
}

func (a *Application) promptRect(col int) core.ScreenRect {
	return core.RectFromSize(a.height-1, col, 1, max(a.width-col, 0))
}

func (a *Application) closePrompt() {
	a.prompt = promptNone
	a.status.SetPrompt("")
	a.report(a.entry.Blur())
}

func (a *Application) submitPrompt(text string) {
	kind := a.prompt
	a.closePrompt()
	text = strings.TrimSpace(text)

	switch kind {
	case promptGoTo:
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			a.report(NewOperationError("go to", text, ErrInvalidLine))
			return
		}
		a.report(a.editor.GoToLine(uint32(n - 1)))
	case promptSaveAs:
		if err := a.doc.SaveAs(text); err != nil {
			a.report(err)
			return
		}
		a.saved()
	}
}

// draw repaints and flushes once.
func (a *Application) draw() {
	a.editor.Paint()
	a.updateStatus()
	col := a.status.Render(a.backend, a.height-a.status.Height(), a.width)
	if a.prompt != promptNone {
		// The status line cleared the row; SetRect forces a full repaint.
		a.entry.SetRect(a.promptRect(col))
		a.entry.Paint()
	}
	a.backend.Show()
}

func (a *Application) updateStatus() {
	c := a.editor.Controller()
	caret := c.Caret()
	a.status.SetFilename(a.doc.Name)
	a.status.SetModified(a.doc.IsModified())
	a.status.SetReadOnly(c.IsReadOnly())
	a.status.SetPosition(caret.Line+1, caret.Column+1)
	a.status.SetTotalLines(c.LineCount())
	a.status.SetSelected(len(c.SelectedText()))
	a.status.SetLineEnding(lineEndingLabel(c.LineEnding()))
}

func lineEndingLabel(le buffer.LineEnding) string {
	switch le {
	case buffer.LineEndingCRLF:
		return "CRLF"
	case buffer.LineEndingCR:
		return "CR"
	default:
		return "LF"
	}
}
