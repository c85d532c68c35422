// Package editor implements the terminal script editor: a plain-text
// buffer with spaces-only indentation, Python-style auto-indent, a
// line-number gutter and syntax coloring from package highlight.
package editor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/mbtools/internal/config"
	"github.com/kobzarvs/mbtools/internal/highlight"
	"github.com/kobzarvs/mbtools/internal/logger"
	"github.com/kobzarvs/mbtools/internal/settings"
)

type Cursor struct {
	Row int
	Col int
}

// readClipboard is swapped out in tests.
var readClipboard = clipboard.ReadAll

type styles struct {
	main             tcell.Style
	status           tcell.Style
	currentLine      tcell.Color
	gutter           tcell.Style
	lineNumber       tcell.Style
	lineNumberActive tcell.Style
}

type kindStyle struct {
	fg, bg       tcell.Color
	hasFg, hasBg bool
	bold, italic bool
}

type Editor struct {
	lines    [][]rune
	cursor   Cursor
	scroll   int // first visible block
	xoff     int // horizontal scroll in cells, zero while wrapping
	filename string
	readOnly bool
	keymap   map[string]string

	settings    Settings
	font        Font
	tabStop     int
	styles      styles
	kindStyles  map[string]kindStyle
	highlighter *highlight.Highlighter

	changeTick    uint64
	highlightTick uint64

	gutter     *lineNumberGutter
	leftMargin int

	undo     []snapshot
	redo     []snapshot
	gen      uint64
	nextGen  uint64
	savedGen uint64

	quitPending bool

	pasting  bool
	pasteBuf []rune

	statusMessage string
	viewHeight    int
	lastScroll    int
	rows          []layoutRow

	blockCountChanged     signal[int]
	updateRequest         signal[UpdateRequest]
	cursorPositionChanged signal[Cursor]
}

// New creates an editor with an empty document and applies s.
func New(s Settings) *Editor {
	cfg := config.Default()
	e := &Editor{
		lines:       [][]rune{{}},
		keymap:      map[string]string{},
		highlighter: highlight.New(s.ColorFormats),
		settings:    Settings{TabWidth: 1},
		tabStop:     1,
	}
	e.SetKeymap(cfg.Keymap)
	e.SetTheme(cfg.Theme)
	if font, ok := ParseFont(defaultFont); ok {
		e.font = font
		e.settings.Font = defaultFont
	}
	e.SetSettings(s)
	return e
}

// Close releases the gutter subscriptions and the highlighter.
func (e *Editor) Close() {
	e.SetUseLineNumbers(false)
	e.highlighter.Close()
}

func (e *Editor) SetKeymap(keymap map[string]string) {
	e.keymap = make(map[string]string, len(keymap))
	for k, v := range keymap {
		e.keymap[strings.ToLower(k)] = v
	}
}

func (e *Editor) SetTheme(t config.Theme) {
	fg := config.ParseColor(t.Foreground, tcell.ColorBlack)
	bg := config.ParseColor(t.Background, tcell.ColorWhite)
	gutterBg := config.ParseColor(t.GutterBackground, tcell.ColorLightGray)
	e.styles = styles{
		main:             tcell.StyleDefault.Foreground(fg).Background(bg),
		status:           tcell.StyleDefault.Foreground(config.ParseColor(t.StatuslineForeground, tcell.ColorWhite)).Background(config.ParseColor(t.StatuslineBackground, tcell.ColorNavy)),
		currentLine:      config.ParseColor(t.CurrentLineBackground, tcell.ColorLightYellow),
		gutter:           tcell.StyleDefault.Foreground(fg).Background(gutterBg),
		lineNumber:       tcell.StyleDefault.Foreground(config.ParseColor(t.LineNumberForeground, tcell.ColorBlack)).Background(gutterBg),
		lineNumberActive: tcell.StyleDefault.Foreground(config.ParseColor(t.LineNumberActiveForeground, tcell.ColorYellow)).Background(gutterBg).Bold(true),
	}
}

// Settings returns a copy of the current settings.
func (e *Editor) Settings() Settings {
	s := e.settings
	s.ColorFormats = e.settings.ColorFormats.Clone()
	return s
}

// SetSettings applies every field of s: wrap mode, tab stop, font, color
// formats (forcing a full re-highlight) and finally the gutter.
func (e *Editor) SetSettings(s Settings) {
	e.SetWordWrap(s.WordWrap)
	e.SetTabWidth(s.TabWidth)
	e.SetFont(s.Font)
	e.SetColorFormats(s.ColorFormats)
	e.SetUseLineNumbers(s.UseLineNumbers)
}

func (e *Editor) SetWordWrap(on bool) {
	e.settings.WordWrap = on
	if on {
		e.xoff = 0
	}
}

// SetTabWidth sets the indent width in spaces; values below 1 become 1.
// The tab stop used for literal tabs is that many '9' glyphs wide.
func (e *Editor) SetTabWidth(width int) {
	if width < 1 {
		logger.Debug("tab width clamped", "requested", width)
		width = 1
	}
	e.settings.TabWidth = width
	e.tabStop = width * runewidth.RuneWidth('9')
}

// SetFont applies a font descriptor. A malformed one leaves the previous
// font in place.
func (e *Editor) SetFont(desc string) {
	font, ok := ParseFont(desc)
	if !ok {
		logger.Debug("ignoring malformed font", "font", desc)
		return
	}
	e.font = font
	e.settings.Font = desc
}

func (e *Editor) SetColorFormats(formats highlight.ColorFormats) {
	e.settings.ColorFormats = formats.Clone()
	e.highlighter.SetColorFormats(formats)
	e.kindStyles = make(map[string]kindStyle, len(formats))
	for kind, f := range formats {
		ks := kindStyle{bold: f.Bold, italic: f.Italic}
		if f.Foreground != "" {
			ks.fg, ks.hasFg = config.ParseColor(f.Foreground, tcell.ColorDefault), true
		}
		if f.Background != "" {
			ks.bg, ks.hasBg = config.ParseColor(f.Background, tcell.ColorDefault), true
		}
		e.kindStyles[kind] = ks
	}
	e.rehighlight()
}

// SetUseLineNumbers creates or tears down the gutter. Calling it with the
// current state does nothing.
func (e *Editor) SetUseLineNumbers(on bool) {
	e.settings.UseLineNumbers = on
	switch {
	case on && e.gutter == nil:
		e.gutter = newLineNumberGutter(e)
	case !on && e.gutter != nil:
		e.gutter.Close()
		e.gutter = nil
		e.setViewportMargin(0)
	}
}

// GutterWidth is the width of the line-number gutter in cells, or 0.
func (e *Editor) GutterWidth() int {
	if e.gutter == nil {
		return 0
	}
	return e.gutter.Width()
}

// ViewportMargin is the number of cells left of the text area.
func (e *Editor) ViewportMargin() int {
	return e.leftMargin
}

func (e *Editor) setViewportMargin(left int) {
	e.leftMargin = left
}

func (e *Editor) SetReadOnly(ro bool) {
	e.readOnly = ro
}

func (e *Editor) ReadOnly() bool {
	return e.readOnly
}

func (e *Editor) rehighlight() {
	e.highlighter.Rehighlight(e.Content())
	e.highlightTick = e.changeTick
}

func (e *Editor) ensureHighlighted() {
	if e.highlightTick != e.changeTick {
		e.rehighlight()
	}
}

// OpenFile loads path into the buffer. A path that does not exist yet
// starts an empty script that Save will create.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	e.track(func() {
		e.lines = splitLines(data)
		e.cursor = Cursor{}
		e.scroll = 0
		e.xoff = 0
		e.filename = path
		e.undo = nil
		e.redo = nil
		e.nextGen++
		e.gen = e.nextGen
		e.savedGen = e.gen
		e.changeTick++
	})
	logger.Debug("opened script", "path", path, "lines", len(e.lines))
	return nil
}

// Save writes the buffer to path, or to the current file when path is empty.
func (e *Editor) Save(path string) error {
	if path == "" {
		if e.filename == "" {
			return errors.New("no file name")
		}
		path = e.filename
	}
	if err := settings.WriteFile(path, []byte(e.Content())); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	e.filename = path
	e.savedGen = e.gen
	logger.Info("saved script", "path", path)
	return nil
}

func (e *Editor) Filename() string {
	return e.filename
}

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool {
	return e.gen != e.savedGen
}

func (e *Editor) Content() string {
	return joinLines(e.lines)
}

// SetText replaces the document as an undoable edit.
func (e *Editor) SetText(text string) {
	e.track(func() {
		e.edit(func() {
			e.lines = splitLines([]byte(normalizePlainText(text)))
			e.cursor = Cursor{}
		})
	})
}

func (e *Editor) BlockCount() int {
	return len(e.lines)
}

func (e *Editor) Cursor() Cursor {
	return e.cursor
}

// SetCursor moves the cursor, clamping it into the document.
func (e *Editor) SetCursor(c Cursor) {
	e.track(func() {
		e.cursor = c
		e.clampCursor()
	})
}

func (e *Editor) Scroll() int {
	return e.scroll
}

func (e *Editor) SetScroll(block int) {
	e.scroll = clampRange(block, 0, len(e.lines)-1)
}

func (e *Editor) ChangeTick() uint64 {
	return e.changeTick
}

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

// track runs fn and emits block-count and cursor signals for whatever it
// changed.
func (e *Editor) track(fn func()) {
	blocks, cur := len(e.lines), e.cursor
	fn()
	if len(e.lines) != blocks {
		e.blockCountChanged.emit(len(e.lines))
	}
	if e.cursor != cur {
		e.cursorPositionChanged.emit(e.cursor)
	}
}

// HandleEvent feeds one terminal event to the editor and reports whether
// the user asked to quit.
func (e *Editor) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventPaste:
		if ev.Start() {
			e.pasting = true
			e.pasteBuf = e.pasteBuf[:0]
			return false
		}
		e.pasting = false
		e.InsertPlainText(string(e.pasteBuf))
	case *tcell.EventClipboard:
		e.InsertPlainText(string(ev.Data()))
	case *tcell.EventKey:
		if e.pasting {
			e.collectPaste(ev)
			return false
		}
		return e.HandleKey(ev)
	}
	return false
}

func (e *Editor) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		e.pasteBuf = append(e.pasteBuf, ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		e.pasteBuf = append(e.pasteBuf, '\n')
	case tcell.KeyTab:
		e.pasteBuf = append(e.pasteBuf, '\t')
	}
}

// HandleKey runs the keymap action bound to ev, or inserts a printable rune.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	e.statusMessage = ""
	confirmed := e.quitPending
	e.quitPending = false
	quit := false
	e.track(func() {
		if action, ok := e.keymap[keyString(ev)]; ok {
			if action == actionQuit {
				quit = e.quit(confirmed)
				return
			}
			e.execAction(action)
			return
		}
		if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
			e.insertText(string(ev.Rune()))
		}
		// Anything else, Shift+Tab included, has no effect on the text.
	})
	return quit
}

// quit reports whether the editor may close. Unsaved changes need the
// quit key twice in a row.
func (e *Editor) quit(confirmed bool) bool {
	if !e.Dirty() || confirmed {
		return true
	}
	e.quitPending = true
	e.statusMessage = "unsaved changes (press quit again to discard)"
	return false
}

func (e *Editor) execAction(action string) {
	switch action {
	case actionIndent:
		e.insertIndent()
	case actionNewline:
		e.insertNewline()
	case actionBackspace:
		e.backspace()
	case actionDeleteChar:
		e.deleteChar()
	case actionMoveLeft:
		e.moveLeft()
	case actionMoveRight:
		e.moveRight()
	case actionMoveUp:
		e.moveVertical(-1)
	case actionMoveDown:
		e.moveVertical(1)
	case actionLineStart:
		e.cursor.Col = 0
	case actionLineEnd:
		e.cursor.Col = len(e.lines[e.cursor.Row])
	case actionFileStart:
		e.cursor = Cursor{}
	case actionFileEnd:
		e.cursor.Row = len(e.lines) - 1
		e.cursor.Col = len(e.lines[e.cursor.Row])
	case actionPageUp:
		e.moveVertical(-e.pageSize())
	case actionPageDown:
		e.moveVertical(e.pageSize())
	case actionUndo:
		e.Undo()
	case actionRedo:
		e.Redo()
	case actionSave:
		if err := e.Save(""); err != nil {
			logger.Warn("save failed", "error", err)
			e.statusMessage = err.Error()
		} else {
			e.statusMessage = "saved"
		}
	case actionPaste:
		e.pasteFromClipboard()
	case actionToggleLineNumbers:
		e.SetUseLineNumbers(!e.settings.UseLineNumbers)
	case actionToggleWordWrap:
		e.SetWordWrap(!e.settings.WordWrap)
	default:
		logger.Debug("unknown action", "action", action)
	}
}

func (e *Editor) pasteFromClipboard() {
	text, err := readClipboard()
	if err != nil {
		logger.Debug("clipboard read failed", "error", err)
		e.statusMessage = "clipboard unavailable"
		return
	}
	e.InsertPlainText(text)
}

func (e *Editor) pageSize() int {
	if e.viewHeight < 2 {
		return 1
	}
	return e.viewHeight - 1
}
