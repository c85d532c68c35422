package editor

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// gutterPadding is one blank cell on each side of the numbers.
const gutterPadding = 2

// gutterWidthFor returns the cells needed to number blocks lines.
func gutterWidthFor(blocks int) int {
	if blocks < 1 {
		blocks = 1
	}
	digits := len(strconv.Itoa(blocks))
	return gutterPadding + runewidth.RuneWidth('9')*digits
}

// lineNumberGutter paints block numbers to the left of the text area. It
// exists only while line numbers are enabled and learns about the editor
// through its signals.
type lineNumberGutter struct {
	editor      *Editor
	width       int
	damageTop   int
	damageBot   int
	unsubscribe []func()
}

func newLineNumberGutter(e *Editor) *lineNumberGutter {
	g := &lineNumberGutter{editor: e}
	g.unsubscribe = []func(){
		e.blockCountChanged.connect(g.onBlockCountChanged),
		e.updateRequest.connect(g.onUpdateRequest),
		e.cursorPositionChanged.connect(g.onCursorPositionChanged),
	}
	g.onBlockCountChanged(e.BlockCount())
	return g
}

// Close drops every signal subscription. The gutter is inert afterwards.
func (g *lineNumberGutter) Close() {
	for _, fn := range g.unsubscribe {
		fn()
	}
	g.unsubscribe = nil
}

func (g *lineNumberGutter) Width() int {
	return g.width
}

func (g *lineNumberGutter) onBlockCountChanged(blocks int) {
	g.width = gutterWidthFor(blocks)
	g.editor.setViewportMargin(g.width)
	g.damageAll()
}

func (g *lineNumberGutter) onUpdateRequest(req UpdateRequest) {
	if req.Dy != 0 {
		g.damageAll()
		return
	}
	g.damage(req.Top, req.Bottom)
}

func (g *lineNumberGutter) onCursorPositionChanged(Cursor) {
	// The active number moves; repaint all of it.
	g.damageAll()
}

func (g *lineNumberGutter) damage(top, bottom int) {
	if bottom <= top {
		return
	}
	if g.damageBot <= g.damageTop {
		g.damageTop, g.damageBot = top, bottom
		return
	}
	g.damageTop = min(g.damageTop, top)
	g.damageBot = max(g.damageBot, bottom)
}

func (g *lineNumberGutter) damageAll() {
	g.damage(0, 1<<30)
}

// paint draws the damaged rows. Each block is numbered on its first screen
// row; the cursor's block uses the active style.
func (g *lineNumberGutter) paint(s tcell.Screen, rows []layoutRow, height int) {
	top, bot := max(g.damageTop, 0), min(g.damageBot, height)
	g.damageTop, g.damageBot = 0, 0
	if bot <= top {
		return
	}
	e := g.editor
	digitsWidth := g.width - gutterPadding
	for y := top; y < bot; y++ {
		for x := 0; x < g.width; x++ {
			s.SetContent(x, y, ' ', nil, e.styles.gutter)
		}
		if y >= len(rows) || !rows[y].first {
			continue
		}
		style := e.styles.lineNumber
		if rows[y].block == e.cursor.Row {
			style = e.styles.lineNumberActive
		}
		num := strconv.Itoa(rows[y].block + 1)
		x := 1 + digitsWidth - runewidth.StringWidth(num)
		for _, r := range num {
			s.SetContent(x, y, r, nil, style)
			x += runewidth.RuneWidth(r)
		}
	}
}
