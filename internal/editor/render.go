package editor

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// segment is the rune range [start, end) of a block shown on one screen row.
type segment struct {
	start, end int
}

type layoutRow struct {
	block int
	seg   segment
	first bool
}

// advance is the number of cells r occupies when drawn at cell x.
func (e *Editor) advance(r rune, x int) int {
	if r == '\t' {
		return e.tabStop - x%e.tabStop
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// segments splits a block into screen rows of at most width cells. Without
// word wrap a block is always a single row.
func (e *Editor) segments(line []rune, width int) []segment {
	if !e.settings.WordWrap || width <= 0 {
		return []segment{{0, len(line)}}
	}
	var segs []segment
	start, x := 0, 0
	for i, r := range line {
		adv := e.advance(r, x)
		if x+adv > width && i > start {
			segs = append(segs, segment{start, i})
			start, x = i, 0
			adv = e.advance(r, 0)
		}
		x += adv
	}
	return append(segs, segment{start, len(line)})
}

// segmentIndex returns the row of segs that shows the cursor at col.
func segmentIndex(segs []segment, col int) int {
	for i, s := range segs {
		if col < s.end || i == len(segs)-1 {
			return i
		}
	}
	return len(segs) - 1
}

// cellX is the cell offset of rune col within seg.
func (e *Editor) cellX(line []rune, seg segment, col int) int {
	x := 0
	for i := seg.start; i < col && i < len(line); i++ {
		x += e.advance(line[i], x)
	}
	return x
}

func (e *Editor) layout(height, width int) []layoutRow {
	rows := make([]layoutRow, 0, height)
	for b := e.scroll; b < len(e.lines) && len(rows) < height; b++ {
		for i, seg := range e.segments(e.lines[b], width) {
			if len(rows) == height {
				break
			}
			rows = append(rows, layoutRow{block: b, seg: seg, first: i == 0})
		}
	}
	return rows
}

func (e *Editor) ensureCursorVisible(height, width int) {
	if height <= 0 {
		return
	}
	e.scroll = clampRange(e.scroll, 0, len(e.lines)-1)
	if e.cursor.Row < e.scroll {
		e.scroll = e.cursor.Row
	}
	for e.scroll < e.cursor.Row {
		rowsAbove := 0
		for b := e.scroll; b < e.cursor.Row; b++ {
			rowsAbove += len(e.segments(e.lines[b], width))
		}
		segs := e.segments(e.lines[e.cursor.Row], width)
		rowsAbove += segmentIndex(segs, e.cursor.Col)
		if rowsAbove < height {
			break
		}
		e.scroll++
	}

	if e.settings.WordWrap {
		e.xoff = 0
		return
	}
	line := e.lines[e.cursor.Row]
	cx := e.cellX(line, segment{0, len(line)}, e.cursor.Col)
	if cx < e.xoff {
		e.xoff = cx
	}
	if width > 0 && cx >= e.xoff+width {
		e.xoff = cx - width + 1
	}
}

// Render draws the text area, gutter and status line.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := h - 1
	e.viewHeight = viewHeight
	textWidth := w - e.leftMargin

	e.ensureHighlighted()
	e.ensureCursorVisible(viewHeight, textWidth)

	s.SetStyle(e.styles.main)
	s.Clear()

	e.rows = e.layout(viewHeight, textWidth)
	cx, cy := -1, -1
	for y, row := range e.rows {
		e.drawRow(s, y, w, row)
		if row.block != e.cursor.Row {
			continue
		}
		line := e.lines[row.block]
		segs := e.segments(line, textWidth)
		if segs[segmentIndex(segs, e.cursor.Col)] == row.seg {
			cx = e.leftMargin + e.cellX(line, row.seg, e.cursor.Col) - e.xoff
			cy = y
		}
	}

	// Clear wiped the whole frame, so the request always spans the view.
	dy := e.lastScroll - e.scroll
	e.lastScroll = e.scroll
	e.updateRequest.emit(UpdateRequest{Top: 0, Bottom: viewHeight, Dy: dy})
	if e.gutter != nil {
		e.gutter.paint(s, e.rows, viewHeight)
	}

	e.renderStatusline(s, w, h-1)

	if cy < 0 || cx < e.leftMargin || cx >= w {
		s.HideCursor()
	} else {
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		s.ShowCursor(cx, cy)
	}
	s.Show()
}

func (e *Editor) drawRow(s tcell.Screen, y, w int, row layoutRow) {
	base := e.font.apply(e.styles.main)
	if !e.readOnly && row.block == e.cursor.Row {
		base = base.Background(e.styles.currentLine)
	}
	for x := e.leftMargin; x < w; x++ {
		s.SetContent(x, y, ' ', nil, base)
	}

	line := e.lines[row.block]
	x := 0
	for i := row.seg.start; i < row.seg.end; i++ {
		r := line[i]
		adv := e.advance(r, x)
		sx := e.leftMargin + x - e.xoff
		x += adv
		if sx < e.leftMargin {
			continue
		}
		if sx+adv > w {
			break
		}
		style := base
		if kind, ok := e.highlighter.KindAt(row.block, i); ok {
			style = e.styleForKind(base, kind)
		}
		if r == '\t' {
			for j := 0; j < adv; j++ {
				s.SetContent(sx+j, y, ' ', nil, style)
			}
			continue
		}
		s.SetContent(sx, y, r, nil, style)
	}
}

func (e *Editor) styleForKind(base tcell.Style, kind string) tcell.Style {
	ks, ok := e.kindStyles[kind]
	if !ok {
		return base
	}
	if ks.hasFg {
		base = base.Foreground(ks.fg)
	}
	if ks.hasBg {
		base = base.Background(ks.bg)
	}
	if ks.bold {
		base = base.Bold(true)
	}
	if ks.italic {
		base = base.Italic(true)
	}
	return base
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := "[No Name]"
	if e.filename != "" {
		name = filepath.Base(e.filename)
	}
	if e.Dirty() {
		name += "*"
	}
	left := " " + name + " "
	if e.readOnly {
		left += "[RO] "
	}
	if e.statusMessage != "" {
		left += "| " + e.statusMessage + " "
	}
	line := e.lines[e.cursor.Row]
	col := e.cellX(line, segment{0, len(line)}, e.cursor.Col) + 1
	right := fmt.Sprintf(" Ln %d, Col %d ", e.cursor.Row+1, col)
	if e.settings.WordWrap {
		right = " WRAP |" + right
	}

	for x, r := range composeStatusLine(left, right, w) {
		s.SetContent(x, y, r, nil, e.styles.status)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for len(line) < width-len(rightRunes) {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}
