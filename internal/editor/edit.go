package editor

import (
	"strings"
	"unicode"
)

const maxUndo = 1000

type snapshot struct {
	lines  [][]rune
	cursor Cursor
	gen    uint64
}

func (e *Editor) snapshot() snapshot {
	lines := make([][]rune, len(e.lines))
	for i, l := range e.lines {
		lines[i] = append([]rune(nil), l...)
	}
	return snapshot{lines: lines, cursor: e.cursor, gen: e.gen}
}

func (e *Editor) restore(s snapshot) {
	e.lines = s.lines
	e.cursor = s.cursor
	e.gen = s.gen
	e.changeTick++
	e.clampCursor()
}

// edit records one undo step around fn.
func (e *Editor) edit(fn func()) {
	e.undo = append(e.undo, e.snapshot())
	if len(e.undo) > maxUndo {
		e.undo = e.undo[len(e.undo)-maxUndo:]
	}
	e.redo = nil
	fn()
	if len(e.lines) == 0 {
		e.lines = [][]rune{{}}
	}
	e.nextGen++
	e.gen = e.nextGen
	e.changeTick++
}

func (e *Editor) Undo() {
	if e.readOnly {
		return
	}
	if len(e.undo) == 0 {
		e.statusMessage = "nothing to undo"
		return
	}
	prev := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, e.snapshot())
	e.restore(prev)
}

func (e *Editor) Redo() {
	if e.readOnly {
		return
	}
	if len(e.redo) == 0 {
		e.statusMessage = "nothing to redo"
		return
	}
	next := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, e.snapshot())
	e.restore(next)
}

// insertText inserts text at the cursor as one undo step and leaves the
// cursor after it. Text may span lines.
func (e *Editor) insertText(text string) {
	if e.readOnly || text == "" {
		return
	}
	e.edit(func() {
		parts := strings.Split(text, "\n")
		line := e.lines[e.cursor.Row]
		before := append([]rune(nil), line[:e.cursor.Col]...)
		after := append([]rune(nil), line[e.cursor.Col:]...)

		if len(parts) == 1 {
			ins := []rune(parts[0])
			e.lines[e.cursor.Row] = append(append(before, ins...), after...)
			e.cursor.Col += len(ins)
			return
		}

		newLines := make([][]rune, 0, len(parts))
		newLines = append(newLines, append(before, []rune(parts[0])...))
		for _, p := range parts[1 : len(parts)-1] {
			newLines = append(newLines, []rune(p))
		}
		last := []rune(parts[len(parts)-1])
		newLines = append(newLines, append(append([]rune(nil), last...), after...))

		rest := append([][]rune(nil), e.lines[e.cursor.Row+1:]...)
		e.lines = append(append(e.lines[:e.cursor.Row], newLines...), rest...)
		e.cursor.Row += len(parts) - 1
		e.cursor.Col = len(last)
	})
}

// InsertPlainText inserts externally supplied text (paste, clipboard) with
// formatting stripped: CRLF becomes LF, tabs and spaces are kept, other
// control characters are dropped.
func (e *Editor) InsertPlainText(text string) {
	e.track(func() {
		e.insertText(normalizePlainText(text))
	})
}

func normalizePlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// insertIndent inserts spaces up to the next multiple of the tab width.
func (e *Editor) insertIndent() {
	w := e.settings.TabWidth
	e.insertText(strings.Repeat(" ", w-e.cursor.Col%w))
}

// insertNewline breaks the line at the cursor. The new line repeats the
// leading whitespace of the current one, plus one indent level when the
// current line ends with a colon.
func (e *Editor) insertNewline() {
	e.insertText("\n" + autoIndent(e.lines[e.cursor.Row], e.settings.TabWidth))
}

func autoIndent(line []rune, tabWidth int) string {
	var indent []rune
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		indent = append(indent, r)
	}
	for i := len(line) - 1; i >= 0; i-- {
		if unicode.IsSpace(line[i]) {
			continue
		}
		if line[i] == ':' {
			indent = append(indent, []rune(strings.Repeat(" ", tabWidth))...)
		}
		break
	}
	return string(indent)
}

func (e *Editor) backspace() {
	if e.readOnly {
		return
	}
	row, col := e.cursor.Row, e.cursor.Col
	if row == 0 && col == 0 {
		return
	}
	e.edit(func() {
		if col > 0 {
			line := e.lines[row]
			e.lines[row] = append(line[:col-1], line[col:]...)
			e.cursor.Col--
			return
		}
		prevLen := len(e.lines[row-1])
		e.lines[row-1] = append(e.lines[row-1], e.lines[row]...)
		e.lines = append(e.lines[:row], e.lines[row+1:]...)
		e.cursor = Cursor{Row: row - 1, Col: prevLen}
	})
}

func (e *Editor) deleteChar() {
	if e.readOnly {
		return
	}
	row, col := e.cursor.Row, e.cursor.Col
	if row == len(e.lines)-1 && col == len(e.lines[row]) {
		return
	}
	e.edit(func() {
		line := e.lines[row]
		if col < len(line) {
			e.lines[row] = append(line[:col], line[col+1:]...)
			return
		}
		e.lines[row] = append(line, e.lines[row+1]...)
		e.lines = append(e.lines[:row+1], e.lines[row+2:]...)
	})
}

func (e *Editor) moveLeft() {
	if e.cursor.Col > 0 {
		e.cursor.Col--
	} else if e.cursor.Row > 0 {
		e.cursor.Row--
		e.cursor.Col = len(e.lines[e.cursor.Row])
	}
}

func (e *Editor) moveRight() {
	if e.cursor.Col < len(e.lines[e.cursor.Row]) {
		e.cursor.Col++
	} else if e.cursor.Row < len(e.lines)-1 {
		e.cursor.Row++
		e.cursor.Col = 0
	}
}

func (e *Editor) moveVertical(delta int) {
	e.cursor.Row = clampRange(e.cursor.Row+delta, 0, len(e.lines)-1)
	e.clampCursor()
}

func (e *Editor) clampCursor() {
	e.cursor.Row = clampRange(e.cursor.Row, 0, len(e.lines)-1)
	e.cursor.Col = clampRange(e.cursor.Col, 0, len(e.lines[e.cursor.Row]))
}

func splitLines(data []byte) [][]rune {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func joinLines(lines [][]rune) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}

func clampRange(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
