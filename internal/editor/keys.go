package editor

import "github.com/gdamore/tcell/v2"

const (
	actionIndent            = "indent"
	actionNewline           = "newline"
	actionBackspace         = "backspace"
	actionDeleteChar        = "delete_char"
	actionMoveLeft          = "move_left"
	actionMoveRight         = "move_right"
	actionMoveUp            = "move_up"
	actionMoveDown          = "move_down"
	actionLineStart         = "line_start"
	actionLineEnd           = "line_end"
	actionFileStart         = "file_start"
	actionFileEnd           = "file_end"
	actionPageUp            = "page_up"
	actionPageDown          = "page_down"
	actionUndo              = "undo"
	actionRedo              = "redo"
	actionSave              = "save"
	actionPaste             = "paste"
	actionToggleLineNumbers = "toggle_line_numbers"
	actionToggleWordWrap    = "toggle_word_wrap"
	actionQuit              = "quit"
)

// keyString names ev the way keymap entries do ("tab", "ctrl+s", ...).
// Printable runes without modifiers return "".
func keyString(ev *tcell.EventKey) string {
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	// Tab, Enter and Backspace share codes with Ctrl+I, Ctrl+M and Ctrl+H,
	// so they are matched first.
	switch ev.Key() {
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		if ctrl {
			return "ctrl+home"
		}
		return "home"
	case tcell.KeyEnd:
		if ctrl {
			return "ctrl+end"
		}
		return "end"
	case tcell.KeyRune:
		if ctrl {
			return "ctrl+" + string(ev.Rune())
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return "alt+" + string(ev.Rune())
		}
		return ""
	}
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(k-tcell.KeyCtrlA)))
	}
	return ""
}
