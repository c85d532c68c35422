package portdialog

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/mbtools/internal/config"
	"github.com/kobzarvs/mbtools/internal/logger"
	"github.com/kobzarvs/mbtools/internal/settings"
)

type Styles struct {
	Normal tcell.Style
	Focus  tcell.Style
	Hint   tcell.Style
}

func StylesFromTheme(t config.Theme) Styles {
	fg := config.ParseColor(t.FormForeground, tcell.ColorBlack)
	bg := config.ParseColor(t.FormBackground, tcell.ColorLightGray)
	focusFg := config.ParseColor(t.FormFocusForeground, tcell.ColorWhite)
	focusBg := config.ParseColor(t.FormFocusBackground, tcell.ColorNavy)
	normal := tcell.StyleDefault.Foreground(fg).Background(bg)
	return Styles{
		Normal: normal,
		Focus:  tcell.StyleDefault.Foreground(focusFg).Background(focusBg),
		Hint:   normal.Dim(true),
	}
}

type result int

const (
	running result = iota
	accepted
	rejected
)

// Form drives a Client dialog on a terminal screen.
type Form struct {
	dialog *Client
	title  string
	styles Styles
	focus  int
	state  result
}

func NewForm(d *Client, title string, styles Styles) *Form {
	return &Form{dialog: d, title: title, styles: styles}
}

// Focused returns the field that receives keys.
func (f *Form) Focused() *Field {
	fields := f.dialog.visibleFields()
	if f.focus >= len(fields) {
		f.focus = len(fields) - 1
	}
	return fields[f.focus]
}

func (f *Form) move(delta int) {
	n := len(f.dialog.visibleFields())
	f.focus = (f.focus + delta + n) % n
}

// HandleKey processes one key and reports whether the form is finished.
func (f *Form) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		f.state = rejected
		return true
	case tcell.KeyEnter:
		f.state = accepted
		return true
	case tcell.KeyTab, tcell.KeyDown:
		f.move(1)
		return false
	case tcell.KeyBacktab, tcell.KeyUp:
		f.move(-1)
		return false
	}
	focused := f.Focused()
	before := f.dialog.ProtocolType()
	focused.HandleKey(ev)
	if focused == f.dialog.Type && f.dialog.ProtocolType() != before {
		// The page changed under us; keep focus on the type selector.
		for i, fld := range f.dialog.visibleFields() {
			if fld == f.dialog.Type {
				f.focus = i
			}
		}
	}
	return false
}

const (
	labelWidth = 20
	valueWidth = 24
)

func (f *Form) Render(s tcell.Screen) {
	w, h := s.Size()
	fields := f.dialog.visibleFields()
	boxW := labelWidth + valueWidth + 4
	boxH := len(fields) + 4
	x0 := (w - boxW) / 2
	y0 := (h - boxH) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	for y := y0; y < y0+boxH && y < h; y++ {
		for x := x0; x < x0+boxW && x < w; x++ {
			s.SetContent(x, y, ' ', nil, f.styles.Normal)
		}
	}
	drawText(s, x0+2, y0, boxW-4, " "+f.title+" ", f.styles.Normal.Bold(true))

	var cx, cy int
	for i, fld := range fields {
		y := y0 + 2 + i
		drawText(s, x0+2, y, labelWidth, fld.Label, f.styles.Normal)
		style := f.styles.Normal.Underline(true)
		if i == f.focus {
			style = f.styles.Focus
		}
		value := fld.Text()
		if fld.kind == kindChoice {
			value = "< " + value + " >"
		}
		vx := x0 + 2 + labelWidth
		for x := vx; x < vx+valueWidth && x < w; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
		drawText(s, vx, y, valueWidth, value, style)
		if i == f.focus {
			cy = y
			cx = vx + runewidth.StringWidth(string(fld.text[:fld.cursor]))
			if fld.kind == kindChoice {
				cx += 2
			}
		}
	}
	drawText(s, x0+2, y0+boxH-1, boxW-4, "Enter: OK  Esc: Cancel", f.styles.Hint)
	s.ShowCursor(cx, cy)
	s.Show()
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	used := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if used+rw > maxW {
			return
		}
		s.SetContent(x+used, y, r, nil, style)
		used += rw
	}
}

// Exec runs the dialog modally. Non-empty data is loaded into the form
// first; empty data keeps whatever the fields hold (cached values from a
// previous run). On accept the form is written back into data.
func (c *Client) Exec(s tcell.Screen, data settings.Settings, styles Styles) (bool, error) {
	if data == nil {
		return false, errors.New("port dialog: nil settings")
	}
	if len(data) > 0 {
		c.FillForm(data)
	}
	form := NewForm(c, "Port", styles)
	for {
		s.Clear()
		form.Render(s)
		switch ev := s.PollEvent().(type) {
		case nil:
			return false, errors.New("port dialog: screen closed")
		case *tcell.EventKey:
			if !form.HandleKey(ev) {
				continue
			}
			if form.state == accepted {
				c.FillData(data)
				logger.Info("port settings accepted", "type", c.Type.Text(), "name", c.Name.Text())
				return true, nil
			}
			logger.Debug("port settings rejected")
			return false, nil
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
