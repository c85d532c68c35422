package portdialog

import (
	"strconv"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumber
	kindChoice
)

// Field is one labelled input of the form. Text fields edit free text,
// number fields accept digits within [min, max], choice fields cycle
// through options and, when editable, also accept typed values.
type Field struct {
	Key   string
	Label string

	kind     fieldKind
	text     []rune
	cursor   int
	options  []string
	editable bool
	min, max int
}

func newTextField(key, label string) *Field {
	return &Field{Key: key, Label: label, kind: kindText}
}

func newNumberField(key, label string, min, max int) *Field {
	f := &Field{Key: key, Label: label, kind: kindNumber, min: min, max: max}
	f.SetInt(min)
	return f
}

func newChoiceField(key, label string, options []string, editable bool) *Field {
	f := &Field{Key: key, Label: label, kind: kindChoice, options: append([]string(nil), options...), editable: editable}
	if len(options) > 0 {
		f.SetText(options[0])
	}
	return f
}

func intOptions(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// Text returns the raw field value.
func (f *Field) Text() string {
	return string(f.text)
}

// SetText replaces the value. A choice field that is not editable ignores
// values outside its options; an editable one adopts them.
func (f *Field) SetText(v string) {
	switch f.kind {
	case kindNumber:
		n, err := strconv.Atoi(v)
		if err != nil {
			return
		}
		f.SetInt(n)
		return
	case kindChoice:
		if f.optionIndex(v) < 0 {
			if !f.editable {
				return
			}
			f.options = append(f.options, v)
		}
	}
	f.text = []rune(v)
	f.cursor = len(f.text)
}

// Int returns a number field's value clamped to its range.
func (f *Field) Int() int {
	n, err := strconv.Atoi(string(f.text))
	if err != nil {
		n = f.min
	}
	return clamp(n, f.min, f.max)
}

func (f *Field) SetInt(n int) {
	if f.kind == kindNumber {
		n = clamp(n, f.min, f.max)
	}
	f.text = []rune(strconv.Itoa(n))
	f.cursor = len(f.text)
}

// Options returns the choices offered by a choice field.
func (f *Field) Options() []string {
	return append([]string(nil), f.options...)
}

// SetOptions replaces the choice list, keeping the current value.
func (f *Field) SetOptions(options []string) {
	cur := f.Text()
	f.options = append([]string(nil), options...)
	if cur != "" && f.optionIndex(cur) < 0 {
		if f.editable {
			f.options = append(f.options, cur)
		} else if len(f.options) > 0 {
			f.SetText(f.options[0])
		}
	}
}

func (f *Field) optionIndex(v string) int {
	for i, o := range f.options {
		if o == v {
			return i
		}
	}
	return -1
}

// HandleKey edits the field. It returns false for keys the field does not
// consume so the form can use them for navigation.
func (f *Field) HandleKey(ev *tcell.EventKey) bool {
	switch f.kind {
	case kindChoice:
		return f.handleChoiceKey(ev)
	case kindNumber:
		return f.handleNumberKey(ev)
	default:
		return f.handleTextKey(ev)
	}
}

func (f *Field) handleTextKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if !unicode.IsPrint(r) {
			return false
		}
		f.text = append(f.text, 0)
		copy(f.text[f.cursor+1:], f.text[f.cursor:])
		f.text[f.cursor] = r
		f.cursor++
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if f.cursor > 0 {
			f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
			f.cursor--
		}
	case tcell.KeyDelete:
		if f.cursor < len(f.text) {
			f.text = append(f.text[:f.cursor], f.text[f.cursor+1:]...)
		}
	case tcell.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
	case tcell.KeyRight:
		if f.cursor < len(f.text) {
			f.cursor++
		}
	case tcell.KeyHome:
		f.cursor = 0
	case tcell.KeyEnd:
		f.cursor = len(f.text)
	default:
		return false
	}
	return true
}

func (f *Field) handleNumberKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if r < '0' || r > '9' {
			// Swallow, like an integer validator rejecting the keystroke.
			return true
		}
		next := append(append([]rune(nil), f.text...), r)
		n, err := strconv.Atoi(string(next))
		if err != nil || n > f.max {
			return true
		}
		f.text = []rune(strconv.Itoa(n))
		f.cursor = len(f.text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(f.text) > 0 {
			f.text = f.text[:len(f.text)-1]
			f.cursor = len(f.text)
		}
	case tcell.KeyLeft:
		f.SetInt(f.Int() - 1)
	case tcell.KeyRight:
		f.SetInt(f.Int() + 1)
	default:
		return false
	}
	return true
}

func (f *Field) handleChoiceKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyLeft:
		f.cycle(-1)
	case tcell.KeyRight:
		f.cycle(1)
	case tcell.KeyRune:
		if !f.editable || !unicode.IsPrint(ev.Rune()) {
			return f.editable
		}
		f.text = append(f.text, ev.Rune())
		f.cursor = len(f.text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if !f.editable {
			return false
		}
		if len(f.text) > 0 {
			f.text = f.text[:len(f.text)-1]
			f.cursor = len(f.text)
		}
	default:
		return false
	}
	return true
}

func (f *Field) cycle(delta int) {
	if len(f.options) == 0 {
		return
	}
	i := f.optionIndex(f.Text())
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(f.options)) % len(f.options)
	}
	f.text = []rune(f.options[i])
	f.cursor = len(f.text)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
