package editor

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/mbtools/internal/config"
	"github.com/kobzarvs/mbtools/internal/highlight"
)

// Settings is the complete configurable state of the script editor.
type Settings struct {
	WordWrap       bool
	UseLineNumbers bool
	TabWidth       int
	Font           string
	ColorFormats   highlight.ColorFormats
}

const defaultFont = "Courier New,10"

func DefaultSettings() Settings {
	return Settings{
		WordWrap:       false,
		UseLineNumbers: true,
		TabWidth:       4,
		Font:           defaultFont,
		ColorFormats:   highlight.DefaultColorFormats(),
	}
}

// SettingsFromConfig builds editor settings from the [editor] section and
// overlays the theme's syntax colors on the highlighter defaults.
func SettingsFromConfig(cfg config.Config) Settings {
	s := DefaultSettings()
	if cfg.Editor.WordWrap != nil {
		s.WordWrap = *cfg.Editor.WordWrap
	}
	if cfg.Editor.LineNumbers != nil {
		s.UseLineNumbers = *cfg.Editor.LineNumbers
	}
	if cfg.Editor.TabWidth > 0 {
		s.TabWidth = cfg.Editor.TabWidth
	}
	if cfg.Editor.Font != "" {
		s.Font = cfg.Editor.Font
	}
	for kind, color := range cfg.Theme.Syntax {
		f := s.ColorFormats[kind]
		f.Foreground = color
		s.ColorFormats[kind] = f
	}
	return s
}

// Font is the terminal reading of a font descriptor "family,size[,attr...]".
// The terminal owns the actual typeface, so family and size are kept for
// round-tripping only; attributes map onto the text style.
type Font struct {
	Family    string
	Size      int
	Bold      bool
	Italic    bool
	Underline bool
	Dim       bool
}

func ParseFont(desc string) (Font, bool) {
	parts := strings.Split(desc, ",")
	if len(parts) < 2 {
		return Font{}, false
	}
	f := Font{Family: strings.TrimSpace(parts[0])}
	if f.Family == "" {
		return Font{}, false
	}
	size, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || size <= 0 {
		return Font{}, false
	}
	f.Size = size
	for _, attr := range parts[2:] {
		switch strings.ToLower(strings.TrimSpace(attr)) {
		case "bold":
			f.Bold = true
		case "italic":
			f.Italic = true
		case "underline":
			f.Underline = true
		case "dim":
			f.Dim = true
		default:
			return Font{}, false
		}
	}
	return f, true
}

func (f Font) String() string {
	parts := []string{f.Family, strconv.Itoa(f.Size)}
	if f.Bold {
		parts = append(parts, "bold")
	}
	if f.Italic {
		parts = append(parts, "italic")
	}
	if f.Underline {
		parts = append(parts, "underline")
	}
	if f.Dim {
		parts = append(parts, "dim")
	}
	return strings.Join(parts, ",")
}

func (f Font) apply(st tcell.Style) tcell.Style {
	if f.Bold {
		st = st.Bold(true)
	}
	if f.Italic {
		st = st.Italic(true)
	}
	if f.Underline {
		st = st.Underline(true)
	}
	if f.Dim {
		st = st.Dim(true)
	}
	return st
}
