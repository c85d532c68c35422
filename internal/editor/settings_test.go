package editor

import (
	"testing"

	"github.com/kobzarvs/mbtools/internal/config"
	"github.com/kobzarvs/mbtools/internal/highlight"
)

func TestParseFont(t *testing.T) {
	tests := []struct {
		in   string
		want Font
		ok   bool
	}{
		{"Courier New,10", Font{Family: "Courier New", Size: 10}, true},
		{" Mono , 12 ,bold, Italic", Font{Family: "Mono", Size: 12, Bold: true, Italic: true}, true},
		{"Mono,9,underline,dim", Font{Family: "Mono", Size: 9, Underline: true, Dim: true}, true},
		{"", Font{}, false},
		{"Mono", Font{}, false},
		{",10", Font{}, false},
		{"Mono,0", Font{}, false},
		{"Mono,big", Font{}, false},
		{"Mono,10,wavy", Font{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseFont(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseFont(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFontStringRoundTrip(t *testing.T) {
	f := Font{Family: "Mono", Size: 11, Bold: true, Dim: true}
	got, ok := ParseFont(f.String())
	if !ok || got != f {
		t.Fatalf("round trip = %+v, %v", got, ok)
	}
}

func TestMalformedFontKeepsPrevious(t *testing.T) {
	e := newTestEditor()
	e.SetFont("Mono,12,bold")
	e.SetFont("Mono,-1")
	if got := e.Settings().Font; got != "Mono,12,bold" {
		t.Fatalf("font = %q", got)
	}
	if !e.font.Bold || e.font.Size != 12 {
		t.Fatalf("font state = %+v", e.font)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.WordWrap || !s.UseLineNumbers || s.TabWidth != 4 || s.Font != "Courier New,10" {
		t.Fatalf("defaults = %+v", s)
	}
	if len(s.ColorFormats) != len(highlight.Categories) {
		t.Fatalf("default formats cover %d categories", len(s.ColorFormats))
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	wrap := true
	cfg.Editor.WordWrap = &wrap
	cfg.Editor.TabWidth = 2
	cfg.Theme.Syntax = map[string]string{"comment": "#FF0000"}

	s := SettingsFromConfig(cfg)
	if !s.WordWrap || s.TabWidth != 2 {
		t.Fatalf("settings = %+v", s)
	}
	if got := s.ColorFormats["comment"]; got.Foreground != "#FF0000" || !got.Italic {
		t.Fatalf("comment format = %+v", got)
	}
	if got := s.ColorFormats["keyword"]; got != highlight.DefaultColorFormats()["keyword"] {
		t.Fatalf("keyword format changed: %+v", got)
	}
}

func TestSetSettingsAppliesEveryField(t *testing.T) {
	e := New(DefaultSettings())
	defer e.Close()

	formats := highlight.ColorFormats{"keyword": {Foreground: "red"}}
	e.SetSettings(Settings{
		WordWrap:       true,
		UseLineNumbers: false,
		TabWidth:       8,
		Font:           "Mono,14",
		ColorFormats:   formats,
	})

	got := e.Settings()
	if !got.WordWrap || got.UseLineNumbers || got.TabWidth != 8 || got.Font != "Mono,14" {
		t.Fatalf("settings = %+v", got)
	}
	if len(got.ColorFormats) != 1 || got.ColorFormats["keyword"].Foreground != "red" {
		t.Fatalf("formats = %+v", got.ColorFormats)
	}
	if e.tabStop != 8 {
		t.Fatalf("tab stop = %d", e.tabStop)
	}
	if e.GutterWidth() != 0 {
		t.Fatal("gutter still present")
	}

	formats["keyword"] = highlight.Format{Foreground: "blue"}
	if e.Settings().ColorFormats["keyword"].Foreground != "red" {
		t.Fatal("editor shares the caller's format table")
	}
}

func TestSetColorFormatsRehighlights(t *testing.T) {
	e := newTestEditor("def f():")
	e.ensureHighlighted()
	tick := e.highlightTick
	e.SetColorFormats(highlight.DefaultColorFormats())
	if e.highlightTick != tick || e.highlightTick != e.changeTick {
		t.Fatalf("highlight tick %d, change tick %d", e.highlightTick, e.changeTick)
	}
	if kind, ok := e.highlighter.KindAt(0, 0); !ok || kind != "keyword" {
		t.Fatalf("KindAt(0,0) = %q, %v", kind, ok)
	}
}
