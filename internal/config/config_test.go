package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("MBTOOLS_CONFIG_HOME", "/tmp/mbtools-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/mbtools-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/mbtools-config")
	}

	t.Setenv("MBTOOLS_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/mbtools" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/mbtools")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("MBTOOLS_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 4 {
		t.Fatalf("TabWidth = %d, want 4", cfg.Editor.TabWidth)
	}
	if cfg.Editor.WordWrap == nil || *cfg.Editor.WordWrap {
		t.Fatalf("WordWrap default should be false")
	}
	if cfg.Editor.LineNumbers == nil || !*cfg.Editor.LineNumbers {
		t.Fatalf("LineNumbers default should be true")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MBTOOLS_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
line-numbers = false
word-wrap = true
font = "Fira Code,12,bold"

[theme]
background = "#123456"

[theme.syntax]
keyword = "#ff0000"

[keymap]
"ctrl+q" = "save"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if *cfg.Editor.LineNumbers {
		t.Fatalf("LineNumbers = true, want false")
	}
	if !*cfg.Editor.WordWrap {
		t.Fatalf("WordWrap = false, want true")
	}
	if cfg.Editor.Font != "Fira Code,12,bold" {
		t.Fatalf("Font = %q", cfg.Editor.Font)
	}
	if cfg.Theme.Background != "#123456" {
		t.Fatalf("Background = %q, want %q", cfg.Theme.Background, "#123456")
	}
	if cfg.Theme.Foreground != Default().Theme.Foreground {
		t.Fatalf("Foreground should keep default, got %q", cfg.Theme.Foreground)
	}
	if cfg.Theme.Syntax["keyword"] != "#ff0000" {
		t.Fatalf("syntax keyword = %q", cfg.Theme.Syntax["keyword"])
	}
	if _, ok := cfg.Theme.Syntax["string"]; ok {
		t.Fatalf("syntax string should not be overridden")
	}
	if cfg.Keymap["ctrl+q"] != "save" {
		t.Fatalf("keymap ctrl+q = %q, want save", cfg.Keymap["ctrl+q"])
	}
	if cfg.Keymap["tab"] != "indent" {
		t.Fatalf("keymap tab = %q, want indent", cfg.Keymap["tab"])
	}
}

func TestLoadIgnoresNonPositiveTabWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[editor]\ntab-width = 0\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Editor.TabWidth != 4 {
		t.Fatalf("TabWidth = %d, want 4", cfg.Editor.TabWidth)
	}
}

func TestLoadInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[editor\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[editor]\ntab-width = 2\n")

	got := make(chan Config, 4)
	w, err := NewWatcher(path, func(cfg Config) { got <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	w.Start()
	defer w.Stop()

	writeFile(t, path, "[editor]\ntab-width = 6\n")
	deadline := time.After(3 * time.Second)
	for {
		select {
		case cfg := <-got:
			if cfg.Editor.TabWidth == 6 {
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for reload")
		}
	}
}

func TestParseColor(t *testing.T) {
	if got := ParseColor("#FF0000", tcell.ColorBlack); got != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("ParseColor hex = %v", got)
	}
	if got := ParseColor("yellow", tcell.ColorBlack); got != tcell.ColorYellow {
		t.Fatalf("ParseColor name = %v", got)
	}
	if got := ParseColor("#zzzzzz", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("ParseColor bad hex = %v, want fallback", got)
	}
	if got := ParseColor("", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("ParseColor empty = %v, want fallback", got)
	}
}
