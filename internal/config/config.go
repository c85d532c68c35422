package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	WordWrap    *bool  `toml:"word-wrap"`
	LineNumbers *bool  `toml:"line-numbers"`
	TabWidth    int    `toml:"tab-width"`
	Font        string `toml:"font"`
	ReadOnly    bool   `toml:"read-only"`
}

type Theme struct {
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	CurrentLineBackground      string `toml:"current-line-background"`
	GutterBackground           string `toml:"gutter-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	FormForeground             string `toml:"form-foreground"`
	FormBackground             string `toml:"form-background"`
	FormFocusForeground        string `toml:"form-focus-foreground"`
	FormFocusBackground        string `toml:"form-focus-background"`

	// Syntax color overrides keyed by token category ("keyword", "string", ...).
	// Categories not listed keep the highlighter defaults.
	Syntax map[string]string `toml:"syntax"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func boolPtr(v bool) *bool { return &v }

func Default() Config {
	return Config{
		Editor: EditorOptions{
			WordWrap:    boolPtr(false),
			LineNumbers: boolPtr(true),
			TabWidth:    4,
			Font:        "Courier New,10",
		},
		Theme: Theme{
			Foreground:                 "#1E1E1E",
			Background:                 "#FFFFFF",
			StatuslineForeground:       "#FFFFFF",
			StatuslineBackground:       "#3C5A99",
			CurrentLineBackground:      "#FFFF99",
			GutterBackground:           "#D3D3D3",
			LineNumberForeground:       "#000000",
			LineNumberActiveForeground: "#FFFF00",
			FormForeground:             "#1E1E1E",
			FormBackground:             "#E8E8E8",
			FormFocusForeground:        "#FFFFFF",
			FormFocusBackground:        "#3C5A99",
			Syntax:                     map[string]string{},
		},
		Keymap: map[string]string{
			"tab":       "indent",
			"enter":     "newline",
			"backspace": "backspace",
			"del":       "delete_char",
			"left":      "move_left",
			"right":     "move_right",
			"up":        "move_up",
			"down":      "move_down",
			"home":      "line_start",
			"end":       "line_end",
			"ctrl+home": "file_start",
			"ctrl+end":  "file_end",
			"pgup":      "page_up",
			"pgdn":      "page_down",
			"ctrl+z":    "undo",
			"ctrl+y":    "redo",
			"ctrl+s":    "save",
			"ctrl+v":    "paste",
			"ctrl+l":    "toggle_line_numbers",
			"ctrl+w":    "toggle_word_wrap",
			"ctrl+q":    "quit",
		},
	}
}

// Load reads config.toml from the config directory and merges it over
// Default. A missing file is not an error.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}
	merge(&cfg, userCfg)
	return cfg, nil
}

func merge(cfg *Config, user Config) {
	if user.Editor.WordWrap != nil {
		cfg.Editor.WordWrap = user.Editor.WordWrap
	}
	if user.Editor.LineNumbers != nil {
		cfg.Editor.LineNumbers = user.Editor.LineNumbers
	}
	if user.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = user.Editor.TabWidth
	}
	if user.Editor.Font != "" {
		cfg.Editor.Font = user.Editor.Font
	}
	if user.Editor.ReadOnly {
		cfg.Editor.ReadOnly = true
	}

	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setIf(&cfg.Theme.Foreground, user.Theme.Foreground)
	setIf(&cfg.Theme.Background, user.Theme.Background)
	setIf(&cfg.Theme.StatuslineForeground, user.Theme.StatuslineForeground)
	setIf(&cfg.Theme.StatuslineBackground, user.Theme.StatuslineBackground)
	setIf(&cfg.Theme.CurrentLineBackground, user.Theme.CurrentLineBackground)
	setIf(&cfg.Theme.GutterBackground, user.Theme.GutterBackground)
	setIf(&cfg.Theme.LineNumberForeground, user.Theme.LineNumberForeground)
	setIf(&cfg.Theme.LineNumberActiveForeground, user.Theme.LineNumberActiveForeground)
	setIf(&cfg.Theme.FormForeground, user.Theme.FormForeground)
	setIf(&cfg.Theme.FormBackground, user.Theme.FormBackground)
	setIf(&cfg.Theme.FormFocusForeground, user.Theme.FormFocusForeground)
	setIf(&cfg.Theme.FormFocusBackground, user.Theme.FormFocusBackground)
	for k, v := range user.Theme.Syntax {
		if v != "" {
			cfg.Theme.Syntax[k] = v
		}
	}
	for k, v := range user.Keymap {
		cfg.Keymap[k] = v
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("MBTOOLS_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "mbtools"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mbtools"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
