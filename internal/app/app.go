package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/kobzarvs/mbtools/internal/config"
	"github.com/kobzarvs/mbtools/internal/editor"
	"github.com/kobzarvs/mbtools/internal/logger"
	"github.com/kobzarvs/mbtools/internal/modbus"
	"github.com/kobzarvs/mbtools/internal/portdialog"
	"github.com/kobzarvs/mbtools/internal/session"
	"github.com/kobzarvs/mbtools/internal/settings"
)

// clientPortDialog names the client port dialog's cache in the session.
const clientPortDialog = "client-port"

// App is the top-level runtime for mbtools.
type App struct {
	screen tcell.Screen
}

// New returns an App that draws on screen. A nil screen means the real
// terminal, opened on demand.
func New(screen tcell.Screen) *App {
	return &App{screen: screen}
}

func (a *App) openScreen() (tcell.Screen, func(), error) {
	if a.screen != nil {
		return a.screen, func() {}, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, nil, errors.New("mbtools needs an interactive terminal")
	}
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, err
	}
	if err := s.Init(); err != nil {
		return nil, nil, err
	}
	return s, s.Fini, nil
}

// Edit runs the script editor on path until the user quits. An empty path
// opens an unnamed buffer.
func (a *App) Edit(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sm, err := session.NewManager()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := sm.Stop(); err != nil {
			logger.Warn("saving session failed", "error", err)
		}
	}()

	ed := editor.New(editor.SettingsFromConfig(cfg))
	defer ed.Close()
	applyConfig(ed, cfg)

	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := ed.OpenFile(path); err != nil {
			return err
		}
		if st, ok := sm.GetFileState(path); ok {
			ed.SetCursor(editor.Cursor{Row: st.CursorRow, Col: st.CursorCol})
			ed.SetScroll(st.ScrollY)
		}
	}

	s, done, err := a.openScreen()
	if err != nil {
		return err
	}
	defer done()
	s.EnablePaste()
	defer s.DisablePaste()

	if cfgPath, err := config.ConfigPath(); err == nil {
		w, err := config.NewWatcher(cfgPath, func(c config.Config) {
			// Runs on the watcher goroutine; the UI loop applies it.
			_ = s.PostEvent(tcell.NewEventInterrupt(c))
		})
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	for {
		ed.Render(s)
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if c, ok := ev.Data().(config.Config); ok {
				ed.SetSettings(editor.SettingsFromConfig(c))
				applyConfig(ed, c)
			}
		default:
			if ed.HandleEvent(ev) {
				if path != "" {
					c := ed.Cursor()
					sm.SetFileState(path, session.FileState{CursorRow: c.Row, CursorCol: c.Col, ScrollY: ed.Scroll()})
				}
				return nil
			}
		}
	}
}

func applyConfig(ed *editor.Editor, cfg config.Config) {
	ed.SetTheme(cfg.Theme)
	ed.SetKeymap(cfg.Keymap)
	ed.SetReadOnly(cfg.Editor.ReadOnly)
}

// DefaultPortFile is where Port reads and writes settings when no file is
// given.
func DefaultPortFile() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "port.toml"), nil
}

// Port runs the client port dialog against the settings in file and writes
// them back on accept. It reports whether the user accepted.
func (a *App) Port(file string) (bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}
	data, err := settings.Load(file)
	if err != nil {
		return false, err
	}
	sm, err := session.NewManager()
	if err != nil {
		return false, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := sm.Stop(); err != nil {
			logger.Warn("saving session failed", "error", err)
		}
	}()

	dlg := portdialog.NewClient()
	dlg.SetCachedSettings(sm.DialogCache(clientPortDialog))
	ports, err := modbus.AvailableSerialPorts(dlg.SerialPortName.Text(), data.String(modbus.KeySerialPortName, ""))
	if err != nil {
		logger.Warn("serial port enumeration failed", "error", err)
	}
	dlg.SetSerialPorts(ports)

	s, done, err := a.openScreen()
	if err != nil {
		return false, err
	}
	defer done()

	ok, err := dlg.Exec(s, data, portdialog.StylesFromTheme(cfg.Theme))
	sm.SetDialogCache(clientPortDialog, dlg.CachedSettings())
	if err != nil || !ok {
		return false, err
	}
	if err := settings.Save(file, data); err != nil {
		return false, fmt.Errorf("write port settings: %w", err)
	}
	return true, nil
}
