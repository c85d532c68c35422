package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/mbtools/internal/modbus"
	"github.com/kobzarvs/mbtools/internal/portdialog"
	"github.com/kobzarvs/mbtools/internal/session"
	"github.com/kobzarvs/mbtools/internal/settings"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	cfgDir := filepath.Join(root, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MBTOOLS_CONFIG_HOME", cfgDir)
	t.Setenv("MBTOOLS_STATE_HOME", filepath.Join(root, "state"))

	orig := modbus.SerialPorts
	modbus.SerialPorts = func() ([]string, error) { return []string{"/dev/ttyUSB0"}, nil }
	t.Cleanup(func() { modbus.SerialPorts = orig })
	return root
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func openSession(t *testing.T, root string) *session.Manager {
	t.Helper()
	sm := session.Open(filepath.Join(root, "state", "session.yaml"))
	t.Cleanup(func() { _ = sm.Stop() })
	return sm
}

func TestEditSavesScriptAndSession(t *testing.T) {
	root := setupEnv(t)
	path := filepath.Join(root, "poll.py")
	s := newSimScreen(t)

	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	s.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	if err := New(s).Edit(path); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if string(data) != "x" {
		t.Fatalf("saved %q", data)
	}

	st, ok := openSession(t, root).GetFileState(path)
	if !ok {
		t.Fatal("file state not stored")
	}
	if st.CursorRow != 0 || st.CursorCol != 1 {
		t.Fatalf("file state = %+v", st)
	}
}

func TestEditRestoresCursor(t *testing.T) {
	root := setupEnv(t)
	path := filepath.Join(root, "poll.py")
	if err := os.WriteFile(path, []byte("ab\ncd"), 0o644); err != nil {
		t.Fatal(err)
	}
	sm := session.Open(filepath.Join(root, "state", "session.yaml"))
	sm.SetFileState(path, session.FileState{CursorRow: 1, CursorCol: 1})
	if err := sm.Stop(); err != nil {
		t.Fatal(err)
	}

	s := newSimScreen(t)
	s.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	s.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	if err := New(s).Edit(path); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ab\nczd" {
		t.Fatalf("saved %q", data)
	}
}

func TestPortAcceptWritesFileAndCache(t *testing.T) {
	root := setupEnv(t)
	file := filepath.Join(root, "port.toml")
	if err := settings.Save(file, settings.Settings{modbus.KeyType: "TCP", modbus.KeyHost: "10.0.0.7"}); err != nil {
		t.Fatal(err)
	}

	s := newSimScreen(t)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	ok, err := New(s).Port(file)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	if !ok {
		t.Fatal("dialog not accepted")
	}

	got, err := settings.Load(file)
	if err != nil {
		t.Fatal(err)
	}
	if got.String(modbus.KeyHost, "") != "10.0.0.7" {
		t.Fatalf("host = %v", got[modbus.KeyHost])
	}
	if !got.Has(modbus.KeyBaudRate) || !got.Has(modbus.KeyTimeout) {
		t.Fatalf("form data incomplete: %v", got)
	}

	cache := openSession(t, root).DialogCache(clientPortDialog)
	if cache.String(portdialog.ClientCachePrefix+modbus.KeyHost, "") != "10.0.0.7" {
		t.Fatalf("cache = %v", cache)
	}
}

func TestPortCancelKeepsFile(t *testing.T) {
	root := setupEnv(t)
	file := filepath.Join(root, "port.toml")

	s := newSimScreen(t)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	ok, err := New(s).Port(file)
	if err != nil {
		t.Fatalf("Port: %v", err)
	}
	if ok {
		t.Fatal("cancelled dialog reported accept")
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("settings file written on cancel: %v", err)
	}
	if len(openSession(t, root).DialogCache(clientPortDialog)) == 0 {
		t.Fatal("cache not persisted on cancel")
	}
}

func TestDefaultPortFile(t *testing.T) {
	t.Setenv("MBTOOLS_CONFIG_HOME", "/tmp/mbtools-cfg")
	got, err := DefaultPortFile()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mbtools-cfg/port.toml" {
		t.Fatalf("DefaultPortFile = %q", got)
	}
}
