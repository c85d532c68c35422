package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kobzarvs/mbtools/internal/logger"
	"github.com/kobzarvs/mbtools/internal/settings"
)

// FileState stores the view state of a single script
type FileState struct {
	CursorRow int `yaml:"cursor_row"`
	CursorCol int `yaml:"cursor_col"`
	ScrollY   int `yaml:"scroll_y"`
}

// Session stores everything that survives between runs
type Session struct {
	Files      map[string]FileState         `yaml:"files"`
	Dialogs    map[string]settings.Settings `yaml:"dialogs,omitempty"` // keyed by dialog name
	ActiveFile string                       `yaml:"active_file,omitempty"`
	LastSaved  time.Time                    `yaml:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopOnce sync.Once
	stopChan chan struct{}
}

const autosaveInterval = 15 * time.Second

// NewManager opens the session file in the state directory
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return Open(path), nil
}

// Open loads the session stored at path, if any, and starts autosaving to it.
func Open(path string) *Manager {
	m := &Manager{
		session: Session{
			Files:   make(map[string]FileState),
			Dialogs: make(map[string]settings.Settings),
		},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	go m.autosaveLoop()
	return m
}

func sessionPath() (string, error) {
	dir := os.Getenv("MBTOOLS_STATE_HOME")
	if dir == "" {
		stateDir := os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			stateDir = filepath.Join(home, ".local", "state")
		}
		dir = filepath.Join(stateDir, "mbtools")
	}
	return filepath.Join(dir, "session.yaml"), nil
}

// Path returns the file the session is stored in.
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return // No existing session, start fresh
	}
	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		logger.Warn("ignoring unreadable session", "path", m.path, "error", err)
		return
	}
	if session.Files == nil {
		session.Files = make(map[string]FileState)
	}
	if session.Dialogs == nil {
		session.Dialogs = make(map[string]settings.Settings)
	}
	m.session = session
}

// Save persists the session to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := yaml.Marshal(&m.session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := settings.WriteFile(m.path, data); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// ForceSave saves even if not dirty
func (m *Manager) ForceSave() error {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}

// GetFileState returns the saved state for a script
func (m *Manager) GetFileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Files[absPath]
	return state, ok
}

// SetFileState updates the state for a script
func (m *Manager) SetFileState(absPath string, state FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Files[absPath] = state
	m.session.ActiveFile = absPath
	m.dirty = true
}

// GetActiveFile returns the last active script
func (m *Manager) GetActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

// DialogCache returns a copy of the cached field values of the named dialog.
func (m *Manager) DialogCache(name string) settings.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Dialogs[name].Clone()
}

// SetDialogCache replaces the cached field values of the named dialog.
func (m *Manager) SetDialogCache(name string, cache settings.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Dialogs[name] = cache.Clone()
	m.dirty = true
}

func (m *Manager) autosaveLoop() {
	ticker := time.NewTicker(autosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session autosave failed", "error", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop stops the autosave loop and saves final state
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.ForceSave()
}
