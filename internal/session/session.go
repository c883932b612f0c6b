// Package session remembers where point was in each visited file so that
// reopening it lands in the same place.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/logger"
)

// Place is the saved point of one file.
type Place struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Session is what gets written to session.json.
type Session struct {
	Places    map[string]Place `json:"places"`
	LastSaved time.Time        `json:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// DefaultPath is $XDG_STATE_HOME/qemacs/session.json.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "qemacs", "session.json"), nil
}

// NewManager loads the session stored at path. A missing or unreadable
// file starts an empty session. Autosave runs every interval when it is
// positive.
func NewManager(path string, interval time.Duration) *Manager {
	m := &Manager{
		session:  Session{Places: make(map[string]Place)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	if interval > 0 {
		go m.autosaveLoop(interval)
	}
	return m
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn("session: ignoring corrupt file", "path", m.path, "err", err)
		return
	}
	if session.Places == nil {
		session.Places = make(map[string]Place)
	}
	m.session = session
}

// Save persists the session if anything changed since the last save.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// Place returns the saved point for a file.
func (m *Manager) Place(absPath string) (buffer.Position, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.session.Places[absPath]
	return buffer.Position{Line: p.Line, Col: p.Col}, ok
}

func (m *Manager) SetPlace(absPath string, pos buffer.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Places[absPath] = Place{Line: pos.Line, Col: pos.Col}
	m.dirty = true
}

// Forget drops the saved point of a file.
func (m *Manager) Forget(absPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.session.Places[absPath]; ok {
		delete(m.session.Places, absPath)
		m.dirty = true
	}
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session: autosave failed", "err", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends autosave and writes the final state. It is safe to call twice.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.Save()
}
