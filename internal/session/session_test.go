package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

func TestDefaultPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/qemacs/session.json", path)
}

func TestPlacesSurviveRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	m := NewManager(path, 0)
	m.SetPlace("/src/main.go", buffer.Position{Line: 12, Col: 4})
	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop(), "second stop is harmless")

	again := NewManager(path, 0)
	pos, ok := again.Place("/src/main.go")
	require.True(t, ok)
	assert.Equal(t, buffer.Position{Line: 12, Col: 4}, pos)
	_, ok = again.Place("/src/other.go")
	assert.False(t, ok)
}

func TestForgetDropsPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(path, 0)
	m.SetPlace("/a", buffer.Position{Line: 3})
	m.SetPlace("/b", buffer.Position{Line: 4})
	m.Forget("/a")
	m.Forget("/missing")
	require.NoError(t, m.Save())

	again := NewManager(path, 0)
	_, ok := again.Place("/a")
	assert.False(t, ok)
	_, ok = again.Place("/b")
	assert.True(t, ok)
}

func TestSaveSkipsCleanSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(path, 0)
	require.NoError(t, m.Save())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := NewManager(path, 0)
	_, ok := m.Place("/x")
	assert.False(t, ok)
	m.SetPlace("/x", buffer.Position{Line: 1})
	require.NoError(t, m.Save())

	pos, ok := NewManager(path, 0).Place("/x")
	require.True(t, ok)
	assert.Equal(t, 1, pos.Line)
}
