package vc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHead(t *testing.T, gitDir, head string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(head+"\n"), 0o644))
}

func TestModeLineOnBranch(t *testing.T) {
	root := t.TempDir()
	writeHead(t, filepath.Join(root, ".git"), "ref: refs/heads/feature/kill-ring")
	sub := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	assert.Equal(t, "Git-feature/kill-ring", ModeLine(filepath.Join(sub, "main.go")))
}

func TestModeLineDetached(t *testing.T) {
	root := t.TempDir()
	writeHead(t, filepath.Join(root, ".git"), "0123456789abcdef0123456789abcdef01234567")
	assert.Equal(t, "Git:0123456", ModeLine(filepath.Join(root, "a.txt")))
}

func TestModeLineFollowsGitFile(t *testing.T) {
	root := t.TempDir()
	writeHead(t, filepath.Join(root, "real.git"), "ref: refs/heads/main")
	work := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(work, ".git"), []byte("gitdir: ../real.git\n"), 0o644))

	assert.Equal(t, "Git-main", ModeLine(filepath.Join(work, "x.go")))
}

func TestModeLineOutsideRepository(t *testing.T) {
	assert.Empty(t, ModeLine(""))
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("garbage"), 0o644))
	assert.Empty(t, ModeLine(filepath.Join(root, "x")))
}
