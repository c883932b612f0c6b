package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QEMACS_CONFIG_HOME", "/tmp/qemacs-config")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/qemacs-config", dir)

	t.Setenv("QEMACS_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/qemacs", dir)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv("QEMACS_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QEMACS_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[emulator]
kill-ring-max = 2
enable-overriding-type-command = false
sync-clipboard = true
universal-multiplier = 3

[editor]
tab-width = 8

[keymap]
"ctrl+x k" = "kill_whole_line"
"ctrl+k" = "kill_whole_line"
"ctrl+l" = ""
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Emulator.KillRingMax)
	assert.False(t, cfg.Emulator.EnableOverridingTypeCommand)
	assert.True(t, cfg.Emulator.SyncClipboard)
	assert.Equal(t, 3, cfg.Emulator.UniversalMultiplier)
	assert.Equal(t, 20, cfg.Emulator.PageLines, "unset values keep defaults")
	assert.Equal(t, 16, cfg.Emulator.MarkRingMax)
	assert.Equal(t, 8, cfg.Editor.TabWidth)

	assert.Equal(t, "kill_whole_line", cfg.Keymap["ctrl+x k"])
	assert.Equal(t, "kill_whole_line", cfg.Keymap["ctrl+k"])
	assert.NotContains(t, cfg.Keymap, "ctrl+l")
	assert.Equal(t, "forward_char", cfg.Keymap["ctrl+f"])
}

func TestLoadKeepsInterceptionWhenUnset(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QEMACS_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[emulator]\npage-lines = 5\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Emulator.EnableOverridingTypeCommand)
	assert.Equal(t, 5, cfg.Emulator.PageLines)
}

func TestLoadWithTheme(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QEMACS_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
`)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[theme]
theme = "test"
background = "#123456"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "#111111", cfg.Theme.Foreground)
	assert.Equal(t, "#123456", cfg.Theme.Background, "config wins over the theme file")
	assert.Equal(t, Default().Theme.SelectionBackground, cfg.Theme.SelectionBackground)
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QEMACS_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	require.NoError(t, err)
	assert.Equal(t, "#aaaaaa", theme.Foreground)
	assert.Equal(t, "#bbbbbb", theme.Background)
}

func TestDefaultKeymapDigits(t *testing.T) {
	km := DefaultKeymap()
	for _, k := range []string{"alt+0", "alt+5", "alt+9"} {
		assert.Equal(t, "digit_argument", km[k])
	}
	assert.Equal(t, "start_rect_command", km["ctrl+x r"])
}

func TestLoadInvalidToml(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QEMACS_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[emulator\n")

	cfg, err := Load()
	require.Error(t, err)
	assert.Equal(t, Default().Emulator, cfg.Emulator)
}
