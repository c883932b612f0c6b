package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", ".go"}},
			{Name: "make", FileTypes: []string{".gitignore", "Makefile"}},
		},
	}

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"go.mod", "go"},
		{"/src/pkg/Main.GO", "go"},
		{".gitignore", "make"},
		{"Makefile", "make"},
		{"unknown.txt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.LanguageID(tt.path))
		})
	}
	assert.Nil(t, cfg.Match("unknown.txt"))
}

func TestDefaultLanguages(t *testing.T) {
	langs := DefaultLanguages()
	assert.Equal(t, "yaml", langs.LanguageID("ci.yml"))
	assert.Equal(t, "bash", langs.LanguageID("install.sh"))
	assert.Equal(t, "toml", langs.LanguageID("config.toml"))
}

func TestLoadLanguages(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QEMACS_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "bash"
file-types = ["zsh", "go"]
`)

	cfg, err := LoadLanguages()
	require.NoError(t, err)
	assert.Equal(t, "bash", cfg.LanguageID("init.zsh"))
	assert.Equal(t, "bash", cfg.LanguageID("main.go"), "user entries win")
	assert.Equal(t, "yaml", cfg.LanguageID("a.yaml"), "defaults stay available")
}

func TestLoadLanguagesMissing(t *testing.T) {
	t.Setenv("QEMACS_CONFIG_HOME", t.TempDir())

	cfg, err := LoadLanguages()
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguages(), cfg)
}
