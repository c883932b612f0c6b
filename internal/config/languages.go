package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language ties file types to the language id used for structural navigation.
type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// DefaultLanguages covers the grammars the structural navigator ships with.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}},
		{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".profile"}},
		{Name: "toml", FileTypes: []string{"toml"}},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
	}}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// LanguageID returns the language name for path, or "" when none matches.
func (l Languages) LanguageID(path string) string {
	if lang := l.Match(path); lang != nil {
		return lang.Name
	}
	return ""
}

// LoadLanguages reads languages.toml. User entries come first so they win
// over the defaults when file types overlap.
func LoadLanguages() (Languages, error) {
	defaults := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return defaults, err
	}
	cfg.Languages = append(cfg.Languages, defaults.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
