package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Keymap maps a key sequence such as "ctrl+x r" to a command id.
type Keymap map[string]string

type EmulatorOptions struct {
	KillRingMax                 int  `toml:"kill-ring-max"`
	MarkRingMax                 int  `toml:"mark-ring-max"`
	EnableOverridingTypeCommand bool `toml:"enable-overriding-type-command"`
	SyncClipboard               bool `toml:"sync-clipboard"`
	UniversalMultiplier         int  `toml:"universal-multiplier"`
	PageLines                   int  `toml:"page-lines"`
}

type EditorOptions struct {
	TabWidth int `toml:"tab-width"`
}

type Theme struct {
	Theme                 string `toml:"theme"`
	Foreground            string `toml:"foreground"`
	Background            string `toml:"background"`
	StatuslineForeground  string `toml:"statusline-foreground"`
	StatuslineBackground  string `toml:"statusline-background"`
	MinibufferForeground  string `toml:"minibuffer-foreground"`
	MinibufferBackground  string `toml:"minibuffer-background"`
	SelectionForeground   string `toml:"selection-foreground"`
	SelectionBackground   string `toml:"selection-background"`
	SearchMatchForeground string `toml:"search-foreground"`
	SearchMatchBackground string `toml:"search-background"`
	ErrorForeground       string `toml:"error-foreground"`
}

type Config struct {
	Emulator EmulatorOptions `toml:"emulator"`
	Editor   EditorOptions   `toml:"editor"`
	Theme    Theme           `toml:"theme"`
	Keymap   Keymap          `toml:"keymap"`
}

func Default() Config {
	return Config{
		Emulator: EmulatorOptions{
			KillRingMax:                 60,
			MarkRingMax:                 16,
			EnableOverridingTypeCommand: true,
			SyncClipboard:               false,
			UniversalMultiplier:         4,
			PageLines:                   20,
		},
		Editor: EditorOptions{
			TabWidth: 4,
		},
		Theme: Theme{
			Foreground:            "#B3B1AD",
			Background:            "#0A0E14",
			StatuslineForeground:  "#B3B1AD",
			StatuslineBackground:  "#0F1419",
			MinibufferForeground:  "#B3B1AD",
			MinibufferBackground:  "#0A0E14",
			SelectionForeground:   "#B3B1AD",
			SelectionBackground:   "#27425A",
			SearchMatchForeground: "#000000",
			SearchMatchBackground: "#FFD700",
			ErrorForeground:       "#FF3333",
		},
		Keymap: DefaultKeymap(),
	}
}

// DefaultKeymap binds the usual Emacs keys. "digit_argument",
// "negative_argument", "find_file", "save" and "quit" are handled by the host.
func DefaultKeymap() Keymap {
	km := Keymap{
		// Motion
		"ctrl+f":      "forward_char",
		"right":       "forward_char",
		"ctrl+b":      "backward_char",
		"left":        "backward_char",
		"ctrl+n":      "next_line",
		"down":        "next_line",
		"ctrl+p":      "previous_line",
		"up":          "previous_line",
		"ctrl+a":      "move_beginning_of_line",
		"home":        "move_beginning_of_line",
		"ctrl+e":      "move_end_of_line",
		"end":         "move_end_of_line",
		"alt+f":       "forward_word",
		"alt+b":       "backward_word",
		"alt+m":       "back_to_indentation",
		"alt+<":       "beginning_of_buffer",
		"alt+>":       "end_of_buffer",
		"alt+}":       "forward_paragraph",
		"alt+{":       "backward_paragraph",
		"ctrl+v":      "scroll_up_command",
		"pgdn":        "scroll_up_command",
		"alt+v":       "scroll_down_command",
		"pgup":        "scroll_down_command",
		"alt+g g":     "goto_line",
		"alt+g alt+g": "goto_line",
		"ctrl+l":      "recenter_top_bottom",

		// Sexp
		"ctrl+alt+f": "forward_sexp",
		"ctrl+alt+b": "backward_sexp",
		"ctrl+alt+d": "forward_down_sexp",
		"ctrl+alt+u": "backward_up_sexp",
		"ctrl+alt+k": "kill_sexp",

		// Editing
		"backspace":            "delete_backward_char",
		"ctrl+d":               "delete_forward_char",
		"del":                  "delete_forward_char",
		"enter":                "new_line",
		"ctrl+k":               "kill_line",
		"ctrl+shift+backspace": "kill_whole_line",
		"alt+d":                "kill_word",
		"alt+backspace":        "backward_kill_word",
		"ctrl+w":               "kill_region",
		"alt+w":                "copy_region",
		"ctrl+y":               "yank",
		"alt+y":                "yank_pop",
		"ctrl+x ctrl+o":        "delete_blank_lines",
		"alt+u":                "transform_to_uppercase",
		"alt+l":                "transform_to_lowercase",
		"alt+c":                "transform_to_titlecase",

		// Mark
		"ctrl+space":    "set_mark_command",
		"ctrl+@":        "set_mark_command",
		"ctrl+x ctrl+x": "exchange_point_and_mark",
		"ctrl+x space":  "rectangle_mark_mode",
		"ctrl+x r":      "start_rect_command",

		// Search
		"ctrl+s": "isearch_forward",
		"ctrl+r": "isearch_backward",

		// Prefix argument
		"ctrl+u": "universal_argument",
		"alt+-":  "negative_argument",
		"ctrl+g": "cancel",

		// Files
		"ctrl+x ctrl+f": "find_file",
		"ctrl+x ctrl+s": "save",
		"ctrl+x ctrl+c": "quit",
	}
	for d := '0'; d <= '9'; d++ {
		km["alt+"+string(d)] = "digit_argument"
	}
	return km
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, err
	}

	if userCfg.Emulator.KillRingMax > 0 {
		cfg.Emulator.KillRingMax = userCfg.Emulator.KillRingMax
	}
	if userCfg.Emulator.MarkRingMax > 0 {
		cfg.Emulator.MarkRingMax = userCfg.Emulator.MarkRingMax
	}
	if userCfg.Emulator.UniversalMultiplier > 1 {
		cfg.Emulator.UniversalMultiplier = userCfg.Emulator.UniversalMultiplier
	}
	if userCfg.Emulator.PageLines > 0 {
		cfg.Emulator.PageLines = userCfg.Emulator.PageLines
	}
	if md.IsDefined("emulator", "enable-overriding-type-command") {
		cfg.Emulator.EnableOverridingTypeCommand = userCfg.Emulator.EnableOverridingTypeCommand
	}
	if md.IsDefined("emulator", "sync-clipboard") {
		cfg.Emulator.SyncClipboard = userCfg.Emulator.SyncClipboard
	}
	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	// An empty command id unbinds the key.
	for key, cmd := range userCfg.Keymap {
		if cmd == "" {
			delete(cfg.Keymap, key)
			continue
		}
		cfg.Keymap[key] = cmd
	}
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.MinibufferForeground, src.MinibufferForeground)
	set(&dst.MinibufferBackground, src.MinibufferBackground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.SearchMatchForeground, src.SearchMatchForeground)
	set(&dst.SearchMatchBackground, src.SearchMatchBackground)
	set(&dst.ErrorForeground, src.ErrorForeground)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads a theme file, either flat or wrapped in a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QEMACS_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qemacs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qemacs"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
