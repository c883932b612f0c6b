// Package app is the terminal host: it owns the screen, maps keys through
// the keymap and hands them to the emulator registry.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/config"
	"github.com/kobzarvs/qemacs/internal/emulator"
	"github.com/kobzarvs/qemacs/internal/killring"
	"github.com/kobzarvs/qemacs/internal/logger"
	"github.com/kobzarvs/qemacs/internal/session"
	"github.com/kobzarvs/qemacs/internal/structural"
	"github.com/kobzarvs/qemacs/internal/vc"
)

const (
	mainView         emulator.ViewID = "main"
	autosaveInterval                 = 15 * time.Second
)

type document struct {
	id   emulator.DocumentID
	buf  *buffer.Memory
	name string
	vc   string
}

func openDocument(path string, langs config.Languages) (*document, error) {
	doc := &document{id: emulator.DocumentID(uuid.NewString()), name: "*scratch*"}
	if path == "" {
		doc.buf = buffer.NewMemory("")
		return doc, nil
	}
	buf, err := buffer.OpenFile(path)
	if err != nil {
		return nil, err
	}
	buf.SetLanguage(langs.LanguageID(path))
	doc.buf = buf
	doc.name = filepath.Base(path)
	doc.vc = vc.ModeLine(path)
	return doc, nil
}

// App is the top-level runtime for qemacs.
type App struct {
	args []string

	cfg      config.Config
	langs    config.Languages
	screen   tcell.Screen
	registry *emulator.Registry
	nav      *structural.Navigator
	keys     *binder
	mini     *minibuffer
	styles   styles
	sess     *session.Manager

	doc     *document
	view    emulator.ViewID
	message string
	msgErr  bool
	quit    bool
}

func New(args []string) *App {
	return &App{args: args, view: mainView}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	if path, err := session.DefaultPath(); err == nil {
		a.sess = session.NewManager(path, autosaveInterval)
	} else {
		logger.Warn("session disabled", "err", err)
	}
	a.setup(cfg, langs, s)
	defer a.nav.Close()
	defer a.closeSession()

	path := ""
	if len(a.args) > 0 {
		path = a.args[0]
	}
	if err := a.open(path); err != nil {
		return err
	}
	a.render()
	for !a.quit {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			a.handleKey(ev)
		}
		a.render()
	}
	return nil
}

func (a *App) setup(cfg config.Config, langs config.Languages, s tcell.Screen) {
	a.cfg = cfg
	a.langs = langs
	a.screen = s
	a.nav = structural.New()
	opts := emulatorOptions(cfg.Emulator)
	opts.Structure = a.nav
	a.registry = emulator.NewRegistry(killring.New(cfg.Emulator.KillRingMax), opts)
	a.keys = newBinder(cfg.Keymap)
	a.mini = &minibuffer{app: a}
	a.styles = newStyles(cfg.Theme)
}

func emulatorOptions(cfg config.EmulatorOptions) emulator.Options {
	opts := emulator.DefaultOptions()
	opts.InterceptTyping = cfg.EnableOverridingTypeCommand
	if cfg.UniversalMultiplier > 1 {
		opts.Multiplier = cfg.UniversalMultiplier
	}
	if cfg.PageLines > 0 {
		opts.PageLines = cfg.PageLines
	}
	if cfg.MarkRingMax > 0 {
		opts.MarkRingDepth = cfg.MarkRingMax
	}
	if cfg.SyncClipboard {
		if emulator.SystemClipboardAvailable() {
			opts.Clipboard = emulator.SystemClipboard{}
		} else {
			logger.Warn("clipboard sync requested but no clipboard is available")
		}
	}
	return opts
}

// open replaces the document shown in the view. Dispatchers of documents
// that are no longer open are dropped.
func (a *App) open(path string) error {
	doc, err := openDocument(path, a.langs)
	if err != nil {
		return err
	}
	a.remember()
	a.doc = doc
	if a.sess != nil && path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			if pos, ok := a.sess.Place(abs); ok {
				doc.buf.SetCursor(pos)
				doc.buf.RevealLine(doc.buf.Cursor().Line, buffer.RevealCenter)
			}
		}
	}
	a.registry.GetOrCreate(a.view, doc.id, doc.buf)
	if n := a.registry.Sweep([]emulator.DocumentID{doc.id}); n > 0 {
		logger.Debug("dropped dispatchers", "count", n)
	}
	logger.Info("opened", "path", path, "lang", doc.buf.LanguageID())
	return nil
}

// remember stores point of the current document in the session.
func (a *App) remember() {
	if a.sess == nil || a.doc == nil || a.doc.buf.Path() == "" {
		return
	}
	abs, err := filepath.Abs(a.doc.buf.Path())
	if err != nil {
		return
	}
	a.sess.SetPlace(abs, a.doc.buf.Cursor())
}

func (a *App) closeSession() {
	if a.sess == nil {
		return
	}
	a.remember()
	if err := a.sess.Stop(); err != nil {
		logger.Warn("session save failed", "err", err)
	}
}

func (a *App) dispatcher() *emulator.Dispatcher {
	h, ok := a.registry.Lookup(a.view)
	if !ok {
		return nil
	}
	d, _ := a.registry.Get(h)
	return d
}

func (a *App) handleKey(ev *tcell.EventKey) {
	key := keyString(ev)
	if key == "" {
		return
	}
	a.message, a.msgErr = "", false
	d := a.dispatcher()
	if d == nil {
		return
	}
	if key == "ctrl+g" {
		a.keys.reset()
		a.dispatch(emulator.Cancel())
		return
	}
	switch d.Mode() {
	case emulator.ModeSearching:
		if key == "enter" {
			a.keys.reset()
			a.dispatch(emulator.Command("isearch_exit"))
			return
		}
	case emulator.ModeRectPrefix:
		if r, ok := plainRune(ev); ok {
			a.dispatch(emulator.Char(string(r)))
			return
		}
	}

	seq, cmd, res := a.keys.feed(key)
	switch res {
	case keyPrefix:
		a.message = seq + "-"
	case keyBound:
		a.runBinding(cmd, key)
	default:
		if r, ok := plainRune(ev); ok && seq == key {
			a.dispatch(emulator.Char(string(r)))
			return
		}
		if seq == "tab" {
			a.dispatch(emulator.Char("\t"))
			return
		}
		a.message, a.msgErr = seq+" is undefined", true
	}
}

// runBinding turns a keymap command id into emulator input. A few ids are
// host commands that never reach the dispatcher.
func (a *App) runBinding(cmd, key string) {
	switch cmd {
	case "digit_argument":
		a.dispatch(emulator.Digit(int(key[len(key)-1] - '0')))
	case "negative_argument":
		a.dispatch(emulator.NegativeSign())
	case "universal_argument":
		a.dispatch(emulator.BareRepeat())
	case "cancel":
		a.keys.reset()
		a.dispatch(emulator.Cancel())
	case "save", "quit", "find_file":
		if d := a.dispatcher(); d != nil && d.Mode() == emulator.ModeSearching {
			a.dispatch(emulator.CommandThen("isearch_exit", cmd))
			return
		}
		a.hostCommand(cmd)
	default:
		a.dispatch(emulator.Command(cmd))
	}
}

func (a *App) dispatch(ev emulator.Event) {
	res := a.registry.Dispatch(a.view, a.doc.id, a.doc.buf, ev)
	if res.Passthrough && ev.Kind == emulator.EventChar {
		if err := a.doc.buf.InsertText(a.doc.buf.Cursor(), ev.Text); err != nil {
			logger.Error("insert failed", "err", err)
		}
	}
	if res.Prompt != nil {
		if d := a.dispatcher(); d != nil {
			res = emulator.Drive(context.Background(), d, res, a.mini)
		}
	}
	a.show(res)
	if res.FollowUp != "" {
		a.hostCommand(res.FollowUp)
	}
}

func (a *App) show(res emulator.Result) {
	switch {
	case res.Message != "":
		a.message, a.msgErr = res.Message, res.Err != nil
	case res.Err != nil:
		a.message, a.msgErr = res.Err.Error(), true
	}
	if res.Err != nil && !emulator.IsUserError(res.Err) {
		logger.Warn("command failed", "err", res.Err)
	}
}

func (a *App) hostCommand(cmd string) {
	switch cmd {
	case "save":
		a.save()
	case "quit":
		if a.doc.buf.Dirty() {
			answer, ok := a.mini.ask("Modified buffer exists; exit anyway? (yes or no) ")
			if !ok || !strings.EqualFold(strings.TrimSpace(answer), "yes") {
				a.message = "Quit"
				return
			}
		}
		a.quit = true
	case "find_file":
		path, ok := a.mini.ask("Find file: ")
		if !ok || path == "" {
			a.message = "Quit"
			return
		}
		if err := a.open(path); err != nil {
			a.message, a.msgErr = err.Error(), true
		}
	default:
		a.dispatch(emulator.Command(cmd))
	}
}

func (a *App) save() {
	buf := a.doc.buf
	if buf.Path() == "" {
		path, ok := a.mini.ask("File to save in: ")
		if !ok || path == "" {
			a.message = "Quit"
			return
		}
		buf.SetPath(path)
		buf.SetLanguage(a.langs.LanguageID(path))
		a.doc.name = filepath.Base(path)
		a.doc.vc = vc.ModeLine(path)
	}
	if err := buf.Save(); err != nil {
		logger.Error("save failed", "path", buf.Path(), "err", err)
		a.message, a.msgErr = fmt.Sprintf("Saving %s failed: %v", buf.Path(), err), true
		return
	}
	a.message = "Wrote " + buf.Path()
}
