// Package structural answers balanced-expression queries for the sexp
// commands. Languages with a tree-sitter grammar are navigated by syntax
// node; everything else falls back to bracket matching.
package structural

import (
	"context"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/logger"
)

type parsed struct {
	text string
	tree *sitter.Tree
}

// Navigator implements emulator.Structure. It keeps one parser and the last
// tree per language and reparses only when the text changed.
type Navigator struct {
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
	trees   map[string]parsed
}

func New() *Navigator {
	return &Navigator{
		parsers: make(map[string]*sitter.Parser),
		trees:   make(map[string]parsed),
	}
}

func languageFor(name string) *sitter.Language {
	switch name {
	case "go":
		return golang.GetLanguage()
	case "yaml":
		return yaml.GetLanguage()
	case "toml":
		return toml.GetLanguage()
	case "bash":
		return bash.GetLanguage()
	default:
		return nil
	}
}

// Supports reports whether lang is navigated by syntax tree.
func (n *Navigator) Supports(lang string) bool {
	return languageFor(lang) != nil
}

// Close releases cached trees and parsers.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for lang, p := range n.trees {
		p.tree.Close()
		delete(n.trees, lang)
	}
	for lang, p := range n.parsers {
		p.Close()
		delete(n.parsers, lang)
	}
}

func (n *Navigator) root(lang string, src source) *sitter.Node {
	tsLang := languageFor(lang)
	if tsLang == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if p, ok := n.trees[lang]; ok && p.text == src.text {
		return p.tree.RootNode()
	}
	parser, ok := n.parsers[lang]
	if !ok {
		parser = sitter.NewParser()
		parser.SetLanguage(tsLang)
		n.parsers[lang] = parser
	}
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src.text))
	if err != nil || tree == nil {
		logger.Warn("structural: parse failed", "lang", lang, "err", err)
		return nil
	}
	if old, ok := n.trees[lang]; ok {
		old.tree.Close()
	}
	n.trees[lang] = parsed{text: src.text, tree: tree}
	return tree.RootNode()
}

type treeStep func(root *sitter.Node, off uint32) (uint32, bool)
type bracketStep func(b brackets, off int) (int, bool)

func (n *Navigator) step(t buffer.Text, lang string, pos buffer.Position, ts treeStep, bs bracketStep) (buffer.Position, bool) {
	src := newSource(t)
	if root := n.root(lang, src); root != nil {
		off, ok := ts(root, uint32(src.offset(pos)))
		if !ok {
			return pos, false
		}
		return src.position(int(off)), true
	}
	b := brackets{src: []rune(src.text)}
	off, ok := bs(b, buffer.Offset(t, pos))
	if !ok {
		return pos, false
	}
	return buffer.PositionAt(t, off), true
}

func (n *Navigator) ForwardSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool) {
	return n.step(t, lang, pos, forwardNode, brackets.forward)
}

func (n *Navigator) BackwardSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool) {
	return n.step(t, lang, pos, backwardNode, brackets.backward)
}

func (n *Navigator) ForwardDownSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool) {
	return n.step(t, lang, pos, downNode, brackets.down)
}

func (n *Navigator) BackwardUpSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool) {
	return n.step(t, lang, pos, upNode, brackets.up)
}

// container returns the deepest node strictly around off that has named
// children. The root qualifies even when off sits on its edge.
func container(root *sitter.Node, off uint32) *sitter.Node {
	best, node := root, root
	for {
		var next *sitter.Node
		for i := 0; i < int(node.ChildCount()); i++ {
			c := node.Child(i)
			if c != nil && c.StartByte() < off && off < c.EndByte() {
				next = c
				break
			}
		}
		if next == nil {
			return best
		}
		node = next
		if node.NamedChildCount() > 0 {
			best = node
		}
	}
}

func forwardNode(root *sitter.Node, off uint32) (uint32, bool) {
	p := container(root, off)
	for i := 0; i < int(p.NamedChildCount()); i++ {
		if c := p.NamedChild(i); c != nil && c.EndByte() > off {
			return c.EndByte(), true
		}
	}
	return off, false
}

func backwardNode(root *sitter.Node, off uint32) (uint32, bool) {
	p := container(root, off)
	for i := int(p.NamedChildCount()) - 1; i >= 0; i-- {
		if c := p.NamedChild(i); c != nil && c.StartByte() < off {
			return c.StartByte(), true
		}
	}
	return off, false
}

func isOpenToken(kind string) bool  { return kind == "(" || kind == "[" || kind == "{" }
func isCloseToken(kind string) bool { return kind == ")" || kind == "]" || kind == "}" }

// leaves visits token nodes in document order until fn returns false.
func leaves(node *sitter.Node, fn func(*sitter.Node) bool) bool {
	if node.ChildCount() == 0 {
		return fn(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if c := node.Child(i); c != nil && !leaves(c, fn) {
			return false
		}
	}
	return true
}

func downNode(root *sitter.Node, off uint32) (uint32, bool) {
	var (
		res uint32
		ok  bool
	)
	leaves(root, func(leaf *sitter.Node) bool {
		if leaf.StartByte() < off || leaf.IsNamed() {
			return true
		}
		switch kind := leaf.Type(); {
		case isOpenToken(kind):
			res, ok = leaf.EndByte(), true
			return false
		case isCloseToken(kind):
			return false
		}
		return true
	})
	return res, ok
}

func upNode(root *sitter.Node, off uint32) (uint32, bool) {
	var before []*sitter.Node
	leaves(root, func(leaf *sitter.Node) bool {
		if leaf.EndByte() > off {
			return false
		}
		if !leaf.IsNamed() {
			before = append(before, leaf)
		}
		return true
	})
	depth := 0
	for i := len(before) - 1; i >= 0; i-- {
		switch kind := before[i].Type(); {
		case isCloseToken(kind):
			depth++
		case isOpenToken(kind):
			if depth == 0 {
				return before[i].StartByte(), true
			}
			depth--
		}
	}
	return off, false
}
