/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package stylesheet parses CSS text into a tree of comments, at-rules,
// rules and declarations with source positions.
package stylesheet

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Position is a location in a source file. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Node is a node of the stylesheet tree.
type Node interface {
	// Start returns the position of the node's first byte.
	Start() Position
	// End returns the position just past the node's last byte.
	End() Position
}

// Span holds the start and end positions of a node.
type Span struct {
	StartPos Position
	EndPos   Position
}

// Start implements Node.
func (s Span) Start() Position { return s.StartPos }

// End implements Node.
func (s Span) End() Position { return s.EndPos }

// Comment is a /* */ comment. Text is the comment body without delimiters.
type Comment struct {
	Span
	Text string
}

// Declaration is a property declaration such as `color: red`.
type Declaration struct {
	Span
	Prop      string
	Value     string
	Important bool

	// ValueStart is the position of the first byte of Value.
	ValueStart Position
}

// Variable reports whether the declaration declares a variable, that is,
// whether its property starts with "--" or "$".
func (d *Declaration) Variable() bool {
	return strings.HasPrefix(d.Prop, "--") || strings.HasPrefix(d.Prop, "$")
}

// AtRule is an at-rule such as `@import "a.css";` or `@media screen { ... }`.
type AtRule struct {
	Span
	Name   string
	Params string

	// Nodes holds the block contents; nil when the at-rule has no block.
	Nodes []Node
}

// Rule is a qualified rule: a selector and a block of nodes.
type Rule struct {
	Span
	Selector string
	Nodes    []Node
}

// Stylesheet is the root of a parsed stylesheet.
type Stylesheet struct {
	// File is the path the stylesheet was read from; empty for inline code.
	File   string
	Source []byte
	Nodes  []Node

	lineStarts []int
}

// Position converts a byte offset into a Position.
func (s *Stylesheet) Position(offset int) Position {
	if s.lineStarts == nil {
		s.lineStarts = lineStarts(s.Source)
	}
	offset = max(0, min(offset, len(s.Source)))
	line := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	col := utf8.RuneCount(s.Source[s.lineStarts[line]:offset]) + 1
	return Position{Offset: offset, Line: line + 1, Column: col}
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Text returns the source text of a node.
func (s *Stylesheet) Text(n Node) string {
	return string(s.Source[n.Start().Offset:n.End().Offset])
}

// Children returns the child nodes of a rule or at-rule.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Rule:
		return n.Nodes
	case *AtRule:
		return n.Nodes
	}
	return nil
}

// WalkAtRules calls fn for every at-rule named name (case-insensitive, no "@"),
// at every nesting level, in document order.
func (s *Stylesheet) WalkAtRules(name string, fn func(*AtRule)) {
	walk(s.Nodes, func(n Node, _ Node) {
		if at, ok := n.(*AtRule); ok && strings.EqualFold(at.Name, name) {
			fn(at)
		}
	})
}

// WalkDecls calls fn for every declaration at every nesting level, in
// document order. prev is the declaration's preceding sibling, or nil.
func (s *Stylesheet) WalkDecls(fn func(decl *Declaration, prev Node)) {
	walk(s.Nodes, func(n Node, prev Node) {
		if decl, ok := n.(*Declaration); ok {
			fn(decl, prev)
		}
	})
}

func walk(nodes []Node, fn func(n Node, prev Node)) {
	var prev Node
	for _, n := range nodes {
		fn(n, prev)
		walk(Children(n), fn)
		prev = n
	}
}
