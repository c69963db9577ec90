/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package value parses CSS property values into a tree of value nodes.
//
// The tree mirrors the shape used by postcss-value-parser: whitespace around
// separators and inside function parentheses is folded into the Before and
// After fields, so a function's Nodes begin and end with substantive nodes.
package value

import "strings"

// Type is the kind of a value node.
type Type int

const (
	// Word is any run of non-separator tokens: identifiers, numbers, hashes.
	Word Type = iota
	// String is a quoted string. Value holds the text between the quotes.
	String
	// Div is a separator: ",", "/" or ":".
	Div
	// Space is insignificant whitespace between two nodes.
	Space
	// Comment is a /* */ comment. Value holds the inner text.
	Comment
	// Function is a function call or a parenthesized group (empty Value).
	Function
	// UnicodeRange is a unicode-range token such as U+0025-00FF.
	UnicodeRange
)

var typeNames = [...]string{"word", "string", "div", "space", "comment", "function", "unicode-range"}

// String returns the node type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Node is one node of a parsed value.
type Node struct {
	Type Type

	// Value is the word text, the string contents, the separator character,
	// the whitespace, the comment body or the function name.
	Value string

	// Quote is the quote character of a String node.
	Quote byte

	// Before and After hold whitespace folded into a Div or a Function.
	Before string
	After  string

	// Nodes holds the arguments of a Function.
	Nodes []*Node

	// Unclosed marks a Function, String or Comment with no terminator.
	Unclosed bool

	// SourceIndex is the byte offset of the node in the parsed text.
	SourceIndex int
}

// IsFunction reports whether n is a function node named name (case-sensitive).
func (n *Node) IsFunction(name string) bool {
	return n != nil && n.Type == Function && n.Value == name
}

// Substantive reports whether n carries meaning, that is, whether it is
// neither whitespace nor a comment.
func (n *Node) Substantive() bool {
	return n != nil && n.Type != Space && n.Type != Comment
}

// Walk calls fn for every node in depth-first document order. When fn returns
// false for a Function node, its arguments are not visited.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if fn(n) && n.Type == Function {
			Walk(n.Nodes, fn)
		}
	}
}

// Stringify renders nodes back to CSS text.
func Stringify(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		stringifyNode(&sb, n)
	}
	return sb.String()
}

func stringifyNode(sb *strings.Builder, n *Node) {
	switch n.Type {
	case String:
		sb.WriteByte(n.Quote)
		sb.WriteString(n.Value)
		if !n.Unclosed {
			sb.WriteByte(n.Quote)
		}
	case Div:
		sb.WriteString(n.Before)
		sb.WriteString(n.Value)
		sb.WriteString(n.After)
	case Comment:
		sb.WriteString("/*")
		sb.WriteString(n.Value)
		if !n.Unclosed {
			sb.WriteString("*/")
		}
	case Function:
		sb.WriteString(n.Value)
		sb.WriteByte('(')
		sb.WriteString(n.Before)
		for _, child := range n.Nodes {
			stringifyNode(sb, child)
		}
		sb.WriteString(n.After)
		if !n.Unclosed {
			sb.WriteByte(')')
		}
	default:
		sb.WriteString(n.Value)
	}
}
