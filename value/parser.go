/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// MaxDepth is the deepest function nesting Parse accepts.
const MaxDepth = 256

// ErrTooDeep is returned when function nesting exceeds MaxDepth.
var ErrTooDeep = errors.New("value nesting too deep")

type frame struct {
	fn    *Node
	nodes []*Node
}

// Parse tokenizes a property value and builds its node tree.
//
// Parse is lenient in the same places browsers are: unclosed functions,
// strings and comments are closed at end of input, and a stray ")" becomes
// a word. It fails only when the lexer reports an error or the nesting
// exceeds MaxDepth; callers treat a failure as "nothing to walk".
func Parse(text string) ([]*Node, error) {
	lexer := css.NewLexer(parse.NewInputString(text))

	stack := []*frame{{}}
	offset := 0

	push := func(n *Node) {
		top := stack[len(stack)-1]
		top.nodes = append(top.nodes, n)
	}

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("lexing value at offset %d: %w", offset, err)
			}
			break
		}
		raw := string(data)
		start := offset
		offset += len(raw)

		switch tt {
		case css.WhitespaceToken:
			push(&Node{Type: Space, Value: raw, SourceIndex: start})

		case css.CommentToken:
			body, closed := strings.CutSuffix(strings.TrimPrefix(raw, "/*"), "*/")
			push(&Node{Type: Comment, Value: body, Unclosed: !closed, SourceIndex: start})

		case css.StringToken, css.BadStringToken:
			push(stringNode(raw, start))

		case css.CommaToken, css.ColonToken:
			push(&Node{Type: Div, Value: raw, SourceIndex: start})

		case css.DelimToken:
			if raw == "/" {
				push(&Node{Type: Div, Value: raw, SourceIndex: start})
				continue
			}
			pushWord(stack[len(stack)-1], raw, start)

		case css.UnicodeRangeToken:
			push(&Node{Type: UnicodeRange, Value: raw, SourceIndex: start})

		case css.URLToken, css.BadURLToken:
			push(urlNode(raw, start))

		case css.FunctionToken, css.LeftParenthesisToken:
			if len(stack) > MaxDepth {
				return nil, ErrTooDeep
			}
			name := strings.TrimSuffix(raw, "(")
			stack = append(stack, &frame{fn: &Node{Type: Function, Value: name, SourceIndex: start}})

		case css.RightParenthesisToken:
			if len(stack) == 1 {
				pushWord(stack[0], raw, start)
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			push(closeFunction(top, false))

		default:
			pushWord(stack[len(stack)-1], raw, start)
		}
	}

	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(closeFunction(top, true))
	}

	return foldDivSpaces(stack[0].nodes), nil
}

// pushWord appends text to the frame, extending a directly preceding word.
func pushWord(f *frame, text string, start int) {
	if n := len(f.nodes); n > 0 && f.nodes[n-1].Type == Word {
		f.nodes[n-1].Value += text
		return
	}
	f.nodes = append(f.nodes, &Node{Type: Word, Value: text, SourceIndex: start})
}

func stringNode(raw string, start int) *Node {
	n := &Node{Type: String, Quote: raw[0], SourceIndex: start}
	body := raw[1:]
	if len(body) > 0 && body[len(body)-1] == n.Quote && !escaped(body, len(body)-1) {
		n.Value = body[:len(body)-1]
	} else {
		n.Value = body
		n.Unclosed = true
	}
	return n
}

// escaped reports whether the byte at i is preceded by an odd number of backslashes.
func escaped(s string, i int) bool {
	count := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		count++
	}
	return count%2 == 1
}

// urlNode expands a url(...) token into a function. Unquoted contents become
// a single word.
func urlNode(raw string, start int) *Node {
	open := strings.IndexByte(raw, '(')
	fn := &Node{Type: Function, Value: raw[:open], SourceIndex: start}

	inner, closed := strings.CutSuffix(raw[open+1:], ")")
	fn.Unclosed = !closed

	trimmedLeft := strings.TrimLeft(inner, " \t\n\r\f")
	fn.Before = inner[:len(inner)-len(trimmedLeft)]
	content := strings.TrimRight(trimmedLeft, " \t\n\r\f")
	fn.After = trimmedLeft[len(content):]

	contentStart := start + open + 1 + len(fn.Before)
	switch {
	case content == "":
	case content[0] == '"' || content[0] == '\'':
		// a quoted url may be followed by comments or modifiers
		nodes, err := Parse(content)
		if err != nil || len(nodes) == 0 {
			fn.Nodes = []*Node{stringNode(content, contentStart)}
			break
		}
		shift(nodes, contentStart)
		fn.Nodes = nodes
	default:
		fn.Nodes = []*Node{{Type: Word, Value: content, SourceIndex: contentStart}}
	}
	return fn
}

func shift(nodes []*Node, by int) {
	for _, n := range nodes {
		n.SourceIndex += by
		shift(n.Nodes, by)
	}
}

func closeFunction(f *frame, unclosed bool) *Node {
	fn := f.fn
	fn.Unclosed = unclosed
	nodes := foldDivSpaces(f.nodes)
	if len(nodes) > 0 && nodes[0].Type == Space {
		fn.Before = nodes[0].Value
		nodes = nodes[1:]
	}
	if len(nodes) > 0 && nodes[len(nodes)-1].Type == Space {
		fn.After = nodes[len(nodes)-1].Value
		nodes = nodes[:len(nodes)-1]
	}
	fn.Nodes = nodes
	return fn
}

// foldDivSpaces moves whitespace adjacent to separators into the separator.
func foldDivSpaces(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if n.Type != Div {
			out = append(out, n)
			continue
		}
		if k := len(out); k > 0 && out[k-1].Type == Space {
			n.Before = out[k-1].Value
			out = out[:k-1]
		}
		if i+1 < len(nodes) && nodes[i+1].Type == Space {
			n.After = nodes[i+1].Value
			i++
		}
		out = append(out, n)
	}
	return out
}
