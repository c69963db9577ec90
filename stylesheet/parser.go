/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"bennypowers.dev/deprecss/fs"
)

// SyntaxError describes input the parser cannot build a tree from.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<input css>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Reason)
}

var importantPattern = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

type token struct {
	tt     css.TokenType
	text   string
	offset int
}

type parser struct {
	sheet *Stylesheet
	toks  []token
	pos   int
}

// Parse parses CSS source. file is recorded on the returned stylesheet and
// used to resolve relative imports; pass "" for inline code.
//
// Declarations are accepted at the root and inside any block. Unclosed
// blocks, strings and comments are syntax errors.
func Parse(src []byte, file string) (*Stylesheet, error) {
	sheet := &Stylesheet{File: file, Source: src, lineStarts: lineStarts(src)}

	toks, err := tokenize(src)
	if err != nil {
		return nil, &SyntaxError{File: file, Line: 1, Column: 1, Reason: err.Error()}
	}

	p := &parser{sheet: sheet, toks: toks}
	for _, t := range toks {
		switch {
		case t.tt == css.CommentToken && !strings.HasSuffix(t.text[2:], "*/"):
			return nil, p.errorAt(t.offset, "Unclosed comment")
		case t.tt == css.BadStringToken:
			return nil, p.errorAt(t.offset, "Unclosed string")
		}
	}

	nodes, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	sheet.Nodes = nodes
	return sheet, nil
}

// ParseFile reads and parses a stylesheet from the filesystem.
func ParseFile(filesystem fs.FileSystem, path string) (*Stylesheet, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data, path)
}

func tokenize(src []byte) ([]token, error) {
	lexer := css.NewLexer(parse.NewInputBytes(src))
	var toks []token
	offset := 0
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, text: string(data), offset: offset})
		offset += len(data)
	}
}

func (p *parser) errorAt(offset int, reason string) *SyntaxError {
	pos := p.sheet.Position(offset)
	return &SyntaxError{File: p.sheet.File, Line: pos.Line, Column: pos.Column, Reason: reason}
}

func (p *parser) span(start, end int) Span {
	return Span{StartPos: p.sheet.Position(start), EndPos: p.sheet.Position(end)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) endOffset(i int) int {
	if i < len(p.toks) {
		return p.toks[i].offset
	}
	return len(p.sheet.Source)
}

// parseList parses nodes until end of input or, when nested, a closing brace.
// The closing brace is left for the caller.
func (p *parser) parseList(nested bool) ([]Node, error) {
	var nodes []Node
	for !p.eof() {
		t := p.toks[p.pos]
		switch t.tt {
		case css.WhitespaceToken, css.SemicolonToken, css.CDOToken, css.CDCToken:
			p.pos++

		case css.CommentToken:
			text := strings.TrimSuffix(strings.TrimPrefix(t.text, "/*"), "*/")
			nodes = append(nodes, &Comment{Span: p.span(t.offset, t.offset+len(t.text)), Text: text})
			p.pos++

		case css.RightBraceToken:
			if nested {
				return nodes, nil
			}
			// stray closing brace at the root
			p.pos++

		case css.AtKeywordToken:
			at, err := p.parseAtRule()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, at)

		default:
			n, err := p.parseRuleOrDeclaration()
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = append(nodes, n)
			}
		}
	}
	return nodes, nil
}

func (p *parser) parseBlock(open token) ([]Node, int, error) {
	nodes, err := p.parseList(true)
	if err != nil {
		return nil, 0, err
	}
	if p.eof() {
		return nil, 0, p.errorAt(open.offset, "Unclosed block")
	}
	closing := p.toks[p.pos]
	p.pos++
	if nodes == nil {
		nodes = []Node{}
	}
	return nodes, closing.offset + len(closing.text), nil
}

func (p *parser) parseAtRule() (*AtRule, error) {
	start := p.toks[p.pos]
	p.pos++
	at := &AtRule{Name: strings.TrimPrefix(start.text, "@")}

	var params strings.Builder
	depth := 0
	for !p.eof() {
		t := p.toks[p.pos]
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken:
			if depth == 0 {
				at.Params = strings.TrimSpace(params.String())
				at.Span = p.span(start.offset, t.offset+1)
				p.pos++
				return at, nil
			}
		case css.LeftBraceToken:
			at.Params = strings.TrimSpace(params.String())
			p.pos++
			nodes, end, err := p.parseBlock(t)
			if err != nil {
				return nil, err
			}
			at.Nodes = nodes
			at.Span = p.span(start.offset, end)
			return at, nil
		case css.RightBraceToken:
			at.Params = strings.TrimSpace(params.String())
			at.Span = p.span(start.offset, t.offset)
			return at, nil
		}
		params.WriteString(t.text)
		p.pos++
	}
	at.Params = strings.TrimSpace(params.String())
	at.Span = p.span(start.offset, len(p.sheet.Source))
	return at, nil
}

// parseRuleOrDeclaration scans ahead to the first top-level terminator. A
// "{" makes a rule, a ";" or "}" makes a declaration when a ":" was seen.
// Braces inside a custom property value are part of the value.
func (p *parser) parseRuleOrDeclaration() (Node, error) {
	first := p.pos
	colon := -1
	custom := false
	parens, braces := 0, 0

	for j := first; j < len(p.toks); j++ {
		t := p.toks[j]
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			parens++
		case css.RightParenthesisToken, css.RightBracketToken:
			if parens > 0 {
				parens--
			}
		case css.ColonToken:
			if colon < 0 && parens == 0 {
				colon = j
				custom = strings.HasPrefix(joinSignificant(p.toks[first:j]), "--")
			}
		case css.LeftBraceToken:
			if custom {
				braces++
				continue
			}
			if parens == 0 {
				return p.parseRule(first, j)
			}
		case css.RightBraceToken:
			if braces > 0 {
				braces--
				continue
			}
			return p.parseDeclaration(first, colon, j), nil
		case css.SemicolonToken:
			if parens == 0 && braces == 0 {
				decl := p.parseDeclaration(first, colon, j)
				p.pos = j + 1
				return decl, nil
			}
		}
	}
	return p.parseDeclaration(first, colon, len(p.toks)), nil
}

func (p *parser) parseRule(first, open int) (Node, error) {
	selector := strings.TrimSpace(joinTokens(p.toks[first:open]))
	p.pos = open + 1
	nodes, end, err := p.parseBlock(p.toks[open])
	if err != nil {
		return nil, err
	}
	return &Rule{Span: p.span(p.toks[first].offset, end), Selector: selector, Nodes: nodes}, nil
}

// parseDeclaration builds a declaration from toks[first:end]. Without a colon
// the tokens are not a declaration and are skipped.
func (p *parser) parseDeclaration(first, colon, end int) Node {
	p.pos = end
	if colon < 0 {
		return nil
	}
	prop := joinSignificant(p.toks[first:colon])
	if prop == "" {
		return nil
	}

	valueToks := p.toks[colon+1 : end]
	raw := joinTokens(valueToks)
	leading := len(raw) - len(strings.TrimLeft(raw, " \t\n\r\f"))
	value := strings.TrimSpace(raw)

	decl := &Declaration{Prop: prop}
	if loc := importantPattern.FindStringIndex(value); loc != nil {
		decl.Important = true
		value = strings.TrimSpace(value[:loc[0]])
	}
	decl.Value = value

	valueOffset := p.endOffset(colon+1) + leading
	decl.ValueStart = p.sheet.Position(valueOffset)
	decl.Span = p.span(p.toks[first].offset, valueOffset+len(strings.TrimRight(raw[leading:], " \t\n\r\f")))
	return decl
}

func joinTokens(toks []token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.text)
	}
	return sb.String()
}

// joinSignificant concatenates tokens, dropping whitespace and comments.
func joinSignificant(toks []token) string {
	var sb strings.Builder
	for _, t := range toks {
		if t.tt == css.WhitespaceToken || t.tt == css.CommentToken {
			continue
		}
		sb.WriteString(t.text)
	}
	return sb.String()
}
