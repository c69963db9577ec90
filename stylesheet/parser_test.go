/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stylesheet

import (
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/deprecss/internal/mapfs"
)

func mustParse(t *testing.T, src string) *Stylesheet {
	t.Helper()
	sheet, err := Parse([]byte(src), "/project/styles.css")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return sheet
}

func TestParse_RuleWithDeclarations(t *testing.T) {
	sheet := mustParse(t, "body { --brand-blue: #33f; color: var(--brand-blue); }")

	if len(sheet.Nodes) != 1 {
		t.Fatalf("expected 1 root node, got %d", len(sheet.Nodes))
	}
	rule, ok := sheet.Nodes[0].(*Rule)
	if !ok {
		t.Fatalf("expected *Rule, got %T", sheet.Nodes[0])
	}
	if rule.Selector != "body" {
		t.Errorf("Selector = %q, want body", rule.Selector)
	}
	if len(rule.Nodes) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(rule.Nodes))
	}

	custom := rule.Nodes[0].(*Declaration)
	if custom.Prop != "--brand-blue" || custom.Value != "#33f" || !custom.Variable() {
		t.Errorf("custom = %+v", custom)
	}
	color := rule.Nodes[1].(*Declaration)
	if color.Prop != "color" || color.Value != "var(--brand-blue)" || color.Variable() {
		t.Errorf("color = %+v", color)
	}
}

func TestParse_RootDeclarationsAndComments(t *testing.T) {
	src := "/* @deprecated */\n--brand-blue: #33f;\nbody { color: var(--brand-blue); }"
	sheet := mustParse(t, src)

	if len(sheet.Nodes) != 3 {
		t.Fatalf("expected 3 root nodes, got %d", len(sheet.Nodes))
	}
	comment, ok := sheet.Nodes[0].(*Comment)
	if !ok {
		t.Fatalf("expected *Comment, got %T", sheet.Nodes[0])
	}
	if comment.Text != " @deprecated " {
		t.Errorf("comment.Text = %q", comment.Text)
	}
	decl, ok := sheet.Nodes[1].(*Declaration)
	if !ok {
		t.Fatalf("expected *Declaration, got %T", sheet.Nodes[1])
	}
	if decl.Start().Line != 2 || decl.Start().Column != 1 {
		t.Errorf("decl start = %+v, want line 2 column 1", decl.Start())
	}
	if got := sheet.Text(decl); got != "--brand-blue: #33f" {
		t.Errorf("Text(decl) = %q", got)
	}
}

func TestParse_AtRules(t *testing.T) {
	src := `@import url(./a.css) screen;
@import "b.css";
@media (min-width: 10px) {
  @import 'nested.css';
  :root { --gap: 1px; }
}`
	sheet := mustParse(t, src)

	var params []string
	sheet.WalkAtRules("import", func(at *AtRule) {
		params = append(params, at.Params)
	})
	want := []string{"url(./a.css) screen", `"b.css"`, "'nested.css'"}
	if strings.Join(params, "|") != strings.Join(want, "|") {
		t.Errorf("import params = %q, want %q", params, want)
	}

	media := sheet.Nodes[2].(*AtRule)
	if media.Name != "media" || media.Params != "(min-width: 10px)" {
		t.Errorf("media = %q %q", media.Name, media.Params)
	}
	if len(media.Nodes) != 2 {
		t.Errorf("expected 2 nodes in @media block, got %d", len(media.Nodes))
	}
	if sheet.Nodes[0].(*AtRule).Nodes != nil {
		t.Error("block-less at-rule should have nil Nodes")
	}
}

func TestParse_Important(t *testing.T) {
	sheet := mustParse(t, "a { color: red !IMPORTANT; }")
	decl := sheet.Nodes[0].(*Rule).Nodes[0].(*Declaration)
	if !decl.Important || decl.Value != "red" {
		t.Errorf("decl = %+v, want important red", decl)
	}
}

func TestParse_CustomPropertyWithBraces(t *testing.T) {
	sheet := mustParse(t, ":root { --mixin: { color: red; }; --next: 1; }")
	rule := sheet.Nodes[0].(*Rule)
	if len(rule.Nodes) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(rule.Nodes))
	}
	mixin := rule.Nodes[0].(*Declaration)
	if mixin.Value != "{ color: red; }" {
		t.Errorf("mixin value = %q", mixin.Value)
	}
	if next := rule.Nodes[1].(*Declaration); next.Prop != "--next" {
		t.Errorf("second prop = %q, want --next", next.Prop)
	}
}

func TestParse_PseudoSelector(t *testing.T) {
	sheet := mustParse(t, "a:hover { color: red }")
	rule, ok := sheet.Nodes[0].(*Rule)
	if !ok {
		t.Fatalf("expected *Rule, got %T", sheet.Nodes[0])
	}
	if rule.Selector != "a:hover" {
		t.Errorf("Selector = %q", rule.Selector)
	}
	if decl := rule.Nodes[0].(*Declaration); decl.Value != "red" {
		t.Errorf("value = %q, want red", decl.Value)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		reason string
	}{
		{"unclosed block", "a { color: red;", "Unclosed block"},
		{"unclosed comment", "a {} /* dangling", "Unclosed comment"},
		{"unclosed string", "a { content: \"x\n}", "Unclosed string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.css")
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Parse() error = %v, want *SyntaxError", err)
			}
			if syntaxErr.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", syntaxErr.Reason, tt.reason)
			}
			if !strings.HasPrefix(err.Error(), "bad.css:") {
				t.Errorf("Error() = %q, want file prefix", err.Error())
			}
		})
	}
}

func TestWalkDecls_PreviousSibling(t *testing.T) {
	src := `:root {
  /* @deprecated */
  --a: 1;
  --b: 2;
}
.x { --c: 3; }`
	sheet := mustParse(t, src)

	prevs := map[string]Node{}
	var order []string
	sheet.WalkDecls(func(decl *Declaration, prev Node) {
		order = append(order, decl.Prop)
		prevs[decl.Prop] = prev
	})

	if strings.Join(order, ",") != "--a,--b,--c" {
		t.Errorf("order = %v", order)
	}
	if _, ok := prevs["--a"].(*Comment); !ok {
		t.Errorf("prev of --a = %T, want *Comment", prevs["--a"])
	}
	if d, ok := prevs["--b"].(*Declaration); !ok || d.Prop != "--a" {
		t.Errorf("prev of --b = %T, want --a declaration", prevs["--b"])
	}
	if prevs["--c"] != nil {
		t.Errorf("prev of --c = %T, want nil", prevs["--c"])
	}
}

func TestPosition_Unicode(t *testing.T) {
	sheet := mustParse(t, "a { content: \"é\"; color: red; }")
	rule := sheet.Nodes[0].(*Rule)
	color := rule.Nodes[1].(*Declaration)
	// "é" is two bytes but one column
	if color.Start().Column != 19 {
		t.Errorf("column = %d, want 19", color.Start().Column)
	}
	if color.ValueStart.Column != 26 {
		t.Errorf("value column = %d, want 26", color.ValueStart.Column)
	}
}

func TestParseFile(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/a.css", ":root { --a: 1; }", 0644)

	sheet, err := ParseFile(mfs, "/project/a.css")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if sheet.File != "/project/a.css" {
		t.Errorf("File = %q", sheet.File)
	}

	if _, err := ParseFile(mfs, "/project/missing.css"); err == nil {
		t.Error("expected error for missing file")
	}
}
