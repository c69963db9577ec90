/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package list

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"bennypowers.dev/deprecss/property"
)

func testProperties() *property.Map {
	props := property.NewMap()
	props.Set("--color-primary", property.Record{Value: "#3366ff"})
	props.Set("--color-secondary", property.Record{Value: "#999", Deprecated: true, DeprecationComment: "use --color-primary"})
	props.Set("--spacing-small", property.Record{Value: "4px"})
	props.Set("--font-body", property.Record{Value: "serif", Deprecated: true})
	return props
}

func TestFilterProperties(t *testing.T) {
	props := testProperties()

	t.Run("no filters", func(t *testing.T) {
		result := filterProperties(props, false)
		if result.Len() != 4 {
			t.Errorf("expected 4 properties, got %d", result.Len())
		}
	})

	t.Run("filter deprecated only", func(t *testing.T) {
		result := filterProperties(props, true)
		names := result.Names()
		if len(names) != 2 || names[0] != "--color-secondary" || names[1] != "--font-body" {
			t.Errorf("expected deprecated properties in order, got %v", names)
		}
	})
}

func TestOutputCSS(t *testing.T) {
	var buf bytes.Buffer
	if err := outputCSS(&buf, testProperties()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `:root {
  --color-primary: #3366ff;
  /* @deprecated use --color-primary */
  --color-secondary: #999;
  --spacing-small: 4px;
  /* @deprecated */
  --font-body: serif;
}
`
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputJSON(&buf, testProperties()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	if got[1]["name"] != "--color-secondary" || got[1]["deprecated"] != true {
		t.Errorf("unexpected entry %v", got[1])
	}
	if got[1]["deprecationComment"] != "use --color-primary" {
		t.Errorf("unexpected comment in %v", got[1])
	}
	if _, ok := got[0]["deprecated"]; ok {
		t.Errorf("expected deprecated to be omitted for %v", got[0])
	}
}

func TestOutputTable(t *testing.T) {
	var buf bytes.Buffer
	if err := outputTable(&buf, testProperties()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "--color-primary") || !strings.HasSuffix(lines[0], "-") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "deprecated") || !strings.HasSuffix(lines[1], "use --color-primary") {
		t.Errorf("unexpected second line %q", lines[1])
	}
}

func TestCmd_Fixture(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", "..", "testdata", "discovery"))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{"--root", root, "--format", "css", "--deprecated-only", "src/main.css"})
	t.Cleanup(func() { Cmd.SetArgs(nil) })

	if err := Cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `:root {
  /* @deprecated prefer --brand-blue */
  --brand-red: #ff0000;
  /* @deprecated */
  --acme-border: 1px solid;
  /* @deprecated use --space-md */
  --space-medium: 1rem;
}
`
	if out.String() != want {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
