/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package discover

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/deprecss/internal/mapfs"
	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/specifier"
	"bennypowers.dev/deprecss/stylesheet"
	"bennypowers.dev/deprecss/testutil"
)

func discoverCode(t *testing.T, d *Discoverer, code, file string) *property.Map {
	t.Helper()
	sheet, err := stylesheet.Parse([]byte(code), file)
	require.NoError(t, err)
	return d.FromStylesheet(t.Context(), sheet)
}

func TestFromStylesheet_Empty(t *testing.T) {
	d := New(mapfs.New(), "/project", specifier.Options{})
	props := discoverCode(t, d, "body { color: red; } @media screen { a { margin: 0 } }", "")
	assert.Equal(t, 0, props.Len())
}

func TestFromStylesheet_Declarations(t *testing.T) {
	d := New(mapfs.New(), "/project", specifier.Options{})
	props := discoverCode(t, d, `
		:root { --plain: 1px; }
		/* @deprecated use --y */
		--x: v;
		.a {
			/* just a note */
			--noted: 2;
			/* @deprecated */
			--bare: 3;
			color: red;
			--after-decl: 4;
		}
		@media screen {
			:root {
				/** @deprecated since 2.0 */
				--nested: 5;
			}
		}
	`, "")

	tests := []struct {
		name string
		want property.Record
	}{
		{"--plain", property.Record{Value: "1px"}},
		{"--x", property.Record{Value: "v", Deprecated: true, DeprecationComment: "use --y"}},
		{"--noted", property.Record{Value: "2"}},
		{"--bare", property.Record{Value: "3", Deprecated: true}},
		{"--after-decl", property.Record{Value: "4"}},
		{"--nested", property.Record{Value: "5", Deprecated: true, DeprecationComment: "since 2.0"}},
	}
	for _, tt := range tests {
		got, ok := props.Get(tt.name)
		if assert.True(t, ok, tt.name) {
			assert.Equal(t, tt.want, got, tt.name)
		}
	}
	assert.Equal(t, []string{"--plain", "--x", "--noted", "--bare", "--after-decl", "--nested"}, props.Names())
}

func TestFromStylesheet_IgnoresNonCustomVariables(t *testing.T) {
	d := New(mapfs.New(), "/project", specifier.Options{})
	props := discoverCode(t, d, "$scss-var: 1; a { color: red; }", "")
	assert.Equal(t, 0, props.Len())
}

func TestFromStylesheet_DirectBeatsImport(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/a.css", ":root { --x: 0; --only-a: a; }", 0644)
	mfs.AddFile("/project/b.css", ":root { --x: 1; } @import './a.css';", 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := d.FromCSSFile(t.Context(), "/project/b.css")

	x, ok := props.Get("--x")
	require.True(t, ok)
	assert.Equal(t, "1", x.Value)
	assert.True(t, props.Has("--only-a"))
}

func TestFromStylesheet_LastImportWins(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/one.css", ":root { --x: one; }", 0644)
	mfs.AddFile("/project/two.css", ":root { --x: two; }", 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := discoverCode(t, d, `@import "one.css"; @import "two.css";`, "/project/main.css")
	x, _ := props.Get("--x")
	assert.Equal(t, "two", x.Value)

	props = discoverCode(t, d, `@import "two.css"; @import "one.css";`, "/project/main.css")
	x, _ = props.Get("--x")
	assert.Equal(t, "one", x.Value)
}

func TestFromStylesheet_NestedImports(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/css/nested.css", ":root { --nested: 1; }", 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := discoverCode(t, d, `@media print { @supports (color: red) { @import "css/nested.css"; } }`, "")
	assert.True(t, props.Has("--nested"))
}

func TestFromStylesheet_InlineUsesCwd(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/work/vars.css", ":root { --w: 1; }", 0644)

	d := New(mfs, "/work", specifier.Options{})
	props := discoverCode(t, d, `@import "vars.css";`, "")
	assert.True(t, props.Has("--w"))
}

func TestFromStylesheet_AbsoluteImport(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/elsewhere/abs.css", ":root { --abs: 1; }", 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := discoverCode(t, d, `@import "/elsewhere/abs.css";`, "/project/main.css")
	assert.True(t, props.Has("--abs"))
}

func TestFromStylesheet_ResolverOptions(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/vendor/theme/vars.pcss", ":root { --theme: 1; }", 0644)
	mfs.AddFile("/project/web_modules/kit/index.pcss", ":root { --kit: 1; }", 0644)

	d := New(mfs, "/project", specifier.Options{
		Paths:             []string{"vendor"},
		Extensions:        []string{".pcss"},
		ModuleDirectories: []string{"web_modules"},
	})
	props := discoverCode(t, d, `@import "theme/vars"; @import "kit";`, "/project/src/main.css")
	assert.True(t, props.Has("--theme"))
	assert.True(t, props.Has("--kit"))
}

func TestFromStylesheet_MissingImportIsSilent(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/ok.css", ":root { --ok: 1; }", 0644)
	mfs.AddFile("/project/broken.css", ":root { --broken: 1; /* unclosed", 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := discoverCode(t, d, `
		@import url(nonexistent.css);
		@import "broken.css";
		@import "ok.css";
		@import screen;
		body { color: var(--x); }
	`, "/project/main.css")

	assert.Equal(t, []string{"--ok"}, props.Names())
}

func TestFromCSSFile_Missing(t *testing.T) {
	d := New(mapfs.New(), "/project", specifier.Options{})
	props := d.FromCSSFile(t.Context(), "/project/nope.css")
	assert.Equal(t, 0, props.Len())
}

func TestFromCSSFile_Cycle(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/a.css", `@import "b.css"; :root { --a: 1; }`, 0644)
	mfs.AddFile("/project/b.css", `@import "a.css"; @import "b.css"; :root { --b: 1; }`, 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := d.FromCSSFile(t.Context(), "/project/a.css")

	assert.Equal(t, []string{"--b", "--a"}, props.Names())
	assert.Equal(t, 1, mfs.ReadCount("/project/a.css"))
	assert.Equal(t, 1, mfs.ReadCount("/project/b.css"))
}

func TestFromCSSFile_DiamondIsNotACycle(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/main.css", `@import "left.css"; @import "right.css";`, 0644)
	mfs.AddFile("/project/left.css", `@import "base.css";`, 0644)
	mfs.AddFile("/project/right.css", `@import "base.css";`, 0644)
	mfs.AddFile("/project/base.css", `:root { --base: 1; }`, 0644)

	d := New(mfs, "/project", specifier.Options{})
	props := d.FromCSSFile(t.Context(), "/project/main.css")
	assert.True(t, props.Has("--base"))
	assert.Equal(t, 2, mfs.ReadCount("/project/base.css"))
}

func TestFromCSSFile_Idempotent(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "discovery", "/project")
	d := New(mfs, "/project", specifier.Options{})

	first := d.FromCSSFile(t.Context(), "/project/src/main.css")
	second := d.FromCSSFile(t.Context(), "/project/src/main.css")
	assert.True(t, first.Equal(second))
}

func TestFromCSSFile_Fixture(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "discovery", "/project")
	d := New(mfs, "/project", specifier.Options{})

	props := d.FromCSSFile(t.Context(), "/project/src/main.css")

	assert.Equal(t, []string{
		"--brand-blue",
		"--brand-red",
		"--acme-border",
		"--acme-radius",
		"--space-medium",
	}, props.Names())

	blue, _ := props.Get("--brand-blue")
	assert.Equal(t, "#3366ff", blue.Value)

	red, _ := props.Get("--brand-red")
	assert.Equal(t, property.Record{Value: "#ff0000", Deprecated: true, DeprecationComment: "prefer --brand-blue"}, red)

	border, _ := props.Get("--acme-border")
	assert.True(t, border.Deprecated)
	assert.Empty(t, border.DeprecationComment)

	space, _ := props.Get("--space-medium")
	assert.Equal(t, "use --space-md", space.DeprecationComment)
}

func TestFromStylesheet_CancelledContext(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/a.css", ":root { --a: 1; }", 0644)

	d := New(mfs, "/project", specifier.Options{})
	sheet, err := stylesheet.Parse([]byte(`@import "a.css"; :root { --own: 1; }`), "/project/main.css")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	props := d.FromStylesheet(ctx, sheet)

	assert.Equal(t, []string{"--own"}, props.Names())
	assert.Equal(t, 0, mfs.ReadCount("/project/a.css"))
}

type fakeFetcher struct {
	files map[string]string
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	if content, ok := f.files[url]; ok {
		return []byte(content), nil
	}
	return nil, errors.New("404 Not Found")
}

func TestFromStylesheet_NetworkFallback(t *testing.T) {
	fetcher := &fakeFetcher{files: map[string]string{
		"https://unpkg.com/@acme/tokens/css/vars.css": `@import "./base.css"; :root { /* @deprecated */ --remote: 1; }`,
		"https://unpkg.com/@acme/tokens/css/base.css": `:root { --remote-base: 1; }`,
	}}

	d := New(mapfs.New(), "/project", specifier.Options{})
	d.Fetcher = fetcher

	props := discoverCode(t, d, `@import "npm:@acme/tokens/css/vars.css"; @import "npm:@acme/missing/x.css";`, "/project/main.css")

	assert.Equal(t, []string{"--remote-base", "--remote"}, props.Names())
	remote, _ := props.Get("--remote")
	assert.True(t, remote.Deprecated)
	assert.Equal(t, int32(3), fetcher.calls.Load())
}

func TestFromStylesheet_NoFetcherNoNetwork(t *testing.T) {
	d := New(mapfs.New(), "/project", specifier.Options{})
	props := discoverCode(t, d, `@import "npm:@acme/tokens/css/vars.css";`, "/project/main.css")
	assert.Equal(t, 0, props.Len())
}

func TestFromStylesheet_LocalBeatsNetwork(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/node_modules/@acme/tokens/css/vars.css", ":root { --local: 1; }", 0644)
	fetcher := &fakeFetcher{}

	d := New(mfs, "/project", specifier.Options{})
	d.Fetcher = fetcher

	props := discoverCode(t, d, `@import "npm:@acme/tokens/css/vars.css";`, "/project/main.css")
	assert.True(t, props.Has("--local"))
	assert.Equal(t, int32(0), fetcher.calls.Load())
}
