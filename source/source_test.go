/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	literal := map[string]any{KeyCamel: map[string]any{"--a": "1"}}

	tests := []struct {
		name    string
		sources []Source
		want    []Normalized
	}{
		{
			name:    "relative path gets type from extension",
			sources: []Source{Path("tokens/vars.css")},
			want:    []Normalized{{Type: "css", From: "/work/tokens/vars.css"}},
		},
		{
			name:    "extension is lowercased",
			sources: []Source{Path("/abs/Vars.JSON")},
			want:    []Normalized{{Type: "json", From: "/abs/Vars.JSON"}},
		},
		{
			name:    "explicit type wins over extension",
			sources: []Source{File("vars.txt", "CSS")},
			want:    []Normalized{{Type: "css", From: "/work/vars.txt"}},
		},
		{
			name:    "empty from defaults to cwd",
			sources: []Source{File("", "json")},
			want:    []Normalized{{Type: "json", From: "/work"}},
		},
		{
			name:    "package specifier is kept",
			sources: []Source{Path("npm:@acme/tokens/vars.css")},
			want:    []Normalized{{Type: "css", From: "npm:@acme/tokens/vars.css"}},
		},
		{
			name:    "literal passes through",
			sources: []Source{Literal(literal)},
			want:    []Normalized{{Literal: literal}},
		},
		{
			name: "order is preserved",
			sources: []Source{
				Path("b.css"),
				Literal(literal),
				Path("a.json"),
			},
			want: []Normalized{
				{Type: "css", From: "/work/b.css"},
				{Literal: literal},
				{Type: "json", From: "/work/a.json"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(t.Context(), tt.sources, "/work")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Deferred(t *testing.T) {
	calls := 0
	sources := []Source{
		Deferred(func(context.Context) (Source, error) {
			calls++
			return Path("deferred.css"), nil
		}),
		Deferred(func(context.Context) (Source, error) {
			return Deferred(func(context.Context) (Source, error) {
				return Literal(map[string]any{KeyKebab: map[string]any{}}), nil
			}), nil
		}),
		Deferred(func(context.Context) (Source, error) {
			return Source{}, errors.New("boom")
		}),
		Deferred(nil),
	}

	got := Normalize(t.Context(), sources, "/work")
	require.Len(t, got, 2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Normalized{Type: "css", From: "/work/deferred.css"}, got[0])
	assert.True(t, got[1].IsLiteral())
}

func TestNormalize_DeferredCycle(t *testing.T) {
	var loop Supplier
	loop = func(context.Context) (Source, error) { return Deferred(loop), nil }

	got := Normalize(t.Context(), []Source{Deferred(loop), Path("x.css")}, "/work")
	require.Len(t, got, 1)
	assert.Equal(t, "/work/x.css", got[0].From)
}

func TestNormalize_CancelledContextSkipsSuppliers(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	called := false
	got := Normalize(ctx, []Source{
		Deferred(func(context.Context) (Source, error) {
			called = true
			return Path("x.css"), nil
		}),
	}, "/work")
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestHasPropertyMap(t *testing.T) {
	assert.True(t, HasPropertyMap(map[string]any{KeyCamel: nil}))
	assert.True(t, HasPropertyMap(map[string]any{KeyKebab: map[string]any{}}))
	assert.False(t, HasPropertyMap(map[string]any{"from": "x.css"}))
	assert.False(t, HasPropertyMap(nil))
}
