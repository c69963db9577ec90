/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package source normalizes configured custom property sources.
//
// A source is one of four kinds: a bare path, a {from, type} file object,
// an inline literal object carrying a customProperties map, or a deferred
// supplier that produces one of the other kinds when the sources are
// normalized.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/deprecss/internal/logger"
	"bennypowers.dev/deprecss/specifier"
)

// Kind tags the variant held by a Source.
type Kind int

const (
	// KindPath is a bare file path.
	KindPath Kind = iota
	// KindFile is a {from, type} object.
	KindFile
	// KindLiteral is an inline object holding a property map.
	KindLiteral
	// KindDeferred is a supplier resolved during normalization.
	KindDeferred
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindFile:
		return "file"
	case KindLiteral:
		return "literal"
	case KindDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Literal object keys under which a property map may be exposed.
// Both are accepted; when both are present, entries under KeyKebab win.
const (
	KeyCamel = "customProperties"
	KeyKebab = "custom-properties"
)

// MaxDeferredDepth bounds how many suppliers may chain into one another.
const MaxDeferredDepth = 8

// Supplier produces a source lazily.
type Supplier func(ctx context.Context) (Source, error)

// Source is a configured custom property source. Build values with Path,
// File, Literal or Deferred.
type Source struct {
	Kind Kind

	// From is the file path for KindPath and KindFile.
	From string

	// Type is the explicit file type for KindFile, without a leading dot.
	Type string

	// Object is the inline object for KindLiteral.
	Object map[string]any

	// Supplier produces the source for KindDeferred.
	Supplier Supplier
}

// Path returns a source reading the file at p, typed by its extension.
func Path(p string) Source {
	return Source{Kind: KindPath, From: p}
}

// File returns a source reading from with an explicit type.
// An empty typ means the type is taken from the extension.
func File(from, typ string) Source {
	return Source{Kind: KindFile, From: from, Type: typ}
}

// Literal returns a source holding obj, which exposes its property map
// under KeyCamel or KeyKebab.
func Literal(obj map[string]any) Source {
	return Source{Kind: KindLiteral, Object: obj}
}

// Deferred returns a source whose value is produced by fn at normalization.
func Deferred(fn Supplier) Source {
	return Source{Kind: KindDeferred, Supplier: fn}
}

// Normalized is a source ready for loading: either a typed absolute path or
// a literal object.
type Normalized struct {
	// Type is the lowercase file type without a leading dot ("css", "json", ...).
	Type string

	// From is the absolute file path, or an npm: / jsr: specifier.
	From string

	// Literal is the inline object for literal sources.
	Literal map[string]any
}

// IsLiteral reports whether n carries an inline object instead of a file.
func (n Normalized) IsLiteral() bool {
	return n.Literal != nil
}

// String describes the normalized source for log messages.
func (n Normalized) String() string {
	if n.IsLiteral() {
		return "literal"
	}
	return n.Type + ":" + n.From
}

// HasPropertyMap reports whether obj exposes a property map under either key.
func HasPropertyMap(obj map[string]any) bool {
	if obj == nil {
		return false
	}
	_, camel := obj[KeyCamel]
	_, kebab := obj[KeyKebab]
	return camel || kebab
}

// Normalize resolves sources into loadable descriptors, preserving order.
// Deferred suppliers are invoked in order; a supplier that fails is logged
// and contributes nothing. Relative paths resolve against cwd, and an empty
// path means cwd itself.
func Normalize(ctx context.Context, sources []Source, cwd string) []Normalized {
	out := make([]Normalized, 0, len(sources))
	for _, src := range sources {
		if n, ok := normalize(ctx, src, cwd, 0); ok {
			out = append(out, n)
		}
	}
	return out
}

func normalize(ctx context.Context, src Source, cwd string, depth int) (Normalized, bool) {
	switch src.Kind {
	case KindDeferred:
		if src.Supplier == nil {
			return Normalized{}, false
		}
		if depth >= MaxDeferredDepth {
			logger.Debug("deferred source chain deeper than %d, skipping", MaxDeferredDepth)
			return Normalized{}, false
		}
		if ctx.Err() != nil {
			return Normalized{}, false
		}
		next, err := src.Supplier(ctx)
		if err != nil {
			logger.Debug("deferred source failed: %v", err)
			return Normalized{}, false
		}
		return normalize(ctx, next, cwd, depth+1)

	case KindLiteral:
		obj := src.Object
		if obj == nil {
			obj = map[string]any{}
		}
		return Normalized{Literal: obj}, true

	case KindPath, KindFile:
		from := src.From
		switch {
		case from == "":
			from = cwd
		case specifier.IsPackageSpecifier(from):
		case !filepath.IsAbs(from):
			from = filepath.Join(cwd, from)
		}
		if !specifier.IsPackageSpecifier(from) {
			from = filepath.Clean(from)
		}
		typ := strings.ToLower(strings.TrimPrefix(src.Type, "."))
		if typ == "" {
			typ = strings.ToLower(strings.TrimPrefix(filepath.Ext(from), "."))
		}
		return Normalized{Type: typ, From: from}, true
	}
	return Normalized{}, false
}
