/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier parses and resolves import specifiers: relative and
// absolute paths, bare module ids, and npm: / jsr: package specifiers.
package specifier

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind indicates the type of specifier.
type Kind int

const (
	// KindLocal is a relative or absolute file path.
	KindLocal Kind = iota
	// KindNPM is an npm package specifier.
	KindNPM
	// KindJSR is a jsr package specifier.
	KindJSR
	// KindModule is a bare id found in a module directory.
	KindModule
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNPM:
		return "npm"
	case KindJSR:
		return "jsr"
	case KindModule:
		return "module"
	default:
		return "local"
	}
}

// Specifier represents a parsed package specifier.
type Specifier struct {
	// Kind is the type of specifier (local, npm, jsr).
	Kind Kind

	// Package is the package name (e.g., "@scope/pkg" or "pkg").
	Package string

	// File is the file path within the package, or the whole path for local specifiers.
	File string

	// Raw is the original specifier string.
	Raw string
}

// npmPattern and jsrPattern match <proto>:@scope/pkg/path, <proto>:pkg/path, or bare <proto>:pkg
var (
	npmPattern = regexp.MustCompile(`^npm:(@[^/]+/[^/]+|[^/]+)(/.*)?$`)
	jsrPattern = regexp.MustCompile(`^jsr:(@[^/]+/[^/]+|[^/]+)(/.*)?$`)
)

// Parse parses a specifier string into a Specifier struct.
func Parse(spec string) *Specifier {
	for _, p := range []struct {
		prefix  string
		pattern *regexp.Regexp
		kind    Kind
	}{
		{"npm:", npmPattern, KindNPM},
		{"jsr:", jsrPattern, KindJSR},
	} {
		if !strings.HasPrefix(spec, p.prefix) {
			continue
		}
		if m := p.pattern.FindStringSubmatch(spec); len(m) == 3 {
			return &Specifier{
				Kind:    p.kind,
				Package: m[1],
				File:    strings.TrimPrefix(m[2], "/"),
				Raw:     spec,
			}
		}
	}

	return &Specifier{Kind: KindLocal, File: spec, Raw: spec}
}

// IsPackageSpecifier returns true if the string is a valid npm or jsr specifier.
func IsPackageSpecifier(spec string) bool {
	k := Parse(spec).Kind
	return k == KindNPM || k == KindJSR
}

// IsRelative reports whether spec is explicitly relative ("./x", "../x").
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, `.\`) || strings.HasPrefix(spec, `..\`)
}

// IsBare reports whether spec is a bare module id: neither a package
// specifier, a relative path nor an absolute path.
func IsBare(spec string) bool {
	return spec != "" && !IsPackageSpecifier(spec) && !IsRelative(spec) && !filepath.IsAbs(spec)
}
