/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package discover collects the custom properties declared by a stylesheet
// and, transitively, by the stylesheets it imports.
//
// Discovery never fails. A missing, unreadable or unparseable import, or one
// whose specifier cannot be resolved, contributes nothing.
package discover

import (
	"context"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"

	asimfs "bennypowers.dev/deprecss/fs"
	"bennypowers.dev/deprecss/internal/logger"
	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/specifier"
	"bennypowers.dev/deprecss/stylesheet"
)

// DefaultFetchTimeout is the maximum time to wait for one network fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher fetches content from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Discoverer builds custom property maps from stylesheets.
// The zero value is not usable; create one with New.
type Discoverer struct {
	// FS reads stylesheets.
	FS asimfs.FileSystem

	// Options configures import resolution. New applies defaults.
	Options specifier.Options

	// Cwd is the base directory for stylesheets with no file of origin.
	Cwd string

	// Fetcher enables network fallback for npm: and jsr: imports that do
	// not resolve locally. Nil disables it.
	Fetcher Fetcher

	// CDN selects the CDN used for network fallback.
	CDN specifier.CDN

	// FetchTimeout bounds each network fetch. Defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration
}

// New creates a Discoverer reading from fsys. Relative resolver paths are
// resolved against cwd, which must be absolute.
func New(fsys asimfs.FileSystem, cwd string, opts specifier.Options) *Discoverer {
	return &Discoverer{
		FS:      fsys,
		Options: opts.WithDefaults(cwd),
		Cwd:     cwd,
	}
}

// FromStylesheet returns the custom properties visible in sheet: those of
// its imports, merged in @import order, overlaid with its own declarations.
func (d *Discoverer) FromStylesheet(ctx context.Context, sheet *stylesheet.Stylesheet) *property.Map {
	var chain []string
	if sheet.File != "" && !isRemote(sheet.File) {
		chain = []string{d.canonical(sheet.File)}
	}
	return d.fromStylesheet(ctx, sheet, chain)
}

// FromCSSFile reads, parses and discovers the stylesheet at path.
// A read or parse failure yields an empty map.
func (d *Discoverer) FromCSSFile(ctx context.Context, path string) *property.Map {
	return d.fromFile(ctx, d.canonical(path), nil)
}

// chain holds the canonical paths (or URLs) of the stylesheets currently
// being discovered above this call; an import already on it contributes
// nothing.
func (d *Discoverer) fromStylesheet(ctx context.Context, sheet *stylesheet.Stylesheet, chain []string) *property.Map {
	var targets []string
	sheet.WalkAtRules("import", func(at *stylesheet.AtRule) {
		if target, ok := ImportTarget(at.Params); ok {
			targets = append(targets, target)
		}
	})

	imported := iter.Map(targets, func(target *string) *property.Map {
		return d.fromImport(ctx, sheet.File, *target, chain)
	})

	props := property.NewMap()
	for _, m := range imported {
		props.Merge(m)
	}

	sheet.WalkDecls(func(decl *stylesheet.Declaration, prev stylesheet.Node) {
		if !decl.Variable() || !property.IsCustomPropertyName(decl.Prop) {
			return
		}
		props.Set(decl.Prop, declRecord(decl, prev))
	})

	return props
}

func (d *Discoverer) fromImport(ctx context.Context, importer, target string, chain []string) *property.Map {
	if ctx.Err() != nil {
		return property.NewMap()
	}

	if isRemote(importer) {
		return d.fromRemoteImport(ctx, importer, target, chain)
	}

	if filepath.IsAbs(target) {
		return d.fromFile(ctx, filepath.Clean(target), chain)
	}

	dir := d.Cwd
	if importer != "" {
		dir = filepath.Dir(d.canonical(importer))
	}
	rf, err := specifier.NewImportResolver(d.FS, dir, d.Options).Resolve(target)
	if err != nil {
		if u, ok := d.cdnURL(target); ok {
			logger.Debug("import %q not found locally, fetching %s", target, u)
			return d.fromURL(ctx, u, chain)
		}
		logger.Debug("skipping import %q from %s: %v", target, dir, err)
		return property.NewMap()
	}
	return d.fromFile(ctx, d.canonical(rf.Path), chain)
}

// fromRemoteImport resolves an import made by a stylesheet fetched over the
// network. Package specifiers go to the CDN; anything else is resolved as a
// URL reference against the importer.
func (d *Discoverer) fromRemoteImport(ctx context.Context, importer, target string, chain []string) *property.Map {
	if u, ok := d.cdnURL(target); ok {
		return d.fromURL(ctx, u, chain)
	}
	base, err := url.Parse(importer)
	if err != nil {
		return property.NewMap()
	}
	ref, err := url.Parse(target)
	if err != nil {
		logger.Debug("skipping import %q from %s: %v", target, importer, err)
		return property.NewMap()
	}
	return d.fromURL(ctx, base.ResolveReference(ref).String(), chain)
}

func (d *Discoverer) fromFile(ctx context.Context, path string, chain []string) *property.Map {
	if ctx.Err() != nil || slices.Contains(chain, path) {
		return property.NewMap()
	}
	sheet, err := stylesheet.ParseFile(d.FS, path)
	if err != nil {
		logger.Debug("skipping %s: %v", path, err)
		return property.NewMap()
	}
	return d.fromStylesheet(ctx, sheet, append(slices.Clip(chain), path))
}

func (d *Discoverer) fromURL(ctx context.Context, u string, chain []string) *property.Map {
	if d.Fetcher == nil || ctx.Err() != nil || slices.Contains(chain, u) {
		return property.NewMap()
	}
	timeout := d.FetchTimeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := d.Fetcher.Fetch(fetchCtx, u)
	if err != nil {
		logger.Debug("skipping %s: %v", u, err)
		return property.NewMap()
	}
	sheet, err := stylesheet.Parse(data, u)
	if err != nil {
		logger.Debug("skipping %s: %v", u, err)
		return property.NewMap()
	}
	return d.fromStylesheet(ctx, sheet, append(slices.Clip(chain), u))
}

func (d *Discoverer) cdnURL(target string) (string, bool) {
	if d.Fetcher == nil || !specifier.IsPackageSpecifier(target) {
		return "", false
	}
	return specifier.CDNURL(target, d.CDN)
}

func (d *Discoverer) canonical(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.Cwd, path)
	}
	return filepath.Clean(path)
}

func isRemote(file string) bool {
	return strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "http://")
}
