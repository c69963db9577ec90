/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lint runs the deprecated custom property rule over stylesheets
// and turns validator reports into positioned diagnostics.
package lint

import (
	"context"
	"fmt"
	"sync"

	asimfs "bennypowers.dev/deprecss/fs"
	"bennypowers.dev/deprecss/discover"
	"bennypowers.dev/deprecss/load"
	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/source"
	"bennypowers.dev/deprecss/specifier"
	"bennypowers.dev/deprecss/stylesheet"
	"bennypowers.dev/deprecss/validator"
)

// RuleName identifies the rule in diagnostics.
const RuleName = "deprecss/no-deprecated-custom-properties"

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Options configures the rule.
type Options struct {
	// Disabled turns the rule off; a disabled Linter reports nothing.
	Disabled bool

	// Severity of reported diagnostics. Defaults to SeverityError.
	Severity Severity

	// ImportFrom lists explicit property sources, folded in order.
	ImportFrom []source.Source

	// Resolver configures @import resolution.
	Resolver specifier.Options
}

// Linter lints stylesheets against one configuration. The properties of
// ImportFrom are loaded once, on first use, and shared by every lint.
// A Linter is safe for concurrent use.
type Linter struct {
	opts       Options
	cwd        string
	discoverer *discover.Discoverer
	loader     *load.Loader

	once     sync.Once
	imported *property.Map
}

// New creates a Linter reading files from fsys. Relative sources and
// resolver paths resolve against cwd, which must be absolute.
func New(fsys asimfs.FileSystem, cwd string, opts Options) *Linter {
	if opts.Severity == "" {
		opts.Severity = SeverityError
	}
	d := discover.New(fsys, cwd, opts.Resolver)
	return &Linter{
		opts:       opts,
		cwd:        cwd,
		discoverer: d,
		loader:     load.New(d),
	}
}

// Discoverer returns the discoverer used for stylesheets, for configuring
// network fallback before the first lint.
func (l *Linter) Discoverer() *discover.Discoverer {
	return l.discoverer
}

// Loader returns the loader used for ImportFrom, for registering module
// loaders before the first lint.
func (l *Linter) Loader() *load.Loader {
	return l.loader
}

// Enabled reports whether the rule is on.
func (l *Linter) Enabled() bool {
	return !l.opts.Disabled
}

// ImportedProperties returns the fold of ImportFrom. It is computed once.
func (l *Linter) ImportedProperties(ctx context.Context) *property.Map {
	l.once.Do(func() {
		sources := source.Normalize(ctx, l.opts.ImportFrom, l.cwd)
		l.imported = l.loader.FromSources(ctx, sources)
	})
	return l.imported
}

// Properties returns the properties visible while linting sheet: the
// ImportFrom fold overlaid with the sheet's own discovery.
func (l *Linter) Properties(ctx context.Context, sheet *stylesheet.Stylesheet) *property.Map {
	props := l.ImportedProperties(ctx).Clone()
	props.Merge(l.discoverer.FromStylesheet(ctx, sheet))
	return props
}

// Lint validates every declaration of sheet.
func (l *Linter) Lint(ctx context.Context, sheet *stylesheet.Stylesheet) []Diagnostic {
	if !l.Enabled() {
		return nil
	}
	props := l.Properties(ctx, sheet)

	var diags []Diagnostic
	sheet.WalkDecls(func(decl *stylesheet.Declaration, _ stylesheet.Node) {
		for _, r := range validator.ValidateDeclaration(decl, props) {
			diags = append(diags, l.diagnostic(sheet, decl, r))
		}
	})
	return diags
}

// LintCode parses code and lints it. file names the code's origin for
// import resolution and may be empty.
func (l *Linter) LintCode(ctx context.Context, code, file string) ([]Diagnostic, error) {
	sheet, err := stylesheet.Parse([]byte(code), file)
	if err != nil {
		return nil, err
	}
	return l.Lint(ctx, sheet), nil
}

// LintFile reads, parses and lints the stylesheet at path.
func (l *Linter) LintFile(ctx context.Context, path string) ([]Diagnostic, error) {
	sheet, err := stylesheet.ParseFile(l.discoverer.FS, path)
	if err != nil {
		return nil, fmt.Errorf("linting %s: %w", path, err)
	}
	return l.Lint(ctx, sheet), nil
}
