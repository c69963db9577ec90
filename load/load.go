/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load turns normalized sources into custom property maps.
//
// Loading never fails: a source that cannot be read, resolved or parsed
// contributes an empty map, and the reason is logged at debug level.
package load

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/deprecss/discover"
	"bennypowers.dev/deprecss/internal/logger"
	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/source"
	"bennypowers.dev/deprecss/specifier"
	"bennypowers.dev/deprecss/stylesheet"
)

var (
	// ErrLocalResolution indicates that local filesystem resolution failed.
	ErrLocalResolution = errors.New("local resolution failed")

	// ErrNetworkFallback indicates that the CDN network fallback also failed.
	ErrNetworkFallback = errors.New("network fallback failed")
)

// Source types understood by Load.
const (
	TypeCSS    = "css"
	TypeJSON   = "json"
	TypeYAML   = "yaml"
	TypeYML    = "yml"
	TypeTokens = "tokens"
	TypeJS     = "js"
	TypeMJS    = "mjs"
	TypeCJS    = "cjs"
)

// ModuleLoader evaluates a script module and returns its exports.
// Registering one means trusting the code of every module it loads.
type ModuleLoader func(ctx context.Context, path string) (map[string]any, error)

// Loader loads custom property maps from normalized sources.
type Loader struct {
	// Discoverer reads stylesheet sources and resolves package specifiers.
	Discoverer *discover.Discoverer

	// TokenPrefix is prepended to custom property names generated from
	// design token files.
	TokenPrefix string

	mu      sync.RWMutex
	modules map[string]ModuleLoader
}

// New creates a Loader backed by d.
func New(d *discover.Discoverer) *Loader {
	return &Loader{Discoverer: d, modules: make(map[string]ModuleLoader)}
}

// RegisterModuleLoader installs fn for script sources of type typ
// ("js", "mjs" or "cjs"). Without a registered loader such sources
// contribute nothing.
func (l *Loader) RegisterModuleLoader(typ string, fn ModuleLoader) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modules[strings.ToLower(strings.TrimPrefix(typ, "."))] = fn
}

func (l *Loader) moduleLoader(typ string) (ModuleLoader, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn, ok := l.modules[typ]
	return fn, ok
}

// FromSources folds sources left to right: entries of later sources
// overwrite entries of earlier ones with the same name.
func (l *Loader) FromSources(ctx context.Context, sources []source.Normalized) *property.Map {
	props := property.NewMap()
	for _, src := range sources {
		props.Merge(l.Load(ctx, src))
	}
	return props
}

// Load loads one source. It never fails; see the package documentation.
func (l *Loader) Load(ctx context.Context, src source.Normalized) *property.Map {
	if src.IsLiteral() {
		return FromObject(src.Literal)
	}
	if ctx.Err() != nil {
		return property.NewMap()
	}

	props, err := l.load(ctx, src)
	if err != nil {
		logger.Debug("skipping source %s: %v", src, err)
		return property.NewMap()
	}
	return props
}

func (l *Loader) load(ctx context.Context, src source.Normalized) (*property.Map, error) {
	typ := src.Type
	if IsTokensFile(src.From) {
		typ = TypeTokens
	}

	switch typ {
	case TypeCSS:
		return l.loadCSS(ctx, src.From)

	case TypeJSON, TypeYAML, TypeYML:
		data, _, err := l.read(ctx, src.From)
		if err != nil {
			return nil, err
		}
		obj, err := decodeObject(data, typ != TypeJSON)
		if err != nil {
			return nil, err
		}
		return FromObject(obj), nil

	case TypeTokens:
		data, path, err := l.read(ctx, src.From)
		if err != nil {
			return nil, err
		}
		return FromTokens(data, l.TokenPrefix, isYAML(path))

	case TypeJS, TypeMJS, TypeCJS:
		fn, ok := l.moduleLoader(typ)
		if !ok {
			return nil, fmt.Errorf("no module loader registered for %q", typ)
		}
		path, err := l.resolve(src.From)
		if err != nil {
			return nil, err
		}
		exports, err := fn(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading module %s: %w", path, err)
		}
		return FromObject(moduleObject(exports)), nil
	}

	return nil, fmt.Errorf("unsupported source type %q", typ)
}

func (l *Loader) loadCSS(ctx context.Context, from string) (*property.Map, error) {
	if !specifier.IsPackageSpecifier(from) {
		return l.Discoverer.FromCSSFile(ctx, from), nil
	}
	if path, err := l.resolve(from); err == nil {
		return l.Discoverer.FromCSSFile(ctx, path), nil
	}
	data, url, err := l.read(ctx, from)
	if err != nil {
		return nil, err
	}
	sheet, err := stylesheet.Parse(data, url)
	if err != nil {
		return nil, err
	}
	return l.Discoverer.FromStylesheet(ctx, sheet), nil
}

// resolve maps an npm: or jsr: specifier to a local path; other paths are
// returned unchanged.
func (l *Loader) resolve(from string) (string, error) {
	if !specifier.IsPackageSpecifier(from) {
		return from, nil
	}
	d := l.Discoverer
	rf, err := specifier.NewImportResolver(d.FS, d.Cwd, d.Options).Resolve(from)
	if err != nil {
		return "", err
	}
	return rf.Path, nil
}

// read returns the contents of a source file and where they came from.
// Package specifiers that do not resolve locally are fetched from the CDN
// when the discoverer has a Fetcher.
func (l *Loader) read(ctx context.Context, from string) ([]byte, string, error) {
	path, localErr := l.resolve(from)
	if localErr == nil {
		data, err := l.Discoverer.FS.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		localErr = fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.fetchFromCDN(ctx, from, localErr)
}

// fetchFromCDN attempts to fetch content from CDN as a fallback.
// Returns the original localErr if no fetcher is provided or the specifier
// has no CDN URL for the configured provider.
func (l *Loader) fetchFromCDN(ctx context.Context, spec string, localErr error) ([]byte, string, error) {
	d := l.Discoverer
	if d.Fetcher == nil {
		return nil, "", localErr
	}
	cdnURL, ok := specifier.CDNURL(spec, d.CDN)
	if !ok {
		return nil, "", localErr
	}

	timeout := d.FetchTimeout
	if timeout == 0 {
		timeout = discover.DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	content, fetchErr := d.Fetcher.Fetch(ctx, cdnURL)
	if fetchErr != nil {
		return nil, "", fmt.Errorf("%w (%w), %w: %w", ErrLocalResolution, localErr, ErrNetworkFallback, fetchErr)
	}
	return content, cdnURL, nil
}

// IsTokensFile reports whether path names a design tokens file.
func IsTokensFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{".tokens.json", ".tokens.yaml", ".tokens.yml"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// decodeObject decodes a JSON (comments and trailing commas allowed) or
// YAML document whose top level must be an object.
func decodeObject(data []byte, asYAML bool) (map[string]any, error) {
	var obj map[string]any
	if asYAML {
		if err := yaml.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	} else if err := json.Unmarshal(jsonc.ToJSON(data), &obj); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if obj == nil {
		return nil, errors.New("document is not an object")
	}
	return obj, nil
}

// moduleObject picks the default export when the module has one.
func moduleObject(exports map[string]any) map[string]any {
	if def, ok := exports["default"].(map[string]any); ok {
		return def
	}
	return exports
}
