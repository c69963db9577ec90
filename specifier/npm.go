/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"fmt"
	"path/filepath"
	"strings"

	asimfs "bennypowers.dev/deprecss/fs"
)

// ModuleResolver resolves bare ids ("pkg/file.css") and npm: specifiers by
// walking up from rootDir and looking inside each module directory.
type ModuleResolver struct {
	fs         asimfs.FileSystem
	rootDir    string
	dirs       []string
	extensions []string
}

// NewModuleResolver creates a resolver for bare ids and npm: specifiers.
// The rootDir is the starting directory for the walk-up.
func NewModuleResolver(fs asimfs.FileSystem, rootDir string, opts Options) *ModuleResolver {
	dirs := opts.ModuleDirectories
	if len(dirs) == 0 {
		dirs = DefaultModuleDirectories
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &ModuleResolver{fs: fs, rootDir: rootDir, dirs: dirs, extensions: exts}
}

// Resolve resolves a bare id or an npm: specifier to a filesystem path.
func (r *ModuleResolver) Resolve(spec string) (*ResolvedFile, error) {
	id, kind := spec, KindModule
	if parsed := Parse(spec); parsed.Kind == KindNPM {
		id, kind = filepath.Join(parsed.Package, parsed.File), KindNPM
	}

	dir, err := filepath.Abs(r.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", r.rootDir, err)
	}
	startDir := dir

	for _, moduleDir := range r.dirs {
		// an absolute module directory is searched on its own
		if filepath.IsAbs(moduleDir) {
			if rf, ok := r.lookup(moduleDir, id, spec, kind); ok {
				return rf, nil
			}
			continue
		}
		for dir := startDir; ; {
			if rf, ok := r.lookup(filepath.Join(dir, moduleDir), id, spec, kind); ok {
				return rf, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				// Reached filesystem root
				break
			}
			dir = parent
		}
	}

	return nil, fmt.Errorf("%w: module %s (looked in %v starting from %s)", ErrNotFound, id, r.dirs, startDir)
}

func (r *ModuleResolver) lookup(base, id, spec string, kind Kind) (*ResolvedFile, bool) {
	candidate := filepath.Join(base, id)
	// Path traversal protection: verify path stays inside the module directory
	if !isInsideDir(candidate, base) {
		return nil, false
	}
	path, err := resolveFile(r.fs, candidate, r.extensions)
	if err != nil {
		return nil, false
	}
	return &ResolvedFile{Specifier: spec, Path: path, Kind: kind}, true
}

// CanResolve returns true for npm: specifiers and bare ids.
func (r *ModuleResolver) CanResolve(spec string) bool {
	return strings.HasPrefix(spec, "npm:") || IsBare(spec)
}
