/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"fmt"
	"path/filepath"

	asimfs "bennypowers.dev/deprecss/fs"
)

// LocalResolver resolves relative and absolute paths against a base directory.
// A bare id is tried as "./<id>" first, the way CSS @import treats it.
type LocalResolver struct {
	fs         asimfs.FileSystem
	baseDir    string
	extensions []string
}

// NewLocalResolver creates a resolver for local filesystem paths.
// The baseDir must be absolute.
func NewLocalResolver(fs asimfs.FileSystem, baseDir string, extensions []string) *LocalResolver {
	return &LocalResolver{fs: fs, baseDir: baseDir, extensions: extensions}
}

// Resolve resolves spec relative to the base directory.
func (r *LocalResolver) Resolve(spec string) (*ResolvedFile, error) {
	p := spec
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.baseDir, p)
	}
	path, err := resolveFile(r.fs, p, r.extensions)
	if err != nil {
		return nil, err
	}
	return &ResolvedFile{Specifier: spec, Path: path, Kind: KindLocal}, nil
}

// CanResolve returns true for paths that are not package specifiers.
func (r *LocalResolver) CanResolve(spec string) bool {
	return spec != "" && !IsPackageSpecifier(spec)
}

// PathsResolver resolves bare ids against a list of search directories.
type PathsResolver struct {
	fs         asimfs.FileSystem
	paths      []string
	extensions []string
}

// NewPathsResolver creates a resolver searching the given absolute directories in order.
func NewPathsResolver(fs asimfs.FileSystem, paths, extensions []string) *PathsResolver {
	return &PathsResolver{fs: fs, paths: paths, extensions: extensions}
}

// Resolve returns the first match of spec inside the search directories.
func (r *PathsResolver) Resolve(spec string) (*ResolvedFile, error) {
	for _, dir := range r.paths {
		if path, err := resolveFile(r.fs, filepath.Join(dir, spec), r.extensions); err == nil {
			return &ResolvedFile{Specifier: spec, Path: path, Kind: KindLocal}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s not found in paths %v", ErrNotFound, spec, r.paths)
}

// CanResolve returns true for bare ids when search paths are configured.
func (r *PathsResolver) CanResolve(spec string) bool {
	return len(r.paths) > 0 && IsBare(spec)
}
