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

// JSRNodeModulesResolver resolves jsr: specifiers via the npm compatibility layer.
// Packages must be installed via `npx jsr add @scope/pkg`, which places them
// under the @jsr scope:
//   - jsr:@scope/pkg → node_modules/@jsr/scope__pkg
type JSRNodeModulesResolver struct {
	fs         asimfs.FileSystem
	rootDir    string
	extensions []string
}

// NewJSRNodeModulesResolver creates a resolver for jsr: package specifiers.
// The rootDir must be an absolute path, since in-memory filesystems have no
// working directory to resolve against.
func NewJSRNodeModulesResolver(fs asimfs.FileSystem, rootDir string, extensions []string) (*JSRNodeModulesResolver, error) {
	if !filepath.IsAbs(rootDir) {
		return nil, fmt.Errorf("rootDir must be an absolute path, got: %s", rootDir)
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &JSRNodeModulesResolver{fs: fs, rootDir: rootDir, extensions: extensions}, nil
}

// Resolve translates jsr:@scope/pkg/file to node_modules/@jsr/scope__pkg/file
// and walks up the directory tree looking for it.
func (r *JSRNodeModulesResolver) Resolve(spec string) (*ResolvedFile, error) {
	parsed := Parse(spec)
	if parsed.Kind != KindJSR {
		return nil, fmt.Errorf("not a jsr specifier: %s", spec)
	}

	npmPackageName := jsrToNPMCompatPackage(parsed.Package)

	for dir := r.rootDir; ; {
		nodeModulesBase := filepath.Join(dir, "node_modules")
		candidate := filepath.Join(nodeModulesBase, "@jsr", npmPackageName, parsed.File)
		if !isInsideDir(candidate, nodeModulesBase) {
			return nil, fmt.Errorf("path traversal detected in specifier: %s", spec)
		}
		if path, err := resolveFile(r.fs, candidate, r.extensions); err == nil {
			return &ResolvedFile{Specifier: spec, Path: path, Kind: KindJSR}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, fmt.Errorf("%w: jsr package %s (looked in node_modules/@jsr starting from %s)", ErrNotFound, parsed.Package, r.rootDir)
}

// CanResolve returns true for jsr: specifiers.
func (r *JSRNodeModulesResolver) CanResolve(spec string) bool {
	return strings.HasPrefix(spec, "jsr:")
}

// jsrToNPMCompatPackage converts a JSR package name to its npm compatibility layer name.
func jsrToNPMCompatPackage(pkg string) string {
	if scopedPkg, ok := strings.CutPrefix(pkg, "@"); ok {
		return strings.Replace(scopedPkg, "/", "__", 1)
	}
	return pkg
}
