/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import asimfs "bennypowers.dev/deprecss/fs"

// NewImportResolver creates the resolver chain used for @import targets and
// file sources. Bare ids are tried next to the importing file, then in module
// directories walking up from baseDir, then in opts.Paths. The baseDir must
// be absolute. opts should already carry defaults (see Options.WithDefaults).
func NewImportResolver(fs asimfs.FileSystem, baseDir string, opts Options) Resolver {
	resolvers := []Resolver{
		NewLocalResolver(fs, baseDir, opts.Extensions),
		NewModuleResolver(fs, baseDir, opts),
		NewPathsResolver(fs, opts.Paths, opts.Extensions),
	}
	if jsr, err := NewJSRNodeModulesResolver(fs, baseDir, opts.Extensions); err == nil {
		resolvers = append(resolvers, jsr)
	}
	return NewChainResolver(resolvers...)
}
