/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import "path/filepath"

// Options are the module search options applied to import specifiers.
type Options struct {
	// Paths are extra directories searched for bare ids, after module directories.
	// Relative entries are resolved against the working directory.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Extensions are tried in order when a specifier names no existing file.
	// Defaults to DefaultExtensions.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// ModuleDirectories are directory names looked up while walking from the
	// importing file's directory to the filesystem root.
	// Defaults to DefaultModuleDirectories.
	ModuleDirectories []string `json:"moduleDirectories,omitempty" yaml:"moduleDirectories,omitempty"`
}

var (
	// DefaultExtensions is used when Options.Extensions is empty.
	DefaultExtensions = []string{".css"}

	// DefaultModuleDirectories is used when Options.ModuleDirectories is empty.
	DefaultModuleDirectories = []string{"node_modules"}
)

// WithDefaults returns a copy with empty fields replaced by defaults and
// relative Paths made absolute against cwd.
func (o Options) WithDefaults(cwd string) Options {
	out := Options{
		Extensions:        o.Extensions,
		ModuleDirectories: o.ModuleDirectories,
	}
	if len(out.Extensions) == 0 {
		out.Extensions = DefaultExtensions
	}
	if len(out.ModuleDirectories) == 0 {
		out.ModuleDirectories = DefaultModuleDirectories
	}
	for _, p := range o.Paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		out.Paths = append(out.Paths, filepath.Clean(p))
	}
	return out
}
