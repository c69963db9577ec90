/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	asimfs "bennypowers.dev/deprecss/fs"
)

// packageEntryFields are the package.json fields naming a stylesheet entry, in priority order.
var packageEntryFields = []string{"style", "main"}

// resolveFile finds the file a path refers to. Candidates, in order: the path
// itself, the path plus each extension, the entry named by a directory's
// package.json, and the directory's index plus each extension.
func resolveFile(fsys asimfs.FileSystem, p string, extensions []string) (string, error) {
	p = filepath.Clean(p)
	if path, ok := resolveAsFile(fsys, p, extensions); ok {
		return path, nil
	}
	if info, err := fsys.Stat(p); err == nil && info.IsDir() {
		for _, entry := range packageEntries(fsys, p) {
			if path, ok := resolveAsFile(fsys, filepath.Join(p, entry), extensions); ok {
				return path, nil
			}
		}
		if path, ok := resolveAsFile(fsys, filepath.Join(p, "index"), extensions); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no file at %s", ErrNotFound, p)
}

func resolveAsFile(fsys asimfs.FileSystem, p string, extensions []string) (string, bool) {
	if fsys.IsFile(p) {
		return p, true
	}
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if candidate := p + ext; fsys.IsFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// packageEntries returns the stylesheet entries declared in dir/package.json.
func packageEntries(fsys asimfs.FileSystem, dir string) []string {
	data, err := fsys.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil
	}
	var pkg map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil
	}
	var entries []string
	for _, field := range packageEntryFields {
		if s, ok := pkg[field].(string); ok && s != "" {
			entries = append(entries, s)
		}
	}
	return entries
}

// isInsideDir reports whether p is inside (or equal to) dir.
func isInsideDir(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
