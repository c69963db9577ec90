/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		spec string
		kind Kind
		pkg  string
		file string
	}{
		{"npm scoped", "npm:@scope/pkg/css/vars.css", KindNPM, "@scope/pkg", "css/vars.css"},
		{"npm unscoped", "npm:pkg/vars.css", KindNPM, "pkg", "vars.css"},
		{"npm bare package", "npm:pkg", KindNPM, "pkg", ""},
		{"jsr scoped", "jsr:@scope/pkg/vars.css", KindJSR, "@scope/pkg", "vars.css"},
		{"relative", "./vars.css", KindLocal, "", "./vars.css"},
		{"bare id", "pkg/vars.css", KindLocal, "", "pkg/vars.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.spec)
			if got.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Package != tt.pkg {
				t.Errorf("Package = %q, want %q", got.Package, tt.pkg)
			}
			if got.File != tt.file {
				t.Errorf("File = %q, want %q", got.File, tt.file)
			}
			if got.Raw != tt.spec {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.spec)
			}
		})
	}
}

func TestIsBare(t *testing.T) {
	tests := []struct {
		spec string
		want bool
	}{
		{"pkg/vars.css", true},
		{"vars.css", true},
		{"./vars.css", false},
		{"../vars.css", false},
		{"/abs/vars.css", false},
		{"npm:pkg/vars.css", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBare(tt.spec); got != tt.want {
			t.Errorf("IsBare(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	got := Options{Paths: []string{"vendor", "/abs"}}.WithDefaults("/project")
	if len(got.Extensions) != 1 || got.Extensions[0] != ".css" {
		t.Errorf("Extensions = %v, want [.css]", got.Extensions)
	}
	if len(got.ModuleDirectories) != 1 || got.ModuleDirectories[0] != "node_modules" {
		t.Errorf("ModuleDirectories = %v, want [node_modules]", got.ModuleDirectories)
	}
	if len(got.Paths) != 2 || got.Paths[0] != "/project/vendor" || got.Paths[1] != "/abs" {
		t.Errorf("Paths = %v, want [/project/vendor /abs]", got.Paths)
	}
}
