/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "text",
			args: []string{"--format", "text"},
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "deprecss ") {
					t.Errorf("expected output to start with 'deprecss ', got %q", out)
				}
			},
		},
		{
			name: "json",
			args: []string{"--format", "json"},
			check: func(t *testing.T, out string) {
				var info map[string]string
				if err := json.Unmarshal([]byte(out), &info); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if info["version"] == "" {
					t.Errorf("expected version key in %v", info)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Cmd.SetOut(&buf)
			Cmd.SetArgs(tt.args)
			if err := Cmd.Execute(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, buf.String())
		})
	}
}
