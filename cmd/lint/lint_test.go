/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lint

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/deprecss/internal/cli"
	"bennypowers.dev/deprecss/internal/mapfs"
	lintlib "bennypowers.dev/deprecss/lint"
	"bennypowers.dev/deprecss/source"
)

func TestFiles(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/tokens.css", ":root {\n  /* @deprecated */\n  --old: red;\n}\n", 0644)
	mfs.AddFile("/project/a.css", "@import \"./tokens.css\";\n.a { color: var(--old); }\n", 0644)
	mfs.AddFile("/project/b.css", ".b { color: var(--old); }\n", 0644)
	mfs.AddFile("/project/c.css", ".c { color: var(--new); }\n", 0644)
	mfs.AddFile("/project/node_modules/@acme/legacy/index.css", ".d { color: var(--legacy); }\n", 0644)

	settings := &cli.Settings{
		Root: "/project",
		Options: lintlib.Options{
			ImportFrom: []source.Source{source.Literal(map[string]any{
				source.KeyCamel: map[string]any{"--new": "blue"},
			})},
		},
	}
	linter := lintlib.New(mfs, settings.Root, settings.Options)

	files := []string{
		"/project/a.css",
		"/project/b.css",
		"/project/c.css",
		"/project/missing.css",
		"npm:@acme/legacy/index.css",
		"npm:@acme/absent/index.css",
	}
	results := Files(t.Context(), linter, mfs, settings, files)
	require.Len(t, results, len(files))

	assert.Equal(t, "a.css", results[0].Source)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Diagnostics, 1)
	assert.Equal(t, "--old", results[0].Diagnostics[0].Name)

	assert.NoError(t, results[1].Err)
	assert.Empty(t, results[1].Diagnostics, "tokens.css is not imported by b.css")

	assert.NoError(t, results[2].Err)
	assert.Empty(t, results[2].Diagnostics)

	assert.Equal(t, "missing.css", results[3].Source)
	assert.Error(t, results[3].Err)

	assert.Equal(t, "npm:@acme/legacy/index.css", results[4].Source)
	assert.NoError(t, results[4].Err)
	assert.Empty(t, results[4].Diagnostics)

	assert.Error(t, results[5].Err)
}

func TestCmd_Fixture(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", "..", "testdata", "discovery"))
	require.NoError(t, err)

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(&bytes.Buffer{})
	Cmd.SetArgs([]string{"--root", root, "--format", "compact", "src/*.css"})
	t.Cleanup(func() { Cmd.SetArgs(nil) })

	err = Cmd.Execute()

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
	assert.Equal(t, 1, exitErr.Code)

	text := out.String()
	assert.Contains(t, text, `src/main.css: line 13, col 16, error - Deprecated custom property "--space-medium"`)
	assert.Contains(t, text, "--brand-red")
	assert.NotContains(t, text, "--brand-blue")
	assert.NotContains(t, text, "--acme-border")
}
