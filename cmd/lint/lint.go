/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lint provides the lint command for deprecss.
package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"bennypowers.dev/deprecss/config"
	"bennypowers.dev/deprecss/formatter"
	"bennypowers.dev/deprecss/fs"
	"bennypowers.dev/deprecss/internal/cli"
	"bennypowers.dev/deprecss/internal/logger"
	lintlib "bennypowers.dev/deprecss/lint"
	"bennypowers.dev/deprecss/specifier"
)

// Cmd is the lint cobra command.
var Cmd = &cobra.Command{
	Use:   "lint [files...]",
	Short: "Report references to deprecated custom properties",
	Long: `Lint stylesheets for var() references to custom properties marked with
a @deprecated comment. Definitions are discovered through @import and from
--import-from sources. Files may be paths, globs, or npm:/jsr: specifiers;
when none are given, the files listed in the config file are linted.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	Cmd.Flags().StringArray("import-from", nil, "Additional custom property source (css, json, yaml, tokens); repeatable")
	Cmd.Flags().StringArray("resolver-path", nil, "Extra directory searched for bare @import specifiers; repeatable")
	Cmd.Flags().StringArray("extension", nil, "Extension tried when resolving @import specifiers; repeatable")
	Cmd.Flags().StringArray("module-directory", nil, "Package directory searched for @import specifiers; repeatable")
	Cmd.Flags().StringP("format", "f", "string", "Output format: string, json, compact")
	Cmd.Flags().String("root", "", "Project root holding .config/deprecss.* (default: working directory)")
	Cmd.Flags().String("cdn", "", "CDN for network fallback: "+strings.Join(specifier.ValidCDNs(), ", "))
	Cmd.Flags().Bool("network", false, "Fetch npm: and jsr: imports from a CDN when they are not installed")
	Cmd.Flags().String("token-prefix", "", "Prefix for custom properties generated from design token files")
}

func run(cmd *cobra.Command, args []string) error {
	v, err := cli.Viper(cmd)
	if err != nil {
		return err
	}

	filesystem := fs.NewOSFileSystem()
	settings, err := cli.LoadSettings(filesystem, v)
	if err != nil {
		return err
	}

	format, err := settings.Config.OutputFormat()
	if err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = settings.Config.Files
	}
	if len(patterns) == 0 {
		return errors.New("no files to lint: pass files or set files in .config/deprecss.yaml")
	}

	files, err := config.ExpandPatterns(filesystem, settings.Root, patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("no files match %s", strings.Join(patterns, ", "))
		return nil
	}

	linter, err := settings.NewLinter(filesystem)
	if err != nil {
		return err
	}

	results := Files(cmd.Context(), linter, filesystem, settings, files)
	if err := formatter.Write(cmd.OutOrStdout(), results, format); err != nil {
		return err
	}

	var errs error
	problems := 0
	for _, r := range results {
		errs = multierr.Append(errs, r.Err)
		problems += len(r.Diagnostics)
	}
	if errs != nil {
		return &cli.ExitError{Code: 2, Err: errs}
	}
	if problems > 0 {
		return &cli.ExitError{Code: 1, Err: fmt.Errorf("%d deprecated custom property references found", problems)}
	}
	return nil
}

// Files lints files concurrently. Results keep the order of files.
func Files(ctx context.Context, linter *lintlib.Linter, filesystem fs.FileSystem, settings *cli.Settings, files []string) []formatter.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	resolver := specifier.NewImportResolver(filesystem, settings.Root, settings.Options.Resolver.WithDefaults(settings.Root))

	results := make([]formatter.Result, len(files))
	p := pool.New().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, file := range files {
		p.Go(func() {
			results[i] = lintOne(ctx, linter, resolver, settings.Root, file)
		})
	}
	p.Wait()
	return results
}

func lintOne(ctx context.Context, linter *lintlib.Linter, resolver specifier.Resolver, root, file string) formatter.Result {
	result := formatter.Result{Source: display(root, file)}
	path := file
	if specifier.IsPackageSpecifier(file) {
		resolved, err := resolver.Resolve(file)
		if err != nil {
			result.Err = fmt.Errorf("resolving %s: %w", file, err)
			return result
		}
		path = resolved.Path
	}
	result.Diagnostics, result.Err = linter.LintFile(ctx, path)
	return result
}

func display(root, file string) string {
	if specifier.IsPackageSpecifier(file) {
		return file
	}
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return file
}
