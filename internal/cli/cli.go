/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cli holds helpers shared by the deprecss commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/deprecss/config"
	asimfs "bennypowers.dev/deprecss/fs"
	"bennypowers.dev/deprecss/internal/logger"
	"bennypowers.dev/deprecss/lint"
	"bennypowers.dev/deprecss/load"
	"bennypowers.dev/deprecss/source"
)

// EnvPrefix prefixes environment variables that stand in for flags.
const EnvPrefix = "DEPRECSS"

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Viper binds the command's flags, so that a flag value wins over
// DEPRECSS_* environment variables, which win over the config file.
func Viper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// Root returns the absolute project root named by the root setting,
// defaulting to the working directory.
func Root(v *viper.Viper) (string, error) {
	root := v.GetString("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return wd, nil
	}
	return filepath.Abs(root)
}

// Settings is the merged view of the config file and the command line.
type Settings struct {
	Root    string
	Config  *config.Config
	Options lint.Options
}

// LoadSettings reads the config file under the root and applies
// command-line overrides.
func LoadSettings(filesystem asimfs.FileSystem, v *viper.Viper) (*Settings, error) {
	root, err := Root(v)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	} else {
		logger.Info("using %s", config.Path(filesystem, root))
	}

	if v.IsSet("format") {
		cfg.Format = v.GetString("format")
	}
	if v.IsSet("cdn") {
		cfg.CDN = v.GetString("cdn")
	}
	if v.IsSet("network") {
		cfg.Network = v.GetBool("network")
	}
	if v.IsSet("token-prefix") {
		cfg.TokenPrefix = v.GetString("token-prefix")
	}

	opts, err := cfg.LintOptions()
	if err != nil {
		return nil, err
	}
	if v.IsSet("import-from") {
		opts.ImportFrom = nil
		for _, from := range v.GetStringSlice("import-from") {
			opts.ImportFrom = append(opts.ImportFrom, source.Path(from))
		}
	}
	if v.IsSet("resolver-path") {
		opts.Resolver.Paths = v.GetStringSlice("resolver-path")
	}
	if v.IsSet("extension") {
		opts.Resolver.Extensions = v.GetStringSlice("extension")
	}
	if v.IsSet("module-directory") {
		opts.Resolver.ModuleDirectories = v.GetStringSlice("module-directory")
	}

	return &Settings{Root: root, Config: cfg, Options: opts}, nil
}

// NewLinter creates a linter configured by s.
func (s *Settings) NewLinter(filesystem asimfs.FileSystem) (*lint.Linter, error) {
	l := lint.New(filesystem, s.Root, s.Options)
	l.Loader().TokenPrefix = s.Config.TokenPrefix
	if s.Config.Network {
		cdn, err := s.Config.CDNProvider()
		if err != nil {
			return nil, err
		}
		d := l.Discoverer()
		d.Fetcher = load.NewHTTPFetcher(load.DefaultMaxSize)
		d.CDN = cdn
	}
	return l, nil
}
