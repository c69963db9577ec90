/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for deprecss.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/deprecss/formatter"
	"bennypowers.dev/deprecss/lint"
	"bennypowers.dev/deprecss/source"
	"bennypowers.dev/deprecss/specifier"
)

// ErrInvalidSource indicates an importFrom entry of an unsupported shape.
var ErrInvalidSource = errors.New("invalid importFrom source")

// Config represents the deprecss configuration.
type Config struct {
	// Enabled turns the rule on or off. Absent means on.
	Enabled *bool `yaml:"enabled" json:"enabled"`

	// Severity of reported diagnostics: "error" (default) or "warning".
	Severity string `yaml:"severity" json:"severity"`

	// Files specifies the stylesheets to lint (paths or globs).
	Files []string `yaml:"files" json:"files"`

	// ImportFrom lists explicit custom property sources, weakest first.
	ImportFrom SourceList `yaml:"importFrom" json:"importFrom"`

	// Resolver configures @import resolution.
	Resolver Resolver `yaml:"resolver" json:"resolver"`

	// Format is the diagnostic output format.
	Format string `yaml:"format" json:"format"`

	// CDN selects the CDN for network fallback.
	CDN string `yaml:"cdn" json:"cdn"`

	// Network enables fetching npm: and jsr: imports from the CDN when they
	// are not installed locally.
	Network bool `yaml:"network" json:"network"`

	// TokenPrefix is prepended to custom properties generated from design
	// token files.
	TokenPrefix string `yaml:"tokenPrefix" json:"tokenPrefix"`
}

// Resolver mirrors specifier.Options, accepting a single string for paths.
type Resolver struct {
	Paths             StringList `yaml:"paths" json:"paths"`
	Extensions        []string   `yaml:"extensions" json:"extensions"`
	ModuleDirectories []string   `yaml:"moduleDirectories" json:"moduleDirectories"`
}

// Options converts the resolver configuration.
func (r Resolver) Options() specifier.Options {
	return specifier.Options{
		Paths:             r.Paths,
		Extensions:        r.Extensions,
		ModuleDirectories: r.ModuleDirectories,
	}
}

// StringList is a list of strings that may be written as a single string.
type StringList []string

// UnmarshalYAML handles both string and list forms.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = StringList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// UnmarshalJSON handles both string and list forms.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// SourceSpec is one importFrom entry. It can be specified as a simple
// string path, as a {from, type} object, or as an object holding a
// customProperties (or custom-properties) map.
type SourceSpec struct {
	// From is the file path (supports npm: and jsr: specifiers).
	From string `yaml:"from" json:"from"`

	// Type overrides the type taken from the file extension.
	Type string `yaml:"type" json:"type"`

	CustomProperties      map[string]any `yaml:"customProperties" json:"customProperties"`
	CustomPropertiesKebab map[string]any `yaml:"custom-properties" json:"custom-properties"`

	literal bool
	path    bool
}

type rawSourceSpec SourceSpec

// UnmarshalYAML handles both string and object forms for SourceSpec.
func (s *SourceSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag != "!!str" {
			return fmt.Errorf("%w: %q at line %d", ErrInvalidSource, node.Value, node.Line)
		}
		*s = SourceSpec{From: node.Value, path: true}
		return nil
	case yaml.MappingNode:
		if err := node.Decode((*rawSourceSpec)(s)); err != nil {
			return err
		}
		s.literal = hasKey(node, source.KeyCamel) || hasKey(node, source.KeyKebab)
		return nil
	}
	return fmt.Errorf("%w: unsupported entry at line %d", ErrInvalidSource, node.Line)
}

// UnmarshalJSON handles both string and object forms for SourceSpec.
func (s *SourceSpec) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SourceSpec{From: str, path: true}
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSource, bytes.TrimSpace(data))
	}
	if err := json.Unmarshal(data, (*rawSourceSpec)(s)); err != nil {
		return err
	}
	_, camel := obj[source.KeyCamel]
	_, kebab := obj[source.KeyKebab]
	s.literal = camel || kebab
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Source converts the entry into a source.
func (s SourceSpec) Source() source.Source {
	switch {
	case s.literal:
		obj := map[string]any{}
		if s.CustomProperties != nil {
			obj[source.KeyCamel] = s.CustomProperties
		}
		if s.CustomPropertiesKebab != nil {
			obj[source.KeyKebab] = s.CustomPropertiesKebab
		}
		return source.Literal(obj)
	case s.path:
		return source.Path(s.From)
	default:
		return source.File(s.From, s.Type)
	}
}

// SourceList is a list of sources that may be written as a single source.
type SourceList []SourceSpec

// UnmarshalYAML handles both single and list forms.
func (l *SourceList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		var one SourceSpec
		if err := one.UnmarshalYAML(node); err != nil {
			return err
		}
		*l = SourceList{one}
		return nil
	}
	var list []SourceSpec
	if err := node.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// UnmarshalJSON handles both single and list forms.
func (l *SourceList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var one SourceSpec
		if err := one.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		*l = SourceList{one}
		return nil
	}
	var list []SourceSpec
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// Sources converts every entry, preserving order.
func (l SourceList) Sources() []source.Source {
	out := make([]source.Source, 0, len(l))
	for _, s := range l {
		out = append(out, s.Source())
	}
	return out
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{}
}

// IsEnabled reports whether the rule is on.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LintOptions builds the rule options described by the configuration.
func (c *Config) LintOptions() (lint.Options, error) {
	severity := lint.Severity(c.Severity)
	switch severity {
	case "", lint.SeverityError, lint.SeverityWarning:
	default:
		return lint.Options{}, fmt.Errorf("invalid severity %q (valid: error, warning)", c.Severity)
	}
	return lint.Options{
		Disabled:   !c.IsEnabled(),
		Severity:   severity,
		ImportFrom: c.ImportFrom.Sources(),
		Resolver:   c.Resolver.Options(),
	}, nil
}

// OutputFormat parses the Format field.
func (c *Config) OutputFormat() (formatter.Format, error) {
	return formatter.ParseFormat(c.Format)
}

// CDNProvider parses the CDN field.
func (c *Config) CDNProvider() (specifier.CDN, error) {
	return specifier.ParseCDN(c.CDN)
}
