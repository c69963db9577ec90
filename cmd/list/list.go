/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package list provides the list command for deprecss.
package list

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"bennypowers.dev/deprecss/config"
	"bennypowers.dev/deprecss/fs"
	"bennypowers.dev/deprecss/internal/cli"
	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/source"
	"bennypowers.dev/deprecss/specifier"
)

// Cmd is the list cobra command.
var Cmd = &cobra.Command{
	Use:   "list [files...]",
	Short: "List custom properties discovered from stylesheets and token files",
	Long: `List the custom properties visible from stylesheets (following @import),
JSON, YAML, or design token files. Later files override earlier ones.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, css")
	Cmd.Flags().Bool("deprecated-only", false, "Only show deprecated custom properties")
	Cmd.Flags().String("root", "", "Project root holding .config/deprecss.* (default: working directory)")
	Cmd.Flags().String("cdn", "", "CDN for network fallback: "+strings.Join(specifier.ValidCDNs(), ", "))
	Cmd.Flags().Bool("network", false, "Fetch npm: and jsr: files from a CDN when they are not installed")
	Cmd.Flags().String("token-prefix", "", "Prefix for custom properties generated from design token files")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	deprecatedOnly, _ := cmd.Flags().GetBool("deprecated-only")

	v, err := cli.Viper(cmd)
	if err != nil {
		return err
	}
	filesystem := fs.NewOSFileSystem()
	settings, err := cli.LoadSettings(filesystem, v)
	if err != nil {
		return err
	}
	linter, err := settings.NewLinter(filesystem)
	if err != nil {
		return err
	}

	files, err := config.ExpandPatterns(filesystem, settings.Root, args)
	if err != nil {
		return err
	}
	sources := make([]source.Source, 0, len(files))
	for _, file := range files {
		sources = append(sources, source.Path(file))
	}

	ctx := cmd.Context()
	props := linter.Loader().FromSources(ctx, source.Normalize(ctx, sources, settings.Root))
	props = filterProperties(props, deprecatedOnly)

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return outputJSON(w, props)
	case "css":
		return outputCSS(w, props)
	case "table":
		return outputTable(w, props)
	}
	return fmt.Errorf("unknown format %q (valid: table, json, css)", format)
}

func filterProperties(props *property.Map, deprecatedOnly bool) *property.Map {
	if !deprecatedOnly {
		return props
	}
	filtered := property.NewMap()
	for name, rec := range props.All() {
		if rec.Deprecated {
			filtered.Set(name, rec)
		}
	}
	return filtered
}

var deprecatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

func outputTable(w io.Writer, props *property.Map) error {
	for name, rec := range props.All() {
		status := "-"
		if rec.Deprecated {
			status = deprecatedStyle.Render("deprecated")
			if rec.DeprecationComment != "" {
				status += " " + rec.DeprecationComment
			}
		}
		if _, err := fmt.Fprintf(w, "%-40s %-24s %s\n", name, rec.Value, status); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, props *property.Map) error {
	type propertyOutput struct {
		Name string `json:"name"`
		property.Record
	}

	output := make([]propertyOutput, 0, props.Len())
	for name, rec := range props.All() {
		output = append(output, propertyOutput{Name: name, Record: rec})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputCSS(w io.Writer, props *property.Map) error {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for name, rec := range props.All() {
		if rec.Deprecated {
			sb.WriteString("  /* @deprecated")
			if rec.DeprecationComment != "" {
				sb.WriteString(" " + rec.DeprecationComment)
			}
			sb.WriteString(" */\n")
		}
		fmt.Fprintf(&sb, "  %s: %s;\n", name, rec.Value)
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
