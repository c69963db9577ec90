/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package formatter renders lint diagnostics.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/deprecss/lint"
)

// Format names an output format.
type Format string

const (
	FormatString  Format = "string"
	FormatJSON    Format = "json"
	FormatCompact Format = "compact"
)

// ParseFormat parses a format name. The empty string yields FormatString.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatString, nil
	case FormatString, FormatJSON, FormatCompact:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: string, json, compact)", s)
}

// Result groups the diagnostics of one file.
type Result struct {
	Source      string            `json:"source"`
	Diagnostics []lint.Diagnostic `json:"warnings"`

	// Err is set when the file could not be linted.
	Err error `json:"-"`
}

var (
	fileStyle     = lipgloss.NewStyle().Underline(true)
	positionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	summaryStyle  = lipgloss.NewStyle().Bold(true)

	title = cases.Title(language.English)
)

// Write renders results to w in the given format.
func Write(w io.Writer, results []Result, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results)
	case FormatCompact:
		return writeCompact(w, results)
	default:
		return writeString(w, results)
	}
}

func writeString(w io.Writer, results []Result) error {
	var sb strings.Builder
	total := 0
	for _, r := range results {
		if len(r.Diagnostics) == 0 && r.Err == nil {
			continue
		}
		sb.WriteString("\n" + fileStyle.Render(displayName(r.Source)) + "\n")
		if r.Err != nil {
			sb.WriteString("  " + errorStyle.Render(title.String(string(lint.SeverityError))) + "  " + r.Err.Error() + "\n")
			total++
		}
		for _, d := range sorted(r.Diagnostics) {
			text := strings.TrimSuffix(d.Message, " ("+d.Rule+")")
			fmt.Fprintf(&sb, "  %s  %s  %s  %s\n",
				positionStyle.Render(fmt.Sprintf("%d:%d", d.Start.Line, d.Start.Column)),
				severityLabel(d.Severity),
				text,
				ruleStyle.Render(d.Rule),
			)
			total++
		}
	}
	if total > 0 {
		noun := "problems"
		if total == 1 {
			noun = "problem"
		}
		sb.WriteString("\n" + summaryStyle.Render(fmt.Sprintf("%d %s", total, noun)) + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCompact(w io.Writer, results []Result) error {
	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&sb, "%s: %s - %s\n", displayName(r.Source), lint.SeverityError, r.Err)
		}
		for _, d := range sorted(r.Diagnostics) {
			fmt.Fprintf(&sb, "%s: line %d, col %d, %s - %s\n",
				displayName(r.Source), d.Start.Line, d.Start.Column, d.Severity, d.Message)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type jsonWarning struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"endLine"`
	EndColumn int    `json:"endColumn"`
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Text      string `json:"text"`
	Word      string `json:"word"`
}

type jsonResult struct {
	Source   string        `json:"source"`
	Errored  bool          `json:"errored"`
	Error    string        `json:"error,omitempty"`
	Warnings []jsonWarning `json:"warnings"`
}

func writeJSON(w io.Writer, results []Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{Source: r.Source, Warnings: []jsonWarning{}}
		if r.Err != nil {
			jr.Errored = true
			jr.Error = r.Err.Error()
		}
		for _, d := range sorted(r.Diagnostics) {
			if d.Severity == lint.SeverityError {
				jr.Errored = true
			}
			jr.Warnings = append(jr.Warnings, jsonWarning{
				Line:      d.Start.Line,
				Column:    d.Start.Column,
				EndLine:   d.End.Line,
				EndColumn: d.End.Column,
				Rule:      d.Rule,
				Severity:  string(d.Severity),
				Text:      d.Message,
				Word:      d.Name,
			})
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func severityLabel(s lint.Severity) string {
	label := title.String(string(s))
	if s == lint.SeverityWarning {
		return warningStyle.Render(label)
	}
	return errorStyle.Render(label)
}

func displayName(source string) string {
	if source == "" {
		return "<input css>"
	}
	return source
}

func sorted(diags []lint.Diagnostic) []lint.Diagnostic {
	return slices.SortedStableFunc(slices.Values(diags), func(a, b lint.Diagnostic) int {
		if a.Start.Line != b.Start.Line {
			return a.Start.Line - b.Start.Line
		}
		return a.Start.Column - b.Start.Column
	})
}
