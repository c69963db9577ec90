/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package lint

import (
	"bennypowers.dev/deprecss/stylesheet"
	"bennypowers.dev/deprecss/validator"
	"bennypowers.dev/deprecss/value"
)

// Diagnostic is one positioned report of the rule.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`

	// File is the stylesheet path; empty for inline code.
	File string `json:"file,omitempty"`

	// Message is the report text followed by the rule name in parentheses.
	Message string `json:"text"`

	// Name is the deprecated custom property as written.
	Name string `json:"name"`

	// Prop is the property of the declaration containing the reference.
	Prop string `json:"prop"`

	// Comment is the deprecation note, empty when absent.
	Comment string `json:"comment,omitempty"`

	// Start and End delimit Name in the source.
	Start stylesheet.Position `json:"start"`
	End   stylesheet.Position `json:"end"`

	// Declaration is where the reporting declaration starts.
	Declaration stylesheet.Position `json:"declaration"`
}

func (l *Linter) diagnostic(sheet *stylesheet.Stylesheet, decl *stylesheet.Declaration, r validator.Report) Diagnostic {
	start := decl.ValueStart.Offset + r.Word.SourceIndex
	if r.Word.Type == value.String {
		// skip the opening quote
		start++
	}
	return Diagnostic{
		Rule:        RuleName,
		Severity:    l.opts.Severity,
		File:        sheet.File,
		Message:     r.Message + " (" + RuleName + ")",
		Name:        r.Name,
		Prop:        r.Prop,
		Comment:     r.Comment,
		Start:       sheet.Position(start),
		End:         sheet.Position(start + len(r.Name)),
		Declaration: decl.Start(),
	}
}
