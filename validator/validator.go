/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator reports references to deprecated custom properties
// inside declaration values.
package validator

import (
	"strings"

	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/stylesheet"
	"bennypowers.dev/deprecss/value"
)

// Report is one reference to a deprecated custom property.
type Report struct {
	// Name is the deprecated custom property as written at the reference.
	Name string

	// Prop is the property of the enclosing declaration.
	Prop string

	// Comment is the deprecation note, empty when absent.
	Comment string

	// Message describes the violation.
	Message string

	// Word is the name node inside the var() reference. Its SourceIndex is
	// the byte offset of the name within the declaration value.
	Word *value.Node
}

// Message builds the report message for a deprecated reference to name
// inside a declaration of prop.
func Message(name, prop, comment string) string {
	parts := []string{
		"Deprecated custom property",
		`"` + name + `"`,
		"inside declaration",
		`"` + prop + `"`,
		".",
		comment,
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// ValidateDeclaration parses the declaration value and validates it.
// A value that cannot be parsed yields no reports.
func ValidateDeclaration(decl *stylesheet.Declaration, props *property.Map) []Report {
	nodes, err := value.Parse(decl.Value)
	if err != nil {
		return nil
	}
	return Validate(decl.Prop, nodes, props)
}

// Validate walks the value nodes of a declaration of prop and reports every
// var() reference to a deprecated property that has no fallback. Unknown and
// non-deprecated references are not reported. When a deprecated reference
// has fallbacks, only fallbacks that are themselves var() references are
// examined, so a literal fallback silences the report.
func Validate(prop string, nodes []*value.Node, props *property.Map) []Report {
	var reports []Report
	validate(prop, nodes, props, &reports)
	return reports
}

func validate(prop string, nodes []*value.Node, props *property.Map, reports *[]Report) {
	value.Walk(nodes, func(n *value.Node) bool {
		word, fallbacks, ok := reference(n)
		if !ok {
			return true
		}
		rec, found := props.Get(word.Value)
		if !found || !rec.Deprecated {
			return true
		}
		if len(fallbacks) > 0 {
			var refs []*value.Node
			for _, f := range fallbacks {
				if _, _, ok := reference(f); ok {
					refs = append(refs, f)
				}
			}
			validate(prop, refs, props, reports)
			return false
		}
		*reports = append(*reports, Report{
			Name:    word.Value,
			Prop:    prop,
			Comment: rec.DeprecationComment,
			Message: Message(word.Value, prop, rec.DeprecationComment),
			Word:    word,
		})
		return false
	})
}

// reference reports whether n is a var() whose first argument names a
// custom property, returning the name node and the fallback arguments
// (everything after the first separator).
func reference(n *value.Node) (*value.Node, []*value.Node, bool) {
	if !n.IsFunction("var") || len(n.Nodes) == 0 {
		return nil, nil, false
	}
	first := n.Nodes[0]
	if (first.Type != value.Word && first.Type != value.String) || !property.IsCustomPropertyName(first.Value) {
		return nil, nil, false
	}
	var fallbacks []*value.Node
	if len(n.Nodes) > 2 {
		fallbacks = n.Nodes[2:]
	}
	return first, fallbacks, true
}
