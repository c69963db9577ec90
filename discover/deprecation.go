/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package discover

import (
	"regexp"
	"strings"

	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/stylesheet"
)

// DeprecationMarker is the comment token that marks the following custom
// property declaration as deprecated.
const DeprecationMarker = "@deprecated"

var markerResidue = regexp.MustCompile(`^\s*\*\s`)

// DeprecationNote extracts the free text of a deprecation comment: every
// marker occurrence is removed, then one leading "* " residue, then
// surrounding whitespace. Residue in any other shape is kept as written,
// so `/**\n * @deprecated x */` yields "*  x".
func DeprecationNote(comment string) string {
	text := strings.ReplaceAll(comment, DeprecationMarker, "")
	text = markerResidue.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// declRecord builds the record for a custom property declaration. prev is
// the declaration's preceding sibling.
func declRecord(decl *stylesheet.Declaration, prev stylesheet.Node) property.Record {
	rec := property.Record{Value: decl.Value}
	if c, ok := prev.(*stylesheet.Comment); ok && strings.Contains(c.Text, DeprecationMarker) {
		rec.Deprecated = true
		rec.DeprecationComment = DeprecationNote(c.Text)
	}
	return rec
}
