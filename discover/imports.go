/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package discover

import (
	"strings"

	"bennypowers.dev/deprecss/value"
)

// ImportTarget extracts the file or specifier named by the parameters of an
// @import rule. Only the first substantive token is considered: a quoted
// string, or a url() whose first substantive argument is a word or a string.
// Anything else, including a media query in first position, yields false.
// Trailing media conditions are ignored.
func ImportTarget(params string) (string, bool) {
	nodes, err := value.Parse(params)
	if err != nil {
		return "", false
	}
	first := firstSubstantive(nodes)
	if first == nil {
		return "", false
	}
	switch {
	case first.Type == value.String:
		return first.Value, true
	case first.Type == value.Function && strings.EqualFold(first.Value, "url"):
		arg := firstSubstantive(first.Nodes)
		if arg != nil && (arg.Type == value.Word || arg.Type == value.String) {
			return arg.Value, true
		}
	}
	return "", false
}

func firstSubstantive(nodes []*value.Node) *value.Node {
	for _, n := range nodes {
		if n.Substantive() {
			return n
		}
	}
	return nil
}
