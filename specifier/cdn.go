/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"fmt"
	"slices"
	"strings"
)

// CDN identifies a content delivery network used for network fallback.
type CDN string

const (
	CDNUnpkg    CDN = "unpkg"
	CDNEsmSh    CDN = "esm.sh"
	CDNEsmRun   CDN = "esm.run"
	CDNJspm     CDN = "jspm"
	CDNJsdelivr CDN = "jsdelivr"
)

// DefaultCDN is used when no CDN is configured.
const DefaultCDN = CDNUnpkg

var validCDNs = []CDN{CDNUnpkg, CDNEsmSh, CDNEsmRun, CDNJspm, CDNJsdelivr}

// ValidCDNs returns the supported CDN names.
func ValidCDNs() []string {
	out := make([]string, len(validCDNs))
	for i, c := range validCDNs {
		out[i] = string(c)
	}
	return out
}

// ParseCDN parses a CDN name. The empty string yields DefaultCDN.
func ParseCDN(s string) (CDN, error) {
	if s == "" {
		return DefaultCDN, nil
	}
	c := CDN(strings.ToLower(s))
	if !slices.Contains(validCDNs, c) {
		return "", fmt.Errorf("unknown CDN %q (valid: %s)", s, strings.Join(ValidCDNs(), ", "))
	}
	return c, nil
}

// CDNURL returns the CDN URL for an npm: or jsr: specifier.
// Returns ("", false) for local paths or specifiers without a file component.
func CDNURL(spec string, cdn CDN) (string, bool) {
	parsed := Parse(spec)
	if parsed.Kind != KindNPM && parsed.Kind != KindJSR {
		return "", false
	}
	if parsed.Package == "" || parsed.File == "" {
		return "", false
	}
	if cdn == "" {
		cdn = DefaultCDN
	}
	if parsed.Kind == KindJSR {
		// only esm.sh serves jsr packages, and only scoped ones
		if cdn != CDNEsmSh || !strings.HasPrefix(parsed.Package, "@") {
			return "", false
		}
		return "https://esm.sh/jsr/" + parsed.Package + "/" + parsed.File, true
	}
	rest := parsed.Package + "/" + parsed.File
	switch cdn {
	case CDNEsmSh:
		return "https://esm.sh/" + rest, true
	case CDNEsmRun:
		return "https://esm.run/" + rest, true
	case CDNJspm:
		return "https://ga.jspm.io/npm:" + rest, true
	case CDNJsdelivr:
		return "https://cdn.jsdelivr.net/npm/" + rest, true
	default:
		return "https://unpkg.com/" + rest, true
	}
}
