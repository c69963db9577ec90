/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/deprecss/property"
)

// aliasPattern matches a whole-value token reference such as "{color.brand}".
var aliasPattern = regexp.MustCompile(`^\{([^{}]+)\}$`)

// deprecation is the effective $deprecated state of a token or group.
type deprecation struct {
	deprecated bool
	comment    string
}

// FromTokens converts a Design Tokens Community Group document into custom
// properties. Each token becomes --<prefix>-<path-joined-by-dash>. A token's
// $deprecated (true, or a string note) marks it deprecated; a group's
// $deprecated applies to every token below it unless a token overrides it.
// Whole-value references become var() expressions. Properties appear in
// document order.
func FromTokens(data []byte, prefix string, asYAML bool) (*property.Map, error) {
	if !asYAML {
		// YAML is a superset of JSON, so one decoder keeps key order for both.
		data = jsonc.ToJSON(data)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing tokens: %w", err)
	}
	if len(doc.Content) == 0 {
		return property.NewMap(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing tokens: document is not an object")
	}

	props := property.NewMap()
	walkGroup(root, nil, deprecation{}, prefix, props)
	return props, nil
}

func walkGroup(group *yaml.Node, path []string, inherited deprecation, prefix string, props *property.Map) {
	dep := inherited
	if d, ok := ownDeprecation(group); ok {
		dep = d
	}

	if value := mappingValue(group, "$value"); value != nil {
		props.Set(tokenName(prefix, path), property.Record{
			Value:              renderTokenValue(value, prefix),
			Deprecated:         dep.deprecated,
			DeprecationComment: dep.comment,
		})
		return
	}

	for i := 0; i+1 < len(group.Content); i += 2 {
		key, child := group.Content[i].Value, group.Content[i+1]
		if strings.HasPrefix(key, "$") || child.Kind != yaml.MappingNode {
			continue
		}
		walkGroup(child, append(path[:len(path):len(path)], key), dep, prefix, props)
	}
}

func ownDeprecation(n *yaml.Node) (deprecation, bool) {
	v := mappingValue(n, "$deprecated")
	if v == nil || v.Kind != yaml.ScalarNode {
		return deprecation{}, false
	}
	switch v.Tag {
	case "!!bool":
		var b bool
		if err := v.Decode(&b); err != nil {
			return deprecation{}, false
		}
		return deprecation{deprecated: b}, true
	case "!!str":
		return deprecation{deprecated: true, comment: strings.TrimSpace(v.Value)}, true
	}
	return deprecation{}, false
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func tokenName(prefix string, path []string) string {
	name := strings.Join(path, "-")
	if prefix != "" {
		name = prefix + "-" + name
	}
	return property.Sigil + name
}

func renderTokenValue(v *yaml.Node, prefix string) string {
	if v.Kind == yaml.ScalarNode {
		if m := aliasPattern.FindStringSubmatch(v.Value); m != nil && v.Tag == "!!str" {
			return "var(" + tokenName(prefix, strings.Split(m[1], ".")) + ")"
		}
		return v.Value
	}
	var decoded any
	if err := v.Decode(&decoded); err != nil {
		return ""
	}
	data, err := json.Marshal(decoded)
	if err != nil {
		return ""
	}
	return string(data)
}
