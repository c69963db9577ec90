/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"encoding/json"
	"fmt"
	"slices"

	"bennypowers.dev/deprecss/internal/logger"
	"bennypowers.dev/deprecss/property"
	"bennypowers.dev/deprecss/source"
)

// FromObject converts the property map an object exposes under
// customProperties or custom-properties. When both keys are present their
// entries are merged and custom-properties wins. Entries are added in name
// order and carry no deprecation metadata. Non-string values are rendered
// as compact JSON.
func FromObject(obj map[string]any) *property.Map {
	entries := make(map[string]any)
	for _, key := range []string{source.KeyCamel, source.KeyKebab} {
		inner, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		for name, v := range inner {
			entries[name] = v
		}
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		if !property.IsCustomPropertyName(name) {
			logger.Debug("ignoring %q: not a custom property name", name)
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	props := property.NewMap()
	for _, name := range names {
		props.Set(name, property.Record{Value: stringValue(entries[name])})
	}
	return props
}

func stringValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
