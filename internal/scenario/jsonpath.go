package scenario

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// lookupPath walks a dot-notation JSONPath ($.field, $.arr[0].name) through a
// decoded JSON document. It returns (value, true) on a hit and (nil, false)
// when any segment fails to resolve; only a malformed path is an error.
func lookupPath(doc any, path string) (any, bool, error) {
	if !strings.HasPrefix(path, "$") {
		return nil, false, fmt.Errorf("JSONPath must start with $: %q", path)
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	if rest == "" {
		return doc, true, nil
	}

	current := doc
	for _, seg := range strings.Split(rest, ".") {
		if seg == "" {
			continue
		}

		field := seg
		var indexes []int
		// Peel off trailing [n] index suffixes.
		for strings.HasSuffix(field, "]") {
			open := strings.LastIndex(field, "[")
			if open < 0 {
				return nil, false, fmt.Errorf("unbalanced brackets in segment %q", seg)
			}
			n, err := strconv.Atoi(field[open+1 : len(field)-1])
			if err != nil {
				return nil, false, fmt.Errorf("invalid array index in %q: %w", seg, err)
			}
			indexes = append([]int{n}, indexes...)
			field = field[:open]
		}

		if field != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false, nil
			}
			current, ok = obj[field]
			if !ok {
				return nil, false, nil
			}
		}

		for _, n := range indexes {
			arr, ok := current.([]any)
			if !ok || n < 0 || n >= len(arr) {
				return nil, false, nil
			}
			current = arr[n]
		}
	}

	return current, true, nil
}

// parseJSONDoc decodes a response body into a generic JSON structure.
func parseJSONDoc(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("response body is not valid JSON: %w", err)
	}
	return doc, nil
}
