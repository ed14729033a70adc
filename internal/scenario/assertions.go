package scenario

import (
	"fmt"
	"regexp"
	"strings"
)

// EvaluateBodyAssertions checks every JSONPath assertion in the map against a
// response body. The expected value is either a literal (exact match) or an
// operator map like {"gte": 30} or {"exists": false}.
func EvaluateBodyAssertions(body []byte, assertions map[string]any) error {
	doc, err := parseJSONDoc(body)
	if err != nil {
		return err
	}

	for path, expected := range assertions {
		actual, found, err := lookupPath(doc, path)
		if err != nil {
			return fmt.Errorf("invalid JSONPath %q: %w", path, err)
		}

		if ops, isOps := expected.(map[string]any); isOps {
			for op, want := range ops {
				if err := applyOperator(path, op, want, actual, found); err != nil {
					return err
				}
			}
			continue
		}

		if !found {
			return fmt.Errorf("JSONPath %q: no match found", path)
		}
		if !valuesEqual(actual, expected) {
			return fmt.Errorf("JSONPath %q: expected %v (%T), got %v (%T)", path, expected, expected, actual, actual)
		}
	}
	return nil
}

// ExtractJSONPath pulls a single value out of a JSON body, for step captures.
// A miss is an error here: a capture that resolved to nothing would poison
// every later template expansion.
func ExtractJSONPath(body []byte, path string) (any, error) {
	doc, err := parseJSONDoc(body)
	if err != nil {
		return nil, err
	}
	v, found, err := lookupPath(doc, path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}
	if !found {
		return nil, fmt.Errorf("JSONPath %q: no match found", path)
	}
	return v, nil
}

func applyOperator(path, op string, want, actual any, found bool) error {
	// "exists" is the only operator that may run against a miss.
	if op == "exists" {
		wantExists, ok := want.(bool)
		if !ok {
			return fmt.Errorf("JSONPath %q: 'exists' operator requires a boolean value", path)
		}
		if wantExists != found {
			return fmt.Errorf("JSONPath %q: exists=%v but found=%v", path, wantExists, found)
		}
		return nil
	}
	if !found {
		return fmt.Errorf("JSONPath %q: no match found for %q check", path, op)
	}

	switch op {
	case "eq":
		if !valuesEqual(actual, want) {
			return fmt.Errorf("JSONPath %q: expected eq %v, got %v", path, want, actual)
		}

	case "gte", "lte":
		a, err := toFloat64(actual)
		if err != nil {
			return fmt.Errorf("JSONPath %q: %q requires a numeric actual value: %w", path, op, err)
		}
		w, err := toFloat64(want)
		if err != nil {
			return fmt.Errorf("JSONPath %q: %q requires a numeric expected value: %w", path, op, err)
		}
		if op == "gte" && a < w {
			return fmt.Errorf("JSONPath %q: expected >= %v, got %v", path, w, a)
		}
		if op == "lte" && a > w {
			return fmt.Errorf("JSONPath %q: expected <= %v, got %v", path, w, a)
		}

	case "contains":
		if !strings.Contains(fmt.Sprintf("%v", actual), fmt.Sprintf("%v", want)) {
			return fmt.Errorf("JSONPath %q: expected to contain %v, got %v", path, want, actual)
		}

	case "regex":
		pattern, ok := want.(string)
		if !ok {
			return fmt.Errorf("JSONPath %q: 'regex' operator requires a string pattern", path)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("JSONPath %q: invalid regex pattern %q: %w", path, pattern, err)
		}
		if s := fmt.Sprintf("%v", actual); !re.MatchString(s) {
			return fmt.Errorf("JSONPath %q: value %q does not match regex %q", path, s, pattern)
		}

	default:
		return fmt.Errorf("JSONPath %q: unknown operator %q", path, op)
	}
	return nil
}

// valuesEqual compares with numeric coercion: JSON decodes every number to
// float64, but scenario authors write plain integers. A number never equals
// a string.
func valuesEqual(actual, expected any) bool {
	a, aErr := toFloat64(actual)
	e, eErr := toFloat64(expected)
	switch {
	case aErr == nil && eErr == nil:
		return a == e
	case (aErr == nil) != (eErr == nil):
		return false
	default:
		return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
