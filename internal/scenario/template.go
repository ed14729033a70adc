package scenario

import (
	"fmt"
	"os"
	"strings"
)

// ExpandTemplates replaces template placeholders in a string:
//   - {{base_url}} with the twin's base URL
//   - {{env.VARIABLE}} from environment variables
//   - {{variable_name}} from scenario variables and captures
func ExpandTemplates(s, baseURL string, vars map[string]string) (string, error) {
	result := s
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			return "", fmt.Errorf("unterminated template expression at position %d", start)
		}
		end += start + 2 // move past "}}"

		expr := result[start+2 : end-2] // strip {{ and }}

		value, err := resolveExpr(expr, baseURL, vars)
		if err != nil {
			return "", err
		}

		result = result[:start] + value + result[end:]
	}
	return result, nil
}

// resolveExpr resolves a template expression.
func resolveExpr(expr, baseURL string, vars map[string]string) (string, error) {
	if expr == "base_url" {
		return baseURL, nil
	}

	// env.VARIABLE
	if strings.HasPrefix(expr, "env.") {
		return os.Getenv(expr[4:]), nil
	}

	// Captured or declared variable
	if vars != nil {
		if val, ok := vars[expr]; ok {
			return val, nil
		}
	}

	return "", fmt.Errorf("unresolved template expression: %q", expr)
}
