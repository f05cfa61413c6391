package matching

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/ohler55/ojg/jp"
)

// JSONPathResult contains the results of JSONPath matching.
type JSONPathResult struct {
	// Score is the total match score (ScoreJSONPathCondition per matched condition).
	Score int
	// Matched contains the value extracted by each JSONPath expression, keyed by expression.
	Matched map[string]any
	// Failed is the first expression whose condition did not hold.
	Failed string
}

// OK reports whether every condition held.
func (r JSONPathResult) OK() bool {
	return r.Failed == ""
}

// MatchJSONPath evaluates JSONPath conditions against decoded JSON data.
// All conditions must hold. Expected values compare with ValuesEqual; a
// value of the form {"exists": bool} checks presence instead.
func MatchJSONPath(conditions map[string]any, data any) JSONPathResult {
	if len(conditions) == 0 {
		return JSONPathResult{}
	}

	result := JSONPathResult{Matched: make(map[string]any, len(conditions))}

	for _, path := range sortedKeys(conditions) {
		matched, value := matchSingleJSONPath(path, conditions[path], data)
		if !matched {
			return JSONPathResult{Failed: path}
		}
		result.Score += ScoreJSONPathCondition
		if value != nil {
			result.Matched[path] = value
		}
	}

	return result
}

// Lookup returns every value addressed by path in data.
func Lookup(path string, data any) ([]any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return expr.Get(data), nil
}

// matchSingleJSONPath evaluates a single JSONPath condition.
// Returns (true, extractedValue) if matched, (false, nil) if not.
func matchSingleJSONPath(path string, expected any, data any) (bool, any) {
	results, err := Lookup(path, data)
	if err != nil {
		return false, nil
	}

	if isExistenceCheck(expected) {
		exists := getExistsValue(expected)
		if len(results) == 0 {
			return !exists, nil
		}
		if exists {
			return true, results[0]
		}
		return false, nil
	}

	// Wildcard paths may return several results; any one may match.
	for _, result := range results {
		if ValuesEqual(result, expected) {
			return true, result
		}
	}

	return false, nil
}

// isExistenceCheck determines if the expected value is an existence check object.
func isExistenceCheck(expected any) bool {
	m, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	_, hasExists := m["exists"]
	return hasExists && len(m) == 1
}

func getExistsValue(expected any) bool {
	m, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	b, ok := m["exists"].(bool)
	return ok && b
}

// ValuesEqual compares two values for equality, treating numbers of
// different Go types as equal when their values are.
func ValuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	if reflect.DeepEqual(actual, expected) {
		return true
	}

	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}

	return false
}

// toFloat64 attempts to convert a value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}

// ValidateJSONPathExpression reports whether path is a valid JSONPath expression.
func ValidateJSONPathExpression(path string) error {
	_, err := jp.ParseString(path)
	if err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
