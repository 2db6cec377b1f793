package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func AssertStatusCode(t *testing.T, s *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertJSONSubset checks that every key and array element in expected is
// present in actual with the same value. Keys absent from expected are
// ignored, so fixtures list only what the case is about.
func AssertJSONSubset(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}
	var exp interface{}
	require.NoError(t, json.Unmarshal(expected, &exp),
		"[%s] expected body is not valid JSON", s.Name)

	diffs := containsJSON(expected, actual)
	assert.Empty(t, diffs, "[%s] response body mismatch:\n%s\nbody: %s",
		s.Name, strings.Join(diffs, "\n"), string(actual))
}

// AssertRows compares table row counts after the scenario ran.
func AssertRows(t *testing.T, s *Scenario, count func(table string) (int64, error)) {
	t.Helper()
	if len(s.ExpectedRows) == 0 {
		return
	}
	require.NotNil(t, count, "[%s] expectedRows needs Runner.Rows", s.Name)
	for table, want := range s.ExpectedRows {
		got, err := count(table)
		if assert.NoError(t, err, "[%s] count %s", s.Name, table) {
			assert.Equal(t, want, got, "[%s] rows in %s", s.Name, table)
		}
	}
}

func AssertMocksAllCalled(t *testing.T, s *Scenario, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.Errors() {
		assert.NoError(t, err, "[%s]", s.Name)
	}
}

func containsJSON(expected, actual []byte) []string {
	var exp, act interface{}
	if err := json.Unmarshal(expected, &exp); err != nil {
		return []string{fmt.Sprintf("  expected is not JSON: %v", err)}
	}
	if err := json.Unmarshal(actual, &act); err != nil {
		return []string{fmt.Sprintf("  actual is not JSON: %v", err)}
	}
	return DiffJSON("", exp, act)
}

// DiffJSON lists where actual departs from expected. Object keys missing from
// expected are not reported.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
