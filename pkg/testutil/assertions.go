package testutil

import (
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/rebackup/pkg/errors"
)

// AssertContains checks if a string contains a substring
func AssertContains(t *testing.T, str, substr string) {
	t.Helper()

	if !strings.Contains(str, substr) {
		t.Errorf("String %q does not contain %q", str, substr)
	}
}

// AssertNotContains checks if a string does not contain a substring
func AssertNotContains(t *testing.T, str, substr string) {
	t.Helper()

	if strings.Contains(str, substr) {
		t.Errorf("String %q should not contain %q", str, substr)
	}
}

// AssertItems checks that a walk returned exactly the expected items,
// ignoring order, and that no item appears twice
func AssertItems(t *testing.T, expected, actual []string) {
	t.Helper()

	AssertNoDuplicates(t, actual)

	expectedSorted := sortedCopy(expected)
	actualSorted := sortedCopy(actual)

	if len(expectedSorted) != len(actualSorted) {
		t.Errorf("Item count mismatch. Expected: %d, Actual: %d\nExpected: %v\nActual: %v",
			len(expectedSorted), len(actualSorted), expectedSorted, actualSorted)
		return
	}

	for i := range expectedSorted {
		if expectedSorted[i] != actualSorted[i] {
			t.Errorf("Item mismatch at index %d\nExpected: %v\nActual: %v", i, expectedSorted, actualSorted)
			return
		}
	}
}

// AssertNoDuplicates checks that no item appears twice
func AssertNoDuplicates(t *testing.T, items []string) {
	t.Helper()

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			t.Errorf("Item %s appears more than once in %v", item, items)
			return
		}
		seen[item] = struct{}{}
	}
}

// AssertErrorCode checks that err carries the given error code
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()

	if err == nil {
		t.Fatalf("Expected an error with code %s but got nil", code)
	}
	if got := errors.GetErrorCode(err); got != code {
		t.Errorf("Error code mismatch. Expected: %s, Actual: %s (%v)", code, got, err)
	}
}

func sortedCopy(items []string) []string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return sorted
}
