package table

import (
	"context"
	"testing"
	"time"
)

// waitFor polls a condition until it returns true or timeout is reached.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// resolveOne resolves a single column or fails the test.
func resolveOne(t *testing.T, col Column) ResolvedColumn {
	t.Helper()
	cols, err := Resolve(context.Background(), []Column{col})
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	return cols[0]
}
