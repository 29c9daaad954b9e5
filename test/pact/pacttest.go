//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "shop-api"
	ConsumerName = "shop-portal"

	StateShopBaseline = "member 1 and item 1 with 10 in stock exist"
	StateLowStock     = "item 1 has only 1 in stock"
	StateOrderExists  = "order 1 for 2 units of item 1 exists"
	StateOrderMissing = "no order with id 404"
)

const (
	MemberID       int64 = 1
	ItemID         int64 = 1
	ExistingOrder  int64 = 1
	MissingOrderID int64 = 404

	MemberName = "kim"
	ItemName   = "JPA Book"
	ItemPrice  int64 = 10000
	ItemStock        = 10
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the shop portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderRequest is the order body the portal sends.
func ExampleOrderRequest(count int) map[string]any {
	return map[string]any{
		"memberId": MemberID,
		"itemId":   ItemID,
		"count":    count,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
