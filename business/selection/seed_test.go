//go:build !integration

package selection

import (
	"fmt"
	"testing"
)

// Pinned vectors: the seed must never change across releases, or every
// historical assignment stops being reproducible.
func TestSeed_KnownVectors(t *testing.T) {
	cases := []struct {
		key  string
		want int64
	}{
		{"2024-02-03", 613311839},
		{"2024-02-04", 613311838},
		{"2025-12-31", 275115454},
		{"2024-02-03:42:easy", 457399387},
		{"2024-02-03:42:balanced", 468442325},
		{"2024-02-03:7:advanced", 1671200130},
		{"a", 97},
		{"", 1},
	}

	for _, tc := range cases {
		if got := Seed(tc.key); got != tc.want {
			t.Errorf("Seed(%q) = %d, want %d", tc.key, got, tc.want)
		}
	}
}

func TestSeed_AlwaysPositive(t *testing.T) {
	for i := 0; i < 5000; i++ {
		key := fmt.Sprintf("2024-02-03:%d:advanced", i)
		if got := Seed(key); got < 1 {
			t.Fatalf("Seed(%q) = %d, want >= 1", key, got)
		}
	}
}

func TestSeed_DeterministicAcrossCalls(t *testing.T) {
	key := "2026-08-30:99:easy"
	first := Seed(key)
	for i := 0; i < 10; i++ {
		if got := Seed(key); got != first {
			t.Fatalf("Seed(%q) changed between calls: %d then %d", key, first, got)
		}
	}
}
