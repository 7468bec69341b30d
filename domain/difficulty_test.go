//go:build !integration

package domain

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestDifficultyForTier_Thresholds(t *testing.T) {
	cases := []struct {
		name string
		tier *int
		want Difficulty
	}{
		{"nil tier lands balanced", nil, DifficultyBalanced},
		{"tier 1", intPtr(1), DifficultyEasy},
		{"easy upper bound", intPtr(35), DifficultyEasy},
		{"just above easy", intPtr(36), DifficultyBalanced},
		{"balanced upper bound", intPtr(60), DifficultyBalanced},
		{"just above balanced", intPtr(61), DifficultyAdvanced},
		{"tier 100", intPtr(100), DifficultyAdvanced},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DifficultyForTier(tc.tier); got != tc.want {
				t.Errorf("DifficultyForTier(%v) = %s, want %s", tc.tier, got, tc.want)
			}
		})
	}
}

func TestFallbackChain(t *testing.T) {
	cases := []struct {
		requested Difficulty
		want      []Difficulty
	}{
		{DifficultyEasy, []Difficulty{DifficultyEasy, DifficultyBalanced}},
		{DifficultyBalanced, []Difficulty{DifficultyBalanced, DifficultyEasy, DifficultyAdvanced}},
		{DifficultyAdvanced, []Difficulty{DifficultyAdvanced, DifficultyBalanced}},
	}

	for _, tc := range cases {
		got := FallbackChain(tc.requested)
		if len(got) != len(tc.want) {
			t.Fatalf("FallbackChain(%s) = %v, want %v", tc.requested, got, tc.want)
		}
		if got[0] != tc.requested {
			t.Errorf("FallbackChain(%s) must start with the requested band, got %v", tc.requested, got)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("FallbackChain(%s)[%d] = %s, want %s", tc.requested, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, valid := range []string{"easy", "balanced", "advanced"} {
		got, err := ParseDifficulty(valid)
		if err != nil {
			t.Errorf("ParseDifficulty(%q) returned error: %v", valid, err)
		}
		if string(got) != valid {
			t.Errorf("ParseDifficulty(%q) = %s", valid, got)
		}
	}

	for _, invalid := range []string{"", "EASY", "medium", "hard"} {
		if _, err := ParseDifficulty(invalid); !errors.Is(err, ErrInvalidDifficulty) {
			t.Errorf("ParseDifficulty(%q) error = %v, want ErrInvalidDifficulty", invalid, err)
		}
	}
}
