package domain

import (
	"errors"
	"fmt"
)

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyBalanced Difficulty = "balanced"
	DifficultyAdvanced Difficulty = "advanced"
)

// Tier thresholds shared by the Go classifier and the SQL band predicates.
const (
	TierEasyMax     = 35
	TierBalancedMax = 60
)

// DifficultyForTier classifies a nullable numeric tier into a band.
// A word with no tier lands in the balanced band.
func DifficultyForTier(tier *int) Difficulty {
	if tier == nil {
		return DifficultyBalanced
	}
	switch {
	case *tier <= TierEasyMax:
		return DifficultyEasy
	case *tier <= TierBalancedMax:
		return DifficultyBalanced
	default:
		return DifficultyAdvanced
	}
}

// FallbackChain returns the ordered bands tried when the requested band
// has no eligible, unused word. The requested band is always first.
func FallbackChain(d Difficulty) []Difficulty {
	switch d {
	case DifficultyEasy:
		return []Difficulty{DifficultyEasy, DifficultyBalanced}
	case DifficultyAdvanced:
		return []Difficulty{DifficultyAdvanced, DifficultyBalanced}
	default:
		return []Difficulty{DifficultyBalanced, DifficultyEasy, DifficultyAdvanced}
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyBalanced, DifficultyAdvanced:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q: %w", s, ErrInvalidDifficulty)
}

var ErrInvalidDifficulty = errors.New("invalid difficulty")
