package ai

import (
	"fmt"
	"strings"
)

// Difficulty selects how deep and how wide the engine searches.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// SearchDepth is the number of plies looked ahead.
func (d Difficulty) SearchDepth() int {
	switch d {
	case Easy:
		return 2
	case Hard:
		return 6
	default:
		return 4
	}
}

// MaxCandidates is the level's nominal candidate cap. It is reported only;
// the search keeps movegen.DefaultLimit candidates at every level.
func (d Difficulty) MaxCandidates() int {
	switch d {
	case Easy:
		return 10
	case Hard:
		return 20
	default:
		return 15
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "e":
		return Easy, nil
	case "medium", "m", "":
		return Medium, nil
	case "hard", "h":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}
