// Package equity scores positions by summing the line shapes every stone
// takes part in.
package equity

import (
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/pattern"
)

// Opponent shapes count 1.1 times as much as our own, so blocking a shape
// outranks building the same shape. Kept as an integer ratio; every shape
// score is a multiple of ten so the division is exact.
const (
	defenseNumerator   = 11
	defenseDenominator = 10
)

// PatternCalculator is the default Calculator.
type PatternCalculator struct{}

func NewPatternCalculator() *PatternCalculator {
	return &PatternCalculator{}
}

func (pc *PatternCalculator) Evaluate(b *board.Board, viewpoint board.Player) int {
	return Evaluate(b, viewpoint)
}

// Evaluate scans every square. An occupied square contributes the sum of
// its shape scores: added when the stone is the viewpoint player's, and
// subtracted with the defensive weight otherwise.
func Evaluate(b *board.Board, viewpoint board.Player) int {
	own := viewpoint.Cell()
	score := 0
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			cell := b.At(x, y)
			if cell == board.Empty {
				continue
			}
			contribution := pattern.ScoreAt(b, x, y)
			if contribution == 0 {
				continue
			}
			if cell == own {
				score += contribution
			} else {
				score -= contribution * defenseNumerator / defenseDenominator
			}
		}
	}
	return score
}
