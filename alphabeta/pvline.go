package alphabeta

import (
	"fmt"
	"strings"

	"github.com/AustinXT/gomoku-game/board"
)

// PVLine is a principal variation: the line of play both sides are
// expected to follow from the searched position, starting with the side
// that was to move.
type PVLine struct {
	Moves []board.Position
	First board.Player
	score int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = pvLine.Moves[:0]
}

// Update the line with a new best move followed by the line below it.
// The receiver's backing array is reused.
func (pvLine *PVLine) Update(pos board.Position, child *PVLine, score int) {
	pvLine.Moves = append(pvLine.Moves[:0], pos)
	pvLine.Moves = append(pvLine.Moves, child.Moves...)
	pvLine.score = score
}

// GetPVMove returns the first move of the line.
func (pvLine *PVLine) GetPVMove() (board.Position, bool) {
	if len(pvLine.Moves) == 0 {
		return board.Position{}, false
	}
	return pvLine.Moves[0], true
}

func (pvLine *PVLine) Score() int {
	return pvLine.score
}

// Copy returns a line that does not share storage with the solver.
func (pvLine *PVLine) Copy() PVLine {
	return PVLine{
		Moves: append([]board.Position(nil), pvLine.Moves...),
		First: pvLine.First,
		score: pvLine.score,
	}
}

// String renders the line on one line, e.g. "PV; val 550; 1: black (7, 9); 2: white (7, 4)".
func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %d", pvLine.score)
	p := pvLine.First
	for i, pos := range pvLine.Moves {
		fmt.Fprintf(&sb, "; %d: %s %s", i+1, p, pos)
		p = p.Opponent()
	}
	return sb.String()
}
