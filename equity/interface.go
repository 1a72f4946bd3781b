package equity

import "github.com/AustinXT/gomoku-game/board"

// Calculator scores a whole position from one side's point of view.
// Larger is better for that side.
type Calculator interface {
	Evaluate(b *board.Board, viewpoint board.Player) int
}
