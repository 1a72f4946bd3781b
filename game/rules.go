package game

import (
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/pattern"
)

// WinLength is the run that ends the game. Longer runs win too.
const WinLength = 5

// CheckFiveInRow looks along the four axes through pos for a run of at
// least WinLength stones matching the stone at pos. It returns the run in
// board order, or nil. An empty or off-board pos never wins.
func CheckFiveInRow(b *board.Board, pos board.Position) []board.Position {
	cell := b.At(pos.X, pos.Y)
	if cell == board.Empty {
		return nil
	}
	for _, dir := range pattern.Directions {
		line := runThrough(b, pos, dir, cell)
		if len(line) >= WinLength {
			return line
		}
	}
	return nil
}

func runThrough(b *board.Board, pos board.Position, dir pattern.Direction, cell board.Cell) []board.Position {
	start := pos
	for b.At(start.X-dir.DX, start.Y-dir.DY) == cell {
		start = board.Position{X: start.X - dir.DX, Y: start.Y - dir.DY}
	}
	var line []board.Position
	for p := start; b.At(p.X, p.Y) == cell; p = (board.Position{X: p.X + dir.DX, Y: p.Y + dir.DY}) {
		line = append(line, p)
	}
	return line
}

// IsDraw reports a full board. Callers check for a win first.
func IsDraw(b *board.Board) bool {
	return b.IsFull()
}
