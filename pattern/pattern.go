// Package pattern classifies the run of stones through a square along one
// of the four line directions.
package pattern

import (
	"github.com/AustinXT/gomoku-game/board"
)

// Pattern is a named line shape.
type Pattern uint8

const (
	Five Pattern = iota
	LiveFour
	DeadFour
	LiveThree
	DeadThree
	LiveTwo
	DeadTwo
)

var scores = [...]int{
	Five:      100000,
	LiveFour:  10000,
	DeadFour:  1000,
	LiveThree: 500,
	DeadThree: 100,
	LiveTwo:   50,
	DeadTwo:   10,
}

var names = [...]string{
	Five:      "five",
	LiveFour:  "live-four",
	DeadFour:  "dead-four",
	LiveThree: "live-three",
	DeadThree: "dead-three",
	LiveTwo:   "live-two",
	DeadTwo:   "dead-two",
}

// Score is the fixed value of the shape.
func (p Pattern) Score() int {
	return scores[p]
}

func (p Pattern) String() string {
	return names[p]
}

// Direction is a unit step along one axis.
type Direction struct {
	DX, DY int
}

// Directions are the four line axes: along a row, along a column and the
// two diagonals.
var Directions = [4]Direction{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Line counts the run of cell stones through (x, y) along dir and reports
// whether the square just past each end is empty. The starting square is
// counted whatever it holds.
func Line(b *board.Board, x, y int, dir Direction, cell board.Cell) (count int, backOpen, forwardOpen bool) {
	count = 1

	nx, ny := x+dir.DX, y+dir.DY
	for board.InBounds(nx, ny) && b.At(nx, ny) == cell {
		count++
		nx += dir.DX
		ny += dir.DY
	}
	forwardOpen = b.IsEmpty(nx, ny)

	nx, ny = x-dir.DX, y-dir.DY
	for board.InBounds(nx, ny) && b.At(nx, ny) == cell {
		count++
		nx -= dir.DX
		ny -= dir.DY
	}
	backOpen = b.IsEmpty(nx, ny)
	return count, backOpen, forwardOpen
}

// Classify names the shape of the run of cell stones through (x, y) along
// dir. ok is false when the run forms no shape: a lone stone, or a run of
// two to four with both ends blocked.
func Classify(b *board.Board, x, y int, dir Direction, cell board.Cell) (Pattern, bool) {
	count, backOpen, forwardOpen := Line(b, x, y, dir, cell)
	if count >= 5 {
		return Five, true
	}
	open := 0
	if backOpen {
		open++
	}
	if forwardOpen {
		open++
	}
	if open == 0 {
		return 0, false
	}
	switch count {
	case 4:
		if open == 2 {
			return LiveFour, true
		}
		return DeadFour, true
	case 3:
		if open == 2 {
			return LiveThree, true
		}
		return DeadThree, true
	case 2:
		if open == 2 {
			return LiveTwo, true
		}
		return DeadTwo, true
	}
	return 0, false
}

// At returns the shapes credited to the stone at (x, y), at most one per
// direction. An empty or off-board square has none.
func At(b *board.Board, x, y int) []Pattern {
	cell := b.At(x, y)
	if cell == board.Empty {
		return nil
	}
	var found []Pattern
	for _, dir := range Directions {
		if p, ok := Classify(b, x, y, dir, cell); ok {
			found = append(found, p)
		}
	}
	return found
}

// ScoreAt sums the shapes credited to the stone at (x, y) without
// allocating.
func ScoreAt(b *board.Board, x, y int) int {
	cell := b.At(x, y)
	if cell == board.Empty {
		return 0
	}
	total := 0
	for _, dir := range Directions {
		if p, ok := Classify(b, x, y, dir, cell); ok {
			total += p.Score()
		}
	}
	return total
}
