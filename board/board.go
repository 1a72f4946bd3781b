// Package board holds the fixed-size five-in-a-row grid and the small
// value types (cells, players, positions) that everything else is built on.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the width and height of the board.
const Size = 15

// Center is the coordinate of the middle row and column.
const Center = Size / 2

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrCellOccupied = errors.New("position already occupied")
)

// A Cell is the content of a single intersection.
type Cell uint8

const (
	Empty Cell = iota
	BlackStone
	WhiteStone
)

func (c Cell) String() string {
	switch c {
	case BlackStone:
		return "black"
	case WhiteStone:
		return "white"
	default:
		return "empty"
	}
}

// Player returns the owner of the stone in this cell. ok is false for
// an empty cell.
func (c Cell) Player() (p Player, ok bool) {
	switch c {
	case BlackStone:
		return Black, true
	case WhiteStone:
		return White, true
	}
	return Black, false
}

// Player is one of the two sides. Black moves first.
type Player uint8

const (
	Black Player = iota
	White
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Black {
		return White
	}
	return Black
}

// Cell returns the stone this player places.
func (p Player) Cell() Cell {
	if p == Black {
		return BlackStone
	}
	return WhiteStone
}

func (p Player) String() string {
	if p == Black {
		return "black"
	}
	return "white"
}

// ParsePlayer accepts "black"/"white" and the single letters b, w, x, o.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(s) {
	case "black", "b", "x":
		return Black, nil
	case "white", "w", "o":
		return White, nil
	}
	return Black, fmt.Errorf("unknown player %q", s)
}

// Position is a coordinate pair on the board.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// InBounds reports whether both coordinates lie on the board.
func InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < Size && y < Size
}

// Board is a Size×Size grid. The zero value is an empty board. Boards are
// plain values; Copy (or assignment) duplicates the whole grid.
type Board struct {
	squares [Size][Size]Cell
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() *Board {
	n := *b
	return &n
}

// CopyFrom overwrites b with the contents of other.
func (b *Board) CopyFrom(other *Board) {
	b.squares = other.squares
}

// Dim returns the board dimension.
func (b *Board) Dim() int {
	return Size
}

func (b *Board) Get(x, y int) (Cell, error) {
	if !InBounds(x, y) {
		return Empty, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return b.squares[x][y], nil
}

// Set places a stone for p. It fails without touching the board if the
// position is off the grid or already taken.
func (b *Board) Set(x, y int, p Player) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	if b.squares[x][y] != Empty {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, x, y)
	}
	b.squares[x][y] = p.Cell()
	return nil
}

// ClearCell empties a square regardless of what was on it. Used for undo.
func (b *Board) ClearCell(x, y int) error {
	if !InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	b.squares[x][y] = Empty
	return nil
}

// IsEmpty is false for off-board coordinates.
func (b *Board) IsEmpty(x, y int) bool {
	return InBounds(x, y) && b.squares[x][y] == Empty
}

// At returns the cell at (x, y), or Empty off the board.
func (b *Board) At(x, y int) Cell {
	if !InBounds(x, y) {
		return Empty
	}
	return b.squares[x][y]
}

// Clear removes every stone.
func (b *Board) Clear() {
	b.squares = [Size][Size]Cell{}
}

func (b *Board) CountPieces() int {
	count := 0
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b.squares[x][y] != Empty {
				count++
			}
		}
	}
	return count
}

func (b *Board) IsFull() bool {
	return b.CountPieces() == Size*Size
}

// Equals compares two boards square by square.
func (b *Board) Equals(other *Board) bool {
	return b.squares == other.squares
}
