// Package movegen produces the candidate squares the search looks at.
// Only empty squares near existing stones are considered, ranked by a
// cheap crowding heuristic.
package movegen

import (
	"sort"

	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/pattern"
)

const (
	// DefaultLimit is how many candidates are kept at every node.
	DefaultLimit = 20
	// NeighborDistance is the Chebyshev radius that makes a square a
	// candidate.
	NeighborDistance = 2
	centerBonusWeight = 2
)

// Candidate is an empty square plus its heuristic ranking value.
type Candidate struct {
	Pos       board.Position
	Valuation int
}

// Generate returns the empty squares that have a stone within
// NeighborDistance, sorted by Valuation (highest first, ties in scan
// order) and truncated to limit. A limit of zero or less keeps them all.
// An empty board yields no candidates; callers must seed the opening move.
func Generate(b *board.Board, limit int) []Candidate {
	var cands []Candidate
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			if !b.IsEmpty(x, y) || !HasNeighbor(b, x, y, NeighborDistance) {
				continue
			}
			cands = append(cands, Candidate{
				Pos:       board.Position{X: x, Y: y},
				Valuation: Valuation(b, x, y),
			})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Valuation > cands[j].Valuation
	})
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

// HasNeighbor reports whether any square within distance of (x, y),
// other than (x, y) itself, holds a stone.
func HasNeighbor(b *board.Board, x, y, distance int) bool {
	for nx := max(0, x-distance); nx <= min(board.Size-1, x+distance); nx++ {
		for ny := max(0, y-distance); ny <= min(board.Size-1, y+distance); ny++ {
			if nx == x && ny == y {
				continue
			}
			if !b.IsEmpty(nx, ny) {
				return true
			}
		}
	}
	return false
}

// Valuation counts the stones of either colour directly adjoining (x, y)
// in unbroken runs along each axis, and adds a bonus for closeness to the
// centre.
func Valuation(b *board.Board, x, y int) int {
	score := 0
	for _, dir := range pattern.Directions {
		score += occupiedRun(b, x, y, dir.DX, dir.DY)
		score += occupiedRun(b, x, y, -dir.DX, -dir.DY)
	}
	centerBonus := board.Center - abs(x-board.Center) - abs(y-board.Center)
	return score + centerBonus*centerBonusWeight
}

func occupiedRun(b *board.Board, x, y, dx, dy int) int {
	count := 0
	nx, ny := x+dx, y+dy
	for board.InBounds(nx, ny) && !b.IsEmpty(nx, ny) {
		count++
		nx += dx
		ny += dy
	}
	return count
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
