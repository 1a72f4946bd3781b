package zobrist

import (
	"lukechampine.com/frand"

	"github.com/AustinXT/gomoku-game/board"
)

const bignum = 1<<63 - 2

// Zobrist hashes a five-in-a-row position: one key per square and stone
// colour, plus a key folded in when white is on move.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	whiteToMove uint64
	posTable    [board.Size * board.Size][2]uint64
}

func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize()
	return z
}

// NewSeeded derives the keys from seed, so hashes computed in different
// processes agree. Stored games use this.
func NewSeeded(seed [32]byte) *Zobrist {
	z := &Zobrist{}
	rng := frand.NewCustom(seed[:], 1024, 12)
	z.fill(rng.Uint64n)
	return z
}

// Initialize draws a fresh random set of keys.
func (z *Zobrist) Initialize() {
	z.fill(frand.Uint64n)
}

func (z *Zobrist) fill(uint64n func(uint64) uint64) {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = uint64n(bignum) + 1
		}
	}
	z.whiteToMove = uint64n(bignum) + 1
}

func (z *Zobrist) Hash(b *board.Board, toMove board.Player) uint64 {
	key := uint64(0)
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			p, ok := b.At(x, y).Player()
			if !ok {
				continue
			}
			key ^= z.posTable[x*board.Size+y][p]
		}
	}
	if toMove == board.White {
		key ^= z.whiteToMove
	}
	return key
}

// AddStone toggles a stone in or out of key. It does not touch the side
// to move; pair it with FlipTurn for a full move.
func (z *Zobrist) AddStone(key uint64, pos board.Position, p board.Player) uint64 {
	return key ^ z.posTable[pos.X*board.Size+pos.Y][p]
}

func (z *Zobrist) FlipTurn(key uint64) uint64 {
	return key ^ z.whiteToMove
}

// AddMove is AddStone followed by FlipTurn. Applying the same move twice
// restores the original key, so it also undoes a move.
func (z *Zobrist) AddMove(key uint64, pos board.Position, p board.Player) uint64 {
	return z.FlipTurn(z.AddStone(key, pos, p))
}
