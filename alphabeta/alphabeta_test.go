package alphabeta

import (
	"math/rand"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/equity"
	"github.com/AustinXT/gomoku-game/movegen"
	"github.com/AustinXT/gomoku-game/pattern"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type countingCalculator struct {
	calls int
}

func (c *countingCalculator) Evaluate(b *board.Board, viewpoint board.Player) int {
	c.calls++
	return equity.Evaluate(b, viewpoint)
}

func TestEmptyBoardHasNoMove(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, 0)
	score, best := s.Search(board.NewBoard(), 4, board.Black)
	is.Equal(score, 0)
	is.True(best == nil)
	is.Equal(s.CandidateLimit(), movegen.DefaultLimit)
}

func TestDepthZeroEvaluates(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.Set(7, 7, board.Black))
	is.NoErr(b.Set(7, 8, board.Black))
	s := NewSolver(nil, 0)
	score, best := s.Search(b, 0, board.White)
	is.Equal(score, equity.Evaluate(b, board.White))
	is.True(best == nil)
	is.Equal(s.Nodes(), 1)
}

func TestFullBoardEvaluates(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			p := board.Black
			if (x/2+y)%2 == 1 {
				p = board.White
			}
			is.NoErr(b.Set(x, y, p))
		}
	}
	s := NewSolver(nil, 0)
	score, best := s.Search(b, 6, board.Black)
	is.Equal(score, equity.Evaluate(b, board.Black))
	is.True(best == nil)
}

func TestCompletesFive(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	for y := 5; y <= 8; y++ {
		is.NoErr(b.Set(7, y, board.Black))
	}
	s := NewSolver(nil, 0)
	score, best := s.Search(b, 2, board.Black)
	is.True(best != nil)
	is.True(*best == board.Position{X: 7, Y: 9} || *best == board.Position{X: 7, Y: 4})
	// lone white stones score nothing, so the reply cannot dent the five.
	is.Equal(score, 5*pattern.Five.Score())
}

func TestBlocksFour(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	for y := 5; y <= 8; y++ {
		is.NoErr(b.Set(7, y, board.White))
	}
	is.NoErr(b.Set(7, 4, board.Black))
	s := NewSolver(nil, 0)
	_, best := s.Search(b, 2, board.Black)
	is.True(best != nil)
	is.Equal(*best, board.Position{X: 7, Y: 9})
}

func TestPrincipalVariation(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	for y := 5; y <= 8; y++ {
		is.NoErr(b.Set(7, y, board.White))
	}
	is.NoErr(b.Set(7, 4, board.Black))
	is.NoErr(b.Set(8, 8, board.Black))
	s := NewSolver(nil, 10)
	score, best := s.Search(b, 3, board.Black)
	pv := s.PrincipalVariation()
	is.Equal(pv.First, board.Black)
	is.Equal(pv.Score(), score)
	is.True(len(pv.Moves) <= 3)
	first, ok := pv.GetPVMove()
	is.True(ok)
	is.Equal(first, *best)

	// replaying the line must be legal.
	line := b.Copy()
	p := board.Black
	for _, pos := range pv.Moves {
		is.NoErr(line.Set(pos.X, pos.Y, p))
		p = p.Opponent()
	}
}

func TestPrincipalVariationEmpty(t *testing.T) {
	is := is.New(t)
	s := NewSolver(nil, 0)
	s.Search(board.NewBoard(), 2, board.White)
	pv := s.PrincipalVariation()
	_, ok := pv.GetPVMove()
	is.True(!ok)
	is.Equal(pv.String(), "PV; val 0")
}

func TestSearchLeavesBoardAlone(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.Set(7, 7, board.Black))
	is.NoErr(b.Set(6, 8, board.White))
	is.NoErr(b.Set(8, 8, board.Black))
	before := b.Copy()
	s := NewSolver(nil, 10)
	s.Search(b, 3, board.White)
	is.True(b.Equals(before))
}

func TestDepthOneEvaluatesEveryCandidate(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.Set(7, 7, board.Black))
	calc := &countingCalculator{}
	s := NewSolver(calc, 0)
	s.SetPruningDisabled(true)
	_, best := s.Search(b, 1, board.White)
	is.True(best != nil)
	// one stone has 24 neighbours, capped at the default limit.
	is.Equal(calc.calls, movegen.DefaultLimit)
	is.Equal(s.Nodes(), movegen.DefaultLimit+1)
}

func randomPosition(rng *rand.Rand, stones int) *board.Board {
	b := board.NewBoard()
	p := board.Black
	for placed := 0; placed < stones; {
		x, y := 4+rng.Intn(7), 4+rng.Intn(7)
		if b.Set(x, y, p) != nil {
			continue
		}
		p = p.Opponent()
		placed++
	}
	return b
}

func TestPruningMatchesMinimax(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 8; i++ {
		b := randomPosition(rng, 3+rng.Intn(6))
		player := board.Player(rng.Intn(2))
		depth := 2 + i%2

		pruned := NewSolver(nil, 8)
		ps, pb := pruned.Search(b, depth, player)

		full := NewSolver(nil, 8)
		full.SetPruningDisabled(true)
		fs, fb := full.Search(b, depth, player)

		is.Equal(ps, fs)
		is.True(pb != nil && fb != nil)
		is.Equal(*pb, *fb)
		is.True(pruned.Nodes() <= full.Nodes())
	}
}
