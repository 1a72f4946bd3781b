package equity

import (
	"testing"

	"github.com/matryer/is"

	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/pattern"
)

func TestEmptyBoardIsZero(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.Equal(Evaluate(b, board.Black), 0)
	is.Equal(Evaluate(b, board.White), 0)
}

func TestLoneStonesScoreNothing(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.Set(0, 0, board.Black))
	is.NoErr(b.Set(10, 4, board.White))
	is.Equal(Evaluate(b, board.Black), 0)
}

func TestOwnLiveTwo(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.Set(7, 7, board.Black))
	is.NoErr(b.Set(7, 8, board.Black))
	// each of the two stones is credited with the live two.
	is.Equal(Evaluate(b, board.Black), 2*pattern.LiveTwo.Score())
	// from white's side the same shape weighs 1.1x.
	is.Equal(Evaluate(b, board.White), -110)
}

func TestOpenFour(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	for y := 5; y <= 8; y++ {
		is.NoErr(b.Set(7, y, board.White))
	}
	is.Equal(Evaluate(b, board.White), 4*pattern.LiveFour.Score())
	is.Equal(Evaluate(b, board.Black), -44000)
}

func TestDefenseWeighsMore(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	// black live three on row 3, white live three on row 10.
	for y := 4; y <= 6; y++ {
		is.NoErr(b.Set(3, y, board.Black))
		is.NoErr(b.Set(10, y, board.White))
	}
	own := 3 * pattern.LiveThree.Score()
	is.Equal(Evaluate(b, board.Black), own-own*11/10)
	is.True(Evaluate(b, board.Black) < 0)
	is.Equal(Evaluate(b, board.Black), Evaluate(b, board.White))
}

func TestCalculatorMatchesEvaluate(t *testing.T) {
	is := is.New(t)
	b := board.NewBoard()
	is.NoErr(b.Set(3, 6, board.Black))
	is.NoErr(b.Set(3, 7, board.Black))
	is.NoErr(b.Set(4, 6, board.White))
	is.NoErr(b.Set(4, 7, board.Black))
	is.NoErr(b.Set(4, 8, board.White))
	is.NoErr(b.Set(5, 6, board.White))

	var c Calculator = NewPatternCalculator()
	is.Equal(c.Evaluate(b, board.Black), Evaluate(b, board.Black))
	is.Equal(c.Evaluate(b, board.White), Evaluate(b, board.White))
}
