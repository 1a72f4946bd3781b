// Package ai is the engine facade: it turns a difficulty level into
// search parameters and asks the solver for a move.
package ai

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/alphabeta"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/equity"
	"github.com/AustinXT/gomoku-game/movegen"
)

var ErrNoMoveAvailable = errors.New("no move available")

// Engine picks moves for either side. It holds no game state besides its
// difficulty, and is not safe for concurrent use.
type Engine struct {
	difficulty     Difficulty
	candidateLimit int
	calculator     equity.Calculator
	solver         *alphabeta.Solver
}

type EngineOption func(*Engine)

// WithCandidateLimit overrides how many candidates the solver keeps at each
// node. Zero or less means movegen.DefaultLimit, whatever the difficulty.
func WithCandidateLimit(n int) EngineOption {
	return func(e *Engine) {
		e.candidateLimit = n
	}
}

// WithCalculator replaces the leaf evaluator.
func WithCalculator(c equity.Calculator) EngineOption {
	return func(e *Engine) {
		e.calculator = c
	}
}

func NewEngine(d Difficulty, opts ...EngineOption) *Engine {
	e := &Engine{difficulty: d}
	for _, o := range opts {
		o(e)
	}
	if e.calculator == nil {
		e.calculator = equity.NewPatternCalculator()
	}
	e.solver = alphabeta.NewSolver(e.calculator, e.limit())
	return e
}

func (e *Engine) limit() int {
	if e.candidateLimit > 0 {
		return e.candidateLimit
	}
	return movegen.DefaultLimit
}

// SetDifficulty changes the search depth used by the next BestMove.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Solver exposes the underlying search, mostly for node statistics.
func (e *Engine) Solver() *alphabeta.Solver {
	return e.solver
}

// BestMove searches for player, who is assumed to be on move. The board is
// not modified. An empty board yields ErrNoMoveAvailable; callers seed the
// opening themselves.
func (e *Engine) BestMove(b *board.Board, player board.Player) (board.Position, error) {
	score, best := e.solver.Search(b, e.difficulty.SearchDepth(), player)
	if best == nil {
		return board.Position{}, ErrNoMoveAvailable
	}
	log.Debug().
		Str("difficulty", e.difficulty.String()).
		Str("player", player.String()).
		Int("score", score).
		Stringer("move", *best).
		Msg("engine-best-move")
	return *best, nil
}

// Evaluate scores b from player's point of view without searching.
func (e *Engine) Evaluate(b *board.Board, player board.Player) int {
	return e.calculator.Evaluate(b, player)
}
