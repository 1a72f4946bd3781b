// Package game tracks a single five-in-a-row session: whose turn it is,
// the move history and the result. It is the only writer of its board.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/zobrist"
)

var (
	ErrGameOver      = errors.New("game is not in progress")
	ErrNothingToUndo = errors.New("no moves to undo")
)

// Fixed keys, so a stored position hash means the same thing in every
// process.
var hasher = zobrist.NewSeeded([32]byte{'f', 'i', 'v', 'e', '-', 'i', 'n', '-', 'a', '-', 'r', 'o', 'w'})

// Game is not safe for concurrent use.
type Game struct {
	board       *board.Board
	onturn      board.Player
	status      Status
	history     []Move
	mode        Mode
	engine      *ai.Engine
	hash        uint64
	winningLine []board.Position
}

// NewGame starts a game with an empty board and black to move.
func NewGame(mode Mode, difficulty ai.Difficulty) *Game {
	g := &Game{
		board:  board.NewBoard(),
		mode:   mode,
		engine: ai.NewEngine(difficulty),
	}
	g.Reset()
	return g
}

// Reset clears the board and history, keeping the mode and difficulty.
func (g *Game) Reset() {
	g.board.Clear()
	g.onturn = board.Black
	g.status = InProgress
	g.history = g.history[:0]
	g.winningLine = nil
	g.hash = hasher.Hash(g.board, g.onturn)
}

// PlaceStone puts the side to move's stone at (x, y), then settles the
// status and passes the turn.
func (g *Game) PlaceStone(x, y int) (MoveResult, error) {
	if g.status != InProgress {
		return MoveResult{Status: g.status}, ErrGameOver
	}
	p := g.onturn
	if err := g.board.Set(x, y, p); err != nil {
		return MoveResult{Status: g.status}, err
	}
	pos := board.Position{X: x, Y: y}
	m := Move{Position: pos, Player: p}
	g.history = append(g.history, m)
	g.hash = hasher.AddMove(g.hash, pos, p)
	g.onturn = p.Opponent()

	line := CheckFiveInRow(g.board, pos)
	switch {
	case line != nil:
		g.status = winStatus(p)
		g.winningLine = line
	case IsDraw(g.board):
		g.status = Draw
	}
	if g.status.Over() {
		log.Debug().Str("status", g.status.String()).Int("moves", len(g.history)).Msg("game-over")
	}
	return MoveResult{Move: m, Status: g.status, WinningLine: line}, nil
}

// AIMove plays the engine's choice for the side to move.
func (g *Game) AIMove() (MoveResult, error) {
	return g.AIMoveWith(g.engine)
}

// AIMoveWith is AIMove with a caller-supplied engine. On an empty board
// the centre is played without searching.
func (g *Game) AIMoveWith(e *ai.Engine) (MoveResult, error) {
	if g.status != InProgress {
		return MoveResult{Status: g.status}, ErrGameOver
	}
	if g.board.CountPieces() == 0 {
		return g.PlaceStone(board.Center, board.Center)
	}
	pos, err := e.BestMove(g.board, g.onturn)
	if err != nil {
		return MoveResult{Status: g.status}, fmt.Errorf("%s to move: %w", g.onturn, err)
	}
	return g.PlaceStone(pos.X, pos.Y)
}

// Undo takes back the last move, whoever made it. The game is in progress
// afterwards.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	last := g.history[len(g.history)-1]
	if err := g.board.ClearCell(last.Position.X, last.Position.Y); err != nil {
		return err
	}
	g.history = g.history[:len(g.history)-1]
	g.hash = hasher.AddMove(g.hash, last.Position, last.Player)
	g.onturn = last.Player
	g.status = InProgress
	g.winningLine = nil
	return nil
}

// Board returns the live board. Callers must not modify it.
func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Player {
	return g.onturn
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Mode() Mode {
	return g.mode
}

func (g *Game) SetMode(m Mode) {
	g.mode = m
}

func (g *Game) Difficulty() ai.Difficulty {
	return g.engine.Difficulty()
}

func (g *Game) SetDifficulty(d ai.Difficulty) {
	g.engine.SetDifficulty(d)
}

func (g *Game) Engine() *ai.Engine {
	return g.engine
}

// History returns a copy of the moves played so far.
func (g *Game) History() []Move {
	return append([]Move(nil), g.history...)
}

// Turn is the number of moves played.
func (g *Game) Turn() int {
	return len(g.history)
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1], true
}

// WinningLine is the five (or more) that ended the game, if it ended in
// a win.
func (g *Game) WinningLine() []board.Position {
	return g.winningLine
}

// Hash is the zobrist key of the current position and side to move.
func (g *Game) Hash() uint64 {
	return g.hash
}

func (g *Game) BoardState() [][]string {
	return g.board.BoardState()
}

// ToDisplayText shows the board plus a status line.
func (g *Game) ToDisplayText() string {
	s := g.board.ToDisplayText()
	s += fmt.Sprintf("mode: %s  difficulty: %s  moves: %d\n", g.mode, g.Difficulty(), len(g.history))
	if g.status == InProgress {
		s += fmt.Sprintf("%s to move\n", g.onturn)
	} else {
		s += fmt.Sprintf("result: %s\n", g.status)
	}
	return s
}
