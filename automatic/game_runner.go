// Package automatic plays engine-vs-engine games, for comparing
// difficulty levels and for exercising the search on many positions.
package automatic

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/game"
	"github.com/AustinXT/gomoku-game/movegen"
	"github.com/AustinXT/gomoku-game/stats"
)

// GameResult is one finished self-play game.
type GameResult struct {
	GameID   int
	Black    ai.Difficulty
	White    ai.Difficulty
	Status   game.Status
	Moves    int
	Hash     uint64
	Duration time.Duration
}

// GameRunner plays engine-vs-engine games one after another. It owns its
// game and both engines, so each worker goroutine needs its own.
type GameRunner struct {
	game    *game.Game
	engines [2]*ai.Engine
	opts    Options
	rng     *frand.RNG
	logchan chan string

	gameID int
	// per-move search statistics over every game this runner played.
	nodes    stats.Statistic
	thinking stats.Statistic
}

// NewGameRunner builds a runner for opts. logchan may be nil; otherwise
// every move is sent to it as a CSV line.
func NewGameRunner(logchan chan string, opts Options) *GameRunner {
	r := &GameRunner{logchan: logchan, opts: opts}
	r.Init(opts.Black, opts.White, opts.CandidateLimit)
	return r
}

// Init sets up one engine per side.
func (r *GameRunner) Init(black, white ai.Difficulty, candidateLimit int) {
	r.opts.Black, r.opts.White = black, white
	r.engines[board.Black] = ai.NewEngine(black, ai.WithCandidateLimit(candidateLimit))
	r.engines[board.White] = ai.NewEngine(white, ai.WithCandidateLimit(candidateLimit))
	r.game = game.NewGame(game.PvE, black)
}

// StartGame clears the board. A non-nil seed makes the opening choices
// reproducible.
func (r *GameRunner) StartGame(gameID int, seed *[32]byte) {
	r.game.Reset()
	r.gameID = gameID
	r.rng = nil
	if seed != nil {
		r.rng = frand.NewCustom(seed[:], 1024, 12)
	}
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

func (r *GameRunner) intn(n int) int {
	if r.rng != nil {
		return r.rng.Intn(n)
	}
	return frand.Intn(n)
}

// openingMove picks at random among the best-ranked candidates for the
// first few plies after the centre stone, so games do not all repeat.
func (r *GameRunner) openingMove() (board.Position, bool) {
	turn := r.game.Turn()
	if turn == 0 || turn > r.opts.OpeningPlies || r.opts.OpeningChoices <= 1 {
		return board.Position{}, false
	}
	cands := movegen.Generate(r.game.Board(), r.opts.OpeningChoices)
	if len(cands) == 0 {
		return board.Position{}, false
	}
	return cands[r.intn(len(cands))].Pos, true
}

// PlayBestTurn plays one move for the side on turn.
func (r *GameRunner) PlayBestTurn() (game.MoveResult, error) {
	onturn := r.game.PlayerOnTurn()
	engine := r.engines[onturn]

	var res game.MoveResult
	var err error
	opening := false
	tstart := time.Now()
	if pos, ok := r.openingMove(); ok {
		opening = true
		res, err = r.game.PlaceStone(pos.X, pos.Y)
	} else {
		searched := r.game.Turn() > 0
		res, err = r.game.AIMoveWith(engine)
		if err == nil && searched {
			r.nodes.Push(float64(engine.Solver().Nodes()))
			r.thinking.Push(float64(time.Since(tstart).Microseconds()))
		}
	}
	if err != nil {
		return res, err
	}

	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%d,%d,%s,%s,%d,%d,%v\n",
			r.gameID,
			r.game.Turn(),
			onturn,
			engine.Difficulty(),
			res.Move.Position.X,
			res.Move.Position.Y,
			opening)
	}
	return res, nil
}

// PlayGame plays a game to the end. It stops between moves when ctx is
// done.
func (r *GameRunner) PlayGame(ctx context.Context, gameID int, seed *[32]byte) (GameResult, error) {
	r.StartGame(gameID, seed)
	tstart := time.Now()
	for r.game.Status() == game.InProgress {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if _, err := r.PlayBestTurn(); err != nil {
			return GameResult{}, fmt.Errorf("game %d, turn %d: %w", gameID, r.game.Turn(), err)
		}
	}
	res := GameResult{
		GameID:   gameID,
		Black:    r.opts.Black,
		White:    r.opts.White,
		Status:   r.game.Status(),
		Moves:    r.game.Turn(),
		Hash:     r.game.Hash(),
		Duration: time.Since(tstart),
	}
	log.Debug().Int("game", gameID).Str("result", res.Status.String()).
		Int("moves", res.Moves).Dur("elapsed", res.Duration).Msg("autoplay-game-over")
	return res, nil
}
