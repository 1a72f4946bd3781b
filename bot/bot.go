// Package bot answers move requests over NATS.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/config"
	"github.com/AustinXT/gomoku-game/game"
)

var ErrGameFinished = errors.New("position already has five in a row")

// Request asks for a move for Player on Board. Board holds board.Size rows
// in the compact notation ('.', 'X', 'O'); row i is x == i.
type Request struct {
	GameID     string   `json:"game_id,omitempty"`
	Board      []string `json:"board"`
	Player     string   `json:"player"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// Response carries either a move (x, y) or an error.
type Response struct {
	*board.Position
	GameID string `json:"game_id,omitempty"`
	Score  int    `json:"score,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Bot is not safe for concurrent use; a NATS subscription delivers its
// messages one at a time.
type Bot struct {
	config            *config.Config
	engines           map[ai.Difficulty]*ai.Engine
	defaultDifficulty ai.Difficulty
}

func NewBot(cfg *config.Config) (*Bot, error) {
	d, err := ai.ParseDifficulty(cfg.GetString(config.ConfigDifficulty))
	if err != nil {
		return nil, err
	}
	return &Bot{
		config:            cfg,
		engines:           map[ai.Difficulty]*ai.Engine{},
		defaultDifficulty: d,
	}, nil
}

func (bot *Bot) engine(d ai.Difficulty) *ai.Engine {
	e, ok := bot.engines[d]
	if !ok {
		e = ai.NewEngine(d, ai.WithCandidateLimit(bot.config.GetInt(config.ConfigCandidateLimit)))
		bot.engines[d] = e
	}
	return e
}

func errorResponse(gameID, message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{GameID: gameID, Error: msg}
}

func (bot *Bot) Deserialize(data []byte) (*Request, *board.Board, board.Player, ai.Difficulty, error) {
	req := &Request{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, nil, 0, 0, err
	}
	b, err := board.FromString(strings.Join(req.Board, "/"))
	if err != nil {
		return req, nil, 0, 0, err
	}
	p, err := board.ParsePlayer(req.Player)
	if err != nil {
		return req, nil, 0, 0, err
	}
	d := bot.defaultDifficulty
	if req.Difficulty != "" {
		if d, err = ai.ParseDifficulty(req.Difficulty); err != nil {
			return req, nil, 0, 0, err
		}
	}
	return req, b, p, d, nil
}

// finished reports whether any stone on b is part of a five.
func finished(b *board.Board) bool {
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			if game.CheckFiveInRow(b, board.Position{X: x, Y: y}) != nil {
				return true
			}
		}
	}
	return false
}

func (bot *Bot) handle(data []byte) *Response {
	req, b, player, d, err := bot.Deserialize(data)
	if err != nil {
		gameID := ""
		if req != nil {
			gameID = req.GameID
		}
		return errorResponse(gameID, "could not parse request", err)
	}
	if finished(b) {
		return errorResponse(req.GameID, "cannot move", ErrGameFinished)
	}
	if b.CountPieces() == 0 {
		return &Response{GameID: req.GameID, Position: &board.Position{X: board.Center, Y: board.Center}}
	}
	e := bot.engine(d)
	pos, err := e.BestMove(b, player)
	if err != nil {
		return errorResponse(req.GameID, "cannot move", err)
	}
	if err := b.Set(pos.X, pos.Y, player); err != nil {
		return errorResponse(req.GameID, "engine chose an illegal move", err)
	}
	resp := &Response{GameID: req.GameID, Position: &pos, Score: e.Evaluate(b, player)}
	log.Info().Str("game-id", req.GameID).Str("player", player.String()).
		Str("difficulty", d.String()).Stringer("move", pos).Msg("generated-move")
	return resp
}

// Handle turns a serialized Request into a serialized Response. It never
// fails; problems are reported in the response's error field.
func (bot *Bot) Handle(data []byte) []byte {
	resp := bot.handle(data)
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen; reply with something the client can parse.
		out, _ = json.Marshal(errorResponse(resp.GameID, "could not encode response", err))
	}
	return out
}

// Connect dials the NATS server, retrying with back-off.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	return nc, err
}

// Main serves requests on channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := Connect(ctx, bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("bot-request")
		if err := m.Respond(bot.Handle(m.Data)); err != nil {
			log.Err(err).Msg("bot-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("channel", channel).Msg("bot-listening")

	<-ctx.Done()
	log.Info().Msg("bot-draining")
	return sub.Drain()
}
