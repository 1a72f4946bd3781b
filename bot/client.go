package bot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/game"
)

type Client struct {
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel, timeout: 30 * time.Second}
}

// MakeRequest serializes the current position of g for the side on turn.
func MakeRequest(g *game.Game, gameID string) ([]byte, error) {
	req := Request{
		GameID:     gameID,
		Board:      splitRows(g.Board().String()),
		Player:     g.PlayerOnTurn().String(),
		Difficulty: g.Difficulty().String(),
	}
	return json.Marshal(req)
}

func splitRows(s string) []string {
	rows := make([]string, 0, board.Size)
	for len(s) > 0 {
		rows = append(rows, s[:board.Size])
		s = s[board.Size:]
		if len(s) > 0 {
			s = s[1:] // separator
		}
	}
	return rows
}

// ParseResponse decodes a bot reply into a move.
func ParseResponse(data []byte) (board.Position, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return board.Position{}, err
	}
	if resp.Error != "" {
		return board.Position{}, errors.New("bot returned: " + resp.Error)
	}
	if resp.Position == nil {
		return board.Position{}, errors.New("bot returned no move")
	}
	return *resp.Position, nil
}

// RequestMove sends g's position to the bot and returns its move.
func (c *Client) RequestMove(ctx context.Context, g *game.Game, gameID string) (board.Position, error) {
	data, err := MakeRequest(g, gameID)
	if err != nil {
		return board.Position{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		log.Err(err).Str("channel", c.channel).Msg("bot-request-failed")
		return board.Position{}, err
	}
	return ParseResponse(res.Data)
}
