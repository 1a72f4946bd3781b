// Package gameio reads and writes game transcripts as YAML.
package gameio

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/game"
)

var ErrResultMismatch = errors.New("transcript result does not match replay")

type TranscriptMove struct {
	Player string `yaml:"player"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
}

// Transcript is the on-disk form of a game.
type Transcript struct {
	Mode       string           `yaml:"mode"`
	Difficulty string           `yaml:"difficulty"`
	Moves      []TranscriptMove `yaml:"moves"`
	Result     string           `yaml:"result,omitempty"`
}

// FromGame captures g's settings and history.
func FromGame(g *game.Game) *Transcript {
	t := &Transcript{
		Mode:       g.Mode().String(),
		Difficulty: g.Difficulty().String(),
		Result:     g.Status().String(),
	}
	for _, m := range g.History() {
		t.Moves = append(t.Moves, TranscriptMove{
			Player: m.Player.String(),
			X:      m.Position.X,
			Y:      m.Position.Y,
		})
	}
	return t
}

// Replay plays the transcript into a fresh game. Every move must be legal
// and by the side on turn, and a recorded result must agree.
func (t *Transcript) Replay() (*game.Game, error) {
	mode, err := game.ParseMode(t.Mode)
	if err != nil {
		return nil, err
	}
	difficulty, err := ai.ParseDifficulty(t.Difficulty)
	if err != nil {
		return nil, err
	}
	g := game.NewGame(mode, difficulty)
	for i, m := range t.Moves {
		p, err := board.ParsePlayer(m.Player)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if p != g.PlayerOnTurn() {
			return nil, fmt.Errorf("move %d: %s played out of turn", i+1, p)
		}
		if _, err := g.PlaceStone(m.X, m.Y); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	if t.Result != "" && t.Result != g.Status().String() {
		return nil, fmt.Errorf("%w: recorded %s, got %s", ErrResultMismatch, t.Result, g.Status())
	}
	return g, nil
}

func Write(w io.Writer, g *game.Game) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromGame(g)); err != nil {
		return err
	}
	return enc.Close()
}

func Read(r io.Reader) (*game.Game, error) {
	var t Transcript
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding transcript: %w", err)
	}
	return t.Replay()
}
