package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/game"
)

// SaveFinished stores g under name with its whole history. Unfinished
// games may be saved too; their status is stored as is.
func (s *Store) SaveFinished(ctx context.Context, g *game.Game, name string) (int64, error) {
	now := time.Now()
	sg := &SavedGame{
		Name:         name,
		Mode:         g.Mode().String(),
		Difficulty:   g.Difficulty().String(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       g.Status().String(),
		TotalMoves:   g.Turn(),
		PositionHash: g.Hash(),
	}
	if w, ok := g.Status().Winner(); ok {
		sg.Winner = w.String()
	}
	history := g.History()
	moves := make([]SavedMove, len(history))
	for i, m := range history {
		moves[i] = SavedMove{
			MoveNumber: i + 1,
			Player:     m.Player.String(),
			X:          m.Position.X,
			Y:          m.Position.Y,
			Timestamp:  now,
		}
	}
	return s.SaveWithMoves(ctx, sg, moves)
}

// LoadGame rebuilds a stored game by replaying its moves.
func (s *Store) LoadGame(ctx context.Context, id int64) (*game.Game, *SavedGame, error) {
	sg, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	mode, err := game.ParseMode(sg.Mode)
	if err != nil {
		return nil, nil, err
	}
	difficulty, err := ai.ParseDifficulty(sg.Difficulty)
	if err != nil {
		return nil, nil, err
	}
	moves, err := s.GetMoves(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	g := game.NewGame(mode, difficulty)
	for _, m := range moves {
		p, err := board.ParsePlayer(m.Player)
		if err != nil {
			return nil, nil, fmt.Errorf("move %d: %w", m.MoveNumber, err)
		}
		if p != g.PlayerOnTurn() {
			return nil, nil, fmt.Errorf("move %d: expected %s to move, got %s", m.MoveNumber, g.PlayerOnTurn(), p)
		}
		if _, err := g.PlaceStone(m.X, m.Y); err != nil {
			return nil, nil, fmt.Errorf("move %d: %w", m.MoveNumber, err)
		}
	}
	if sg.PositionHash != 0 && g.Hash() != sg.PositionHash {
		return nil, nil, fmt.Errorf("game %d: position hash mismatch after replay", id)
	}
	return g, sg, nil
}
