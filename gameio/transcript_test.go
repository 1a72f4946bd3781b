package gameio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/game"
)

func TestWriteThenRead(t *testing.T) {
	g := game.NewGame(game.PvE, ai.Easy)
	for _, p := range []board.Position{{X: 7, Y: 7}, {X: 8, Y: 8}, {X: 7, Y: 8}} {
		_, err := g.PlaceStone(p.X, p.Y)
		require.NoError(t, err)
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	assert.Contains(t, buf.String(), "mode: pve")
	assert.Contains(t, buf.String(), "result: in_progress")

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.History(), back.History())
	assert.Equal(t, g.Hash(), back.Hash())
	assert.Equal(t, board.White, back.PlayerOnTurn())
	assert.Equal(t, ai.Easy, back.Difficulty())
}

const blackWins = `
mode: pvp
difficulty: medium
moves:
  - {player: black, x: 0, y: 0}
  - {player: white, x: 1, y: 0}
  - {player: black, x: 0, y: 1}
  - {player: white, x: 1, y: 1}
  - {player: black, x: 0, y: 2}
  - {player: white, x: 1, y: 2}
  - {player: black, x: 0, y: 3}
  - {player: white, x: 1, y: 3}
  - {player: black, x: 0, y: 4}
result: black_win
`

func TestReadFinishedGame(t *testing.T) {
	g, err := Read(strings.NewReader(blackWins))
	require.NoError(t, err)
	assert.Equal(t, game.BlackWin, g.Status())
	assert.Len(t, g.WinningLine(), 5)
}

func TestReadRejectsBadTranscripts(t *testing.T) {
	_, err := Read(strings.NewReader(strings.Replace(blackWins, "black_win", "draw", 1)))
	assert.True(t, errors.Is(err, ErrResultMismatch))

	_, err = Read(strings.NewReader(strings.Replace(blackWins, "{player: white, x: 1, y: 0}", "{player: black, x: 1, y: 0}", 1)))
	assert.Error(t, err)

	_, err = Read(strings.NewReader(strings.Replace(blackWins, "{player: white, x: 1, y: 0}", "{player: white, x: 0, y: 0}", 1)))
	assert.True(t, errors.Is(err, board.ErrCellOccupied))

	_, err = Read(strings.NewReader("mode: [unclosed"))
	assert.Error(t, err)

	_, err = Read(strings.NewReader("mode: eve\ndifficulty: easy\n"))
	assert.Error(t, err)
}
