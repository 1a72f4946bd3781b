package automatic

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/game"
	"github.com/AustinXT/gomoku-game/storage"
)

func TestStartCompVComp(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	opts := fastOptions()
	opts.NumGames = 4
	opts.Threads = 2
	opts.Seeds = GenerateSeeds(4)
	opts.OutputFile = filepath.Join(dir, "moves.csv")
	opts.GamesFile = filepath.Join(dir, "games.csv")
	opts.Store = store

	summary, err := StartCompVComp(context.Background(), DefaultConfig, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Games)
	assert.Equal(t, 4, summary.BlackWins+summary.WhiteWins+summary.Draws)
	assert.True(t, summary.Nodes.Iterations() > 0)
	assert.Equal(t, int64(4), CVCCounter.Value())
	assert.Equal(t, int64(0), IsPlaying.Value())

	saved, err := store.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved, 4)

	moves, err := os.ReadFile(opts.OutputFile)
	require.NoError(t, err)
	lines := strings.Count(string(moves), "\n")
	assert.Equal(t, int(summary.MeanMoves*4+0.5)+1, lines)

	analyzed, err := AnalyzeLogFile(opts.GamesFile)
	require.NoError(t, err)
	assert.Equal(t, summary.Games, analyzed.Games)
	assert.Equal(t, summary.BlackWins, analyzed.BlackWins)
	assert.Equal(t, summary.Lengths, analyzed.Lengths)
}

func TestStartCompVCompCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := fastOptions()
	opts.NumGames = 3
	summary, err := StartCompVComp(ctx, DefaultConfig, opts)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.Games)
}

func TestStartCompVCompNeedsEnoughSeeds(t *testing.T) {
	opts := fastOptions()
	opts.NumGames = 3
	opts.Seeds = GenerateSeeds(2)
	_, err := StartCompVComp(context.Background(), DefaultConfig, opts)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	results := []GameResult{
		{GameID: 1, Status: game.BlackWin, Moves: 11},
		{GameID: 2, Status: game.WhiteWin, Moves: 20},
		{GameID: 3, Status: game.BlackWin, Moves: 15},
		{GameID: 4, Status: game.Draw, Moves: 225},
	}
	s := Summarize(results)
	assert.Equal(t, 4, s.Games)
	assert.Equal(t, 2, s.BlackWins)
	assert.Equal(t, 1, s.WhiteWins)
	assert.Equal(t, 1, s.Draws)
	assert.Equal(t, 11, s.MinMoves)
	assert.Equal(t, 225, s.MaxMoves)
	assert.InDelta(t, 67.75, s.MeanMoves, 1e-9)
	assert.Contains(t, s.String(), "Black wins: 2")

	var buf bytes.Buffer
	require.NoError(t, s.Histogram(&buf, 5))
	assert.NotEmpty(t, buf.String())

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Games)
	assert.Equal(t, "Games played: 0\n", empty.String())
}

func TestAnalyzeRejectsBadRecords(t *testing.T) {
	_, err := analyze(strings.NewReader("gameID,black,white,result,moves,hash,millis\n1,easy,easy,nonsense,9,ff,3\n"))
	assert.Error(t, err)
	_, err = analyze(strings.NewReader("1,easy,easy\n"))
	assert.Error(t, err)
}

func TestWriteAndAnalyzeGamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	results := []GameResult{
		{GameID: 1, Black: ai.Hard, White: ai.Easy, Status: game.BlackWin, Moves: 13, Hash: 0xdeadbeef, Duration: 1500 * time.Millisecond},
	}
	require.NoError(t, WriteGamesFile(path, results))
	s, err := AnalyzeLogFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.BlackWins)
	assert.Equal(t, 0.0, s.StdevMoves)
}

func TestSeedsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.txt")
	seeds := GenerateSeeds(3)
	require.NoError(t, SaveSeeds(seeds, path))
	loaded, err := LoadSeeds(path)
	require.NoError(t, err)
	assert.Equal(t, seeds, loaded)

	_, err = readSeeds(strings.NewReader("c2hvcnQ\n"))
	assert.Error(t, err)
}
