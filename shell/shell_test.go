package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/config"
	"github.com/AustinXT/gomoku-game/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -file /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"file": {"/path/to/log.txt"}}},
			nil},
		{"autoplay stop",
			&shellcmd{"autoplay", []string{"stop"}, CmdOptions{}},
			nil},
		{"autoplay 20 4 -black hard -white easy ",
			&shellcmd{"autoplay",
				[]string{"20", "4"},
				CmdOptions{"black": {"hard"}, "white": {"easy"}}},
			nil,
		},
		{"save \"my first win\"",
			&shellcmd{"save", []string{"my first win"}, CmdOptions{}},
			nil},
		{"place -1 3",
			&shellcmd{"place", []string{"-1", "3"}, CmdOptions{}},
			nil},
		{"autoplay 20 -file",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer, *bytes.Buffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDBPath, ":memory:")
	cfg.Set(config.ConfigDifficulty, "easy")
	var out, errout bytes.Buffer
	sc := newController(cfg, &out, &errout)
	t.Cleanup(sc.Cleanup)
	return sc, &out, &errout
}

func run(t *testing.T, sc *ShellController, line string) *Response {
	t.Helper()
	resp, err := sc.standardModeSwitch(line, make(chan os.Signal, 1))
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return resp
}

func TestCommandsNeedAGame(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	for _, line := range []string{"place 7 7", "ai", "undo", "show", "eval", "best", "hash", "save x", "export /tmp/x"} {
		_, err := sc.standardModeSwitch(line, nil)
		is.Equal(err, errNoGame)
	}
}

func TestNewGameArgs(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new")
	is.Equal(sc.game.Mode(), game.PvE)
	is.Equal(sc.game.Difficulty().String(), "easy")

	run(t, sc, "new pvp hard")
	is.Equal(sc.game.Mode(), game.PvP)
	is.Equal(sc.game.Difficulty().String(), "hard")

	_, err := sc.standardModeSwitch("new sideways", nil)
	is.True(err != nil)
}

func TestPlaceInPvPAlternates(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new pvp")
	run(t, sc, "place 7 7")
	run(t, sc, "place 7 8")
	is.Equal(sc.game.Turn(), 2)
	is.Equal(sc.game.PlayerOnTurn(), board.Black)

	_, err := sc.standardModeSwitch("place 7 7", nil)
	is.True(err != nil) // occupied
	_, err = sc.standardModeSwitch("place 7", nil)
	is.True(err != nil)
	_, err = sc.standardModeSwitch("place 15 0", nil)
	is.True(err != nil)
}

func TestPlaceInPvEGetsAReply(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new pve easy")
	resp := run(t, sc, "place 7 7")
	is.Equal(sc.game.Turn(), 2)
	is.Equal(sc.game.PlayerOnTurn(), board.Black)
	is.True(strings.Contains(resp.message, "white played"))

	run(t, sc, "undo")
	is.Equal(sc.game.Turn(), 0)
	is.Equal(sc.game.PlayerOnTurn(), board.Black)
}

func TestWinIsReported(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new pvp")
	for i := 0; i < 4; i++ {
		run(t, sc, "place 7 "+string(rune('3'+i)))
		run(t, sc, "place 9 "+string(rune('3'+i)))
	}
	resp := run(t, sc, "place 7 7")
	is.Equal(sc.game.Status(), game.BlackWin)
	is.True(strings.Contains(resp.message, "black wins"))

	_, err := sc.standardModeSwitch("place 0 0", nil)
	is.Equal(err, game.ErrGameOver)
	_, err = sc.standardModeSwitch("best", nil)
	is.Equal(err, game.ErrGameOver)
}

func TestAIAndBest(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new pvp easy")
	resp := run(t, sc, "best")
	is.True(strings.Contains(resp.message, "(7, 7)"))
	is.Equal(sc.game.Turn(), 0)

	run(t, sc, "ai")
	is.Equal(sc.game.Turn(), 1)
	last, ok := sc.game.LastMove()
	is.True(ok)
	is.Equal(last.Position, board.Position{X: 7, Y: 7})

	run(t, sc, "ai")
	is.Equal(sc.game.Turn(), 2)

	resp = run(t, sc, "best")
	is.True(strings.Contains(resp.message, "PV; val "))
	is.True(strings.Contains(resp.message, "1: black"))
}

func TestEvalViewpoint(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new pvp")
	run(t, sc, "place 7 7")
	run(t, sc, "place 0 0")
	run(t, sc, "place 7 8")
	black := run(t, sc, "eval black")
	white := run(t, sc, "eval white")
	is.True(strings.HasPrefix(black.message, "evaluation for black: "))
	is.True(strings.HasPrefix(white.message, "evaluation for white: -"))
	_, err := sc.standardModeSwitch("eval purple", nil)
	is.True(err != nil)
}

func TestDifficultyAndMode(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new")
	run(t, sc, "difficulty hard")
	is.Equal(sc.game.Difficulty().String(), "hard")
	is.Equal(run(t, sc, "difficulty").message, "difficulty: hard")
	run(t, sc, "mode pvp")
	is.Equal(sc.game.Mode(), game.PvP)
	_, err := sc.standardModeSwitch("difficulty impossible", nil)
	is.True(err != nil)
}

func TestSaveListLoadDelete(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	run(t, sc, "new pvp")
	run(t, sc, "place 7 7")
	run(t, sc, "place 6 6")
	hash := run(t, sc, "hash").message

	resp := run(t, sc, "save opening study")
	is.True(strings.Contains(resp.message, `"opening study"`))
	listing := run(t, sc, "list").message
	is.True(strings.Contains(listing, "opening study"))

	run(t, sc, "new")
	run(t, sc, "load 1")
	is.Equal(sc.game.Turn(), 2)
	is.Equal(sc.game.Mode(), game.PvP)
	is.Equal(run(t, sc, "hash").message, hash)

	run(t, sc, "delete 1")
	is.Equal(run(t, sc, "list").message, "no saved games")
	_, err := sc.standardModeSwitch("load 1", nil)
	is.True(err != nil)
}

func TestExportImport(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	path := filepath.Join(t.TempDir(), "game.yaml")
	run(t, sc, "new pvp medium")
	run(t, sc, "place 7 7")
	run(t, sc, "place 8 8")
	run(t, sc, "export "+path)

	run(t, sc, "new")
	run(t, sc, "import "+path)
	is.Equal(sc.game.Turn(), 2)
	is.Equal(sc.game.Difficulty().String(), "medium")
	is.Equal(sc.game.Board().At(8, 8), board.WhiteStone)
}

func TestAutoplayRuns(t *testing.T) {
	is := is.New(t)
	sc, out, errout := testController(t)
	run(t, sc, "autoplay 2 1 -save true")
	sc.autoplayMu.Lock()
	done := sc.autoplayDone
	sc.autoplayMu.Unlock()
	<-done

	is.Equal(errout.String(), "")
	is.True(strings.Contains(out.String(), "Games played: 2"))
	listing := run(t, sc, "list").message
	is.Equal(len(strings.Split(listing, "\n")), 3)

	_, err := sc.standardModeSwitch("autoplay stop", nil)
	is.True(err != nil)
}

func TestAutoplayRefusesSecondRun(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	sc.autoplayDone = make(chan struct{})
	_, err := sc.standardModeSwitch("autoplay 2", nil)
	is.Equal(err, errAutoplayRunning)
	close(sc.autoplayDone)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _, _ := testController(t)
	is.True(strings.Contains(run(t, sc, "help").message, "autoplay"))
	is.True(strings.HasPrefix(run(t, sc, "help undo").message, "undo"))
	is.True(strings.HasPrefix(run(t, sc, "help nope").message, "There is no help text"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(nil)
	matches, n := c.Do([]rune("und"), 3)
	is.Equal(n, 3)
	is.Equal(matches, [][]rune{[]rune("o")})

	matches, _ = c.Do([]rune("autoplay 10 -black h"), 20)
	is.Equal(matches, [][]rune{[]rune("ard")})

	matches, _ = c.Do([]rune("new p"), 5)
	is.Equal(len(matches), 2)
}
