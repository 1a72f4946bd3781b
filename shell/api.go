package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/automatic"
	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/game"
	"github.com/AustinXT/gomoku-game/gameio"
	"github.com/AustinXT/gomoku-game/storage"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) requireGame() error {
	if sc.game == nil {
		return errNoGame
	}
	return nil
}

func coords(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, errors.New("need two coordinates: x y")
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad x coordinate %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad y coordinate %q", args[1])
	}
	return x, y, nil
}

func describeResult(res game.MoveResult) string {
	s := fmt.Sprintf("%s played %s", res.Move.Player, res.Move.Position)
	switch res.Status {
	case game.BlackWin, game.WhiteWin:
		cells := lo.Map(res.WinningLine, func(p board.Position, _ int) string { return p.String() })
		s += fmt.Sprintf("\n%s wins: %s", res.Move.Player, strings.Join(cells, " "))
	case game.Draw:
		s += "\nthe board is full: draw"
	}
	return s
}

// new [pvp|pve] [difficulty]
func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	mode := game.PvE
	difficulty := sc.configDifficulty()
	for _, a := range cmd.args {
		if m, err := game.ParseMode(a); err == nil {
			mode = m
			continue
		}
		d, err := ai.ParseDifficulty(a)
		if err != nil {
			return nil, fmt.Errorf("%q is neither a mode nor a difficulty", a)
		}
		difficulty = d
	}
	sc.game = game.NewGame(mode, difficulty)
	log.Debug().Str("mode", mode.String()).Str("difficulty", difficulty.String()).Msg("new-game")
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) place(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	x, y, err := coords(cmd.args)
	if err != nil {
		return nil, err
	}
	res, err := sc.game.PlaceStone(x, y)
	if err != nil {
		return nil, err
	}
	out := []string{describeResult(res)}
	// In PvE the engine answers every human move.
	if sc.game.Mode() == game.PvE && !res.Status.Over() {
		reply, err := sc.game.AIMove()
		if err != nil {
			return nil, err
		}
		out = append(out, describeResult(reply))
	}
	out = append(out, sc.game.ToDisplayText())
	return msg(strings.Join(out, "\n")), nil
}

func (sc *ShellController) aiMove(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	tstart := time.Now()
	res, err := sc.game.AIMove()
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s (%s, %d nodes)\n%s", describeResult(res),
		time.Since(tstart).Round(time.Millisecond), sc.game.Engine().Solver().Nodes(),
		sc.game.ToDisplayText())), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if err := sc.game.Undo(); err != nil {
		return nil, err
	}
	// Take back the engine's reply too, so the human is on turn again.
	if sc.game.Mode() == game.PvE && sc.game.PlayerOnTurn() == board.White && sc.game.Turn() > 0 {
		if err := sc.game.Undo(); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

// eval [black|white] scores the position statically; the default
// viewpoint is the side on turn.
func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	p := sc.game.PlayerOnTurn()
	if len(cmd.args) > 0 {
		var err error
		p, err = board.ParsePlayer(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	score := sc.game.Engine().Evaluate(sc.game.Board(), p)
	return msg(fmt.Sprintf("evaluation for %s: %d", p, score)), nil
}

// best shows the engine's choice without playing it.
func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if sc.game.Status() != game.InProgress {
		return nil, game.ErrGameOver
	}
	p := sc.game.PlayerOnTurn()
	if sc.game.Board().CountPieces() == 0 {
		return msg(fmt.Sprintf("best for %s: %s (opening)", p,
			board.Position{X: board.Center, Y: board.Center})), nil
	}
	e := sc.game.Engine()
	pos, err := e.BestMove(sc.game.Board(), p)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("best for %s: %s (depth %d, %d nodes)\n%s", p, pos,
		e.Difficulty().SearchDepth(), e.Solver().Nodes(), e.Solver().PrincipalVariation())), nil
}

func (sc *ShellController) difficulty(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return msg("difficulty: " + sc.game.Difficulty().String()), nil
	}
	d, err := ai.ParseDifficulty(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.game.SetDifficulty(d)
	return msg("set difficulty to " + d.String()), nil
}

func (sc *ShellController) mode(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return msg("mode: " + sc.game.Mode().String()), nil
	}
	m, err := game.ParseMode(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.game.SetMode(m)
	return msg("set mode to " + m.String()), nil
}

func (sc *ShellController) hash(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%016x", sc.game.Hash())), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	name := strings.Join(cmd.args, " ")
	if name == "" {
		name = fmt.Sprintf("game-%s", time.Now().Format("20060102-150405"))
	}
	st, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	id, err := st.SaveFinished(context.Background(), sc.game, name)
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("saved %q as game %d", name, id)), nil
}

func (sc *ShellController) list(cmd *shellcmd) (*Response, error) {
	st, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	games, err := st.ListGames(context.Background())
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return msg("no saved games"), nil
	}
	rows := lo.Map(games, func(g *storage.SavedGame, _ int) string {
		return fmt.Sprintf("%5d  %-24s %-4s %-7s %-12s %4d  %s", g.ID, g.Name, g.Mode,
			g.Difficulty, g.Status, g.TotalMoves, g.UpdatedAt.Format(time.DateTime))
	})
	header := fmt.Sprintf("%5s  %-24s %-4s %-7s %-12s %4s  %s", "id", "name", "mode",
		"level", "status", "mvs", "updated")
	return msg(header + "\n" + strings.Join(rows, "\n")), nil
}

func gameID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("please provide a game id")
	}
	return strconv.ParseInt(args[0], 10, 64)
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	id, err := gameID(cmd.args)
	if err != nil {
		return nil, err
	}
	st, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	g, sg, err := st.LoadGame(context.Background(), id)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(fmt.Sprintf("loaded %q\n%s", sg.Name, g.ToDisplayText())), nil
}

func (sc *ShellController) deleteGame(cmd *shellcmd) (*Response, error) {
	id, err := gameID(cmd.args)
	if err != nil {
		return nil, err
	}
	st, err := sc.openStore()
	if err != nil {
		return nil, err
	}
	if err := st.DeleteGame(context.Background(), id); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("deleted game %d", id)), nil
}

func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if cmd.args == nil {
		return nil, errors.New("please provide a filename to save to")
	}
	filename := cmd.args[0]
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gameio.Write(f, sc.game); err != nil {
		return nil, err
	}
	return msg("transcript written to " + filename), nil
}

func (sc *ShellController) importGame(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("please provide a filename to read")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := gameio.Read(f)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(g.ToDisplayText()), nil
}

// autoplay [games] [threads] [-black d] [-white d] [-file f] [-gamesfile f] [-save true]
// autoplay stop
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		if !sc.stopAutoplay() {
			return nil, errors.New("no autoplay is running")
		}
		return msg("autoplay stopped"), nil
	}
	opts, err := sc.autoplayOptions(cmd)
	if err != nil {
		return nil, err
	}

	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	if sc.autoplayRunning() {
		return nil, errAutoplayRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.autoplayCancel = cancel
	sc.autoplayDone = done

	go func() {
		defer close(done)
		defer cancel()
		summary, err := automatic.StartCompVComp(ctx, sc.config, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			sc.showError(err)
		}
		if summary != nil {
			sc.showMessage(summary.String())
		}
	}()
	return msg(fmt.Sprintf("playing %d games (%s vs %s) in the background", opts.NumGames,
		opts.Black, opts.White)), nil
}

func (sc *ShellController) autoplayOptions(cmd *shellcmd) (automatic.Options, error) {
	opts := automatic.Options{NumGames: 10, Black: sc.configDifficulty(), White: sc.configDifficulty()}
	var err error
	if len(cmd.args) > 0 {
		if opts.NumGames, err = strconv.Atoi(cmd.args[0]); err != nil {
			return opts, fmt.Errorf("bad number of games %q", cmd.args[0])
		}
	}
	if len(cmd.args) > 1 {
		if opts.Threads, err = strconv.Atoi(cmd.args[1]); err != nil {
			return opts, fmt.Errorf("bad number of threads %q", cmd.args[1])
		}
	}
	if opts.NumGames, err = cmd.options.IntDefault("games", opts.NumGames); err != nil {
		return opts, err
	}
	if opts.Threads, err = cmd.options.IntDefault("threads", opts.Threads); err != nil {
		return opts, err
	}
	if opts.NumGames <= 0 {
		return opts, errors.New("number of games must be positive")
	}
	if s := cmd.options.String("black"); s != "" {
		if opts.Black, err = ai.ParseDifficulty(s); err != nil {
			return opts, err
		}
	}
	if s := cmd.options.String("white"); s != "" {
		if opts.White, err = ai.ParseDifficulty(s); err != nil {
			return opts, err
		}
	}
	opts.OutputFile = cmd.options.String("file")
	opts.GamesFile = cmd.options.String("gamesfile")
	if cmd.options.Bool("save") {
		if opts.Store, err = sc.openStore(); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// autoplayRunning must be called with autoplayMu held.
func (sc *ShellController) autoplayRunning() bool {
	if sc.autoplayDone == nil {
		return false
	}
	select {
	case <-sc.autoplayDone:
		return false
	default:
		return true
	}
}

// stopAutoplay cancels a running autoplay and waits for it to wind down.
func (sc *ShellController) stopAutoplay() bool {
	sc.autoplayMu.Lock()
	running := sc.autoplayRunning()
	cancel, done := sc.autoplayCancel, sc.autoplayDone
	sc.autoplayMu.Unlock()
	if !running {
		return false
	}
	cancel()
	<-done
	return true
}

// analyze <gamesfile> summarizes a finished autoplay run.
func (sc *ShellController) analyzeGames(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("please provide a games file")
	}
	summary, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(summary.String())
	sb.WriteString("\n")
	if err := summary.Histogram(&sb, 10); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}
