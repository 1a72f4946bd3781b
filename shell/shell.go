package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/config"
	"github.com/AustinXT/gomoku-game/game"
	"github.com/AustinXT/gomoku-game/storage"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first")
	errAutoplayRunning   = errors.New("an autoplay run is in progress; use `autoplay stop` first")
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer
	errout io.Writer

	execPath   string
	gitVersion string

	game  *game.Game
	store *storage.Store

	autoplayMu     sync.Mutex
	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writePrompt(g *game.Game) string {
	if g == nil || g.Status() != game.InProgress {
		return "\033[31mgomoku>\033[0m "
	}
	return fmt.Sprintf("\033[31mgomoku (%s)>\033[0m ", g.PlayerOnTurn())
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	completer := &ShellCompleter{}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          writePrompt(nil),
		HistoryFile:     "/tmp/gomoku-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg, l.Stdout(), l.Stderr())
	sc.l = l
	sc.execPath = execPath
	sc.gitVersion = gitVersion
	completer.sc = sc
	return sc
}

func newController(cfg *config.Config, out, errout io.Writer) *ShellController {
	return &ShellController{config: cfg, out: out, errout: errout}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	io.WriteString(sc.errout, "Error: "+err.Error()+"\n")
}

func (sc *ShellController) configDifficulty() ai.Difficulty {
	d, err := ai.ParseDifficulty(sc.config.GetString(config.ConfigDifficulty))
	if err != nil {
		log.Warn().Err(err).Msg("bad-configured-difficulty")
		return ai.Medium
	}
	return d
}

// openStore opens the database named by db-path the first time a command
// needs it.
func (sc *ShellController) openStore() (*storage.Store, error) {
	if sc.store != nil {
		return sc.store, nil
	}
	var err error
	path := sc.config.GetString(config.ConfigDBPath)
	if path == ":memory:" {
		sc.store, err = storage.OpenInMemory()
	} else {
		sc.store, err = storage.Open(path)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("opened-game-store")
	return sc.store, nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	lastWasOption := false
	lastOption := ""
	for _, f := range fields[1:] {
		if len(f) > 1 && strings.HasPrefix(f, "-") && !isNumber(f) {
			if lastWasOption {
				return nil, errWrongOptionSyntax
			}
			lastWasOption = true
			lastOption = f[1:]
			continue
		}
		if lastWasOption {
			lastWasOption = false
			options[lastOption] = append(options[lastOption], f)
		} else {
			args = append(args, f)
		}
	}
	if lastWasOption {
		// all options take a value; a naked one is an error.
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		select {
		case sig <- syscall.SIGINT:
		default:
		}
		return nil, nil
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "place", "p":
		return sc.place(cmd)
	case "ai":
		return sc.aiMove(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "eval":
		return sc.eval(cmd)
	case "best":
		return sc.best(cmd)
	case "difficulty":
		return sc.difficulty(cmd)
	case "mode":
		return sc.mode(cmd)
	case "hash":
		return sc.hash(cmd)
	case "save":
		return sc.save(cmd)
	case "list":
		return sc.list(cmd)
	case "load":
		return sc.load(cmd)
	case "delete":
		return sc.deleteGame(cmd)
	case "export":
		return sc.export(cmd)
	case "import":
		return sc.importGame(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyzeGames(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
	}
}

// Execute runs one command line, as passed on the binary's command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		sc.l.SetPrompt(writePrompt(sc.game))
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops a running autoplay and closes the store.
func (sc *ShellController) Cleanup() {
	sc.stopAutoplay()
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-store")
		}
		sc.store = nil
	}
}
