package shell

import (
	"context"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/AustinXT/gomoku-game/storage"
)

// ShellCompleter completes command names, arguments and options.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var difficulties = []string{"easy", "medium", "hard"}

var commandMetadata = map[string]CommandMetadata{
	"new":        {Args: append([]string{"pvp", "pve"}, difficulties...)},
	"difficulty": {Args: difficulties},
	"mode":       {Args: []string{"pvp", "pve"}},
	"eval":       {Args: []string{"black", "white"}},
	"autoplay": {
		Options: []string{"-games", "-threads", "-black", "-white", "-file", "-gamesfile", "-save"},
		Args:    []string{"stop"},
	},
	"help": {Args: []string{"new", "place", "undo", "eval", "autoplay", "save", "export"}},
}

var commandNames = []string{
	"new", "place", "ai", "undo", "show", "eval", "best", "difficulty", "mode",
	"hash", "save", "list", "load", "delete", "export", "import", "autoplay",
	"analyze", "help", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote; fall back to plain splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "black", "white":
				completions = difficulties
			case "save":
				completions = boolValues
			}
		}

		if completions == nil && (cmdName == "load" || cmdName == "delete") {
			completions = c.savedGameIDs()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

// savedGameIDs only consults a store that is already open; completion
// never creates the database.
func (c *ShellCompleter) savedGameIDs() []string {
	if c.sc == nil || c.sc.store == nil {
		return nil
	}
	games, err := c.sc.store.ListGames(context.Background())
	if err != nil {
		return nil
	}
	return lo.Map(games, func(g *storage.SavedGame, _ int) string {
		return strconv.FormatInt(g.ID, 10)
	})
}
