package game

import (
	"fmt"
	"strings"

	"github.com/AustinXT/gomoku-game/board"
)

// Status is where a game stands.
type Status uint8

const (
	Idle Status = iota
	InProgress
	BlackWin
	WhiteWin
	Draw
)

var statusNames = [...]string{
	Idle:       "idle",
	InProgress: "in_progress",
	BlackWin:   "black_win",
	WhiteWin:   "white_win",
	Draw:       "draw",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func ParseStatus(s string) (Status, error) {
	for i, n := range statusNames {
		if n == s {
			return Status(i), nil
		}
	}
	return Idle, fmt.Errorf("unknown game status %q", s)
}

// Over reports a decided game.
func (s Status) Over() bool {
	return s == BlackWin || s == WhiteWin || s == Draw
}

// Winner returns the winning side, if any.
func (s Status) Winner() (board.Player, bool) {
	switch s {
	case BlackWin:
		return board.Black, true
	case WhiteWin:
		return board.White, true
	}
	return board.Black, false
}

func winStatus(p board.Player) Status {
	if p == board.Black {
		return BlackWin
	}
	return WhiteWin
}

// Mode says who controls the second side.
type Mode uint8

const (
	PvP Mode = iota
	PvE
)

func (m Mode) String() string {
	if m == PvE {
		return "pve"
	}
	return "pvp"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "pvp":
		return PvP, nil
	case "pve":
		return PvE, nil
	}
	return PvP, fmt.Errorf("unknown game mode %q", s)
}

// Move is one entry of the game history.
type Move struct {
	Position board.Position `json:"position" yaml:"position"`
	Player   board.Player   `json:"player" yaml:"player"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %s", m.Player, m.Position)
}

// MoveResult is what PlaceStone reports back.
type MoveResult struct {
	Move        Move
	Status      Status
	WinningLine []board.Position
}
