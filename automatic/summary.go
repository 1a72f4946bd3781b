package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/game"
	"github.com/AustinXT/gomoku-game/stats"
)

const confidence = 95

// Summary aggregates a batch of self-play games.
type Summary struct {
	Games     int
	BlackWins int
	WhiteWins int
	Draws     int

	MeanMoves  float64
	StdevMoves float64
	MinMoves   int
	MaxMoves   int
	Lengths    []float64

	// Per searched move, merged over all workers.
	Nodes       stats.Statistic
	ThinkMicros stats.Statistic
}

// Summarize computes the game-level figures of a Summary.
func Summarize(results []GameResult) *Summary {
	s := &Summary{Games: len(results)}
	byStatus := lo.CountValuesBy(results, func(r GameResult) game.Status { return r.Status })
	s.BlackWins = byStatus[game.BlackWin]
	s.WhiteWins = byStatus[game.WhiteWin]
	s.Draws = byStatus[game.Draw]

	if len(results) == 0 {
		return s
	}
	moves := lo.Map(results, func(r GameResult, _ int) int { return r.Moves })
	s.MinMoves = lo.Min(moves)
	s.MaxMoves = lo.Max(moves)
	s.Lengths = lo.Map(moves, func(m int, _ int) float64 { return float64(m) })
	s.MeanMoves, s.StdevMoves = stat.MeanStdDev(s.Lengths, nil)
	if len(s.Lengths) == 1 {
		s.StdevMoves = 0
	}
	return s
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games)
	if s.Games == 0 {
		return sb.String()
	}
	rate, margin := stats.WinRate(s.BlackWins, s.Draws, s.Games, confidence)
	fmt.Fprintf(&sb, "Black wins: %d  White wins: %d  Draws: %d\n", s.BlackWins, s.WhiteWins, s.Draws)
	fmt.Fprintf(&sb, "Black score: %.3f ± %.3f (%d%% confidence)\n", rate, margin, confidence)
	fmt.Fprintf(&sb, "Game length: mean %.2f  stdev %.2f  min %d  max %d\n",
		s.MeanMoves, s.StdevMoves, s.MinMoves, s.MaxMoves)
	if s.Nodes.Iterations() > 0 {
		fmt.Fprintf(&sb, "Nodes per move: mean %.1f  max %.0f\n", s.Nodes.Mean(), s.Nodes.Max())
		fmt.Fprintf(&sb, "Time per move: mean %v  max %v\n",
			time.Duration(s.ThinkMicros.Mean())*time.Microsecond,
			time.Duration(s.ThinkMicros.Max())*time.Microsecond)
	}
	return sb.String()
}

// Histogram prints the distribution of game lengths.
func (s *Summary) Histogram(w io.Writer, bins int) error {
	if len(s.Lengths) == 0 {
		return nil
	}
	h := histogram.Hist(bins, s.Lengths)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

var gamesHeader = []string{"gameID", "black", "white", "result", "moves", "hash", "millis"}

// WriteGamesFile writes one CSV record per game.
func WriteGamesFile(path string, results []GameResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(gamesHeader); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			strconv.Itoa(r.GameID),
			r.Black.String(),
			r.White.String(),
			r.Status.String(),
			strconv.Itoa(r.Moves),
			strconv.FormatUint(r.Hash, 16),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// AnalyzeLogFile reads a games file written by WriteGamesFile and
// summarizes it.
func AnalyzeLogFile(path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return analyze(file)
}

func analyze(rd io.Reader) (*Summary, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = len(gamesHeader)
	var results []GameResult
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == gamesHeader[0] {
			continue
		}
		res, err := parseGameRecord(record)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, res)
	}
	return Summarize(results), nil
}

func parseGameRecord(record []string) (GameResult, error) {
	var res GameResult
	var err error
	if res.GameID, err = strconv.Atoi(record[0]); err != nil {
		return res, err
	}
	if res.Black, err = ai.ParseDifficulty(record[1]); err != nil {
		return res, err
	}
	if res.White, err = ai.ParseDifficulty(record[2]); err != nil {
		return res, err
	}
	if res.Status, err = game.ParseStatus(record[3]); err != nil {
		return res, err
	}
	if res.Moves, err = strconv.Atoi(record[4]); err != nil {
		return res, err
	}
	if res.Hash, err = strconv.ParseUint(record[5], 16, 64); err != nil {
		return res, err
	}
	ms, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return res, err
	}
	res.Duration = time.Duration(ms) * time.Millisecond
	return res, nil
}
