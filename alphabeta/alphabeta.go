// Package alphabeta implements a depth-limited minimax search with
// alpha-beta pruning over the candidate squares from movegen.
package alphabeta

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/board"
	"github.com/AustinXT/gomoku-game/equity"
	"github.com/AustinXT/gomoku-game/movegen"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
**/

const (
	Infinity = math.MaxInt
)

// Solver runs the search. Every node, root included, uses the same
// candidate limit. A Solver is not safe for concurrent use.
type Solver struct {
	calculator     equity.Calculator
	candidateLimit int
	disablePruning bool

	totalNodes int
	// scratch[d] holds the child position for a node with d plies left,
	// so a branch never writes to its parent's board. pvs[d] is that
	// node's principal variation.
	scratch []board.Board
	pvs     []PVLine
	pv      PVLine
}

// NewSolver returns a solver using calc for leaf evaluation. A nil calc
// means the pattern evaluator; a limit of zero or less means
// movegen.DefaultLimit.
func NewSolver(calc equity.Calculator, candidateLimit int) *Solver {
	s := &Solver{}
	s.Init(calc, candidateLimit)
	return s
}

// Init initializes the solver.
func (s *Solver) Init(calc equity.Calculator, candidateLimit int) {
	if calc == nil {
		calc = equity.NewPatternCalculator()
	}
	if candidateLimit <= 0 {
		candidateLimit = movegen.DefaultLimit
	}
	s.calculator = calc
	s.candidateLimit = candidateLimit
	s.totalNodes = 0
}

// SetPruningDisabled turns the search into plain minimax. Results are
// identical; only the node count changes.
func (s *Solver) SetPruningDisabled(d bool) {
	s.disablePruning = d
}

func (s *Solver) CandidateLimit() int {
	return s.candidateLimit
}

// Nodes returns the number of positions visited by the last search.
func (s *Solver) Nodes() int {
	return s.totalNodes
}

// PrincipalVariation returns the expected line of play found by the last
// search. Its first move is the returned best move.
func (s *Solver) PrincipalVariation() PVLine {
	return s.pv.Copy()
}

func (s *Solver) grow(depth int) {
	if len(s.scratch) <= depth {
		s.scratch = append(s.scratch, make([]board.Board, depth+1-len(s.scratch))...)
	}
	if len(s.pvs) <= depth {
		s.pvs = append(s.pvs, make([]PVLine, depth+1-len(s.pvs))...)
	}
}

// Search looks depth plies ahead with player to move and maximizing,
// starting from full bounds. best is nil when no candidate exists (or the
// board is full, or depth is zero). b is not modified.
func (s *Solver) Search(b *board.Board, depth int, player board.Player) (score int, best *board.Position) {
	tstart := time.Now()
	s.totalNodes = 0
	s.grow(max(depth, 0))
	root := &s.pvs[max(depth, 0)]
	root.Clear()
	score, best = s.AlphaBeta(b, depth, -Infinity, Infinity, true, player, root)
	s.pv = root.Copy()
	s.pv.First = player
	s.pv.score = score

	evt := log.Debug().
		Int("depth", depth).
		Str("player", player.String()).
		Int("score", score).
		Int("nodes", s.totalNodes).
		Bool("pruning", !s.disablePruning).
		Dur("elapsed", time.Since(tstart))
	if best != nil {
		evt = evt.Stringer("best", *best).Stringer("pv", s.pv)
	}
	evt.Msg("alphabeta-search")
	return score, best
}

// AlphaBeta evaluates b from player's point of view. When maximizing,
// player's stones are tried on the candidate squares; otherwise the
// opponent's. The returned move is the first candidate reaching the
// returned score. pv receives the line below b; it must not be the
// solver's pvs entry for any shallower depth.
func (s *Solver) AlphaBeta(b *board.Board, depth int, α, β int, maximizing bool,
	player board.Player, pv *PVLine) (int, *board.Position) {

	s.totalNodes++
	pv.Clear()
	if depth <= 0 || b.IsFull() {
		return s.calculator.Evaluate(b, player), nil
	}

	cands := movegen.Generate(b, s.candidateLimit)
	if len(cands) == 0 {
		return 0, nil
	}

	s.grow(depth)
	child := &s.scratch[depth]
	childPV := &s.pvs[depth-1]

	var best *board.Position
	if maximizing {
		maxEval := -Infinity
		for i := range cands {
			pos := cands[i].Pos
			child.CopyFrom(b)
			if err := child.Set(pos.X, pos.Y, player); err != nil {
				log.Debug().Err(err).Msg("skipping-candidate")
				continue
			}
			eval, _ := s.AlphaBeta(child, depth-1, α, β, false, player, childPV)
			if eval > maxEval {
				maxEval = eval
				best = &pos
				pv.Update(pos, childPV, eval)
			}
			α = max(α, eval)
			if β <= α && !s.disablePruning {
				break // β cut-off
			}
		}
		return maxEval, best
	}

	minEval := Infinity
	opponent := player.Opponent()
	for i := range cands {
		pos := cands[i].Pos
		child.CopyFrom(b)
		if err := child.Set(pos.X, pos.Y, opponent); err != nil {
			log.Debug().Err(err).Msg("skipping-candidate")
			continue
		}
		eval, _ := s.AlphaBeta(child, depth-1, α, β, true, player, childPV)
		if eval < minEval {
			minEval = eval
			best = &pos
			pv.Update(pos, childPV, eval)
		}
		β = min(β, eval)
		if β <= α && !s.disablePruning {
			break // α cut-off
		}
	}
	return minEval, best
}
