package automatic

// Data collection for automatic games: computer vs computer at chosen
// difficulties.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/config"
	"github.com/AustinXT/gomoku-game/storage"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const (
	DefaultOpeningPlies   = 2
	DefaultOpeningChoices = 5
)

type Options struct {
	NumGames int
	Threads  int
	Black    ai.Difficulty
	White    ai.Difficulty
	// CandidateLimit, when positive, replaces the per-node candidate cap of
	// both engines.
	CandidateLimit int
	// OpeningPlies after the centre stone are chosen at random among the
	// OpeningChoices best candidates.
	OpeningPlies   int
	OpeningChoices int
	// Seeds, if given, must hold one seed per game.
	Seeds [][32]byte
	// OutputFile receives one CSV line per move.
	OutputFile string
	// GamesFile receives one CSV line per finished game; AnalyzeLogFile
	// reads it back.
	GamesFile string
	// Store, if set, gets every finished game.
	Store *storage.Store
}

// SetDefaults fills unset fields from cfg.
func (o *Options) SetDefaults(cfg *config.Config) {
	if o.Threads <= 0 {
		o.Threads = max(1, cfg.GetInt(config.ConfigAutoplayThreads))
	}
	if o.CandidateLimit <= 0 {
		o.CandidateLimit = cfg.GetInt(config.ConfigCandidateLimit)
	}
	if o.OpeningPlies < 0 {
		o.OpeningPlies = 0
	} else if o.OpeningPlies == 0 {
		o.OpeningPlies = DefaultOpeningPlies
	}
	if o.OpeningChoices <= 0 {
		o.OpeningChoices = DefaultOpeningChoices
	}
}

// StartCompVComp plays opts.NumGames games on opts.Threads workers and
// blocks until they finish or ctx is done. When cancelled it returns the
// summary of the games that did finish together with ctx's error.
func StartCompVComp(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	opts.SetDefaults(cfg)
	if len(opts.Seeds) > 0 && len(opts.Seeds) < opts.NumGames {
		return nil, fmt.Errorf("need %d seeds, got %d", opts.NumGames, len(opts.Seeds))
	}
	log.Info().Int("games", opts.NumGames).Int("threads", opts.Threads).
		Str("black", opts.Black.String()).Str("white", opts.White.String()).
		Msg("starting-autoplay")

	var logChan chan string
	var loggerDone chan struct{}
	if opts.OutputFile != "" {
		logfile, err := os.Create(opts.OutputFile)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		loggerDone = make(chan struct{})
		go func() {
			defer close(loggerDone)
			defer logfile.Close()
			logfile.WriteString("gameID,turn,player,difficulty,x,y,opening\n")
			for msg := range logChan {
				logfile.WriteString(msg)
			}
		}()
	}

	CVCCounter.Set(0)
	runners := make(chan *GameRunner, opts.Threads)
	all := make([]*GameRunner, opts.Threads)
	for i := range all {
		all[i] = NewGameRunner(logChan, opts)
		runners <- all[i]
	}

	var mu sync.Mutex
	var results []GameResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)
	for i := 0; i < opts.NumGames; i++ {
		i := i
		if gctx.Err() != nil {
			break
		}
		var seed *[32]byte
		if len(opts.Seeds) > 0 {
			seed = &opts.Seeds[i]
		}
		g.Go(func() error {
			r := <-runners
			defer func() { runners <- r }()
			res, err := r.PlayGame(gctx, i+1, seed)
			if err != nil {
				return err
			}
			if opts.Store != nil {
				name := fmt.Sprintf("autoplay-%d-%s-vs-%s", i+1, opts.Black, opts.White)
				if _, err := opts.Store.SaveFinished(gctx, r.Game(), name); err != nil {
					return err
				}
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			CVCCounter.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if logChan != nil {
		close(logChan)
		<-loggerDone
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	slices.SortFunc(results, func(a, b GameResult) int { return a.GameID - b.GameID })
	summary := Summarize(results)
	for _, r := range all {
		summary.Nodes.Merge(&r.nodes)
		summary.ThinkMicros.Merge(&r.thinking)
	}
	if opts.GamesFile != "" {
		if werr := WriteGamesFile(opts.GamesFile, results); werr != nil {
			return summary, werr
		}
	}
	log.Info().Int("finished", summary.Games).Msg("autoplay-done")
	return summary, err
}
