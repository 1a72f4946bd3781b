// autoplay plays engine-vs-engine games headlessly and prints a summary.
//
//	autoplay --autoplay-threads 8 -- -games 200 -black hard -white medium
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/AustinXT/gomoku-game/ai"
	"github.com/AustinXT/gomoku-game/automatic"
	"github.com/AustinXT/gomoku-game/config"
	"github.com/AustinXT/gomoku-game/storage"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	fs := pflag.NewFlagSet("autoplay", pflag.ExitOnError)
	games := fs.Int("games", 100, "number of games")
	black := fs.String("black", cfg.GetString(config.ConfigDifficulty), "difficulty for Black")
	white := fs.String("white", cfg.GetString(config.ConfigDifficulty), "difficulty for White")
	plies := fs.Int("opening-plies", automatic.DefaultOpeningPlies, "random opening plies after the centre stone (-1 for none)")
	choices := fs.Int("opening-choices", automatic.DefaultOpeningChoices, "candidates the random opening picks from")
	moveLog := fs.String("file", "", "write one CSV line per move")
	gamesFile := fs.String("gamesfile", "", "write one CSV line per game")
	seedFile := fs.String("seeds", "", "seed file; created when missing, replayed when present")
	save := fs.Bool("save", false, "store every game in the database at db-path")
	bins := fs.Int("bins", 10, "histogram bins")
	fs.Parse(cfg.Args())

	opts := automatic.Options{
		NumGames:       *games,
		OpeningPlies:   *plies,
		OpeningChoices: *choices,
		OutputFile:     *moveLog,
		GamesFile:      *gamesFile,
	}
	if opts.Black, err = ai.ParseDifficulty(*black); err != nil {
		log.Fatal().Err(err).Msg("bad-black-difficulty")
	}
	if opts.White, err = ai.ParseDifficulty(*white); err != nil {
		log.Fatal().Err(err).Msg("bad-white-difficulty")
	}
	if *seedFile != "" {
		if opts.Seeds, err = seeds(*seedFile, *games); err != nil {
			log.Fatal().Err(err).Msg("seed-file")
		}
	}
	if *save {
		st, err := storage.Open(cfg.GetString(config.ConfigDBPath))
		if err != nil {
			log.Fatal().Err(err).Msg("open-store")
		}
		defer st.Close()
		opts.Store = st
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := automatic.StartCompVComp(ctx, cfg, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("autoplay-failed")
	}
	if summary == nil {
		return
	}
	fmt.Println(summary)
	if err := summary.Histogram(os.Stdout, *bins); err != nil {
		log.Err(err).Msg("histogram")
	}
}

func seeds(path string, n int) ([][32]byte, error) {
	s, err := automatic.LoadSeeds(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	s = automatic.GenerateSeeds(n)
	log.Info().Str("path", path).Int("seeds", n).Msg("writing-new-seeds")
	return s, automatic.SaveSeeds(s, path)
}
