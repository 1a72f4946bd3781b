package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AustinXT/gomoku-game/config"
	"github.com/AustinXT/gomoku-game/shell"
)

var GitVersion string

//go:embed gomoku.txt
var banner string

func consoleLogger(w io.Writer, debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i any) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i any) string {
		return fmt.Sprint(i)
	}
	output.FormatFieldName = func(i any) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// startCPUProfile returns the function that stops it.
func startCPUProfile(path string) func() {
	if path == "" {
		return func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-cpu-profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		log.Fatal().Err(err).Msg("could-not-start-cpu-profile")
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}

func writeHeapProfile(path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Err(err).Msg("could-not-create-memory-profile")
		return
	}
	defer f.Close()
	memstats := &runtime.MemStats{}
	runtime.ReadMemStats(memstats)
	log.Info().Uint64("heap-alloc", memstats.HeapAlloc).Uint32("num-gc", memstats.NumGC).Msg("memory-stats")
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Err(err).Msg("could-not-write-memory-profile")
		return
	}
	log.Info().Str("path", path).Msg("wrote-memory-profile")
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	fmt.Println(banner)
	fmt.Println(GitVersion)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	cfg.AdjustRelativePaths(exPath)

	logger := consoleLogger(os.Stderr, cfg.GetBool(config.ConfigDebug))
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Debug().Msg("debug-logging-on")
	log.Info().Str("executable-path", exPath).Str("config", cfg.SanitizedSettings()).Msg("loaded-config")

	stopProfile := startCPUProfile(cfg.GetString(config.ConfigCPUProfile))

	quit := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		close(quit)
	}()

	sc := shell.NewShellController(cfg, exPath, GitVersion)
	// Leftover positional arguments are run as a single command.
	if line := strings.TrimSpace(strings.Join(cfg.Args(), " ")); line != "" {
		sc.Execute(sig, line)
		select {
		case sig <- syscall.SIGINT:
		default:
		}
	} else {
		go sc.Loop(sig)
	}

	<-quit
	stopProfile()
	writeHeapProfile(cfg.GetString(config.ConfigMemProfile))
	sc.Cleanup()
	log.Info().Msg("shutting-down")
}
