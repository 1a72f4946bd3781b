package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug           = "debug"
	ConfigDifficulty      = "difficulty"
	ConfigCandidateLimit  = "candidate-limit"
	ConfigDBPath          = "db-path"
	ConfigNatsURL         = "nats-url"
	ConfigBotChannel      = "bot-channel"
	ConfigAutoplayThreads = "autoplay-threads"
	ConfigCPUProfile      = "cpu-profile"
	ConfigMemProfile      = "mem-profile"
)

type Config struct {
	sync.Mutex
	*viper.Viper

	args []string
}

func defaults() map[string]any {
	return map[string]any{
		ConfigDebug:           false,
		ConfigDifficulty:      "medium",
		ConfigCandidateLimit:  0,
		ConfigDBPath:          "./data/gomoku.db",
		ConfigNatsURL:         "nats://localhost:4222",
		ConfigBotChannel:      "gomoku.bot",
		ConfigAutoplayThreads: 4,
		ConfigCPUProfile:      "",
		ConfigMemProfile:      "",
	}
}

// DefaultConfig returns a config with every key at its default and no
// flags or environment applied.
func DefaultConfig() *Config {
	c := &Config{}
	c.Viper = viper.New()
	for k, v := range defaults() {
		c.SetDefault(k, v)
	}
	return c
}

// Load applies command-line flags over GOMOKU_* environment variables
// over the defaults. Unknown flags are an error; positional arguments are
// left for the caller.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := pflag.NewFlagSet("gomoku", pflag.ContinueOnError)
	d := defaults()

	fs.Bool(ConfigDebug, d[ConfigDebug].(bool), "debug logging on")
	fs.String(ConfigDifficulty, d[ConfigDifficulty].(string), "engine difficulty: easy, medium or hard")
	fs.Int(ConfigCandidateLimit, d[ConfigCandidateLimit].(int), "candidate squares kept at each search node at every difficulty (0 uses the default of 20)")
	fs.String(ConfigDBPath, d[ConfigDBPath].(string), "path of the saved-games database")
	fs.String(ConfigNatsURL, d[ConfigNatsURL].(string), "NATS server for the bot service")
	fs.String(ConfigBotChannel, d[ConfigBotChannel].(string), "NATS subject the bot answers on")
	fs.Int(ConfigAutoplayThreads, d[ConfigAutoplayThreads].(int), "worker goroutines for self-play")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	c.SetEnvPrefix("gomoku")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	return nil
}

// Args returns the positional arguments left over by Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes relative data paths relative to basepath
// (usually the executable's directory).
func (c *Config) AdjustRelativePaths(basepath string) {
	p := c.GetString(ConfigDBPath)
	if p != "" && !filepath.IsAbs(p) && p != ":memory:" {
		c.Set(ConfigDBPath, filepath.Join(basepath, p))
	}
}

// SanitizedSettings is AllSettings rendered for logs, with credentials
// stripped from the NATS URL.
func (c *Config) SanitizedSettings() string {
	settings := c.AllSettings()
	if u, ok := settings[ConfigNatsURL].(string); ok {
		if at := strings.LastIndex(u, "@"); at >= 0 {
			scheme := ""
			if i := strings.Index(u, "://"); i >= 0 && i < at {
				scheme = u[:i+3]
			}
			settings[ConfigNatsURL] = scheme + "****" + u[at:]
		}
	}
	return fmt.Sprintf("%v", settings)
}
