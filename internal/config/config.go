// Package config resolves chessreport settings from defaults, an optional
// YAML file, a .env file and CHESSREPORT_* environment variables, in that
// order of increasing precedence. Command-line flags are applied on top by
// the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-chess-report/internal/loader"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "chessreport.yaml"

// Config holds every setting.
type Config struct {
	Sources   SourcesConfig   `yaml:"sources"`
	DBPath    string          `yaml:"db"`
	LogLevel  string          `yaml:"log_level"`
	Report    ReportConfig    `yaml:"report"`
	Serve     ServeConfig     `yaml:"serve"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// SourcesConfig locates the input data.
type SourcesConfig struct {
	Games   string        `yaml:"games"`
	Ranking string        `yaml:"ranking"`
	Timeout time.Duration `yaml:"timeout"`
}

// ReportConfig tunes section aggregation.
type ReportConfig struct {
	TopPlayers int    `yaml:"top_players"`
	FirstMove  string `yaml:"first_move"` // heuristic|san
}

// ServeConfig configures the web report.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// AnthropicConfig configures the analyze command.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Sources: SourcesConfig{
			Games:   loader.DefaultGamesURL,
			Ranking: loader.DefaultRankingURL,
			Timeout: loader.DefaultTimeout,
		},
		DBPath:   filepath.Join(userHome(), ".chessreport", "games.db"),
		LogLevel: "info",
		Report: ReportConfig{
			TopPlayers: 10,
			FirstMove:  "heuristic",
		},
		Serve:     ServeConfig{Addr: ":8080"},
		Anthropic: AnthropicConfig{Model: "claude-haiku-4-5-20251001"},
	}
}

// Load builds the configuration. An empty path reads DefaultFile if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	applyEnv(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Sources.Games = envOr("CHESSREPORT_GAMES", cfg.Sources.Games)
	cfg.Sources.Ranking = envOr("CHESSREPORT_RANKING", cfg.Sources.Ranking)
	cfg.Sources.Timeout = envDurationOr("CHESSREPORT_TIMEOUT", cfg.Sources.Timeout)
	cfg.DBPath = envOr("CHESSREPORT_DB", cfg.DBPath)
	cfg.LogLevel = envOr("CHESSREPORT_LOG_LEVEL", cfg.LogLevel)
	cfg.Report.TopPlayers = envIntOr("CHESSREPORT_TOP_PLAYERS", cfg.Report.TopPlayers)
	cfg.Report.FirstMove = envOr("CHESSREPORT_FIRST_MOVE", cfg.Report.FirstMove)
	cfg.Serve.Addr = envOr("CHESSREPORT_ADDR", cfg.Serve.Addr)
	cfg.Anthropic.APIKey = envOr("ANTHROPIC_API_KEY", cfg.Anthropic.APIKey)
	cfg.Anthropic.Model = envOr("CHESSREPORT_MODEL", cfg.Anthropic.Model)
}

// LoaderSources returns the configured inputs for loader.Load.
func (c *Config) LoaderSources() loader.Sources {
	return loader.Sources{Games: c.Sources.Games, Ranking: c.Sources.Ranking}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", def)
	}
	return def
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
