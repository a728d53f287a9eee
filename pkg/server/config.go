package server

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config carries the server settings. Values load in order: defaults,
// then the optional yaml file, then FUNPOKER_* environment variables.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" envconfig:"ADDR"`
	// DBPath is the sqlite database file.
	DBPath string `yaml:"db_path" envconfig:"DB_PATH" split_words:"true"`
	// LogPath is the rotated log file, empty for stdout only.
	LogPath string `yaml:"log_path" envconfig:"LOG_PATH" split_words:"true"`
	// DebugLevel is the slog level, e.g. "debug" or per-subsystem
	// "SRVR=trace,GAME=debug".
	DebugLevel string `yaml:"debug_level" envconfig:"DEBUG_LEVEL" split_words:"true"`

	// BlindSize is the big blind for lobbies created without one.
	BlindSize int64 `yaml:"blind_size" envconfig:"BLIND_SIZE" split_words:"true"`
	// StartingStack is the chip count every seat starts with.
	StartingStack int64 `yaml:"starting_stack" envconfig:"STARTING_STACK" split_words:"true"`
	// IdleTimeout is how long the acting seat may think before it is
	// folded and sat out.
	IdleTimeout time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" split_words:"true"`

	// WorkerCount sizes the shared worker pool.
	WorkerCount int `yaml:"worker_count" envconfig:"WORKER_COUNT" split_words:"true"`
	// PingInterval is the connection health check period.
	PingInterval time.Duration `yaml:"ping_interval" envconfig:"PING_INTERVAL" split_words:"true"`

	// BotURL is the base URL of the bot move service.
	BotURL string `yaml:"bot_url" envconfig:"BOT_URL" split_words:"true"`
	// BotTimeout bounds one bot move request.
	BotTimeout time.Duration `yaml:"bot_timeout" envconfig:"BOT_TIMEOUT" split_words:"true"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Addr:          ":8080",
		DBPath:        "funpoker.db",
		DebugLevel:    "info",
		BlindSize:     100,
		StartingStack: 10000,
		IdleTimeout:   30 * time.Second,
		WorkerCount:   32,
		PingInterval:  10 * time.Second,
		BotURL:        "http://localhost:5000",
		BotTimeout:    10 * time.Second,
	}
}

// LoadConfig builds the config from defaults, the yaml file at path
// (skipped when path is empty or missing) and the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %v", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %v", path, err)
			}
		}
	}

	if err := envconfig.Process("funpoker", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %v", err)
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker_count must be positive, got %d", cfg.WorkerCount)
	}
	if cfg.StartingStack < cfg.BlindSize*2 {
		return nil, fmt.Errorf("starting_stack %d cannot cover the blinds", cfg.StartingStack)
	}
	return cfg, nil
}
