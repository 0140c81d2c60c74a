package config

import (
	"fmt"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"go.uber.org/zap"
)

// Config is the runtime configuration shared by the gloom binaries. Flags
// parsed by each binary override these values.
type Config struct {
	Port       string `env:"GLOOM_PORT" envDefault:"7777"`
	HTTPPort   string `env:"GLOOM_HTTP_PORT" envDefault:"8080"`
	Loadouts   string `env:"GLOOM_LOADOUTS"` // empty = built-in loadouts
	Difficulty string `env:"GLOOM_DIFFICULTY" envDefault:"normal"`
	Seed       uint64 `env:"GLOOM_SEED" envDefault:"0"` // 0 = seeds from the loadout file
	LogLevel   string `env:"GLOOM_LOG_LEVEL" envDefault:"info"`
	MaxRounds  int    `env:"GLOOM_MAX_ROUNDS" envDefault:"50"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParsedDifficulty returns the configured difficulty tier. Unknown tiers
// are kept (event tuning falls back to defaults for them) and reported
// with ok == false.
func (c Config) ParsedDifficulty() (combat.Difficulty, bool) {
	return combat.ParseDifficulty(c.Difficulty)
}

// LoadoutFile returns the configured loadout file, or the built-in one.
func (c Config) LoadoutFile() (*combat.LoadoutFile, error) {
	if c.Loadouts == "" {
		return combat.DefaultLoadoutFile(), nil
	}
	lf, err := combat.ParseLoadoutFile(c.Loadouts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.Loadouts, err)
	}
	return lf, nil
}

// NewLogger builds the diagnostics logger at the configured level. It
// writes human-readable lines to stderr so stdout stays free for the
// combat log.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	zc.Development = false
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
