package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Port)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.Loadouts)
	assert.Equal(t, "normal", cfg.Difficulty)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 50, cfg.MaxRounds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GLOOM_PORT", "9000")
	t.Setenv("GLOOM_DIFFICULTY", "hard")
	t.Setenv("GLOOM_SEED", "42")
	t.Setenv("GLOOM_MAX_ROUNDS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 5, cfg.MaxRounds)

	d, ok := cfg.ParsedDifficulty()
	assert.True(t, ok)
	assert.Equal(t, combat.DifficultyHard, d)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("GLOOM_SEED", "many")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}

func TestUnknownDifficultyIsReported(t *testing.T) {
	_, ok := Config{Difficulty: "brutal"}.ParsedDifficulty()
	assert.False(t, ok)
}

func TestLoadoutFile(t *testing.T) {
	lf, err := Config{}.LoadoutFile()
	require.NoError(t, err)
	assert.Len(t, lf.Loadouts, 2)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loadouts:\n  - name: X\n    hp: 0\n"), 0o644))
	_, err = Config{Loadouts: path}.LoadoutFile()
	assert.ErrorContains(t, err, "load "+path)
}

func TestNewLogger(t *testing.T) {
	logger, err := Config{LogLevel: "debug"}.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = Config{LogLevel: "chatty"}.NewLogger()
	assert.Error(t, err)
}
