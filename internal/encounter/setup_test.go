package encounter

import (
	"testing"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup{Players: []int{1}}.Config()
	require.NoError(t, err)

	require.Len(t, cfg.Players, 1)
	assert.Equal(t, "Warden", cfg.Players[0].Name)
	require.Len(t, cfg.Enemies, 1, "first encounter is the Cultist Den")
	assert.Equal(t, "Blood Cultist", cfg.Enemies[0].Name)
	assert.Equal(t, uint64(101), cfg.Players[0].Decks.Attack.Seed())
	assert.Equal(t, combat.DefaultCultistSeed+1, cfg.Enemies[0].Decks.Attack.Seed())
	require.Len(t, cfg.Events, 1)
}

func TestSetupSeedOverride(t *testing.T) {
	cfg, err := Setup{Players: []int{1, 2}, Encounter: "Plague Pit", Seed: 7}.Config()
	require.NoError(t, err)

	assert.Equal(t, uint64(8), cfg.Players[0].Decks.Attack.Seed())
	assert.Equal(t, uint64(108), cfg.Players[1].Decks.Attack.Seed())
	require.Len(t, cfg.Enemies, 2)
	assert.Equal(t, uint64(1008), cfg.Enemies[0].Decks.Attack.Seed())
	assert.Equal(t, uint64(1108), cfg.Enemies[1].Decks.Attack.Seed())

	// The loadout file itself is untouched.
	lf := combat.DefaultLoadoutFile()
	enc, _ := lf.Encounter("Plague Pit")
	assert.Equal(t, uint64(610), enc.Enemies[0].Seed)
}

func TestSetupErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup Setup
		want  string
	}{
		{"no players", Setup{}, "no players"},
		{"bad loadout", Setup{Players: []int{9}}, "loadout 9 not found (have 2 loadouts)"},
		{"unknown encounter", Setup{Players: []int{1}, Encounter: "Dragon Lair"}, `encounter "Dragon Lair" not found`},
		{"no encounters", Setup{Players: []int{1}, Loadouts: &combat.LoadoutFile{Loadouts: combat.DefaultLoadoutFile().Loadouts}}, "loadout file has no encounters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.setup.Config()
			assert.EqualError(t, err, tc.want)
		})
	}
}
