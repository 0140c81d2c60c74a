package encounter

import (
	"fmt"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// Setup assembles an encounter Config from a loadout file.
type Setup struct {
	Loadouts   *combat.LoadoutFile
	Players    []int  // 1-indexed loadout numbers, one per player
	Encounter  string // encounter name; empty selects the first
	Seed       uint64 // non-zero replaces every seed in the file
	Difficulty combat.Difficulty
	MaxRounds  int
	Logger     log.EventLogger
	Diag       *zap.Logger
}

// Config builds the combatants and events and returns the encounter
// configuration.
func (s Setup) Config() (Config, error) {
	lf := s.Loadouts
	if lf == nil {
		lf = combat.DefaultLoadoutFile()
	}
	if len(s.Players) == 0 {
		return Config{}, fmt.Errorf("no players")
	}

	var players []*combat.Entity
	for i, n := range s.Players {
		l, err := lf.LoadoutByNumber(n)
		if err != nil {
			return Config{}, err
		}
		if s.Seed != 0 {
			l.Seed = s.Seed + uint64(100*i)
		}
		p, err := l.Build(nil)
		if err != nil {
			return Config{}, err
		}
		players = append(players, p)
	}

	var entry combat.EncounterEntry
	switch {
	case s.Encounter != "":
		e, ok := lf.Encounter(s.Encounter)
		if !ok {
			return Config{}, fmt.Errorf("encounter %q not found", s.Encounter)
		}
		entry = e
	case len(lf.Encounters) > 0:
		entry = lf.Encounters[0]
	default:
		return Config{}, fmt.Errorf("loadout file has no encounters")
	}
	if s.Seed != 0 {
		enemies := make([]combat.EnemyEntry, len(entry.Enemies))
		for j, en := range entry.Enemies {
			en.Seed = s.Seed + 1000 + uint64(100*j)
			enemies[j] = en
		}
		entry.Enemies = enemies
	}
	enemies, events := entry.Build(lf, nil)

	return Config{
		Players:    players,
		Enemies:    enemies,
		Events:     events,
		Difficulty: s.Difficulty,
		Logger:     s.Logger,
		Diag:       s.Diag,
		MaxRounds:  s.MaxRounds,
	}, nil
}
