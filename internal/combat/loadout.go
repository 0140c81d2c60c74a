package combat

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed loadouts.yaml
var defaultLoadouts []byte

// LoadoutFile represents the top-level YAML structure.
type LoadoutFile struct {
	Loadouts   []LoadoutEntry                    `yaml:"loadouts"`
	Encounters []EncounterEntry                  `yaml:"encounters"`
	Tuning     map[string]map[string]EventTuning `yaml:"tuning"`
}

// LoadoutEntry is a player character: HP, seed, decks and gear.
type LoadoutEntry struct {
	Name      string      `yaml:"name"`
	HP        int         `yaml:"hp"`
	Seed      uint64      `yaml:"seed"`
	Attack    []CardEntry `yaml:"attack"`
	Defense   []CardEntry `yaml:"defense"`
	Actions   []CardEntry `yaml:"actions"`
	Equipment []string    `yaml:"equipment"`
}

// CardEntry represents a card and its count in a deck. Attack and defense
// cards are written as "Hit 2", "Combo 1", "Crit 2", "Miss", "Block 1",
// "Chain 1" or "Evade".
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// EncounterEntry is a set of enemies plus the events that run with them.
type EncounterEntry struct {
	Name    string       `yaml:"name"`
	Enemies []EnemyEntry `yaml:"enemies"`
	Events  []string     `yaml:"events"`
}

// EnemyEntry names an enemy and its seed base.
type EnemyEntry struct {
	Name string `yaml:"name"`
	Seed uint64 `yaml:"seed"`
}

// DefaultLoadoutFile returns the built-in loadouts.
func DefaultLoadoutFile() *LoadoutFile {
	lf, err := ParseLoadouts(defaultLoadouts)
	if err != nil {
		panic(fmt.Sprintf("built-in loadouts: %v", err))
	}
	return lf
}

// ParseLoadoutFile reads and parses a loadout YAML file.
func ParseLoadoutFile(path string) (*LoadoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLoadouts(data)
}

// ParseLoadouts parses loadout YAML and checks every name it references.
func ParseLoadouts(data []byte) (*LoadoutFile, error) {
	var lf LoadoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse loadout YAML: %w", err)
	}
	if err := lf.validate(); err != nil {
		return nil, err
	}
	return &lf, nil
}

func (lf *LoadoutFile) validate() error {
	for _, l := range lf.Loadouts {
		if l.HP < 1 {
			return fmt.Errorf("loadout %q: hp must be positive", l.Name)
		}
		for _, c := range l.Attack {
			if _, err := ParseModifierCard(ChannelAttack, c.Name); err != nil {
				return fmt.Errorf("loadout %q: %w", l.Name, err)
			}
		}
		for _, c := range l.Defense {
			if _, err := ParseModifierCard(ChannelDefense, c.Name); err != nil {
				return fmt.Errorf("loadout %q: %w", l.Name, err)
			}
		}
		for _, c := range l.Actions {
			if _, ok := ActionRegistry[c.Name]; !ok {
				return fmt.Errorf("loadout %q: unknown action card %q", l.Name, c.Name)
			}
		}
		for _, name := range l.Equipment {
			if _, ok := EquipmentRegistry[name]; !ok {
				return fmt.Errorf("loadout %q: unknown equipment %q", l.Name, name)
			}
		}
	}
	for _, enc := range lf.Encounters {
		if len(enc.Enemies) == 0 {
			return fmt.Errorf("encounter %q: no enemies", enc.Name)
		}
		for _, e := range enc.Enemies {
			if _, ok := EnemyRegistry[e.Name]; !ok {
				return fmt.Errorf("encounter %q: unknown enemy %q", enc.Name, e.Name)
			}
		}
		for _, name := range enc.Events {
			if _, ok := EventRegistry[name]; !ok {
				return fmt.Errorf("encounter %q: unknown event %q", enc.Name, name)
			}
		}
	}
	for event, tiers := range lf.Tuning {
		if _, ok := EventRegistry[event]; !ok {
			return fmt.Errorf("tuning: unknown event %q", event)
		}
		for tier := range tiers {
			if _, ok := ParseDifficulty(tier); !ok {
				return fmt.Errorf("tuning %q: unknown difficulty %q", event, tier)
			}
		}
	}
	return nil
}

// LoadoutByNumber returns the Nth loadout (1-indexed).
func (lf *LoadoutFile) LoadoutByNumber(n int) (LoadoutEntry, error) {
	if n < 1 || n > len(lf.Loadouts) {
		return LoadoutEntry{}, fmt.Errorf("loadout %d not found (have %d loadouts)", n, len(lf.Loadouts))
	}
	return lf.Loadouts[n-1], nil
}

// Loadout returns the loadout with the given name.
func (lf *LoadoutFile) Loadout(name string) (LoadoutEntry, bool) {
	for _, l := range lf.Loadouts {
		if l.Name == name {
			return l, true
		}
	}
	return LoadoutEntry{}, false
}

// Encounter returns the encounter with the given name.
func (lf *LoadoutFile) Encounter(name string) (EncounterEntry, bool) {
	for _, e := range lf.Encounters {
		if e.Name == name {
			return e, true
		}
	}
	return EncounterEntry{}, false
}

// TuningFor returns the configured tuning table of an event, or nil when
// the file leaves the event at its stock tuning.
func (lf *LoadoutFile) TuningFor(event string) TuningTable {
	tiers, ok := lf.Tuning[event]
	if !ok {
		return nil
	}
	table := make(TuningTable, len(tiers))
	for tier, t := range tiers {
		if d, ok := ParseDifficulty(tier); ok {
			table[d] = t
		}
	}
	return table
}

// Build creates the player entity described by the loadout and equips its
// gear. Decks are seeded Seed+1, +2 and +3.
func (l LoadoutEntry) Build(svc *Services) (*Entity, error) {
	decks := NewDeckManager(l.Seed+1, l.Seed+2, l.Seed+3)

	attack, err := expandModifiers(ChannelAttack, l.Attack)
	if err != nil {
		return nil, fmt.Errorf("loadout %q: %w", l.Name, err)
	}
	defense, err := expandModifiers(ChannelDefense, l.Defense)
	if err != nil {
		return nil, fmt.Errorf("loadout %q: %w", l.Name, err)
	}
	var actions []Card
	for _, entry := range l.Actions {
		if _, ok := ActionRegistry[entry.Name]; !ok {
			return nil, fmt.Errorf("loadout %q: unknown action card %q", l.Name, entry.Name)
		}
		for i := 0; i < count(entry); i++ {
			actions = append(actions, LookupAction(entry.Name))
		}
	}
	decks.Attack.Load(attack)
	decks.Defense.Load(defense)
	decks.Action.Load(actions)

	p := NewPlayer(l.Name, l.HP, decks)
	p.Svc = svc
	for _, name := range l.Equipment {
		if _, ok := EquipmentRegistry[name]; !ok {
			return nil, fmt.Errorf("loadout %q: unknown equipment %q", l.Name, name)
		}
		if err := p.Equip(LookupEquipment(name)); err != nil {
			return nil, fmt.Errorf("loadout %q: %w", l.Name, err)
		}
	}
	return p, nil
}

// Build creates the encounter's enemies and events. Event tuning comes
// from lf when it has an entry for the event.
func (enc EncounterEntry) Build(lf *LoadoutFile, svc *Services) ([]*Entity, []*EventCard) {
	var enemies []*Entity
	for _, e := range enc.Enemies {
		enemy := LookupEnemy(e.Name, e.Seed)
		enemy.Svc = svc
		enemies = append(enemies, enemy)
	}
	var events []*EventCard
	for _, name := range enc.Events {
		var table TuningTable
		if lf != nil {
			table = lf.TuningFor(name)
		}
		events = append(events, LookupEvent(name, table))
	}
	return enemies, events
}

func count(e CardEntry) int {
	if e.Count <= 0 {
		return 1
	}
	return e.Count
}

func expandModifiers(ch Channel, entries []CardEntry) ([]Card, error) {
	var cards []Card
	for _, entry := range entries {
		for i := 0; i < count(entry); i++ {
			c, err := ParseModifierCard(ch, entry.Name)
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// ParseModifierCard builds a fresh attack or defense modifier card from its
// written form, e.g. "Hit 2" or "Evade".
func ParseModifierCard(ch Channel, s string) (Card, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return nil, fmt.Errorf("bad %s card %q", ch, s)
	}
	value := 0
	if len(fields) == 2 {
		v, err := strconv.Atoi(fields[1])
		if err != nil || v < 0 {
			return nil, fmt.Errorf("bad %s card %q", ch, s)
		}
		value = v
	}
	kind := strings.ToLower(fields[0])

	switch ch {
	case ChannelAttack:
		switch kind {
		case "hit":
			return AttackHitCard(value), nil
		case "combo":
			return AttackComboCard(value), nil
		case "crit":
			return AttackCritCard(value), nil
		case "miss":
			return AttackMissCard(), nil
		}
	case ChannelDefense:
		switch kind {
		case "block":
			return DefenseBlockCard(value), nil
		case "chain":
			return DefenseChainCard(value), nil
		case "evade":
			return DefenseEvadeCard(), nil
		}
	}
	return nil, fmt.Errorf("unknown %s card %q", ch, s)
}
