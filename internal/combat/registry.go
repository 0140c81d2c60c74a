package combat

import (
	"fmt"
	"sort"
)

// ActionRegistry maps action card names to their constructors.
var ActionRegistry = map[string]func() *ActionCard{
	"Leech Strike":   LeechStrike,
	"Strike":         Strike,
	"Infect":         Infect,
	"Crippling Blow": CripplingBlow,
	"Guard":          Guard,
	"Focus":          Focus,
	"Siphon Ritual":  SiphonRitual,
	"Dark Pact":      DarkPact,
}

// EquipmentRegistry maps equipment names to their constructors.
var EquipmentRegistry = map[string]func() *EquipmentCard{
	"Dawnbringer Armor":        func() *EquipmentCard { return DawnbringerArmor(false, 6) },
	"Veiled Dawnbringer Armor": func() *EquipmentCard { return DawnbringerArmor(true, 6) },
	"Bloodthirst Blade":        BloodthirstBlade,
	"Warding Buckler":          WardingBuckler,
}

// EnemyRegistry maps enemy names to constructors taking a seed base.
var EnemyRegistry = map[string]func(seedBase uint64) *Entity{
	"Blood Cultist": BloodCultist,
	"Plague Hound":  PlagueHound,
}

// EventRegistry maps event names to constructors taking a tuning table.
// A nil table selects the event's stock tuning.
var EventRegistry = map[string]func(table TuningTable) *EventCard{
	"Necrotic Spores": NecroticSporesEvent,
	"Hallowed Ground": HallowedGroundEvent,
}

// LookupAction looks up an action card by name and returns a new instance.
// Panics if the card is not found.
func LookupAction(name string) *ActionCard {
	ctor, ok := ActionRegistry[name]
	if !ok {
		panic(fmt.Sprintf("action card not found in registry: %q", name))
	}
	return ctor()
}

// LookupEquipment looks up a piece of equipment by name. Panics if the
// piece is not found.
func LookupEquipment(name string) *EquipmentCard {
	ctor, ok := EquipmentRegistry[name]
	if !ok {
		panic(fmt.Sprintf("equipment not found in registry: %q", name))
	}
	return ctor()
}

// LookupEnemy builds an enemy by name. Panics if the enemy is not found.
func LookupEnemy(name string, seedBase uint64) *Entity {
	ctor, ok := EnemyRegistry[name]
	if !ok {
		panic(fmt.Sprintf("enemy not found in registry: %q", name))
	}
	return ctor(seedBase)
}

// LookupEvent builds an event by name. Panics if the event is not found.
func LookupEvent(name string, table TuningTable) *EventCard {
	ctor, ok := EventRegistry[name]
	if !ok {
		panic(fmt.Sprintf("event not found in registry: %q", name))
	}
	return ctor(table)
}

// ActionNames returns the registered action card names, sorted.
func ActionNames() []string {
	return sortedKeys(ActionRegistry)
}

// EquipmentNames returns the registered equipment names, sorted.
func EquipmentNames() []string {
	return sortedKeys(EquipmentRegistry)
}

// EnemyNames returns the registered enemy names, sorted.
func EnemyNames() []string {
	return sortedKeys(EnemyRegistry)
}

// EventNames returns the registered event names, sorted.
func EventNames() []string {
	return sortedKeys(EventRegistry)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
