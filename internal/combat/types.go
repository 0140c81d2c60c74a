package combat

import "fmt"

// --- Enums ---

// Channel names one of the three decks every combatant owns.
type Channel int

const (
	ChannelAttack Channel = iota
	ChannelDefense
	ChannelAction
)

func (c Channel) String() string {
	switch c {
	case ChannelAttack:
		return "Attack"
	case ChannelDefense:
		return "Defense"
	case ChannelAction:
		return "Action"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

type CardType int

const (
	CardTypeAction CardType = iota
	CardTypeAttackModifier
	CardTypeDefenseModifier
	CardTypeEquipment
	CardTypeEvent
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeAction:
		return "Action"
	case CardTypeAttackModifier:
		return "Attack Modifier"
	case CardTypeDefenseModifier:
		return "Defense Modifier"
	case CardTypeEquipment:
		return "Equipment"
	case CardTypeEvent:
		return "Event"
	default:
		return "Unknown"
	}
}

type ActionSpeed int

const (
	SpeedNormal ActionSpeed = iota
	SpeedFast
	SpeedSlow
)

func (s ActionSpeed) String() string {
	switch s {
	case SpeedFast:
		return "Fast"
	case SpeedSlow:
		return "Slow"
	default:
		return "Normal"
	}
}

// ExhaustScope says how long a played action card stays out of its deck.
type ExhaustScope int

const (
	ExhaustNever     ExhaustScope = iota
	ExhaustEncounter              // back in the discard pile when the encounter ends
)

type TargetKind int

const (
	TargetSelf TargetKind = iota
	TargetSingleEnemy
	TargetAllEnemies
	TargetSingleAlly
	TargetAllAllies
)

func (t TargetKind) String() string {
	switch t {
	case TargetSelf:
		return "Self"
	case TargetSingleEnemy:
		return "Single Enemy"
	case TargetAllEnemies:
		return "All Enemies"
	case TargetSingleAlly:
		return "Single Ally"
	case TargetAllAllies:
		return "All Allies"
	default:
		return "Unknown"
	}
}

type DamageKind int

const (
	DamageAttack DamageKind = iota
	DamageStatus            // damage over time from a status effect
	DamageDrain             // life drained by an ongoing action
)

func (k DamageKind) String() string {
	switch k {
	case DamageAttack:
		return "Attack"
	case DamageStatus:
		return "Status"
	case DamageDrain:
		return "Drain"
	default:
		return "Unknown"
	}
}

// ModifierScope is the lifetime class of a deck-mutation entry.
type ModifierScope int

const (
	ScopePermanent ModifierScope = iota // removed only by explicit unequip
	ScopeEncounter                      // swept when the encounter ends
)

func (s ModifierScope) String() string {
	if s == ScopePermanent {
		return "Permanent"
	}
	return "Encounter"
}

type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "Players"
	case SideEnemy:
		return "Enemies"
	default:
		return "None"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return 1 - s
}

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

type EquipmentSlot int

const (
	SlotWeapon EquipmentSlot = iota
	SlotOffhand
	SlotArmor
	SlotTrinket
)

func (s EquipmentSlot) String() string {
	switch s {
	case SlotWeapon:
		return "Weapon"
	case SlotOffhand:
		return "Offhand"
	case SlotArmor:
		return "Armor"
	case SlotTrinket:
		return "Trinket"
	default:
		return "Unknown"
	}
}

type LootType int

const (
	LootEquipment LootType = iota
	LootConsumable
	LootCurrency
)

// Difficulty is the tuning tier an encounter runs at.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyNightmare
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	case DifficultyNightmare:
		return "nightmare"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty maps a tier name to a Difficulty. Unknown names are
// reported with ok == false and map to an out-of-table tier, which event
// tuning treats as "use the default tuple".
func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "easy", "Easy":
		return DifficultyEasy, true
	case "normal", "Normal", "":
		return DifficultyNormal, true
	case "hard", "Hard":
		return DifficultyHard, true
	case "nightmare", "Nightmare":
		return DifficultyNightmare, true
	default:
		return Difficulty(-1), false
	}
}

type EventScope int

const (
	EventScopeCombat EventScope = iota
	EventScopeRun
)

// EventTag is a bitmask of event metadata.
type EventTag int

const (
	EventTagTrap EventTag = 1 << iota
	EventTagCurse
	EventTagBlessing
	EventTagAmbush
)

// Has reports whether every bit of t is set in e.
func (e EventTag) Has(t EventTag) bool {
	return e&t == t
}

func (e EventTag) String() string {
	var names []string
	for _, p := range []struct {
		tag  EventTag
		name string
	}{
		{EventTagTrap, "Trap"},
		{EventTagCurse, "Curse"},
		{EventTagBlessing, "Blessing"},
		{EventTagAmbush, "Ambush"},
	} {
		if e.Has(p.tag) {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "|" + n
	}
	return out
}

// EventTrigger is a bitmask of the points an event card fires at.
type EventTrigger int

const (
	TriggerOnBattleStart EventTrigger = 1 << iota
	TriggerOnRoundStart
	TriggerOnBattleEnd
)
