package combat

import (
	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/log"
)

// EquipmentCard is a piece of gear. Equipping it may insert cards into the
// bearer's decks (through the ModifierManager), modify outgoing damage and
// grant statuses at the start of each battle. A veiled piece is disabled:
// it contributes neither damage modifiers nor battle-start statuses.
type EquipmentCard struct {
	id          uuid.UUID
	Name        string
	Description string
	Rarity      Rarity
	Slot        EquipmentSlot
	TwoHanded   bool
	Veiled      bool
	Loot        LootType

	// OnEquipFunc registers the piece's deck modifiers.
	OnEquipFunc func(eq *EquipmentCard, mods *ModifierManager)

	// OnUnequipFunc removes them again. When nil every tracked entry is
	// removed.
	OnUnequipFunc func(eq *EquipmentCard, mods *ModifierManager)

	// ModifyOutgoing adjusts damage the bearer deals.
	ModifyOutgoing func(eq *EquipmentCard, bearer *Entity, value int, info *DamageInfo) int

	// BattleStartStatuses lists statuses granted when a battle begins.
	BattleStartStatuses func(eq *EquipmentCard, bearer *Entity) []*StatusEffect

	entries []*ModifierEntry
	bearer  *Entity
}

func (eq *EquipmentCard) ID() uuid.UUID  { return eq.id }
func (eq *EquipmentCard) Type() CardType { return CardTypeEquipment }
func (eq *EquipmentCard) String() string { return eq.Name }
func (eq *EquipmentCard) sealed()        {}

// AddCard inserts a permanent card into the bearer's deck and tracks the
// entry so unequipping takes it out again.
func (eq *EquipmentCard) AddCard(mods *ModifierManager, ch Channel, card Card) {
	eq.entries = append(eq.entries, mods.AddAdd(ch, ScopePermanent, card))
}

// Bearer returns the entity wearing the piece, or nil.
func (eq *EquipmentCard) Bearer() *Entity {
	return eq.bearer
}

// Entries returns the modifier entries the piece currently owns.
func (eq *EquipmentCard) Entries() []*ModifierEntry {
	out := make([]*ModifierEntry, len(eq.entries))
	copy(out, eq.entries)
	return out
}

func (eq *EquipmentCard) onEquip(mods *ModifierManager) {
	if len(eq.entries) > 0 || eq.OnEquipFunc == nil {
		return
	}
	eq.OnEquipFunc(eq, mods)
}

func (eq *EquipmentCard) onUnequip(mods *ModifierManager) {
	if eq.OnUnequipFunc != nil {
		eq.OnUnequipFunc(eq, mods)
	}
	for _, entry := range eq.entries {
		mods.Remove(entry)
	}
	eq.entries = nil
}

// EquipmentSet is a combatant's equipped gear in equip order.
type EquipmentSet struct {
	items []*EquipmentCard
}

// NewEquipmentSet returns an empty set.
func NewEquipmentSet() *EquipmentSet {
	return &EquipmentSet{}
}

// Equipped returns a snapshot of the equipped pieces in equip order.
func (s *EquipmentSet) Equipped() []*EquipmentCard {
	if s == nil {
		return nil
	}
	out := make([]*EquipmentCard, len(s.items))
	copy(out, s.items)
	return out
}

// InSlot returns the piece occupying a slot, or nil.
func (s *EquipmentSet) InSlot(slot EquipmentSlot) *EquipmentCard {
	for _, eq := range s.items {
		if eq.Slot == slot || (eq.TwoHanded && (slot == SlotWeapon || slot == SlotOffhand)) {
			return eq
		}
	}
	return nil
}

// Equip puts a piece on the bearer. Equipping a piece that is already worn
// is a no-op. A piece worn by someone else, or whose slot is taken by
// another piece, is refused.
func (e *Entity) Equip(eq *EquipmentCard) error {
	if e.Equipment == nil {
		return &ActionRejectedError{Card: eq.Name, Reason: e.Name + " cannot equip gear"}
	}
	for _, cur := range e.Equipment.items {
		if cur == eq {
			return nil
		}
	}
	if eq.bearer != nil && eq.bearer != e {
		return &ActionRejectedError{Card: eq.Name, Reason: "worn by " + eq.bearer.Name}
	}
	if cur := e.Equipment.InSlot(eq.Slot); cur != nil {
		return &ActionRejectedError{Card: eq.Name, Reason: eq.Slot.String() + " slot holds " + cur.Name}
	}
	if eq.TwoHanded && e.Equipment.InSlot(SlotOffhand) != nil {
		return &ActionRejectedError{Card: eq.Name, Reason: "two-handed gear needs a free offhand"}
	}
	e.Equipment.items = append(e.Equipment.items, eq)
	eq.bearer = e
	eq.onEquip(e.Mods)
	e.Svc.Emit(log.NewEquipEvent(e.Name, eq.Name))
	return nil
}

// Unequip takes a piece off and removes every deck modifier it owns.
// It reports whether the piece was worn.
func (e *Entity) Unequip(eq *EquipmentCard) bool {
	if e.Equipment == nil {
		return false
	}
	for i, cur := range e.Equipment.items {
		if cur != eq {
			continue
		}
		e.Equipment.items = append(e.Equipment.items[:i], e.Equipment.items[i+1:]...)
		eq.onUnequip(e.Mods)
		eq.bearer = nil
		e.Svc.Emit(log.NewUnequipEvent(e.Name, eq.Name))
		return true
	}
	return false
}

// --- Equipment catalogue ---

// DawnbringerArmor adds a Block 3 defense card and grants Aegis at the
// start of each battle.
func DawnbringerArmor(veiled bool, shield int) *EquipmentCard {
	return &EquipmentCard{
		id:          uuid.New(),
		Name:        "Dawnbringer Armor",
		Description: "Adds a +3 Block defense card and start each battle with Aegis 6.",
		Rarity:      RarityEpic,
		Slot:        SlotArmor,
		Veiled:      veiled,
		Loot:        LootEquipment,
		OnEquipFunc: func(eq *EquipmentCard, mods *ModifierManager) {
			eq.AddCard(mods, ChannelDefense, DefenseBlockCard(3))
		},
		BattleStartStatuses: func(eq *EquipmentCard, bearer *Entity) []*StatusEffect {
			return []*StatusEffect{AegisStatus(shield)}
		},
	}
}

// BloodthirstBlade adds a Combo 1 attack card and one damage to attacks.
func BloodthirstBlade() *EquipmentCard {
	return &EquipmentCard{
		id:          uuid.New(),
		Name:        "Bloodthirst Blade",
		Description: "Adds a Combo 1 attack card. Attacks deal +1 damage.",
		Rarity:      RarityRare,
		Slot:        SlotWeapon,
		Loot:        LootEquipment,
		OnEquipFunc: func(eq *EquipmentCard, mods *ModifierManager) {
			eq.AddCard(mods, ChannelAttack, AttackComboCard(1))
		},
		ModifyOutgoing: func(eq *EquipmentCard, bearer *Entity, value int, info *DamageInfo) int {
			if info.Kind != DamageAttack {
				return value
			}
			return value + 1
		},
	}
}

// WardingBuckler adds an Evade defense card.
func WardingBuckler() *EquipmentCard {
	return &EquipmentCard{
		id:          uuid.New(),
		Name:        "Warding Buckler",
		Description: "Adds an Evade defense card.",
		Rarity:      RarityUncommon,
		Slot:        SlotOffhand,
		Loot:        LootEquipment,
		OnEquipFunc: func(eq *EquipmentCard, mods *ModifierManager) {
			eq.AddCard(mods, ChannelDefense, DefenseEvadeCard())
		},
	}
}
