package combat

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// Entity is a combatant: a player character or an enemy.
//
// HP is kept in [0, MaxHP]. An entity whose HP reaches zero is no longer
// alive and is skipped by targeting, events and turn order.
type Entity struct {
	id    uuid.UUID
	Name  string
	Side  Side
	hp    int
	maxHP int
	alive bool

	Decks     *DeckManager
	Mods      *ModifierManager
	Equipment *EquipmentSet // nil for combatants that cannot equip
	AI        *EnemyAI      // nil for player-controlled combatants

	PowerLevel float64

	// Svc is where the entity reports damage, heals and statuses.
	Svc *Services

	statuses    []*StatusEffect
	cooldowns   map[uuid.UUID]int
	damageHooks []func(e *Entity, amount int, info *DamageInfo)
}

// NewEntity creates a living combatant at full health. The deck manager is
// owned by the entity from here on.
func NewEntity(name string, side Side, maxHP int, decks *DeckManager) *Entity {
	if maxHP < 1 {
		maxHP = 1
	}
	if decks == nil {
		decks = NewDeckManager(0, 0, 0)
	}
	return &Entity{
		id:        uuid.New(),
		Name:      name,
		Side:      side,
		hp:        maxHP,
		maxHP:     maxHP,
		alive:     true,
		Decks:     decks,
		Mods:      NewModifierManager(decks),
		cooldowns: make(map[uuid.UUID]int),
	}
}

// NewPlayer creates a player-side combatant with an empty equipment set.
func NewPlayer(name string, maxHP int, decks *DeckManager) *Entity {
	e := NewEntity(name, SidePlayer, maxHP, decks)
	e.Equipment = NewEquipmentSet()
	return e
}

// NewEnemy creates an enemy-side combatant driven by ai.
func NewEnemy(name string, decks *DeckManager, ai *EnemyAI, maxHP int) *Entity {
	e := NewEntity(name, SideEnemy, maxHP, decks)
	e.AI = ai
	return e
}

func (e *Entity) ID() uuid.UUID  { return e.id }
func (e *Entity) HP() int        { return e.hp }
func (e *Entity) MaxHP() int     { return e.maxHP }
func (e *Entity) IsAlive() bool  { return e.alive }
func (e *Entity) String() string { return fmt.Sprintf("%s (%d/%d)", e.Name, e.hp, e.maxHP) }

// SetHP sets current HP, clamped to [0, MaxHP].
func (e *Entity) SetHP(hp int) {
	e.hp = max(0, min(hp, e.maxHP))
	if e.hp == 0 {
		e.die()
	}
}

func (e *Entity) die() {
	if !e.alive {
		return
	}
	e.alive = false
	e.Svc.Emit(log.NewDeathEvent(e.Name))
	e.Svc.Diag().Debug("entity died", zap.String("entity", e.Name))
}

// OnDamaged registers a hook that fires whenever the entity loses HP.
// Hooks last until EndBattle.
func (e *Entity) OnDamaged(fn func(e *Entity, amount int, info *DamageInfo)) {
	e.damageHooks = append(e.damageHooks, fn)
}

// TakeDamage runs the incoming chain and applies the result. For attacks
// the entity first draws a defense chain with defenseAdvantage; blocks
// subtract and an evade negates. Incoming status modifiers run next, in
// status order. It returns the updated HP.
func (e *Entity) TakeDamage(amount int, isAttack bool, defenseAdvantage int, attacker *Entity, kind DamageKind, source Card) int {
	if !e.alive {
		return e.hp
	}
	info := &DamageInfo{Attacker: attacker, Kind: kind, Source: source}
	value := max(0, amount)

	if isAttack && value > 0 {
		roll := e.Decks.DrawDefenseChain(defenseAdvantage)
		for _, c := range roll.Drawn {
			e.Svc.Emit(drawEvent(e, ChannelDefense, c))
		}
		if roll.Evaded {
			value = 0
		} else {
			value = max(0, value-roll.Total)
		}
		e.Decks.DiscardRoll(ChannelDefense, roll)
	}

	value = ApplyIncomingDamageMods(e, value, info)

	before := e.hp
	e.hp = max(0, e.hp-value)
	dealt := before - e.hp

	e.Svc.Emit(log.NewDamageEvent(info.attackerName(), e.Name, info.sourceName(), dealt, e.hp))

	if dealt > 0 {
		for _, fn := range e.damageHooks {
			fn(e, dealt, info)
		}
	}
	if e.hp == 0 {
		e.die()
	}
	return e.hp
}

// Heal restores up to amount HP and returns how much was restored.
func (e *Entity) Heal(amount int, source string) int {
	if !e.alive || amount <= 0 {
		return 0
	}
	before := e.hp
	e.hp = min(e.maxHP, e.hp+amount)
	healed := e.hp - before
	if healed > 0 {
		e.Svc.Emit(log.NewHealEvent(e.Name, source, healed, e.hp))
	}
	return healed
}

// NotifyDealtDamage tells the entity's statuses that it dealt damage.
func (e *Entity) NotifyDealtDamage(dealt int, info *DamageInfo) {
	for _, s := range e.Statuses() {
		if s.OnDealtDamage != nil && e.attached(s) {
			s.OnDealtDamage(s, e, dealt, info)
		}
	}
}

// --- Cooldowns ---

// Cooldown returns the rounds left before the card can be played again.
func (e *Entity) Cooldown(card *ActionCard) int {
	return e.cooldowns[card.ID()]
}

func (e *Entity) startCooldown(card *ActionCard) {
	if card.CooldownRounds > 0 {
		e.cooldowns[card.ID()] = card.CooldownRounds
	}
}

// TickCooldowns counts every cooldown down by one round.
func (e *Entity) TickCooldowns() {
	for id, n := range e.cooldowns {
		if n <= 1 {
			delete(e.cooldowns, id)
			continue
		}
		e.cooldowns[id] = n - 1
	}
}

// --- Encounter lifecycle ---

// BeginBattle grants the battle-start statuses of the entity's equipment.
func (e *Entity) BeginBattle() {
	if e.Equipment == nil {
		return
	}
	for _, eq := range e.Equipment.Equipped() {
		if eq.Veiled || eq.BattleStartStatuses == nil {
			continue
		}
		for _, s := range eq.BattleStartStatuses(eq, e) {
			e.ApplyStatus(s)
		}
	}
}

// EndBattle sweeps encounter-scoped state: encounter modifiers, exhausted
// cards, cooldowns, statuses and damage hooks.
func (e *Entity) EndBattle() {
	e.Mods.ClearScope(ScopeEncounter)
	e.Decks.RestoreExhausted()
	clear(e.cooldowns)
	e.statuses = nil
	e.damageHooks = nil
}
