package combat

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// EventTuning is the difficulty-scaled magnitude of an event.
type EventTuning struct {
	Damage int `yaml:"damage" json:"damage"`
	Turns  int `yaml:"turns" json:"turns"`
}

// TuningTable maps difficulty tiers to event magnitudes. Tiers missing
// from the table fall back to the event's default tuple.
type TuningTable map[Difficulty]EventTuning

// Lookup returns the tuning for a tier, or def when the tier is absent.
func (t TuningTable) Lookup(d Difficulty, def EventTuning) EventTuning {
	if v, ok := t[d]; ok {
		return v
	}
	return def
}

// EventContext is passed to event cards when they activate and resolve.
type EventContext struct {
	Difficulty Difficulty
	Payload    any
	Svc        *Services
}

// BattleStartInfo is the payload of battle-start events.
type BattleStartInfo struct {
	Players []*Entity
	Enemies []*Entity
}

// EventCard is an encounter-wide effect that fires at trigger points.
// OnActivate resolves its magnitude for the encounter's difficulty once;
// Resolve applies it.
type EventCard struct {
	id          uuid.UUID
	Name        string
	Description string
	Scope       EventScope
	Tags        EventTag
	Triggers    EventTrigger

	Tuning  TuningTable
	Default EventTuning

	// Describe renders the description for the tuned magnitude.
	Describe func(t EventTuning) string

	// ApplyFunc applies the tuned effect to one living combatant and
	// reports whether it was affected.
	ApplyFunc func(ev *EventCard, ctx *EventContext, target *Entity, t EventTuning) bool

	// Affects filters which side of the payload the event touches. Nil
	// touches both.
	Affects func(side Side) bool

	tuned EventTuning
}

func (ev *EventCard) ID() uuid.UUID  { return ev.id }
func (ev *EventCard) Type() CardType { return CardTypeEvent }
func (ev *EventCard) String() string { return ev.Name }
func (ev *EventCard) sealed()        {}

// Tuned returns the magnitude chosen by the last OnActivate.
func (ev *EventCard) Tuned() EventTuning {
	return ev.tuned
}

// OnActivate picks the magnitude for the context's difficulty. Unknown
// tiers use the default tuple; it never fails.
func (ev *EventCard) OnActivate(ctx *EventContext) {
	ev.tuned = ev.Tuning.Lookup(ctx.Difficulty, ev.Default)
	if ev.Describe != nil {
		ev.Description = ev.Describe(ev.tuned)
	}
	ctx.Svc.Diag().Debug("event activated",
		zap.String("event", ev.Name),
		zap.Stringer("difficulty", ctx.Difficulty),
		zap.Int("damage", ev.tuned.Damage),
		zap.Int("turns", ev.tuned.Turns),
	)
}

// Resolve applies the tuned effect to every living combatant in a
// BattleStartInfo payload, players first, and returns how many were
// affected. Any other payload is ignored.
func (ev *EventCard) Resolve(ctx *EventContext) int {
	info, ok := ctx.Payload.(*BattleStartInfo)
	if !ok || info == nil || ev.ApplyFunc == nil {
		return 0
	}

	affected := 0
	apply := func(side Side, es []*Entity) {
		if ev.Affects != nil && !ev.Affects(side) {
			return
		}
		for _, e := range living(es) {
			if ev.ApplyFunc(ev, ctx, e, ev.tuned) {
				affected++
			}
		}
	}
	apply(SidePlayer, info.Players)
	apply(SideEnemy, info.Enemies)

	ctx.Svc.Emit(log.NewEventResolvedEvent(ev.Name, affected))
	ctx.Svc.Diag().Info("event resolved", zap.String("event", ev.Name), zap.Int("affected", affected))
	return affected
}

// ActivateEvents calls OnActivate on every event once.
func ActivateEvents(events []*EventCard, ctx *EventContext) {
	for _, ev := range events {
		ev.OnActivate(ctx)
	}
}

// FireEvents resolves every event listening on trigger, in order, and
// returns the total number of combatants affected.
func FireEvents(events []*EventCard, trigger EventTrigger, ctx *EventContext) int {
	total := 0
	for _, ev := range events {
		if ev.Triggers&trigger == 0 {
			continue
		}
		total += ev.Resolve(ctx)
	}
	return total
}

// --- Event catalogue ---

// NecroticSporesTuning is the stock difficulty table of Necrotic Spores.
func NecroticSporesTuning() TuningTable {
	return TuningTable{
		DifficultyEasy:      {Damage: 1, Turns: 2},
		DifficultyNormal:    {Damage: 1, Turns: 2},
		DifficultyHard:      {Damage: 2, Turns: 3},
		DifficultyNightmare: {Damage: 3, Turns: 3},
	}
}

// NecroticSporesEvent infects every combatant at battle start. A nil table
// uses NecroticSporesTuning.
func NecroticSporesEvent(table TuningTable) *EventCard {
	if table == nil {
		table = NecroticSporesTuning()
	}
	def := EventTuning{Damage: 1, Turns: 2}
	ev := &EventCard{
		id:       uuid.New(),
		Name:     "Necrotic Spores",
		Scope:    EventScopeCombat,
		Tags:     EventTagTrap | EventTagCurse,
		Triggers: TriggerOnBattleStart,
		Tuning:   table,
		Default:  def,
		tuned:    def,
		Describe: func(t EventTuning) string {
			return fmt.Sprintf("At battle start, necrotic spores Infect everyone for %d turn(s) dealing %d damage per turn.", t.Turns, t.Damage)
		},
		ApplyFunc: func(ev *EventCard, ctx *EventContext, target *Entity, t EventTuning) bool {
			target.ApplyStatus(InfectStatus(t.Damage, t.Turns))
			return true
		},
	}
	ev.Description = ev.Describe(def)
	return ev
}

// HallowedGroundTuning is the stock difficulty table of Hallowed Ground.
// Harder tiers heal less.
func HallowedGroundTuning() TuningTable {
	return TuningTable{
		DifficultyEasy:      {Damage: 2, Turns: 3},
		DifficultyNormal:    {Damage: 1, Turns: 3},
		DifficultyHard:      {Damage: 1, Turns: 2},
		DifficultyNightmare: {Damage: 1, Turns: 1},
	}
}

// HallowedGroundEvent grants the player side Regeneration at battle start.
// Damage in its tuning is the amount healed per turn.
func HallowedGroundEvent(table TuningTable) *EventCard {
	if table == nil {
		table = HallowedGroundTuning()
	}
	def := EventTuning{Damage: 1, Turns: 2}
	ev := &EventCard{
		id:       uuid.New(),
		Name:     "Hallowed Ground",
		Scope:    EventScopeCombat,
		Tags:     EventTagBlessing,
		Triggers: TriggerOnBattleStart,
		Tuning:   table,
		Default:  def,
		tuned:    def,
		Describe: func(t EventTuning) string {
			return fmt.Sprintf("At battle start, heroes regenerate %d HP per turn for %d turn(s).", t.Damage, t.Turns)
		},
		Affects: func(side Side) bool { return side == SidePlayer },
		ApplyFunc: func(ev *EventCard, ctx *EventContext, target *Entity, t EventTuning) bool {
			target.ApplyStatus(RegenerationStatus(t.Damage, t.Turns))
			return true
		},
	}
	ev.Description = ev.Describe(def)
	return ev
}
