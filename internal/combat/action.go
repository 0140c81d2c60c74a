package combat

import (
	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// ActionContext is everything an action card sees while it resolves.
// Enemies and Allies are relative to the caster.
type ActionContext struct {
	Caster    *Entity
	Allies    []*Entity
	Enemies   []*Entity
	Advantage *AdvantageTracker
	Svc       *Services
}

// Decks returns the caster's decks.
func (c *ActionContext) Decks() *DeckManager {
	return c.Caster.Decks
}

// LivingEnemies returns the enemies that are still alive, in order.
func (c *ActionContext) LivingEnemies() []*Entity {
	return living(c.Enemies)
}

// LivingAllies returns the allies that are still alive, in order.
func (c *ActionContext) LivingAllies() []*Entity {
	return living(c.Allies)
}

func living(es []*Entity) []*Entity {
	var out []*Entity
	for _, e := range es {
		if e != nil && e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// OngoingActionHandle is a multi-turn action built by Begin. The turn
// driver owns it: it calls Tick once per elapsed turn, decrements
// RemainingTurns and drops the handle at zero, or calls Cancel when the
// effect is cut short.
type OngoingActionHandle struct {
	ID             uuid.UUID
	Card           *ActionCard
	Caster         *Entity
	Targets        []*Entity // snapshot taken at Begin
	RemainingTurns int
	Concentration  bool
	UserData       any
}

// ActionCard is a playable action. Only Name and Description are
// required; every hook has a default (always allowed, instant no-op).
type ActionCard struct {
	id                    uuid.UUID
	Name                  string
	Description           string
	Speed                 ActionSpeed
	CooldownRounds        int
	Exhausts              ExhaustScope
	Targeting             TargetKind
	DurationTurns         int // 0 = instant
	RequiresConcentration bool

	CanBeginFunc func(a *ActionCard, ctx *ActionContext) (bool, string)
	BeginFunc    func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle
	TickFunc     func(a *ActionCard, ctx *ActionContext, h *OngoingActionHandle)
	CancelFunc   func(a *ActionCard, ctx *ActionContext, h *OngoingActionHandle)
}

// NewActionCard creates an action card with a fresh identity.
func NewActionCard(name, description string) *ActionCard {
	return &ActionCard{id: uuid.New(), Name: name, Description: description}
}

func (a *ActionCard) ID() uuid.UUID  { return a.id }
func (a *ActionCard) Type() CardType { return CardTypeAction }
func (a *ActionCard) String() string { return a.Name }
func (a *ActionCard) sealed()        {}

// CanBegin is the veto gate checked before anything is mutated.
func (a *ActionCard) CanBegin(ctx *ActionContext) (bool, string) {
	if a.CanBeginFunc == nil {
		return true, ""
	}
	return a.CanBeginFunc(a, ctx)
}

// Begin resolves the action. It returns nil for instant effects and a
// handle for effects that span several turns.
func (a *ActionCard) Begin(ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
	if a.BeginFunc == nil {
		return nil
	}
	return a.BeginFunc(a, ctx, selected)
}

// Tick advances an ongoing effect by one turn.
func (a *ActionCard) Tick(ctx *ActionContext, h *OngoingActionHandle) {
	if a.TickFunc != nil {
		a.TickFunc(a, ctx, h)
	}
}

// Cancel ends an ongoing effect early.
func (a *ActionCard) Cancel(ctx *ActionContext, h *OngoingActionHandle) {
	if a.CancelFunc != nil {
		a.CancelFunc(a, ctx, h)
	}
}

// --- Helpers for common patterns ---

// SelectTarget picks the first living entity among the selected targets,
// else the first living enemy, else nil.
func (a *ActionCard) SelectTarget(ctx *ActionContext, selected []*Entity) *Entity {
	if t := living(selected); len(t) > 0 {
		return t[0]
	}
	if t := ctx.LivingEnemies(); len(t) > 0 {
		return t[0]
	}
	return nil
}

// DealAttackCombo draws an attack chain for the caster, runs it through
// the caster's outgoing modifiers, applies it to the target, discards the
// drawn cards and notifies the caster's statuses. It returns the damage
// actually dealt.
func (a *ActionCard) DealAttackCombo(ctx *ActionContext, target *Entity) int {
	caster := ctx.Caster
	decks := ctx.Decks()

	atkAdv := ctx.Advantage.Consume(caster, ChannelAttack)
	roll := decks.DrawAttackChain(atkAdv)
	for _, c := range roll.Drawn {
		ctx.Svc.Emit(drawEvent(caster, ChannelAttack, c))
	}

	base := roll.Total
	outInfo := &DamageInfo{Attacker: caster, Kind: DamageAttack, Source: a}
	if caster.IsAlive() && base > 0 {
		base = ApplyOutgoingDamageMods(caster, base, outInfo)
	}

	defAdv := ctx.Advantage.Consume(target, ChannelDefense)

	before := target.HP()
	target.TakeDamage(base, true, defAdv, caster, DamageAttack, a)
	after := target.HP()
	dealt := max(0, before-after)

	decks.DiscardRoll(ChannelAttack, roll)

	if dealt > 0 {
		caster.NotifyDealtDamage(dealt, outInfo)
	}

	ctx.Svc.Diag().Debug("attack combo resolved",
		zap.String("card", a.Name),
		zap.String("caster", caster.Name),
		zap.String("target", target.Name),
		zap.Int("advantage", atkAdv),
		zap.Int("roll", roll.Total),
		zap.Int("dealt", dealt),
	)
	return dealt
}

// HandleOption customises a handle built by MakeHandle.
type HandleOption func(h *OngoingActionHandle)

// WithDuration overrides the card's duration.
func WithDuration(turns int) HandleOption {
	return func(h *OngoingActionHandle) { h.RemainingTurns = turns }
}

// WithUserData attaches card-specific state to the handle.
func WithUserData(v any) HandleOption {
	return func(h *OngoingActionHandle) { h.UserData = v }
}

// MakeHandle builds, but does not schedule, an ongoing handle. Its
// duration defaults to max(1, DurationTurns) and its concentration flag
// mirrors the card.
func (a *ActionCard) MakeHandle(ctx *ActionContext, targets []*Entity, opts ...HandleOption) *OngoingActionHandle {
	h := &OngoingActionHandle{
		ID:             uuid.New(),
		Card:           a,
		Caster:         ctx.Caster,
		Targets:        append([]*Entity(nil), targets...),
		RemainingTurns: max(1, a.DurationTurns),
		Concentration:  a.RequiresConcentration,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Play validates and resolves an action for the context's caster.
// Validation happens before any state changes; a rejected action returns
// *ActionRejectedError and leaves decks, HP and statuses untouched.
func Play(ctx *ActionContext, a *ActionCard, selected []*Entity) (*OngoingActionHandle, error) {
	if err := validate(ctx, a); err != nil {
		ctx.Svc.Emit(log.NewActionRejectedEvent(casterName(ctx), a.Name, err.Reason))
		return nil, err
	}
	ctx.Svc.Emit(log.NewActionBeginEvent(ctx.Caster.Name, a.Name))
	h := a.Begin(ctx, selected)
	ctx.Caster.startCooldown(a)
	return h, nil
}

func validate(ctx *ActionContext, a *ActionCard) *ActionRejectedError {
	if ctx.Caster == nil || !ctx.Caster.IsAlive() {
		return &ActionRejectedError{Card: a.Name, Reason: "caster cannot act"}
	}
	if n := ctx.Caster.Cooldown(a); n > 0 {
		return &ActionRejectedError{Card: a.Name, Reason: "on cooldown"}
	}
	if ok, reason := a.CanBegin(ctx); !ok {
		if reason == "" {
			reason = "cannot begin"
		}
		return &ActionRejectedError{Card: a.Name, Reason: reason}
	}
	return nil
}

func casterName(ctx *ActionContext) string {
	if ctx.Caster == nil {
		return ""
	}
	return ctx.Caster.Name
}

// PutAway moves a played action card out of the caster's hand: exhausting
// cards leave rotation for the encounter, the rest are discarded.
func (e *Entity) PutAway(a *ActionCard) error {
	if a.Exhausts == ExhaustEncounter {
		return e.Decks.Action.Exhaust(a)
	}
	return e.Decks.Action.Discard(a)
}
