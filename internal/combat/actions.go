package combat

import (
	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// Concrete action cards. Each constructor returns a fresh instance; decks
// holding two copies call the constructor twice.

// LeechStrike grants the caster Lifesteal (50%) for 2 turns, then strikes.
// The status lands before any damage is drawn.
func LeechStrike() *ActionCard {
	return &ActionCard{
		id:          uuid.New(),
		Name:        "Leech Strike",
		Description: "Gain lifesteal (50%) for 2 turns, then strike.",
		Targeting:   TargetSingleEnemy,
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			if ctx.Caster.IsAlive() {
				ctx.Caster.ApplyStatus(LifestealStatus(0.5, 2))
			}
			t := a.SelectTarget(ctx, selected)
			if t == nil {
				return nil
			}
			a.DealAttackCombo(ctx, t)
			return nil
		},
	}
}

// Strike is a plain attack.
func Strike() *ActionCard {
	return &ActionCard{
		id:          uuid.New(),
		Name:        "Strike",
		Description: "Strike a single enemy.",
		Targeting:   TargetSingleEnemy,
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			if t := a.SelectTarget(ctx, selected); t != nil {
				a.DealAttackCombo(ctx, t)
			}
			return nil
		},
	}
}

// Infect afflicts the target with Infect 1 for 3 turns.
func Infect() *ActionCard {
	return &ActionCard{
		id:          uuid.New(),
		Name:        "Infect",
		Description: "Infect an enemy: 1 damage per turn for 3 turns.",
		Speed:       SpeedFast,
		Targeting:   TargetSingleEnemy,
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			if t := a.SelectTarget(ctx, selected); t != nil {
				t.ApplyStatus(InfectStatus(1, 3))
			}
			return nil
		},
	}
}

// CripplingBlow strikes, then leaves a surviving target Weakened.
func CripplingBlow() *ActionCard {
	return &ActionCard{
		id:             uuid.New(),
		Name:           "Crippling Blow",
		Description:    "Strike, then Weaken the target (-1 attack damage) for 2 turns.",
		Speed:          SpeedSlow,
		CooldownRounds: 1,
		Targeting:      TargetSingleEnemy,
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			t := a.SelectTarget(ctx, selected)
			if t == nil {
				return nil
			}
			a.DealAttackCombo(ctx, t)
			if t.IsAlive() {
				t.ApplyStatus(WeakenedStatus(1, 2))
			}
			return nil
		},
	}
}

// Guard improves the caster's next defense draw.
func Guard() *ActionCard {
	return &ActionCard{
		id:          uuid.New(),
		Name:        "Guard",
		Description: "Gain defense advantage on the next hit you take.",
		Speed:       SpeedFast,
		Targeting:   TargetSelf,
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			ctx.Advantage.Grant(ctx.Caster, ChannelDefense, 1)
			ctx.Svc.Emit(advantageEvent(ctx.Caster, ChannelDefense, 1))
			return nil
		},
	}
}

// Focus improves the caster's next attack draw.
func Focus() *ActionCard {
	return &ActionCard{
		id:             uuid.New(),
		Name:           "Focus",
		Description:    "Gain attack advantage on your next strike.",
		Speed:          SpeedFast,
		CooldownRounds: 2,
		Targeting:      TargetSelf,
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			ctx.Advantage.Grant(ctx.Caster, ChannelAttack, 1)
			ctx.Svc.Emit(advantageEvent(ctx.Caster, ChannelAttack, 1))
			return nil
		},
	}
}

// SiphonRitual drains 1 HP per turn from its target into the caster for 3
// turns. It needs concentration: the ritual ends if the caster is hurt.
func SiphonRitual() *ActionCard {
	return &ActionCard{
		id:                    uuid.New(),
		Name:                  "Siphon Ritual",
		Description:           "Concentrate: drain 1 HP per turn from an enemy for 3 turns.",
		Speed:                 SpeedSlow,
		CooldownRounds:        3,
		Targeting:             TargetSingleEnemy,
		DurationTurns:         3,
		RequiresConcentration: true,
		CanBeginFunc: func(a *ActionCard, ctx *ActionContext) (bool, string) {
			if len(ctx.LivingEnemies()) == 0 {
				return false, "no enemy to siphon"
			}
			return true, ""
		},
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			t := a.SelectTarget(ctx, selected)
			if t == nil {
				return nil
			}
			drained := 0
			return a.MakeHandle(ctx, []*Entity{t}, WithUserData(&drained))
		},
		TickFunc: func(a *ActionCard, ctx *ActionContext, h *OngoingActionHandle) {
			if !h.Caster.IsAlive() {
				return
			}
			drained, _ := h.UserData.(*int)
			for _, t := range living(h.Targets) {
				before := t.HP()
				t.TakeDamage(1, false, 0, h.Caster, DamageDrain, a)
				got := before - t.HP()
				if got <= 0 {
					continue
				}
				h.Caster.Heal(got, a.Name)
				if drained != nil {
					*drained += got
				}
			}
		},
		CancelFunc: func(a *ActionCard, ctx *ActionContext, h *OngoingActionHandle) {
			drained := 0
			if p, ok := h.UserData.(*int); ok && p != nil {
				drained = *p
			}
			ctx.Svc.Diag().Debug("siphon ritual cancelled",
				zap.String("caster", h.Caster.Name),
				zap.Int("remaining", h.RemainingTurns),
				zap.Int("drained", drained),
			)
		},
	}
}

// DarkPact trades 2 HP for Empowered 2 over 2 turns. Once per encounter.
func DarkPact() *ActionCard {
	return &ActionCard{
		id:          uuid.New(),
		Name:        "Dark Pact",
		Description: "Lose 2 HP, gain Empowered (+2 attack damage) for 2 turns. Exhausts.",
		Speed:       SpeedFast,
		Exhausts:    ExhaustEncounter,
		Targeting:   TargetSelf,
		CanBeginFunc: func(a *ActionCard, ctx *ActionContext) (bool, string) {
			if ctx.Caster.HP() <= 2 {
				return false, "not enough HP"
			}
			return true, ""
		},
		BeginFunc: func(a *ActionCard, ctx *ActionContext, selected []*Entity) *OngoingActionHandle {
			ctx.Caster.TakeDamage(2, false, 0, ctx.Caster, DamageDrain, a)
			ctx.Caster.ApplyStatus(EmpoweredStatus(2, 2))
			return nil
		},
	}
}

func advantageEvent(e *Entity, ch Channel, delta int) log.GameEvent {
	return log.NewAdvantageEvent(e.Name, ch.String(), delta)
}
