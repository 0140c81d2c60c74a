package combat

import (
	"errors"
	"testing"

	"github.com/peterkuimelis/gloomdeck/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeechStrikeGrantsLifestealBeforeDrawing(t *testing.T) {
	svc, logger := newTestServices(t)
	// The only attack card is a miss, so no damage is dealt at all.
	hero := fighter("Hero", SidePlayer, 16, cards(AttackMissCard()), nil, svc)
	foe := fighter("Foe", SideEnemy, 16, nil, nil, svc)

	h, err := Play(duelContext(hero, foe, svc), LeechStrike(), nil)
	require.NoError(t, err)
	assert.Nil(t, h)

	ls := hero.Status(StatusLifesteal)
	require.NotNil(t, ls)
	assert.Equal(t, 2, ls.Remaining)
	assert.InDelta(t, 0.5, ls.Ratio, 1e-9)
	assert.Equal(t, 16, foe.HP())

	// The status event precedes the first draw.
	var order []log.EventType
	for _, ev := range logger.Events() {
		if ev.Type == log.EventStatusApplied || ev.Type == log.EventDraw {
			order = append(order, ev.Type)
		}
	}
	assert.Equal(t, []log.EventType{log.EventStatusApplied, log.EventDraw}, order)
}

func TestPlayRejectionLeavesStateUntouched(t *testing.T) {
	svc, logger := newTestServices(t)
	hero := fighter("Hero", SidePlayer, 16, cards(AttackHitCard(2)), cards(DefenseBlockCard(1)), svc)
	foe := fighter("Foe", SideEnemy, 16, nil, nil, svc)
	hero.SetHP(2)

	pact := DarkPact()
	attackBefore, defenseBefore := countsOf(hero.Decks.Attack), countsOf(hero.Decks.Defense)

	h, err := Play(duelContext(hero, foe, svc), pact, nil)
	assert.Nil(t, h)

	var rejected *ActionRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "Dark Pact", rejected.Card)
	assert.Equal(t, "not enough HP", rejected.Reason)

	assert.Equal(t, 2, hero.HP())
	assert.Empty(t, hero.Statuses())
	assert.Equal(t, 0, hero.Cooldown(pact))
	assert.Equal(t, attackBefore, countsOf(hero.Decks.Attack))
	assert.Equal(t, defenseBefore, countsOf(hero.Decks.Defense))
	assert.Len(t, logger.EventsOfType(log.EventActionRejected), 1)
	assert.Empty(t, logger.EventsOfType(log.EventActionBegin))
}

func TestPlayRejectsDeadCasterAndCooldown(t *testing.T) {
	svc, _ := newTestServices(t)
	hero := fighter("Hero", SidePlayer, 10, cards(AttackHitCard(1)), nil, svc)
	foe := fighter("Foe", SideEnemy, 30, nil, nil, svc)
	ctx := duelContext(hero, foe, svc)

	blow := CripplingBlow()
	_, err := Play(ctx, blow, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, hero.Cooldown(blow))
	assert.True(t, foe.HasStatus(StatusWeakened))

	_, err = Play(ctx, blow, nil)
	assert.EqualError(t, err, `action "Crippling Blow" rejected: on cooldown`)

	hero.TickCooldowns()
	assert.Equal(t, 0, hero.Cooldown(blow))

	hero.SetHP(0)
	_, err = Play(ctx, Strike(), nil)
	assert.EqualError(t, err, `action "Strike" rejected: caster cannot act`)
}

func TestMakeHandleDefaults(t *testing.T) {
	hero := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	foe := fighter("Foe", SideEnemy, 10, nil, nil, nil)
	ctx := duelContext(hero, foe, nil)

	instant := NewActionCard("Blink", "")
	h := instant.MakeHandle(ctx, []*Entity{foe})
	assert.Equal(t, 1, h.RemainingTurns)
	assert.False(t, h.Concentration)
	assert.Same(t, hero, h.Caster)
	assert.Same(t, instant, h.Card)

	ritual := SiphonRitual()
	h = ritual.MakeHandle(ctx, nil, WithDuration(5), WithUserData("x"))
	assert.Equal(t, 5, h.RemainingTurns)
	assert.True(t, h.Concentration)
	assert.Equal(t, "x", h.UserData)
}

func TestMakeHandleSnapshotsTargets(t *testing.T) {
	hero := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	foe := fighter("Foe", SideEnemy, 10, nil, nil, nil)
	targets := []*Entity{foe}

	h := SiphonRitual().MakeHandle(duelContext(hero, foe, nil), targets)
	targets[0] = hero
	assert.Same(t, foe, h.Targets[0])
}

func TestDefaultHooksAreNoOps(t *testing.T) {
	hero := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	foe := fighter("Foe", SideEnemy, 10, nil, nil, nil)
	ctx := duelContext(hero, foe, nil)

	a := NewActionCard("Wait", "Do nothing.")
	ok, reason := a.CanBegin(ctx)
	assert.True(t, ok)
	assert.Empty(t, reason)
	assert.Nil(t, a.Begin(ctx, nil))
	a.Tick(ctx, nil)
	a.Cancel(ctx, nil)
}

func TestSelectTargetPrefersLivingSelection(t *testing.T) {
	hero := fighter("Hero", SidePlayer, 10, nil, nil, nil)
	a := fighter("A", SideEnemy, 10, nil, nil, nil)
	b := fighter("B", SideEnemy, 10, nil, nil, nil)
	ctx := &ActionContext{Caster: hero, Enemies: []*Entity{a, b}}
	strike := Strike()

	assert.Same(t, b, strike.SelectTarget(ctx, []*Entity{b}))
	b.SetHP(0)
	assert.Same(t, a, strike.SelectTarget(ctx, []*Entity{b}))
	a.SetHP(0)
	assert.Nil(t, strike.SelectTarget(ctx, nil))
}

func TestGuardAdvantageIsConsumedByNextHit(t *testing.T) {
	svc, _ := newTestServices(t)
	hero := fighter("Hero", SidePlayer, 20, cards(AttackHitCard(1)), cards(DefenseBlockCard(0), DefenseBlockCard(3)), svc)
	foe := fighter("Foe", SideEnemy, 20, cards(AttackHitCard(4)), nil, svc)
	adv := NewAdvantageTracker()

	heroCtx := &ActionContext{Caster: hero, Allies: []*Entity{hero}, Enemies: []*Entity{foe}, Advantage: adv, Svc: svc}
	_, err := Play(heroCtx, Guard(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, adv.Peek(hero, ChannelDefense))

	// With advantage the hero draws both defense cards and keeps Block 3.
	foeCtx := &ActionContext{Caster: foe, Allies: []*Entity{foe}, Enemies: []*Entity{hero}, Advantage: adv, Svc: svc}
	dealt := Strike().DealAttackCombo(foeCtx, hero)
	assert.Equal(t, 1, dealt)
	assert.Equal(t, 0, adv.Peek(hero, ChannelDefense))
}

func TestSiphonRitualDrainsOnTick(t *testing.T) {
	svc, _ := newTestServices(t)
	hero := fighter("Hero", SidePlayer, 16, nil, nil, svc)
	hero.SetHP(10)
	foe := fighter("Foe", SideEnemy, 16, nil, nil, svc)
	ctx := duelContext(hero, foe, svc)

	ritual := SiphonRitual()
	h, err := Play(ctx, ritual, nil)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, 3, h.RemainingTurns)
	assert.True(t, h.Concentration)
	assert.Equal(t, 3, hero.Cooldown(ritual))

	ritual.Tick(ctx, h)
	ritual.Tick(ctx, h)
	assert.Equal(t, 14, foe.HP())
	assert.Equal(t, 12, hero.HP())
	assert.Equal(t, 2, *h.UserData.(*int))
}

func TestSiphonRitualNeedsAnEnemy(t *testing.T) {
	hero := fighter("Hero", SidePlayer, 16, nil, nil, nil)
	foe := fighter("Foe", SideEnemy, 16, nil, nil, nil)
	foe.SetHP(0)

	_, err := Play(duelContext(hero, foe, nil), SiphonRitual(), nil)
	assert.EqualError(t, err, `action "Siphon Ritual" rejected: no enemy to siphon`)
}

func TestDarkPactCostsHPAndEmpowers(t *testing.T) {
	svc, _ := newTestServices(t)
	hero := fighter("Hero", SidePlayer, 16, nil, nil, svc)
	foe := fighter("Foe", SideEnemy, 16, nil, nil, svc)

	var hurt []DamageKind
	hero.OnDamaged(func(e *Entity, amount int, info *DamageInfo) { hurt = append(hurt, info.Kind) })

	_, err := Play(duelContext(hero, foe, svc), DarkPact(), nil)
	require.NoError(t, err)
	assert.Equal(t, 14, hero.HP())
	assert.Equal(t, []DamageKind{DamageDrain}, hurt)
	emp := hero.Status(StatusEmpowered)
	require.NotNil(t, emp)
	assert.Equal(t, 2, emp.Magnitude)
}

func TestPutAwayExhaustsOrDiscards(t *testing.T) {
	hero := fighter("Hero", SidePlayer, 16, nil, nil, nil)
	pact, strike := DarkPact(), Strike()
	hero.Decks.Action.Load(cards(pact, strike))
	for range 2 {
		_, err := hero.Decks.Action.Draw()
		require.NoError(t, err)
	}

	require.NoError(t, hero.PutAway(pact))
	require.NoError(t, hero.PutAway(strike))
	assert.Equal(t, 1, hero.Decks.Action.ExhaustedCount())
	assert.Equal(t, 1, hero.Decks.Action.DiscardCount())
	assert.ErrorIs(t, hero.PutAway(strike), ErrCardNotHeld)
}
