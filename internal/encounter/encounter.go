package encounter

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultMaxRounds    = 50
	DefaultHandSize     = 3
	DefaultPlaysPerTurn = 2
)

// Config holds configuration for creating a new encounter.
type Config struct {
	Players    []*combat.Entity // one PlayerController each, in order
	Enemies    []*combat.Entity
	Events     []*combat.EventCard
	Difficulty combat.Difficulty
	Logger     log.EventLogger
	Diag       *zap.Logger
	MaxRounds  int // stalemate after this many rounds (0 = DefaultMaxRounds)

	// HandSize is how many action cards a player draws each turn.
	HandSize int

	// PlaysPerTurn bounds normal-speed plays per turn. Fast cards are
	// free; a slow card ends the turn.
	PlaysPerTurn int
}

// Encounter orchestrates one battle between the players and the enemies.
type Encounter struct {
	State       *State
	Controllers []PlayerController
	Logger      log.EventLogger
	Advantage   *combat.AdvantageTracker

	svc          *combat.Services
	ctx          context.Context
	maxRounds    int
	handSize     int
	playsPerTurn int
}

// New creates an encounter. There must be exactly one controller per
// player entity.
func New(cfg Config, controllers ...PlayerController) (*Encounter, error) {
	if len(cfg.Players) == 0 || len(cfg.Enemies) == 0 {
		return nil, errors.New("encounter needs at least one player and one enemy")
	}
	if len(controllers) != len(cfg.Players) {
		return nil, fmt.Errorf("have %d controllers for %d players", len(controllers), len(cfg.Players))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	diag := cfg.Diag
	if diag == nil {
		diag = zap.NewNop()
	}

	e := &Encounter{
		State:        newState(cfg),
		Controllers:  append([]PlayerController(nil), controllers...),
		Logger:       logger,
		Advantage:    combat.NewAdvantageTracker(),
		ctx:          context.Background(),
		maxRounds:    orDefault(cfg.MaxRounds, DefaultMaxRounds),
		handSize:     orDefault(cfg.HandSize, DefaultHandSize),
		playsPerTurn: orDefault(cfg.PlaysPerTurn, DefaultPlaysPerTurn),
	}
	e.svc = &combat.Services{Logger: diag, Events: notifier{e}}
	return e, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Run executes the whole encounter loop and returns the winning side
// (NoWinner for a stalemate).
func (e *Encounter) Run(ctx context.Context) (combat.Side, error) {
	e.ctx = ctx
	st := e.State

	e.setup()
	defer e.teardown()

	if st.CheckWinCondition() {
		e.announce()
		return st.Winner, nil
	}

	for !st.Over {
		if st.Round >= e.maxRounds {
			st.Over = true
			st.Winner = NoWinner
			st.Result = fmt.Sprintf("Round limit reached (%d rounds)", e.maxRounds)
			e.log(log.NewStalemateEvent("round limit"))
			break
		}
		if err := e.runRound(); err != nil {
			return st.Winner, err
		}
		if err := e.ctx.Err(); err != nil {
			return NoWinner, err
		}
	}
	e.announce()
	return st.Winner, nil
}

func (e *Encounter) announce() {
	st := e.State
	if st.Winner != NoWinner {
		e.log(log.NewWinEvent(st.Winner.String(), "the other side has fallen"))
	}
	e.svc.Diag().Info("encounter over",
		zap.Stringer("winner", st.Winner),
		zap.Int("rounds", st.Round),
		zap.String("result", st.Result),
	)
}

// setup wires every combatant to the encounter and resolves battle-start
// effects: equipment statuses first, then events.
func (e *Encounter) setup() {
	st := e.State
	e.setPhase(PhaseSetup)

	for _, ent := range e.all() {
		ent.Svc = e.svc
		ent.OnDamaged(e.breakConcentration)
		for _, ch := range []combat.Channel{combat.ChannelAttack, combat.ChannelDefense, combat.ChannelAction} {
			name, channel := ent.Name, ch.String()
			ent.Decks.Deck(ch).OnReshuffle = func(count int) {
				e.log(log.NewReshuffleEvent(name, channel, count))
			}
		}
	}
	for _, ent := range e.all() {
		ent.BeginBattle()
	}

	ectx := e.eventContext()
	combat.ActivateEvents(st.Events, ectx)
	combat.FireEvents(st.Events, combat.TriggerOnBattleStart, ectx)
}

// teardown sweeps encounter-scoped state off every combatant.
func (e *Encounter) teardown() {
	e.setPhase(PhaseEnd)
	combat.FireEvents(e.State.Events, combat.TriggerOnBattleEnd, e.eventContext())
	for _, ent := range e.all() {
		for _, card := range e.State.hands[ent.ID()] {
			_ = ent.Decks.Action.Discard(card)
		}
		delete(e.State.hands, ent.ID())
		e.Advantage.Forget(ent)
		ent.EndBattle()
	}
	e.State.handles = nil
}

func (e *Encounter) eventContext() *combat.EventContext {
	return &combat.EventContext{
		Difficulty: e.State.Difficulty,
		Payload:    &combat.BattleStartInfo{Players: e.State.Players, Enemies: e.State.Enemies},
		Svc:        e.svc,
	}
}

func (e *Encounter) all() []*combat.Entity {
	out := append([]*combat.Entity(nil), e.State.Players...)
	return append(out, e.State.Enemies...)
}

// runRound executes one round: round start, every player's turn, every
// enemy's turn, then upkeep.
func (e *Encounter) runRound() error {
	st := e.State
	st.Round++
	e.svc.Round = st.Round
	e.log(log.NewRoundEvent(st.Round))

	e.setPhase(PhaseRoundStart)
	for _, ent := range e.all() {
		ent.TickCooldowns()
	}
	combat.FireEvents(st.Events, combat.TriggerOnRoundStart, e.eventContext())
	if st.CheckWinCondition() {
		return nil
	}

	e.setPhase(PhasePlayer)
	for i, p := range st.Players {
		if !p.IsAlive() {
			continue
		}
		if err := e.playerTurn(p, e.Controllers[i]); err != nil {
			return err
		}
		if st.CheckWinCondition() {
			return nil
		}
	}

	e.setPhase(PhaseEnemy)
	for _, en := range st.Enemies {
		if !en.IsAlive() || en.AI == nil || en.AI.TakeTurn == nil {
			continue
		}
		st.Active = en
		en.AI.TakeTurn(en, e.actionContext(en), e)
		st.Active = nil
		if st.CheckWinCondition() {
			return nil
		}
	}

	e.setPhase(PhaseUpkeep)
	e.tickHandles()
	if st.CheckWinCondition() {
		return nil
	}
	for _, ent := range e.all() {
		if ent.IsAlive() {
			ent.TickStatuses()
		}
	}
	st.CheckWinCondition()
	return nil
}

// playerTurn draws a hand and lets the controller play from it until it
// ends the turn, runs out of plays or runs out of playable cards. Cards
// left in hand are discarded at the end of the turn.
func (e *Encounter) playerTurn(p *combat.Entity, ctrl PlayerController) error {
	st := e.State
	st.Active = p
	defer func() { st.Active = nil }()

	for n := 0; len(st.hands[p.ID()]) < e.handSize && n < p.Decks.Action.Size(); n++ {
		card, err := p.Decks.Action.Draw()
		if err != nil {
			break
		}
		e.log(log.NewDrawEvent(p.Name, combat.ChannelAction.String(), card.String()))
		action, ok := card.(*combat.ActionCard)
		if !ok {
			_ = p.Decks.Action.Discard(card)
			continue
		}
		st.hands[p.ID()] = append(st.hands[p.ID()], action)
	}

	plays := 0
	for !st.Over && p.IsAlive() && plays < e.playsPerTurn {
		choices := e.choices(p)
		if len(choices) == 1 {
			break
		}
		chosen, err := ctrl.ChooseAction(e.ctx, st, choices)
		if err != nil {
			return err
		}
		if chosen.Kind == ChoiceEndTurn {
			break
		}

		card := chosen.Card
		targets, err := e.chooseTargets(p, ctrl, card)
		if err != nil {
			return err
		}
		h, err := combat.Play(e.actionContext(p), card, targets)
		var rejected *combat.ActionRejectedError
		if errors.As(err, &rejected) {
			// A rejected play still spends the play.
			e.svc.Diag().Debug("player action rejected", zap.String("player", p.Name), zap.Error(err))
			plays++
			continue
		}
		if err != nil {
			return err
		}
		if h != nil {
			e.Schedule(h)
		}
		st.removeFromHand(p, card)
		if err := p.PutAway(card); err != nil {
			return fmt.Errorf("put away %s: %w", card.Name, err)
		}
		st.CheckWinCondition()

		switch card.Speed {
		case combat.SpeedFast:
		case combat.SpeedSlow:
			plays = e.playsPerTurn
		default:
			plays++
		}
	}

	for _, card := range st.hands[p.ID()] {
		_ = p.Decks.Action.Discard(card)
	}
	delete(st.hands, p.ID())
	return nil
}

// choices lists the cards p can play right now, then End turn.
func (e *Encounter) choices(p *combat.Entity) []Choice {
	ctx := e.actionContext(p)
	var out []Choice
	for _, card := range e.State.hands[p.ID()] {
		if p.Cooldown(card) > 0 {
			continue
		}
		if ok, _ := card.CanBegin(ctx); !ok {
			continue
		}
		out = append(out, Choice{Kind: ChoicePlay, Card: card})
	}
	return append(out, Choice{Kind: ChoiceEndTurn})
}

// chooseTargets asks the controller for a target when the card needs a
// single one and there is more than one candidate.
func (e *Encounter) chooseTargets(p *combat.Entity, ctrl PlayerController, card *combat.ActionCard) ([]*combat.Entity, error) {
	var candidates []*combat.Entity
	switch card.Targeting {
	case combat.TargetSingleEnemy:
		candidates = e.State.Side(p.Side.Opponent())
	case combat.TargetSingleAlly:
		candidates = e.State.Side(p.Side)
	default:
		return nil, nil
	}
	if len(candidates) <= 1 {
		return candidates, nil
	}
	t, err := ctrl.ChooseTarget(e.ctx, e.State, card, candidates)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	return []*combat.Entity{t}, nil
}

func (e *Encounter) actionContext(caster *combat.Entity) *combat.ActionContext {
	return &combat.ActionContext{
		Caster:    caster,
		Allies:    e.State.Allies(caster),
		Enemies:   e.State.Opponents(caster),
		Advantage: e.Advantage,
		Svc:       e.svc,
	}
}

// Schedule implements combat.Scheduler.
func (e *Encounter) Schedule(h *combat.OngoingActionHandle) {
	e.State.handles = append(e.State.handles, h)
	e.log(log.NewHandleScheduledEvent(h.Caster.Name, h.Card.Name, h.RemainingTurns))
}

// tickHandles advances every ongoing action by one turn. Handles whose
// caster has fallen are cancelled instead.
func (e *Encounter) tickHandles() {
	st := e.State
	for _, h := range st.Handles() {
		if !st.scheduled(h) {
			continue
		}
		ctx := e.actionContext(h.Caster)
		if !h.Caster.IsAlive() {
			h.Card.Cancel(ctx, h)
			st.unschedule(h)
			e.log(log.NewHandleEndedEvent(h.Caster.Name, h.Card.Name))
			continue
		}
		h.Card.Tick(ctx, h)
		if !st.scheduled(h) {
			continue
		}
		h.RemainingTurns--
		if h.RemainingTurns > 0 {
			e.log(log.NewHandleTickEvent(h.Caster.Name, h.Card.Name, h.RemainingTurns))
			continue
		}
		st.unschedule(h)
		e.log(log.NewHandleEndedEvent(h.Caster.Name, h.Card.Name))
	}
}

// breakConcentration cancels every concentration handle of a caster that
// just lost HP.
func (e *Encounter) breakConcentration(ent *combat.Entity, amount int, info *combat.DamageInfo) {
	st := e.State
	for _, h := range st.Handles() {
		if !h.Concentration || h.Caster != ent || !st.scheduled(h) {
			continue
		}
		st.unschedule(h)
		h.Card.Cancel(e.actionContext(ent), h)
		e.log(log.NewConcentrationBrokenEvent(ent.Name, h.Card.Name))
	}
}

func (e *Encounter) setPhase(p Phase) {
	e.State.Phase = p
	e.svc.Phase = p.String()
	if p != PhaseSetup {
		e.log(log.NewPhaseChangeEvent(p.String()))
	}
}

// log emits a combat event through the services, which stamp it and fan
// it out to the logger and every controller.
func (e *Encounter) log(event log.GameEvent) {
	e.svc.Emit(event)
}

// notifier is the EventLogger the engine reports through: it records the
// event and notifies every controller.
type notifier struct{ e *Encounter }

func (n notifier) Log(event log.GameEvent) {
	n.e.Logger.Log(event)
	// Notification errors are ignored; a dropped observer must not stop
	// the encounter.
	for _, c := range n.e.Controllers {
		_ = c.Notify(n.e.ctx, event)
	}
}

func (n notifier) Events() []log.GameEvent {
	return n.e.Logger.Events()
}
