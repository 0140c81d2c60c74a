package combat

import "go.uber.org/zap"

// Scheduler accepts ongoing handles. The turn driver implements it.
type Scheduler interface {
	Schedule(h *OngoingActionHandle)
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(h *OngoingActionHandle)

func (f SchedulerFunc) Schedule(h *OngoingActionHandle) { f(h) }

// EnemyAI is an enemy's turn policy. TakeTurn must only act through the
// action-card pipeline (PlayFromActionDeck or Play), never by editing
// decks directly.
type EnemyAI struct {
	TakeTurn func(enemy *Entity, ctx *ActionContext, sched Scheduler)
}

// SimpleAI plays from the action deck once per turn with the given budget.
func SimpleAI(maxAttempts int) *EnemyAI {
	return &EnemyAI{
		TakeTurn: func(enemy *Entity, ctx *ActionContext, sched Scheduler) {
			PlayFromActionDeck(enemy, ctx, sched, maxAttempts)
		},
	}
}

// PlayFromActionDeck draws action cards until one plays or maxAttempts
// draws have been spent. Unplayable cards are put away and count against
// the budget. A played card's handle goes to sched. It reports whether a
// card was played.
func PlayFromActionDeck(enemy *Entity, ctx *ActionContext, sched Scheduler, maxAttempts int) bool {
	if enemy == nil || !enemy.IsAlive() {
		return false
	}
	diag := ctx.Svc.Diag().With(zap.String("enemy", enemy.Name))

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if !enemy.IsAlive() || len(ctx.LivingEnemies()) == 0 {
			return false
		}
		card, err := enemy.Decks.Action.Draw()
		if err != nil {
			diag.Debug("action deck empty", zap.Error(err))
			return false
		}
		ctx.Svc.Emit(drawEvent(enemy, ChannelAction, card))

		action, ok := card.(*ActionCard)
		if !ok {
			// Only action cards belong here; anything else is a dead draw.
			_ = enemy.Decks.Action.Discard(card)
			continue
		}

		h, err := Play(ctx, action, nil)
		if err != nil {
			diag.Debug("card unplayable", zap.String("card", action.Name), zap.Error(err))
			_ = enemy.Decks.Action.Discard(action)
			continue
		}
		if h != nil && sched != nil {
			sched.Schedule(h)
		}
		if err := enemy.PutAway(action); err != nil {
			diag.Warn("put away failed", zap.String("card", action.Name), zap.Error(err))
		}
		return true
	}
	return false
}
