package combat

import (
	"testing"

	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap/zaptest"
)

// newTestServices returns services that record events in memory and send
// diagnostics to the test log.
func newTestServices(t *testing.T) (*Services, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	return &Services{Logger: zaptest.NewLogger(t), Events: logger}, logger
}

// fighter builds a combatant with fixed attack and defense decks and an
// empty action deck.
func fighter(name string, side Side, hp int, attack, defense []Card, svc *Services) *Entity {
	decks := NewDeckManager(1, 2, 3)
	decks.Attack.Load(attack)
	decks.Defense.Load(defense)
	var e *Entity
	if side == SidePlayer {
		e = NewPlayer(name, hp, decks)
	} else {
		e = NewEnemy(name, decks, nil, hp)
	}
	e.Svc = svc
	return e
}

// duelContext returns an action context for caster against one enemy.
func duelContext(caster, enemy *Entity, svc *Services) *ActionContext {
	return &ActionContext{
		Caster:    caster,
		Allies:    []*Entity{caster},
		Enemies:   []*Entity{enemy},
		Advantage: NewAdvantageTracker(),
		Svc:       svc,
	}
}

func cards(cs ...Card) []Card { return cs }

// deckCounts captures every pile size of a deck.
type deckCounts struct {
	draw, discard, held, exhausted int
}

func countsOf(d *Deck) deckCounts {
	return deckCounts{d.DrawCount(), d.DiscardCount(), d.HeldCount(), d.ExhaustedCount()}
}
