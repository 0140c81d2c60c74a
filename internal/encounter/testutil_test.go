package encounter

import (
	"context"
	"testing"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ScriptedController is a PlayerController that follows a predefined script
// of card names. Used in tests to deterministically drive the encounter.
type ScriptedController struct {
	t     *testing.T
	name  string
	plays []string
	pos   int

	// For ChooseTarget prompts, by entity name
	targets   []string
	targetPos int

	notified []log.GameEvent
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddPlay(cardNames ...string) *ScriptedController {
	sc.plays = append(sc.plays, cardNames...)
	return sc
}

func (sc *ScriptedController) AddTarget(entityName string) *ScriptedController {
	sc.targets = append(sc.targets, entityName)
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *State, choices []Choice) (Choice, error) {
	end := choices[len(choices)-1]
	if sc.pos >= len(sc.plays) {
		return end, nil
	}

	// Only consume the next scripted card once it is offered, so a script
	// can span several turns.
	want := sc.plays[sc.pos]
	for _, c := range choices {
		if c.Kind == ChoicePlay && c.Card.Name == want {
			sc.pos++
			return c, nil
		}
	}
	return end, nil
}

func (sc *ScriptedController) ChooseTarget(ctx context.Context, state *State, card *combat.ActionCard, candidates []*combat.Entity) (*combat.Entity, error) {
	if sc.targetPos >= len(sc.targets) {
		return candidates[0], nil
	}
	want := sc.targets[sc.targetPos]
	sc.targetPos++
	for _, c := range candidates {
		if c.Name == want {
			return c, nil
		}
	}
	sc.t.Errorf("%s: scripted target %q not among candidates", sc.name, want)
	return candidates[0], nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	sc.notified = append(sc.notified, event)
	return nil
}

// combatant builds an entity with fixed decks.
func combatant(name string, side combat.Side, hp int, attack, defense, actions []combat.Card, ai *combat.EnemyAI) *combat.Entity {
	decks := combat.NewDeckManager(11, 12, 13)
	decks.Attack.Load(attack)
	decks.Defense.Load(defense)
	decks.Action.Load(actions)
	if side == combat.SidePlayer {
		return combat.NewPlayer(name, hp, decks)
	}
	return combat.NewEnemy(name, decks, ai, hp)
}

func cards(cs ...combat.Card) []combat.Card { return cs }

// runEncounter runs an encounter to completion and returns its log.
func runEncounter(t *testing.T, cfg Config, controllers ...PlayerController) (*Encounter, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.Diag = zaptest.NewLogger(t)

	enc, err := New(cfg, controllers...)
	require.NoError(t, err)
	_, err = enc.Run(context.Background())
	require.NoError(t, err)
	return enc, logger
}

// countFor counts events of type typ whose actor is actor.
func countFor(logger *log.MemoryLogger, typ log.EventType, actor string) int {
	n := 0
	for _, ev := range logger.EventsOfType(typ) {
		if ev.Actor == actor {
			n++
		}
	}
	return n
}
