package encounter

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/gloomdeck/internal/combat"
	"github.com/peterkuimelis/gloomdeck/internal/log"
)

// PlayerController is the interface that human (TCP/WebSocket), agent (MCP)
// and scripted players implement.
type PlayerController interface {
	// ChooseAction presents the playable choices and waits for one.
	ChooseAction(ctx context.Context, state *State, choices []Choice) (Choice, error)

	// ChooseTarget asks which of the candidates a card should hit.
	ChooseTarget(ctx context.Context, state *State, card *combat.ActionCard, candidates []*combat.Entity) (*combat.Entity, error)

	// Notify sends a combat event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// ChoiceKind discriminates a Choice.
type ChoiceKind int

const (
	ChoicePlay ChoiceKind = iota
	ChoiceEndTurn
)

// Choice is one option offered to a player during their turn.
type Choice struct {
	Kind ChoiceKind
	Card *combat.ActionCard // for ChoicePlay
}

func (c Choice) String() string {
	switch c.Kind {
	case ChoicePlay:
		s := fmt.Sprintf("Play %s", c.Card.Name)
		if c.Card.Speed != combat.SpeedNormal {
			s += fmt.Sprintf(" (%s)", c.Card.Speed)
		}
		if c.Card.Description != "" {
			s += ": " + c.Card.Description
		}
		return s
	case ChoiceEndTurn:
		return "End turn"
	default:
		return "Unknown choice"
	}
}

// AutoController plays the first offered card against the first candidate
// target. It never ends a turn while it still has a card to play.
type AutoController struct{}

func (AutoController) ChooseAction(ctx context.Context, state *State, choices []Choice) (Choice, error) {
	return choices[0], nil
}

func (AutoController) ChooseTarget(ctx context.Context, state *State, card *combat.ActionCard, candidates []*combat.Entity) (*combat.Entity, error) {
	return candidates[0], nil
}

func (AutoController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}
