package encounter

import (
	"github.com/google/uuid"
	"github.com/peterkuimelis/gloomdeck/internal/combat"
)

// Phase names the step of a round.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseRoundStart
	PhasePlayer
	PhaseEnemy
	PhaseUpkeep
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRoundStart:
		return "Round Start"
	case PhasePlayer:
		return "Player"
	case PhaseEnemy:
		return "Enemy"
	case PhaseUpkeep:
		return "Upkeep"
	case PhaseEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// NoWinner is the Winner of an encounter that ended in a stalemate.
const NoWinner combat.Side = -1

// State is the whole encounter as controllers see it.
type State struct {
	Round      int
	Phase      Phase
	Difficulty combat.Difficulty
	Players    []*combat.Entity
	Enemies    []*combat.Entity
	Events     []*combat.EventCard
	Active     *combat.Entity // whose turn it is, nil between turns

	Over   bool
	Winner combat.Side
	Result string

	hands   map[uuid.UUID][]*combat.ActionCard
	handles []*combat.OngoingActionHandle
}

func newState(cfg Config) *State {
	return &State{
		Difficulty: cfg.Difficulty,
		Players:    append([]*combat.Entity(nil), cfg.Players...),
		Enemies:    append([]*combat.Entity(nil), cfg.Enemies...),
		Events:     append([]*combat.EventCard(nil), cfg.Events...),
		Winner:     NoWinner,
		hands:      make(map[uuid.UUID][]*combat.ActionCard),
	}
}

// Hand returns a snapshot of the action cards e holds.
func (s *State) Hand(e *combat.Entity) []*combat.ActionCard {
	h := s.hands[e.ID()]
	out := make([]*combat.ActionCard, len(h))
	copy(out, h)
	return out
}

func (s *State) removeFromHand(e *combat.Entity, card *combat.ActionCard) {
	h := s.hands[e.ID()]
	for i, c := range h {
		if c == card {
			s.hands[e.ID()] = append(h[:i], h[i+1:]...)
			return
		}
	}
}

// Handles returns a snapshot of the ongoing actions in schedule order.
func (s *State) Handles() []*combat.OngoingActionHandle {
	out := make([]*combat.OngoingActionHandle, len(s.handles))
	copy(out, s.handles)
	return out
}

func (s *State) scheduled(h *combat.OngoingActionHandle) bool {
	for _, cur := range s.handles {
		if cur == h {
			return true
		}
	}
	return false
}

func (s *State) unschedule(h *combat.OngoingActionHandle) bool {
	for i, cur := range s.handles {
		if cur == h {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			return true
		}
	}
	return false
}

// Side returns the living members of a side.
func (s *State) Side(side combat.Side) []*combat.Entity {
	var list []*combat.Entity
	if side == combat.SidePlayer {
		list = s.Players
	} else {
		list = s.Enemies
	}
	var out []*combat.Entity
	for _, e := range list {
		if e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// Opponents returns the entities on the other side from e, living or not.
func (s *State) Opponents(e *combat.Entity) []*combat.Entity {
	if e.Side == combat.SidePlayer {
		return s.Enemies
	}
	return s.Players
}

// Allies returns the entities on e's side, e included.
func (s *State) Allies(e *combat.Entity) []*combat.Entity {
	if e.Side == combat.SidePlayer {
		return s.Players
	}
	return s.Enemies
}

// CheckWinCondition ends the encounter when one side has no one standing.
func (s *State) CheckWinCondition() bool {
	if s.Over {
		return true
	}
	switch {
	case len(s.Side(combat.SideEnemy)) == 0:
		s.Over = true
		s.Winner = combat.SidePlayer
		s.Result = "Players win: every enemy has fallen"
	case len(s.Side(combat.SidePlayer)) == 0:
		s.Over = true
		s.Winner = combat.SideEnemy
		s.Result = "Enemies win: every player has fallen"
	}
	return s.Over
}
