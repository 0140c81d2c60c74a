package combat

import (
	"github.com/peterkuimelis/gloomdeck/internal/log"
	"go.uber.org/zap"
)

// Services bundles the collaborators the engine reports through. The turn
// driver owns it and keeps Round and Phase current; a nil *Services is
// valid and silences all output.
type Services struct {
	Logger *zap.Logger
	Events log.EventLogger
	Round  int
	Phase  string
}

// Emit stamps the event with the current round and phase and logs it.
func (s *Services) Emit(ev log.GameEvent) {
	if s == nil || s.Events == nil {
		return
	}
	ev.Round = s.Round
	if ev.Phase == "" {
		ev.Phase = s.Phase
	}
	s.Events.Log(ev)
}

// Diag returns the diagnostics logger, never nil.
func (s *Services) Diag() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func drawEvent(e *Entity, ch Channel, c Card) log.GameEvent {
	return log.NewDrawEvent(e.Name, ch.String(), c.String())
}
