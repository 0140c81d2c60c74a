package combat

import "github.com/google/uuid"

type advantageKey struct {
	entity  uuid.UUID
	channel Channel
}

// AdvantageTracker holds the pending advantage of every combatant, per
// channel. Reading it with Consume zeroes it for the next consumer.
type AdvantageTracker struct {
	pending map[advantageKey]int
}

// NewAdvantageTracker returns a tracker with nothing pending.
func NewAdvantageTracker() *AdvantageTracker {
	return &AdvantageTracker{pending: make(map[advantageKey]int)}
}

// Grant adds delta to the entity's pending advantage on a channel.
func (t *AdvantageTracker) Grant(e *Entity, ch Channel, delta int) {
	if t == nil || e == nil {
		return
	}
	k := advantageKey{e.ID(), ch}
	t.pending[k] += delta
	if t.pending[k] == 0 {
		delete(t.pending, k)
	}
}

// Consume returns the pending advantage and resets it to zero.
func (t *AdvantageTracker) Consume(e *Entity, ch Channel) int {
	if t == nil || e == nil {
		return 0
	}
	k := advantageKey{e.ID(), ch}
	v := t.pending[k]
	delete(t.pending, k)
	return v
}

// Peek returns the pending advantage without consuming it.
func (t *AdvantageTracker) Peek(e *Entity, ch Channel) int {
	if t == nil || e == nil {
		return 0
	}
	return t.pending[advantageKey{e.ID(), ch}]
}

// Forget drops everything pending for the entity.
func (t *AdvantageTracker) Forget(e *Entity) {
	if t == nil || e == nil {
		return
	}
	for k := range t.pending {
		if k.entity == e.ID() {
			delete(t.pending, k)
		}
	}
}
