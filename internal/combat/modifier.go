package combat

import "github.com/google/uuid"

// ModifierEntry records one card inserted into a deck on behalf of an
// owner (equipment, status or card). The owner removes it again.
type ModifierEntry struct {
	ID      uuid.UUID
	Channel Channel
	Scope   ModifierScope
	Card    Card
	removed bool
}

// Removed reports whether the entry has already been removed.
func (e *ModifierEntry) Removed() bool {
	return e.removed
}

// ModifierManager applies scoped deck mutations to one combatant's decks.
type ModifierManager struct {
	decks   *DeckManager
	entries []*ModifierEntry
}

// NewModifierManager returns a manager that mutates the given decks.
func NewModifierManager(decks *DeckManager) *ModifierManager {
	return &ModifierManager{decks: decks}
}

// AddAdd registers an add-card modifier: card goes into the channel's deck
// and the returned entry is the handle to take it out again.
func (m *ModifierManager) AddAdd(ch Channel, scope ModifierScope, card Card) *ModifierEntry {
	m.decks.Deck(ch).Insert(card)
	entry := &ModifierEntry{
		ID:      uuid.New(),
		Channel: ch,
		Scope:   scope,
		Card:    card,
	}
	m.entries = append(m.entries, entry)
	return entry
}

// Remove deletes the entry's card instance from its deck. Removing an
// entry twice, a nil entry or an entry owned by another manager is a
// no-op. It reports whether anything was removed.
func (m *ModifierManager) Remove(entry *ModifierEntry) bool {
	if entry == nil || entry.removed {
		return false
	}
	for i, e := range m.entries {
		if e != entry {
			continue
		}
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		entry.removed = true
		m.decks.Deck(entry.Channel).Remove(entry.Card.ID())
		return true
	}
	return false
}

// ClearScope removes every live entry of the given scope and returns how
// many were removed.
func (m *ModifierManager) ClearScope(scope ModifierScope) int {
	var doomed []*ModifierEntry
	for _, e := range m.entries {
		if e.Scope == scope {
			doomed = append(doomed, e)
		}
	}
	for _, e := range doomed {
		m.Remove(e)
	}
	return len(doomed)
}

// Entries returns a snapshot of the live entries in insertion order.
func (m *ModifierManager) Entries() []*ModifierEntry {
	out := make([]*ModifierEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
