package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging combat events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 14 chars for alignment
	for len(phase) < 14 {
		phase += " "
	}

	return fmt.Sprintf("R%-2d %s| %s", e.Round, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---
//
// Round and Phase are stamped by whoever owns the clock (the encounter
// driver), so constructors only fill in the event-specific fields.

func NewRoundEvent(round int) GameEvent {
	return GameEvent{
		Round:   round,
		Type:    EventNewRound,
		Details: fmt.Sprintf("=== Round %d ===", round),
	}
}

func NewPhaseChangeEvent(phase string) GameEvent {
	return GameEvent{
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewDrawEvent(actor, deck, cardName string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s from the %s deck", actor, cardName, deck),
	}
}

func NewReshuffleEvent(actor, deck string, count int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventReshuffle,
		Amount:  count,
		Details: fmt.Sprintf("%s reshuffles %d card(s) into the %s deck", actor, count, deck),
	}
}

func NewActionBeginEvent(actor, cardName string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventActionBegin,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s", actor, cardName),
	}
}

func NewActionRejectedEvent(actor, cardName, reason string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventActionRejected,
		Card:    cardName,
		Details: fmt.Sprintf("%s cannot play %s (%s)", actor, cardName, reason),
	}
}

func NewDamageEvent(actor, target, source string, amount, hp int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Target:  target,
		Type:    EventDamage,
		Card:    source,
		Amount:  amount,
		Details: fmt.Sprintf("%s deals %d damage to %s with %s (HP %d)", actor, amount, target, source, hp),
	}
}

func NewHealEvent(target, source string, amount, hp int) GameEvent {
	return GameEvent{
		Target:  target,
		Type:    EventHeal,
		Card:    source,
		Amount:  amount,
		Details: fmt.Sprintf("%s heals %d from %s (HP %d)", target, amount, source, hp),
	}
}

func NewStatusAppliedEvent(target, status string, turns int) GameEvent {
	return GameEvent{
		Target:  target,
		Type:    EventStatusApplied,
		Card:    status,
		Amount:  turns,
		Details: fmt.Sprintf("%s gains %s (%d turn(s))", target, status, turns),
	}
}

func NewStatusTickEvent(target, status string, remaining int) GameEvent {
	return GameEvent{
		Target:  target,
		Type:    EventStatusTick,
		Card:    status,
		Amount:  remaining,
		Details: fmt.Sprintf("%s's %s ticks (%d turn(s) left)", target, status, remaining),
	}
}

func NewStatusExpiredEvent(target, status string) GameEvent {
	return GameEvent{
		Target:  target,
		Type:    EventStatusExpired,
		Card:    status,
		Details: fmt.Sprintf("%s's %s wears off", target, status),
	}
}

func NewEquipEvent(actor, cardName string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventEquip,
		Card:    cardName,
		Details: fmt.Sprintf("%s equips %s", actor, cardName),
	}
}

func NewUnequipEvent(actor, cardName string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventUnequip,
		Card:    cardName,
		Details: fmt.Sprintf("%s unequips %s", actor, cardName),
	}
}

func NewHandleScheduledEvent(actor, cardName string, turns int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventHandleScheduled,
		Card:    cardName,
		Amount:  turns,
		Details: fmt.Sprintf("%s's %s continues for %d turn(s)", actor, cardName, turns),
	}
}

func NewHandleTickEvent(actor, cardName string, remaining int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventHandleTick,
		Card:    cardName,
		Amount:  remaining,
		Details: fmt.Sprintf("%s's %s ticks (%d turn(s) left)", actor, cardName, remaining),
	}
}

func NewHandleEndedEvent(actor, cardName string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventHandleEnded,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s ends", actor, cardName),
	}
}

func NewConcentrationBrokenEvent(actor, cardName string) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventConcentrationBroken,
		Card:    cardName,
		Details: fmt.Sprintf("%s loses concentration on %s", actor, cardName),
	}
}

func NewAdvantageEvent(actor, channel string, delta int) GameEvent {
	return GameEvent{
		Actor:   actor,
		Type:    EventAdvantage,
		Amount:  delta,
		Details: fmt.Sprintf("%s gains %+d %s advantage", actor, delta, channel),
	}
}

func NewEventResolvedEvent(eventName string, affected int) GameEvent {
	return GameEvent{
		Type:    EventEventResolved,
		Card:    eventName,
		Amount:  affected,
		Details: fmt.Sprintf("%s: afflicted %d combatant(s)", eventName, affected),
	}
}

func NewDeathEvent(target string) GameEvent {
	return GameEvent{
		Target:  target,
		Type:    EventDeath,
		Details: fmt.Sprintf("%s falls", target),
	}
}

func NewWinEvent(side string, reason string) GameEvent {
	return GameEvent{
		Actor:   side,
		Type:    EventWin,
		Details: fmt.Sprintf("%s win (%s)", side, reason),
	}
}

func NewStalemateEvent(reason string) GameEvent {
	return GameEvent{
		Type:    EventStalemate,
		Details: fmt.Sprintf("Encounter ends without a victor (%s)", reason),
	}
}
