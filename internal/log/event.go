package log

// EventType enumerates all observable combat events.
type EventType int

const (
	EventNewRound EventType = iota
	EventPhaseChange
	EventDraw
	EventReshuffle
	EventActionBegin
	EventActionRejected
	EventDamage
	EventHeal
	EventStatusApplied
	EventStatusTick
	EventStatusExpired
	EventEquip
	EventUnequip
	EventHandleScheduled
	EventHandleTick
	EventHandleEnded
	EventConcentrationBroken
	EventAdvantage
	EventEventResolved
	EventDeath
	EventWin
	EventStalemate
)

func (e EventType) String() string {
	switch e {
	case EventNewRound:
		return "NewRound"
	case EventPhaseChange:
		return "PhaseChange"
	case EventDraw:
		return "Draw"
	case EventReshuffle:
		return "Reshuffle"
	case EventActionBegin:
		return "ActionBegin"
	case EventActionRejected:
		return "ActionRejected"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventStatusApplied:
		return "StatusApplied"
	case EventStatusTick:
		return "StatusTick"
	case EventStatusExpired:
		return "StatusExpired"
	case EventEquip:
		return "Equip"
	case EventUnequip:
		return "Unequip"
	case EventHandleScheduled:
		return "HandleScheduled"
	case EventHandleTick:
		return "HandleTick"
	case EventHandleEnded:
		return "HandleEnded"
	case EventConcentrationBroken:
		return "ConcentrationBroken"
	case EventAdvantage:
		return "Advantage"
	case EventEventResolved:
		return "EventResolved"
	case EventDeath:
		return "Death"
	case EventWin:
		return "Win"
	case EventStalemate:
		return "Stalemate"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in an encounter.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // which round (1-based, 0 before the first round)
	Phase   string    // current phase name (e.g. "Enemy Turn")
	Actor   string    // acting combatant name (if applicable)
	Target  string    // affected combatant name (if applicable)
	Type    EventType // event type
	Card    string    // card or status name (if applicable)
	Amount  int       // damage, heal or count carried by the event
	Details string    // human-readable detail string
}
