package combat

import (
	"fmt"
	"math"

	"github.com/peterkuimelis/gloomdeck/internal/log"
)

// StatusKind tags a status so strategies and tests can match on it.
type StatusKind int

const (
	StatusLifesteal StatusKind = iota
	StatusInfect
	StatusAegis
	StatusWeakened
	StatusEmpowered
	StatusVulnerable
	StatusRegeneration
)

func (k StatusKind) String() string {
	switch k {
	case StatusLifesteal:
		return "Lifesteal"
	case StatusInfect:
		return "Infect"
	case StatusAegis:
		return "Aegis"
	case StatusWeakened:
		return "Weakened"
	case StatusEmpowered:
		return "Empowered"
	case StatusVulnerable:
		return "Vulnerable"
	case StatusRegeneration:
		return "Regeneration"
	default:
		return "Unknown"
	}
}

// UntilDepleted marks a status that does not count down.
const UntilDepleted = -1

// StatusEffect is one active status on one entity. Capabilities are
// optional hooks; a nil hook means the status does not take part in that
// pass.
type StatusEffect struct {
	Kind      StatusKind
	Name      string
	Remaining int // turns left, or UntilDepleted
	Magnitude int
	Ratio     float64

	// ModifyOutgoing adjusts damage the owner deals. The engine clamps the
	// result to >= 0.
	ModifyOutgoing func(s *StatusEffect, owner *Entity, value int, info *DamageInfo) int

	// ModifyIncoming adjusts damage the owner takes. The engine clamps the
	// result to >= 0.
	ModifyIncoming func(s *StatusEffect, owner *Entity, value int, info *DamageInfo) int

	// OnDealtDamage fires after the owner dealt damage.
	OnDealtDamage func(s *StatusEffect, owner *Entity, dealt int, info *DamageInfo)

	// OnTick fires once per turn boundary, before the countdown.
	OnTick func(s *StatusEffect, owner *Entity)

	// OnExpire fires when the status is removed by its countdown.
	OnExpire func(s *StatusEffect, owner *Entity)
}

func (s *StatusEffect) String() string {
	if s.Remaining == UntilDepleted {
		return fmt.Sprintf("%s %d", s.Name, s.Magnitude)
	}
	return fmt.Sprintf("%s (%d)", s.Name, s.Remaining)
}

// --- Built-in statuses ---

// LifestealStatus heals the owner for ratio of the damage it deals.
func LifestealStatus(ratio float64, turns int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusLifesteal,
		Name:      "Lifesteal",
		Remaining: turns,
		Ratio:     ratio,
		OnDealtDamage: func(s *StatusEffect, owner *Entity, dealt int, info *DamageInfo) {
			heal := int(math.Floor(float64(dealt) * s.Ratio))
			if heal > 0 {
				owner.Heal(heal, s.Name)
			}
		},
	}
}

// InfectStatus deals damage to the owner every turn.
func InfectStatus(damage, turns int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusInfect,
		Name:      "Infect",
		Remaining: turns,
		Magnitude: damage,
		OnTick: func(s *StatusEffect, owner *Entity) {
			owner.TakeDamage(s.Magnitude, false, 0, nil, DamageStatus, nil)
		},
	}
}

// AegisStatus absorbs incoming damage until its shield is spent.
func AegisStatus(shield int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusAegis,
		Name:      "Aegis",
		Remaining: UntilDepleted,
		Magnitude: shield,
		ModifyIncoming: func(s *StatusEffect, owner *Entity, value int, info *DamageInfo) int {
			absorbed := min(value, s.Magnitude)
			s.Magnitude -= absorbed
			if s.Magnitude == 0 {
				owner.RemoveStatus(s)
			}
			return value - absorbed
		},
	}
}

// WeakenedStatus reduces the owner's outgoing attack damage.
func WeakenedStatus(amount, turns int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusWeakened,
		Name:      "Weakened",
		Remaining: turns,
		Magnitude: amount,
		ModifyOutgoing: func(s *StatusEffect, owner *Entity, value int, info *DamageInfo) int {
			if info.Kind != DamageAttack {
				return value
			}
			return value - s.Magnitude
		},
	}
}

// EmpoweredStatus increases the owner's outgoing attack damage.
func EmpoweredStatus(amount, turns int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusEmpowered,
		Name:      "Empowered",
		Remaining: turns,
		Magnitude: amount,
		ModifyOutgoing: func(s *StatusEffect, owner *Entity, value int, info *DamageInfo) int {
			if info.Kind != DamageAttack {
				return value
			}
			return value + s.Magnitude
		},
	}
}

// VulnerableStatus increases damage the owner takes.
func VulnerableStatus(amount, turns int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusVulnerable,
		Name:      "Vulnerable",
		Remaining: turns,
		Magnitude: amount,
		ModifyIncoming: func(s *StatusEffect, owner *Entity, value int, info *DamageInfo) int {
			if value == 0 {
				return 0
			}
			return value + s.Magnitude
		},
	}
}

// RegenerationStatus heals the owner every turn.
func RegenerationStatus(amount, turns int) *StatusEffect {
	return &StatusEffect{
		Kind:      StatusRegeneration,
		Name:      "Regeneration",
		Remaining: turns,
		Magnitude: amount,
		OnTick: func(s *StatusEffect, owner *Entity) {
			owner.Heal(s.Magnitude, s.Name)
		},
	}
}

// --- Registry operations on Entity ---

// ApplyStatus attaches a status. A status of the same kind already present
// is refreshed in place (longer duration, larger magnitude) so the list
// order is stable.
func (e *Entity) ApplyStatus(s *StatusEffect) {
	if s == nil || !e.alive {
		return
	}
	for _, cur := range e.statuses {
		if cur.Kind != s.Kind {
			continue
		}
		if cur.Remaining != UntilDepleted && (s.Remaining == UntilDepleted || s.Remaining > cur.Remaining) {
			cur.Remaining = s.Remaining
		}
		cur.Magnitude = max(cur.Magnitude, s.Magnitude)
		cur.Ratio = math.Max(cur.Ratio, s.Ratio)
		e.Svc.Emit(log.NewStatusAppliedEvent(e.Name, cur.Name, cur.Remaining))
		return
	}
	e.statuses = append(e.statuses, s)
	e.Svc.Emit(log.NewStatusAppliedEvent(e.Name, s.Name, s.Remaining))
}

// RemoveStatus detaches the exact status instance. It reports whether the
// status was attached.
func (e *Entity) RemoveStatus(s *StatusEffect) bool {
	for i, cur := range e.statuses {
		if cur == s {
			e.statuses = append(e.statuses[:i], e.statuses[i+1:]...)
			return true
		}
	}
	return false
}

// ClearStatus removes every status of a kind and returns how many went.
func (e *Entity) ClearStatus(kind StatusKind) int {
	n := 0
	for _, s := range e.Statuses() {
		if s.Kind == kind && e.RemoveStatus(s) {
			n++
		}
	}
	return n
}

// HasStatus reports whether a status of the kind is active.
func (e *Entity) HasStatus(kind StatusKind) bool {
	return e.Status(kind) != nil
}

// Status returns the active status of a kind, or nil.
func (e *Entity) Status(kind StatusKind) *StatusEffect {
	for _, s := range e.statuses {
		if s.Kind == kind {
			return s
		}
	}
	return nil
}

// Statuses returns a snapshot of the active statuses in list order.
func (e *Entity) Statuses() []*StatusEffect {
	out := make([]*StatusEffect, len(e.statuses))
	copy(out, e.statuses)
	return out
}

// TickStatuses advances every status by one turn boundary: OnTick runs,
// the countdown decrements and statuses reaching zero are removed. It
// returns the statuses that expired.
func (e *Entity) TickStatuses() []*StatusEffect {
	var expired []*StatusEffect
	for _, s := range e.Statuses() {
		if !e.attached(s) {
			continue
		}
		if s.OnTick != nil && e.alive {
			s.OnTick(s, e)
		}
		if s.Remaining == UntilDepleted {
			continue
		}
		s.Remaining--
		if s.Remaining > 0 {
			e.Svc.Emit(log.NewStatusTickEvent(e.Name, s.Name, s.Remaining))
			continue
		}
		if e.RemoveStatus(s) {
			expired = append(expired, s)
			e.Svc.Emit(log.NewStatusExpiredEvent(e.Name, s.Name))
			if s.OnExpire != nil {
				s.OnExpire(s, e)
			}
		}
	}
	return expired
}

func (e *Entity) attached(s *StatusEffect) bool {
	for _, cur := range e.statuses {
		if cur == s {
			return true
		}
	}
	return false
}
