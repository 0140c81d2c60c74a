package combat

import (
	"fmt"

	"github.com/google/uuid"
)

// Card is a card definition with a stable identity. The set of variants is
// closed: *AttackModifierCard, *DefenseModifierCard, *ActionCard,
// *EquipmentCard and *EventCard. Consumers switch on the concrete type.
type Card interface {
	ID() uuid.UUID
	Type() CardType
	String() string
	sealed()
}

// --- Attack modifier cards ---

type AttackKind int

const (
	AttackHit   AttackKind = iota
	AttackCombo            // adds its value and keeps the chain going
	AttackCrit             // adds double its value
	AttackMiss             // adds nothing
)

// AttackModifierCard is one card of an attack deck.
type AttackModifierCard struct {
	id    uuid.UUID
	Kind  AttackKind
	Value int
}

func newAttack(kind AttackKind, value int) *AttackModifierCard {
	return &AttackModifierCard{id: uuid.New(), Kind: kind, Value: value}
}

// AttackHitCard adds value to the attack.
func AttackHitCard(value int) *AttackModifierCard { return newAttack(AttackHit, value) }

// AttackComboCard adds value and draws again.
func AttackComboCard(value int) *AttackModifierCard { return newAttack(AttackCombo, value) }

// AttackCritCard adds twice its value.
func AttackCritCard(value int) *AttackModifierCard { return newAttack(AttackCrit, value) }

// AttackMissCard adds nothing.
func AttackMissCard() *AttackModifierCard { return newAttack(AttackMiss, 0) }

func (c *AttackModifierCard) ID() uuid.UUID  { return c.id }
func (c *AttackModifierCard) Type() CardType { return CardTypeAttackModifier }
func (c *AttackModifierCard) sealed()        {}

func (c *AttackModifierCard) String() string {
	switch c.Kind {
	case AttackHit:
		return fmt.Sprintf("Hit %d", c.Value)
	case AttackCombo:
		return fmt.Sprintf("Combo %d", c.Value)
	case AttackCrit:
		return fmt.Sprintf("Crit %d", c.Value)
	case AttackMiss:
		return "Miss"
	default:
		return "Attack ?"
	}
}

// --- Defense modifier cards ---

type DefenseKind int

const (
	DefenseBlock DefenseKind = iota
	DefenseEvade             // negates the whole attack
	DefenseChain             // blocks its value and keeps the chain going
)

// DefenseModifierCard is one card of a defense deck.
type DefenseModifierCard struct {
	id    uuid.UUID
	Kind  DefenseKind
	Value int
}

func newDefense(kind DefenseKind, value int) *DefenseModifierCard {
	return &DefenseModifierCard{id: uuid.New(), Kind: kind, Value: value}
}

// DefenseBlockCard subtracts value from incoming damage.
func DefenseBlockCard(value int) *DefenseModifierCard { return newDefense(DefenseBlock, value) }

// DefenseEvadeCard negates the attack.
func DefenseEvadeCard() *DefenseModifierCard { return newDefense(DefenseEvade, 0) }

// DefenseChainCard blocks value and draws again.
func DefenseChainCard(value int) *DefenseModifierCard { return newDefense(DefenseChain, value) }

func (c *DefenseModifierCard) ID() uuid.UUID  { return c.id }
func (c *DefenseModifierCard) Type() CardType { return CardTypeDefenseModifier }
func (c *DefenseModifierCard) sealed()        {}

func (c *DefenseModifierCard) String() string {
	switch c.Kind {
	case DefenseBlock:
		return fmt.Sprintf("Block %d", c.Value)
	case DefenseEvade:
		return "Evade"
	case DefenseChain:
		return fmt.Sprintf("Chain %d", c.Value)
	default:
		return "Defense ?"
	}
}

// chainStep reports what a drawn card contributes to a draw chain: its
// value, whether it evades, and whether drawing continues.
func chainStep(c Card) (value int, evade, cont bool) {
	switch v := c.(type) {
	case *AttackModifierCard:
		switch v.Kind {
		case AttackHit:
			return v.Value, false, false
		case AttackCombo:
			return v.Value, false, true
		case AttackCrit:
			return 2 * v.Value, false, false
		case AttackMiss:
			return 0, false, false
		default:
			unsupported("attack kind", v.Kind)
		}
	case *DefenseModifierCard:
		switch v.Kind {
		case DefenseBlock:
			return v.Value, false, false
		case DefenseChain:
			return v.Value, false, true
		case DefenseEvade:
			return 0, true, false
		default:
			unsupported("defense kind", v.Kind)
		}
	}
	return 0, false, false
}
