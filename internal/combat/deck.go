package combat

import (
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
)

// DefaultMaxChainDraws bounds a single draw chain.
const DefaultMaxChainDraws = 8

// Deck is a seeded, ordered sequence of cards for one channel.
//
// Every card the deck knows about sits in exactly one of the draw sequence,
// the discard pile, the held set (drawn and not yet discarded) or the
// exhausted pile. Reshuffles only ever use the deck's own generator, so a
// fixed seed replays the same sequence of draws.
type Deck struct {
	Channel Channel

	seed      uint64
	rng       *rand.Rand
	draw      []Card // top of deck is last element (pop from end)
	discard   []Card
	held      []Card
	exhausted []Card
	inserted  []Card // cards added by Insert, kept across Load

	// OnReshuffle is called after the discard pile is shuffled back in.
	OnReshuffle func(count int)
}

// NewDeck creates an empty deck whose generator derives from seed.
func NewDeck(ch Channel, seed uint64) *Deck {
	return &Deck{
		Channel: ch,
		seed:    seed,
		rng:     newRNG(seed),
	}
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Seed returns the seed the deck's generator derives from.
func (d *Deck) Seed() uint64 {
	return d.seed
}

// Load resets the deck to the given composition and shuffles it with a
// freshly seeded generator. Cards added by Insert and not yet removed stay
// in the deck.
func (d *Deck) Load(cards []Card) {
	d.rng = newRNG(d.seed)
	d.draw = append(make([]Card, 0, len(cards)+len(d.inserted)), cards...)
	for _, c := range d.inserted {
		if indexOf(d.draw, c.ID()) < 0 {
			d.draw = append(d.draw, c)
		}
	}
	d.discard = nil
	d.held = nil
	d.exhausted = nil
	d.shuffle(d.draw)
}

func (d *Deck) shuffle(cards []Card) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// reshuffle moves the discard pile back into the draw sequence.
func (d *Deck) reshuffle() {
	n := len(d.discard)
	d.draw = append(d.draw, d.discard...)
	d.discard = nil
	d.shuffle(d.draw)
	if d.OnReshuffle != nil {
		d.OnReshuffle(n)
	}
}

// Draw removes the top card and holds it until it is discarded.
// It fails with ErrDeckExhausted only if both the draw sequence and the
// discard pile are empty.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return nil, ErrDeckExhausted
		}
		d.reshuffle()
	}
	card := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	d.held = append(d.held, card)
	return card, nil
}

// Discard returns a drawn card to the discard pile.
func (d *Deck) Discard(card Card) error {
	if !takeCard(&d.held, card.ID()) {
		return ErrCardNotHeld
	}
	d.discard = append(d.discard, card)
	return nil
}

// Exhaust moves a drawn card out of rotation until RestoreExhausted.
func (d *Deck) Exhaust(card Card) error {
	if !takeCard(&d.held, card.ID()) {
		return ErrCardNotHeld
	}
	d.exhausted = append(d.exhausted, card)
	return nil
}

// RestoreExhausted puts every exhausted card back on the discard pile and
// returns how many were restored.
func (d *Deck) RestoreExhausted() int {
	n := len(d.exhausted)
	d.discard = append(d.discard, d.exhausted...)
	d.exhausted = nil
	return n
}

// Insert adds a card at a seeded random position of the draw sequence.
// The card survives later Loads until it is removed.
func (d *Deck) Insert(card Card) {
	d.inserted = append(d.inserted, card)
	pos := d.rng.IntN(len(d.draw) + 1)
	d.draw = append(d.draw, nil)
	copy(d.draw[pos+1:], d.draw[pos:])
	d.draw[pos] = card
}

// Remove deletes the card instance with the given id wherever it is.
// It reports whether anything was removed.
func (d *Deck) Remove(id uuid.UUID) bool {
	takeCard(&d.inserted, id)
	return takeCard(&d.draw, id) ||
		takeCard(&d.discard, id) ||
		takeCard(&d.held, id) ||
		takeCard(&d.exhausted, id)
}

// Contains reports whether the deck knows the card instance.
func (d *Deck) Contains(id uuid.UUID) bool {
	for _, pile := range [][]Card{d.draw, d.discard, d.held, d.exhausted} {
		if indexOf(pile, id) >= 0 {
			return true
		}
	}
	return false
}

func (d *Deck) Size() int           { return len(d.draw) + len(d.discard) + len(d.held) + len(d.exhausted) }
func (d *Deck) DrawCount() int      { return len(d.draw) }
func (d *Deck) DiscardCount() int   { return len(d.discard) }
func (d *Deck) HeldCount() int      { return len(d.held) }
func (d *Deck) ExhaustedCount() int { return len(d.exhausted) }

// Cards returns a copy of every card the deck knows, draw sequence first.
func (d *Deck) Cards() []Card {
	out := make([]Card, 0, d.Size())
	out = append(out, d.draw...)
	out = append(out, d.discard...)
	out = append(out, d.held...)
	return append(out, d.exhausted...)
}

func indexOf(pile []Card, id uuid.UUID) int {
	for i, c := range pile {
		if c.ID() == id {
			return i
		}
	}
	return -1
}

func takeCard(pile *[]Card, id uuid.UUID) bool {
	i := indexOf(*pile, id)
	if i < 0 {
		return false
	}
	*pile = append((*pile)[:i], (*pile)[i+1:]...)
	return true
}

// --- Draw chains ---

// Roll is the result of one draw chain.
type Roll struct {
	Drawn  []Card
	Total  int
	Evaded bool
}

// Score orders rolls for advantage: an evade beats everything, otherwise
// the higher total wins.
func (r Roll) Score() int {
	if r.Evaded {
		return math.MaxInt
	}
	return r.Total
}

// DrawChain draws while the drawn card is a continuation card, stopping on
// the first other card or after maxDraws cards. A deck that cannot be drawn
// from yields a zero roll.
func (d *Deck) DrawChain(maxDraws int) Roll {
	if maxDraws <= 0 {
		maxDraws = DefaultMaxChainDraws
	}
	var roll Roll
	for len(roll.Drawn) < maxDraws {
		card, err := d.Draw()
		if err != nil {
			break
		}
		roll.Drawn = append(roll.Drawn, card)
		value, evade, cont := chainStep(card)
		roll.Total += value
		roll.Evaded = roll.Evaded || evade
		if !cont {
			break
		}
	}
	return roll
}
