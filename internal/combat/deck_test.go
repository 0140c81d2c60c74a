package combat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckConservation(t *testing.T) {
	d := NewDeck(ChannelAttack, 7)
	d.Load(cards(AttackHitCard(1), AttackHitCard(2), AttackComboCard(1), AttackCritCard(1), AttackMissCard()))
	require.Equal(t, 5, d.Size())

	a, err := d.Draw()
	require.NoError(t, err)
	b, err := d.Draw()
	require.NoError(t, err)
	_, err = d.Draw()
	require.NoError(t, err)

	require.NoError(t, d.Discard(a))
	require.NoError(t, d.Exhaust(b))
	assert.Equal(t, deckCounts{draw: 2, discard: 1, held: 1, exhausted: 1}, countsOf(d))
	assert.Equal(t, 5, d.Size())

	// Many draws with reshuffles never create or lose a card.
	for range 40 {
		c, err := d.Draw()
		require.NoError(t, err)
		require.NoError(t, d.Discard(c))
		assert.Equal(t, 5, d.Size())
	}

	assert.Equal(t, 1, d.RestoreExhausted())
	assert.Equal(t, 0, d.ExhaustedCount())
	assert.Equal(t, 5, d.Size())
}

func TestDeckReshufflesDiscardWhenDrawEmpty(t *testing.T) {
	d := NewDeck(ChannelDefense, 3)
	d.Load(cards(DefenseBlockCard(1), DefenseBlockCard(2)))

	reshuffled := 0
	d.OnReshuffle = func(count int) { reshuffled = count }

	for range 2 {
		c, err := d.Draw()
		require.NoError(t, err)
		require.NoError(t, d.Discard(c))
	}
	assert.Equal(t, 0, d.DrawCount())

	_, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, 2, reshuffled)
	assert.Equal(t, deckCounts{draw: 1, held: 1}, countsOf(d))
}

func TestDeckExhaustedWhenNothingToDraw(t *testing.T) {
	d := NewDeck(ChannelAttack, 1)
	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrDeckExhausted)

	roll := d.DrawChain(0)
	assert.Empty(t, roll.Drawn)
	assert.Zero(t, roll.Total)
	assert.False(t, roll.Evaded)

	// Held cards are not drawable either.
	d.Load(cards(AttackHitCard(1)))
	_, err = d.Draw()
	require.NoError(t, err)
	_, err = d.Draw()
	assert.ErrorIs(t, err, ErrDeckExhausted)
}

func TestDeckDiscardRequiresHeldCard(t *testing.T) {
	d := NewDeck(ChannelAttack, 1)
	hit := AttackHitCard(1)
	d.Load(cards(hit))

	assert.ErrorIs(t, d.Discard(hit), ErrCardNotHeld)
	assert.ErrorIs(t, d.Exhaust(AttackHitCard(1)), ErrCardNotHeld)
}

func TestDeckSameSeedSameSequence(t *testing.T) {
	build := func() *Deck {
		d := NewDeck(ChannelAttack, 42)
		d.Load(cards(AttackHitCard(1), AttackHitCard(2), AttackHitCard(3), AttackHitCard(4), AttackHitCard(5), AttackMissCard()))
		return d
	}
	a, b := build(), build()

	for range 30 {
		ca, err := a.Draw()
		require.NoError(t, err)
		cb, err := b.Draw()
		require.NoError(t, err)
		require.Equal(t, ca.String(), cb.String())
		require.NoError(t, a.Discard(ca))
		require.NoError(t, b.Discard(cb))
	}
}

func TestDeckInsertAndRemove(t *testing.T) {
	d := NewDeck(ChannelDefense, 9)
	d.Load(cards(DefenseBlockCard(1), DefenseBlockCard(1)))

	extra := DefenseEvadeCard()
	d.Insert(extra)
	assert.Equal(t, 3, d.DrawCount())
	assert.True(t, d.Contains(extra.ID()))

	assert.True(t, d.Remove(extra.ID()))
	assert.False(t, d.Contains(extra.ID()))
	assert.False(t, d.Remove(extra.ID()))
	assert.Equal(t, 2, d.Size())
}

func TestLoadKeepsInsertedCards(t *testing.T) {
	decks := NewDeckManager(1, 2, 3)
	mods := NewModifierManager(decks)
	entry := mods.AddAdd(ChannelDefense, ScopePermanent, DefenseEvadeCard())

	decks.Defense.Load(cards(DefenseBlockCard(1), DefenseBlockCard(2)))
	assert.Equal(t, 3, decks.Defense.Size())
	assert.True(t, decks.Defense.Contains(entry.Card.ID()))

	mods.Remove(entry)
	assert.Equal(t, 2, decks.Defense.Size())

	decks.Defense.Load(cards(DefenseBlockCard(1)))
	assert.Equal(t, 1, decks.Defense.Size())
}

func TestDrawChain(t *testing.T) {
	tests := []struct {
		name      string
		cards     []Card
		maxDraws  int
		wantDrawn int
		wantTotal int
		wantEvade bool
	}{
		{"hit stops the chain", cards(AttackHitCard(3)), 0, 1, 3, false},
		{"crit doubles", cards(AttackCritCard(2)), 0, 1, 4, false},
		{"miss adds nothing", cards(AttackMissCard()), 0, 1, 0, false},
		{"combo chain is bounded", cards(AttackComboCard(1), AttackComboCard(1), AttackComboCard(1), AttackComboCard(1)), 3, 3, 3, false},
		{"block", cards(DefenseBlockCard(2)), 0, 1, 2, false},
		{"evade", cards(DefenseEvadeCard()), 0, 1, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDeck(ChannelAttack, 5)
			d.Load(tc.cards)
			roll := d.DrawChain(tc.maxDraws)
			assert.Len(t, roll.Drawn, tc.wantDrawn)
			assert.Equal(t, tc.wantTotal, roll.Total)
			assert.Equal(t, tc.wantEvade, roll.Evaded)
			assert.Equal(t, tc.wantDrawn, d.HeldCount())
		})
	}
}

func TestDrawChainLoneComboStops(t *testing.T) {
	// A held combo card cannot be drawn again by its own chain.
	d := NewDeck(ChannelAttack, 5)
	d.Load(cards(AttackComboCard(1)))
	roll := d.DrawChain(0)
	assert.Len(t, roll.Drawn, 1)
	assert.Equal(t, 1, roll.Total)
}

func TestRollScoreEvadeBeatsEverything(t *testing.T) {
	assert.Equal(t, math.MaxInt, Roll{Evaded: true}.Score())
	assert.Equal(t, 7, Roll{Total: 7}.Score())
}

func TestDrawChainAdvantage(t *testing.T) {
	tests := []struct {
		name      string
		advantage int
		want      int
	}{
		{"advantage keeps the best", 1, 5},
		{"disadvantage keeps the worst", -1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewDeckManager(11, 12, 13)
			m.Attack.Load(cards(AttackHitCard(1), AttackHitCard(5)))

			roll := m.DrawAttackChain(tc.advantage)
			assert.Equal(t, tc.want, roll.Total)
			// The losing chain is discarded, the kept one is still held.
			assert.Equal(t, 1, m.Attack.DiscardCount())
			assert.Equal(t, 1, m.Attack.HeldCount())

			m.DiscardRoll(ChannelAttack, roll)
			assert.Equal(t, 2, m.Attack.DiscardCount())
		})
	}
}

func TestDrawChainAdvantageOnShortDeck(t *testing.T) {
	m := NewDeckManager(1, 2, 3)
	m.Attack.Load(cards(AttackHitCard(4)))

	// Only one card exists; the extra chains come up empty and are skipped.
	roll := m.DrawAttackChain(MaxAdvantage + 2)
	assert.Equal(t, 4, roll.Total)
	assert.Equal(t, 1, m.Attack.HeldCount())
}

func TestDrawChainAdvantageSharesBudget(t *testing.T) {
	m := NewDeckManager(5, 6, 7)
	var combos []Card
	for range 20 {
		combos = append(combos, AttackComboCard(1))
	}
	m.Attack.Load(combos)
	m.MaxChainDraws = 3

	roll := m.DrawAttackChain(MaxAdvantage)
	assert.Len(t, roll.Drawn, 3)
	assert.Equal(t, 3, roll.Total)
	assert.Equal(t, 17, m.Attack.DrawCount())
}
