package combat

// MaxAdvantage caps how many extra chains advantage may draw.
const MaxAdvantage = 3

// DeckManager owns the three decks of one combatant.
type DeckManager struct {
	Attack  *Deck
	Defense *Deck
	Action  *Deck

	// MaxChainDraws bounds the cards one DrawChain call may draw, across
	// every chain advantage asks for.
	MaxChainDraws int
}

// NewDeckManager creates three empty decks with independent seeds.
func NewDeckManager(attackSeed, defenseSeed, actionSeed uint64) *DeckManager {
	return &DeckManager{
		Attack:        NewDeck(ChannelAttack, attackSeed),
		Defense:       NewDeck(ChannelDefense, defenseSeed),
		Action:        NewDeck(ChannelAction, actionSeed),
		MaxChainDraws: DefaultMaxChainDraws,
	}
}

// Deck returns the deck for a channel.
func (m *DeckManager) Deck(ch Channel) *Deck {
	switch ch {
	case ChannelAttack:
		return m.Attack
	case ChannelDefense:
		return m.Defense
	case ChannelAction:
		return m.Action
	default:
		unsupported("channel", ch)
		return nil
	}
}

// DrawChain draws one chain from the channel's deck, biased by advantage.
// With advantage n > 0 it draws n+1 chains and keeps the best; with n < 0
// it draws |n|+1 chains and keeps the worst. The chains that are not kept
// go straight to the discard pile; the kept chain's cards stay held until
// the caller discards them. All chains share the MaxChainDraws budget, so
// a long first chain can leave nothing for the extra ones.
func (m *DeckManager) DrawChain(ch Channel, advantage int) Roll {
	deck := m.Deck(ch)
	n := advantage
	if n < 0 {
		n = -n
	}
	if n > MaxAdvantage {
		n = MaxAdvantage
	}

	budget := m.MaxChainDraws
	if budget <= 0 {
		budget = DefaultMaxChainDraws
	}

	rolls := make([]Roll, 0, n+1)
	for i := 0; i <= n && budget > 0; i++ {
		r := deck.DrawChain(budget)
		budget -= len(r.Drawn)
		if len(r.Drawn) == 0 && len(rolls) > 0 {
			break
		}
		rolls = append(rolls, r)
	}

	keep := 0
	for i := 1; i < len(rolls); i++ {
		if advantage > 0 && rolls[i].Score() > rolls[keep].Score() {
			keep = i
		}
		if advantage < 0 && rolls[i].Score() < rolls[keep].Score() {
			keep = i
		}
	}
	for i, r := range rolls {
		if i == keep {
			continue
		}
		for _, c := range r.Drawn {
			_ = deck.Discard(c)
		}
	}
	return rolls[keep]
}

// DrawAttackChain draws from the attack deck.
func (m *DeckManager) DrawAttackChain(advantage int) Roll {
	return m.DrawChain(ChannelAttack, advantage)
}

// DrawDefenseChain draws from the defense deck.
func (m *DeckManager) DrawDefenseChain(advantage int) Roll {
	return m.DrawChain(ChannelDefense, advantage)
}

// Discard returns a drawn card to its channel's discard pile.
func (m *DeckManager) Discard(ch Channel, card Card) error {
	return m.Deck(ch).Discard(card)
}

// DiscardRoll returns every card of a roll to the discard pile.
func (m *DeckManager) DiscardRoll(ch Channel, roll Roll) {
	deck := m.Deck(ch)
	for _, c := range roll.Drawn {
		_ = deck.Discard(c)
	}
}

// RestoreExhausted returns exhausted cards of all three decks.
func (m *DeckManager) RestoreExhausted() int {
	return m.Attack.RestoreExhausted() + m.Defense.RestoreExhausted() + m.Action.RestoreExhausted()
}
