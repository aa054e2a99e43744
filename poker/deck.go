package poker

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when a deal is requested from an empty
// deck. A full nine-seat hand consumes at most 33 cards, so hitting
// this means the caller double-dealt or forgot to reset. Callers must
// abort the hand rather than continue with partial cards.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// Deck is a standard 52-card deck partitioned into remaining and used
// cards. The union of the two is always the exact 52-card set; dealing
// moves cards between them and never creates duplicates.
type Deck struct {
	remaining []Card
	used      []Card
	rng       *rand.Rand
}

// NewDeck creates a new shuffled deck with an explicit RNG.
// The RNG is required so shuffles are reproducible in tests.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{
		remaining: make([]Card, 0, 52),
		used:      make([]Card, 0, 52),
		rng:       rng,
	}
	d.Reset()
	return d
}

// Reset repopulates all 52 cards, clears the used pile and reshuffles.
func (d *Deck) Reset() {
	d.remaining = d.remaining[:0]
	d.used = d.used[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for value := Two; value <= Ace; value++ {
			d.remaining = append(d.remaining, Card{Suit: suit, Value: value})
		}
	}
	d.shuffle()
}

// shuffle shuffles the remaining cards using Fisher-Yates
func (d *Deck) shuffle() {
	for i := len(d.remaining) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.remaining[i], d.remaining[j] = d.remaining[j], d.remaining[i]
	}
}

// DealCard deals a single card from the end of the remaining pile.
// Returns ErrDeckExhausted if no cards remain.
func (d *Deck) DealCard() (Card, error) {
	if len(d.remaining) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := d.remaining[len(d.remaining)-1]
	d.remaining = d.remaining[:len(d.remaining)-1]
	d.used = append(d.used, card)
	return card, nil
}

// DealCards deals up to n cards. It stops early when the deck runs out,
// so callers must check the returned length.
func (d *Deck) DealCards(n int) []Card {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := d.DealCard()
		if err != nil {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Burn discards one card face down, per standard dealing procedure
// before each of the flop, turn and river.
func (d *Deck) Burn() error {
	_, err := d.DealCard()
	return err
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.remaining)
}

// Used returns a copy of the dealt and burned cards in deal order
func (d *Deck) Used() []Card {
	used := make([]Card, len(d.used))
	copy(used, d.used)
	return used
}

// DeckState is the persistable partition of a deck, used to snapshot
// and resume an in-flight hand.
type DeckState struct {
	Remaining []Card `json:"remaining"`
	Used      []Card `json:"used"`
}

// State returns a deep copy of the deck's partition
func (d *Deck) State() DeckState {
	state := DeckState{
		Remaining: make([]Card, len(d.remaining)),
		Used:      make([]Card, len(d.used)),
	}
	copy(state.Remaining, d.remaining)
	copy(state.Used, d.used)
	return state
}

// RestoreDeck rebuilds a deck from a persisted partition. The state
// must hold the exact 52-card set across both piles.
func RestoreDeck(state DeckState, rng *rand.Rand) (*Deck, error) {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	if len(state.Remaining)+len(state.Used) != 52 {
		return nil, errors.New("poker: deck state does not hold 52 cards")
	}
	seen := make(map[Card]bool, 52)
	for _, c := range state.Remaining {
		seen[c] = true
	}
	for _, c := range state.Used {
		seen[c] = true
	}
	if len(seen) != 52 {
		return nil, errors.New("poker: deck state contains duplicate cards")
	}
	d := &Deck{
		remaining: make([]Card, len(state.Remaining)),
		used:      make([]Card, len(state.Used)),
		rng:       rng,
	}
	copy(d.remaining, state.Remaining)
	copy(d.used, state.Used)
	return d, nil
}
