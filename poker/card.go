package poker

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Value represents a card value. Aces are high (14) except when forming
// the five-high straight, where straight detection treats them as low.
type Value int

const (
	Two Value = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a value
func (v Value) String() string {
	switch v {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if v >= Two && v <= Nine {
			return string(rune('0' + int(v)))
		}
		return "?"
	}
}

// Card is an immutable playing card. Two cards are equal iff both suit
// and value match, so Card works directly as a map key and with ==.
type Card struct {
	Suit  Suit
	Value Value
}

// NewCard creates a new card
func NewCard(suit Suit, value Value) Card {
	return Card{Suit: suit, Value: value}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Value, c.Suit)
}

// ParseCard parses a two-character card like "As" or "Td"
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	var value Value
	switch s[0] {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		value = Value(s[0] - '0')
	case 'T', 't':
		value = Ten
	case 'J', 'j':
		value = Jack
	case 'Q', 'q':
		value = Queen
	case 'K', 'k':
		value = King
	case 'A', 'a':
		value = Ace
	default:
		return Card{}, fmt.Errorf("invalid card value: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit: %c", s[1])
	}

	return Card{Suit: suit, Value: value}, nil
}

// MustParseCards parses a list of card strings and panics on failure.
// Intended for tests and fixtures.
func MustParseCards(strs ...string) []Card {
	cards := make([]Card, 0, len(strs))
	for _, s := range strs {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
