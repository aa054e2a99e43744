package poker

import (
	"errors"
	"sort"
)

// ErrInvalidHandSize is returned when the five-card evaluator receives
// anything other than exactly five cards. This is a programming-contract
// violation, not a user error: the seven-card wrapper guards it.
var ErrInvalidHandSize = errors.New("poker: hand must contain exactly 5 cards")

// ErrTooFewCards is returned when fewer than five total cards are
// available for evaluation. Hands are only evaluated at showdown, where
// the board is complete, so hitting this indicates a caller bug.
var ErrTooFewCards = errors.New("poker: need at least 5 cards to evaluate")

// Category enumerates hand categories from weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the strength of a best-five-card hand. Kickers order the
// tie-break values highest significance first: the repeated values lead
// for paired hands, then the remaining cards descending. Two ranks are
// compared with CompareHands.
type HandRank struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Cards    []Card   `json:"cards"`
	Kickers  []int    `json:"kickers"`
}

// CompareHands compares two hand ranks. It returns a positive value if
// a is stronger, negative if b is stronger, and zero on a true tie
// (split pot). Missing kickers compare as zero.
func CompareHands(a, b HandRank) int {
	if a.Category != b.Category {
		return int(a.Category) - int(b.Category)
	}
	n := len(a.Kickers)
	if len(b.Kickers) > n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a.Kickers) {
			av = a.Kickers[i]
		}
		if i < len(b.Kickers) {
			bv = b.Kickers[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

// EvaluateHand finds the best five-card hand from hole plus community
// cards. With more than five cards it enumerates every five-card subset
// (21 in the full seven-card case) and keeps the maximum.
func EvaluateHand(holeCards, communityCards []Card) (HandRank, error) {
	all := make([]Card, 0, len(holeCards)+len(communityCards))
	all = append(all, holeCards...)
	all = append(all, communityCards...)

	if len(all) < 5 {
		return HandRank{}, ErrTooFewCards
	}
	if len(all) == 5 {
		return EvaluateFiveCards(all)
	}

	var best HandRank
	found := false
	subset := make([]Card, 5)
	var visit func(start, depth int) error
	visit = func(start, depth int) error {
		if depth == 5 {
			rank, err := EvaluateFiveCards(subset)
			if err != nil {
				return err
			}
			if !found || CompareHands(rank, best) > 0 {
				best = rank
				found = true
			}
			return nil
		}
		for i := start; i <= len(all)-(5-depth); i++ {
			subset[depth] = all[i]
			if err := visit(i+1, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(0, 0); err != nil {
		return HandRank{}, err
	}
	return best, nil
}

// EvaluateFiveCards ranks exactly five cards. Categories are checked
// from strongest to weakest; the first match wins.
func EvaluateFiveCards(cards []Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, ErrInvalidHandSize
	}

	sorted := make([]Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	flush := isFlush(sorted)
	straightHigh := straightHighValue(sorted)
	straight := straightHigh > 0

	groups := groupByValue(sorted)

	var rank HandRank
	switch {
	case flush && straight && straightHigh == int(Ace):
		rank = HandRank{
			Category: RoyalFlush,
			Cards:    sorted,
			Kickers:  []int{straightHigh},
		}
	case flush && straight:
		rank = HandRank{
			Category: StraightFlush,
			Cards:    straightOrder(sorted, straightHigh),
			Kickers:  []int{straightHigh},
		}
	case len(groups) > 0 && groups[0].count == 4:
		rank = HandRank{
			Category: FourOfAKind,
			Cards:    groupedOrder(sorted, groups),
			Kickers:  groupKickers(groups),
		}
	case len(groups) > 1 && groups[0].count == 3 && groups[1].count == 2:
		rank = HandRank{
			Category: FullHouse,
			Cards:    groupedOrder(sorted, groups),
			Kickers:  groupKickers(groups),
		}
	case flush:
		rank = HandRank{
			Category: Flush,
			Cards:    sorted,
			Kickers:  values(sorted),
		}
	case straight:
		rank = HandRank{
			Category: Straight,
			Cards:    straightOrder(sorted, straightHigh),
			Kickers:  []int{straightHigh},
		}
	case groups[0].count == 3:
		rank = HandRank{
			Category: ThreeOfAKind,
			Cards:    groupedOrder(sorted, groups),
			Kickers:  groupKickers(groups),
		}
	case len(groups) > 1 && groups[0].count == 2 && groups[1].count == 2:
		rank = HandRank{
			Category: TwoPair,
			Cards:    groupedOrder(sorted, groups),
			Kickers:  groupKickers(groups),
		}
	case groups[0].count == 2:
		rank = HandRank{
			Category: Pair,
			Cards:    groupedOrder(sorted, groups),
			Kickers:  groupKickers(groups),
		}
	default:
		rank = HandRank{
			Category: HighCard,
			Cards:    sorted,
			Kickers:  values(sorted),
		}
	}
	rank.Name = rank.Category.String()
	return rank, nil
}

// valueGroup is a run of equal-valued cards. Groups sort by count then
// value descending, so the defining group of a hand always comes first.
type valueGroup struct {
	value int
	count int
}

func groupByValue(sorted []Card) []valueGroup {
	counts := make(map[int]int)
	for _, c := range sorted {
		counts[int(c.Value)]++
	}
	groups := make([]valueGroup, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, valueGroup{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	return groups
}

// groupKickers flattens groups into the kicker list: repeated values
// lead (once per group), remaining singles follow descending.
func groupKickers(groups []valueGroup) []int {
	kickers := make([]int, 0, len(groups))
	for _, g := range groups {
		kickers = append(kickers, g.value)
	}
	return kickers
}

// groupedOrder orders the five cards with group members first, larger
// and higher groups leading, singles descending after.
func groupedOrder(sorted []Card, groups []valueGroup) []Card {
	out := make([]Card, 0, 5)
	for _, g := range groups {
		for _, c := range sorted {
			if int(c.Value) == g.value {
				out = append(out, c)
			}
		}
	}
	return out
}

func values(sorted []Card) []int {
	vals := make([]int, len(sorted))
	for i, c := range sorted {
		vals[i] = int(c.Value)
	}
	return vals
}

func isFlush(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightHighValue returns the high card value of a straight, or 0 if
// the cards do not form one. The wheel (A-2-3-4-5) is a straight with
// high card 5, not ace.
func straightHighValue(sorted []Card) int {
	for i := 1; i < 5; i++ {
		if sorted[i].Value == sorted[i-1].Value {
			return 0
		}
	}
	if int(sorted[0].Value)-int(sorted[4].Value) == 4 {
		return int(sorted[0].Value)
	}
	// Wheel: A-5-4-3-2 after descending sort
	if sorted[0].Value == Ace &&
		sorted[1].Value == Five &&
		sorted[4].Value == Two {
		return int(Five)
	}
	return 0
}

// straightOrder lists straight cards high to low in run order, moving
// the ace to the bottom for the wheel.
func straightOrder(sorted []Card, high int) []Card {
	if high == int(Five) && sorted[0].Value == Ace {
		out := make([]Card, 0, 5)
		out = append(out, sorted[1:]...)
		out = append(out, sorted[0])
		return out
	}
	return sorted
}
