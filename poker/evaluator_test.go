package poker

import (
	"errors"
	"testing"
)

func TestEvaluateFiveCardCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    []string
		category Category
		kickers  []int
	}{
		{
			name:     "royal flush",
			cards:    []string{"As", "Ks", "Qs", "Js", "Ts"},
			category: RoyalFlush,
			kickers:  []int{14},
		},
		{
			name:     "straight flush",
			cards:    []string{"9h", "8h", "7h", "6h", "5h"},
			category: StraightFlush,
			kickers:  []int{9},
		},
		{
			name:     "wheel straight flush is five high",
			cards:    []string{"Ad", "2d", "3d", "4d", "5d"},
			category: StraightFlush,
			kickers:  []int{5},
		},
		{
			name:     "four of a kind",
			cards:    []string{"Qs", "Qh", "Qd", "Qc", "7s"},
			category: FourOfAKind,
			kickers:  []int{12, 7},
		},
		{
			name:     "full house",
			cards:    []string{"Js", "Jh", "Jd", "4c", "4s"},
			category: FullHouse,
			kickers:  []int{11, 4},
		},
		{
			name:     "flush",
			cards:    []string{"Kc", "Tc", "8c", "6c", "2c"},
			category: Flush,
			kickers:  []int{13, 10, 8, 6, 2},
		},
		{
			name:     "straight",
			cards:    []string{"8s", "7h", "6d", "5c", "4s"},
			category: Straight,
			kickers:  []int{8},
		},
		{
			name:     "wheel straight",
			cards:    []string{"Ah", "2s", "3d", "4c", "5h"},
			category: Straight,
			kickers:  []int{5},
		},
		{
			name:     "three of a kind",
			cards:    []string{"7s", "7h", "7d", "Kc", "2s"},
			category: ThreeOfAKind,
			kickers:  []int{7, 13, 2},
		},
		{
			name:     "two pair",
			cards:    []string{"As", "Ah", "9d", "9c", "3s"},
			category: TwoPair,
			kickers:  []int{14, 9, 3},
		},
		{
			name:     "pair",
			cards:    []string{"Ts", "Th", "Ad", "8c", "4s"},
			category: Pair,
			kickers:  []int{10, 14, 8, 4},
		},
		{
			name:     "high card",
			cards:    []string{"As", "Jh", "8d", "6c", "2s"},
			category: HighCard,
			kickers:  []int{14, 11, 8, 6, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rank, err := EvaluateFiveCards(MustParseCards(tc.cards...))
			if err != nil {
				t.Fatalf("evaluation failed: %v", err)
			}
			if rank.Category != tc.category {
				t.Errorf("category = %s, want %s", rank.Category, tc.category)
			}
			if len(rank.Cards) != 5 {
				t.Errorf("best cards length = %d, want 5", len(rank.Cards))
			}
			if len(rank.Kickers) != len(tc.kickers) {
				t.Fatalf("kickers = %v, want %v", rank.Kickers, tc.kickers)
			}
			for i, k := range tc.kickers {
				if rank.Kickers[i] != k {
					t.Errorf("kicker %d = %d, want %d", i, rank.Kickers[i], k)
				}
			}
		})
	}
}

func TestEvaluateFiveCardsRequiresFive(t *testing.T) {
	t.Parallel()

	_, err := EvaluateFiveCards(MustParseCards("As", "Ks", "Qs", "Js"))
	if !errors.Is(err, ErrInvalidHandSize) {
		t.Errorf("expected ErrInvalidHandSize for 4 cards, got %v", err)
	}

	_, err = EvaluateFiveCards(MustParseCards("As", "Ks", "Qs", "Js", "Ts", "9s"))
	if !errors.Is(err, ErrInvalidHandSize) {
		t.Errorf("expected ErrInvalidHandSize for 6 cards, got %v", err)
	}
}

func TestEvaluateHandBestOfSeven(t *testing.T) {
	t.Parallel()

	board := MustParseCards("Qs", "Js", "Ts", "2h", "3d")

	royal, err := EvaluateHand(MustParseCards("As", "Ks"), board)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if royal.Category != RoyalFlush {
		t.Errorf("A♠K♠ on spade board = %s, want Royal Flush", royal.Category)
	}

	aces, err := EvaluateHand(MustParseCards("Ah", "Ad"), board)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if aces.Category != Pair {
		t.Errorf("A♥A♦ on spade board = %s, want Pair", aces.Category)
	}
	if aces.Kickers[0] != 14 {
		t.Errorf("pair kicker = %d, want 14", aces.Kickers[0])
	}

	if CompareHands(royal, aces) <= 0 {
		t.Error("royal flush should beat a pair of aces")
	}
}

func TestEvaluateHandDegenerateSizes(t *testing.T) {
	t.Parallel()

	// Pre-river evaluation with fewer than 5 total cards is a caller bug
	_, err := EvaluateHand(MustParseCards("As", "Ks"), nil)
	if !errors.Is(err, ErrTooFewCards) {
		t.Errorf("expected ErrTooFewCards preflop, got %v", err)
	}

	// Exactly five is evaluated directly
	rank, err := EvaluateHand(MustParseCards("As", "Ks"), MustParseCards("Qd", "7c", "2h"))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if rank.Category != HighCard {
		t.Errorf("category = %s, want High Card", rank.Category)
	}

	// Six cards enumerates C(6,5) subsets
	rank, err = EvaluateHand(MustParseCards("As", "Ah"), MustParseCards("Ad", "7c", "2h", "2d"))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if rank.Category != FullHouse {
		t.Errorf("category = %s, want Full House", rank.Category)
	}
}

func TestWheelIsNotRoyal(t *testing.T) {
	t.Parallel()

	wheel, err := EvaluateFiveCards(MustParseCards("Ac", "2c", "3c", "4c", "5c"))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if wheel.Category != StraightFlush {
		t.Fatalf("wheel flush = %s, want Straight Flush", wheel.Category)
	}
	if wheel.Kickers[0] != 5 {
		t.Errorf("wheel high card = %d, want 5", wheel.Kickers[0])
	}

	// The ace plays low: best card order ends with the ace
	last := wheel.Cards[len(wheel.Cards)-1]
	if last.Value != Ace {
		t.Errorf("wheel order should end with the ace, got %s", last)
	}

	sixHigh, _ := EvaluateFiveCards(MustParseCards("2h", "3h", "4h", "5h", "6h"))
	if CompareHands(sixHigh, wheel) <= 0 {
		t.Error("six-high straight flush should beat the wheel")
	}
}

func TestCompareHandsOrdering(t *testing.T) {
	t.Parallel()

	hands := []HandRank{}
	for _, cards := range [][]string{
		{"As", "Jh", "8d", "6c", "2s"}, // high card
		{"Ts", "Th", "Ad", "8c", "4s"}, // pair of tens
		{"Ks", "Kh", "Ad", "8c", "4s"}, // pair of kings
		{"As", "Ah", "Kd", "8c", "4s"}, // pair of aces
		{"As", "Ah", "9d", "9c", "3s"}, // two pair
		{"7s", "7h", "7d", "Kc", "2s"}, // trips
		{"8s", "7h", "6d", "5c", "4s"}, // straight
		{"Kc", "Tc", "8c", "6c", "2c"}, // flush
		{"Js", "Jh", "Jd", "4c", "4s"}, // full house
		{"Qs", "Qh", "Qd", "Qc", "7s"}, // quads
		{"9h", "8h", "7h", "6h", "5h"}, // straight flush
		{"As", "Ks", "Qs", "Js", "Ts"}, // royal flush
	} {
		rank, err := EvaluateFiveCards(MustParseCards(cards...))
		if err != nil {
			t.Fatalf("evaluation failed: %v", err)
		}
		hands = append(hands, rank)
	}

	// Strictly ascending, antisymmetric, and self-tied
	for i := range hands {
		if CompareHands(hands[i], hands[i]) != 0 {
			t.Errorf("hand %d does not tie with itself", i)
		}
		for j := i + 1; j < len(hands); j++ {
			if CompareHands(hands[j], hands[i]) <= 0 {
				t.Errorf("hand %d should beat hand %d", j, i)
			}
			if CompareHands(hands[i], hands[j]) >= 0 {
				t.Errorf("hand %d should lose to hand %d", i, j)
			}
		}
	}
}

func TestCompareHandsKickerTie(t *testing.T) {
	t.Parallel()

	a, _ := EvaluateFiveCards(MustParseCards("As", "Ah", "Kd", "8c", "4s"))
	b, _ := EvaluateFiveCards(MustParseCards("Ad", "Ac", "Kh", "8d", "4h"))
	if CompareHands(a, b) != 0 {
		t.Error("identical values in different suits should tie")
	}

	better, _ := EvaluateFiveCards(MustParseCards("As", "Ah", "Kd", "9c", "4s"))
	if CompareHands(better, a) <= 0 {
		t.Error("nine kicker should beat eight kicker")
	}
}
