package engine

import (
	"github.com/feltworks/holdem/poker"
)

// Phase represents the lifecycle of a hand at the table
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[p]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// ParseAction parses an action name as sent over the wire
func ParseAction(s string) (Action, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "bet":
		return Bet, true
	case "raise":
		return Raise, true
	case "allin":
		return AllIn, true
	default:
		return 0, false
	}
}

// SeatStatus represents a player's standing at the table
type SeatStatus int

const (
	StatusSitting SeatStatus = iota // seated, not in the current hand
	StatusPlaying                   // in the hand and able to act
	StatusFolded                    // out of the current hand
	StatusAllIn                     // committed entire stack, cannot act
	StatusLeft                      // leaving, removed at the next hand
)

func (s SeatStatus) String() string {
	return [...]string{"sitting", "playing", "folded", "allin", "left"}[s]
}

// InHand reports whether the player is still contesting the pot
func (s SeatStatus) InHand() bool {
	return s == StatusPlaying || s == StatusAllIn
}

// NoSeat marks the absence of an acting seat
const NoSeat = -1

// PlayerState is a player's view within a hand. Contributed tracks the
// cumulative chips committed across every street of the hand; side-pot
// computation depends on it, not on the per-street CurrentBet.
type PlayerState struct {
	PlayerID     string       `json:"player_id"`
	Seat         int          `json:"seat"`
	Stack        int          `json:"stack"`
	HoleCards    []poker.Card `json:"hole_cards,omitempty"`
	CurrentBet   int          `json:"current_bet"`
	Contributed  int          `json:"contributed"`
	Status       SeatStatus   `json:"status"`
	IsDealer     bool         `json:"is_dealer"`
	IsSmallBlind bool         `json:"is_small_blind"`
	IsBigBlind   bool         `json:"is_big_blind"`
	Acted        bool         `json:"acted"`             // has acted this street; cleared by raises
	Leaving      bool         `json:"leaving,omitempty"` // left while contesting; seat released at settlement
}

// ActionRecord is the last applied action, kept on the state for
// broadcast and logging.
type ActionRecord struct {
	PlayerID string `json:"player_id"`
	Action   Action `json:"action"`
	Amount   int    `json:"amount"`
}

// GameState is a full snapshot of a table's hand. Engine operations
// return deep copies; callers never observe partial mutation.
type GameState struct {
	TableID        string        `json:"table_id"`
	HandID         string        `json:"hand_id"`
	Phase          Phase         `json:"phase"`
	Pot            int           `json:"pot"`
	CurrentBet     int           `json:"current_bet"`
	MinRaise       int           `json:"min_raise"`
	DealerSeat     int           `json:"dealer_seat"`
	ActiveSeat     int           `json:"active_seat"`
	CommunityCards []poker.Card  `json:"community_cards"`
	LastAction     *ActionRecord `json:"last_action,omitempty"`
	Players        []PlayerState `json:"players"` // sorted by seat
}

// Clone returns a deep copy of the state
func (s GameState) Clone() GameState {
	out := s
	out.CommunityCards = make([]poker.Card, len(s.CommunityCards))
	copy(out.CommunityCards, s.CommunityCards)
	out.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p
		out.Players[i].HoleCards = make([]poker.Card, len(p.HoleCards))
		copy(out.Players[i].HoleCards, p.HoleCards)
	}
	if s.LastAction != nil {
		la := *s.LastAction
		out.LastAction = &la
	}
	return out
}

// player returns a pointer to the player with the given ID, or nil
func (s *GameState) player(playerID string) *PlayerState {
	for i := range s.Players {
		if s.Players[i].PlayerID == playerID {
			return &s.Players[i]
		}
	}
	return nil
}

// playerAtSeat returns a pointer to the player at the given seat, or nil
func (s *GameState) playerAtSeat(seat int) *PlayerState {
	for i := range s.Players {
		if s.Players[i].Seat == seat {
			return &s.Players[i]
		}
	}
	return nil
}

// SidePot is a slice of the pot with restricted eligibility, created
// when players are all-in for different amounts.
type SidePot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"` // player IDs, seat order
}

// Winner records one player's share of one pot at showdown
type Winner struct {
	PlayerID string          `json:"player_id"`
	Amount   int             `json:"amount"`
	HandRank *poker.HandRank `json:"hand_rank,omitempty"` // nil on a default win
	PotIndex int             `json:"pot_index"`
}

// GameResult is the outcome of a completed hand
type GameResult struct {
	HandID   string    `json:"hand_id"`
	Winners  []Winner  `json:"winners"`
	SidePots []SidePot `json:"side_pots"`
}

// TableConfig carries per-table stakes. Blind sizes are configuration,
// never package constants.
type TableConfig struct {
	MaxSeats   int `json:"max_seats"`
	SmallBlind int `json:"small_blind"`
	BigBlind   int `json:"big_blind"`
}

// Validate checks the configuration for basic sanity
func (c TableConfig) Validate() error {
	if c.MaxSeats < 2 || c.MaxSeats > 10 {
		return errInvalidConfig("max seats must be between 2 and 10")
	}
	if c.SmallBlind <= 0 {
		return errInvalidConfig("small blind must be positive")
	}
	if c.BigBlind <= c.SmallBlind {
		return errInvalidConfig("big blind must be greater than small blind")
	}
	return nil
}
