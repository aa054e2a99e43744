package engine

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/feltworks/holdem/poker"
)

// Engine is the betting state machine for a single table. It is not
// safe for concurrent use: the caller serializes every mutating call,
// one runner or lock per table. Tables share no state with each other.
//
// Successful operations return deep-copied snapshots; rejected actions
// return an error and leave the state untouched.
type Engine struct {
	cfg        TableConfig
	rng        *rand.Rand
	deck       *poker.Deck
	state      GameState
	totalChips int // invariant: sum of stacks + pot, checked after each hand
}

// New creates an engine for an empty table. The RNG drives shuffling
// and hand IDs; inject a seeded one for deterministic tests.
func New(tableID string, cfg TableConfig, rng *rand.Rand) (*Engine, error) {
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = 9
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		panic("rng is required for engine creation")
	}
	return &Engine{
		cfg:  cfg,
		rng:  rng,
		deck: poker.NewDeck(rng),
		state: GameState{
			TableID:    tableID,
			Phase:      Waiting,
			DealerSeat: NoSeat,
			ActiveSeat: NoSeat,
		},
	}, nil
}

// Config returns the table configuration
func (e *Engine) Config() TableConfig {
	return e.cfg
}

// State returns a deep copy of the current state
func (e *Engine) State() GameState {
	return e.state.Clone()
}

// Seat adds a player at the given seat with the given stack. The player
// sits out until the next hand starts.
func (e *Engine) Seat(playerID string, seat, stack int) error {
	if seat < 0 || seat >= e.cfg.MaxSeats {
		return fmt.Errorf("engine: seat %d out of range 0..%d", seat, e.cfg.MaxSeats-1)
	}
	if stack <= 0 {
		return fmt.Errorf("engine: buy-in must be positive, got %d", stack)
	}
	if e.state.player(playerID) != nil {
		return fmt.Errorf("engine: player %s already seated", playerID)
	}
	if e.state.playerAtSeat(seat) != nil {
		return fmt.Errorf("%w: seat %d", ErrSeatTaken, seat)
	}

	e.state.Players = append(e.state.Players, PlayerState{
		PlayerID: playerID,
		Seat:     seat,
		Stack:    stack,
		Status:   StatusSitting,
	})
	sort.Slice(e.state.Players, func(i, j int) bool {
		return e.state.Players[i].Seat < e.state.Players[j].Seat
	})
	e.totalChips += stack
	return nil
}

// Leave removes a player from the table. During a betting round the
// player is folded first so the hand can continue; chips already
// contributed stay in the pot, the remaining stack leaves with the
// player. An all-in leaver stays eligible for the pots they funded and
// their seat empties when the hand settles. Between hands the player is
// removed immediately.
func (e *Engine) Leave(playerID string) error {
	p := e.state.player(playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}

	betting := e.state.Phase >= Preflop && e.state.Phase <= River
	if betting && p.Status == StatusPlaying {
		if e.state.ActiveSeat == p.Seat {
			// Same path as a submitted fold, keeps the turn pointer sane
			if _, err := e.ProcessAction(playerID, Fold, 0); err != nil {
				return err
			}
		} else {
			p.Status = StatusFolded
			// An out-of-turn fold can complete the betting round.
			// The pivot keeps the turn on the current active seat
			// when it does not.
			if err := e.resolveRound(&e.state, e.state.ActiveSeat-1); err != nil {
				return err
			}
		}
		p = e.state.player(playerID)
	}

	// A contender awaiting settlement keeps their pot eligibility; the
	// seat is released once the hand pays out.
	if e.state.Phase != Waiting && p.Status.InHand() {
		p.Leaving = true
		return nil
	}

	e.totalChips -= p.Stack
	p.Stack = 0
	p.Status = StatusLeft
	return nil
}

// finishLeaves releases players who left while still in the hand. Runs
// at settlement so an all-in leaver is paid before their seat empties.
func (e *Engine) finishLeaves(st *GameState) {
	for i := range st.Players {
		p := &st.Players[i]
		if p.Leaving {
			e.totalChips -= p.Stack
			p.Stack = 0
			p.Leaving = false
			p.Status = StatusLeft
		}
	}
}

// StartNewHand begins a new hand: deck reset, dealer rotation, blinds,
// hole cards, and the opening turn. Requires at least two funded
// players, no hand in progress, and the previous hand settled.
func (e *Engine) StartNewHand() (GameState, error) {
	if e.state.Phase != Waiting {
		return GameState{}, ErrHandInProgress
	}

	st := e.state.Clone()

	// Drop players who left, reset everyone else for the new hand
	kept := st.Players[:0]
	for _, p := range st.Players {
		if p.Status == StatusLeft {
			continue
		}
		p.HoleCards = nil
		p.CurrentBet = 0
		p.Contributed = 0
		p.IsDealer = false
		p.IsSmallBlind = false
		p.IsBigBlind = false
		p.Acted = false
		if p.Stack > 0 {
			p.Status = StatusPlaying
		} else {
			p.Status = StatusSitting
		}
		kept = append(kept, p)
	}
	st.Players = kept

	active := st.occupiedSeats(func(p PlayerState) bool { return p.Status == StatusPlaying })
	if len(active) < 2 {
		return GameState{}, ErrNotEnoughPlayers
	}

	st.HandID = newHandID(e.rng)
	st.Phase = Preflop
	st.Pot = 0
	st.CurrentBet = 0
	st.MinRaise = e.cfg.BigBlind
	st.CommunityCards = nil
	st.LastAction = nil

	// Rotate the button to the next occupied seat
	st.DealerSeat = nextOccupiedSeat(active, st.DealerSeat)
	st.playerAtSeat(st.DealerSeat).IsDealer = true

	// Heads-up the dealer posts the small blind; otherwise the blinds
	// sit directly left of the button
	var sbSeat, bbSeat int
	if len(active) == 2 {
		sbSeat = st.DealerSeat
		bbSeat = nextOccupiedSeat(active, st.DealerSeat)
	} else {
		sbSeat = nextOccupiedSeat(active, st.DealerSeat)
		bbSeat = nextOccupiedSeat(active, sbSeat)
	}
	st.playerAtSeat(sbSeat).IsSmallBlind = true
	st.playerAtSeat(bbSeat).IsBigBlind = true

	// Two passes, one card per player per pass, starting left of the
	// button. Deal order is part of the auditable contract.
	e.deck.Reset()
	for pass := 0; pass < 2; pass++ {
		seat := st.DealerSeat
		for range active {
			seat = nextOccupiedSeat(active, seat)
			card, err := e.deck.DealCard()
			if err != nil {
				return GameState{}, fmt.Errorf("dealing hole cards: %w", err)
			}
			p := st.playerAtSeat(seat)
			p.HoleCards = append(p.HoleCards, card)
		}
	}

	postBlind(&st, st.playerAtSeat(sbSeat), e.cfg.SmallBlind)
	postBlind(&st, st.playerAtSeat(bbSeat), e.cfg.BigBlind)
	st.CurrentBet = e.cfg.BigBlind

	// First to act is the seat after the big blind; skip seats that the
	// blinds already put all-in
	st.ActiveSeat = nextActingSeat(&st, bbSeat)
	if st.ActiveSeat == NoSeat {
		// Blinds consumed every stack; run the board out
		if err := e.advancePhase(&st); err != nil {
			return GameState{}, err
		}
	}

	e.state = st
	return st.Clone(), nil
}

// postBlind commits up to the blind amount from the player's stack
func postBlind(st *GameState, p *PlayerState, amount int) {
	pay := amount
	if pay > p.Stack {
		pay = p.Stack
	}
	p.Stack -= pay
	p.CurrentBet += pay
	p.Contributed += pay
	st.Pot += pay
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
}

// nextActingSeat returns the next seat after pivot able to act
func nextActingSeat(st *GameState, pivot int) int {
	seats := st.occupiedSeats(func(p PlayerState) bool { return p.Status == StatusPlaying })
	return nextOccupiedSeat(seats, pivot)
}

// CheckConservation verifies that no chips appeared or vanished: the
// sum of all stacks plus the pot must equal the chips bought in minus
// the chips that left. Call between hands; a failure is an engine bug.
func (e *Engine) CheckConservation() error {
	total := e.state.Pot
	for _, p := range e.state.Players {
		total += p.Stack
	}
	if total != e.totalChips {
		return fmt.Errorf("engine: chip conservation violated: have %d, want %d", total, e.totalChips)
	}
	return nil
}

// HandSnapshot is the full persistable state of an in-flight hand,
// including the deck partition. It contains hole cards and undealt
// cards; the broadcast layer must redact before sending to clients.
type HandSnapshot struct {
	Game   GameState       `json:"game"`
	Deck   poker.DeckState `json:"deck"`
	Config TableConfig     `json:"config"`
}

// Snapshot captures the engine for persistence
func (e *Engine) Snapshot() HandSnapshot {
	return HandSnapshot{
		Game:   e.state.Clone(),
		Deck:   e.deck.State(),
		Config: e.cfg,
	}
}

// Resume reconstructs an engine from a persisted snapshot so an
// in-flight hand can continue after a restart.
func Resume(snap HandSnapshot, rng *rand.Rand) (*Engine, error) {
	if err := snap.Config.Validate(); err != nil {
		return nil, err
	}
	deck, err := poker.RestoreDeck(snap.Deck, rng)
	if err != nil {
		return nil, fmt.Errorf("restoring deck: %w", err)
	}
	total := snap.Game.Pot
	for _, p := range snap.Game.Players {
		total += p.Stack
	}
	return &Engine{
		cfg:        snap.Config,
		rng:        rng,
		deck:       deck,
		state:      snap.Game.Clone(),
		totalChips: total,
	}, nil
}

const handIDAlphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// newHandID generates a short base32 identifier for log correlation
func newHandID(rng *rand.Rand) string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = handIDAlphabet[rng.IntN(len(handIDAlphabet))]
	}
	return string(b)
}
