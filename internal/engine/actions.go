package engine

import (
	"fmt"

	"github.com/feltworks/holdem/poker"
)

// ProcessAction validates and applies one player action. Bet and raise
// amounts are the total street bet to raise to, never an increment on
// top of the current bet. On success the engine commits and returns the
// new snapshot; on rejection the state is unchanged and the caller may
// re-prompt. Deck errors are fatal to the hand and surface wrapped,
// never swallowed.
func (e *Engine) ProcessAction(playerID string, action Action, amount int) (GameState, error) {
	if e.state.Phase < Preflop || e.state.Phase > River {
		return GameState{}, ErrHandNotInProgress
	}

	cur := e.state.player(playerID)
	if cur == nil {
		return GameState{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if cur.Seat != e.state.ActiveSeat || cur.Status != StatusPlaying {
		return GameState{}, fmt.Errorf("%w: %s", ErrNotPlayersTurn, playerID)
	}

	// Mutate a copy; commit only after every check passes
	st := e.state.Clone()
	p := st.player(playerID)

	if err := applyAction(&st, p, action, amount); err != nil {
		return GameState{}, err
	}

	p.Acted = true
	st.LastAction = &ActionRecord{PlayerID: playerID, Action: action, Amount: amount}

	if err := e.resolveRound(&st, p.Seat); err != nil {
		return GameState{}, err
	}

	e.state = st
	return st.Clone(), nil
}

// applyAction performs the chip movement for a single action
func applyAction(st *GameState, p *PlayerState, action Action, amount int) error {
	callAmount := st.CurrentBet - p.CurrentBet

	switch action {
	case Fold:
		p.Status = StatusFolded

	case Check:
		if callAmount != 0 {
			return fmt.Errorf("%w: cannot check, %d to call", ErrInvalidAction, callAmount)
		}

	case Call:
		if callAmount == 0 {
			return fmt.Errorf("%w: nothing to call", ErrInvalidAction)
		}
		commit(st, p, min(callAmount, p.Stack))

	case Bet, Raise:
		// Amount is the total street bet to raise to
		if amount <= st.CurrentBet {
			return fmt.Errorf("%w: raise to %d must exceed current bet %d", ErrInvalidAction, amount, st.CurrentBet)
		}
		needed := amount - p.CurrentBet
		if needed > p.Stack {
			return fmt.Errorf("%w: raise to %d exceeds stack", ErrInvalidAction, amount)
		}
		// Below-minimum raises are only legal as an all-in
		if amount < st.CurrentBet+st.MinRaise && needed < p.Stack {
			return fmt.Errorf("%w: minimum raise is to %d", ErrInvalidAction, st.CurrentBet+st.MinRaise)
		}
		st.MinRaise = amount - st.CurrentBet
		st.CurrentBet = amount
		commit(st, p, needed)
		reopenBetting(st, p.Seat)

	case AllIn:
		if p.Stack == 0 {
			return fmt.Errorf("%w: no chips to commit", ErrInvalidAction)
		}
		commit(st, p, p.Stack)
		if p.CurrentBet > st.CurrentBet {
			st.MinRaise = p.CurrentBet - st.CurrentBet
			st.CurrentBet = p.CurrentBet
			reopenBetting(st, p.Seat)
		}

	default:
		return fmt.Errorf("%w: unknown action %d", ErrInvalidAction, action)
	}
	return nil
}

// commit moves chips from the player's stack into the current street
// bet, the cumulative contribution, and the pot.
func commit(st *GameState, p *PlayerState, chips int) {
	p.Stack -= chips
	p.CurrentBet += chips
	p.Contributed += chips
	st.Pot += chips
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
}

// reopenBetting clears acted flags after a raise so every other player
// gets another turn.
func reopenBetting(st *GameState, raiserSeat int) {
	for i := range st.Players {
		if st.Players[i].Seat != raiserSeat {
			st.Players[i].Acted = false
		}
	}
}

// resolveRound runs the post-action completion check: hand over, street
// complete, or turn passes to the next seat after actedSeat.
func (e *Engine) resolveRound(st *GameState, actedSeat int) error {
	inHand := 0
	for _, p := range st.Players {
		if p.Status.InHand() {
			inHand++
		}
	}
	if inHand <= 1 {
		// Everyone else folded; no more cards are dealt
		st.Phase = Showdown
		st.ActiveSeat = NoSeat
		return nil
	}
	if bettingComplete(st) {
		return e.advancePhase(st)
	}
	st.ActiveSeat = nextActingSeat(st, actedSeat)
	return nil
}

// bettingComplete reports whether the street is settled: every player
// still able to act has matched the current bet and taken a turn since
// the last raise. Blinds do not count as having acted, which gives the
// big blind its preflop option.
func bettingComplete(st *GameState) bool {
	for _, p := range st.Players {
		if p.Status != StatusPlaying {
			continue
		}
		if p.CurrentBet != st.CurrentBet || !p.Acted {
			return false
		}
	}
	return true
}

// advancePhase moves to the next street: per-street bets reset, burn
// card, community cards dealt. When nobody is left with chips to bet
// the board runs out street by street until showdown.
func (e *Engine) advancePhase(st *GameState) error {
	for {
		for i := range st.Players {
			st.Players[i].CurrentBet = 0
			st.Players[i].Acted = false
		}
		st.CurrentBet = 0
		st.MinRaise = e.cfg.BigBlind

		switch st.Phase {
		case Preflop:
			if err := e.dealCommunity(st, Flop, 3); err != nil {
				return err
			}
		case Flop:
			if err := e.dealCommunity(st, Turn, 1); err != nil {
				return err
			}
		case Turn:
			if err := e.dealCommunity(st, River, 1); err != nil {
				return err
			}
		case River:
			st.Phase = Showdown
			st.ActiveSeat = NoSeat
			return nil
		default:
			return ErrHandNotInProgress
		}

		// Post-flop action starts left of the button
		st.ActiveSeat = nextActingSeat(st, st.DealerSeat)
		if st.ActiveSeat != NoSeat {
			return nil
		}
		// All remaining players are all-in; run the board out
	}
}

// dealCommunity burns one card then deals n to the board and enters the
// street. Coming up short is fatal: it means the deck was double-dealt.
func (e *Engine) dealCommunity(st *GameState, street Phase, n int) error {
	if err := e.deck.Burn(); err != nil {
		return fmt.Errorf("burning before %s: %w", street, err)
	}
	cards := e.deck.DealCards(n)
	if len(cards) != n {
		return fmt.Errorf("dealing %s, got %d of %d cards: %w", street, len(cards), n, poker.ErrDeckExhausted)
	}
	st.CommunityCards = append(st.CommunityCards, cards...)
	st.Phase = street
	return nil
}

// ValidAction describes one legal action for the active player with its
// amount bounds. Bet/raise amounts are the street total to raise to.
type ValidAction struct {
	Action Action `json:"action"`
	Min    int    `json:"min,omitempty"`
	Max    int    `json:"max,omitempty"`
}

// ValidActions returns the legal actions for the active player, or nil
// when no one is to act. Used by callers to prompt clients and by the
// simulator to generate legal play.
func (e *Engine) ValidActions() []ValidAction {
	return ValidActionsIn(&e.state)
}

// ValidActionsIn computes the legal actions from a state snapshot, so
// holders of a snapshot need not call back into the engine.
func ValidActionsIn(st *GameState) []ValidAction {
	if st.Phase < Preflop || st.Phase > River || st.ActiveSeat == NoSeat {
		return nil
	}
	p := st.playerAtSeat(st.ActiveSeat)
	if p == nil || p.Status != StatusPlaying {
		return nil
	}

	actions := []ValidAction{{Action: Fold}}
	callAmount := st.CurrentBet - p.CurrentBet
	maxTotal := p.CurrentBet + p.Stack

	if callAmount == 0 {
		actions = append(actions, ValidAction{Action: Check})
	} else if callAmount < p.Stack {
		actions = append(actions, ValidAction{Action: Call, Min: callAmount, Max: callAmount})
	}

	minRaiseTo := st.CurrentBet + st.MinRaise
	if maxTotal >= minRaiseTo {
		name := Raise
		if st.CurrentBet == 0 {
			name = Bet
		}
		actions = append(actions, ValidAction{Action: name, Min: minRaiseTo, Max: maxTotal})
	}
	if p.Stack > 0 {
		actions = append(actions, ValidAction{Action: AllIn, Min: maxTotal, Max: maxTotal})
	}
	return actions
}
