package engine

import (
	"fmt"

	"github.com/feltworks/holdem/poker"
)

// ProcessShowdown distributes the pot among the players still in the
// hand, resets the pot, and returns the table to Waiting. With a single
// survivor the entire pot is awarded without evaluating a hand.
// Otherwise each side pot is evaluated independently and split evenly
// among its best hands, with the odd chip going to the tied winner
// closest to the dealer's left. Settling twice is an error: the second
// call finds no hand in progress.
func (e *Engine) ProcessShowdown() (GameResult, error) {
	if e.state.Phase != Showdown {
		return GameResult{}, fmt.Errorf("%w: phase is %s", ErrHandNotInProgress, e.state.Phase)
	}

	st := e.state.Clone()
	result := GameResult{HandID: st.HandID}

	var contenders []*PlayerState
	for i := range st.Players {
		if st.Players[i].Status.InHand() {
			contenders = append(contenders, &st.Players[i])
		}
	}

	switch len(contenders) {
	case 0:
		// Nothing to award; still reset so the table can continue
		st.Pot = 0
		st.Phase = Waiting
		e.finishLeaves(&st)
		e.state = st
		return result, nil

	case 1:
		// Default winner: no hand is evaluated or revealed
		w := contenders[0]
		w.Stack += st.Pot
		result.Winners = []Winner{{PlayerID: w.PlayerID, Amount: st.Pot, PotIndex: 0}}
		result.SidePots = []SidePot{{Amount: st.Pot, Eligible: []string{w.PlayerID}}}
		st.Pot = 0
		st.Phase = Waiting
		e.finishLeaves(&st)
		e.state = st
		return result, nil
	}

	pots := CalculateSidePots(st.Players)
	result.SidePots = pots

	ranks := make(map[string]poker.HandRank, len(contenders))
	for _, p := range contenders {
		rank, err := poker.EvaluateHand(p.HoleCards, st.CommunityCards)
		if err != nil {
			return GameResult{}, fmt.Errorf("evaluating %s: %w", p.PlayerID, err)
		}
		ranks[p.PlayerID] = rank
	}

	for potIdx, pot := range pots {
		best := []string{}
		for _, id := range pot.Eligible {
			if len(best) == 0 {
				best = []string{id}
				continue
			}
			switch cmp := poker.CompareHands(ranks[id], ranks[best[0]]); {
			case cmp > 0:
				best = []string{id}
			case cmp == 0:
				best = append(best, id)
			}
		}
		if len(best) == 0 {
			continue
		}

		share := pot.Amount / len(best)
		remainder := pot.Amount % len(best)
		// House rule: the leftover chip goes to the first tied winner
		// left of the button
		orderWinnersFromDealer(st, best)

		for i, id := range best {
			amount := share
			if i == 0 {
				amount += remainder
			}
			if amount == 0 {
				continue
			}
			p := st.player(id)
			p.Stack += amount
			rank := ranks[id]
			result.Winners = append(result.Winners, Winner{
				PlayerID: id,
				Amount:   amount,
				HandRank: &rank,
				PotIndex: potIdx,
			})
		}
	}

	st.Pot = 0
	st.Phase = Waiting
	e.finishLeaves(&st)
	e.state = st
	return result, nil
}

// orderWinnersFromDealer sorts player IDs by seat distance clockwise
// from the seat after the dealer.
func orderWinnersFromDealer(st GameState, ids []string) {
	maxSeat := 0
	for _, p := range st.Players {
		if p.Seat > maxSeat {
			maxSeat = p.Seat
		}
	}
	distance := func(id string) int {
		p := st.player(id)
		d := p.Seat - st.DealerSeat
		if d <= 0 {
			d += maxSeat + 1 // wrap past the highest seat
		}
		return d
	}
	// Insertion sort; winner lists are tiny
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && distance(ids[j]) < distance(ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
