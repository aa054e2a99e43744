package engine

import "sort"

// CalculateSidePots partitions the hand's contributions into eligibility
// tiers. Tier levels are the distinct cumulative contributions of the
// players still contesting the pot; each tier's amount collects every
// player's chips between the previous level and this one, folded
// players included. Folded players fund tiers but are never eligible.
//
// Conservation holds by construction: every contributed chip lands in
// exactly one tier.
func CalculateSidePots(players []PlayerState) []SidePot {
	levels := make([]int, 0, len(players))
	seen := make(map[int]bool)
	for _, p := range players {
		if p.Status.InHand() && p.Contributed > 0 && !seen[p.Contributed] {
			seen[p.Contributed] = true
			levels = append(levels, p.Contributed)
		}
	}
	if len(levels) == 0 {
		return nil
	}
	sort.Ints(levels)

	pots := make([]SidePot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := SidePot{}
		for _, p := range players {
			c := p.Contributed
			if c > level {
				c = level
			}
			if c > prev {
				pot.Amount += c - prev
			}
			if p.Status.InHand() && p.Contributed >= level {
				pot.Eligible = append(pot.Eligible, p.PlayerID)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}

	// Folded chips above the highest contesting level still belong to
	// the pot; fold them into the top tier.
	excess := 0
	for _, p := range players {
		if p.Contributed > prev {
			excess += p.Contributed - prev
		}
	}
	if excess > 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += excess
	}

	return pots
}
