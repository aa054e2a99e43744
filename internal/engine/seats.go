package engine

// nextOccupiedSeat returns the first seat in the sorted list strictly
// after the pivot, wrapping around to the lowest seat. The pivot itself
// does not need to be in the list; a pivot of NoSeat yields the lowest
// seat. Returns NoSeat for an empty list.
//
// All dealer/blind rotation goes through this one helper so the
// wrap-around logic is never re-derived at call sites.
func nextOccupiedSeat(seats []int, pivot int) int {
	if len(seats) == 0 {
		return NoSeat
	}
	for _, s := range seats {
		if s > pivot {
			return s
		}
	}
	return seats[0]
}

// occupiedSeats returns the sorted seats of players matching the filter
func (s *GameState) occupiedSeats(filter func(PlayerState) bool) []int {
	seats := make([]int, 0, len(s.Players))
	for _, p := range s.Players {
		if filter(p) {
			seats = append(seats, p.Seat)
		}
	}
	return seats // Players is seat-sorted already
}
