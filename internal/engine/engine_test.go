package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/holdem/internal/randutil"
)

func newTestEngine(t *testing.T, seed int64, stacks ...int) *Engine {
	t.Helper()
	e, err := New("t1", TableConfig{MaxSeats: 9, SmallBlind: 25, BigBlind: 50}, randutil.New(seed))
	require.NoError(t, err)
	for i, stack := range stacks {
		require.NoError(t, e.Seat(fmt.Sprintf("p%d", i), i, stack))
	}
	return e
}

func TestSeatValidation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 1, 1000)

	require.ErrorIs(t, e.Seat("p9", 0, 1000), ErrSeatTaken)
	require.Error(t, e.Seat("p0", 3, 1000), "duplicate player")
	require.Error(t, e.Seat("p9", 9, 1000), "seat out of range")
	require.Error(t, e.Seat("p9", 3, 0), "zero buy-in")
}

func TestStartNewHandRequiresTwoPlayers(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 1, 1000)
	_, err := e.StartNewHand()
	require.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestStartNewHandSetsUpThreeWay(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 2, 1000, 1000, 1000)

	st, err := e.StartNewHand()
	require.NoError(t, err)

	assert.Equal(t, Preflop, st.Phase)
	assert.Equal(t, 0, st.DealerSeat)
	assert.Equal(t, 75, st.Pot)
	assert.Equal(t, 50, st.CurrentBet)
	assert.NotEmpty(t, st.HandID)

	assert.True(t, st.Players[0].IsDealer)
	assert.True(t, st.Players[1].IsSmallBlind)
	assert.True(t, st.Players[2].IsBigBlind)
	assert.Equal(t, 975, st.Players[1].Stack)
	assert.Equal(t, 950, st.Players[2].Stack)

	// UTG is the seat after the big blind, wrapping to the dealer
	assert.Equal(t, 0, st.ActiveSeat)

	// Two hole cards each, no duplicates anywhere
	seen := make(map[string]bool)
	for _, p := range st.Players {
		require.Len(t, p.HoleCards, 2)
		for _, c := range p.HoleCards {
			require.False(t, seen[c.String()], "duplicate card %s", c)
			seen[c.String()] = true
		}
	}
}

func TestDealerRotatesBetweenHands(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 3, 1000, 1000, 1000)

	st, err := e.StartNewHand()
	require.NoError(t, err)
	require.Equal(t, 0, st.DealerSeat)

	// Fold everyone so the hand ends
	_, err = e.ProcessAction("p0", Fold, 0)
	require.NoError(t, err)
	_, err = e.ProcessAction("p1", Fold, 0)
	require.NoError(t, err)
	_, err = e.ProcessShowdown()
	require.NoError(t, err)

	st, err = e.StartNewHand()
	require.NoError(t, err)
	assert.Equal(t, 1, st.DealerSeat)
	assert.True(t, st.Players[1].IsDealer)
}

// Heads-up: dealer posts the small blind and acts first preflop; the
// big blind acts first on every later street.
func TestHeadsUpScenario(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 4, 1000, 1000)

	st, err := e.StartNewHand()
	require.NoError(t, err)

	require.Equal(t, 0, st.DealerSeat)
	assert.True(t, st.Players[0].IsDealer)
	assert.True(t, st.Players[0].IsSmallBlind)
	assert.True(t, st.Players[1].IsBigBlind)
	assert.Equal(t, 75, st.Pot)
	assert.Equal(t, 50, st.CurrentBet)
	assert.Equal(t, 0, st.ActiveSeat, "dealer acts first preflop heads-up")

	// Dealer calls the half bet
	st, err = e.ProcessAction("p0", Call, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, st.Pot)
	assert.Equal(t, 50, st.Players[0].CurrentBet)
	assert.Equal(t, Preflop, st.Phase, "big blind still has the option")
	assert.Equal(t, 1, st.ActiveSeat)

	// Big blind checks the option; flop comes
	st, err = e.ProcessAction("p1", Check, 0)
	require.NoError(t, err)
	assert.Equal(t, Flop, st.Phase)
	assert.Len(t, st.CommunityCards, 3)
	assert.Equal(t, 0, st.CurrentBet)
	assert.Equal(t, 0, st.Players[0].CurrentBet)
	assert.Equal(t, 0, st.Players[1].CurrentBet)
	assert.Equal(t, 1, st.ActiveSeat, "big blind acts first postflop")

	// Check it down to showdown, watching the board grow
	for _, wantLen := range []int{4, 5} {
		st, err = e.ProcessAction("p1", Check, 0)
		require.NoError(t, err)
		st, err = e.ProcessAction("p0", Check, 0)
		require.NoError(t, err)
		assert.Len(t, st.CommunityCards, wantLen)
	}
	assert.Equal(t, Showdown, st.Phase)
	assert.Equal(t, NoSeat, st.ActiveSeat)
}

func TestInvalidActionsRejected(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 5, 1000, 1000, 1000)

	_, err := e.ProcessAction("p0", Fold, 0)
	require.ErrorIs(t, err, ErrHandNotInProgress)

	before, err := e.StartNewHand()
	require.NoError(t, err)

	// Out of turn
	_, err = e.ProcessAction("p1", Call, 0)
	require.ErrorIs(t, err, ErrNotPlayersTurn)

	// Unknown player
	_, err = e.ProcessAction("ghost", Fold, 0)
	require.ErrorIs(t, err, ErrUnknownPlayer)

	// Check while facing the big blind
	_, err = e.ProcessAction("p0", Check, 0)
	require.ErrorIs(t, err, ErrInvalidAction)

	// Raise beyond the stack
	_, err = e.ProcessAction("p0", Raise, 2000)
	require.ErrorIs(t, err, ErrInvalidAction)

	// Raise below the minimum without being all-in
	_, err = e.ProcessAction("p0", Raise, 75)
	require.ErrorIs(t, err, ErrInvalidAction)

	// Raise that does not exceed the current bet
	_, err = e.ProcessAction("p0", Raise, 50)
	require.ErrorIs(t, err, ErrInvalidAction)

	// Rejections never mutate state
	assert.Equal(t, before, e.State())

	// Calling with nothing to call is rejected postflop
	_, err = e.ProcessAction("p0", Call, 0)
	require.NoError(t, err)
	_, err = e.ProcessAction("p1", Call, 0)
	require.NoError(t, err)
	st, err := e.ProcessAction("p2", Check, 0)
	require.NoError(t, err)
	require.Equal(t, Flop, st.Phase)
	_, err = e.ProcessAction("p1", Call, 0)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestBigBlindOption(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 6, 1000, 1000, 1000)

	_, err := e.StartNewHand()
	require.NoError(t, err)

	_, err = e.ProcessAction("p0", Call, 0)
	require.NoError(t, err)
	st, err := e.ProcessAction("p1", Call, 0)
	require.NoError(t, err)

	// All bets match but the big blind still gets its option
	require.Equal(t, Preflop, st.Phase)
	require.Equal(t, 2, st.ActiveSeat)

	// The option raise reopens the action
	st, err = e.ProcessAction("p2", Raise, 150)
	require.NoError(t, err)
	assert.Equal(t, Preflop, st.Phase)
	assert.Equal(t, 150, st.CurrentBet)
	assert.Equal(t, 0, st.ActiveSeat)

	_, err = e.ProcessAction("p0", Call, 0)
	require.NoError(t, err)
	st, err = e.ProcessAction("p1", Call, 0)
	require.NoError(t, err)
	assert.Equal(t, Flop, st.Phase)
}

func TestShortStackBlindGoesAllIn(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 7, 1000, 1000, 30)

	st, err := e.StartNewHand()
	require.NoError(t, err)

	bb := st.Players[2]
	assert.Equal(t, StatusAllIn, bb.Status)
	assert.Equal(t, 0, bb.Stack)
	assert.Equal(t, 30, bb.Contributed)
	assert.Equal(t, 50, st.CurrentBet, "table bet stays at the full big blind")
	assert.Equal(t, 55, st.Pot)
	assert.Equal(t, 0, st.ActiveSeat)
}

func TestAllInRunout(t *testing.T) {
	t.Parallel()
	e, err := New("t1", TableConfig{MaxSeats: 6, SmallBlind: 5, BigBlind: 10}, randutil.New(8))
	require.NoError(t, err)
	require.NoError(t, e.Seat("p0", 0, 100))
	require.NoError(t, e.Seat("p1", 1, 100))

	_, err = e.StartNewHand()
	require.NoError(t, err)

	// Dealer shoves, big blind calls all-in: the board runs out with
	// no further action
	_, err = e.ProcessAction("p0", AllIn, 0)
	require.NoError(t, err)
	st, err := e.ProcessAction("p1", Call, 0)
	require.NoError(t, err)

	assert.Equal(t, Showdown, st.Phase)
	assert.Len(t, st.CommunityCards, 5)
	assert.Equal(t, 200, st.Pot)
	assert.Equal(t, NoSeat, st.ActiveSeat)

	result, err := e.ProcessShowdown()
	require.NoError(t, err)
	total := 0
	for _, w := range result.Winners {
		total += w.Amount
	}
	assert.Equal(t, 200, total)
	require.NoError(t, e.CheckConservation())
}

func TestFoldOutEndsHandWithoutDealing(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 9, 1000, 1000)

	_, err := e.StartNewHand()
	require.NoError(t, err)

	st, err := e.ProcessAction("p0", Fold, 0)
	require.NoError(t, err)
	assert.Equal(t, Showdown, st.Phase)
	assert.Empty(t, st.CommunityCards, "no board is dealt when everyone folds")
	assert.Equal(t, NoSeat, st.ActiveSeat)
}

func TestSnapshotResume(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 10, 1000, 1000, 1000)

	_, err := e.StartNewHand()
	require.NoError(t, err)
	_, err = e.ProcessAction("p0", Call, 0)
	require.NoError(t, err)

	snap := e.Snapshot()
	resumed, err := Resume(snap, randutil.New(10))
	require.NoError(t, err)
	require.Equal(t, e.State(), resumed.State())

	// Both engines must evolve identically from here
	for _, eng := range []*Engine{e, resumed} {
		_, err = eng.ProcessAction("p1", Call, 0)
		require.NoError(t, err)
		_, err = eng.ProcessAction("p2", Check, 0)
		require.NoError(t, err)
	}
	require.Equal(t, e.State(), resumed.State())
	require.Equal(t, Flop, resumed.State().Phase)
	require.NoError(t, resumed.CheckConservation())
}

func TestLeaveMidHandFoldsPlayer(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 11, 1000, 1000, 1000)

	_, err := e.StartNewHand()
	require.NoError(t, err)

	// The small blind leaves out of turn; their 25 stays in the pot
	require.NoError(t, e.Leave("p1"))
	st := e.State()
	p1 := st.player("p1")
	require.NotNil(t, p1)
	assert.Equal(t, StatusLeft, p1.Status)
	assert.Equal(t, 0, p1.Stack)
	assert.Equal(t, 75, st.Pot)
	assert.Equal(t, 0, st.ActiveSeat, "turn stays with the active player")
	require.NoError(t, e.CheckConservation())

	// Next hand proceeds heads-up without the leaver
	_, err = e.ProcessAction("p0", Fold, 0)
	require.NoError(t, err)
	_, err = e.ProcessShowdown()
	require.NoError(t, err)
	st, err = e.StartNewHand()
	require.NoError(t, err)
	assert.Nil(t, st.player("p1"))
	assert.Len(t, st.Players, 2)
}

// A settled hand leaves stale in-hand statuses behind until the next
// deal; a leave in that window must remove the player immediately, not
// walk the mid-hand fold path.
func TestLeaveBetweenHandsKeepsTableReady(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 13, 1000, 1000, 1000)

	_, err := e.StartNewHand()
	require.NoError(t, err)

	// Everyone folds to the big blind and the hand settles
	_, err = e.ProcessAction("p0", Fold, 0)
	require.NoError(t, err)
	_, err = e.ProcessAction("p1", Fold, 0)
	require.NoError(t, err)
	_, err = e.ProcessShowdown()
	require.NoError(t, err)
	require.Equal(t, Waiting, e.State().Phase)

	// The winner leaves before the next deal
	require.NoError(t, e.Leave("p2"))
	st := e.State()
	assert.Equal(t, Waiting, st.Phase, "between-hands leave must not reopen the hand")
	assert.Equal(t, StatusLeft, st.player("p2").Status)
	require.NoError(t, e.CheckConservation())

	// The table deals the next hand without the leaver
	st, err = e.StartNewHand()
	require.NoError(t, err)
	assert.Equal(t, Preflop, st.Phase)
	assert.Len(t, st.Players, 2)
	assert.Nil(t, st.player("p2"))
}

// Random legal play across many hands: chips are conserved, pots are
// fully distributed, and the engine never wedges.
func TestRandomPlayConservation(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 12, 2000, 2000, 2000, 2000)
	rng := randutil.New(99)

	for hand := 0; hand < 60; hand++ {
		st, err := e.StartNewHand()
		if err == ErrNotEnoughPlayers {
			break
		}
		require.NoError(t, err)

		for steps := 0; st.Phase != Showdown; steps++ {
			require.Less(t, steps, 200, "hand %d wedged", hand)
			actions := e.ValidActions()
			require.NotEmpty(t, actions, "hand %d has no valid actions", hand)
			choice := actions[rng.IntN(len(actions))]
			amount := choice.Min
			if choice.Max > choice.Min {
				amount = choice.Min + rng.IntN(choice.Max-choice.Min+1)
			}
			actor := st.playerAtSeat(st.ActiveSeat)
			require.NotNil(t, actor)
			st, err = e.ProcessAction(actor.PlayerID, choice.Action, amount)
			require.NoError(t, err, "hand %d action %s %d", hand, choice.Action, amount)
		}

		potBefore := st.Pot
		result, err := e.ProcessShowdown()
		require.NoError(t, err)
		total := 0
		for _, w := range result.Winners {
			total += w.Amount
		}
		require.Equal(t, potBefore, total, "hand %d pot not fully distributed", hand)
		require.Equal(t, 0, e.State().Pot)
		require.NoError(t, e.CheckConservation(), "hand %d", hand)
	}
}
