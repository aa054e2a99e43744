package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction marks an action that is illegal in the current
	// betting context. State is never mutated on rejection.
	ErrInvalidAction = errors.New("engine: invalid action")

	// ErrNotPlayersTurn marks an action from a seat other than the
	// active one, typically a stale client message.
	ErrNotPlayersTurn = errors.New("engine: not player's turn")

	// ErrHandInProgress is returned when a hand cannot start because
	// one is already running.
	ErrHandInProgress = errors.New("engine: hand already in progress")

	// ErrHandNotInProgress is returned for actions outside a hand.
	ErrHandNotInProgress = errors.New("engine: no hand in progress")

	// ErrNotEnoughPlayers is returned when fewer than two funded
	// players are seated at hand start.
	ErrNotEnoughPlayers = errors.New("engine: not enough players")

	// ErrSeatTaken is returned when seating collides with an occupied seat.
	ErrSeatTaken = errors.New("engine: seat taken")

	// ErrUnknownPlayer is returned for operations on an unseated player.
	ErrUnknownPlayer = errors.New("engine: unknown player")
)

func errInvalidConfig(msg string) error {
	return fmt.Errorf("engine: invalid table config: %s", msg)
}
