// Package table serializes access to a single game engine and enforces
// turn timeouts. One Runner per table; tables share nothing, so there is
// no cross-table locking anywhere.
package table

import (
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/holdem/internal/engine"
)

// Config carries per-table settings
type Config struct {
	TableID     string
	Game        engine.TableConfig
	TurnTimeout time.Duration // zero disables the turn timer
}

// Runner wraps an engine with a mutex and a turn timer. The engine
// itself is single-threaded; every mutation goes through the runner.
//
// State and result callbacks are invoked with the runner lock held, so
// they must not call back into the runner. Fan-out belongs outside.
type Runner struct {
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock

	onState  func(engine.GameState)
	onResult func(engine.GameResult, engine.GameState)

	mu        sync.Mutex
	eng       *engine.Engine
	timer     *quartz.Timer
	turnEpoch int // bumped whenever the timer is re-armed or stopped
}

// New creates a runner around a fresh engine
func New(cfg Config, rng *rand.Rand, logger *log.Logger, clock quartz.Clock) (*Runner, error) {
	eng, err := engine.New(cfg.TableID, cfg.Game, rng)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.WithPrefix("table").With("table", cfg.TableID),
		clock:  clock,
		eng:    eng,
	}, nil
}

// OnState registers a callback invoked with every new state snapshot.
// Must be set before the runner is shared.
func (r *Runner) OnState(fn func(engine.GameState)) {
	r.onState = fn
}

// OnResult registers a callback invoked with each completed hand and
// the settled state. Must be set before the runner is shared.
func (r *Runner) OnResult(fn func(engine.GameResult, engine.GameState)) {
	r.onResult = fn
}

// State returns the current snapshot
func (r *Runner) State() engine.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.State()
}

// ValidActions returns the legal actions for whoever is to act
func (r *Runner) ValidActions() []engine.ValidAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.ValidActions()
}

// Join seats a player; they enter play at the next hand
func (r *Runner) Join(playerID string, seat, stack int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.eng.Seat(playerID, seat, stack); err != nil {
		return err
	}
	r.logger.Info("player joined", "player", playerID, "seat", seat, "stack", stack)
	r.emitState(r.eng.State())
	return nil
}

// Leave removes a player, folding them first if they can still act.
// An all-in leaver stays in the hand until it settles.
func (r *Runner) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.eng.Leave(playerID); err != nil {
		return err
	}
	r.logger.Info("player left", "player", playerID)
	r.afterChangeLocked(r.eng.State())
	return nil
}

// StartHand deals the next hand and arms the first turn timer
func (r *Runner) StartHand() (engine.GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.eng.StartNewHand()
	if err != nil {
		return engine.GameState{}, err
	}
	r.logger.Info("hand started", "hand", st.HandID, "players", len(st.Players), "dealer", st.DealerSeat)
	r.afterChangeLocked(st)
	return st, nil
}

// Act applies a player action. Rejected actions leave both the state and
// the running turn timer untouched, so a bad submission does not buy the
// player more time.
func (r *Runner) Act(playerID string, action engine.Action, amount int) (engine.GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, err := r.eng.ProcessAction(playerID, action, amount)
	if err != nil {
		return engine.GameState{}, err
	}
	r.logger.Debug("action applied", "hand", st.HandID, "player", playerID, "action", action, "amount", amount)
	r.afterChangeLocked(st)
	return st, nil
}

// afterChangeLocked runs after every successful mutation: emit the
// snapshot, settle if the hand is over, otherwise re-arm the turn timer
// for the new active seat.
func (r *Runner) afterChangeLocked(st engine.GameState) {
	r.stopTimerLocked()
	r.emitState(st)

	if st.Phase == engine.Showdown {
		r.settleLocked()
		return
	}
	if r.cfg.TurnTimeout <= 0 || st.ActiveSeat == engine.NoSeat {
		return
	}

	epoch := r.turnEpoch
	seat := st.ActiveSeat
	r.timer = r.clock.AfterFunc(r.cfg.TurnTimeout, func() {
		r.turnExpired(epoch, seat)
	})
}

func (r *Runner) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.turnEpoch++
}

// turnExpired injects a synthetic fold for a player who ran out of time.
// The epoch check discards timers that lost the race with a real action.
func (r *Runner) turnExpired(epoch, seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if epoch != r.turnEpoch {
		return
	}

	st := r.eng.State()
	if st.ActiveSeat != seat {
		return
	}
	var playerID string
	for _, p := range st.Players {
		if p.Seat == seat {
			playerID = p.PlayerID
			break
		}
	}
	if playerID == "" {
		return
	}

	r.logger.Warn("turn timer expired, folding", "hand", st.HandID, "player", playerID, "seat", seat)
	next, err := r.eng.ProcessAction(playerID, engine.Fold, 0)
	if err != nil {
		r.logger.Error("timeout fold rejected", "player", playerID, "error", err)
		return
	}
	r.afterChangeLocked(next)
}

// settleLocked distributes the pot once the hand reaches showdown
func (r *Runner) settleLocked() {
	result, err := r.eng.ProcessShowdown()
	if err != nil {
		r.logger.Error("settling hand", "error", err)
		return
	}
	if err := r.eng.CheckConservation(); err != nil {
		r.logger.Error("conservation check failed", "hand", result.HandID, "error", err)
	}
	r.logger.Info("hand complete", "hand", result.HandID, "winners", len(result.Winners), "pots", len(result.SidePots))

	settled := r.eng.State()
	if r.onResult != nil {
		r.onResult(result, settled)
	}
	r.emitState(settled)
}

func (r *Runner) emitState(st engine.GameState) {
	if r.onState != nil {
		r.onState(st)
	}
}
