package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/holdem/internal/engine"
	"github.com/feltworks/holdem/internal/randutil"
	"github.com/feltworks/holdem/internal/table"
)

// Service owns the table runners and connects them to the websocket
// layer: actions in, redacted snapshots and results out. Hands start
// automatically once a table has two funded players.
type Service struct {
	server    *Server
	logger    *log.Logger
	clock     quartz.Clock
	handDelay time.Duration

	mu     sync.RWMutex
	tables map[string]*tableEntry
}

type tableEntry struct {
	cfg    TableConfig
	runner *table.Runner
}

// NewService builds runners for every configured table. The seed makes
// all shuffles reproducible; each table derives its own stream.
func NewService(cfg *Config, server *Server, logger *log.Logger, seed int64, clock quartz.Clock) (*Service, error) {
	s := &Service{
		server:    server,
		logger:    logger.WithPrefix("service"),
		clock:     clock,
		handDelay: 2 * time.Second,
		tables:    make(map[string]*tableEntry),
	}

	for i, tc := range cfg.Tables {
		runner, err := table.New(table.Config{
			TableID: tc.Name,
			Game: engine.TableConfig{
				MaxSeats:   tc.Seats,
				SmallBlind: tc.SmallBlind,
				BigBlind:   tc.BigBlind,
			},
			TurnTimeout: tc.TurnTimeout(),
		}, randutil.New(seed+int64(i)), logger, clock)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tc.Name, err)
		}

		name, timeoutSeconds := tc.Name, tc.TurnTimeoutSeconds
		runner.OnState(func(st engine.GameState) {
			s.broadcastState(name, timeoutSeconds, st)
		})
		runner.OnResult(func(res engine.GameResult, st engine.GameState) {
			s.broadcastResult(name, res, st)
			s.scheduleHand(name)
		})

		s.tables[tc.Name] = &tableEntry{cfg: tc, runner: runner}
	}
	return s, nil
}

// SetHandDelay overrides the pause between hands; used by tests
func (s *Service) SetHandDelay(d time.Duration) {
	s.handDelay = d
}

func (s *Service) entry(tableID string) (*tableEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tables[tableID]
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", tableID)
	}
	return e, nil
}

// JoinTable seats a player and returns the seat taken. A nil seat takes
// the first free one.
func (s *Service) JoinTable(tableID, playerID string, seat *int, buyIn int) (int, error) {
	e, err := s.entry(tableID)
	if err != nil {
		return 0, err
	}
	if buyIn < e.cfg.BuyInMin || buyIn > e.cfg.BuyInMax {
		return 0, fmt.Errorf("buy-in %d outside table range %d..%d", buyIn, e.cfg.BuyInMin, e.cfg.BuyInMax)
	}

	st := e.runner.State()
	taken := make(map[int]bool, len(st.Players))
	for _, p := range st.Players {
		taken[p.Seat] = true
	}

	chosen := -1
	if seat != nil {
		chosen = *seat
	} else {
		for i := 0; i < e.cfg.Seats; i++ {
			if !taken[i] {
				chosen = i
				break
			}
		}
		if chosen == -1 {
			return 0, fmt.Errorf("table %s is full", tableID)
		}
	}

	if err := e.runner.Join(playerID, chosen, buyIn); err != nil {
		return 0, err
	}
	s.maybeStart(tableID, e)
	return chosen, nil
}

// LeaveTable removes a player from a table
func (s *Service) LeaveTable(tableID, playerID string) error {
	e, err := s.entry(tableID)
	if err != nil {
		return err
	}
	return e.runner.Leave(playerID)
}

// HandleAction applies a player's wire action to the table
func (s *Service) HandleAction(tableID, playerID, actionName string, amount int) error {
	e, err := s.entry(tableID)
	if err != nil {
		return err
	}
	action, ok := engine.ParseAction(actionName)
	if !ok {
		return fmt.Errorf("invalid action: %s", actionName)
	}
	_, err = e.runner.Act(playerID, action, amount)
	return err
}

// ListTables summarizes every table for the lobby
func (s *Service) ListTables() []TableInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]TableInfo, 0, len(s.tables))
	for name, e := range s.tables {
		st := e.runner.State()
		infos = append(infos, TableInfo{
			Name:        name,
			PlayerCount: len(st.Players),
			Seats:       e.cfg.Seats,
			SmallBlind:  e.cfg.SmallBlind,
			BigBlind:    e.cfg.BigBlind,
		})
	}
	return infos
}

// maybeStart schedules the first hand once two funded players are seated
func (s *Service) maybeStart(tableID string, e *tableEntry) {
	st := e.runner.State()
	if st.Phase != engine.Waiting {
		return
	}
	funded := 0
	for _, p := range st.Players {
		if p.Stack > 0 && p.Status != engine.StatusLeft {
			funded++
		}
	}
	if funded >= 2 {
		s.scheduleHand(tableID)
	}
}

// scheduleHand starts the next hand after the inter-hand pause. Called
// from runner callbacks, so the actual start must happen outside them.
func (s *Service) scheduleHand(tableID string) {
	s.clock.AfterFunc(s.handDelay, func() {
		e, err := s.entry(tableID)
		if err != nil {
			return
		}
		if _, err := e.runner.StartHand(); err != nil {
			// Not enough players or a hand already running; both benign
			s.logger.Debug("hand not started", "table", tableID, "error", err)
		}
	})
}

// broadcastState fans the snapshot out with per-recipient redaction and
// prompts the active player.
func (s *Service) broadcastState(tableID string, timeoutSeconds int, st engine.GameState) {
	for _, p := range st.Players {
		if p.Status == engine.StatusLeft {
			continue
		}
		msg, err := NewMessage(MessageTypeGameState, GameStateData{
			TableID: tableID,
			State:   RedactState(st, p.PlayerID),
		})
		if err != nil {
			s.logger.Error("failed to build state message", "error", err)
			return
		}
		_ = s.server.SendToPlayer(p.PlayerID, msg)
	}

	if actions := engine.ValidActionsIn(&st); len(actions) > 0 {
		for _, p := range st.Players {
			if p.Seat == st.ActiveSeat {
				msg, err := NewMessage(MessageTypeActionRequired, ActionRequiredData{
					TableID:        tableID,
					HandID:         st.HandID,
					ValidActions:   actions,
					TimeoutSeconds: timeoutSeconds,
				})
				if err == nil {
					_ = s.server.SendToPlayer(p.PlayerID, msg)
				}
				break
			}
		}
	}
}

func (s *Service) broadcastResult(tableID string, res engine.GameResult, st engine.GameState) {
	msg, err := NewMessage(MessageTypeHandResult, HandResultData{TableID: tableID, Result: res})
	if err != nil {
		s.logger.Error("failed to build result message", "error", err)
		return
	}
	for _, p := range st.Players {
		if p.Status != engine.StatusLeft {
			_ = s.server.SendToPlayer(p.PlayerID, msg)
		}
	}
}
