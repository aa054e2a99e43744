// Package server is a thin websocket front end for the table runners:
// it authenticates connections, routes join/leave/action messages, and
// fans out per-recipient redacted snapshots. Game rules live entirely
// in the engine; nothing here inspects cards.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server accepts websocket connections and tracks which player each
// connection speaks for.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	service  *Service

	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewServer creates a websocket server listening on addr
func NewServer(addr string, logger *log.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
	}
}

// SetService wires the game service; must be called before Run
func (s *Server) SetService(service *Service) {
	s.service = service
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeConnections()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.service)
	s.register(client)
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister(client)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	// Fold and remove a player who dropped mid-hand
	playerID, tableID := conn.GetPlayer(), conn.GetTable()
	if playerID != "" && tableID != "" && s.service != nil {
		s.logger.Info("cleaning up disconnected player", "player", playerID, "table", tableID)
		_ = s.service.LeaveTable(tableID, playerID)
	}
	_ = conn.Close()
	s.logger.Info("client disconnected", "total", total)
}

// SendToPlayer delivers a message to a named player's connection.
// Disconnected players are not an error worth surfacing to game flow.
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		if conn.GetPlayer() == playerID {
			return conn.SendMessage(msg)
		}
	}
	return fmt.Errorf("player not connected: %s", playerID)
}
