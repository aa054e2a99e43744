package server

import (
	"encoding/json"
	"time"

	"github.com/feltworks/holdem/internal/engine"
)

// MessageType identifies a websocket message
type MessageType string

const (
	// Client to server
	MessageTypeAuth       MessageType = "auth"
	MessageTypeJoinTable  MessageType = "join_table"
	MessageTypeLeaveTable MessageType = "leave_table"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeAction     MessageType = "action"

	// Server to client
	MessageTypeAuthResponse   MessageType = "auth_response"
	MessageTypeError          MessageType = "error"
	MessageTypeTableList      MessageType = "table_list"
	MessageTypeTableJoined    MessageType = "table_joined"
	MessageTypeTableLeft      MessageType = "table_left"
	MessageTypeGameState      MessageType = "game_state"
	MessageTypeActionRequired MessageType = "action_required"
	MessageTypeHandResult     MessageType = "hand_result"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message is the websocket envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads

type AuthData struct {
	PlayerName string `json:"playerName"`
}

type JoinTableData struct {
	TableID string `json:"tableId"`
	Seat    *int   `json:"seat,omitempty"` // nil picks the first free seat
	BuyIn   int    `json:"buyIn"`
}

type LeaveTableData struct {
	TableID string `json:"tableId"`
}

type ActionData struct {
	TableID string `json:"tableId"`
	Action  string `json:"action"`
	Amount  int    `json:"amount,omitempty"`
}

// Server → client payloads

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableInfo struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Seats       int    `json:"seats"`
	SmallBlind  int    `json:"smallBlind"`
	BigBlind    int    `json:"bigBlind"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

type TableJoinedData struct {
	TableID string `json:"tableId"`
	Seat    int    `json:"seat"`
}

type TableLeftData struct {
	TableID string `json:"tableId"`
}

// GameStateData carries a per-recipient redacted snapshot
type GameStateData struct {
	TableID string           `json:"tableId"`
	State   engine.GameState `json:"state"`
}

type ActionRequiredData struct {
	TableID        string               `json:"tableId"`
	HandID         string               `json:"handId"`
	ValidActions   []engine.ValidAction `json:"validActions"`
	TimeoutSeconds int                  `json:"timeoutSeconds"`
}

type HandResultData struct {
	TableID string            `json:"tableId"`
	Result  engine.GameResult `json:"result"`
}

// RedactState strips hole cards the viewer is not entitled to see.
// Folded and left players never show cards; everyone keeps their own.
func RedactState(st engine.GameState, viewerID string) engine.GameState {
	out := st.Clone()
	for i := range out.Players {
		if out.Players[i].PlayerID != viewerID {
			out.Players[i].HoleCards = nil
		}
	}
	return out
}
