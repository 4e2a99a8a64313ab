package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	actionGameStart = "game:start"
	actionGameTurn  = "game:turn"
	actionGameGet   = "game:get"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Email  string `json:"email,omitempty"`
	GameID string `json:"game_id,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Game      *entity.Game `json:"game,omitempty"`
	Error     string       `json:"error,omitempty"`
	Retryable bool         `json:"retryable,omitempty"`
}
