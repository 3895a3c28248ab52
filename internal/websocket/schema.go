package websocket

import (
	"time"

	"github.com/google/uuid"

	"github.com/oikos/disc-backend/internal/disc"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError         Event = "error"
	EventReady         Event = "ready"
	EventResultCreated Event = "result_created"
	EventPong          Event = "pong"
)

// ReadyResponse is sent once the stream subscription is active.
type ReadyResponse struct {
	Event Event `json:"event"`
	Total int   `json:"total"`
}

// ResultCreatedEvent announces a newly stored result. It is also the payload
// published on the Redis results channel.
type ResultCreatedEvent struct {
	Event       Event       `json:"event"`
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Scores      disc.Scores `json:"scores"`
	ProfileName string      `json:"profile_name"`
	CreatedAt   time.Time   `json:"created_at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
