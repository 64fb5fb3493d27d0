package protocol

import "encoding/json"

const (
	// CommandSubscribe turns the connection into a stream of Event lines.
	CommandSubscribe = "events.subscribe"

	// MsgUnauthorized is the error text returned for a missing or wrong token.
	MsgUnauthorized = "unauthorized"
)

// Request is one JSON line sent by the frontend.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Token   string          `json:"token"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response answers a Request. Error is set instead of Result on failure.
type Response struct {
	ID     string          `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Event carries one menu action identifier to a subscribed frontend.
type Event struct {
	Action string `json:"action"`
}
