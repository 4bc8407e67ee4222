/*
Package relay contains the core logic for routing chat events between
connections: the event envelope and payload types, the Router that decides
which connections each event must reach, and the WebSocket transport (Hub
and Session) that carries the events.

This file defines the wire-level event names and payload shapes shared by
the router and the transport.
*/
package relay

import "encoding/json"

// Inbound event names, sent by clients.
const (
	EventJoin        = "join"
	EventTyping      = "typing"
	EventStopTyping  = "stopTyping"
	EventSendMessage = "sendMessage"
)

// Outbound event names, broadcast to clients.
const (
	EventMessage          = "message"
	EventRoomData         = "roomData"
	EventNotifyTyping     = "notifyTyping"
	EventNotifyStopTyping = "notifyStopTyping"
	EventAck              = "ack"
)

// TimeLayout is the fixed-width 24-hour format stamped on chat messages.
const TimeLayout = "15:04"

// Event is the envelope for every outbound payload.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// InboundEvent is the envelope for every client-sent payload. AckID is set
// on request/response events (join, sendMessage) and echoed back in the ack.
type InboundEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	AckID   string          `json:"ackId,omitempty"`
}

// JoinPayload is the inbound payload for a join request.
type JoinPayload struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// TypingPayload is the inbound payload for a typing notification.
type TypingPayload struct {
	Room    string `json:"room"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// StopTypingPayload is the inbound payload for a stop-typing notification.
type StopTypingPayload struct {
	Room string `json:"room"`
}

// SendMessagePayload is the inbound payload for a chat message.
type SendMessagePayload struct {
	Text string `json:"text"`
}

// MessagePayload is the outbound payload for chat messages and for the
// system-authored welcome/join/leave announcements.
type MessagePayload struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// RoomDataPayload is the outbound full roster snapshot for a room.
type RoomDataPayload struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
}

// RoomUser is one roster entry inside a RoomDataPayload.
type RoomUser struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

// NotifyTypingPayload is the outbound typing-indicator payload.
type NotifyTypingPayload struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// NotifyStopTypingPayload is the outbound stop-typing payload. Room is only
// set on the disconnect-triggered variant.
type NotifyStopTypingPayload struct {
	Room string `json:"room,omitempty"`
}

// AckPayload is the completion signal for join and sendMessage requests.
// Error is empty on success.
type AckPayload struct {
	AckID string `json:"ackId"`
	Error string `json:"error,omitempty"`
}
