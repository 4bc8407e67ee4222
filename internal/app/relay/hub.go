/*
Package relay contains the core logic for routing chat events between connections.

This file defines the Hub, the connection table for all active sessions. It
implements the Sender interface the Router delivers through and owns session
registration, lookup, and shutdown.
*/
package relay

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"huddle/internal/pkg/logx"
)

// Hub tracks every active Session, keyed by its opaque connection ID.
type Hub struct {
	// sessions maps connection IDs to their Session.
	sessions map[string]*Session

	// mu protects concurrent access to the sessions map.
	mu sync.RWMutex

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		sessions: make(map[string]*Session),
		logger:   hubLogger,
	}
}

// Register adds a session to the connection table.
func (h *Hub) Register(session *Session) {
	h.mu.Lock()
	h.sessions[session.ConnectionID()] = session
	total := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info().
		Str("connection_id", session.ConnectionID()).
		Int("total_connections", total).
		Msg("Session registered.")
}

// Unregister removes a session from the connection table. Unregistering a
// connection that was already removed is a no-op.
func (h *Hub) Unregister(connectionID string) {
	h.mu.Lock()
	session, ok := h.sessions[connectionID]
	if ok {
		delete(h.sessions, connectionID)
	}
	total := len(h.sessions)
	h.mu.Unlock()

	if !ok {
		return
	}

	session.closeSend()

	h.logger.Info().
		Str("connection_id", connectionID).
		Int("total_connections", total).
		Msg("Session unregistered.")
}

// Send implements Sender. It marshals the event and queues it on the target
// session's send channel. Unknown connections and full queues drop the event
// with a warning; the router treats delivery as fire-and-forget.
func (h *Hub) Send(connectionID string, event Event) {
	h.mu.RLock()
	session, ok := h.sessions[connectionID]
	h.mu.RUnlock()

	if !ok {
		h.logger.Warn().
			Str("connection_id", connectionID).
			Str("event", event.Event).
			Msg("Dropping event for unknown connection.")
		return
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Str("event", event.Event).
			Err(err).
			Msg("Error marshaling event for delivery.")
		return
	}

	session.queue(eventBytes)
}

// Shutdown closes every active session's send queue, which terminates their
// write pumps and closes the underlying connections.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, session := range sessions {
		session.closeSend()
	}

	h.logger.Info().Int("closed_sessions", len(sessions)).Msg("Hub shutdown complete.")
}
