/*
Package relay contains the core logic for routing chat events between connections.

This file defines the Session struct, representing one active WebSocket
connection. It runs the read and write pumps, dispatches inbound events to the
Router, and sends completion acks for request/response events.
*/
package relay

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"huddle/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 4096

	// capacity of the per-session outbound queue.
	sendChannelBuffer = 256
)

// Session represents an active WebSocket connection identified by an opaque
// connection ID assigned at upgrade time.
type Session struct {
	// connectionID is the transport-assigned identifier for this connection.
	connectionID string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// hub owns the connection table this session is registered in.
	hub *Hub

	// router receives every inbound event from this session.
	router *Router

	// send is a buffered channel of marshaled events waiting for delivery.
	send chan []byte

	// sendMu serializes queue pushes with closing the send channel, so a
	// broadcast racing a disconnect can never send on a closed channel.
	sendMu sync.Mutex

	// closed reports whether send has been closed. Guarded by sendMu.
	closed bool

	// structured logger with session context.
	logger zerolog.Logger
}

// NewSession constructs a Session for an upgraded connection.
func NewSession(connectionID string, conn *websocket.Conn, hub *Hub, router *Router) *Session {
	sessionLogger := logx.Logger().With().
		Str("connection_id", connectionID).
		Logger()

	return &Session{
		connectionID: connectionID,
		conn:         conn,
		hub:          hub,
		router:       router,
		send:         make(chan []byte, sendChannelBuffer),
		logger:       sessionLogger,
	}
}

// ConnectionID returns the transport-assigned identifier for this session.
func (s *Session) ConnectionID() string {
	return s.connectionID
}

// queue pushes a marshaled event onto the send channel without blocking.
// Events queued after the session closed are dropped.
func (s *Session) queue(eventBytes []byte) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		s.logger.Debug().Msg("Session already closed, dropping event.")
		return
	}

	select {
	case s.send <- eventBytes:
	default:
		s.logger.Warn().Int("queue_len", len(s.send)).Msg("Session send channel full, dropping event.")
	}
}

// closeSend closes the send channel exactly once, terminating the write pump.
func (s *Session) closeSend() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.send)
}

// ReadPump reads messages from the WebSocket connection until it closes.
// It handles heartbeats (Pong) and dispatches parsed events to the Router.
// On exit the session is unregistered and the router is told the connection
// disconnected, which triggers the leave broadcasts.
func (s *Session) ReadPump() {
	defer s.cleanupOnDisconnect()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		s.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect runs when the read pump terminates.
func (s *Session) cleanupOnDisconnect() {
	s.logger.Info().Msg("Session cleanup starting.")

	s.hub.Unregister(s.connectionID)
	s.router.Disconnect(s.connectionID)

	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("Session connection close error")
	}
}

// processInboundMessage parses one raw client message and dispatches it.
func (s *Session) processInboundMessage(messageBytes []byte) {
	var inbound InboundEvent
	if err := json.Unmarshal(messageBytes, &inbound); err != nil {
		s.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Event {
	case EventJoin:
		s.handleJoin(inbound.Payload, inbound.AckID)

	case EventTyping:
		s.handleTyping(inbound.Payload)

	case EventStopTyping:
		s.handleStopTyping(inbound.Payload)

	case EventSendMessage:
		s.handleSendMessage(inbound.Payload, inbound.AckID)

	default:
		s.logger.Warn().Str("event", inbound.Event).Msg("Client sent unsupported event type")
	}
}

// handleJoin processes a join request and acks it exactly once, after any
// broadcasts have been queued.
func (s *Session) handleJoin(payloadBytes json.RawMessage, ackID string) {
	var payload JoinPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid join payload")
		return
	}

	joinErr := s.router.Join(s.connectionID, payload.Name, payload.Room)

	if joinErr != nil {
		s.sendAck(ackID, joinErr.Message)
		return
	}

	s.sendAck(ackID, "")
}

// handleTyping processes a fire-and-forget typing notification.
func (s *Session) handleTyping(payloadBytes json.RawMessage) {
	var payload TypingPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid typing payload")
		return
	}

	s.router.Typing(s.connectionID, payload)
}

// handleStopTyping processes a fire-and-forget stop-typing notification.
func (s *Session) handleStopTyping(payloadBytes json.RawMessage) {
	var payload StopTypingPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid stopTyping payload")
		return
	}

	s.router.StopTyping(s.connectionID, payload.Room)
}

// handleSendMessage processes a chat message and acks it after the broadcast
// has been queued.
func (s *Session) handleSendMessage(payloadBytes json.RawMessage, ackID string) {
	var payload SendMessagePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		s.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
		return
	}

	sendErr := s.router.SendMessage(s.connectionID, payload.Text)

	if sendErr != nil {
		s.sendAck(ackID, sendErr.Message)
		return
	}

	s.sendAck(ackID, "")
}

// sendAck queues the completion signal for a request/response event. Events
// sent without an ackId get no completion.
func (s *Session) sendAck(ackID, errMessage string) {
	if ackID == "" {
		return
	}

	ackBytes, err := json.Marshal(Event{
		Event:   EventAck,
		Payload: AckPayload{AckID: ackID, Error: errMessage},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal ack event")
		return
	}

	s.queue(ackBytes)
}

// WritePump writes queued events to the WebSocket connection and keeps the
// heartbeat alive. It exits when the send channel closes or a write fails.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := s.conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Session connection close error in WritePump")
		}
	}()

	for {
		select {
		case eventBytes, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					s.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, eventBytes); err != nil {
				s.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}
