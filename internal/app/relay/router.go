/*
Package relay contains the core logic for routing chat events between connections.

This file defines the Router, which translates each inbound connection-scoped
event into zero or more outbound broadcasts. The presence Registry is its only
source of truth for targeting; actual delivery is delegated to a Sender.
*/
package relay

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"huddle/internal/app/presence"
	"huddle/internal/pkg/errs"
	"huddle/internal/pkg/logx"
)

// Sender is the transport primitive the Router delivers through. Send must
// not block; delivery guarantees are the transport's concern.
type Sender interface {
	Send(connectionID string, event Event)
}

// Router consumes inbound connection-scoped events, consults the presence
// Registry, and fans each event out to the connections it must reach.
//
// One mutex serializes each event end to end (registry access plus broadcast
// queuing), so admission checks and roster snapshots are never observed
// mid-update.
type Router struct {
	// registry is the sole owner of the connection-to-user relation.
	registry *presence.Registry

	// sender delivers outbound events; all Send calls are queue pushes.
	sender Sender

	// botName labels system-authored welcome/join/leave messages.
	botName string

	// now is the clock used for message timestamps. Injectable for tests.
	now func() time.Time

	// mu serializes event handling.
	mu sync.Mutex

	// structured logger with Router context.
	logger zerolog.Logger
}

// NewRouter constructs a Router around the given registry and transport.
func NewRouter(registry *presence.Registry, sender Sender, botName string) *Router {
	routerLogger := logx.Logger().With().Str("component", "Router").Logger()

	return &Router{
		registry: registry,
		sender:   sender,
		botName:  botName,
		now:      time.Now,
		logger:   routerLogger,
	}
}

// timestamp formats the current clock reading for message payloads.
func (rt *Router) timestamp() string {
	return rt.now().Format(TimeLayout)
}

// roster builds the RoomDataPayload snapshot for a room.
func (rt *Router) roster(room string) RoomDataPayload {
	members := rt.registry.UsersInRoom(room)

	users := make([]RoomUser, 0, len(members))
	for _, m := range members {
		users = append(users, RoomUser{Name: m.Name, Room: m.Room})
	}

	return RoomDataPayload{Room: room, Users: users}
}

// sendToRoom delivers an event to every member of the room, optionally
// skipping one connection (the sender of the originating event).
func (rt *Router) sendToRoom(room, skipConnectionID string, event Event) {
	for _, member := range rt.registry.UsersInRoom(room) {
		if member.ConnectionID == skipConnectionID {
			continue
		}
		rt.sender.Send(member.ConnectionID, event)
	}
}

// Join admits a connection into a room. On success the joiner receives a
// personalized welcome, the rest of the room a join announcement, and the
// whole room (joiner included) an updated roster. The returned error is nil
// exactly when the join was admitted; it is reported to the requesting
// connection only and produces no broadcast.
func (rt *Router) Join(connectionID, name, room string) *errs.CustomError {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user, admissionErr := rt.registry.Add(connectionID, name, room)
	if admissionErr != nil {
		rt.logger.Info().
			Str("connection_id", connectionID).
			Str("room", room).
			Str("reason", admissionErr.Message).
			Msg("Join rejected.")
		return admissionErr
	}

	rt.sender.Send(user.ConnectionID, Event{
		Event: EventMessage,
		Payload: MessagePayload{
			User: rt.botName,
			Text: fmt.Sprintf("%s, welcome to room %s.", user.Name, user.Room),
			Time: rt.timestamp(),
		},
	})

	rt.sendToRoom(user.Room, user.ConnectionID, Event{
		Event: EventMessage,
		Payload: MessagePayload{
			User: rt.botName,
			Text: fmt.Sprintf("%s has joined!", user.Name),
			Time: rt.timestamp(),
		},
	})

	rt.sendToRoom(user.Room, "", Event{
		Event:   EventRoomData,
		Payload: rt.roster(user.Room),
	})

	rt.logger.Info().
		Str("connection_id", connectionID).
		Str("user", user.Name).
		Str("room", user.Room).
		Msg("User joined room.")

	return nil
}

// Typing forwards a typing indicator to the other members of the payload's
// room. Events from connections without a registry entry are dropped.
func (rt *Router) Typing(connectionID string, payload TypingPayload) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, ok := rt.registry.Get(connectionID); !ok {
		rt.logger.Warn().
			Str("connection_id", connectionID).
			Msg("Dropping typing event from unregistered connection.")
		return
	}

	rt.sendToRoom(payload.Room, connectionID, Event{
		Event: EventNotifyTyping,
		Payload: NotifyTypingPayload{
			User:    payload.Name,
			Message: payload.Message,
		},
	})
}

// StopTyping forwards a stop-typing indicator to the other members of the
// payload's room. Events from unregistered connections are dropped.
func (rt *Router) StopTyping(connectionID, room string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, ok := rt.registry.Get(connectionID); !ok {
		rt.logger.Warn().
			Str("connection_id", connectionID).
			Msg("Dropping stopTyping event from unregistered connection.")
		return
	}

	rt.sendToRoom(room, connectionID, Event{
		Event:   EventNotifyStopTyping,
		Payload: NotifyStopTypingPayload{},
	})
}

// SendMessage broadcasts a chat message, carrying the sender's display name,
// to the whole room including the sender. A message from a connection with no
// registry entry is dropped silently: no broadcast, nil result, so the
// caller's completion still fires.
func (rt *Router) SendMessage(connectionID, text string) *errs.CustomError {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user, ok := rt.registry.Get(connectionID)
	if !ok {
		rt.logger.Warn().
			Str("connection_id", connectionID).
			Msg("Dropping sendMessage from unregistered connection.")
		return nil
	}

	rt.sendToRoom(user.Room, "", Event{
		Event: EventMessage,
		Payload: MessagePayload{
			User: user.Name,
			Text: text,
			Time: rt.timestamp(),
		},
	})

	return nil
}

// Disconnect removes the connection's registry entry. If a user was actually
// removed, the remaining room members receive a stop-typing signal, a leave
// announcement, and an updated roster. A disconnect from a connection with no
// entry produces no broadcasts.
func (rt *Router) Disconnect(connectionID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	user, removed := rt.registry.Remove(connectionID)
	if !removed {
		return
	}

	rt.sendToRoom(user.Room, "", Event{
		Event:   EventNotifyStopTyping,
		Payload: NotifyStopTypingPayload{Room: user.Room},
	})

	rt.sendToRoom(user.Room, "", Event{
		Event: EventMessage,
		Payload: MessagePayload{
			User: rt.botName,
			Text: fmt.Sprintf("%s has left.", user.Name),
			Time: rt.timestamp(),
		},
	})

	rt.sendToRoom(user.Room, "", Event{
		Event:   EventRoomData,
		Payload: rt.roster(user.Room),
	})

	rt.logger.Info().
		Str("connection_id", connectionID).
		Str("user", user.Name).
		Str("room", user.Room).
		Msg("User left room.")
}
