/*
Package presence contains the in-memory source of truth for chat participants.

It defines the Registry, which maps live connection identifiers to User records
and answers the single question the rest of the system keeps asking: who is
connected, as whom, in which room. Room membership is derived from registry
contents rather than stored separately.
*/
package presence

import (
	"strings"
	"sync"

	"huddle/internal/pkg/errs"
)

// User represents one active chat participant bound to exactly one live
// connection. Name and Room keep the trimmed, original-case values supplied
// at join time; comparisons are case-insensitive.
type User struct {
	// ConnectionID is the opaque identifier assigned by the transport layer.
	// It is stable for the connection's lifetime and acts as the primary key.
	ConnectionID string `json:"-"`

	// Name is the display name chosen by the participant.
	Name string `json:"name"`

	// Room is the room the participant joined.
	Room string `json:"room"`
}

// RoomInfo describes one active room and its current occupancy.
type RoomInfo struct {
	// Room keeps the display case of the first member who joined it.
	Room string `json:"room"`

	// Users is the number of current members.
	Users int `json:"users"`
}

// Registry is the in-memory presence table. A User exists from a successful
// Add until its connection is removed; records are never mutated in between.
//
// The mutex serializes every operation so the admission check (read-then-write
// uniqueness test) is never interleaved with another mutation.
type Registry struct {
	// users maps connection IDs to their User record.
	users map[string]User

	// order holds connection IDs in registration order, so room rosters
	// can be listed in join order.
	order []string

	// mu protects users and order.
	mu sync.Mutex
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]User),
	}
}

// normalize folds a name or room for comparison purposes.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Add validates and registers a new participant keyed by connectionID.
//
// Name and room must be non-empty after trimming, and the trimmed name must
// not collide (case-insensitively) with another current member of the same
// room. A connection that already holds an entry is rejected outright, so
// each connection maps to at most one User. The stored record keeps the
// trimmed, original-case values. On success the new User is returned; on
// rejection the registry is left untouched.
func (reg *Registry) Add(connectionID, name, room string) (User, *errs.CustomError) {
	trimmedName := strings.TrimSpace(name)
	trimmedRoom := strings.TrimSpace(room)

	if trimmedName == "" {
		return User{}, errs.NewError(errs.ErrNameRequired)
	}
	if trimmedRoom == "" {
		return User{}, errs.NewError(errs.ErrRoomRequired)
	}

	normName := strings.ToLower(trimmedName)
	normRoom := strings.ToLower(trimmedRoom)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.users[connectionID]; ok {
		return User{}, errs.NewError(errs.ErrAlreadyJoined)
	}

	for _, id := range reg.order {
		existing := reg.users[id]
		if strings.ToLower(existing.Room) == normRoom && strings.ToLower(existing.Name) == normName {
			return User{}, errs.NewError(errs.ErrNameTaken)
		}
	}

	user := User{
		ConnectionID: connectionID,
		Name:         trimmedName,
		Room:         trimmedRoom,
	}

	reg.users[connectionID] = user
	reg.order = append(reg.order, connectionID)

	return user, nil
}

// Remove deletes and returns the User for the given connection.
// Removing an unknown or already-removed connection is a no-op; the second
// return value reports whether a record was actually removed.
func (reg *Registry) Remove(connectionID string) (User, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	user, ok := reg.users[connectionID]
	if !ok {
		return User{}, false
	}

	delete(reg.users, connectionID)

	for i, id := range reg.order {
		if id == connectionID {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}

	return user, true
}

// Get returns the User for the given connection without mutating the registry.
func (reg *Registry) Get(connectionID string) (User, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	user, ok := reg.users[connectionID]
	return user, ok
}

// UsersInRoom returns a snapshot of all current members of the given room
// (case-insensitive match), in registration order.
func (reg *Registry) UsersInRoom(room string) []User {
	normRoom := normalize(room)

	reg.mu.Lock()
	defer reg.mu.Unlock()

	users := make([]User, 0)
	for _, id := range reg.order {
		user := reg.users[id]
		if strings.ToLower(user.Room) == normRoom {
			users = append(users, user)
		}
	}

	return users
}

// Rooms returns a snapshot of all rooms that currently have members, with
// occupancy counts, ordered by each room's first registration. The display
// case is that of the first member who joined the room.
func (reg *Registry) Rooms() []RoomInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	index := make(map[string]int)
	rooms := make([]RoomInfo, 0)

	for _, id := range reg.order {
		user := reg.users[id]
		key := strings.ToLower(user.Room)

		if i, ok := index[key]; ok {
			rooms[i].Users++
			continue
		}

		index[key] = len(rooms)
		rooms = append(rooms, RoomInfo{Room: user.Room, Users: 1})
	}

	return rooms
}
