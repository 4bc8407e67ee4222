package presence_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huddle/internal/app/presence"
	"huddle/internal/pkg/errs"
)

func TestRegistry_Add(t *testing.T) {
	tests := []struct {
		name     string
		seed     [][3]string // connectionID, name, room
		connID   string
		userName string
		room     string
		wantCode int // 0 means success
		wantUser presence.User
	}{
		{
			name:     "valid join",
			connID:   "c1",
			userName: "Alice",
			room:     "Lobby",
			wantUser: presence.User{ConnectionID: "c1", Name: "Alice", Room: "Lobby"},
		},
		{
			name:     "trims whitespace but keeps display case",
			connID:   "c1",
			userName: "  Alice  ",
			room:     " Lobby ",
			wantUser: presence.User{ConnectionID: "c1", Name: "Alice", Room: "Lobby"},
		},
		{
			name:     "empty name rejected",
			connID:   "c1",
			userName: "   ",
			room:     "Lobby",
			wantCode: errs.ErrNameRequired,
		},
		{
			name:     "empty room rejected",
			connID:   "c1",
			userName: "Alice",
			room:     "",
			wantCode: errs.ErrRoomRequired,
		},
		{
			name:     "same normalized name in same room rejected",
			seed:     [][3]string{{"c1", "Alice", "Lobby"}},
			connID:   "c2",
			userName: "alice",
			room:     " lobby ",
			wantCode: errs.ErrNameTaken,
		},
		{
			name:     "different name in same room admitted",
			seed:     [][3]string{{"c1", "Alice", "Lobby"}},
			connID:   "c2",
			userName: "Bob",
			room:     "Lobby",
			wantUser: presence.User{ConnectionID: "c2", Name: "Bob", Room: "Lobby"},
		},
		{
			name:     "same name in different room admitted",
			seed:     [][3]string{{"c1", "Alice", "Lobby"}},
			connID:   "c2",
			userName: "Alice",
			room:     "Kitchen",
			wantUser: presence.User{ConnectionID: "c2", Name: "Alice", Room: "Kitchen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := presence.NewRegistry()
			for _, s := range tt.seed {
				_, err := reg.Add(s[0], s[1], s[2])
				require.Nil(t, err)
			}

			user, err := reg.Add(tt.connID, tt.userName, tt.room)

			if tt.wantCode != 0 {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantCode, err.Code)

				// rejection leaves the registry untouched
				_, ok := reg.Get(tt.connID)
				assert.False(t, ok)
				return
			}

			require.Nil(t, err)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

// The uniqueness invariant holds across arbitrary Add sequences: no two
// concurrent entries ever share a normalized room and name.
func TestRegistry_UniquenessInvariant(t *testing.T) {
	reg := presence.NewRegistry()

	attempts := [][3]string{
		{"c1", "Alice", "Lobby"},
		{"c2", "alice", "LOBBY"},
		{"c3", " ALICE ", " lobby "},
		{"c4", "Bob", "Lobby"},
		{"c5", "bob", "Lobby"},
		{"c6", "Alice", "Den"},
	}

	for _, a := range attempts {
		reg.Add(a[0], a[1], a[2])
	}

	seen := make(map[string]bool)
	for _, room := range []string{"Lobby", "Den"} {
		for _, u := range reg.UsersInRoom(room) {
			key := fmt.Sprintf("%s/%s", strings.ToLower(u.Room), strings.ToLower(u.Name))
			assert.False(t, seen[key], "duplicate normalized entry %s", key)
			seen[key] = true
		}
	}
}

// A connection holds at most one entry: a second Add under the same
// connection ID is rejected and must not corrupt the roster or leave
// stale order entries behind.
func TestRegistry_RejectsSecondEntryPerConnection(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("x", "Alice", "R1")
	require.Nil(t, err)

	_, err = reg.Add("x", "Bob", "R1")
	require.NotNil(t, err)
	assert.Equal(t, errs.ErrAlreadyJoined, err.Code)

	// the original record is untouched and listed exactly once
	users := reg.UsersInRoom("R1")
	require.Len(t, users, 1)
	assert.Equal(t, presence.User{ConnectionID: "x", Name: "Alice", Room: "R1"}, users[0])

	// removal leaves nothing behind: no ghost rooms, connection reusable
	user, removed := reg.Remove("x")
	require.True(t, removed)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, reg.Rooms())

	_, err = reg.Add("x", "Bob", "R1")
	assert.Nil(t, err)
}

func TestRegistry_GetRoundTrip(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("id", "A", "R")
	require.Nil(t, err)

	user, ok := reg.Get("id")
	require.True(t, ok)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "R", user.Room)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	reg := presence.NewRegistry()

	_, err := reg.Add("c1", "Alice", "Lobby")
	require.Nil(t, err)

	user, removed := reg.Remove("c1")
	require.True(t, removed)
	assert.Equal(t, "Alice", user.Name)

	// second removal and unknown connection both no-op
	_, removed = reg.Remove("c1")
	assert.False(t, removed)

	_, removed = reg.Remove("never-registered")
	assert.False(t, removed)

	// name becomes available again after removal
	_, err = reg.Add("c2", "alice", "lobby")
	assert.Nil(t, err)
}

func TestRegistry_UsersInRoom(t *testing.T) {
	reg := presence.NewRegistry()

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := reg.Add(fmt.Sprintf("c%d", i+1), name, "Lobby")
		require.Nil(t, err)
	}
	_, err := reg.Add("c4", "Dave", "Den")
	require.Nil(t, err)

	// registration order, case-insensitive room match
	users := reg.UsersInRoom(" LOBBY ")
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
	assert.Equal(t, "Carol", users[2].Name)

	// removed entries disappear, order of the rest is preserved
	reg.Remove("c2")
	users = reg.UsersInRoom("Lobby")
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Carol", users[1].Name)

	assert.Empty(t, reg.UsersInRoom("nowhere"))
}

func TestRegistry_Rooms(t *testing.T) {
	reg := presence.NewRegistry()

	assert.Empty(t, reg.Rooms())

	_, err := reg.Add("c1", "Alice", "Lobby")
	require.Nil(t, err)
	_, err = reg.Add("c2", "Bob", "lobby")
	require.Nil(t, err)
	_, err = reg.Add("c3", "Carol", "Den")
	require.Nil(t, err)

	rooms := reg.Rooms()
	require.Len(t, rooms, 2)

	// first-joiner display case, first-registration order
	assert.Equal(t, presence.RoomInfo{Room: "Lobby", Users: 2}, rooms[0])
	assert.Equal(t, presence.RoomInfo{Room: "Den", Users: 1}, rooms[1])

	reg.Remove("c3")
	rooms = reg.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, presence.RoomInfo{Room: "Lobby", Users: 2}, rooms[0])
}
