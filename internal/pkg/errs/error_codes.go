/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in payloads sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001
)

// 2xxx: Room and Presence Business Logic Errors
const (
	// ErrNameRequired indicates that a join request carried an empty or
	// whitespace-only display name.
	ErrNameRequired = 2101

	// ErrRoomRequired indicates that a join request carried an empty or
	// whitespace-only room name.
	ErrRoomRequired = 2102

	// ErrNameTaken indicates that the requested display name is already in
	// use by another member of the same room.
	ErrNameTaken = 2103

	// ErrAlreadyJoined indicates that the connection already holds a
	// presence entry; a connection maps to at most one User.
	ErrAlreadyJoined = 2105

	// ErrRoomNotFound indicates that the requested room has no members.
	ErrRoomNotFound = 2104
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
