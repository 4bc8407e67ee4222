/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and error payloads on the WebSocket channel.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status means HTTP 200; these errors travel inside ack payloads rather
// than as transport-level failures.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams: {Code: ErrInvalidParams, Message: "Invalid request parameters."},

	// 2xxx: Room and Presence Business Logic Errors
	ErrNameRequired:  {Code: ErrNameRequired, Message: "Username is required."},
	ErrRoomRequired:  {Code: ErrRoomRequired, Message: "Room is required."},
	ErrNameTaken:     {Code: ErrNameTaken, Message: "Username is taken."},
	ErrAlreadyJoined: {Code: ErrAlreadyJoined, Message: "You have already joined a room."},
	ErrRoomNotFound:  {Code: ErrRoomNotFound, Message: "Chat room not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
