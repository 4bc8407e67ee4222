/*
Package handler provides the HTTP handlers and routing setup for the Huddle server.

This file contains the read-only room API handlers, which expose registry
snapshots: active rooms with occupancy, and the member roster of one room.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"huddle/internal/pkg/errs"
	"huddle/internal/pkg/resp"
)

// HandleListRooms returns all rooms that currently have members, with
// occupancy counts, ordered by each room's first registration.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"rooms": deps.Registry.Rooms(),
		})
	}
}

// HandleListRoomUsers returns the roster snapshot of one room in join order.
// A room nobody is in responds with ErrRoomNotFound.
func HandleListRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := chi.URLParam(r, "room")
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		users := deps.Registry.UsersInRoom(room)
		if len(users) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room":  room,
			"users": users,
		})
	}
}
