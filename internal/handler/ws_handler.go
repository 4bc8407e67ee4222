/*
Package handler provides the HTTP handlers and routing setup for the Huddle server.

This file contains the HandleWebSocket function, which upgrades the HTTP
connection to WebSocket, assigns the connection its opaque identifier, and
starts the session lifecycle. Joining a room happens in-band afterwards.
*/
package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"huddle/internal/app/relay"
	"huddle/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection
// requests. Every accepted connection gets a fresh uuid as its connection ID,
// stable for the connection's lifetime.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connectionID := uuid.NewString()

		session := relay.NewSession(connectionID, conn, deps.Hub, deps.Router)

		deps.Hub.Register(session)

		go session.WritePump()

		logx.Info("WebSocket connection established", "connection_id", connectionID)

		session.ReadPump()
	}
}
