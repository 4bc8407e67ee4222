package handler

import (
	"huddle/internal/app/presence"
	"huddle/internal/app/relay"
	"huddle/internal/configs"
)

// AppDeps bundles the shared dependencies injected into the handlers.
type AppDeps struct {
	Hub      *relay.Hub
	Router   *relay.Router
	Registry *presence.Registry
	Config   *configs.AppConfig
}
