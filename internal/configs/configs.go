/*
Package configs is responsible for loading and parsing the application's
configuration settings.

It configures server parameters by reading operating system environment
variables: the running environment, port, CORS allowed origins, and the
display name used for system-authored chat messages.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultBotName is the display name used for system-authored messages
// (welcome, join and leave announcements) when BOT_NAME is not set.
const DefaultBotName = "bot"

// AppConfig contains all configuration parameters required for the application
// to run. All values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// BotName is the synthetic author of welcome/join/leave messages.
	BotName string
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying defaults and validating values where necessary.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "5000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// BotName
	cfg.BotName = os.Getenv("BOT_NAME")
	if cfg.BotName == "" {
		cfg.BotName = DefaultBotName
	}

	return cfg, nil
}
