package config

import (
	"path/filepath"
	"time"
)

type SessionConfig interface {
	GetTickInterval() time.Duration
	GetResyncInterval() time.Duration
	GetExpiryWarning() time.Duration
	GetDefaultRole() string
	GetSessionDBPath() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetTickInterval() time.Duration {
	return 1 * time.Second
}

func (Session) GetResyncInterval() time.Duration {
	return GetEnvDuration("TOKEN_RESYNC_INTERVAL", 30*time.Second)
}

// GetExpiryWarning is the remaining time at which the one-off expiry warning is raised.
func (Session) GetExpiryWarning() time.Duration {
	return GetEnvDuration("TOKEN_EXPIRY_WARNING", 5*time.Minute)
}

func (Session) GetDefaultRole() string {
	return "PACIENTE"
}

func (Session) GetSessionDBPath() string {
	return filepath.Join(EnvVars{}.GetDataFolder(), GetEnv("SESSION_DB", "console.db"))
}
