package session

import (
	"time"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// Header is the JSON first line of a persisted session log. Everything after
// it is the verbatim command transcript; replaying it into a fresh game
// built from the header's ruleset reproduces the session.
type Header struct {
	ID             string          `json:"id"`
	Ruleset        *config.Ruleset `json:"ruleset"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
}
