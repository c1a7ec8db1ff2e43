package service

import (
	"context"
	"sync"
	"time"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	ApplyCommand(ctx context.Context, sessionID, line string) (*CommandResult, error)
	ApplyScript(ctx context.Context, sessionID, text string) (*ScriptResult, error)

	// Game State
	GetState(ctx context.Context, sessionID string) (*engine.State, error)
	Render(ctx context.Context, sessionID, mode string) (string, error)
	GetTranscript(ctx context.Context, sessionID string) (string, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*config.Info, error)
	LoadConfig(ctx context.Context, configName string) (*config.Ruleset, error)
	SaveConfig(ctx context.Context, configName string, ruleset *config.Ruleset) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, ruleset *config.Ruleset) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles ruleset loading
type ConfigManager interface {
	LoadConfig(name string) (*config.Ruleset, error)
	ListConfigs() ([]*config.Info, error)
	GetDefault() *config.Ruleset
	SaveConfig(name string, ruleset *config.Ruleset) error
}

// Session is one active game. Game is not safe for concurrent use, so every
// read or write of Game or Transcript happens under Mu.
type Session struct {
	ID             string
	Game           *engine.Game
	Ruleset        *config.Ruleset
	Transcript     []string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	Mu             sync.Mutex
}

// AppendTranscript records a successfully applied line. Callers hold Mu.
func (s *Session) AppendTranscript(line string) {
	s.Transcript = append(s.Transcript, line)
}

// TranscriptText returns the transcript joined as a replayable script.
// Callers hold Mu.
func (s *Session) TranscriptText() string {
	if len(s.Transcript) == 0 {
		return ""
	}
	out := ""
	for _, line := range s.Transcript {
		out += line + "\n"
	}
	return out
}
