package service

import (
	"time"

	"github.com/Omega97/token-tactics/game/engine"
	"github.com/Omega97/token-tactics/game/script"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string        `json:"id"`
	ConfigName     string        `json:"config_name"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
	State          *engine.State `json:"state"`
	Rules          engine.Rules  `json:"rules"`
}

// CommandResult is the outcome of one applied command line.
type CommandResult struct {
	Success bool          `json:"success"`
	Command string        `json:"command"`
	Summary string        `json:"summary"`
	Error   string        `json:"error,omitempty"`
	Kind    string        `json:"error_kind,omitempty"`
	State   *engine.State `json:"state"`
}

// ScriptResult is the outcome of a multi-line script, fail-fast: every line
// before the failing one is committed, nothing after it ran.
type ScriptResult struct {
	Success    bool            `json:"success"`
	Requested  int             `json:"requested_lines"`
	Applied    int             `json:"applied_lines"`
	Results    []script.Result `json:"results"`
	FailedLine int             `json:"failed_line,omitempty"` // 1-based
	FailedRaw  string          `json:"failed_raw,omitempty"`
	Error      string          `json:"error,omitempty"`
	Kind       string          `json:"error_kind,omitempty"`
	State      *engine.State   `json:"state"`
}
