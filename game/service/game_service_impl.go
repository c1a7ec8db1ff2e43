package service

import (
	"context"
	"fmt"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/engine"
	"github.com/Omega97/token-tactics/game/render"
	"github.com/Omega97/token-tactics/game/script"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var ruleset *config.Ruleset
	var err error
	if configName != "" {
		ruleset, err = s.configs.LoadConfig(configName)
		if err != nil {
			if infos, listErr := s.configs.ListConfigs(); listErr == nil && len(infos) > 0 {
				var ids []string
				for _, info := range infos {
					ids = append(ids, info.ConfigID)
				}
				return nil, fmt.Errorf("config %q not found, available configs: %v", configName, ids)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		ruleset = s.configs.GetDefault()
	}

	// Let the session manager generate the ID
	session, err := s.sessions.Create("", ruleset)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, s.sessionInfo(session))
	}
	return infos, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ApplyCommand applies one command line to a session's game. Engine
// rejections are reported in the result, not as a service error, so the
// caller can always show the current state alongside the failure.
func (s *gameServiceImpl) ApplyCommand(ctx context.Context, sessionID, line string) (*CommandResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	session.Mu.Lock()
	summary, applyErr := script.ApplyLine(session.Game, line)
	if applyErr == nil {
		session.AppendTranscript(line)
	}
	state := session.Game.Snapshot()
	session.Mu.Unlock()

	result := &CommandResult{
		Success: applyErr == nil,
		Command: line,
		Summary: summary,
		State:   state,
	}
	if applyErr != nil {
		result.Error = applyErr.Error()
		result.Kind = string(engine.KindOf(applyErr))
		return result, nil
	}

	// Persist the grown transcript
	s.sessions.Save(sessionID)
	return result, nil
}

// ApplyScript applies a whole script fail-fast. Lines before the first
// failure stay committed and recorded in the transcript.
func (s *gameServiceImpl) ApplyScript(ctx context.Context, sessionID, text string) (*ScriptResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	session.Mu.Lock()
	results, runErr := script.RunString(session.Game, text)
	for _, r := range results {
		session.AppendTranscript(r.Raw)
	}
	state := session.Game.Snapshot()
	session.Mu.Unlock()

	requested := countLines(text)
	result := &ScriptResult{
		Success:   runErr == nil,
		Requested: requested,
		Applied:   len(results),
		Results:   results,
		State:     state,
	}
	if runErr != nil {
		result.Error = runErr.Error()
		result.Kind = string(engine.KindOf(runErr))
		if le, ok := script.AsLineError(runErr); ok {
			result.FailedLine = le.Line
			result.FailedRaw = le.Raw
			result.Error = le.Err.Error()
		}
	}

	if len(results) > 0 {
		s.sessions.Save(sessionID)
	}
	return result, nil
}

// GetState returns the session's current game snapshot
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.State, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return session.Game.Snapshot(), nil
}

// Render returns the session's board view in the requested mode
func (s *gameServiceImpl) Render(ctx context.Context, sessionID, mode string) (string, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	m, err := render.ParseMode(mode)
	if err != nil {
		return "", err
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return render.Game(session.Game, m)
}

// GetTranscript returns the session's replayable command log
func (s *gameServiceImpl) GetTranscript(ctx context.Context, sessionID string) (string, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("session not found: %w", err)
	}

	session.Mu.Lock()
	defer session.Mu.Unlock()
	return session.TranscriptText(), nil
}

// ListConfigs returns all available rulesets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*config.Info, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific ruleset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*config.Ruleset, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig stores a ruleset under the given name
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, ruleset *config.Ruleset) error {
	return s.configs.SaveConfig(configName, ruleset)
}

func (s *gameServiceImpl) sessionInfo(session *Session) *SessionInfo {
	session.Mu.Lock()
	defer session.Mu.Unlock()
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     session.Ruleset.Name,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          session.Game.Snapshot(),
		Rules:          session.Game.Rules(),
	}
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := 1
	for _, ch := range text {
		if ch == '\n' {
			n++
		}
	}
	// A trailing newline does not start another line
	if text[len(text)-1] == '\n' {
		n--
	}
	return n
}
