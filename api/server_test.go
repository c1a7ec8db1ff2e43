package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/engine"
	"github.com/Omega97/token-tactics/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	ApplyCommandFunc func(ctx context.Context, sessionID, line string) (*service.CommandResult, error)
	ApplyScriptFunc  func(ctx context.Context, sessionID, text string) (*service.ScriptResult, error)

	// Game State
	GetStateFunc      func(ctx context.Context, sessionID string) (*engine.State, error)
	RenderFunc        func(ctx context.Context, sessionID, mode string) (string, error)
	GetTranscriptFunc func(ctx context.Context, sessionID string) (string, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*config.Info, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*config.Ruleset, error)
	SaveConfigFunc  func(ctx context.Context, configName string, ruleset *config.Ruleset) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
		State:      engine.New(engine.DefaultRules()).Snapshot(),
		Rules:      engine.DefaultRules(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) ApplyCommand(ctx context.Context, sessionID, line string) (*service.CommandResult, error) {
	if m.ApplyCommandFunc != nil {
		return m.ApplyCommandFunc(ctx, sessionID, line)
	}
	return &service.CommandResult{
		Success: true,
		Command: line,
		State:   engine.New(engine.DefaultRules()).Snapshot(),
	}, nil
}

func (m *MockGameService) ApplyScript(ctx context.Context, sessionID, text string) (*service.ScriptResult, error) {
	if m.ApplyScriptFunc != nil {
		return m.ApplyScriptFunc(ctx, sessionID, text)
	}
	return &service.ScriptResult{
		Success: true,
		State:   engine.New(engine.DefaultRules()).Snapshot(),
	}, nil
}

func (m *MockGameService) GetState(ctx context.Context, sessionID string) (*engine.State, error) {
	if m.GetStateFunc != nil {
		return m.GetStateFunc(ctx, sessionID)
	}
	return engine.New(engine.DefaultRules()).Snapshot(), nil
}

func (m *MockGameService) Render(ctx context.Context, sessionID, mode string) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, sessionID, mode)
	}
	return "board\n", nil
}

func (m *MockGameService) GetTranscript(ctx context.Context, sessionID string) (string, error) {
	if m.GetTranscriptFunc != nil {
		return m.GetTranscriptFunc(ctx, sessionID)
	}
	return "PLAYER Alice\n", nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*config.Info, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*config.Info{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*config.Ruleset, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return config.BuiltinClassic(), nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, ruleset *config.Ruleset) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, ruleset)
	}
	return nil
}

var _ service.GameService = (*MockGameService)(nil)

func newTestServer(mock *MockGameService) *Server {
	// No hub: handlers must tolerate running without WebSocket fan-out.
	return NewServer(mock, nil)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestCreateSession(t *testing.T) {
	srv := newTestServer(&MockGameService{})

	rr := doJSON(t, srv, "POST", "/api/sessions", map[string]string{"config_id": "blitz"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var info service.SessionInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if info.ID != "test-session" || info.ConfigName != "blitz" {
		t.Errorf("unexpected session info %+v", info)
	}
}

func TestCreateSessionUnknownConfig(t *testing.T) {
	srv := newTestServer(&MockGameService{
		CreateSessionFunc: func(ctx context.Context, configName string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("config %q not found", configName)
		},
	})

	rr := doJSON(t, srv, "POST", "/api/sessions", map[string]string{"config_id": "nope"})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rr.Body.String(), "not found") {
		t.Errorf("error body missing cause: %s", rr.Body.String())
	}
}

func TestListSessionsSortAndLimit(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := newTestServer(&MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: base, LastAccessedAt: base},
				{ID: "new", CreatedAt: base.Add(time.Hour), LastAccessedAt: base.Add(time.Hour)},
				{ID: "mid", CreatedAt: base.Add(30 * time.Minute), LastAccessedAt: base.Add(30 * time.Minute)},
			}, nil
		},
	})

	rr := doJSON(t, srv, "GET", "/api/sessions?sort=created&order=desc&limit=2", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	if resp.Sessions[0].ID != "new" || resp.Sessions[1].ID != "mid" {
		t.Errorf("order = [%s %s], want [new mid]", resp.Sessions[0].ID, resp.Sessions[1].ID)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	srv := newTestServer(&MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		},
	})

	rr := doJSON(t, srv, "GET", "/api/sessions/ghost", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	srv := newTestServer(&MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	})

	rr := doJSON(t, srv, "DELETE", "/api/sessions/abc123", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if deleted != "abc123" {
		t.Errorf("deleted = %q, want abc123", deleted)
	}
}

func TestApplyCommand(t *testing.T) {
	var gotLine string
	srv := newTestServer(&MockGameService{
		ApplyCommandFunc: func(ctx context.Context, sessionID, line string) (*service.CommandResult, error) {
			gotLine = line
			return &service.CommandResult{
				Success: true,
				Command: line,
				Summary: "a moved to (2, 3)",
				State:   engine.New(engine.DefaultRules()).Snapshot(),
			}, nil
		},
	})

	rr := doJSON(t, srv, "POST", "/api/sessions/abc/command", map[string]string{"command": "move a 1 0"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}
	if gotLine != "move a 1 0" {
		t.Errorf("service received %q", gotLine)
	}

	var result service.CommandResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success || result.Summary != "a moved to (2, 3)" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestApplyCommandRejectionIsStill200(t *testing.T) {
	srv := newTestServer(&MockGameService{
		ApplyCommandFunc: func(ctx context.Context, sessionID, line string) (*service.CommandResult, error) {
			return &service.CommandResult{
				Success: false,
				Command: line,
				Error:   "token x has 0 AP, needs 1",
				Kind:    string(engine.ErrInsufficientAP),
				State:   engine.New(engine.DefaultRules()).Snapshot(),
			}, nil
		},
	})

	rr := doJSON(t, srv, "POST", "/api/sessions/abc/command", map[string]string{"command": "move x 1 0"})
	if rr.Code != http.StatusOK {
		t.Fatalf("engine rejection should be 200, got %d", rr.Code)
	}

	var result service.CommandResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Success {
		t.Error("expected success=false")
	}
	if result.Kind != string(engine.ErrInsufficientAP) {
		t.Errorf("kind = %q", result.Kind)
	}
}

func TestApplyCommandBadRequests(t *testing.T) {
	srv := newTestServer(&MockGameService{})

	req := httptest.NewRequest("POST", "/api/sessions/abc/command", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rr.Code)
	}

	rr = doJSON(t, srv, "POST", "/api/sessions/abc/command", map[string]string{"command": "   "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank command: status = %d, want 400", rr.Code)
	}
}

func TestApplyScript(t *testing.T) {
	srv := newTestServer(&MockGameService{
		ApplyScriptFunc: func(ctx context.Context, sessionID, text string) (*service.ScriptResult, error) {
			return &service.ScriptResult{
				Success:    false,
				Requested:  3,
				Applied:    2,
				FailedLine: 3,
				FailedRaw:  "shoot ghost a",
				Error:      `token "ghost" not found`,
				Kind:       string(engine.ErrTokenNotFound),
				State:      engine.New(engine.DefaultRules()).Snapshot(),
			}, nil
		},
	})

	rr := doJSON(t, srv, "POST", "/api/sessions/abc/script",
		map[string]string{"script": "PLAYER Alice\nTOKEN a Alice\nshoot ghost a\n"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var result service.ScriptResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Applied != 2 || result.FailedLine != 3 || result.FailedRaw != "shoot ghost a" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv := newTestServer(&MockGameService{
		RenderFunc: func(ctx context.Context, sessionID, mode string) (string, error) {
			if mode == "bogus" {
				return "", fmt.Errorf("unknown render mode %q", mode)
			}
			return "0 . . .\n", nil
		},
	})

	rr := doJSON(t, srv, "GET", "/api/sessions/abc/render?mode=ascii", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if rr.Body.String() != "0 . . .\n" {
		t.Errorf("body = %q", rr.Body.String())
	}

	rr = doJSON(t, srv, "GET", "/api/sessions/abc/render?mode=bogus", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad mode: status = %d, want 400", rr.Code)
	}
}

func TestTranscriptEndpoint(t *testing.T) {
	const transcript = "PLAYER Alice\nTOKEN a Alice\nnext_turn\n"
	srv := newTestServer(&MockGameService{
		GetTranscriptFunc: func(ctx context.Context, sessionID string) (string, error) {
			return transcript, nil
		},
	})

	rr := doJSON(t, srv, "GET", "/api/sessions/abc/transcript", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	// Byte-for-byte so the body replays cleanly.
	if rr.Body.String() != transcript {
		t.Errorf("body = %q, want %q", rr.Body.String(), transcript)
	}
}

func TestConfigEndpoints(t *testing.T) {
	saved := make(map[string]*config.Ruleset)
	srv := newTestServer(&MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*config.Info, error) {
			return []*config.Info{{ConfigID: "classic", Name: "classic"}}, nil
		},
		SaveConfigFunc: func(ctx context.Context, configName string, ruleset *config.Ruleset) error {
			if err := ruleset.Validate(); err != nil {
				return err
			}
			saved[configName] = ruleset
			return nil
		},
	})

	rr := doJSON(t, srv, "GET", "/api/configs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rr.Code)
	}
	var infos []*config.Info
	if err := json.Unmarshal(rr.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(infos) != 1 || infos[0].ConfigID != "classic" {
		t.Errorf("unexpected configs %+v", infos)
	}

	rr = doJSON(t, srv, "GET", "/api/configs/classic.json", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rr.Code)
	}
	var rs config.Ruleset
	if err := json.Unmarshal(rr.Body.Bytes(), &rs); err != nil {
		t.Fatalf("decode ruleset: %v", err)
	}
	if rs.Name != "classic" {
		t.Errorf("ruleset name = %q", rs.Name)
	}

	blitz := config.BuiltinClassic()
	blitz.Name = "blitz"
	blitz.Rules.LifeCap = 2
	rr = doJSON(t, srv, "POST", "/api/configs", blitz)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status = %d (body %s)", rr.Code, rr.Body.String())
	}
	if saved["blitz"] == nil {
		t.Error("config was not saved")
	}

	noName := config.BuiltinClassic()
	noName.Name = ""
	rr = doJSON(t, srv, "POST", "/api/configs", noName)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("nameless config: status = %d, want 400", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&MockGameService{})

	rr := doJSON(t, srv, "GET", "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestWebSocketParamValidation(t *testing.T) {
	srv := newTestServer(&MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "live" {
				return nil, fmt.Errorf("session not found: %s", sessionID)
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	})

	rr := doJSON(t, srv, "GET", "/ws", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing session param: status = %d, want 400", rr.Code)
	}

	rr = doJSON(t, srv, "GET", "/ws?session=ghost", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown session: status = %d, want 404", rr.Code)
	}
}
