package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/engine"
	"github.com/Omega97/token-tactics/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Token Tactics",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Token Tactics - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OVERVIEW:
A turn-based board game. Players own tokens on a square grid. Tokens spend
action points (AP) to move, shoot, heal, upgrade, gift, or capture. Each turn
every living token earns +1 AP; eliminated players join the jury and grant a
+1 AP bonus to one living token of their choice each turn.

AVAILABLE TOOLS:
- create_session: Start a new game with an optional ruleset
- list_sessions / get_session: Inspect active games
- command: Apply one command line (e.g. "move a 1 0") - requires intent
- script: Apply many lines at once, fail-fast - requires intent
- game_state: Full JSON snapshot of a session
- render_board: Human-readable board (emoji or ascii)
- transcript: The replayable command log of a session
- list_configs: Available rulesets
- game_instructions: The full command grammar and rules

NOTE: The 'intent' parameter on command/script tools serves as rubber duck
debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with an optional ruleset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Ruleset to use, e.g. classic or blitz (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Apply one command line to a session, e.g. \"PLAYER Alice\", \"TOKEN a Alice\", \"move a 1 0\", \"shoot a b\". Use game_instructions for the full grammar.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"command": map[string]interface{}{
					"type":        "string",
					"description": "One command line",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this command (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "script",
		Description: "Apply a multi-line script to a session. Lines run in order and stop at the first failure; everything before the failing line stays applied.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"script": map[string]interface{}{
					"type":        "string",
					"description": "Newline-separated command lines; # starts a comment",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of commands (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "script"},
		},
	}, c.handleScript)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state as a structured summary",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_board",
		Description: "Render the board as text. Use ascii mode when emoji alignment is a problem.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"emoji", "ascii"},
					"description": "Render mode (default emoji)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRenderBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "transcript",
		Description: "Get the session's command log. Replaying it into a fresh session reproduces the game exactly.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTranscript)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rulesets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full command grammar and game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// apiText is apiCall for text/plain endpoints (render, transcript).
func (c *Client) apiText(path string) (string, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(data, &errResp) == nil {
			if msg, ok := errResp["error"]; ok {
				return "", fmt.Errorf("%s", msg)
			}
		}
		return "", fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return string(data), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nRuleset: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Ruleset: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	command, _ := args["command"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	var result service.CommandResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/command", sessionID),
		map[string]string{"command": command}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	scriptText, _ := args["script"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	var result service.ScriptResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/script", sessionID),
		map[string]string{"script": scriptText}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatScriptResult(&result)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.State
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleRenderBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	mode, _ := args["mode"].(string)

	path := fmt.Sprintf("/api/sessions/%s/render", sessionID)
	if mode != "" {
		path += "?mode=" + mode
	}

	text, err := c.apiText(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	text, err := c.apiText(fmt.Sprintf("/api/sessions/%s/transcript", sessionID))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if text == "" {
		return mcp.NewToolResultText("(empty transcript)"), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []config.Info
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Rulesets:\n\n"
	for _, cfg := range configs {
		result += fmt.Sprintf("• %s\n  %s\n  Life cap: %d, Range: %d, Upgrade: %d AP, Capture: %d AP\n\n",
			cfg.ConfigID, cfg.Description,
			cfg.Rules.LifeCap, cfg.Rules.ActionRange, cfg.Rules.UpgradeCost, cfg.Rules.CaptureCost)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Token Tactics - Complete Instructions

GAME OVERVIEW:
A turn-based game on a square grid. Each player owns tokens; tokens hold
hearts (life) and action points (AP). The last players with living tokens
dominate the board, but eliminated players keep influencing the game through
the jury.

SETUP COMMANDS (capitalized):
• PLAYER <name>          - Register a player
• TOKEN <id> <owner>     - Create a token (id is 1-2 characters, e.g. "a" or "🤖")
• RANDOM_SEED <n>        - Seed token placement
• BOARD_SIZE <n|default> - Size the board explicitly, or restore auto-sizing
• UPGRADE_COST <n>       - Set the AP cost of upgrade
• HEAL_SELF_COST <n>     - Set the AP cost of heal
• GIFT_HEART_COST <n>    - Set the AP cost of gift_heart

GAMEPLAY COMMANDS (lowercase):
• next_turn              - Advance the turn: every living token gains +1 AP,
                           every jury member grants +1 AP to their endorsee
• move <t> <dx> <dy>     - Step one cell in any of 8 directions (1 AP)
• gift <t1> <t2> [n]     - Transfer n AP to a token in range (free)
• shoot <t1> <t2>        - Remove one heart from a token in range (1 AP);
                           a defeated token's AP is looted by the shooter
• heal <t>               - Restore one heart (costs HEAL_SELF_COST)
• upgrade <t>            - +1 life cap, +1 heart, +1 range (costs UPGRADE_COST)
• gift_heart <t1> <t2>   - Give one heart to an adjacent token (costs GIFT_HEART_COST)
• capture <t1> <t2>      - Take over an adjacent dead token (costs capture cost);
                           it revives with 1 heart under your flag
• vote <player> [token]  - Jury member endorses a living token; omit the token
                           to clear the endorsement

KEY RULES:
• Distance is Chebyshev: diagonals count as 1.
• A token with 0 hearts is dead but keeps its AP and board position. Dead
  tokens still act if they can pay; they block their cell.
• A player with no living tokens is eliminated and joins the jury.
• Reviving a token (heal, gift_heart, capture) can un-eliminate its owner,
  which drops them from the jury.
• The first gameplay command locks the board size for the rest of the game.
• Commands are atomic: a rejected command changes nothing.

ERROR KINDS:
token_not_found, player_not_found, player_already_exists, insufficient_ap,
out_of_range, invalid_move, board_size_error

STRATEGY NOTES:
• AP is the real currency; hearts are just how long you can afford mistakes.
• Gifts are free - coordinate with allies to bank AP on one strong token.
• Court the jury: eliminated players choose who gets their +1 AP each turn.
• Capturing an enemy's dead token both grows your force and can keep that
  player eliminated (their jury vote may already be yours).

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has a unique 8-character ID
- The transcript tool returns a log that replays into an identical game

Good luck on the board! 🎯`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nRuleset: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatState(session.State))
}

func formatState(state *engine.State) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	board := "auto"
	if state.BoardSized {
		board = fmt.Sprintf("%dx%d", state.BoardSize, state.BoardSize)
		if state.BoardLocked {
			board += " (locked)"
		}
	}
	b.WriteString(fmt.Sprintf("Turn: %d | Board: %s | Seed: %d\n", state.Turn, board, state.Seed))

	tokensByOwner := make(map[string][]engine.Token)
	for _, tok := range state.Tokens {
		tokensByOwner[tok.Owner] = append(tokensByOwner[tok.Owner], tok)
	}

	juryByPlayer := make(map[string]string)
	for _, v := range state.Jury {
		juryByPlayer[v.Player] = v.Token
	}

	b.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		toks := tokensByOwner[p.Name]
		living := 0
		for _, tok := range toks {
			if tok.Life > 0 {
				living++
			}
		}
		if living > 0 {
			b.WriteString(fmt.Sprintf("• %s (%d token(s), %d living)\n", p.Name, len(toks), living))
		} else {
			vote := juryByPlayer[p.Name]
			if vote == "" {
				vote = "no vote"
			} else {
				vote = "votes for " + vote
			}
			b.WriteString(fmt.Sprintf("• %s (eliminated, jury: %s)\n", p.Name, vote))
		}
		for _, tok := range toks {
			status := fmt.Sprintf("%d/%d hearts", tok.Life, tok.LifeCap)
			if tok.Life == 0 {
				status = "DEAD"
			}
			at := "unplaced"
			if tok.Pos != nil {
				at = fmt.Sprintf("(%d,%d)", tok.Pos.X, tok.Pos.Y)
			}
			b.WriteString(fmt.Sprintf("    %s at %s - %s, %d AP, range %d\n",
				tok.ID, at, status, tok.AP, tok.Range))
		}
	}

	if len(state.Priority) > 0 {
		b.WriteString("\nPriority: " + strings.Join(state.Priority, ", ") + "\n")
	}

	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	if result.Success {
		response := "✓ " + result.Summary + "\n"
		response += "\n" + formatState(result.State)
		return response
	}

	response := fmt.Sprintf("✗ Command rejected: %s\n", result.Error)
	if result.Kind != "" {
		response += fmt.Sprintf("Kind: %s\n", result.Kind)
	}
	response += "\nThe game state is unchanged.\n"
	return response
}

func formatScriptResult(result *service.ScriptResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Applied %d/%d line(s)\n", result.Applied, result.Requested))

	if !result.Success {
		b.WriteString(fmt.Sprintf("Failed at line %d: %s\n", result.FailedLine, result.FailedRaw))
		b.WriteString(fmt.Sprintf("Error: %s", result.Error))
		if result.Kind != "" {
			b.WriteString(fmt.Sprintf(" (%s)", result.Kind))
		}
		b.WriteString("\nLines before the failure stay applied.\n")
	}

	if len(result.Results) > 0 {
		b.WriteString("\nSummaries:\n")
		for _, r := range result.Results {
			if r.Summary == "" {
				continue // comments and blank lines
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", r.Line, r.Summary))
		}
	}

	b.WriteString("\n" + formatState(result.State))
	return b.String()
}
