package engine

// Default rule values. The board-size defaults keep per-token reachable
// area roughly constant as the roster grows (see DefaultBoardSize).
const (
	DefaultLifeCap       = 3
	DefaultActionRange   = 2
	DefaultHealSelfCost  = 2
	DefaultGiftHeartCost = 2
	DefaultUpgradeCost   = 5
	DefaultCaptureCost   = 5
	DefaultMinBoardSize  = 4
	DefaultDensity       = 0.5
	DefaultRandomSeed    = 0

	// MaxTokenIDLen is the maximum token id length in runes. Token ids are
	// short printable symbols, emoji included.
	MaxTokenIDLen = 2
)

// Position represents x,y board coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Token is a playing piece. Its id is globally unique and immutable once
// created; ownership changes only through capture. A token with 0 life stays
// on the board: it cannot move but keeps its AP, still blocks its cell, and
// remains targetable for attack and capture.
type Token struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Pos     *Position `json:"pos,omitempty"` // nil until the board is sized
	AP      int       `json:"ap"`
	Life    int       `json:"life"`
	LifeCap int       `json:"life_cap"`
	Range   int       `json:"range"`
}

// Alive reports whether the token has at least one life.
func (t *Token) Alive() bool {
	return t.Life > 0
}

// Player owns an ordered list of token ids. The order is insertion order and
// carries no meaning beyond display.
type Player struct {
	Name   string   `json:"name"`
	Tokens []string `json:"tokens"`
}

// Rules carries the configurable costs and defaults of a game. Values are
// fixed at construction except the three costs exposed through the
// SetUpgradeCost/SetHealSelfCost/SetGiftHeartCost setters.
type Rules struct {
	LifeCap       int     `json:"life_cap"`
	ActionRange   int     `json:"action_range"`
	HealSelfCost  int     `json:"heal_self_cost"`
	GiftHeartCost int     `json:"gift_heart_cost"`
	UpgradeCost   int     `json:"upgrade_cost"`
	CaptureCost   int     `json:"capture_cost"`
	MinBoardSize  int     `json:"min_board_size"`
	Density       float64 `json:"density"`
	Seed          int64   `json:"random_seed"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		LifeCap:       DefaultLifeCap,
		ActionRange:   DefaultActionRange,
		HealSelfCost:  DefaultHealSelfCost,
		GiftHeartCost: DefaultGiftHeartCost,
		UpgradeCost:   DefaultUpgradeCost,
		CaptureCost:   DefaultCaptureCost,
		MinBoardSize:  DefaultMinBoardSize,
		Density:       DefaultDensity,
		Seed:          DefaultRandomSeed,
	}
}

// JuryVote records an eliminated player's endorsement of a living token.
type JuryVote struct {
	Player string `json:"player"`
	Token  string `json:"token"`
}

// TileKind classifies what occupies a board cell from a query's point of
// view. An occupied cell always wins over a merely reachable one.
type TileKind int

const (
	TileBlank TileKind = iota
	TileReachable
	TileOccupied
)

// Tile is the result of a tile-occupancy query. Token is set only when
// Kind is TileOccupied.
type Tile struct {
	Kind  TileKind
	Token string
}

// State is a complete, JSON-friendly snapshot of a game. All slices are in
// the engine's deterministic iteration order (sorted by id/name), so equal
// games marshal to equal bytes.
type State struct {
	Turn        int        `json:"turn"`
	BoardSize   int        `json:"board_size"`
	BoardSized  bool       `json:"board_sized"`
	BoardLocked bool       `json:"board_locked"`
	Seed        int64      `json:"random_seed"`
	Rules       Rules      `json:"rules"`
	Players     []Player   `json:"players"`
	Tokens      []Token    `json:"tokens"`
	Jury        []JuryVote `json:"jury"`
	Priority    []string   `json:"priority"`
}
