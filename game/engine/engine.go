package engine

import (
	"math/rand"
	"sort"
	"unicode/utf8"
)

// Game is the authoritative state of one Token Tactics match: the
// token/player tables, the jury map, the priority list, the board geometry,
// and the seeded generator consumed by token placement.
//
// Game is not safe for concurrent use; callers serialize access (the service
// layer holds one lock per session). At most one command is validated or
// applied at any instant.
type Game struct {
	rules Rules

	players  map[string]*Player
	tokens   map[string]*Token
	jury     map[string]string
	priority []string

	boardSize   int
	boardSized  bool
	boardLocked bool
	seed        int64
	rng         *rand.Rand

	turn int
}

// New creates a game with the given rules and seeds its generator from
// rules.Seed. The board stays unsized until SetBoardSize is called or a
// spatial operation forces lazy auto-sizing.
func New(rules Rules) *Game {
	g := &Game{
		rules:   rules,
		players: make(map[string]*Player),
		tokens:  make(map[string]*Token),
		jury:    make(map[string]string),
	}
	g.seed = rules.Seed
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

// Rules returns a copy of the game's current rules, including any cost
// changes applied through the setters.
func (g *Game) Rules() Rules {
	return g.rules
}

// Turn returns the turn counter, incremented by NextTurn and reset to zero
// by board resizing.
func (g *Game) Turn() int {
	return g.turn
}

// BoardSize returns the board side length and whether the board has been
// sized yet.
func (g *Game) BoardSize() (int, bool) {
	return g.boardSize, g.boardSized
}

// BoardLocked reports whether the board may no longer be resized. The board
// locks on the first successfully applied gameplay command; setup commands
// remain legal until then.
func (g *Game) BoardLocked() bool {
	return g.boardLocked
}

// Seed returns the stored random seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Token returns the token with the given id, or nil if unknown. The returned
// value is a copy; tokens are mutated only through command handlers.
func (g *Game) Token(id string) *Token {
	t, ok := g.tokens[id]
	if !ok {
		return nil
	}
	cp := *t
	if t.Pos != nil {
		pos := *t.Pos
		cp.Pos = &pos
	}
	return &cp
}

// Player returns the player with the given name, or nil if unknown. The
// returned value is a copy.
func (g *Game) Player(name string) *Player {
	p, ok := g.players[name]
	if !ok {
		return nil
	}
	cp := Player{Name: p.Name, Tokens: append([]string(nil), p.Tokens...)}
	return &cp
}

// TokenIDs returns all token ids in sorted order.
func (g *Game) TokenIDs() []string {
	return sortedKeys(g.tokens)
}

// PlayerNames returns all player names in sorted order.
func (g *Game) PlayerNames() []string {
	return sortedKeys(g.players)
}

// JuryVotes returns the current jury entries sorted by player name.
func (g *Game) JuryVotes() []JuryVote {
	votes := make([]JuryVote, 0, len(g.jury))
	for _, player := range sortedKeys(g.jury) {
		votes = append(votes, JuryVote{Player: player, Token: g.jury[player]})
	}
	return votes
}

// Priority returns a copy of the advisory priority list, most recently
// active player last. It is never consulted to gate an action.
func (g *Game) Priority() []string {
	return append([]string(nil), g.priority...)
}

// Snapshot returns a complete deterministic snapshot of the game.
func (g *Game) Snapshot() *State {
	st := &State{
		Turn:        g.turn,
		BoardSize:   g.boardSize,
		BoardSized:  g.boardSized,
		BoardLocked: g.boardLocked,
		Seed:        g.seed,
		Rules:       g.rules,
		Priority:    g.Priority(),
		Jury:        g.JuryVotes(),
	}
	for _, name := range g.PlayerNames() {
		st.Players = append(st.Players, *g.Player(name))
	}
	for _, id := range g.TokenIDs() {
		st.Tokens = append(st.Tokens, *g.Token(id))
	}
	return st
}

// checkTokens fails with TokenNotFound on the first unknown id.
func (g *Game) checkTokens(ids ...string) error {
	for _, id := range ids {
		if _, ok := g.tokens[id]; !ok {
			return newError(ErrTokenNotFound, "token %q does not exist", id)
		}
	}
	return nil
}

// touch moves the player to the end of the priority list. Every handler that
// uses up a player's turn calls it, voting included.
func (g *Game) touch(player string) {
	for i, name := range g.priority {
		if name == player {
			g.priority = append(g.priority[:i], g.priority[i+1:]...)
			break
		}
	}
	g.priority = append(g.priority, player)
}

// lockBoard marks the board as no longer resizable. Called by every gameplay
// handler after its mutation phase.
func (g *Game) lockBoard() {
	g.boardLocked = true
}

func validTokenID(id string) bool {
	n := utf8.RuneCountInString(id)
	return n >= 1 && n <= MaxTokenIDLen
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
