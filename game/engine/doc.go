// Package engine provides the core game logic for Token Tactics.
//
// Token Tactics is a turn-based, resource-economy board game for N players.
// Each player controls identified tokens on a square grid. Tokens spend
// action points (AP) to move, attack, heal, trade resources or life,
// upgrade, and capture defeated enemy tokens. Players whose tokens are all
// defeated join a jury that may endorse one living token for a bonus AP
// grant each turn.
//
// Core Types:
//
// Game holds the authoritative token/player/jury/priority tables, the board
// geometry, and the seeded random generator used for token placement. Rules
// carries the configurable costs and defaults. Every rejected command
// returns an *Error carrying one of the closed ErrKind values plus a detail
// message naming the offending ids or values.
//
// Usage:
//
//	g := engine.New(engine.DefaultRules())
//	g.AddPlayer("P1")
//	g.AddToken("A", "P1")
//	summary, err := g.NextTurn()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Determinism:
//
// The engine is single-writer and contains no background work. All map
// iteration used for game computations runs in sorted key order, and the
// only source of randomness is the engine's own generator seeded from the
// stored seed. Two engines constructed with the same rules that apply the
// same ordered command sequence reach identical state.
//
// Atomicity:
//
// Every command handler validates completely before mutating anything. The
// first failing check returns a specific error and leaves all state
// untouched; only after every check passes does mutation occur.
package engine
