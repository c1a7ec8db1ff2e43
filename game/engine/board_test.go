package engine

import (
	"reflect"
	"testing"
)

func TestDefaultBoardSize(t *testing.T) {
	apply := must(t)
	g := New(DefaultRules())
	apply(g.AddPlayer("Alice"))

	// Empty roster falls back to the configured minimum.
	if got := g.DefaultBoardSize(); got != DefaultMinBoardSize {
		t.Errorf("expected minimum size %d, got %d", DefaultMinBoardSize, got)
	}

	// floor(sqrt(0.5 * 4 * 25)) = 7 for four tokens at range 2.
	for _, id := range []string{"a", "b", "c", "d"} {
		apply(g.AddToken(id, "Alice"))
	}
	if got := g.DefaultBoardSize(); got != 7 {
		t.Errorf("expected size 7, got %d", got)
	}
}

func TestLazyAutoSize(t *testing.T) {
	apply := must(t)
	g := New(DefaultRules())
	apply(g.AddPlayer("Alice"))
	apply(g.AddToken("a", "Alice"))
	apply(g.AddToken("b", "Alice"))

	if _, sized := g.BoardSize(); sized {
		t.Fatal("board must stay unsized until a spatial operation needs it")
	}

	// Distance forces sizing and placement.
	if _, err := g.Distance("a", "b"); err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	size, sized := g.BoardSize()
	if !sized {
		t.Fatal("expected board sized after spatial query")
	}
	if size < DefaultMinBoardSize {
		t.Errorf("expected size >= %d, got %d", DefaultMinBoardSize, size)
	}
	if g.Token("a").Pos == nil || g.Token("b").Pos == nil {
		t.Error("expected all tokens placed")
	}
	// Auto-sizing keeps the turn counter and does not lock the board.
	if g.BoardLocked() {
		t.Error("auto-sizing must not lock the board")
	}
}

// A command rejected after its first spatial need must not leave lazy
// auto-sizing behind: sizing commits only together with the command's
// mutation, so the rejection leaves the board unsized and the tokens
// unplaced.
func TestRejectedCommandRollsBackAutoSize(t *testing.T) {
	newUnsized := func(t *testing.T) *Game {
		t.Helper()
		apply := must(t)
		g := New(DefaultRules())
		apply(g.AddPlayer("Alice"))
		apply(g.AddPlayer("Bob"))
		apply(g.AddToken("a", "Alice"))
		apply(g.AddToken("b", "Bob"))
		setAP(g, "a", 5)
		return g
	}

	cases := []struct {
		name    string
		prepare func(g *Game)
		attempt func(g *Game) (string, error)
	}{
		{
			name:    "zero move",
			attempt: func(g *Game) (string, error) { return g.Move("a", 0, 0) },
		},
		{
			name:    "shoot dead target",
			prepare: func(g *Game) { g.tokens["b"].Life = 0 },
			attempt: func(g *Game) (string, error) { return g.Shoot("a", "b") },
		},
		{
			name:    "gift heart to full recipient",
			attempt: func(g *Game) (string, error) { return g.GiftHeart("a", "b") },
		},
		{
			name:    "capture living target",
			attempt: func(g *Game) (string, error) { return g.Capture("a", "b") },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newUnsized(t)
			if tc.prepare != nil {
				tc.prepare(g)
			}
			before := g.Snapshot()

			if _, err := tc.attempt(g); err == nil {
				t.Fatal("expected command to be rejected")
			}
			if _, sized := g.BoardSize(); sized {
				t.Error("rejected command committed auto-sizing")
			}
			if got := g.Snapshot(); !reflect.DeepEqual(got, before) {
				t.Errorf("rejected command mutated state:\nbefore: %+v\nafter:  %+v", before, got)
			}
		})
	}
}

// A rolled-back auto-size must also restore the generator, so the eventual
// sizing places tokens exactly as a run where the rejected command never
// happened. This is what keeps transcript replays faithful: rejected lines
// are not persisted.
func TestRolledBackAutoSizeKeepsPlacementReproducible(t *testing.T) {
	apply := must(t)
	build := func(withRejectedMove bool) *State {
		g := New(DefaultRules())
		apply(g.AddPlayer("Alice"))
		apply(g.AddToken("a", "Alice"))
		apply(g.AddToken("b", "Alice"))
		setAP(g, "a", 1)
		if withRejectedMove {
			if _, err := g.Move("a", 0, 0); err == nil {
				t.Fatal("expected zero move to be rejected")
			}
		}
		apply(g.AddToken("c", "Alice"))
		if _, err := g.Distance("a", "c"); err != nil {
			t.Fatalf("Distance failed: %v", err)
		}
		return g.Snapshot()
	}

	if clean, replayed := build(false), build(true); !reflect.DeepEqual(clean, replayed) {
		t.Errorf("states diverge after a rejected command:\nclean:    %+v\nreplayed: %+v", clean, replayed)
	}
}

func TestSetBoardSizeValidation(t *testing.T) {
	apply := must(t)
	g := New(DefaultRules())
	apply(g.AddPlayer("Alice"))
	apply(g.AddToken("a", "Alice"))
	apply(g.AddToken("b", "Alice"))

	if _, err := g.SetBoardSize(DefaultMinBoardSize - 1); !IsKind(err, ErrBoardSize) {
		t.Errorf("expected BoardSizeError below minimum, got %v", err)
	}

	apply(g.SetBoardSize(5))
	if size, _ := g.BoardSize(); size != 5 {
		t.Errorf("expected size 5, got %d", size)
	}
}

func TestBoardLockBlocksResize(t *testing.T) {
	apply := must(t)
	g := newTestGame(t)
	apply(g.NextTurn())

	if _, err := g.SetBoardSize(10); !IsKind(err, ErrBoardSize) {
		t.Errorf("expected BoardSizeError on a locked board, got %v", err)
	}
	if size, _ := g.BoardSize(); size != 8 {
		t.Errorf("expected size unchanged at 8, got %d", size)
	}
}

// Explicit resizing repositions every token, resets the turn counter, and
// re-seeds the generator, but never touches AP, life, range, or ownership.
func TestResizeResetsTurnAndRepositions(t *testing.T) {
	apply := must(t)
	g := New(DefaultRules())
	apply(g.AddPlayer("Alice"))
	apply(g.AddToken("a", "Alice"))
	apply(g.SetBoardSize(6))
	g.tokens["a"].AP = 7
	g.tokens["a"].Life = 2
	g.turn = 3

	apply(g.SetBoardSize(9))
	if g.Turn() != 0 {
		t.Errorf("expected turn reset to 0, got %d", g.Turn())
	}
	tok := g.Token("a")
	if tok.AP != 7 || tok.Life != 2 {
		t.Errorf("resize must not touch AP or life, got AP=%d life=%d", tok.AP, tok.Life)
	}
	if tok.Pos == nil {
		t.Fatal("expected token placed after resize")
	}
	if tok.Pos.X >= 9 || tok.Pos.Y >= 9 {
		t.Errorf("token placed out of bounds: %+v", tok.Pos)
	}
}

// Resizing to the same size with the same seed reproduces the same layout:
// placement depends only on seed, size, and id order.
func TestResizeIsSeedDeterministic(t *testing.T) {
	apply := must(t)
	g := New(DefaultRules())
	apply(g.AddPlayer("Alice"))
	for _, id := range []string{"a", "b", "c"} {
		apply(g.AddToken(id, "Alice"))
	}
	apply(g.SetSeed(7))

	apply(g.SetBoardSize(6))
	first := map[string]Position{}
	for _, id := range g.TokenIDs() {
		first[id] = *g.Token(id).Pos
	}

	apply(g.SetBoardSize(6))
	for _, id := range g.TokenIDs() {
		if got := *g.Token(id).Pos; got != first[id] {
			t.Errorf("token %s moved between identical resizes: %+v != %+v", id, got, first[id])
		}
	}
}

func TestSetSeedSameValueIsNoOp(t *testing.T) {
	apply := must(t)
	g := New(DefaultRules())
	apply(g.AddPlayer("Alice"))
	apply(g.AddPlayer("Bob"))
	apply(g.SetSeed(5))
	p1 := g.Priority()

	apply(g.SetSeed(5))
	p2 := g.Priority()
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("same-seed SetSeed reshuffled priority: %v != %v", p1, p2)
		}
	}
}

func TestTileAt(t *testing.T) {
	g := newTestGame(t)
	place(g, "a", 2, 2)
	place(g, "b", 7, 7)

	tile, err := g.TileAt(2, 2)
	if err != nil {
		t.Fatalf("TileAt failed: %v", err)
	}
	if tile.Kind != TileOccupied || tile.Token != "a" {
		t.Errorf("expected occupied by a, got %+v", tile)
	}

	// Within range 2 of a.
	tile, _ = g.TileAt(4, 4)
	if tile.Kind != TileReachable {
		t.Errorf("expected reachable, got %+v", tile)
	}

	// Beyond everyone's range.
	tile, _ = g.TileAt(0, 5)
	if tile.Kind != TileBlank {
		t.Errorf("expected blank, got %+v", tile)
	}

	// Dead tokens still occupy their cell but project no range.
	g.tokens["b"].Life = 0
	tile, _ = g.TileAt(7, 7)
	if tile.Kind != TileOccupied || tile.Token != "b" {
		t.Errorf("expected dead token to occupy its cell, got %+v", tile)
	}
	tile, _ = g.TileAt(5, 7)
	if tile.Kind != TileBlank {
		t.Errorf("expected no reach from a dead token, got %+v", tile)
	}
}

func TestDistance(t *testing.T) {
	g := newTestGame(t)
	place(g, "a", 1, 1)
	place(g, "b", 4, 2)

	d, err := g.Distance("a", "b")
	if err != nil {
		t.Fatalf("Distance failed: %v", err)
	}
	if d != 3 {
		t.Errorf("expected Chebyshev distance 3, got %d", d)
	}
	if _, err := g.Distance("a", "z"); !IsKind(err, ErrTokenNotFound) {
		t.Errorf("expected TokenNotFound, got %v", err)
	}
}

// No two tokens ever share a cell, whatever the seed.
func TestPlacementNoOverlap(t *testing.T) {
	apply := must(t)
	for seed := int64(0); seed < 10; seed++ {
		g := New(DefaultRules())
		apply(g.AddPlayer("Alice"))
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			apply(g.AddToken(id, "Alice"))
		}
		apply(g.SetSeed(seed))
		apply(g.SetBoardSize(4))

		seen := map[Position]string{}
		for _, id := range g.TokenIDs() {
			pos := *g.Token(id).Pos
			if other, dup := seen[pos]; dup {
				t.Fatalf("seed %d: %s and %s share %+v", seed, id, other, pos)
			}
			seen[pos] = id
		}
	}
}
