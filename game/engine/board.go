package engine

import (
	"fmt"
	"math"
	"math/rand"
)

// Distance returns the Chebyshev distance max(|dx|, |dy|) between two
// tokens' positions. It fails with TokenNotFound if either id is unknown.
// Querying before the board is sized triggers lazy auto-sizing.
func (g *Game) Distance(a, b string) (int, error) {
	if err := g.checkTokens(a, b); err != nil {
		return 0, err
	}
	if err := g.ensureBoard(); err != nil {
		return 0, err
	}
	return chebyshev(*g.tokens[a].Pos, *g.tokens[b].Pos), nil
}

// TileAt reports what occupies the cell (x, y): the token on that exact
// cell if any; otherwise a reachable marker if the cell lies within the
// range of any living token (distance in (0, range]); otherwise a blank.
// Occupied always takes precedence over reachable. Querying before the
// board is sized triggers lazy auto-sizing.
func (g *Game) TileAt(x, y int) (Tile, error) {
	if err := g.ensureBoard(); err != nil {
		return Tile{}, err
	}

	for _, id := range g.TokenIDs() {
		pos := g.tokens[id].Pos
		if pos != nil && pos.X == x && pos.Y == y {
			return Tile{Kind: TileOccupied, Token: id}, nil
		}
	}

	for _, id := range g.TokenIDs() {
		t := g.tokens[id]
		if !t.Alive() || t.Pos == nil {
			continue
		}
		d := chebyshev(*t.Pos, Position{X: x, Y: y})
		if 0 < d && d <= t.Range {
			return Tile{Kind: TileReachable}, nil
		}
	}

	return Tile{Kind: TileBlank}, nil
}

// DefaultBoardSize computes the recommended board side length:
// max(min_board_size, floor(sqrt(density * tokens * (2*range+1)^2))).
// It keeps the per-token reachable area roughly proportional as the
// roster grows.
func (g *Game) DefaultBoardSize() int {
	diameter := 2*g.rules.ActionRange + 1
	area := g.rules.Density * float64(len(g.tokens)) * float64(diameter*diameter)
	size := int(math.Sqrt(area))
	if size < g.rules.MinBoardSize {
		size = g.rules.MinBoardSize
	}
	return size
}

// SetBoardSize resizes the board. It re-seeds the stored generator from the
// stored seed, resets the turn counter, and reassigns positions for ALL
// tokens; AP, life, range, and ownership are untouched. It fails with
// BoardSizeError if the board is locked, the size is below the configured
// minimum, or the board would not fit the current roster.
func (g *Game) SetBoardSize(size int) (string, error) {
	if g.boardLocked {
		return "", newError(ErrBoardSize, "board is locked, it can no longer be resized")
	}
	if size < g.rules.MinBoardSize {
		return "", newError(ErrBoardSize, "size %d is below the minimum %d", size, g.rules.MinBoardSize)
	}
	if size*size <= len(g.tokens) {
		return "", newError(ErrBoardSize, "board %dx%d cannot fit %d tokens", size, size, len(g.tokens))
	}

	if err := g.resize(size, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("Board size set to %dx%d - tokens repositioned, RNG reset", size, size), nil
}

// SetDefaultBoardSize resizes the board to the recommended default size.
func (g *Game) SetDefaultBoardSize() (string, error) {
	summary, err := g.SetBoardSize(g.DefaultBoardSize())
	if err != nil {
		return "", err
	}
	return summary + " (default)", nil
}

// SetSeed stores a new random seed, re-seeds the generator, and reshuffles
// the priority list. Setting the seed already in effect is a no-op so that
// replayed logs cannot double-consume the generator.
func (g *Game) SetSeed(seed int64) (string, error) {
	if seed == g.seed {
		return fmt.Sprintf("Random seed was already %d", seed), nil
	}
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
	g.priority = g.PlayerNames()
	g.rng.Shuffle(len(g.priority), func(i, j int) {
		g.priority[i], g.priority[j] = g.priority[j], g.priority[i]
	})
	return fmt.Sprintf("Random seed set to %d", seed), nil
}

// ensureBoard lazily auto-sizes the board on first spatial need. Automatic
// sizing, like explicit sizing, re-seeds the generator and places every
// token; unlike explicit sizing it ignores the lock flag and keeps the turn
// counter.
func (g *Game) ensureBoard() error {
	if g.boardSized {
		return nil
	}
	size := g.DefaultBoardSize()
	for size*size <= len(g.tokens) {
		size++
	}
	return g.resize(size, false)
}

// withBoard sizes the board if needed, then runs the handler's remaining
// validation. If that validation fails and the sizing happened here, the
// sizing is rolled back (geometry, positions, generator), so a rejected
// command never commits auto-sizing as a side effect. Handlers route every
// check that runs after their first spatial need through this.
func (g *Game) withBoard(validate func() error) error {
	wasSized := g.boardSized
	prevRNG := g.rng
	if err := g.ensureBoard(); err != nil {
		return err
	}
	err := validate()
	if err != nil && !wasSized {
		g.boardSize = 0
		g.boardSized = false
		g.rng = prevRNG
		for _, t := range g.tokens {
			t.Pos = nil
		}
	}
	return err
}

// resize applies new board geometry. Callers have already validated the
// size against the minimum and the roster.
func (g *Game) resize(size int, resetTurn bool) error {
	g.boardSize = size
	g.boardSized = true
	g.rng = rand.New(rand.NewSource(g.seed))
	if resetTurn {
		g.turn = 0
	}
	for _, id := range g.TokenIDs() {
		g.tokens[id].Pos = nil
	}
	return g.assignPositions(g.TokenIDs())
}

// assignPositions places each id, in the given order, on a free cell. Free
// cells are enumerated in a fixed order, shuffled with the engine's seeded
// generator, and popped from the end, so placement depends only on the seed
// and the id order, never on map iteration order.
func (g *Game) assignPositions(ids []string) error {
	free := g.freeCells()
	if len(free) < len(ids) {
		return newError(ErrBoardSize, "only %d free cells for %d tokens", len(free), len(ids))
	}

	g.rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})

	for _, id := range ids {
		pos := free[len(free)-1]
		free = free[:len(free)-1]
		g.tokens[id].Pos = &pos
	}
	return nil
}

// freeCells returns all unoccupied cells in [0,size)^2 in column-major
// order.
func (g *Game) freeCells() []Position {
	occupied := make(map[Position]bool, len(g.tokens))
	for _, t := range g.tokens {
		if t.Pos != nil {
			occupied[*t.Pos] = true
		}
	}

	free := make([]Position, 0, g.boardSize*g.boardSize-len(occupied))
	for x := 0; x < g.boardSize; x++ {
		for y := 0; y < g.boardSize; y++ {
			pos := Position{X: x, Y: y}
			if !occupied[pos] {
				free = append(free, pos)
			}
		}
	}
	return free
}

// chebyshev returns max(|dx|, |dy|), king-move distance in chess.
func chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
