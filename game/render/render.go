// Package render turns a game into a printable board view. Two modes are
// supported: an emoji view matching the chat-style presentation the game is
// usually played in, and a plain ASCII view for logs and terminals without
// emoji fonts.
package render

import (
	"fmt"
	"strings"

	"github.com/Omega97/token-tactics/game/engine"
)

// Mode selects the character set of the rendered board.
type Mode string

const (
	ModeEmoji Mode = "emoji"
	ModeASCII Mode = "ascii"
)

// ParseMode maps a user-supplied mode name to a Mode. The empty string
// means emoji, the default presentation.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", string(ModeEmoji):
		return ModeEmoji, nil
	case string(ModeASCII):
		return ModeASCII, nil
	default:
		return "", fmt.Errorf("unknown render mode %q", s)
	}
}

// Digit emoji cycle used for the board axes.
var numbers = []string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

const (
	blankTile  = "➗"
	rangeTile  = "➕"
	cornerTile = "⏹️"
)

// Game renders the full game view: turn header, board with axes, per-player
// token status, jury votes, and the priority list. Rendering may trigger
// lazy board sizing, so it can fail with a board error.
func Game(g *engine.Game, mode Mode) (string, error) {
	// Force sizing up front so the size read below is final.
	if _, err := g.TileAt(0, 0); err != nil {
		return "", err
	}
	size, _ := g.BoardSize()

	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d\n", g.Turn())

	// Rows print top to bottom with descending y, so (0,0) sits bottom-left.
	for y := size - 1; y >= 0; y-- {
		b.WriteString(axisDigit(y, mode))
		for x := 0; x < size; x++ {
			tile, err := g.TileAt(x, y)
			if err != nil {
				return "", err
			}
			b.WriteString(tileString(tile, mode))
		}
		b.WriteByte('\n')
	}
	b.WriteString(corner(mode))
	for x := 0; x < size; x++ {
		b.WriteString(axisDigit(x, mode))
	}

	// Living players with their tokens' life bars and AP.
	for _, name := range g.PlayerNames() {
		if g.IsEliminated(name) {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s", name)
		for _, id := range g.Player(name).Tokens {
			tok := g.Token(id)
			fmt.Fprintf(&b, "\n %s %s %s", id, lifebar(tok, mode), bolts(tok.AP, mode))
		}
	}

	// Eliminated players with their vote, or the lack of one.
	b.WriteByte('\n')
	votes := make(map[string]string)
	for _, v := range g.JuryVotes() {
		votes[v.Player] = v.Token
	}
	for _, name := range g.PlayerNames() {
		if !g.IsEliminated(name) {
			continue
		}
		if token, ok := votes[name]; ok {
			fmt.Fprintf(&b, "\n%7s -> %s", name, token)
		} else {
			fmt.Fprintf(&b, "\n%7s -> no vote", name)
		}
	}

	b.WriteString("\nPriority: " + strings.Join(g.Priority(), ", "))
	return b.String(), nil
}

func axisDigit(n int, mode Mode) string {
	if mode == ModeASCII {
		return fmt.Sprintf("%d", n%10)
	}
	return numbers[n%len(numbers)]
}

func corner(mode Mode) string {
	if mode == ModeASCII {
		return "+"
	}
	return cornerTile
}

func tileString(tile engine.Tile, mode Mode) string {
	switch tile.Kind {
	case engine.TileOccupied:
		return tile.Token
	case engine.TileReachable:
		if mode == ModeASCII {
			return "+"
		}
		return rangeTile
	default:
		if mode == ModeASCII {
			return "."
		}
		return blankTile
	}
}

// lifebar renders current vs. maximum life, full hearts first.
func lifebar(tok *engine.Token, mode Mode) string {
	if mode == ModeASCII {
		return "[" + strings.Repeat("#", tok.Life) + strings.Repeat("-", tok.LifeCap-tok.Life) + "]"
	}
	return "[" + strings.Repeat("❤️", tok.Life) + strings.Repeat("🖤", tok.LifeCap-tok.Life) + "]"
}

func bolts(ap int, mode Mode) string {
	if mode == ModeASCII {
		return strings.Repeat("*", ap)
	}
	return strings.Repeat("⚡️", ap)
}
