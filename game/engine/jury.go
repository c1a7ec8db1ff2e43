package engine

import "fmt"

// IsEliminated reports whether every token currently owned by the player has
// life 0. A player with no tokens at all counts as eliminated. The status is
// always recomputed, never cached: ownership changes through capture, so a
// stored flag would go stale.
func (g *Game) IsEliminated(player string) bool {
	for _, id := range g.TokenIDs() {
		t := g.tokens[id]
		if t.Owner == player && t.Alive() {
			return false
		}
	}
	return true
}

// Vote sets or overwrites the player's jury entry endorsing the given token;
// an empty token id clears the entry. Only currently-eliminated players may
// vote, and only living tokens may be endorsed.
func (g *Game) Vote(player, token string) (string, error) {
	if _, ok := g.players[player]; !ok {
		return "", newError(ErrPlayerNotFound, "player %q does not exist", player)
	}
	if !g.IsEliminated(player) {
		return "", newError(ErrInvalidMove, "player %s has not been eliminated yet", player)
	}
	if token == "" {
		delete(g.jury, player)
		g.touch(player)
		g.lockBoard()
		return fmt.Sprintf("%s isn't voting for anyone", player), nil
	}
	if err := g.checkTokens(token); err != nil {
		return "", err
	}
	if !g.tokens[token].Alive() {
		return "", newError(ErrInvalidMove, "may only vote for a living token, not %s", token)
	}

	g.jury[player] = token
	g.touch(player)
	g.lockBoard()
	return fmt.Sprintf("%s is now voting for %s", player, token), nil
}

// syncJury drops jury entries whose players are no longer eliminated. It
// runs after every ownership or life change; a heart gift or a capture can
// hand an eliminated player a living token back.
func (g *Game) syncJury() []string {
	var revived []string
	for _, player := range sortedKeys(g.jury) {
		if !g.IsEliminated(player) {
			delete(g.jury, player)
			revived = append(revived, player)
		}
	}
	return revived
}
