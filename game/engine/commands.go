package engine

import "fmt"

// NextTurn grants +1 AP to every living token, then +1 extra AP to each
// living token currently endorsed by a jury member, and advances the turn
// counter. It is the only AP source besides the jury bonus it pays out.
func (g *Game) NextTurn() (string, error) {
	if len(g.tokens) == 0 {
		return "", newError(ErrInvalidMove, "no tokens on board")
	}

	g.turn++

	aliveCount := 0
	for _, id := range g.TokenIDs() {
		t := g.tokens[id]
		if t.Alive() {
			t.AP++
			aliveCount++
		}
	}

	juryBonus := 0
	for _, player := range sortedKeys(g.jury) {
		t, ok := g.tokens[g.jury[player]]
		if ok && t.Alive() {
			t.AP++
			juryBonus++
		}
	}

	g.lockBoard()

	summary := fmt.Sprintf("[%d] Gave +1 AP to %d living token", g.turn, aliveCount)
	if aliveCount != 1 {
		summary += "s"
	}
	if juryBonus > 0 {
		summary += fmt.Sprintf(" + %d jury bonus", juryBonus)
	}
	return summary, nil
}

// Move repositions a token by one cell in any of the eight directions.
// Costs 1 AP. The target cell must be in bounds, exactly Chebyshev-adjacent,
// and not occupied by another token.
func (g *Game) Move(token string, dx, dy int) (string, error) {
	if err := g.checkTokens(token); err != nil {
		return "", err
	}
	t := g.tokens[token]
	if err := g.hasAP(t, 1); err != nil {
		return "", err
	}
	if !t.Alive() {
		return "", newError(ErrInvalidMove, "token %s has 0 life and cannot move", token)
	}

	var x, y int
	err := g.withBoard(func() error {
		x = t.Pos.X + dx
		y = t.Pos.Y + dy
		if x < 0 || x >= g.boardSize || y < 0 || y >= g.boardSize {
			return newError(ErrInvalidMove, "target position (%d, %d) is out of bounds", x, y)
		}
		if chebyshev(*t.Pos, Position{X: x, Y: y}) != 1 {
			return newError(ErrOutOfRange, "target position must be adjacent (1 cell away)")
		}
		tile, err := g.TileAt(x, y)
		if err != nil {
			return err
		}
		if tile.Kind == TileOccupied {
			return newError(ErrInvalidMove, "target position (%d, %d) is occupied by %s", x, y, tile.Token)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	t.Pos = &Position{X: x, Y: y}
	g.spendAP(t, 1)
	g.touch(t.Owner)
	g.lockBoard()

	return fmt.Sprintf("%s moved to (%d, %d) (-1 AP)", token, x, y), nil
}

// Gift transfers n AP from t1 to t2. The recipient must be within t1's
// action range. Total AP is conserved: the amount removed from t1 equals the
// amount added to t2.
func (g *Game) Gift(t1, t2 string, n int) (string, error) {
	if err := g.checkTokens(t1, t2); err != nil {
		return "", err
	}
	src := g.tokens[t1]
	if err := g.hasAP(src, n); err != nil {
		return "", err
	}
	if err := g.withBoard(func() error { return g.checkRange(t1, t2, -1) }); err != nil {
		return "", err
	}

	g.transferAP(src, g.tokens[t2], n)
	g.touch(src.Owner)
	g.lockBoard()

	return fmt.Sprintf("%s -> %s : gifted %d AP", t1, t2, n), nil
}

// Shoot removes one life from a target within range. Costs 1 AP. A token
// whose life is already 0 cannot be shot again. If the shot brings the
// target to exactly 0 life, all of the target's remaining AP transfers to
// the shooter.
func (g *Game) Shoot(t1, t2 string) (string, error) {
	if err := g.checkTokens(t1, t2); err != nil {
		return "", err
	}
	src := g.tokens[t1]
	dst := g.tokens[t2]
	if err := g.hasAP(src, 1); err != nil {
		return "", err
	}
	err := g.withBoard(func() error {
		if err := g.checkRange(t1, t2, -1); err != nil {
			return err
		}
		if !dst.Alive() {
			return newError(ErrInvalidMove, "token %s is already defeated and cannot be shot", t2)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	g.spendAP(src, 1)
	dst.Life--
	stolen := 0
	if dst.Life == 0 {
		stolen = dst.AP
		g.transferAP(dst, src, stolen)
	}
	g.touch(src.Owner)
	g.lockBoard()

	summary := fmt.Sprintf("%s shot at %s! %s's %s now has %d life", t1, t2, dst.Owner, t2, dst.Life)
	if stolen > 0 {
		summary += fmt.Sprintf(", %s stole %d AP", t1, stolen)
	}
	if g.IsEliminated(dst.Owner) {
		summary += fmt.Sprintf(" -> %s eliminated and sent to jury!", dst.Owner)
	}
	return summary, nil
}

// Heal restores one life to a token, bounded by its life cap. Costs
// heal_self_cost AP. Healing a 0-life token revives it; if that
// un-eliminates the owner, their jury entry is cleared.
func (g *Game) Heal(token string) (string, error) {
	if err := g.checkTokens(token); err != nil {
		return "", err
	}
	t := g.tokens[token]
	if err := g.hasAP(t, g.rules.HealSelfCost); err != nil {
		return "", err
	}
	if err := g.checkLifeBounds(t, 1); err != nil {
		return "", err
	}

	g.spendAP(t, g.rules.HealSelfCost)
	t.Life++
	revived := g.syncJury()
	g.touch(t.Owner)
	g.lockBoard()

	summary := fmt.Sprintf("%s healed +1 life (%d/%d)", token, t.Life, t.LifeCap)
	for _, player := range revived {
		summary += fmt.Sprintf(" -> %s revived from jury!", player)
	}
	return summary, nil
}

// Upgrade raises a token's range, life cap, and life by one each, as a
// single unit: the life increase is valid against the new cap, not the old
// one. Costs upgrade_cost AP. Like Heal, the +1 life can revive a 0-life
// token and clear its owner's jury entry.
func (g *Game) Upgrade(token string) (string, error) {
	if err := g.checkTokens(token); err != nil {
		return "", err
	}
	t := g.tokens[token]
	if err := g.hasAP(t, g.rules.UpgradeCost); err != nil {
		return "", err
	}

	g.spendAP(t, g.rules.UpgradeCost)
	t.LifeCap++
	t.Life++
	t.Range++
	revived := g.syncJury()
	g.touch(t.Owner)
	g.lockBoard()

	summary := fmt.Sprintf("%s upgraded! New life cap: %d, range: %d", token, t.LifeCap, t.Range)
	for _, player := range revived {
		summary += fmt.Sprintf(" -> %s revived from jury!", player)
	}
	return summary, nil
}

// GiftHeart moves one life from t1 to an adjacent t2 (exactly distance 1).
// Costs gift_heart_cost AP. If t2's owner sat in the jury, the gift revives
// them; if the donation leaves t1's owner with no living tokens, the summary
// surfaces that elimination.
func (g *Game) GiftHeart(t1, t2 string) (string, error) {
	if err := g.checkTokens(t1, t2); err != nil {
		return "", err
	}
	src := g.tokens[t1]
	dst := g.tokens[t2]
	if err := g.hasAP(src, g.rules.GiftHeartCost); err != nil {
		return "", err
	}
	err := g.withBoard(func() error {
		if err := g.checkRange(t1, t2, 1); err != nil {
			return err
		}
		if err := g.checkLifeBounds(src, -1); err != nil {
			return err
		}
		return g.checkLifeBounds(dst, 1)
	})
	if err != nil {
		return "", err
	}

	g.spendAP(src, g.rules.GiftHeartCost)
	src.Life--
	dst.Life++
	revived := g.syncJury()
	g.touch(src.Owner)
	g.lockBoard()

	summary := fmt.Sprintf("%s -> %s : gifted 1 life", t1, t2)
	for _, player := range revived {
		summary += fmt.Sprintf(" -> %s revived from jury!", player)
	}
	if !src.Alive() && g.IsEliminated(src.Owner) {
		summary += fmt.Sprintf(" -> %s eliminated (sacrificed last heart)", src.Owner)
	}
	return summary, nil
}

// Capture transfers ownership of a defeated enemy token at exactly distance
// 1 to the capturer's owner and restores it to 1 life. Costs capture_cost
// AP. If the old owner is left with no tokens, they become eliminated and,
// unless already represented in the jury, are auto-enrolled endorsing the
// captured token.
func (g *Game) Capture(t1, t2 string) (string, error) {
	if err := g.checkTokens(t1, t2); err != nil {
		return "", err
	}
	src := g.tokens[t1]
	dst := g.tokens[t2]
	if err := g.hasAP(src, g.rules.CaptureCost); err != nil {
		return "", err
	}
	err := g.withBoard(func() error {
		d, err := g.Distance(t1, t2)
		if err != nil {
			return err
		}
		if d != 1 {
			return newError(ErrOutOfRange, "%s must be exactly adjacent to %s to capture (distance %d)", t2, t1, d)
		}
		if src.Owner == dst.Owner {
			return newError(ErrInvalidMove, "cannot capture your own token %s", t2)
		}
		if dst.Alive() {
			return newError(ErrInvalidMove, "cannot capture %s - it still has %d life", t2, dst.Life)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	oldOwner := dst.Owner
	g.spendAP(src, g.rules.CaptureCost)
	g.removeOwnedToken(oldOwner, t2)
	g.players[src.Owner].Tokens = append(g.players[src.Owner].Tokens, t2)
	dst.Owner = src.Owner
	dst.Life = 1
	g.syncJury()

	enrolled := false
	if g.IsEliminated(oldOwner) {
		if _, ok := g.jury[oldOwner]; !ok {
			g.jury[oldOwner] = t2
			enrolled = true
		}
	}
	g.touch(src.Owner)
	g.lockBoard()

	summary := fmt.Sprintf("%s captured %s from %s! %s now belongs to %s and is restored to 1 life",
		t1, t2, oldOwner, t2, src.Owner)
	if enrolled {
		summary += fmt.Sprintf(" -> %s has no tokens left and joins the jury!", oldOwner)
	}
	return summary, nil
}

// AddPlayer registers a new player with no tokens and appends them to the
// priority list.
func (g *Game) AddPlayer(name string) (string, error) {
	if name == "" {
		return "", newError(ErrInvalidMove, "player name must not be empty")
	}
	if _, ok := g.players[name]; ok {
		return "", newError(ErrPlayerAlreadyExists, "player %q already exists", name)
	}

	g.players[name] = &Player{Name: name}
	g.priority = append(g.priority, name)
	return fmt.Sprintf("Added player %q", name), nil
}

// AddToken creates a token bound to an existing player, initialized with the
// configured defaults (life = life cap, AP = 0, range = action range). Its
// position is assigned immediately if the board is already sized, or
// retroactively once the board is first sized.
func (g *Game) AddToken(id, owner string) (string, error) {
	if !validTokenID(id) {
		return "", newError(ErrInvalidMove, "token id %q must be 1 to %d characters long", id, MaxTokenIDLen)
	}
	if _, ok := g.tokens[id]; ok {
		return "", newError(ErrInvalidMove, "token %q already exists", id)
	}
	if _, ok := g.players[owner]; !ok {
		return "", newError(ErrPlayerNotFound, "player %q does not exist", owner)
	}
	if g.boardSized && len(g.freeCells()) == 0 {
		return "", newError(ErrBoardSize, "not enough space on board for new tokens")
	}

	g.tokens[id] = &Token{
		ID:      id,
		Owner:   owner,
		AP:      0,
		Life:    g.rules.LifeCap,
		LifeCap: g.rules.LifeCap,
		Range:   g.rules.ActionRange,
	}
	g.players[owner].Tokens = append(g.players[owner].Tokens, id)
	if g.boardSized {
		if err := g.assignPositions([]string{id}); err != nil {
			delete(g.tokens, id)
			g.removeOwnedToken(owner, id)
			return "", err
		}
	}
	return fmt.Sprintf("Added %s to %s", id, owner), nil
}

// SetUpgradeCost changes the AP cost of the upgrade command.
func (g *Game) SetUpgradeCost(cost int) (string, error) {
	if cost < 1 {
		return "", newError(ErrInvalidMove, "upgrade cost must be at least 1, got %d", cost)
	}
	g.rules.UpgradeCost = cost
	return fmt.Sprintf("Upgrade cost set to %d AP", cost), nil
}

// SetHealSelfCost changes the AP cost of the heal command.
func (g *Game) SetHealSelfCost(cost int) (string, error) {
	if cost < 1 {
		return "", newError(ErrInvalidMove, "heal cost must be at least 1, got %d", cost)
	}
	g.rules.HealSelfCost = cost
	return fmt.Sprintf("Heal self cost set to %d AP", cost), nil
}

// SetGiftHeartCost changes the AP cost of the gift_heart command.
func (g *Game) SetGiftHeartCost(cost int) (string, error) {
	if cost < 1 {
		return "", newError(ErrInvalidMove, "gift heart cost must be at least 1, got %d", cost)
	}
	g.rules.GiftHeartCost = cost
	return fmt.Sprintf("Gift heart cost set to %d AP", cost), nil
}

// removeOwnedToken drops id from the player's owned-token list, preserving
// the order of the remaining entries.
func (g *Game) removeOwnedToken(player, id string) {
	tokens := g.players[player].Tokens
	for i, tid := range tokens {
		if tid == id {
			g.players[player].Tokens = append(tokens[:i], tokens[i+1:]...)
			return
		}
	}
}

// OwnerOf returns the owner of the given token.
func (g *Game) OwnerOf(token string) (string, error) {
	if err := g.checkTokens(token); err != nil {
		return "", err
	}
	return g.tokens[token].Owner, nil
}
