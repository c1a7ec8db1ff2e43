package engine

// Economy and guard checks. These operate on resolved tokens; callers run
// checkTokens first. All checks are side-effect free so handlers can run
// their full validation chain before mutating anything.

// hasAP fails with InsufficientAP unless the token can pay cost.
func (g *Game) hasAP(t *Token, cost int) error {
	if cost < 0 {
		return newError(ErrInsufficientAP, "amount %d must not be negative", cost)
	}
	if t.AP < cost {
		return newError(ErrInsufficientAP, "%s AP: %d < %d", t.ID, t.AP, cost)
	}
	return nil
}

// spendAP decreases the token's balance by exactly n, failing with
// InsufficientAP if n is negative or the balance is short.
func (g *Game) spendAP(t *Token, n int) error {
	if err := g.hasAP(t, n); err != nil {
		return err
	}
	t.AP -= n
	return nil
}

// grantAP increases the token's balance by n. Negative grants are rejected.
func (g *Game) grantAP(t *Token, n int) error {
	if n < 0 {
		return newError(ErrInvalidMove, "grant of %d AP to %s must not be negative", n, t.ID)
	}
	t.AP += n
	return nil
}

// transferAP moves n AP from src to dst as one atomic unit: if the spend
// fails nothing changes, so total AP is conserved.
func (g *Game) transferAP(src, dst *Token, n int) error {
	if err := g.spendAP(src, n); err != nil {
		return err
	}
	return g.grantAP(dst, n)
}

// checkLifeBounds fails with InvalidMove if life+delta would fall outside
// [0, life_cap].
func (g *Game) checkLifeBounds(t *Token, delta int) error {
	if t.Life+delta > t.LifeCap {
		return newError(ErrInvalidMove, "%s cannot receive any more hearts (life %d, cap %d)", t.ID, t.Life, t.LifeCap)
	}
	if t.Life+delta < 0 {
		return newError(ErrInvalidMove, "%s does not have enough hearts (life %d)", t.ID, t.Life)
	}
	return nil
}

// InRange reports whether b lies within a's action range. Unknown ids are
// simply not in range.
func (g *Game) InRange(a, b string) bool {
	if g.checkTokens(a, b) != nil {
		return false
	}
	d, err := g.Distance(a, b)
	if err != nil {
		return false
	}
	return d <= g.tokens[a].Range
}

// checkRange fails with OutOfRange unless b is within a's range. When
// override >= 0 it replaces a's range as the distance threshold; melee-only
// commands pass 1.
func (g *Game) checkRange(a, b string, override int) error {
	d, err := g.Distance(a, b)
	if err != nil {
		return err
	}
	r := override
	if r < 0 {
		r = g.tokens[a].Range
	}
	if d > r {
		return newError(ErrOutOfRange, "%s is too far from %s (distance %d > range %d)", b, a, d, r)
	}
	return nil
}
