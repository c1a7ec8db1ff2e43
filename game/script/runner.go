package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Omega97/token-tactics/game/engine"
)

// Result is the outcome of one applied line: its 1-based position, the line
// as written, and the engine's effect summary (empty only for blank lines).
type Result struct {
	Line    int    `json:"line"`
	Raw     string `json:"raw"`
	Summary string `json:"summary"`
}

// LineError reports the first line of a replay that failed. Everything
// applied before it stays committed; the failing line itself changed
// nothing.
type LineError struct {
	Line int
	Raw  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Raw, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// AsLineError unwraps err to a *LineError if there is one in its chain.
func AsLineError(err error) (*LineError, bool) {
	var le *LineError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// Run replays a command log against the game, fail-fast: the first error
// stops the pass and is returned wrapped with its line position. Results for
// every line applied before the failure are still returned.
func Run(g *engine.Game, r io.Reader) ([]Result, error) {
	var results []Result
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		summary, err := ApplyLine(g, raw)
		if err != nil {
			return results, &LineError{Line: lineNo, Raw: raw, Err: err}
		}
		results = append(results, Result{Line: lineNo, Raw: raw, Summary: summary})
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("reading script: %w", err)
	}
	return results, nil
}

// RunString replays a whole script held in memory.
func RunString(g *engine.Game, text string) ([]Result, error) {
	return Run(g, strings.NewReader(text))
}
