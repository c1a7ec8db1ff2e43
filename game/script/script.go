// Package script implements the line-oriented command language of the game:
// parsing, static dispatch onto the engine, and fail-fast replay of command
// logs. The command set is closed; unknown verbs are hard errors so typos in
// a log never silently skip a move.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Omega97/token-tactics/game/engine"
)

// Op is a command verb. Setup verbs are upper-case, gameplay verbs
// lower-case, matching the convention of hand-written command files.
type Op string

const (
	OpPlayer        Op = "PLAYER"
	OpToken         Op = "TOKEN"
	OpRandomSeed    Op = "RANDOM_SEED"
	OpBoardSize     Op = "BOARD_SIZE"
	OpUpgradeCost   Op = "UPGRADE_COST"
	OpHealSelfCost  Op = "HEAL_SELF_COST"
	OpGiftHeartCost Op = "GIFT_HEART_COST"
	OpNextTurn      Op = "next_turn"
	OpMove          Op = "move"
	OpGift          Op = "gift"
	OpShoot         Op = "shoot"
	OpHeal          Op = "heal"
	OpUpgrade       Op = "upgrade"
	OpGiftHeart     Op = "gift_heart"
	OpCapture       Op = "capture"
	OpVote          Op = "vote"
)

// Command is one parsed line. Blank lines and comments parse to a no-op
// command that replay preserves verbatim and never dispatches.
type Command struct {
	Op   Op
	Args []string
	Raw  string
	NoOp bool
}

// arity bounds and usage string per verb. The table is the single source of
// truth for the command surface; dispatch below switches over the same set.
var verbs = map[Op]struct {
	min, max int
	usage    string
}{
	OpPlayer:        {1, 1, "PLAYER <name>"},
	OpToken:         {2, 2, "TOKEN <id> <owner>"},
	OpRandomSeed:    {1, 1, "RANDOM_SEED <int>"},
	OpBoardSize:     {1, 1, "BOARD_SIZE <int|default>"},
	OpUpgradeCost:   {1, 1, "UPGRADE_COST <int>"},
	OpHealSelfCost:  {1, 1, "HEAL_SELF_COST <int>"},
	OpGiftHeartCost: {1, 1, "GIFT_HEART_COST <int>"},
	OpNextTurn:      {0, 0, "next_turn"},
	OpMove:          {3, 3, "move <token> <dx> <dy>"},
	OpGift:          {2, 3, "gift <t1> <t2> [n]"},
	OpShoot:         {2, 2, "shoot <t1> <t2>"},
	OpHeal:          {1, 1, "heal <token>"},
	OpUpgrade:       {1, 1, "upgrade <token>"},
	OpGiftHeart:     {2, 2, "gift_heart <t1> <t2>"},
	OpCapture:       {2, 2, "capture <t1> <t2>"},
	OpVote:          {1, 2, "vote <player> [token]"},
}

// Parse turns one line into a Command. Leading and trailing whitespace is
// ignored for dispatch but Raw keeps the line as written.
func Parse(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Command{Raw: line, NoOp: true}, nil
	}

	fields := strings.Fields(trimmed)
	op := Op(fields[0])
	v, ok := verbs[op]
	if !ok {
		return Command{}, fmt.Errorf("unknown command: %s", fields[0])
	}
	args := fields[1:]
	if len(args) < v.min || len(args) > v.max {
		return Command{}, fmt.Errorf("usage: %s", v.usage)
	}
	return Command{Op: op, Args: args, Raw: line}, nil
}

// Apply dispatches a parsed command onto the game and returns the engine's
// effect summary. No-op commands return their raw text unchanged.
func Apply(g *engine.Game, cmd Command) (string, error) {
	if cmd.NoOp {
		return cmd.Raw, nil
	}

	switch cmd.Op {
	case OpPlayer:
		return g.AddPlayer(cmd.Args[0])
	case OpToken:
		return g.AddToken(cmd.Args[0], cmd.Args[1])
	case OpRandomSeed:
		seed, err := intArg(cmd, 0)
		if err != nil {
			return "", err
		}
		return g.SetSeed(int64(seed))
	case OpBoardSize:
		if cmd.Args[0] == "default" {
			return g.SetDefaultBoardSize()
		}
		size, err := intArg(cmd, 0)
		if err != nil {
			return "", err
		}
		return g.SetBoardSize(size)
	case OpUpgradeCost:
		cost, err := intArg(cmd, 0)
		if err != nil {
			return "", err
		}
		return g.SetUpgradeCost(cost)
	case OpHealSelfCost:
		cost, err := intArg(cmd, 0)
		if err != nil {
			return "", err
		}
		return g.SetHealSelfCost(cost)
	case OpGiftHeartCost:
		cost, err := intArg(cmd, 0)
		if err != nil {
			return "", err
		}
		return g.SetGiftHeartCost(cost)
	case OpNextTurn:
		return g.NextTurn()
	case OpMove:
		dx, err := intArg(cmd, 1)
		if err != nil {
			return "", err
		}
		dy, err := intArg(cmd, 2)
		if err != nil {
			return "", err
		}
		return g.Move(cmd.Args[0], dx, dy)
	case OpGift:
		n := 1
		if len(cmd.Args) == 3 {
			var err error
			if n, err = intArg(cmd, 2); err != nil {
				return "", err
			}
		}
		return g.Gift(cmd.Args[0], cmd.Args[1], n)
	case OpShoot:
		return g.Shoot(cmd.Args[0], cmd.Args[1])
	case OpHeal:
		return g.Heal(cmd.Args[0])
	case OpUpgrade:
		return g.Upgrade(cmd.Args[0])
	case OpGiftHeart:
		return g.GiftHeart(cmd.Args[0], cmd.Args[1])
	case OpCapture:
		return g.Capture(cmd.Args[0], cmd.Args[1])
	case OpVote:
		token := ""
		if len(cmd.Args) == 2 {
			token = cmd.Args[1]
		}
		return g.Vote(cmd.Args[0], token)
	default:
		return "", fmt.Errorf("unknown command: %s", cmd.Op)
	}
}

// ApplyLine parses and dispatches one line.
func ApplyLine(g *engine.Game, line string) (string, error) {
	cmd, err := Parse(line)
	if err != nil {
		return "", err
	}
	return Apply(g, cmd)
}

func intArg(cmd Command, i int) (int, error) {
	n, err := strconv.Atoi(cmd.Args[i])
	if err != nil {
		return 0, fmt.Errorf("%s: argument %q must be an integer", cmd.Op, cmd.Args[i])
	}
	return n, nil
}
