// Command replay runs a command log through a fresh game and prints the
// result. It accepts both plain command scripts and persisted session .log
// files (whose first line is a JSON header carrying the ruleset).
//
// Usage:
//
//	replay game.log
//	replay -ruleset blitz -mode ascii game.log
//	replay -summaries match.txt
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/engine"
	"github.com/Omega97/token-tactics/game/render"
	"github.com/Omega97/token-tactics/game/script"
	"github.com/Omega97/token-tactics/game/session"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "replay a Token Tactics command log and print the final board",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ruleset",
				Usage: "ruleset to play under (ignored for session .log files, which carry their own)",
			},
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "directory holding ruleset files",
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: "emoji",
				Usage: "board render mode: emoji or ascii",
			},
			&cli.BoolFlag{
				Name:  "summaries",
				Usage: "print the effect summary of every applied line",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: replay [options] <file>")
	}

	header, lines, err := readLog(path)
	if err != nil {
		return err
	}

	rules, rulesetName, err := pickRules(cmd, header)
	if err != nil {
		return err
	}

	g := engine.New(rules)
	results, err := script.Run(g, strings.NewReader(strings.Join(lines, "\n")))

	if cmd.Bool("summaries") {
		for _, r := range results {
			if r.Summary == "" {
				continue
			}
			fmt.Printf("%4d  %s\n", r.Line, r.Summary)
		}
	}

	if err != nil {
		if le, ok := script.AsLineError(err); ok {
			// Offset by the header line so the number matches the file.
			n := le.Line
			if header != nil {
				n++
			}
			return fmt.Errorf("%s:%d: %q: %w", path, n, le.Raw, le.Err)
		}
		return err
	}

	mode, err := render.ParseMode(cmd.String("mode"))
	if err != nil {
		return err
	}
	board, err := render.Game(g, mode)
	if err != nil {
		return err
	}

	fmt.Printf("Replayed %d line(s) from %s (ruleset %s)\n\n", len(results), path, rulesetName)
	fmt.Println(board)
	return nil
}

// readLog splits a file into an optional session header and its command
// lines. A session .log starts with a JSON object on the first line; a plain
// script does not.
func readLog(path string) (*session.Header, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var header *session.Header
	var lines []string

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if strings.HasPrefix(strings.TrimSpace(line), "{") {
				var h session.Header
				if err := json.Unmarshal([]byte(line), &h); err != nil {
					return nil, nil, fmt.Errorf("%s: bad session header: %w", path, err)
				}
				header = &h
				continue
			}
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return header, lines, nil
}

// pickRules resolves the rules to replay under: the header's ruleset when the
// file is a session log, the -ruleset flag when given, classic otherwise.
func pickRules(cmd *cli.Command, header *session.Header) (engine.Rules, string, error) {
	if header != nil && header.Ruleset != nil {
		return header.Ruleset.Rules, header.Ruleset.Name, nil
	}

	name := cmd.String("ruleset")
	if name == "" {
		classic := config.BuiltinClassic()
		return classic.Rules, classic.Name, nil
	}

	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return engine.Rules{}, "", err
	}
	ruleset, err := manager.LoadConfig(name)
	if err != nil {
		return engine.Rules{}, "", err
	}
	return ruleset.Rules, ruleset.Name, nil
}
