package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Omega97/token-tactics/game/config"
	"github.com/Omega97/token-tactics/game/session"
)

const sampleScript = `PLAYER Alice
PLAYER Bob
TOKEN a Alice
TOKEN b Bob
RANDOM_SEED 7
BOARD_SIZE 6
# opening turn
next_turn
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadLogPlainScript(t *testing.T) {
	path := writeFile(t, "match.txt", sampleScript)

	header, lines, err := readLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if header != nil {
		t.Error("plain script should have no header")
	}
	if len(lines) != 8 {
		t.Errorf("got %d lines, want 8", len(lines))
	}
	if lines[6] != "# opening turn" {
		t.Errorf("comment line not preserved verbatim: %q", lines[6])
	}
}

func TestReadLogSessionHeader(t *testing.T) {
	header := session.Header{ID: "abc123", Ruleset: config.BuiltinClassic()}
	headerLine, err := json.Marshal(header)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "abc123.log", string(headerLine)+"\n"+sampleScript)

	got, lines, err := readLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != "abc123" {
		t.Fatalf("header = %+v", got)
	}
	if got.Ruleset == nil || got.Ruleset.Name != "classic" {
		t.Errorf("header ruleset = %+v", got.Ruleset)
	}
	if len(lines) != 8 {
		t.Errorf("got %d lines, want 8", len(lines))
	}
}

func TestReadLogBadHeader(t *testing.T) {
	path := writeFile(t, "bad.log", "{not json}\nnext_turn\n")

	if _, _, err := readLog(path); err == nil {
		t.Error("expected an error for a malformed header line")
	}
}

func TestReplayScript(t *testing.T) {
	path := writeFile(t, "match.txt", sampleScript)

	err := newCommand().Run(context.Background(), []string{"replay", "-mode", "ascii", path})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
}

func TestReplaySessionLog(t *testing.T) {
	header := session.Header{ID: "abc123", Ruleset: config.BuiltinClassic()}
	headerLine, err := json.Marshal(header)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "abc123.log", string(headerLine)+"\n"+sampleScript)

	if err := newCommand().Run(context.Background(), []string{"replay", "-mode", "ascii", path}); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
}

func TestReplayReportsFailingLine(t *testing.T) {
	path := writeFile(t, "broken.txt", "PLAYER Alice\nshoot ghost ghost\n")

	err := newCommand().Run(context.Background(), []string{"replay", "-mode", "ascii", path})
	if err == nil {
		t.Fatal("expected replay to fail")
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Errorf("error should carry the file line number, got: %v", err)
	}
	if !strings.Contains(err.Error(), "shoot ghost ghost") {
		t.Errorf("error should quote the failing line, got: %v", err)
	}
}

func TestReplayHeaderOffsetsLineNumbers(t *testing.T) {
	header := session.Header{ID: "x", Ruleset: config.BuiltinClassic()}
	headerLine, err := json.Marshal(header)
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "x.log", string(headerLine)+"\nPLAYER Alice\nshoot ghost ghost\n")

	err = newCommand().Run(context.Background(), []string{"replay", path})
	if err == nil {
		t.Fatal("expected replay to fail")
	}
	// The failing command is file line 3 once the header is counted.
	if !strings.Contains(err.Error(), ":3:") {
		t.Errorf("error should use file line numbers, got: %v", err)
	}
}

func TestReplayMissingFileArg(t *testing.T) {
	if err := newCommand().Run(context.Background(), []string{"replay"}); err == nil {
		t.Error("expected a usage error without a file argument")
	}
}
