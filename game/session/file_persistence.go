package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Omega97/token-tactics/game/engine"
	"github.com/Omega97/token-tactics/game/script"
	"github.com/Omega97/token-tactics/game/service"
)

// FilePersistence stores each session as a .log file: one JSON header line
// followed by the raw command transcript. The transcript is the state; load
// rebuilds the game by replaying it.
type FilePersistence struct {
	dir string
}

// NewFilePersistence creates a file-backed session store rooted at dir,
// creating the directory if needed.
func NewFilePersistence(dir string) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FilePersistence{dir: dir}, nil
}

// Save writes the session's header and transcript atomically via a rename.
func (p *FilePersistence) Save(session *service.Session) error {
	session.Mu.Lock()
	header := Header{
		ID:             session.ID,
		Ruleset:        session.Ruleset,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}
	transcript := session.TranscriptText()
	session.Mu.Unlock()

	headerLine, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal session header: %w", err)
	}

	tmp := p.path(session.ID) + ".tmp"
	content := string(headerLine) + "\n" + transcript
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, p.path(session.ID)); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Load rebuilds a session by replaying its transcript into a fresh game.
// A transcript that no longer replays cleanly is a corrupt save.
func (p *FilePersistence) Load(id string) (*service.Session, error) {
	f, err := os.Open(p.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("session file %s is empty", id)
	}
	var header Header
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return nil, fmt.Errorf("failed to parse session header: %w", err)
	}
	if header.Ruleset == nil {
		return nil, fmt.Errorf("session %s has no ruleset", id)
	}

	var transcript []string
	for scanner.Scan() {
		transcript = append(transcript, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	game := engine.New(header.Ruleset.Rules)
	for i, line := range transcript {
		if _, err := script.ApplyLine(game, line); err != nil {
			return nil, fmt.Errorf("session %s: transcript line %d (%q) failed to replay: %w",
				id, i+1, line, err)
		}
	}

	return &service.Session{
		ID:             header.ID,
		Game:           game,
		Ruleset:        header.Ruleset,
		Transcript:     transcript,
		CreatedAt:      header.CreatedAt,
		LastAccessedAt: header.LastAccessedAt,
	}, nil
}

// Delete removes a persisted session file
func (p *FilePersistence) Delete(id string) error {
	if err := os.Remove(p.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// ListAll returns the IDs of all persisted sessions
func (p *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".log"))
	}
	return ids, nil
}

// Exists checks whether a session file is on disk
func (p *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(p.path(id))
	return err == nil
}

func (p *FilePersistence) path(id string) string {
	return filepath.Join(p.dir, strings.ToLower(id)+".log")
}
