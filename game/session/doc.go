// Package session provides session management for Token Tactics.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Transcript-based persistence
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores sessions as command-log files.
//
// Session Identifiers:
//
// Sessions use short hex IDs (the first UUID group) for easy reference.
// Lookup is case-insensitive.
//
// Persistence:
//
// A persisted session is a .log file holding one JSON header line (id,
// ruleset, timestamps) followed by the verbatim command transcript. Loading
// replays the transcript into a fresh game; because the engine is
// deterministic given the seed and the command order, the replay reproduces
// the exact board, down to token placement. There is no binary save format.
//
// Concurrency:
//
// The manager is thread-safe. Individual sessions carry their own lock;
// callers serialize game access through it.
package session
