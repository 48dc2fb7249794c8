package scores

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps scores in a SQLite database.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Compile-time check that Store accepts finished runs.
var _ Sink = (*Store)(nil)

// OpenStore opens (or creates) the database at path.
func OpenStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// WAL lets the web page read while games write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		high_score INTEGER NOT NULL DEFAULT 0,
		games INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL REFERENCES users(username),
		score INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_username ON scores(username, score DESC);
	CREATE INDEX IF NOT EXISTS idx_users_high_score ON users(high_score DESC);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RecordScore stores a finished run and trims the player's history to
// their TopScores best.
func (s *Store) RecordScore(username string, score int) error {
	if username == "" {
		return ErrNoUsername
	}
	now := s.now().Unix()

	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO users (username, high_score, games, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(username) DO UPDATE SET
			high_score = max(high_score, excluded.high_score),
			games = games + 1,
			updated_at = excluded.updated_at`,
		username, score, now,
	); err != nil {
		return fmt.Errorf("upsert user %s: %w", username, err)
	}

	if _, err := tx.Exec(
		"INSERT INTO scores (username, score, created_at) VALUES (?, ?, ?)",
		username, score, now,
	); err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM scores WHERE username = ? AND id NOT IN (
			SELECT id FROM scores WHERE username = ? ORDER BY score DESC, id ASC LIMIT ?
		)`,
		username, username, TopScores,
	); err != nil {
		return fmt.Errorf("trim scores: %w", err)
	}

	return tx.Commit()
}

// User returns a player's record, or nil when they never finished a run.
func (s *Store) User(username string) (*Entry, error) {
	e := &Entry{Username: username}
	err := s.conn.QueryRow(
		"SELECT high_score, games FROM users WHERE username = ?", username,
	).Scan(&e.HighScore, &e.Games)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Query(
		"SELECT score FROM scores WHERE username = ? ORDER BY score DESC, id ASC", username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		e.Scores = append(e.Scores, score)
	}
	return e, rows.Err()
}

// Rankings returns up to limit players ordered by high score.
func (s *Store) Rankings(limit int) ([]Entry, error) {
	rows, err := s.conn.Query(
		"SELECT username, high_score, games FROM users ORDER BY high_score DESC, username ASC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Username, &e.HighScore, &e.Games); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
