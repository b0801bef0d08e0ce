package sink

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS lines (
	run_id TEXT NOT NULL,
	seq    INTEGER NOT NULL,
	text   TEXT NOT NULL,
	at     TIMESTAMP NOT NULL,
	PRIMARY KEY (run_id, seq)
)`

// Transcript records printed lines in a SQLite database. Each Transcript is
// one run, identified by a fresh UUID; lines are numbered from 1.
type Transcript struct {
	db     *sql.DB
	insert *sql.Stmt
	runID  string
	seq    int
}

// OpenTranscript opens (creating if needed) the database at path.
func OpenTranscript(path string) (*Transcript, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript %s: %w", path, err)
	}
	// One connection: keeps ":memory:" databases alive and writes ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening transcript %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating transcript schema: %w", err)
	}
	insert, err := db.Prepare(`INSERT INTO lines (run_id, seq, text, at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing transcript insert: %w", err)
	}

	return &Transcript{db: db, insert: insert, runID: uuid.NewString()}, nil
}

// RunID identifies this run's rows.
func (t *Transcript) RunID() string {
	return t.runID
}

func (t *Transcript) WriteLine(line string) error {
	t.seq++
	if _, err := t.insert.Exec(t.runID, t.seq, line, time.Now().UTC()); err != nil {
		return fmt.Errorf("recording line %d: %w", t.seq, err)
	}
	return nil
}

// Lines returns the recorded lines of a run in print order.
func (t *Transcript) Lines(runID string) ([]string, error) {
	rows, err := t.db.Query(`SELECT text FROM lines WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("reading transcript: %w", err)
		}
		lines = append(lines, text)
	}
	return lines, rows.Err()
}

// Runs lists the run IDs recorded in the database, oldest first.
func (t *Transcript) Runs() ([]string, error) {
	rows, err := t.db.Query(`SELECT run_id FROM lines GROUP BY run_id ORDER BY MIN(at), run_id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

func (t *Transcript) Close() error {
	t.insert.Close()
	return t.db.Close()
}
