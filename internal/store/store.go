// Package store records extraction runs and the problems they produced in
// a SQLite database, so reports and indexes can be rebuilt without
// re-reading the PDFs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoRuns is returned when the database holds no finished run.
var ErrNoRuns = errors.New("store: no finished runs")

// Store is an open run database.
type Store struct {
	db *sql.DB
}

// Run is one invocation of a pipeline.
type Run struct {
	ID       string    `json:"id"`
	Command  string    `json:"command"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Sources  int       `json:"sources"`
}

// Record is one stored problem or question. Question-only runs leave
// Chapter, Title, Number and Solution empty.
type Record struct {
	Subject  string `json:"subject"`
	Chapter  string `json:"chapter"`
	Title    string `json:"title,omitempty"`
	Number   int    `json:"number"`
	Question string `json:"question"`
	Solution string `json:"solution"`
	Source   string `json:"source"`
	Pattern  string `json:"pattern"`
	File     string `json:"file"`
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT,
			sources INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS problems (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			subject TEXT,
			chapter TEXT,
			title TEXT,
			number INTEGER,
			question TEXT NOT NULL,
			solution TEXT,
			source TEXT,
			pattern TEXT,
			file TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_run_id ON problems(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts an unfinished run.
func (s *Store) BeginRun(ctx context.Context, command string) (Run, error) {
	r := Run{ID: uuid.NewString(), Command: command, Started: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, started) VALUES (?, ?, ?)`,
		r.ID, r.Command, r.Started.Format(timeLayout))
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return r, nil
}

// SaveProblems appends records to a run in one transaction.
func (s *Store) SaveProblems(ctx context.Context, runID string, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO problems
		(run_id, subject, chapter, title, number, question, solution, source, pattern, file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, runID, r.Subject, r.Chapter, r.Title, r.Number,
			r.Question, r.Solution, r.Source, r.Pattern, r.File); err != nil {
			return fmt.Errorf("inserting problem: %w", err)
		}
	}
	return tx.Commit()
}

// FinishRun marks a run finished with its source count.
func (s *Store) FinishRun(ctx context.Context, runID string, sources int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished = ?, sources = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), sources, runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finishing run: unknown run %s", runID)
	}
	return nil
}

// LatestRun returns the most recently started finished run, restricted to
// a command when command is not empty.
func (s *Store) LatestRun(ctx context.Context, command string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, command, started, finished, sources
		FROM runs
		WHERE finished IS NOT NULL AND (? = '' OR command = ?)
		ORDER BY started DESC, rowid DESC
		LIMIT 1`, command, command)

	var r Run
	var started, finished string
	if err := row.Scan(&r.ID, &r.Command, &started, &finished, &r.Sources); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNoRuns
		}
		return Run{}, err
	}
	var err error
	if r.Started, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	if r.Finished, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	return r, nil
}

// Problems returns a run's records in insertion order.
func (s *Store) Problems(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT subject, chapter, title, number, question, solution, source, pattern, file
		FROM problems WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Subject, &r.Chapter, &r.Title, &r.Number, &r.Question,
			&r.Solution, &r.Source, &r.Pattern, &r.File); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
