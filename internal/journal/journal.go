// package journal records observed speaker state transitions in SQLite.
//
// The journal is a diagnostic aid: the reconciler appends a row whenever a
// target's derived state changes, so "why did my speaker flip off at 3am"
// has an answer. Observed state itself is never read back from here.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	target_id TEXT NOT NULL,
	name TEXT NOT NULL,
	active INTEGER NOT NULL,
	volume INTEGER NOT NULL,
	observed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transitions_target ON transitions(target_id);
CREATE INDEX IF NOT EXISTS idx_transitions_observed_at ON transitions(observed_at);
`

// Transition is one recorded state change for a target.
type Transition struct {
	ID         int64
	TargetID   string
	Name       string
	Active     bool
	Volume     int
	ObservedAt time.Time
}

// Journal appends and queries state transitions.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a Journal over an open database connection.
func New(db *sql.DB) *Journal {
	return &Journal{db: db, now: time.Now}
}

// Init creates the journal schema if it does not exist.
func (j *Journal) Init(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return nil
}

// Record appends one transition row.
func (j *Journal) Record(ctx context.Context, targetID, name string, active bool, volume int) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO transitions (target_id, name, active, volume, observed_at) VALUES (?, ?, ?, ?, ?)`,
		targetID, name, active, volume, j.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// Recent returns the most recent transitions across all targets, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, target_id, name, active, volume, observed_at
		 FROM transitions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	return scanTransitions(rows)
}

// ForTarget returns the most recent transitions for one target, newest first.
func (j *Journal) ForTarget(ctx context.Context, targetID string, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, target_id, name, active, volume, observed_at
		 FROM transitions WHERE target_id = ? ORDER BY id DESC LIMIT ?`, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	return scanTransitions(rows)
}

// Prune deletes transitions older than the retention window.
func (j *Journal) Prune(ctx context.Context, retain time.Duration) (int64, error) {
	cutoff := j.now().UTC().Add(-retain)

	result, err := j.db.ExecContext(ctx, `DELETE FROM transitions WHERE observed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune transitions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return deleted, nil
}

func scanTransitions(rows *sql.Rows) ([]Transition, error) {
	var transitions []Transition
	for rows.Next() {
		var tr Transition
		if err := rows.Scan(&tr.ID, &tr.TargetID, &tr.Name, &tr.Active, &tr.Volume, &tr.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transition: %w", err)
		}
		transitions = append(transitions, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transitions: %w", err)
	}
	return transitions, nil
}
