package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one recorded score computation.
type Run struct {
	ID         int64
	CreatedAt  time.Time
	Project    string
	Score      int
	Unused     int
	Outdated   int
	Vulnerable int
	Duplicated int
	Missing    int
}

// RecordRun inserts a run and returns it with ID and timestamp populated.
func (s *Store) RecordRun(run Run) (Run, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.Exec(`
		INSERT INTO runs (created_at, project, score, unused, outdated, vulnerable, duplicated, missing)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt, run.Project, run.Score,
		run.Unused, run.Outdated, run.Vulnerable, run.Duplicated, run.Missing,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run ID: %w", err)
	}
	run.ID = id

	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, project, score, unused, outdated, vulnerable, duplicated, missing
		FROM runs
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Project, &r.Score,
			&r.Unused, &r.Outdated, &r.Vulnerable, &r.Duplicated, &r.Missing); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// LatestRun returns the most recent run for a project, or sql.ErrNoRows
// wrapped when none exists.
func (s *Store) LatestRun(project string) (Run, error) {
	var r Run
	err := s.db.QueryRow(`
		SELECT id, created_at, project, score, unused, outdated, vulnerable, duplicated, missing
		FROM runs
		WHERE project = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, project,
	).Scan(&r.ID, &r.CreatedAt, &r.Project, &r.Score,
		&r.Unused, &r.Outdated, &r.Vulnerable, &r.Duplicated, &r.Missing)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("no runs recorded for %q: %w", project, err)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to query latest run: %w", err)
	}
	return r, nil
}
