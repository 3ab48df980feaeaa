package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/imagvfx/renderq/service"
)

// CreateRunsTable creates runs table to a database if not exists.
// It is ok to call it multiple times.
func CreateRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			ord INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT NOT NULL,
			scene TEXT NOT NULL,
			mode INTEGER NOT NULL,
			start_frame INTEGER NOT NULL,
			end_frame INTEGER NOT NULL,
			status TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			message TEXT NOT NULL,
			commands TEXT NOT NULL,
			started TIMESTAMP NOT NULL,
			finished TIMESTAMP NOT NULL
		);
	`)
	return err
}

// RunService interacts with a database for renderq run history.
type RunService struct {
	db *sql.DB
}

// NewRunService creates a new RunService.
func NewRunService(db *sql.DB) *RunService {
	return &RunService{db: db}
}

// AddRun records a run.
func (s *RunService) AddRun(r *service.Run) (int, error) {
	result, err := s.db.Exec(`
		INSERT INTO runs (
			job_id,
			scene,
			mode,
			start_frame,
			end_frame,
			status,
			exit_code,
			message,
			commands,
			started,
			finished
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.JobID,
		r.Scene,
		r.Mode,
		r.Start,
		r.End,
		r.Status,
		r.ExitCode,
		r.Message,
		r.Commands,
		r.Started.UTC(),
		r.Finished.UTC(),
	)
	if err != nil {
		return -1, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, err
	}
	return int(id), nil
}

// FindRuns finds runs those matched with given filter, the newest first.
func (s *RunService) FindRuns(f service.RunFilter) ([]*service.Run, error) {
	where := NewWhere()
	where.AddIfNotEmpty("job_id", f.JobID)
	where.AddIfNotEmpty("status", f.Status)
	stmt := `
		SELECT
			ord,
			job_id,
			scene,
			mode,
			start_frame,
			end_frame,
			status,
			exit_code,
			message,
			commands,
			started,
			finished
		FROM runs` + where.Stmt() + `
		ORDER BY ord DESC`
	if f.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	rows, err := s.db.Query(stmt, where.Vals()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	runs := make([]*service.Run, 0)
	for rows.Next() {
		r := &service.Run{}
		err := rows.Scan(
			&r.Order,
			&r.JobID,
			&r.Scene,
			&r.Mode,
			&r.Start,
			&r.End,
			&r.Status,
			&r.ExitCode,
			&r.Message,
			&r.Commands,
			&r.Started,
			&r.Finished,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
