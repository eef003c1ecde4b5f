package jobs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mcadmin/internal/actions"
	"mcadmin/internal/database"
	"mcadmin/internal/models"
)

var ErrNotFound = errors.New("job not found")

// Store persists job records. Status updates are guarded by the current
// status in the WHERE clause, so transitions can only move forward:
// pending -> running -> succeeded|failed.
type Store struct {
	db           *database.DB
	historyLimit int
}

func NewStore(db *database.DB, historyLimit int) *Store {
	if historyLimit < 1 {
		historyLimit = 100
	}
	return &Store{db: db, historyLimit: historyLimit}
}

func (s *Store) Create(action string, payload json.RawMessage) (*models.Job, error) {
	job := &models.Job{
		ID:          uuid.NewString(),
		Action:      action,
		PayloadJSON: payload,
		Status:      models.JobPending,
		CreatedAt:   utcNow(),
	}
	_, err := s.db.Exec(`
		INSERT INTO jobs (id, action, payload_json, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, job.ID, job.Action, nullableJSON(job.PayloadJSON), job.Status, job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	// Keep only the most recent history entries.
	_, err = s.db.Exec(`
		DELETE FROM jobs WHERE id NOT IN (
			SELECT id FROM jobs ORDER BY created_at DESC, id DESC LIMIT $1
		)
	`, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to prune job history: %w", err)
	}
	return job, nil
}

func (s *Store) Get(id string) (*models.Job, error) {
	var job models.Job
	err := s.db.Get(&job, "SELECT * FROM jobs WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// List returns jobs newest first.
func (s *Store) List() ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Select(&jobs, `
		SELECT * FROM jobs ORDER BY created_at DESC, id DESC LIMIT $1
	`, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *Store) MarkRunning(id string) error {
	res, err := s.db.Exec(`
		UPDATE jobs SET status = $1, started_at = $2
		WHERE id = $3 AND status = $4
	`, models.JobRunning, utcNow(), id, models.JobPending)
	if err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}
	return requireTransition(res, id, models.JobRunning)
}

func (s *Store) MarkFinished(id string, succeeded bool, exitCode int, stdout, stderr string) error {
	status := models.JobSucceeded
	if !succeeded {
		status = models.JobFailed
	}
	res, err := s.db.Exec(`
		UPDATE jobs SET status = $1, exit_code = $2, stdout_tail = $3, stderr_tail = $4, finished_at = $5
		WHERE id = $6 AND status = $7
	`, status, exitCode, actions.Truncate(stdout), actions.Truncate(stderr), utcNow(), id, models.JobRunning)
	if err != nil {
		return fmt.Errorf("failed to mark job finished: %w", err)
	}
	return requireTransition(res, id, status)
}

func (s *Store) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM jobs WHERE id = $1", id)
	return err
}

func requireTransition(res sql.Result, id, to string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s: invalid transition to %s", id, to)
	}
	return nil
}

func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
