package jobs

import (
	"encoding/json"
	"fmt"

	"mcadmin/internal/actions"
	"mcadmin/internal/metrics"
	"mcadmin/internal/models"
)

// Dispatcher validates an action request, creates the job record and hands
// it to the queue. The caller gets the job back immediately; execution is
// observed only through later polling.
type Dispatcher struct {
	store *Store
	queue *Queue
}

func NewDispatcher(store *Store, queue *Queue) *Dispatcher {
	return &Dispatcher{store: store, queue: queue}
}

// Submit rejects invalid input with an actions.ValidationError before any
// job exists. Every successful call creates exactly one job; identical
// concurrent submissions get independent jobs.
func (d *Dispatcher) Submit(kind actions.Kind, params *actions.PlayerParams) (*models.Job, error) {
	if !kind.Known() {
		return nil, &actions.ValidationError{Message: fmt.Sprintf("unknown action: %s", kind)}
	}

	var payload json.RawMessage
	if kind.TargetsPlayer() {
		if params == nil {
			return nil, &actions.ValidationError{Message: "Player name is required"}
		}
		name, err := actions.ValidatePlayerName(params.Name)
		if err != nil {
			return nil, err
		}
		payload, err = json.Marshal(actions.PlayerParams{Name: name, Op: params.Op})
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameters: %w", err)
		}
	}

	job, err := d.store.Create(string(kind), payload)
	if err != nil {
		return nil, err
	}
	if err := d.queue.Enqueue(job); err != nil {
		// Leave no orphaned pending record behind a rejected submission.
		d.store.Delete(job.ID)
		return nil, err
	}
	metrics.JobSubmitted(string(kind))
	return job, nil
}
