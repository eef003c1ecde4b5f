package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"

	"mcadmin/internal/actions"
	"mcadmin/internal/metrics"
	"mcadmin/internal/models"
)

// Executor runs a claimed job to completion and returns the captured output
// tails. An error (or panic) means the job failed.
type Executor interface {
	Execute(ctx context.Context, job *models.Job) (stdout, stderr string, err error)
}

const laneBuffer = 128

// Queue fans jobs out to workers. Server-control actions share a single
// serial lane, so two restarts can never overlap; player-management actions
// run on a small concurrent pool.
type Queue struct {
	store    *Store
	executor Executor

	exclusive chan *models.Job
	shared    chan *models.Job
	workers   int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewQueue(store *Store, executor Executor, playerWorkers int) *Queue {
	if playerWorkers < 1 {
		playerWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		store:     store,
		executor:  executor,
		exclusive: make(chan *models.Job, laneBuffer),
		shared:    make(chan *models.Job, laneBuffer),
		workers:   playerWorkers,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (q *Queue) Start() {
	q.wg.Add(1)
	go q.worker(q.exclusive)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(q.shared)
	}
}

// Stop cancels in-flight executions and waits for workers to exit. Jobs
// still queued stay pending; there is no cancel transition.
func (q *Queue) Stop() {
	q.cancel()
	q.wg.Wait()
}

func (q *Queue) Enqueue(job *models.Job) error {
	lane := q.shared
	if actions.Kind(job.Action).Exclusive() {
		lane = q.exclusive
	}
	select {
	case lane <- job:
		return nil
	case <-q.ctx.Done():
		return fmt.Errorf("job queue is stopped")
	}
}

func (q *Queue) worker(lane <-chan *models.Job) {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-lane:
			q.run(job)
		}
	}
}

func (q *Queue) run(job *models.Job) {
	if err := q.store.MarkRunning(job.ID); err != nil {
		log.Printf("Failed to mark job %s running: %v", job.ID, err)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			q.finish(job, false, 1, "", fmt.Sprintf("panic: %v", r))
		}
	}()

	stdout, stderr, err := q.executor.Execute(q.ctx, job)
	if err != nil {
		if stderr == "" {
			stderr = err.Error()
		}
		q.finish(job, false, 1, stdout, stderr)
		return
	}
	q.finish(job, true, 0, stdout, stderr)
}

func (q *Queue) finish(job *models.Job, succeeded bool, exitCode int, stdout, stderr string) {
	if err := q.store.MarkFinished(job.ID, succeeded, exitCode, stdout, stderr); err != nil {
		log.Printf("Failed to mark job %s finished: %v", job.ID, err)
		return
	}
	status := models.JobSucceeded
	if !succeeded {
		status = models.JobFailed
	}
	metrics.JobFinished(job.Action, status)
}
