package renderq

import (
	"context"
	"fmt"

	"github.com/imagvfx/renderq/lib/container"
	"github.com/imagvfx/renderq/service"
	"github.com/rs/xid"
)

// JobRenderer renders a job. Runner and History are JobRenderers.
type JobRenderer interface {
	Render(ctx context.Context, j Job) (*JobResult, error)
}

// Queue is an ordered list of jobs waiting for a batch render.
// The job added first will be rendered first.
//
// Every change is written through to the QueueService,
// so a Queue created later on the same service has the same jobs.
// A Queue isn't safe for concurrent use.
type Queue struct {
	svc  service.QueueService
	jobs *container.Queue[Job]
}

// NewQueue creates a Queue, restoring the jobs kept in the service.
func NewQueue(svc service.QueueService) (*Queue, error) {
	q := &Queue{
		svc:  svc,
		jobs: container.NewQueue[Job](),
	}
	items, err := svc.FindQueueItems()
	if err != nil {
		return nil, fmt.Errorf("restore queue: %w", err)
	}
	for _, it := range items {
		q.jobs.Push(jobFromItem(it))
	}
	return q, nil
}

// Len returns the number of jobs in the queue.
func (q *Queue) Len() int {
	return q.jobs.Len()
}

// Jobs returns the jobs in the queue, in their render order.
func (q *Queue) Jobs() []Job {
	return q.jobs.Items()
}

// Enqueue validates the job and adds it at the back of the queue.
// It returns the job with a new ID.
func (q *Queue) Enqueue(j Job) (Job, error) {
	err := j.Validate()
	if err != nil {
		return Job{}, err
	}
	j.ID = xid.New().String()
	_, err = q.svc.AddQueueItem(itemFromJob(j))
	if err != nil {
		return Job{}, fmt.Errorf("add job to queue: %w", err)
	}
	q.jobs.Push(j)
	return j, nil
}

// RemoveAt removes the job at index i, and returns it.
// When i is out of range, it does nothing and returns false.
func (q *Queue) RemoveAt(i int) (Job, bool, error) {
	j, ok := q.jobs.At(i)
	if !ok {
		return Job{}, false, nil
	}
	err := q.svc.RemoveQueueItem(j.ID)
	if err != nil {
		return Job{}, false, fmt.Errorf("remove job from queue: %w", err)
	}
	q.jobs.RemoveAt(i)
	return j, true, nil
}

// DrainAndExecuteAll renders the queued jobs one by one in their order,
// then empties the queue. The queue is emptied even if some jobs failed,
// their errors are in the results.
//
// When ctx is done, jobs those haven't started are kept in the queue
// and ctx's error is returned.
func (q *Queue) DrainAndExecuteAll(ctx context.Context, r JobRenderer) ([]*JobResult, error) {
	jobs := q.jobs.Items()
	results := make([]*JobResult, 0, len(jobs))
	started := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		started = append(started, j.ID)
		res, err := r.Render(ctx, j)
		if res == nil {
			res = &JobResult{Job: j}
		}
		res.Err = err
		results = append(results, res)
	}
	for range started {
		q.jobs.Pop()
	}
	err := q.svc.ClearQueue(started)
	if err != nil {
		return results, fmt.Errorf("clear queue: %w", err)
	}
	return results, ctx.Err()
}

func itemFromJob(j Job) *service.QueueItem {
	return &service.QueueItem{
		ID:         j.ID,
		Scene:      j.Scene,
		Start:      j.Start,
		End:        j.End,
		OutputDir:  j.OutputDir,
		Layer:      j.Layer,
		Resolution: j.Resolution,
		Mode:       int(j.Mode),
	}
}

func jobFromItem(it *service.QueueItem) Job {
	return Job{
		ID:         it.ID,
		Scene:      it.Scene,
		Start:      it.Start,
		End:        it.End,
		OutputDir:  it.OutputDir,
		Layer:      it.Layer,
		Resolution: it.Resolution,
		Mode:       Mode(it.Mode),
	}
}
