package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// RecordedJob is one enqueued job as seen by a MemoryQueue.
type RecordedJob struct {
	ID      uuid.UUID
	Kind    string
	Payload any
}

// MemoryQueue records enqueued jobs in memory. Tests substitute it for the
// Redis queue to observe what the coordinators scheduled.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs []RecordedJob
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Enqueue(_ context.Context, kind string, payload any) (uuid.UUID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job := RecordedJob{ID: uuid.New(), Kind: kind, Payload: payload}
	q.jobs = append(q.jobs, job)
	return job.ID, nil
}

// Jobs returns a copy of everything enqueued so far.
func (q *MemoryQueue) Jobs() []RecordedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]RecordedJob, len(q.jobs))
	copy(out, q.jobs)
	return out
}

// OfKind returns the enqueued jobs of one kind, in order.
func (q *MemoryQueue) OfKind(kind string) []RecordedJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []RecordedJob
	for _, j := range q.jobs {
		if j.Kind == kind {
			out = append(out, j)
		}
	}
	return out
}
