// Package jobs provides the fire-and-forget background job queue used by the
// merge and deletion coordinators. Execution of the jobs is an external
// worker's responsibility; the engine only enqueues.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job kinds emitted by the issues engine.
const (
	KindMergeGroup  = "merge_group"
	KindDeleteGroup = "delete_group"
)

// MergeGroupPayload asks the worker to fold one group into another. Jobs
// from the same merge request share a TransactionID so the worker can group
// them into one audit trail.
type MergeGroupPayload struct {
	FromID        int64     `json:"from_id"`
	ToID          int64     `json:"to_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// DeleteGroupPayload asks the worker to hard-delete a group and every row
// that references it. Carrying both IDs keeps a replayed job idempotent.
type DeleteGroupPayload struct {
	GroupID       int64     `json:"group_id"`
	ProjectID     int64     `json:"project_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// Queue is the background job queue interface.
type Queue interface {
	Enqueue(ctx context.Context, kind string, payload any) (uuid.UUID, error)
}

type envelope struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Payload    any       `json:"payload"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// QueueKey is the Redis list a job kind is pushed onto.
func QueueKey(kind string) string {
	return "jobs:" + kind
}

// RedisQueue implements Queue on a Redis list per job kind.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a RedisQueue from a Redis URL.
func NewRedisQueue(redisURL string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisQueue{client: redis.NewClient(opts)}, nil
}

func (q *RedisQueue) Enqueue(ctx context.Context, kind string, payload any) (uuid.UUID, error) {
	id := uuid.New()
	body, err := json.Marshal(envelope{
		ID:         id,
		Kind:       kind,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, QueueKey(kind), body).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("enqueue job: %w", err)
	}
	return id, nil
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
