package jobs_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rowanmoss/faultdeck/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueKey(t *testing.T) {
	assert.Equal(t, "jobs:merge_group", jobs.QueueKey(jobs.KindMergeGroup))
	assert.Equal(t, "jobs:delete_group", jobs.QueueKey(jobs.KindDeleteGroup))
}

func TestMemoryQueue_RecordsInOrder(t *testing.T) {
	q := jobs.NewMemoryQueue()
	ctx := context.Background()

	tx := uuid.New()
	id1, err := q.Enqueue(ctx, jobs.KindMergeGroup, jobs.MergeGroupPayload{FromID: 1, ToID: 2, TransactionID: tx})
	require.NoError(t, err)
	id2, err := q.Enqueue(ctx, jobs.KindDeleteGroup, jobs.DeleteGroupPayload{GroupID: 3, ProjectID: 7, TransactionID: tx})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)

	all := q.Jobs()
	require.Len(t, all, 2)
	assert.Equal(t, jobs.KindMergeGroup, all[0].Kind)
	assert.Equal(t, jobs.KindDeleteGroup, all[1].Kind)

	merges := q.OfKind(jobs.KindMergeGroup)
	require.Len(t, merges, 1)
	payload, ok := merges[0].Payload.(jobs.MergeGroupPayload)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload.FromID)
	assert.Equal(t, int64(2), payload.ToID)
	assert.Equal(t, tx, payload.TransactionID)
}

func TestMemoryQueue_OfKindEmpty(t *testing.T) {
	q := jobs.NewMemoryQueue()
	assert.Empty(t, q.OfKind(jobs.KindMergeGroup))
}
