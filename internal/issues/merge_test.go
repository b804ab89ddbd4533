package issues_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rowanmoss/faultdeck/internal/issues"
	"github.com/rowanmoss/faultdeck/internal/jobs"
	"github.com/rowanmoss/faultdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_MergePicksMostSeenParent(t *testing.T) {
	f := newFixture(t, issues.Config{})
	now := time.Now().UTC()
	quiet := f.store.addGroup(f.project.ID, models.GroupStatusUnresolved, 5, now)
	parent := f.store.addGroup(f.project.ID, models.GroupStatusUnresolved, 10, now)
	tied := f.store.addGroup(f.project.ID, models.GroupStatusUnresolved, 10, now)

	res := f.update(t, issues.UpdateParams{
		IDs:   []int64{quiet.ID, parent.ID, tied.ID},
		Merge: true,
	})

	// Ties go to the lowest id.
	merge := res["merge"].(map[string]any)
	assert.Equal(t, strconv.FormatInt(parent.ID, 10), merge["parent"])
	assert.ElementsMatch(t, []string{
		strconv.FormatInt(quiet.ID, 10),
		strconv.FormatInt(tied.ID, 10),
	}, merge["children"])

	assert.Equal(t, models.GroupStatusUnresolved, f.store.group(parent.ID).Status)
	assert.Equal(t, models.GroupStatusPendingMerge, f.store.group(quiet.ID).Status)
	assert.Equal(t, models.GroupStatusPendingMerge, f.store.group(tied.ID).Status)

	enqueued := f.queue.OfKind(jobs.KindMergeGroup)
	require.Len(t, enqueued, 2)
	first := enqueued[0].Payload.(jobs.MergeGroupPayload)
	second := enqueued[1].Payload.(jobs.MergeGroupPayload)
	assert.Equal(t, parent.ID, first.ToID)
	assert.Equal(t, parent.ID, second.ToID)
	assert.ElementsMatch(t, []int64{quiet.ID, tied.ID}, []int64{first.FromID, second.FromID})
	assert.Equal(t, first.TransactionID, second.TransactionID)
}

func TestUpdate_MergeRequiresTwoGroups(t *testing.T) {
	f := newFixture(t, issues.Config{})
	g := f.store.addGroup(f.project.ID, models.GroupStatusUnresolved, 5, time.Now().UTC())

	_, err := f.engine.Update(context.Background(), issues.UpdateParams{
		Project:      f.project,
		ActingUserID: f.user.ID,
		IDs:          []int64{g.ID},
		Merge:        true,
	})
	var verr *issues.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.queue.Jobs())
}

func TestUpdate_MergeRejectsPendingMergeGroups(t *testing.T) {
	f := newFixture(t, issues.Config{})
	now := time.Now().UTC()
	g1 := f.store.addGroup(f.project.ID, models.GroupStatusUnresolved, 5, now)
	g2 := f.store.addGroup(f.project.ID, models.GroupStatusPendingMerge, 5, now)

	_, err := f.engine.Update(context.Background(), issues.UpdateParams{
		Project:      f.project,
		ActingUserID: f.user.ID,
		IDs:          []int64{g1.ID, g2.ID},
		Merge:        true,
	})
	var verr *issues.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.GroupStatusUnresolved, f.store.group(g1.ID).Status)
	assert.Empty(t, f.queue.Jobs())
}
