package issues

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rowanmoss/faultdeck/internal/jobs"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// validateMerge rejects a merge before any other intent in the request has
// written anything.
func validateMerge(groups []*models.Group) error {
	if len(groups) < 2 {
		return validationErrorf("merge", "merging requires at least two groups")
	}
	for _, g := range groups {
		if g.Status == models.GroupStatusPendingMerge {
			return validationErrorf("merge", "group %d is already part of an unfinished merge", g.ID)
		}
	}
	return nil
}

// mergeGroups folds the selection into its most-seen group (lowest id wins a
// tie). Children are parked in PendingMerge so they drop out of listings
// immediately; the actual row migration is the worker's job. Every job from
// one request shares a transaction id so the worker can treat them as one
// merge.
func (e *Engine) mergeGroups(ctx context.Context, groups []*models.Group) (map[string]any, error) {
	parent := groups[0]
	for _, g := range groups[1:] {
		if g.TimesSeen > parent.TimesSeen || (g.TimesSeen == parent.TimesSeen && g.ID < parent.ID) {
			parent = g
		}
	}

	transactionID := uuid.New()
	children := make([]string, 0, len(groups)-1)
	for _, g := range groups {
		if g.ID == parent.ID {
			continue
		}
		g.Status = models.GroupStatusPendingMerge
		if err := e.store.UpdateGroup(ctx, g); err != nil {
			return nil, fmt.Errorf("mark group %d for merge: %w", g.ID, err)
		}
		if _, err := e.queue.Enqueue(ctx, jobs.KindMergeGroup, jobs.MergeGroupPayload{
			FromID:        g.ID,
			ToID:          parent.ID,
			TransactionID: transactionID,
		}); err != nil {
			return nil, fmt.Errorf("enqueue merge of group %d: %w", g.ID, err)
		}
		children = append(children, strconv.FormatInt(g.ID, 10))
	}

	return map[string]any{
		"parent":   strconv.FormatInt(parent.ID, 10),
		"children": children,
	}, nil
}
