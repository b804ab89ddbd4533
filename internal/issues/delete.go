package issues

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rowanmoss/faultdeck/internal/jobs"
	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// DeleteParams selects the groups to delete or discard.
type DeleteParams struct {
	Project      *models.Project
	ActingUserID int64
	IDs          []int64
	Query        string
	Status       *models.GroupStatus
}

// Delete schedules the selected groups for hard deletion. Each group is
// parked in PendingDeletion and detached from its hashes in one transaction
// before the job is enqueued: a crash between the two leaves the group
// invisible but recoverable. Groups already being deleted are skipped, so
// retrying a DELETE is harmless.
func (e *Engine) Delete(ctx context.Context, p DeleteParams) error {
	res, err := e.resolveSelection(ctx, Selection{
		ProjectID: p.Project.ID,
		IDs:       p.IDs,
		Query:     p.Query,
		Status:    p.Status,
	})
	if err != nil {
		return err
	}

	transactionID := uuid.New()
	for _, g := range res.Groups {
		if g.Status == models.GroupStatusPendingDeletion || g.Status == models.GroupStatusDeletionInProgress {
			continue
		}
		if err := e.store.Tx(ctx, func(tx store.Store) error {
			g.Status = models.GroupStatusPendingDeletion
			if err := tx.UpdateGroup(ctx, g); err != nil {
				return fmt.Errorf("update group: %w", err)
			}
			return tx.DeleteGroupHashes(ctx, g.ID)
		}); err != nil {
			return fmt.Errorf("schedule deletion of group %d: %w", g.ID, err)
		}
		if _, err := e.queue.Enqueue(ctx, jobs.KindDeleteGroup, jobs.DeleteGroupPayload{
			GroupID:       g.ID,
			ProjectID:     g.ProjectID,
			TransactionID: transactionID,
		}); err != nil {
			return fmt.Errorf("enqueue deletion of group %d: %w", g.ID, err)
		}
	}
	return nil
}

// Discard tombstones the selected groups: an immutable snapshot is written,
// the hashes are rebound to it so future matching events are dropped
// silently, and the group row is removed in the same transaction.
func (e *Engine) Discard(ctx context.Context, p DeleteParams) error {
	if !e.cfg.DiscardGroups {
		return &PermissionError{Message: "discarding groups is not enabled"}
	}

	res, err := e.resolveSelection(ctx, Selection{
		ProjectID: p.Project.ID,
		IDs:       p.IDs,
		Query:     p.Query,
		Status:    p.Status,
	})
	if err != nil {
		return err
	}

	actorID := p.ActingUserID
	for _, g := range res.Groups {
		if err := e.store.Tx(ctx, func(tx store.Store) error {
			tombstone := &models.GroupTombstone{
				ProjectID: g.ProjectID,
				Message:   g.Message,
				Culprit:   g.Culprit,
				Data:      g.Data,
				ActorID:   &actorID,
			}
			if err := tx.CreateGroupTombstone(ctx, tombstone); err != nil {
				return fmt.Errorf("create tombstone: %w", err)
			}
			if err := tx.ReassignGroupHashes(ctx, g.ID, tombstone.ID); err != nil {
				return fmt.Errorf("rebind hashes: %w", err)
			}
			return tx.DeleteGroup(ctx, g.ID)
		}); err != nil {
			return fmt.Errorf("discard group %d: %w", g.ID, err)
		}
	}
	return nil
}
