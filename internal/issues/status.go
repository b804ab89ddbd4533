package issues

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// ReleaseLatest resolves to the most recent release associated with the
// project when used as StatusUpdate.InRelease.
const ReleaseLatest = "latest"

// StatusUpdate is a normalized status intent. Legacy request spellings
// (resolvedInNextRelease, flat ignore parameters) are folded into this shape
// at the parse boundary, so the engine only ever sees one form.
type StatusUpdate struct {
	Status models.GroupStatus

	// Resolved variants. InRelease is a version string or ReleaseLatest;
	// InNextRelease promises resolution in whatever ships next.
	InRelease     string
	InNextRelease bool

	// Ignored variants. Duration is minutes until the snooze lifts; the
	// count/window pairs lift it on occurrence thresholds instead.
	IgnoreDuration   int64
	IgnoreCount      *int64
	IgnoreWindow     *int64
	IgnoreUserCount  *int64
	IgnoreUserWindow *int64
}

func (su *StatusUpdate) snoozed() bool {
	return su.IgnoreDuration > 0 || su.IgnoreCount != nil || su.IgnoreUserCount != nil
}

// resolveReleaseTarget maps a release-scoped resolve intent to a concrete
// release row. Both "latest" and "next release" require the project to have
// at least one release already.
func (e *Engine) resolveReleaseTarget(ctx context.Context, projectID int64, su *StatusUpdate) (*models.Release, error) {
	if su.Status != models.GroupStatusResolved {
		return nil, nil
	}
	switch {
	case su.InNextRelease:
		release, err := e.store.LatestRelease(ctx, projectID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationErrorf("status", "cannot resolve in next release: project has no releases")
		}
		if err != nil {
			return nil, fmt.Errorf("load latest release: %w", err)
		}
		return release, nil
	case su.InRelease == ReleaseLatest:
		release, err := e.store.LatestRelease(ctx, projectID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationErrorf("status", "cannot resolve in latest release: project has no releases")
		}
		if err != nil {
			return nil, fmt.Errorf("load latest release: %w", err)
		}
		return release, nil
	case su.InRelease != "":
		release, err := e.store.GetReleaseByVersion(ctx, projectID, su.InRelease)
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationErrorf("status", "unknown release %q", su.InRelease)
		}
		if err != nil {
			return nil, fmt.Errorf("load release %q: %w", su.InRelease, err)
		}
		return release, nil
	}
	return nil, nil
}

// applyStatusUpdate transitions a single group inside one transaction, so
// the status row and its resolution/snooze side tables move together. It
// reports whether the acting user was self-assigned as part of the resolve.
func (e *Engine) applyStatusUpdate(ctx context.Context, g *models.Group, actingUser *models.User, su *StatusUpdate, release *models.Release, now time.Time) (bool, error) {
	selfAssigned := false
	err := e.store.Tx(ctx, func(tx store.Store) error {
		switch su.Status {
		case models.GroupStatusResolved:
			var err error
			selfAssigned, err = e.resolveGroup(ctx, tx, g, actingUser, su, release, now)
			return err
		case models.GroupStatusIgnored:
			return ignoreGroup(ctx, tx, g, actingUser, su, now)
		case models.GroupStatusUnresolved:
			return unresolveGroup(ctx, tx, g, actingUser)
		default:
			return validationErrorf("status", "invalid target status")
		}
	})
	if err != nil {
		return false, fmt.Errorf("update status of group %d: %w", g.ID, err)
	}
	return selfAssigned, nil
}

func (e *Engine) resolveGroup(ctx context.Context, tx store.Store, g *models.Group, actingUser *models.User, su *StatusUpdate, release *models.Release, now time.Time) (bool, error) {
	actorID := actingUser.ID

	if release != nil {
		resolution := &models.GroupResolution{
			GroupID:   g.ID,
			ReleaseID: release.ID,
			Type:      models.ResolutionTypeInRelease,
			Status:    models.ResolutionStatusResolved,
			ActorID:   &actorID,
		}
		// An in-release activity records the version the fix shipped in; an
		// empty version means "the next release, whichever that is".
		version := release.Version
		if su.InNextRelease {
			resolution.Type = models.ResolutionTypeInNextRelease
			resolution.Status = models.ResolutionStatusPending
			version = ""
		}
		if err := tx.UpsertGroupResolution(ctx, resolution); err != nil {
			return false, fmt.Errorf("upsert resolution: %w", err)
		}
		if err := tx.CreateActivity(ctx, &models.Activity{
			GroupID:   g.ID,
			ProjectID: g.ProjectID,
			UserID:    &actorID,
			Type:      models.ActivitySetResolvedInRelease,
			Data:      map[string]any{"version": version},
		}); err != nil {
			return false, fmt.Errorf("record activity: %w", err)
		}
	} else if err := tx.DeleteGroupResolution(ctx, g.ID); err != nil {
		return false, fmt.Errorf("clear resolution: %w", err)
	}

	if err := tx.DeleteGroupSnooze(ctx, g.ID); err != nil {
		return false, fmt.Errorf("clear snooze: %w", err)
	}

	// Re-resolving keeps the original resolved_at and adds no subscription.
	if g.Status == models.GroupStatusResolved {
		return false, nil
	}

	g.Status = models.GroupStatusResolved
	g.ResolvedAt = &now
	if err := tx.UpdateGroup(ctx, g); err != nil {
		return false, fmt.Errorf("update group: %w", err)
	}
	if release == nil {
		if err := tx.CreateActivity(ctx, &models.Activity{
			GroupID:   g.ID,
			ProjectID: g.ProjectID,
			UserID:    &actorID,
			Type:      models.ActivitySetResolved,
		}); err != nil {
			return false, fmt.Errorf("record activity: %w", err)
		}
	}
	if _, err := tx.UpsertGroupSubscription(ctx, g.ID, actorID, true, models.SubscriptionReasonResolved); err != nil {
		return false, fmt.Errorf("subscribe resolver: %w", err)
	}

	selfAssigned, err := e.maybeSelfAssign(ctx, tx, g, actingUser)
	if err != nil {
		return false, err
	}
	return selfAssigned, nil
}

// maybeSelfAssign assigns the resolving user to the group when they opted
// in and nobody owns it yet.
func (e *Engine) maybeSelfAssign(ctx context.Context, tx store.Store, g *models.Group, actingUser *models.User) (bool, error) {
	opt, err := tx.GetUserOption(ctx, actingUser.ID, models.UserOptionSelfAssignIssue)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load self-assign option: %w", err)
	}
	if opt != "1" {
		return false, nil
	}
	_, err = tx.GetGroupAssignee(ctx, g.ID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("load assignee: %w", err)
	}
	if err := assignGroup(ctx, tx, g, models.UserActor(actingUser.ID), actingUser.ID); err != nil {
		return false, err
	}
	return true, nil
}

func ignoreGroup(ctx context.Context, tx store.Store, g *models.Group, actingUser *models.User, su *StatusUpdate, now time.Time) error {
	actorID := actingUser.ID

	if err := tx.DeleteGroupSnooze(ctx, g.ID); err != nil {
		return fmt.Errorf("clear snooze: %w", err)
	}
	if su.snoozed() {
		snooze := &models.GroupSnooze{
			GroupID:    g.ID,
			Count:      su.IgnoreCount,
			Window:     su.IgnoreWindow,
			UserCount:  su.IgnoreUserCount,
			UserWindow: su.IgnoreUserWindow,
			ActorID:    &actorID,
		}
		if su.IgnoreDuration > 0 {
			until := now.Add(time.Duration(su.IgnoreDuration) * time.Minute)
			snooze.Until = &until
		}
		// Counter thresholds are deltas, so snapshot the counters the
		// snooze started from.
		if su.IgnoreCount != nil || su.IgnoreUserCount != nil {
			snooze.State = map[string]int64{
				"times_seen": g.TimesSeen,
				"users_seen": g.UsersSeen,
			}
		}
		if err := tx.ReplaceGroupSnooze(ctx, snooze); err != nil {
			return fmt.Errorf("replace snooze: %w", err)
		}
	}

	statusChanged := g.Status != models.GroupStatusIgnored
	if statusChanged {
		g.Status = models.GroupStatusIgnored
		if err := tx.UpdateGroup(ctx, g); err != nil {
			return fmt.Errorf("update group: %w", err)
		}
		if _, err := tx.UpsertGroupSubscription(ctx, g.ID, actorID, true, models.SubscriptionReasonUnknown); err != nil {
			return fmt.Errorf("subscribe ignorer: %w", err)
		}
	}
	if statusChanged || su.snoozed() {
		if err := tx.CreateActivity(ctx, &models.Activity{
			GroupID:   g.ID,
			ProjectID: g.ProjectID,
			UserID:    &actorID,
			Type:      models.ActivitySetIgnored,
			Data:      ignoreActivityData(su, now),
		}); err != nil {
			return fmt.Errorf("record activity: %w", err)
		}
	}
	return nil
}

func ignoreActivityData(su *StatusUpdate, now time.Time) map[string]any {
	if !su.snoozed() {
		return nil
	}
	data := map[string]any{}
	if su.IgnoreDuration > 0 {
		data["ignoreDuration"] = su.IgnoreDuration
		data["ignoreUntil"] = now.Add(time.Duration(su.IgnoreDuration) * time.Minute)
	}
	if su.IgnoreCount != nil {
		data["ignoreCount"] = *su.IgnoreCount
	}
	if su.IgnoreWindow != nil {
		data["ignoreWindow"] = *su.IgnoreWindow
	}
	if su.IgnoreUserCount != nil {
		data["ignoreUserCount"] = *su.IgnoreUserCount
	}
	if su.IgnoreUserWindow != nil {
		data["ignoreUserWindow"] = *su.IgnoreUserWindow
	}
	return data
}

// unresolveGroup clears every resolution artifact even when the group is
// already unresolved, so a stale snooze or release promise cannot survive.
func unresolveGroup(ctx context.Context, tx store.Store, g *models.Group, actingUser *models.User) error {
	if err := tx.DeleteGroupResolution(ctx, g.ID); err != nil {
		return fmt.Errorf("clear resolution: %w", err)
	}
	if err := tx.DeleteGroupSnooze(ctx, g.ID); err != nil {
		return fmt.Errorf("clear snooze: %w", err)
	}
	if g.Status == models.GroupStatusUnresolved {
		return nil
	}

	actorID := actingUser.ID
	g.Status = models.GroupStatusUnresolved
	g.ResolvedAt = nil
	if err := tx.UpdateGroup(ctx, g); err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if err := tx.CreateActivity(ctx, &models.Activity{
		GroupID:   g.ID,
		ProjectID: g.ProjectID,
		UserID:    &actorID,
		Type:      models.ActivitySetUnresolved,
	}); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	if _, err := tx.UpsertGroupSubscription(ctx, g.ID, actorID, true, models.SubscriptionReasonUnresolved); err != nil {
		return fmt.Errorf("subscribe unresolver: %w", err)
	}
	return nil
}

// assignGroup replaces the group's assignee and subscribes whoever now owns
// it: the user, or every member of the team.
func assignGroup(ctx context.Context, s store.Store, g *models.Group, target models.Actor, actingUserID int64) error {
	if err := s.UpsertGroupAssignee(ctx, &models.GroupAssignee{GroupID: g.ID, Assignee: target}); err != nil {
		return fmt.Errorf("assign group: %w", err)
	}
	switch target.Kind {
	case models.ActorUser:
		if _, err := s.UpsertGroupSubscription(ctx, g.ID, target.ID, true, models.SubscriptionReasonAssigned); err != nil {
			return fmt.Errorf("subscribe assignee: %w", err)
		}
	case models.ActorTeam:
		memberIDs, err := s.ListTeamMemberIDs(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("list team members: %w", err)
		}
		for _, uid := range memberIDs {
			if _, err := s.UpsertGroupSubscription(ctx, g.ID, uid, true, models.SubscriptionReasonAssigned); err != nil {
				return fmt.Errorf("subscribe team member %d: %w", uid, err)
			}
		}
	}
	return s.CreateActivity(ctx, &models.Activity{
		GroupID:   g.ID,
		ProjectID: g.ProjectID,
		UserID:    &actingUserID,
		Type:      models.ActivityAssigned,
		Data:      map[string]any{"assignee": target.String()},
	})
}

// statusDetailsFor builds the statusDetails response fragment. Only fields
// that apply to the applied variant are present.
func statusDetailsFor(su *StatusUpdate, release *models.Release, actingUser *models.User, now time.Time) map[string]any {
	details := map[string]any{}
	switch su.Status {
	case models.GroupStatusResolved:
		if release == nil {
			break
		}
		if su.InNextRelease {
			details["inNextRelease"] = true
		} else {
			details["inRelease"] = release.Version
		}
		details["actor"] = serializeUserRef(actingUser)
	case models.GroupStatusIgnored:
		if su.IgnoreDuration > 0 {
			details["ignoreUntil"] = now.Add(time.Duration(su.IgnoreDuration) * time.Minute)
		}
		if su.IgnoreCount != nil {
			details["ignoreCount"] = *su.IgnoreCount
		}
		if su.IgnoreWindow != nil {
			details["ignoreWindow"] = *su.IgnoreWindow
		}
		if su.IgnoreUserCount != nil {
			details["ignoreUserCount"] = *su.IgnoreUserCount
		}
		if su.IgnoreUserWindow != nil {
			details["ignoreUserWindow"] = *su.IgnoreUserWindow
		}
		if len(details) > 0 {
			details["actor"] = serializeUserRef(actingUser)
		}
	}
	return details
}

func serializeUserRef(u *models.User) map[string]any {
	return map[string]any{
		"id":       strconv.FormatInt(u.ID, 10),
		"username": u.Username,
		"email":    u.Email,
	}
}
