package issues

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// UpdateParams is one bulk mutation request. Pointer fields are intents:
// nil means the request did not mention them.
type UpdateParams struct {
	Project      *models.Project
	ActingUserID int64

	// Selection.
	IDs    []int64
	Query  string
	Status *models.GroupStatus

	// Intents.
	StatusUpdate *StatusUpdate
	IsBookmarked *bool
	IsSubscribed *bool
	HasSeen      *bool
	IsPublic     *bool
	AssignedTo   *string
	Merge        bool
	Discard      bool
}

func (p *UpdateParams) hasNonDiscardIntent() bool {
	return p.StatusUpdate != nil || p.IsBookmarked != nil || p.IsSubscribed != nil ||
		p.HasSeen != nil || p.IsPublic != nil || p.AssignedTo != nil || p.Merge
}

// UpdateResult is the merged response fragments of every applied intent.
// A nil result means the groups were discarded and there is nothing to
// report back.
type UpdateResult map[string]any

// Update applies every intent in the request to every selected group. All
// validation happens before the first write; after that, groups are mutated
// one at a time and an error mid-way leaves the earlier groups mutated.
func (e *Engine) Update(ctx context.Context, p UpdateParams) (UpdateResult, error) {
	if p.Discard {
		if p.hasNonDiscardIntent() {
			return nil, validationErrorf("discard", "discard cannot be combined with other mutations")
		}
		return nil, e.Discard(ctx, DeleteParams{
			Project:      p.Project,
			ActingUserID: p.ActingUserID,
			IDs:          p.IDs,
			Query:        p.Query,
			Status:       p.Status,
		})
	}

	res, err := e.resolveSelection(ctx, Selection{
		ProjectID: p.Project.ID,
		IDs:       p.IDs,
		Query:     p.Query,
		Status:    p.Status,
	})
	if err != nil {
		return nil, err
	}
	groups := res.Groups

	actingUser, err := e.store.GetUser(ctx, p.ActingUserID)
	if err != nil {
		return nil, fmt.Errorf("load acting user: %w", err)
	}

	var target *assignTarget
	if p.AssignedTo != nil && *p.AssignedTo != "" {
		if target, err = e.resolveAssignee(ctx, p.Project.OrgID, *p.AssignedTo); err != nil {
			return nil, err
		}
	}

	var release *models.Release
	if p.StatusUpdate != nil {
		if release, err = e.resolveReleaseTarget(ctx, p.Project.ID, p.StatusUpdate); err != nil {
			return nil, err
		}
	}

	if p.Merge {
		if err := validateMerge(groups); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	result := UpdateResult{}
	selfAssigned := false
	var lastSubscription *models.GroupSubscription
	var lastShareID string

	for _, g := range groups {
		if p.StatusUpdate != nil {
			assigned, err := e.applyStatusUpdate(ctx, g, actingUser, p.StatusUpdate, release, now)
			if err != nil {
				return nil, err
			}
			selfAssigned = selfAssigned || assigned
		}
		if p.IsBookmarked != nil {
			if err := e.applyBookmark(ctx, g, actingUser.ID, *p.IsBookmarked); err != nil {
				return nil, err
			}
		}
		if p.IsSubscribed != nil {
			sub, err := e.applySubscription(ctx, g, actingUser.ID, *p.IsSubscribed)
			if err != nil {
				return nil, err
			}
			if sub != nil {
				lastSubscription = sub
			}
		}
		if p.HasSeen != nil {
			if err := e.applySeen(ctx, g, actingUser.ID, *p.HasSeen); err != nil {
				return nil, err
			}
		}
		if p.IsPublic != nil {
			shareID, err := e.applyShare(ctx, g, *p.IsPublic)
			if err != nil {
				return nil, err
			}
			if shareID != "" {
				lastShareID = shareID
			}
		}
		if p.AssignedTo != nil {
			if err := e.applyAssignment(ctx, g, target, actingUser.ID); err != nil {
				return nil, err
			}
		}
	}

	if p.StatusUpdate != nil {
		result["status"] = p.StatusUpdate.Status.Label()
		result["statusDetails"] = statusDetailsFor(p.StatusUpdate, release, actingUser, now)
	}
	if p.IsBookmarked != nil {
		result["isBookmarked"] = *p.IsBookmarked
	}
	if p.IsSubscribed != nil {
		result["isSubscribed"] = *p.IsSubscribed
		if lastSubscription != nil {
			result["subscriptionDetails"] = map[string]any{"reason": lastSubscription.Reason}
		}
	}
	if p.HasSeen != nil {
		result["hasSeen"] = *p.HasSeen
	}
	if p.IsPublic != nil {
		result["isPublic"] = *p.IsPublic
		if lastShareID != "" {
			result["shareId"] = lastShareID
		}
	}
	switch {
	case p.AssignedTo != nil && target != nil:
		result["assignedTo"] = target.serialize()
	case p.AssignedTo != nil:
		result["assignedTo"] = nil
	case selfAssigned:
		result["assignedTo"] = serializeUserRef(actingUser)
	}
	if p.Merge {
		fragment, err := e.mergeGroups(ctx, groups)
		if err != nil {
			return nil, err
		}
		result["merge"] = fragment
	}
	return result, nil
}

// assignTarget is a validated assignment target.
type assignTarget struct {
	actor models.Actor
	user  *models.User
	team  *models.Team
}

func (t *assignTarget) serialize() map[string]any {
	out := map[string]any{
		"type": string(t.actor.Kind),
		"id":   strconv.FormatInt(t.actor.ID, 10),
	}
	switch t.actor.Kind {
	case models.ActorUser:
		out["name"] = t.user.Username
		out["email"] = t.user.Email
	case models.ActorTeam:
		out["name"] = t.team.Slug
	}
	return out
}

// resolveAssignee validates an assignedTo value against the organization.
// Users are referenced by username or email, teams as "team:<id>".
func (e *Engine) resolveAssignee(ctx context.Context, orgID int64, raw string) (*assignTarget, error) {
	if teamRef, ok := strings.CutPrefix(raw, "team:"); ok {
		teamID, err := strconv.ParseInt(teamRef, 10, 64)
		if err != nil {
			return nil, validationErrorf("assignedTo", "malformed team reference %q", raw)
		}
		team, err := e.store.GetTeam(ctx, teamID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationErrorf("assignedTo", "unknown team %q", raw)
		}
		if err != nil {
			return nil, fmt.Errorf("load team %d: %w", teamID, err)
		}
		if team.OrgID != orgID {
			return nil, validationErrorf("assignedTo", "unknown team %q", raw)
		}
		return &assignTarget{actor: models.TeamActor(team.ID), team: team}, nil
	}

	user, err := e.store.GetUserByUsernameOrEmail(ctx, raw)
	if errors.Is(err, store.ErrNotFound) {
		return nil, validationErrorf("assignedTo", "unknown user %q", raw)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", raw, err)
	}
	member, err := e.store.IsOrgMember(ctx, orgID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, validationErrorf("assignedTo", "user %q is not a member of this organization", raw)
	}
	return &assignTarget{actor: models.UserActor(user.ID), user: user}, nil
}

func (e *Engine) applyBookmark(ctx context.Context, g *models.Group, userID int64, bookmarked bool) error {
	if !bookmarked {
		if err := e.store.DeleteGroupBookmark(ctx, g.ID, userID); err != nil {
			return fmt.Errorf("remove bookmark on group %d: %w", g.ID, err)
		}
		return nil
	}
	return e.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.UpsertGroupBookmark(ctx, g.ID, userID); err != nil {
			return fmt.Errorf("bookmark group %d: %w", g.ID, err)
		}
		// Bookmarking implies wanting updates.
		if _, err := tx.UpsertGroupSubscription(ctx, g.ID, userID, true, models.SubscriptionReasonBookmark); err != nil {
			return fmt.Errorf("subscribe bookmarker on group %d: %w", g.ID, err)
		}
		return nil
	})
}

func (e *Engine) applySubscription(ctx context.Context, g *models.Group, userID int64, subscribed bool) (*models.GroupSubscription, error) {
	if !subscribed {
		if err := e.store.DeleteGroupSubscription(ctx, g.ID, userID); err != nil {
			return nil, fmt.Errorf("unsubscribe from group %d: %w", g.ID, err)
		}
		return nil, nil
	}
	sub, err := e.store.UpsertGroupSubscription(ctx, g.ID, userID, true, models.SubscriptionReasonUnknown)
	if err != nil {
		return nil, fmt.Errorf("subscribe to group %d: %w", g.ID, err)
	}
	return sub, nil
}

func (e *Engine) applySeen(ctx context.Context, g *models.Group, userID int64, seen bool) error {
	if seen {
		if err := e.store.UpsertGroupSeen(ctx, g.ID, userID); err != nil {
			return fmt.Errorf("mark group %d seen: %w", g.ID, err)
		}
		return nil
	}
	if err := e.store.DeleteGroupSeen(ctx, g.ID, userID); err != nil {
		return fmt.Errorf("mark group %d unseen: %w", g.ID, err)
	}
	return nil
}

// applyShare flips public sharing. The share row is the source of truth;
// the group flag is denormalized alongside it in one transaction.
func (e *Engine) applyShare(ctx context.Context, g *models.Group, public bool) (string, error) {
	var shareID string
	err := e.store.Tx(ctx, func(tx store.Store) error {
		if public {
			share, err := tx.GetOrCreateGroupShare(ctx, g.ProjectID, g.ID)
			if err != nil {
				return fmt.Errorf("create share: %w", err)
			}
			shareID = share.UUID.String()
		} else if err := tx.DeleteGroupShares(ctx, g.ID); err != nil {
			return fmt.Errorf("delete shares: %w", err)
		}
		if g.IsPublic != public {
			g.IsPublic = public
			if err := tx.UpdateGroup(ctx, g); err != nil {
				return fmt.Errorf("update group: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("share group %d: %w", g.ID, err)
	}
	return shareID, nil
}

func (e *Engine) applyAssignment(ctx context.Context, g *models.Group, target *assignTarget, actingUserID int64) error {
	if target != nil {
		return e.store.Tx(ctx, func(tx store.Store) error {
			return assignGroup(ctx, tx, g, target.actor, actingUserID)
		})
	}
	return e.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.DeleteGroupAssignee(ctx, g.ID); err != nil {
			return fmt.Errorf("unassign group %d: %w", g.ID, err)
		}
		return tx.CreateActivity(ctx, &models.Activity{
			GroupID:   g.ID,
			ProjectID: g.ProjectID,
			UserID:    &actingUserID,
			Type:      models.ActivityUnassigned,
		})
	})
}
