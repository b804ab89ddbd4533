package issues

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

var eventIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// Selection names the groups a request operates on. Explicit IDs win over
// the query; the optional Status narrows either. A zero Limit means
// unbounded, which is what mutations use.
type Selection struct {
	ProjectID int64
	IDs       []int64
	Query     string
	Status    *models.GroupStatus
	Sort      store.GroupSort
	Limit     int
}

// ListResult is a resolved selection. MatchingEventID is set when the query
// was an event ID lookup that hit, so the handler can surface the direct hit.
type ListResult struct {
	Groups          []*models.Group
	MatchingEventID string
}

// List resolves a selection for the listing endpoint: the query defaults to
// is:unresolved and the result is capped at the page size.
func (e *Engine) List(ctx context.Context, sel Selection) (*ListResult, error) {
	if len(sel.IDs) == 0 && strings.TrimSpace(sel.Query) == "" {
		sel.Query = "is:unresolved"
	}
	if sel.Limit <= 0 || sel.Limit > e.cfg.PageSize {
		sel.Limit = e.cfg.PageSize
	}
	return e.resolveSelection(ctx, sel)
}

// resolveSelection turns a Selection into concrete groups. Query-based
// selection never sees groups parked in deletion or merge states; explicit
// IDs do, so the mutation paths can be idempotent about them.
func (e *Engine) resolveSelection(ctx context.Context, sel Selection) (*ListResult, error) {
	if sel.Sort == "" {
		sel.Sort = store.SortDate
	}

	if len(sel.IDs) > 0 {
		groups, err := e.store.GetGroupsByIDs(ctx, sel.ProjectID, sel.IDs)
		if err != nil {
			return nil, fmt.Errorf("load groups by id: %w", err)
		}
		if sel.Status != nil {
			kept := make([]*models.Group, 0, len(groups))
			for _, g := range groups {
				if g.Status == *sel.Status {
					kept = append(kept, g)
				}
			}
			groups = kept
		}
		if sel.Limit > 0 && len(groups) > sel.Limit {
			groups = groups[:sel.Limit]
		}
		return &ListResult{Groups: groups}, nil
	}

	query := strings.TrimSpace(sel.Query)
	if eventIDPattern.MatchString(query) {
		return e.lookupByEventID(ctx, sel.ProjectID, strings.ToLower(query))
	}

	statuses, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		if sel.Status != nil {
			statuses = []models.GroupStatus{*sel.Status}
		} else {
			statuses = []models.GroupStatus{
				models.GroupStatusUnresolved,
				models.GroupStatusResolved,
				models.GroupStatusIgnored,
			}
		}
	}

	groups, err := e.store.FindGroups(ctx, store.GroupFilter{
		ProjectID:    sel.ProjectID,
		Statuses:     statuses,
		LastSeenFrom: e.retentionCutoff(time.Now().UTC()),
		Sort:         sel.Sort,
		Limit:        sel.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	return &ListResult{Groups: groups}, nil
}

// parseQuery evaluates the supported subset of the search syntax: whitespace
// separated is:<status> terms. Returns nil statuses for an empty query so
// the caller can fall back to its own default.
func parseQuery(query string) ([]models.GroupStatus, error) {
	if query == "" {
		return nil, nil
	}
	var statuses []models.GroupStatus
	for _, term := range strings.Fields(query) {
		value, ok := strings.CutPrefix(term, "is:")
		if !ok {
			return nil, validationErrorf("query", "unsupported search term %q", term)
		}
		status, ok := models.GroupStatusFromLabel(value)
		if !ok {
			return nil, validationErrorf("query", "unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// lookupByEventID maps an event ID straight to its group, bypassing status
// and retention filters. A miss is an empty result, not an error.
func (e *Engine) lookupByEventID(ctx context.Context, projectID int64, eventID string) (*ListResult, error) {
	groupID, err := e.store.GroupIDByEventID(ctx, projectID, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return &ListResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup event %s: %w", eventID, err)
	}
	group, err := e.store.GetGroup(ctx, projectID, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return &ListResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load group %d: %w", groupID, err)
	}
	return &ListResult{
		Groups:          []*models.Group{group},
		MatchingEventID: eventID,
	}, nil
}
