package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// GroupSort selects the ordering of a group listing.
type GroupSort string

const (
	SortDate GroupSort = "date" // last_seen, newest first
	SortNew  GroupSort = "new"  // first_seen, newest first
	SortFreq GroupSort = "freq" // times_seen, highest first
)

// GroupFilter narrows a group selection. Zero values mean "no constraint".
type GroupFilter struct {
	ProjectID    int64
	Statuses     []models.GroupStatus
	LastSeenFrom time.Time
	Sort         GroupSort
	Limit        int
}

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// Tx runs fn against a transaction-scoped Store, committing on nil and
	// rolling back on error. Not reentrant: fn must not call Tx again.
	Tx(ctx context.Context, fn func(Store) error) error

	GetProjectBySlugs(ctx context.Context, orgSlug, projectSlug string) (*models.Project, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, query string) (*models.User, error)
	IsOrgMember(ctx context.Context, orgID, userID int64) (bool, error)
	GetTeam(ctx context.Context, id int64) (*models.Team, error)
	ListTeamMemberIDs(ctx context.Context, teamID int64) ([]int64, error)
	GetUserOption(ctx context.Context, userID int64, key string) (string, error)

	GetAPIKeysByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error

	LatestRelease(ctx context.Context, projectID int64) (*models.Release, error)
	GetReleaseByVersion(ctx context.Context, projectID int64, version string) (*models.Release, error)
	GroupIDByEventID(ctx context.Context, projectID int64, eventID string) (int64, error)

	GetGroup(ctx context.Context, projectID, groupID int64) (*models.Group, error)
	GetGroupsByIDs(ctx context.Context, projectID int64, ids []int64) ([]*models.Group, error)
	FindGroups(ctx context.Context, filter GroupFilter) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, g *models.Group) error
	DeleteGroup(ctx context.Context, groupID int64) error

	GetGroupHashes(ctx context.Context, groupID int64) ([]*models.GroupHash, error)
	DeleteGroupHashes(ctx context.Context, groupID int64) error
	CreateGroupTombstone(ctx context.Context, t *models.GroupTombstone) error
	ReassignGroupHashes(ctx context.Context, groupID, tombstoneID int64) error

	UpsertGroupResolution(ctx context.Context, r *models.GroupResolution) error
	DeleteGroupResolution(ctx context.Context, groupID int64) error
	ReplaceGroupSnooze(ctx context.Context, s *models.GroupSnooze) error
	DeleteGroupSnooze(ctx context.Context, groupID int64) error

	GetGroupAssignee(ctx context.Context, groupID int64) (*models.GroupAssignee, error)
	UpsertGroupAssignee(ctx context.Context, a *models.GroupAssignee) error
	DeleteGroupAssignee(ctx context.Context, groupID int64) error

	UpsertGroupBookmark(ctx context.Context, groupID, userID int64) error
	DeleteGroupBookmark(ctx context.Context, groupID, userID int64) error
	UpsertGroupSeen(ctx context.Context, groupID, userID int64) error
	DeleteGroupSeen(ctx context.Context, groupID, userID int64) error
	UpsertGroupSubscription(ctx context.Context, groupID, userID int64, isActive bool, reason string) (*models.GroupSubscription, error)
	DeleteGroupSubscription(ctx context.Context, groupID, userID int64) error

	GetOrCreateGroupShare(ctx context.Context, projectID, groupID int64) (*models.GroupShare, error)
	DeleteGroupShares(ctx context.Context, groupID int64) error

	CreateActivity(ctx context.Context, a *models.Activity) error
}
