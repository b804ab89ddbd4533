package issues_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// memStore is an in-memory store.Store that mirrors the Postgres semantics
// the engine relies on. Tests seed it directly through the add* helpers.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	orgs        map[int64]*models.Organization
	projects    map[int64]*models.Project
	users       map[int64]*models.User
	orgMembers  map[int64]map[int64]bool
	teams       map[int64]*models.Team
	teamMembers map[int64][]int64
	userOptions map[int64]map[string]string

	releases    map[int64][]*models.Release // keyed by project, insertion order
	eventGroups map[string]int64

	groups        map[int64]*models.Group
	hashes        map[int64]*models.GroupHash
	tombstones    map[int64]*models.GroupTombstone
	resolutions   map[int64]*models.GroupResolution
	snoozes       map[int64]*models.GroupSnooze
	assignees     map[int64]*models.GroupAssignee
	bookmarks     map[string]*models.GroupBookmark
	seen          map[string]*models.GroupSeen
	subscriptions map[string]*models.GroupSubscription
	shares        map[int64]*models.GroupShare
	activities    []*models.Activity
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		orgs:          map[int64]*models.Organization{},
		projects:      map[int64]*models.Project{},
		users:         map[int64]*models.User{},
		orgMembers:    map[int64]map[int64]bool{},
		teams:         map[int64]*models.Team{},
		teamMembers:   map[int64][]int64{},
		userOptions:   map[int64]map[string]string{},
		releases:      map[int64][]*models.Release{},
		eventGroups:   map[string]int64{},
		groups:        map[int64]*models.Group{},
		hashes:        map[int64]*models.GroupHash{},
		tombstones:    map[int64]*models.GroupTombstone{},
		resolutions:   map[int64]*models.GroupResolution{},
		snoozes:       map[int64]*models.GroupSnooze{},
		assignees:     map[int64]*models.GroupAssignee{},
		bookmarks:     map[string]*models.GroupBookmark{},
		seen:          map[string]*models.GroupSeen{},
		subscriptions: map[string]*models.GroupSubscription{},
		shares:        map[int64]*models.GroupShare{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func memberKey(groupID, userID int64) string {
	return fmt.Sprintf("%d:%d", groupID, userID)
}

// --- seeding helpers ---

func (m *memStore) addOrg(slug string) *models.Organization {
	m.mu.Lock()
	defer m.mu.Unlock()
	org := &models.Organization{ID: m.id(), Slug: slug, Name: slug}
	m.orgs[org.ID] = org
	return org
}

func (m *memStore) addProject(orgID int64, slug string) *models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Project{ID: m.id(), OrgID: orgID, Slug: slug, Name: slug}
	m.projects[p.ID] = p
	return p
}

func (m *memStore) addUser(orgID int64, username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: m.id(), Username: username, Email: username + "@example.com"}
	m.users[u.ID] = u
	if m.orgMembers[orgID] == nil {
		m.orgMembers[orgID] = map[int64]bool{}
	}
	m.orgMembers[orgID][u.ID] = true
	return u
}

func (m *memStore) addOutsideUser(username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: m.id(), Username: username, Email: username + "@example.com"}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addTeam(orgID int64, slug string, memberIDs ...int64) *models.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &models.Team{ID: m.id(), OrgID: orgID, Slug: slug, Name: slug}
	m.teams[t.ID] = t
	m.teamMembers[t.ID] = memberIDs
	return t
}

func (m *memStore) setUserOption(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userOptions[userID] == nil {
		m.userOptions[userID] = map[string]string{}
	}
	m.userOptions[userID][key] = value
}

func (m *memStore) addRelease(orgID, projectID int64, version string) *models.Release {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := &models.Release{ID: m.id(), OrgID: orgID, Version: version, DateAdded: time.Now().UTC()}
	m.releases[projectID] = append(m.releases[projectID], r)
	return r
}

func (m *memStore) addGroup(projectID int64, status models.GroupStatus, timesSeen int64, lastSeen time.Time) *models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &models.Group{
		ID:        m.id(),
		ProjectID: projectID,
		Status:    status,
		Message:   fmt.Sprintf("boom %d", m.nextID),
		Culprit:   "app.handler",
		TimesSeen: timesSeen,
		UsersSeen: timesSeen / 2,
		FirstSeen: lastSeen.Add(-time.Hour),
		LastSeen:  lastSeen,
	}
	m.groups[g.ID] = g
	return g
}

func (m *memStore) addHash(projectID, groupID int64, hash string) *models.GroupHash {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := &models.GroupHash{ID: m.id(), ProjectID: projectID, Hash: hash, GroupID: &groupID}
	m.hashes[h.ID] = h
	return h
}

func (m *memStore) addEventMapping(projectID, groupID int64, eventID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventGroups[fmt.Sprintf("%d:%s", projectID, eventID)] = groupID
}

func (m *memStore) group(id int64) *models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groups[id]
}

func (m *memStore) groupHashes(groupID int64) []*models.GroupHash {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.GroupHash
	for _, h := range m.hashes {
		if h.GroupID != nil && *h.GroupID == groupID {
			out = append(out, h)
		}
	}
	return out
}

func (m *memStore) activitiesOf(groupID int64, typ string) []*models.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Activity
	for _, a := range m.activities {
		if a.GroupID == groupID && a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func (m *memStore) subscription(groupID, userID int64) *models.GroupSubscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscriptions[memberKey(groupID, userID)]
}

// --- store.Store ---

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) Tx(ctx context.Context, fn func(store.Store) error) error {
	return fn(m)
}

func (m *memStore) GetProjectBySlugs(ctx context.Context, orgSlug, projectSlug string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		org := m.orgs[p.OrgID]
		if org != nil && org.Slug == orgSlug && p.Slug == projectSlug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByUsernameOrEmail(ctx context.Context, query string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == query || u.Email == query {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) IsOrgMember(ctx context.Context, orgID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orgMembers[orgID][userID], nil
}

func (m *memStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListTeamMemberIDs(ctx context.Context, teamID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.teamMembers[teamID]...), nil
}

func (m *memStore) GetUserOption(ctx context.Context, userID int64, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userOptions[userID][key], nil
}

func (m *memStore) GetAPIKeysByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	return nil, nil
}

func (m *memStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error { return nil }

func (m *memStore) LatestRelease(ctx context.Context, projectID int64) (*models.Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.releases[projectID]
	if len(rs) == 0 {
		return nil, store.ErrNotFound
	}
	cp := *rs[len(rs)-1]
	return &cp, nil
}

func (m *memStore) GetReleaseByVersion(ctx context.Context, projectID int64, version string) (*models.Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.releases[projectID] {
		if r.Version == version {
			cp := *r
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GroupIDByEventID(ctx context.Context, projectID int64, eventID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.eventGroups[fmt.Sprintf("%d:%s", projectID, eventID)]
	if !ok {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func (m *memStore) GetGroup(ctx context.Context, projectID, groupID int64) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok || g.ProjectID != projectID {
		return nil, store.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) GetGroupsByIDs(ctx context.Context, projectID int64, ids []int64) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Group
	for _, id := range ids {
		g, ok := m.groups[id]
		if !ok || g.ProjectID != projectID {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) FindGroups(ctx context.Context, filter store.GroupFilter) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Group
	for _, g := range m.groups {
		if g.ProjectID != filter.ProjectID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, s := range filter.Statuses {
				if g.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if !filter.LastSeenFrom.IsZero() && g.LastSeen.Before(filter.LastSeenFrom) {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch filter.Sort {
		case store.SortNew:
			if !a.FirstSeen.Equal(b.FirstSeen) {
				return a.FirstSeen.After(b.FirstSeen)
			}
		case store.SortFreq:
			if a.TimesSeen != b.TimesSeen {
				return a.TimesSeen > b.TimesSeen
			}
		default:
			if !a.LastSeen.Equal(b.LastSeen) {
				return a.LastSeen.After(b.LastSeen)
			}
		}
		return a.ID > b.ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memStore) UpdateGroup(ctx context.Context, g *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[g.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *g
	m.groups[g.ID] = &cp
	return nil
}

func (m *memStore) DeleteGroup(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, groupID)
	return nil
}

func (m *memStore) GetGroupHashes(ctx context.Context, groupID int64) ([]*models.GroupHash, error) {
	return m.groupHashes(groupID), nil
}

func (m *memStore) DeleteGroupHashes(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, h := range m.hashes {
		if h.GroupID != nil && *h.GroupID == groupID {
			delete(m.hashes, id)
		}
	}
	return nil
}

func (m *memStore) CreateGroupTombstone(ctx context.Context, t *models.GroupTombstone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now().UTC()
	cp := *t
	m.tombstones[t.ID] = &cp
	return nil
}

func (m *memStore) ReassignGroupHashes(ctx context.Context, groupID, tombstoneID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.hashes {
		if h.GroupID != nil && *h.GroupID == groupID {
			h.GroupID = nil
			tid := tombstoneID
			h.TombstoneID = &tid
		}
	}
	return nil
}

func (m *memStore) UpsertGroupResolution(ctx context.Context, r *models.GroupResolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.id()
	r.CreatedAt = time.Now().UTC()
	cp := *r
	m.resolutions[r.GroupID] = &cp
	return nil
}

func (m *memStore) DeleteGroupResolution(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resolutions, groupID)
	return nil
}

func (m *memStore) ReplaceGroupSnooze(ctx context.Context, s *models.GroupSnooze) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.id()
	s.CreatedAt = time.Now().UTC()
	cp := *s
	m.snoozes[s.GroupID] = &cp
	return nil
}

func (m *memStore) DeleteGroupSnooze(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snoozes, groupID)
	return nil
}

func (m *memStore) GetGroupAssignee(ctx context.Context, groupID int64) (*models.GroupAssignee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignees[groupID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) UpsertGroupAssignee(ctx context.Context, a *models.GroupAssignee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	a.CreatedAt = time.Now().UTC()
	cp := *a
	m.assignees[a.GroupID] = &cp
	return nil
}

func (m *memStore) DeleteGroupAssignee(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignees, groupID)
	return nil
}

func (m *memStore) UpsertGroupBookmark(ctx context.Context, groupID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey(groupID, userID)
	if _, ok := m.bookmarks[k]; !ok {
		m.bookmarks[k] = &models.GroupBookmark{ID: m.id(), GroupID: groupID, UserID: userID, CreatedAt: time.Now().UTC()}
	}
	return nil
}

func (m *memStore) DeleteGroupBookmark(ctx context.Context, groupID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookmarks, memberKey(groupID, userID))
	return nil
}

func (m *memStore) UpsertGroupSeen(ctx context.Context, groupID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey(groupID, userID)
	if s, ok := m.seen[k]; ok {
		s.LastSeen = time.Now().UTC()
		return nil
	}
	m.seen[k] = &models.GroupSeen{ID: m.id(), GroupID: groupID, UserID: userID, LastSeen: time.Now().UTC()}
	return nil
}

func (m *memStore) DeleteGroupSeen(ctx context.Context, groupID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, memberKey(groupID, userID))
	return nil
}

// UpsertGroupSubscription keeps the original reason on conflict, matching
// the ON CONFLICT clause in the Postgres store.
func (m *memStore) UpsertGroupSubscription(ctx context.Context, groupID, userID int64, isActive bool, reason string) (*models.GroupSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey(groupID, userID)
	if sub, ok := m.subscriptions[k]; ok {
		sub.IsActive = isActive
		cp := *sub
		return &cp, nil
	}
	sub := &models.GroupSubscription{
		ID:        m.id(),
		GroupID:   groupID,
		UserID:    userID,
		IsActive:  isActive,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	m.subscriptions[k] = sub
	cp := *sub
	return &cp, nil
}

func (m *memStore) DeleteGroupSubscription(ctx context.Context, groupID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, memberKey(groupID, userID))
	return nil
}

func (m *memStore) GetOrCreateGroupShare(ctx context.Context, projectID, groupID int64) (*models.GroupShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if share, ok := m.shares[groupID]; ok {
		cp := *share
		return &cp, nil
	}
	share := &models.GroupShare{
		ID:        m.id(),
		ProjectID: projectID,
		GroupID:   groupID,
		UUID:      uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	m.shares[groupID] = share
	cp := *share
	return &cp, nil
}

func (m *memStore) DeleteGroupShares(ctx context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shares, groupID)
	return nil
}

func (m *memStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.id()
	a.CreatedAt = time.Now().UTC()
	cp := *a
	m.activities = append(m.activities, &cp)
	return nil
}
