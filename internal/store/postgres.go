package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
	db   querier
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

// Tx runs fn against a transaction-scoped store. A store that is already
// transaction-scoped runs fn directly.
func (s *PostgresStore) Tx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&PostgresStore{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- Projects & accounts ---

func (s *PostgresStore) GetProjectBySlugs(ctx context.Context, orgSlug, projectSlug string) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx,
		`SELECT p.id, p.org_id, p.slug, p.name, p.created_at
		 FROM projects p JOIN organizations o ON o.id = p.org_id
		 WHERE o.slug = $1 AND p.slug = $2`, orgSlug, projectSlug,
	).Scan(&p.ID, &p.OrgID, &p.Slug, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project by slugs: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsernameOrEmail(ctx context.Context, query string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM users WHERE username = $1 OR email = $1`, query,
	).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username or email: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) IsOrgMember(ctx context.Context, orgID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM org_members WHERE org_id = $1 AND user_id = $2)`,
		orgID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is org member: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) GetTeam(ctx context.Context, id int64) (*models.Team, error) {
	var t models.Team
	err := s.db.QueryRow(ctx,
		`SELECT id, org_id, slug, name, created_at FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.OrgID, &t.Slug, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListTeamMemberIDs(ctx context.Context, teamID int64) ([]int64, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetUserOption returns the stored value, or "" when the option is unset.
func (s *PostgresStore) GetUserOption(ctx context.Context, userID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM user_options WHERE user_id = $1 AND key = $2`, userID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user option: %w", err)
	}
	return value, nil
}

// --- API keys ---

func (s *PostgresStore) GetAPIKeysByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, name, key_hash, key_prefix, last_used_at, deleted_at, created_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api keys by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyHash, &k.KeyPrefix,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

// --- Releases & event mappings ---

// LatestRelease returns the release most recently associated with the project.
func (s *PostgresStore) LatestRelease(ctx context.Context, projectID int64) (*models.Release, error) {
	var r models.Release
	err := s.db.QueryRow(ctx,
		`SELECT r.id, r.org_id, r.version, r.date_added
		 FROM releases r JOIN release_projects rp ON rp.release_id = r.id
		 WHERE rp.project_id = $1
		 ORDER BY rp.id DESC LIMIT 1`, projectID,
	).Scan(&r.ID, &r.OrgID, &r.Version, &r.DateAdded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest release: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) GetReleaseByVersion(ctx context.Context, projectID int64, version string) (*models.Release, error) {
	var r models.Release
	err := s.db.QueryRow(ctx,
		`SELECT r.id, r.org_id, r.version, r.date_added
		 FROM releases r JOIN release_projects rp ON rp.release_id = r.id
		 WHERE rp.project_id = $1 AND r.version = $2`, projectID, version,
	).Scan(&r.ID, &r.OrgID, &r.Version, &r.DateAdded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get release by version: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) GroupIDByEventID(ctx context.Context, projectID int64, eventID string) (int64, error) {
	var groupID int64
	err := s.db.QueryRow(ctx,
		`SELECT group_id FROM event_mappings WHERE project_id = $1 AND event_id = $2`,
		projectID, eventID,
	).Scan(&groupID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("group id by event id: %w", err)
	}
	return groupID, nil
}

// --- Groups ---

const groupColumns = `id, project_id, status, message, culprit, data, times_seen, users_seen,
	first_seen, last_seen, resolved_at, is_public, first_release_id`

func scanGroup(row pgx.Row) (*models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.ProjectID, &g.Status, &g.Message, &g.Culprit, &g.Data,
		&g.TimesSeen, &g.UsersSeen, &g.FirstSeen, &g.LastSeen, &g.ResolvedAt,
		&g.IsPublic, &g.FirstReleaseID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) GetGroup(ctx context.Context, projectID, groupID int64) (*models.Group, error) {
	g, err := scanGroup(s.db.QueryRow(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE project_id = $1 AND id = $2`,
		projectID, groupID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// GetGroupsByIDs returns the project's groups among ids, newest last_seen
// first. IDs belonging to other projects are silently dropped.
func (s *PostgresStore) GetGroupsByIDs(ctx context.Context, projectID int64, ids []int64) ([]*models.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+groupColumns+` FROM groups
		 WHERE project_id = $1 AND id = ANY($2)
		 ORDER BY last_seen DESC`, projectID, ids)
	if err != nil {
		return nil, fmt.Errorf("get groups by ids: %w", err)
	}
	defer rows.Close()
	return collectGroups(rows)
}

func (s *PostgresStore) FindGroups(ctx context.Context, filter GroupFilter) ([]*models.Group, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	add("project_id = $%d", filter.ProjectID)
	if len(filter.Statuses) > 0 {
		statuses := make([]int64, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = int64(st)
		}
		add("status = ANY($%d)", statuses)
	}
	if !filter.LastSeenFrom.IsZero() {
		add("last_seen >= $%d", filter.LastSeenFrom)
	}

	query := `SELECT ` + groupColumns + ` FROM groups WHERE ` + strings.Join(conds, " AND ")

	switch filter.Sort {
	case SortNew:
		query += " ORDER BY first_seen DESC, id DESC"
	case SortFreq:
		query += " ORDER BY times_seen DESC, id DESC"
	default:
		query += " ORDER BY last_seen DESC, id DESC"
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	defer rows.Close()
	return collectGroups(rows)
}

func collectGroups(rows pgx.Rows) ([]*models.Group, error) {
	var groups []*models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *PostgresStore) UpdateGroup(ctx context.Context, g *models.Group) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE groups SET status = $2, message = $3, culprit = $4, data = $5,
		   times_seen = $6, users_seen = $7, first_seen = $8, last_seen = $9,
		   resolved_at = $10, is_public = $11, first_release_id = $12
		 WHERE id = $1`,
		g.ID, g.Status, g.Message, g.Culprit, g.Data, g.TimesSeen, g.UsersSeen,
		g.FirstSeen, g.LastSeen, g.ResolvedAt, g.IsPublic, g.FirstReleaseID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteGroup(ctx context.Context, groupID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// --- Hashes & tombstones ---

func (s *PostgresStore) GetGroupHashes(ctx context.Context, groupID int64) ([]*models.GroupHash, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, project_id, hash, group_id, tombstone_id
		 FROM group_hashes WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group hashes: %w", err)
	}
	defer rows.Close()

	var hashes []*models.GroupHash
	for rows.Next() {
		var h models.GroupHash
		if err := rows.Scan(&h.ID, &h.ProjectID, &h.Hash, &h.GroupID, &h.TombstoneID); err != nil {
			return nil, fmt.Errorf("scan group hash: %w", err)
		}
		hashes = append(hashes, &h)
	}
	return hashes, rows.Err()
}

func (s *PostgresStore) DeleteGroupHashes(ctx context.Context, groupID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM group_hashes WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group hashes: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateGroupTombstone(ctx context.Context, t *models.GroupTombstone) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO group_tombstones (project_id, message, culprit, data, actor_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		t.ProjectID, t.Message, t.Culprit, t.Data, t.ActorID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create group tombstone: %w", err)
	}
	return nil
}

// ReassignGroupHashes rebinds every hash of the group onto a tombstone so
// future matching events are dropped.
func (s *PostgresStore) ReassignGroupHashes(ctx context.Context, groupID, tombstoneID int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE group_hashes SET group_id = NULL, tombstone_id = $2 WHERE group_id = $1`,
		groupID, tombstoneID)
	if err != nil {
		return fmt.Errorf("reassign group hashes: %w", err)
	}
	return nil
}

// --- Resolutions & snoozes ---

func (s *PostgresStore) UpsertGroupResolution(ctx context.Context, r *models.GroupResolution) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO group_resolutions (group_id, release_id, type, status, actor_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (group_id) DO UPDATE SET
		   release_id = EXCLUDED.release_id,
		   type = EXCLUDED.type,
		   status = EXCLUDED.status,
		   actor_id = EXCLUDED.actor_id,
		   created_at = EXCLUDED.created_at
		 RETURNING id, created_at`,
		r.GroupID, r.ReleaseID, r.Type, r.Status, r.ActorID,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert group resolution: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteGroupResolution(ctx context.Context, groupID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM group_resolutions WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group resolution: %w", err)
	}
	return nil
}

// ReplaceGroupSnooze overwrites any prior snooze for the group.
func (s *PostgresStore) ReplaceGroupSnooze(ctx context.Context, sn *models.GroupSnooze) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO group_snoozes (group_id, until, count, "window", user_count, user_window, state, actor_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (group_id) DO UPDATE SET
		   until = EXCLUDED.until,
		   count = EXCLUDED.count,
		   "window" = EXCLUDED."window",
		   user_count = EXCLUDED.user_count,
		   user_window = EXCLUDED.user_window,
		   state = EXCLUDED.state,
		   actor_id = EXCLUDED.actor_id,
		   created_at = EXCLUDED.created_at
		 RETURNING id, created_at`,
		sn.GroupID, sn.Until, sn.Count, sn.Window, sn.UserCount, sn.UserWindow, sn.State, sn.ActorID,
	).Scan(&sn.ID, &sn.CreatedAt)
	if err != nil {
		return fmt.Errorf("replace group snooze: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteGroupSnooze(ctx context.Context, groupID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM group_snoozes WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group snooze: %w", err)
	}
	return nil
}

// --- Assignees ---

func (s *PostgresStore) GetGroupAssignee(ctx context.Context, groupID int64) (*models.GroupAssignee, error) {
	var (
		a      models.GroupAssignee
		userID *int64
		teamID *int64
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, group_id, user_id, team_id, created_at
		 FROM group_assignees WHERE group_id = $1`, groupID,
	).Scan(&a.ID, &a.GroupID, &userID, &teamID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group assignee: %w", err)
	}
	switch {
	case userID != nil:
		a.Assignee = models.UserActor(*userID)
	case teamID != nil:
		a.Assignee = models.TeamActor(*teamID)
	}
	return &a, nil
}

// UpsertGroupAssignee replaces any prior assignee for the group.
func (s *PostgresStore) UpsertGroupAssignee(ctx context.Context, a *models.GroupAssignee) error {
	var userID, teamID *int64
	switch a.Assignee.Kind {
	case models.ActorUser:
		userID = &a.Assignee.ID
	case models.ActorTeam:
		teamID = &a.Assignee.ID
	default:
		return fmt.Errorf("upsert group assignee: unknown actor kind %q", a.Assignee.Kind)
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO group_assignees (group_id, user_id, team_id, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (group_id) DO UPDATE SET
		   user_id = EXCLUDED.user_id,
		   team_id = EXCLUDED.team_id,
		   created_at = EXCLUDED.created_at
		 RETURNING id, created_at`,
		a.GroupID, userID, teamID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert group assignee: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteGroupAssignee(ctx context.Context, groupID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM group_assignees WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group assignee: %w", err)
	}
	return nil
}

// --- Per-user facts ---

func (s *PostgresStore) UpsertGroupBookmark(ctx context.Context, groupID, userID int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO group_bookmarks (group_id, user_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (group_id, user_id) DO NOTHING`, groupID, userID)
	if err != nil {
		return fmt.Errorf("upsert group bookmark: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteGroupBookmark(ctx context.Context, groupID, userID int64) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM group_bookmarks WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("delete group bookmark: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertGroupSeen(ctx context.Context, groupID, userID int64) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO group_seen (group_id, user_id, last_seen) VALUES ($1, $2, NOW())
		 ON CONFLICT (group_id, user_id) DO UPDATE SET last_seen = NOW()`, groupID, userID)
	if err != nil {
		return fmt.Errorf("upsert group seen: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteGroupSeen(ctx context.Context, groupID, userID int64) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM group_seen WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("delete group seen: %w", err)
	}
	return nil
}

// UpsertGroupSubscription activates a subscription. An existing row keeps its
// original reason; only is_active is refreshed.
func (s *PostgresStore) UpsertGroupSubscription(ctx context.Context, groupID, userID int64, isActive bool, reason string) (*models.GroupSubscription, error) {
	var sub models.GroupSubscription
	err := s.db.QueryRow(ctx,
		`INSERT INTO group_subscriptions (group_id, user_id, is_active, reason, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (group_id, user_id) DO UPDATE SET is_active = EXCLUDED.is_active
		 RETURNING id, group_id, user_id, is_active, reason, created_at`,
		groupID, userID, isActive, reason,
	).Scan(&sub.ID, &sub.GroupID, &sub.UserID, &sub.IsActive, &sub.Reason, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert group subscription: %w", err)
	}
	return &sub, nil
}

func (s *PostgresStore) DeleteGroupSubscription(ctx context.Context, groupID, userID int64) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM group_subscriptions WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("delete group subscription: %w", err)
	}
	return nil
}

// --- Shares ---

// GetOrCreateGroupShare ensures exactly one share row per group and returns it.
func (s *PostgresStore) GetOrCreateGroupShare(ctx context.Context, projectID, groupID int64) (*models.GroupShare, error) {
	var share models.GroupShare
	err := s.db.QueryRow(ctx,
		`INSERT INTO group_shares (project_id, group_id, uuid, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (group_id) DO UPDATE SET group_id = EXCLUDED.group_id
		 RETURNING id, project_id, group_id, uuid, created_at`,
		projectID, groupID, uuid.New(),
	).Scan(&share.ID, &share.ProjectID, &share.GroupID, &share.UUID, &share.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create group share: %w", err)
	}
	return &share, nil
}

func (s *PostgresStore) DeleteGroupShares(ctx context.Context, groupID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM group_shares WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group shares: %w", err)
	}
	return nil
}

// --- Activity ---

func (s *PostgresStore) CreateActivity(ctx context.Context, a *models.Activity) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO activity (group_id, project_id, user_id, type, data, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		a.GroupID, a.ProjectID, a.UserID, a.Type, a.Data,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}
