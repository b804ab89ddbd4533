package models

import (
	"time"
)

// GroupStatus is the lifecycle state of a group. The numeric values are
// stored in the database and must not be reordered.
type GroupStatus int

const (
	GroupStatusUnresolved GroupStatus = iota
	GroupStatusResolved
	GroupStatusIgnored
	GroupStatusPendingDeletion
	GroupStatusDeletionInProgress
	GroupStatusPendingMerge
)

// Label returns the API string for the status. Only the first three states
// are ever serialized; deletion/merge states are internal.
func (s GroupStatus) Label() string {
	switch s {
	case GroupStatusResolved:
		return "resolved"
	case GroupStatusIgnored:
		return "ignored"
	default:
		return "unresolved"
	}
}

// GroupStatusFromLabel parses an API status label. "muted" is a legacy
// alias for ignored.
func GroupStatusFromLabel(label string) (GroupStatus, bool) {
	switch label {
	case "unresolved":
		return GroupStatusUnresolved, true
	case "resolved":
		return GroupStatusResolved, true
	case "ignored", "muted":
		return GroupStatusIgnored, true
	}
	return 0, false
}

// Group represents a deduplicated cluster of occurrences of the same
// underlying error within a project. Groups are created by event ingestion
// (outside this service) and mutated through the issues engine.
type Group struct {
	ID             int64          `db:"id"               json:"id"`
	ProjectID      int64          `db:"project_id"       json:"project_id"`
	Status         GroupStatus    `db:"status"           json:"status"`
	Message        string         `db:"message"          json:"message"`
	Culprit        string         `db:"culprit"          json:"culprit"`
	Data           map[string]any `db:"data"             json:"data,omitempty"`
	TimesSeen      int64          `db:"times_seen"       json:"times_seen"`
	UsersSeen      int64          `db:"users_seen"       json:"users_seen"`
	FirstSeen      time.Time      `db:"first_seen"       json:"first_seen"`
	LastSeen       time.Time      `db:"last_seen"        json:"last_seen"`
	ResolvedAt     *time.Time     `db:"resolved_at"      json:"resolved_at,omitempty"`
	IsPublic       bool           `db:"is_public"        json:"is_public"`
	FirstReleaseID *int64         `db:"first_release_id" json:"first_release_id,omitempty"`
}
