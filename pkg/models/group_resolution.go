package models

import "time"

const (
	// ResolutionTypeInRelease marks a group resolved in a known release.
	ResolutionTypeInRelease = "in_release"
	// ResolutionTypeInNextRelease marks a group resolved in whatever release
	// ships next; the referenced release is only a lower bound.
	ResolutionTypeInNextRelease = "in_next_release"

	ResolutionStatusPending  = "pending"
	ResolutionStatusResolved = "resolved"
)

// GroupResolution records a release-scoped resolution promise. At most one
// exists per group; it is removed whenever the group becomes unresolved or
// is resolved unconditionally.
type GroupResolution struct {
	ID        int64     `db:"id"         json:"id"`
	GroupID   int64     `db:"group_id"   json:"group_id"`
	ReleaseID int64     `db:"release_id" json:"release_id"`
	Type      string    `db:"type"       json:"type"`
	Status    string    `db:"status"     json:"status"`
	ActorID   *int64    `db:"actor_id"   json:"actor_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
