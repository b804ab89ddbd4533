package models

// GroupHash is a content-addressing fingerprint that routes future event
// occurrences to a group. A hash resolves to exactly one of: a live group,
// a tombstone (future matches are dropped), or nothing (detached while a
// deletion is pending).
type GroupHash struct {
	ID          int64  `db:"id"           json:"id"`
	ProjectID   int64  `db:"project_id"   json:"project_id"`
	Hash        string `db:"hash"         json:"hash"`
	GroupID     *int64 `db:"group_id"     json:"group_id,omitempty"`
	TombstoneID *int64 `db:"tombstone_id" json:"tombstone_id,omitempty"`
}
