package models

import "time"

// GroupTombstone is an immutable snapshot of a discarded group. Hashes that
// pointed at the group are rebound to the tombstone so future matching
// events are dropped silently.
type GroupTombstone struct {
	ID        int64          `db:"id"         json:"id"`
	ProjectID int64          `db:"project_id" json:"project_id"`
	Message   string         `db:"message"    json:"message"`
	Culprit   string         `db:"culprit"    json:"culprit"`
	Data      map[string]any `db:"data"       json:"data,omitempty"`
	ActorID   *int64         `db:"actor_id"   json:"actor_id,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
