package models

import "time"

// GroupSnooze bounds a group's ignored state by time or by occurrence
// thresholds. At most one exists per group. State snapshots the counters at
// creation time so an external consumer can compare deltas against the
// configured thresholds.
type GroupSnooze struct {
	ID         int64            `db:"id"          json:"id"`
	GroupID    int64            `db:"group_id"    json:"group_id"`
	Until      *time.Time       `db:"until"       json:"until,omitempty"`
	Count      *int64           `db:"count"       json:"count,omitempty"`
	Window     *int64           `db:"window"      json:"window,omitempty"`
	UserCount  *int64           `db:"user_count"  json:"user_count,omitempty"`
	UserWindow *int64           `db:"user_window" json:"user_window,omitempty"`
	State      map[string]int64 `db:"state"       json:"state,omitempty"`
	ActorID    *int64           `db:"actor_id"    json:"actor_id,omitempty"`
	CreatedAt  time.Time        `db:"created_at"  json:"created_at"`
}
