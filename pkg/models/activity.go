package models

import "time"

// Activity types written by the issues engine.
const (
	ActivitySetResolved          = "set_resolved"
	ActivitySetResolvedInRelease = "set_resolved_in_release"
	ActivitySetUnresolved        = "set_unresolved"
	ActivitySetIgnored           = "set_ignored"
	ActivityAssigned             = "assigned"
	ActivityUnassigned           = "unassigned"
)

// Activity is an append-only audit record of a meaningful group transition.
// Rows are never mutated or deleted by the engine.
type Activity struct {
	ID        int64          `db:"id"         json:"id"`
	GroupID   int64          `db:"group_id"   json:"group_id"`
	ProjectID int64          `db:"project_id" json:"project_id"`
	UserID    *int64         `db:"user_id"    json:"user_id,omitempty"`
	Type      string         `db:"type"       json:"type"`
	Data      map[string]any `db:"data"       json:"data,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
