package models

import "time"

// GroupAssignee records who owns a group. At most one exists per group;
// assigning replaces any prior assignee rather than adding to it.
type GroupAssignee struct {
	ID        int64     `db:"id"         json:"id"`
	GroupID   int64     `db:"group_id"   json:"group_id"`
	Assignee  Actor     `db:"-"          json:"assignee"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
