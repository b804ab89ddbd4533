package models

import "time"

// GroupBookmark is a per-(group,user) bookmark fact.
type GroupBookmark struct {
	ID        int64     `db:"id"         json:"id"`
	GroupID   int64     `db:"group_id"   json:"group_id"`
	UserID    int64     `db:"user_id"    json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupSeen records that a user has viewed a group.
type GroupSeen struct {
	ID       int64     `db:"id"        json:"id"`
	GroupID  int64     `db:"group_id"  json:"group_id"`
	UserID   int64     `db:"user_id"   json:"user_id"`
	LastSeen time.Time `db:"last_seen" json:"last_seen"`
}
