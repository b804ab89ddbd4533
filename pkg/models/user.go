package models

import "time"

// UserOption keys read by the issues engine.
const (
	UserOptionSelfAssignIssue = "self_assign_issue"
)

// User is an account that can act on groups.
type User struct {
	ID        int64     `db:"id"         json:"id"`
	Username  string    `db:"username"   json:"username"`
	Email     string    `db:"email"      json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Team is a named set of users within an organization. Teams can be
// assigned groups; every member is subscribed on assignment.
type Team struct {
	ID        int64     `db:"id"         json:"id"`
	OrgID     int64     `db:"org_id"     json:"org_id"`
	Slug      string    `db:"slug"       json:"slug"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
