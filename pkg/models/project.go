package models

import "time"

// Organization is the top-level tenant. Users are members of organizations;
// assignment targets must belong to the group's organization.
type Organization struct {
	ID        int64     `db:"id"         json:"id"`
	Slug      string    `db:"slug"       json:"slug"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Project owns groups. Issue routes are scoped by (org slug, project slug).
type Project struct {
	ID        int64     `db:"id"         json:"id"`
	OrgID     int64     `db:"org_id"     json:"org_id"`
	Slug      string    `db:"slug"       json:"slug"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
