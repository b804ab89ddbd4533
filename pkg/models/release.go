package models

import "time"

// Release is a deployable version within an organization. A release is
// visible to a project once it has been associated with it; the "current"
// release for a project is the most recently associated one.
type Release struct {
	ID        int64     `db:"id"         json:"id"`
	OrgID     int64     `db:"org_id"     json:"org_id"`
	Version   string    `db:"version"    json:"version"`
	DateAdded time.Time `db:"date_added" json:"date_added"`
}
