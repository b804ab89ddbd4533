package models

// EventMapping maps an opaque 32-hex event identifier to the group that owns
// it, letting clients look an issue up by a single event ID.
type EventMapping struct {
	ID        int64  `db:"id"         json:"id"`
	ProjectID int64  `db:"project_id" json:"project_id"`
	EventID   string `db:"event_id"   json:"event_id"`
	GroupID   int64  `db:"group_id"   json:"group_id"`
}
