package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupShare makes a group publicly viewable. The row's existence is the
// source of truth for is_public; the UUID is the opaque share identifier
// exposed to clients.
type GroupShare struct {
	ID        int64     `db:"id"         json:"id"`
	ProjectID int64     `db:"project_id" json:"project_id"`
	GroupID   int64     `db:"group_id"   json:"group_id"`
	UUID      uuid.UUID `db:"uuid"       json:"uuid"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
