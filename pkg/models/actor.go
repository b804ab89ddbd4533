package models

import "fmt"

// ActorKind discriminates the assignee variant.
type ActorKind string

const (
	ActorUser ActorKind = "user"
	ActorTeam ActorKind = "team"
)

// Actor is a tagged user-or-team reference. Exactly one variant is set,
// enforced at construction.
type Actor struct {
	Kind ActorKind `json:"type"`
	ID   int64     `json:"id,string"`
}

func UserActor(id int64) Actor { return Actor{Kind: ActorUser, ID: id} }
func TeamActor(id int64) Actor { return Actor{Kind: ActorTeam, ID: id} }

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Kind, a.ID)
}
