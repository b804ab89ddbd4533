package models

import "time"

// Subscription reasons, serialized in subscriptionDetails.
const (
	SubscriptionReasonUnknown    = "unknown"
	SubscriptionReasonResolved   = "resolved"
	SubscriptionReasonUnresolved = "unresolved"
	SubscriptionReasonBookmark   = "bookmark"
	SubscriptionReasonAssigned   = "assigned"
)

// GroupSubscription is a per-(group,user) notification subscription.
type GroupSubscription struct {
	ID        int64     `db:"id"         json:"id"`
	GroupID   int64     `db:"group_id"   json:"group_id"`
	UserID    int64     `db:"user_id"    json:"user_id"`
	IsActive  bool      `db:"is_active"  json:"is_active"`
	Reason    string    `db:"reason"     json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
