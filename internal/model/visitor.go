package model

import "time"

// RoleVisitor is the default role written on first identity sync.
const RoleVisitor = "visitor"

// Visitor is an identity record synced from the external identity
// provider.  It is created on first sync and its name, picture and
// LastActive are refreshed on every subsequent sync.  Visitors are never
// deleted.
//
// Role is informational and consumed only by analytics (visitor counts,
// conversion rate).  Admin access is granted by a verified capability
// token, never by this field.
type Visitor struct {
	ID         uint64    // visitors.id
	UID        string    // visitors.uid (opaque external identifier)
	Email      string    // visitors.email
	Name       string    // visitors.name
	Picture    string    // visitors.picture
	Role       string    // visitors.role
	LastActive time.Time // visitors.last_active
	CreatedAt  time.Time // visitors.created_at
}
