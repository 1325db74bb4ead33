// Package profile persists user profile records: locally stored user metadata
// distinct from the directory's own account record. For a given email there
// is at most one record, enforced by a unique index. The stored account id is
// a cached copy of the directory's authoritative identifier and may lag
// behind it; the auth flow re-derives and self-heals it on every
// verification.
package profile

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultAvatar is assigned to records created by the sign-up flow.
const DefaultAvatar = "/assets/avatar-placeholder.png"

// RecordID identifies a profile record. Aliased so consumers of the store
// interface do not need to import the bson package directly.
type RecordID = bson.ObjectID

// Record is a persisted user profile.
type Record struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string        `bson:"fullName" json:"fullName"`
	Email     string        `bson:"email" json:"email"`
	Avatar    string        `bson:"avatar" json:"avatar"`
	AccountID string        `bson:"accountId" json:"accountId"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
