package models

import (
	"fmt"
	"time"
)

// FavoritableKind names an entity kind that can be favorited
type FavoritableKind string

const (
	FavoritablePost FavoritableKind = "post"
	FavoritableUser FavoritableKind = "user"
)

// Valid reports whether the kind is one the system knows about
func (k FavoritableKind) Valid() bool {
	return k == FavoritablePost || k == FavoritableUser
}

// FavoritableRef identifies the target of a favorite: an entity kind plus its id.
// It is a pure lookup key and is never stored on its own.
type FavoritableRef struct {
	Kind FavoritableKind
	ID   uint
}

// PostRef builds a reference to a post target
func PostRef(id uint) FavoritableRef {
	return FavoritableRef{Kind: FavoritablePost, ID: id}
}

// UserRef builds a reference to a user (author) target
func UserRef(id uint) FavoritableRef {
	return FavoritableRef{Kind: FavoritableUser, ID: id}
}

// Validate checks that the reference names a known kind and a concrete id
func (r FavoritableRef) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown favoritable kind %q", r.Kind)
	}
	if r.ID == 0 {
		return fmt.Errorf("favoritable id must be set")
	}
	return nil
}

func (r FavoritableRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Favorite represents "user U has favorited target T". The composite unique
// index keeps at most one row per (user, kind, id) tuple, so concurrent
// favorite attempts on the same pair serialize at the storage layer.
type Favorite struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"index;uniqueIndex:idx_user_favoritable"`
	FavoritableKind FavoritableKind `json:"favoritable_kind" gorm:"size:10;uniqueIndex:idx_user_favoritable;index:idx_favoritable"`
	FavoritableID   uint            `json:"favoritable_id" gorm:"uniqueIndex:idx_user_favoritable;index:idx_favoritable"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Target returns the favorite's target as a reference
func (f *Favorite) Target() FavoritableRef {
	return FavoritableRef{Kind: f.FavoritableKind, ID: f.FavoritableID}
}

// FavoriteListing is the partitioned view of a user's favorites, each target
// resolved to its entity, in favorite-creation order
type FavoriteListing struct {
	Posts []Post        `json:"posts"`
	Users []UserCompact `json:"users"`
}
