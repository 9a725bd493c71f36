// Package wishlist defines the wishlist record and its DynamoDB attribute codec.
package wishlist

import (
	"slices"

	"github.com/google/uuid"
)

// Wishlist is a named, ordered list of free-form items belonging to an owner.
type Wishlist struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Owner string   `json:"owner"`
	Items []string `json:"items"`
}

// NewID returns a fresh random identifier for a wishlist.
func NewID() string {
	return uuid.NewString()
}

// Normalize returns a copy of w whose Items is a non-nil slice that shares no
// backing array with w.
func (w Wishlist) Normalize() Wishlist {
	items := slices.Clone(w.Items)
	if items == nil {
		items = []string{}
	}
	w.Items = items
	return w
}

// Equal reports whether two wishlists hold the same fields. A nil and an empty
// item list are considered equal.
func (w Wishlist) Equal(other Wishlist) bool {
	return w.ID == other.ID &&
		w.Name == other.Name &&
		w.Owner == other.Owner &&
		len(w.Items) == len(other.Items) &&
		(len(w.Items) == 0 || slices.Equal(w.Items, other.Items))
}
