package domain

// Dataset is the full content of both collections.
type Dataset struct {
	Wishlist []*WishlistEntry `json:"wishlist" yaml:"wishlist"`
	Acquired []*AcquiredBook  `json:"acquired" yaml:"acquired"`
}

// EnsureIDs assigns an id to every record that has none.
// Nil records are left for the caller to reject.
func (ds *Dataset) EnsureIDs(newID func() string) {
	for _, e := range ds.Wishlist {
		if e != nil && e.ID == "" {
			e.ID = newID()
		}
	}
	for _, b := range ds.Acquired {
		if b != nil && b.ID == "" {
			b.ID = newID()
		}
	}
}

// OpenWishlist returns the entries whose status is open, preserving order.
func (ds Dataset) OpenWishlist() []*WishlistEntry {
	out := make([]*WishlistEntry, 0, len(ds.Wishlist))
	for _, e := range ds.Wishlist {
		if e.Status == StatusOpen {
			out = append(out, e)
		}
	}
	return out
}

// Changeset is the set of record writes produced by one interaction.
// Writes are applied once, after all mutations of the interaction ran.
type Changeset struct {
	UpsertWishlist []*WishlistEntry
	DeleteWishlist []string
	UpsertAcquired []*AcquiredBook
}

// Empty reports whether the changeset carries no writes.
func (c Changeset) Empty() bool {
	return len(c.UpsertWishlist) == 0 && len(c.DeleteWishlist) == 0 && len(c.UpsertAcquired) == 0
}
