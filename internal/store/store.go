// Package store defines the persistence contract shared by every backend.
package store

import (
	"context"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// Store persists the wishlist and acquired collections.
//
// Backends own durability only. Record identity comes from the
// record ids assigned by the working set.
type Store interface {
	// LoadAll returns the open wishlist entries and every acquired book.
	LoadAll(ctx context.Context) (domain.Dataset, error)

	// LoadStranded returns wishlist entries whose status is done.
	// LoadAll never returns them.
	LoadStranded(ctx context.Context) ([]*domain.WishlistEntry, error)

	// ReplaceAll deletes every record in both collections and inserts ds.
	// An empty collection in ds produces no insert.
	ReplaceAll(ctx context.Context, ds domain.Dataset) error

	// Apply writes the records of one interaction. An empty changeset is a no-op.
	Apply(ctx context.Context, cs domain.Changeset) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
