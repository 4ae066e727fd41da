// Package memory is an in-process store. It keeps nothing across restarts
// and backs tests and BOOKSHELF_STORE=memory.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// Store keeps both collections in maps, in insertion order.
type Store struct {
	mu        sync.RWMutex
	wishlist  map[string]domain.WishlistEntry // ID -> entry
	wishOrder []string
	acquired  map[string]*domain.AcquiredBook // ID -> book
	bookOrder []string
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		wishlist: make(map[string]domain.WishlistEntry),
		acquired: make(map[string]*domain.AcquiredBook),
	}
}

// LoadAll returns copies of the open wishlist entries and all acquired books
func (s *Store) LoadAll(_ context.Context) (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := domain.Dataset{
		Wishlist: make([]*domain.WishlistEntry, 0, len(s.wishlist)),
		Acquired: make([]*domain.AcquiredBook, 0, len(s.acquired)),
	}
	for _, id := range s.wishOrder {
		entry := s.wishlist[id]
		if entry.Status != domain.StatusOpen {
			continue
		}
		ds.Wishlist = append(ds.Wishlist, &entry)
	}
	for _, id := range s.bookOrder {
		ds.Acquired = append(ds.Acquired, s.acquired[id].Clone())
	}
	return ds, nil
}

// LoadStranded returns copies of the done wishlist entries
func (s *Store) LoadStranded(_ context.Context) ([]*domain.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.WishlistEntry
	for _, id := range s.wishOrder {
		entry := s.wishlist[id]
		if entry.Status == domain.StatusDone {
			out = append(out, &entry)
		}
	}
	return out, nil
}

// ReplaceAll clears and rebuilds both collections.
// Records without an id get one.
func (s *Store) ReplaceAll(_ context.Context, ds domain.Dataset) error {
	ds.EnsureIDs(uuid.NewString)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlist = make(map[string]domain.WishlistEntry, len(ds.Wishlist))
	s.wishOrder = nil
	s.acquired = make(map[string]*domain.AcquiredBook, len(ds.Acquired))
	s.bookOrder = nil

	for _, e := range ds.Wishlist {
		s.putWishLocked(e)
	}
	for _, b := range ds.Acquired {
		s.putBookLocked(b)
	}
	return nil
}

// Apply writes a changeset
func (s *Store) Apply(_ context.Context, cs domain.Changeset) error {
	if cs.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range cs.UpsertAcquired {
		s.putBookLocked(b)
	}
	for _, e := range cs.UpsertWishlist {
		s.putWishLocked(e)
	}
	for _, id := range cs.DeleteWishlist {
		if _, ok := s.wishlist[id]; !ok {
			continue
		}
		delete(s.wishlist, id)
		s.wishOrder = without(s.wishOrder, id)
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(_ context.Context) error { return nil }

// Count returns the number of stored wishlist entries (any status) and books
func (s *Store) Count() (wishlist, acquired int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.wishlist), len(s.acquired)
}

func (s *Store) putWishLocked(e *domain.WishlistEntry) {
	if _, ok := s.wishlist[e.ID]; !ok {
		s.wishOrder = append(s.wishOrder, e.ID)
	}
	s.wishlist[e.ID] = *e
}

func (s *Store) putBookLocked(b *domain.AcquiredBook) {
	if _, ok := s.acquired[b.ID]; !ok {
		s.bookOrder = append(s.bookOrder, b.ID)
	}
	s.acquired[b.ID] = b.Clone()
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
