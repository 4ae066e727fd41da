// Package shelf runs one interaction at a time against the store:
// load the dataset, apply a mutation or a query, flush the changes.
package shelf

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/query"
	"github.com/MrSnakeDoc/bookshelf/internal/store"
	"github.com/MrSnakeDoc/bookshelf/internal/workingset"
)

// Service is the single writer path of the application.
type Service struct {
	mu sync.Mutex

	store        store.Store
	log          logger.Logger
	now          func() time.Time
	newID        func() string
	defaultGenre string
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs replaces the UUID generator
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithDefaultGenre sets the genre of entries added without one
func WithDefaultGenre(genre string) Option {
	return func(s *Service) { s.defaultGenre = genre }
}

// New creates a service on top of st
func New(st store.Store, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:        st,
		log:          log,
		now:          time.Now,
		newID:        uuid.NewString,
		defaultGenre: workingset.DefaultGenre,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locker exposes the interaction lock to background writers
// so they never interleave with an interaction.
func (s *Service) Locker() sync.Locker { return &s.mu }

// ─────────────────────────────
// Mutations
// ─────────────────────────────

// AddToWishlist creates an open entry dated today
func (s *Service) AddToWishlist(ctx context.Context, in workingset.NewEntry) (*domain.WishlistEntry, error) {
	var entry *domain.WishlistEntry
	err := s.interact(ctx, "add_to_wishlist", func(ws *workingset.Set) error {
		var err error
		entry, err = ws.AddToWishlist(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Wishlist entry added", logger.String("id", entry.ID), logger.String("title", entry.Title))
	return entry, nil
}

// Promote moves a wishlist entry into the acquired collection
func (s *Service) Promote(ctx context.Context, id string, via domain.AcquiredVia) (*domain.AcquiredBook, error) {
	var book *domain.AcquiredBook
	err := s.interact(ctx, "promote", func(ws *workingset.Set) error {
		var err error
		book, err = ws.Promote(id, via)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Book acquired", logger.String("id", book.ID), logger.String("via", string(via)))
	return book, nil
}

// RemoveWish deletes a wishlist entry
func (s *Service) RemoveWish(ctx context.Context, id string) error {
	err := s.interact(ctx, "remove_wish", func(ws *workingset.Set) error {
		return ws.RemoveWish(id)
	})
	if err != nil {
		return err
	}
	s.log.Info("Wishlist entry removed", logger.String("id", id))
	return nil
}

// RecordReadDate adds a read date to an acquired book
func (s *Service) RecordReadDate(ctx context.Context, bookID, date string) (workingset.Outcome, error) {
	var outcome workingset.Outcome
	err := s.interact(ctx, "record_read_date", func(ws *workingset.Set) error {
		var err error
		outcome, err = ws.RecordReadDate(bookID, date)
		return err
	})
	if err != nil {
		return "", err
	}
	s.log.Info("Read date processed",
		logger.String("id", bookID),
		logger.String("date", date),
		logger.String("outcome", string(outcome)),
	)
	return outcome, nil
}

// AppendNote adds a note to an acquired book
func (s *Service) AppendNote(ctx context.Context, bookID, text string) (domain.Note, error) {
	var note domain.Note
	err := s.interact(ctx, "append_note", func(ws *workingset.Set) error {
		var err error
		note, err = ws.AppendNote(bookID, text)
		return err
	})
	if err != nil {
		return domain.Note{}, err
	}
	s.log.Info("Note appended", logger.String("id", bookID))
	return note, nil
}

// ─────────────────────────────
// Reads
// ─────────────────────────────

// Snapshot loads the current dataset
func (s *Service) Snapshot(ctx context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.LoadAll(ctx)
}

// Overview runs the filter chain over the acquired books
func (s *Service) Overview(ctx context.Context, c query.Criteria) (query.Overview, error) {
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return query.Overview{}, err
	}

	o, err := query.Filter(ds.Acquired, c)
	if err != nil {
		return query.Overview{}, err
	}
	if o.QueryError != "" {
		s.log.Warn("Filter expression skipped", logger.String("where", c.Where), logger.String("error", o.QueryError))
	}
	return o, nil
}

// Details returns the annotation view for an author/title selection
func (s *Service) Details(ctx context.Context, c query.DetailsCriteria) (query.Details, error) {
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return query.Details{}, err
	}
	return query.ViewDetails(ds.Acquired, c), nil
}

// Stats summarises the dataset
func (s *Service) Stats(ctx context.Context) (query.Stats, error) {
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return query.Stats{}, err
	}
	return query.Summarize(ds), nil
}

// interact loads a fresh working set, runs op and flushes its changes once.
// A failing op flushes nothing.
func (s *Service) interact(ctx context.Context, name string, op func(*workingset.Set) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Error("Failed to load dataset", logger.String("op", name), logger.Error(err))
		return err
	}

	ws := workingset.New(ds,
		workingset.WithClock(s.now),
		workingset.WithIDs(s.newID),
		workingset.WithDefaultGenre(s.defaultGenre),
	)

	if err := op(ws); err != nil {
		if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("Interaction failed", logger.String("op", name), logger.Error(err))
		}
		return err
	}

	if err := s.store.Apply(ctx, ws.Changes()); err != nil {
		s.log.Error("Failed to flush changes", logger.String("op", name), logger.Error(err))
		return err
	}

	return nil
}
