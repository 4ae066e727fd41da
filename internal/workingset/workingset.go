// Package workingset holds the records of one interaction in memory and
// records every mutation so it can be flushed as a single changeset.
package workingset

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// DefaultGenre is used when an entry is added without a genre
// and no catalog default was configured.
const DefaultGenre = "Anderes"

var validate = validator.New()

// Outcome tells the caller what RecordReadDate did.
type Outcome string

const (
	OutcomeRecorded        Outcome = "recorded"
	OutcomeAlreadyRecorded Outcome = "already_recorded"
)

// NewEntry is the input of AddToWishlist.
type NewEntry struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Nationality string `json:"nationality"`
}

// Option configures a Set
type Option func(*Set)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Set) { s.now = now }
}

// WithIDs replaces the UUID generator
func WithIDs(newID func() string) Option {
	return func(s *Set) { s.newID = newID }
}

// WithDefaultGenre sets the genre given to entries added without one
func WithDefaultGenre(genre string) Option {
	return func(s *Set) {
		if genre != "" {
			s.defaultGenre = genre
		}
	}
}

// Set is the working set of one interaction.
// It is not safe for concurrent use; callers serialise interactions.
type Set struct {
	wishlist []*domain.WishlistEntry
	acquired []*domain.AcquiredBook

	now          func() time.Time
	newID        func() string
	defaultGenre string

	dirtyWish  []string
	deleted    []string
	dirtyBooks []string
}

// New wraps a loaded dataset. The set takes ownership of the records.
func New(ds domain.Dataset, opts ...Option) *Set {
	s := &Set{
		wishlist:     append([]*domain.WishlistEntry{}, ds.Wishlist...),
		acquired:     append([]*domain.AcquiredBook{}, ds.Acquired...),
		now:          time.Now,
		newID:        uuid.NewString,
		defaultGenre: DefaultGenre,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────
// Mutations
// ─────────────────────────────

// AddToWishlist appends an open entry dated today.
// An empty title fails with ErrValidation and leaves the set unchanged.
func (s *Set) AddToWishlist(in NewEntry) (*domain.WishlistEntry, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Nationality = strings.TrimSpace(in.Nationality)

	if err := validate.Struct(in); err != nil {
		return nil, domain.Invalid("title is required")
	}

	if in.Genre == "" {
		in.Genre = s.defaultGenre
	}

	entry := &domain.WishlistEntry{
		ID:          s.newID(),
		Title:       in.Title,
		Author:      in.Author,
		Genre:       in.Genre,
		Nationality: in.Nationality,
		WishDate:    domain.FormatDate(s.now()),
		Status:      domain.StatusOpen,
	}

	s.wishlist = append(s.wishlist, entry)
	s.dirtyWish = mark(s.dirtyWish, entry.ID)

	return entry, nil
}

// Promote moves the wishlist entry id into the acquired collection.
// The undecided sentinel, or any unknown channel, fails with ErrValidation.
func (s *Set) Promote(id string, via domain.AcquiredVia) (*domain.AcquiredBook, error) {
	if !via.Valid() {
		return nil, domain.Invalid("acquired via must be %q or %q, got %q", domain.ViaBought, domain.ViaBorrowed, via)
	}

	entry, err := s.wish(id)
	if err != nil {
		return nil, err
	}

	entry.Status = domain.StatusDone
	entry.AcquiredVia = via
	book := entry.Promote()

	s.acquired = append(s.acquired, book)
	s.dirtyBooks = mark(s.dirtyBooks, book.ID)
	s.dropWish(id)

	return book, nil
}

// RemoveWish deletes the wishlist entry id
func (s *Set) RemoveWish(id string) error {
	if _, err := s.wish(id); err != nil {
		return err
	}
	s.dropWish(id)
	return nil
}

// RecordReadDate adds date to the book's read dates.
// A date already present is reported as OutcomeAlreadyRecorded, not as an error.
func (s *Set) RecordReadDate(bookID, date string) (Outcome, error) {
	date = strings.TrimSpace(date)
	if err := validate.Var(date, "required,datetime="+domain.DateLayout); err != nil {
		return "", domain.Invalid("read date %q is not a YYYY-MM-DD date", date)
	}

	book, err := s.book(bookID)
	if err != nil {
		return "", err
	}

	if !book.ReadDates.Add(date) {
		return OutcomeAlreadyRecorded, nil
	}

	s.dirtyBooks = mark(s.dirtyBooks, book.ID)
	return OutcomeRecorded, nil
}

// AppendNote adds a note stamped with the current time
func (s *Set) AppendNote(bookID, text string) (domain.Note, error) {
	text = strings.TrimSpace(text)
	if err := validate.Var(text, "required"); err != nil {
		return domain.Note{}, domain.Invalid("note text is empty")
	}

	book, err := s.book(bookID)
	if err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{Text: text, Time: domain.FormatTimestamp(s.now())}
	book.Notes = append(book.Notes, note)
	s.dirtyBooks = mark(s.dirtyBooks, book.ID)

	return note, nil
}

// ─────────────────────────────
// Accessors
// ─────────────────────────────

// Wishlist returns the current wishlist entries
func (s *Set) Wishlist() []*domain.WishlistEntry { return s.wishlist }

// Acquired returns the current acquired books
func (s *Set) Acquired() []*domain.AcquiredBook { return s.acquired }

// Dataset returns both collections
func (s *Set) Dataset() domain.Dataset {
	return domain.Dataset{Wishlist: s.wishlist, Acquired: s.acquired}
}

// Changes returns every write needed to persist the mutations so far.
func (s *Set) Changes() domain.Changeset {
	var cs domain.Changeset

	for _, id := range s.dirtyWish {
		if e := s.findWish(id); e != nil {
			cs.UpsertWishlist = append(cs.UpsertWishlist, e)
		}
	}
	cs.DeleteWishlist = append(cs.DeleteWishlist, s.deleted...)
	for _, id := range s.dirtyBooks {
		if b := s.findBook(id); b != nil {
			cs.UpsertAcquired = append(cs.UpsertAcquired, b)
		}
	}

	return cs
}

func (s *Set) wish(id string) (*domain.WishlistEntry, error) {
	if e := s.findWish(id); e != nil {
		return e, nil
	}
	return nil, domain.NotFound("wishlist entry", id)
}

func (s *Set) book(id string) (*domain.AcquiredBook, error) {
	if b := s.findBook(id); b != nil {
		return b, nil
	}
	return nil, domain.NotFound("acquired book", id)
}

func (s *Set) findWish(id string) *domain.WishlistEntry {
	for _, e := range s.wishlist {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *Set) findBook(id string) *domain.AcquiredBook {
	for _, b := range s.acquired {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// dropWish rebuilds the wishlist without id instead of splicing in place
func (s *Set) dropWish(id string) {
	kept := make([]*domain.WishlistEntry, 0, len(s.wishlist))
	for _, e := range s.wishlist {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.wishlist = kept
	s.deleted = mark(s.deleted, id)
}

func mark(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
