package domain

// Status is the lifecycle state of a wishlist entry.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// AcquiredVia records how a book left the wishlist.
type AcquiredVia string

const (
	ViaBought   AcquiredVia = "bought"
	ViaBorrowed AcquiredVia = "borrowed"

	// ViaUndecided is the "-" option offered before the user picks a channel.
	ViaUndecided AcquiredVia = "-"
)

// Valid reports whether v is a real acquisition channel (not the sentinel).
func (v AcquiredVia) Valid() bool {
	return v == ViaBought || v == ViaBorrowed
}

// AllSentinel is the option value meaning "no constraint on this axis".
const AllSentinel = "Alle"

// WishlistEntry is a book the user wants but does not own yet.
type WishlistEntry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is a generated UUID. It survives promotion and
	// becomes the ID of the resulting AcquiredBook.
	ID string `json:"id" yaml:"id,omitempty"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Genre       string `json:"genre" yaml:"genre"`
	Nationality string `json:"nationality,omitempty" yaml:"nationality,omitempty"`

	// WishDate is the creation day (YYYY-MM-DD) and never changes.
	WishDate string `json:"wishDate" yaml:"wishDate"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	Status Status `json:"status" yaml:"status"`

	// AcquiredVia is only set on a done entry.
	AcquiredVia AcquiredVia `json:"acquiredVia,omitempty" yaml:"acquiredVia,omitempty"`
}

// Note is a timestamped free-text annotation on an acquired book.
type Note struct {
	Text string `json:"text" yaml:"text"`
	// Time is formatted as YYYY-MM-DD HH:MM:SS.
	Time string `json:"time" yaml:"time"`
}

// AcquiredBook is a book that was bought or borrowed.
// It is only ever created by promoting a WishlistEntry.
type AcquiredBook struct {
	ID          string      `json:"id" yaml:"id,omitempty"`
	Title       string      `json:"title" yaml:"title"`
	Author      string      `json:"author" yaml:"author"`
	Genre       string      `json:"genre" yaml:"genre"`
	Nationality string      `json:"nationality,omitempty" yaml:"nationality,omitempty"`
	WishDate    string      `json:"wishDate,omitempty" yaml:"wishDate,omitempty"`
	AcquiredVia AcquiredVia `json:"acquiredVia" yaml:"acquiredVia"`

	// ReadDates is append-only and never holds the same day twice.
	ReadDates ReadDates `json:"readDates" yaml:"readDates"`

	// Notes is append-only.
	Notes []Note `json:"notes" yaml:"notes"`
}

// Promote turns a done wishlist entry into an acquired book.
// Descriptive fields are copied; the ID is kept.
func (e *WishlistEntry) Promote() *AcquiredBook {
	return &AcquiredBook{
		ID:          e.ID,
		Title:       e.Title,
		Author:      e.Author,
		Genre:       e.Genre,
		Nationality: e.Nationality,
		WishDate:    e.WishDate,
		AcquiredVia: e.AcquiredVia,
		ReadDates:   ReadDates{},
		Notes:       []Note{},
	}
}

// Clone returns a deep copy of the book.
func (b *AcquiredBook) Clone() *AcquiredBook {
	c := *b
	c.ReadDates = append(ReadDates{}, b.ReadDates...)
	c.Notes = append([]Note{}, b.Notes...)
	return &c
}
