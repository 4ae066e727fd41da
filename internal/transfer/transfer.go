// Package transfer dumps and restores a full dataset as YAML.
// Restoring goes through ReplaceAll: the store ends up holding exactly the file.
package transfer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/store"
)

// FormatVersion is written to every export
const FormatVersion = 1

var validate = validator.New()

// Document is the file layout
type Document struct {
	Version    int                     `yaml:"version"`
	ExportedAt string                  `yaml:"exportedAt,omitempty"`
	Wishlist   []*domain.WishlistEntry `yaml:"wishlist"`
	Acquired   []*domain.AcquiredBook  `yaml:"acquired"`
}

// Transfer exports and imports through one store.
type Transfer struct {
	store store.Store
	lock  sync.Locker
	now   func() time.Time
	newID func() string
}

// New creates a Transfer. lock may be nil when nothing else writes.
func New(st store.Store, lock sync.Locker) *Transfer {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Transfer{
		store: st,
		lock:  lock,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Export writes every record, stranded done entries included
func (t *Transfer) Export(ctx context.Context, w io.Writer) (Document, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	ds, err := t.store.LoadAll(ctx)
	if err != nil {
		return Document{}, err
	}
	stranded, err := t.store.LoadStranded(ctx)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Version:    FormatVersion,
		ExportedAt: domain.FormatTimestamp(t.now()),
		Wishlist:   append(ds.Wishlist, stranded...),
		Acquired:   ds.Acquired,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return Document{}, fmt.Errorf("failed to encode export: %w", err)
	}
	if err := enc.Close(); err != nil {
		return Document{}, fmt.Errorf("failed to flush export: %w", err)
	}

	return doc, nil
}

// Import replaces the whole store with the records read from r.
// Nothing is written unless the entire file is valid.
func (t *Transfer) Import(ctx context.Context, r io.Reader) (domain.Dataset, error) {
	ds, err := Decode(r, t.newID)
	if err != nil {
		return domain.Dataset{}, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.store.ReplaceAll(ctx, ds); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// Decode parses and normalises a document. Records without an id get one.
func Decode(r io.Reader, newID func() string) (domain.Dataset, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return domain.Dataset{}, domain.Invalid("import file is empty")
		}
		return domain.Dataset{}, domain.Invalid("failed to parse import file: %v", err)
	}
	if doc.Version > FormatVersion {
		return domain.Dataset{}, domain.Invalid("unsupported export version %d", doc.Version)
	}

	ds := domain.Dataset{Wishlist: doc.Wishlist, Acquired: doc.Acquired}
	if ds.Wishlist == nil {
		ds.Wishlist = []*domain.WishlistEntry{}
	}
	if ds.Acquired == nil {
		ds.Acquired = []*domain.AcquiredBook{}
	}
	for i, e := range ds.Wishlist {
		if e == nil {
			return domain.Dataset{}, domain.Invalid("wishlist[%d] is empty", i)
		}
	}
	for i, b := range ds.Acquired {
		if b == nil {
			return domain.Dataset{}, domain.Invalid("acquired[%d] is empty", i)
		}
	}
	ds.EnsureIDs(newID)

	seen := make(map[string]string)
	for i, e := range ds.Wishlist {
		e.Title = strings.TrimSpace(e.Title)
		if err := validate.Var(e.Title, "required"); err != nil {
			return domain.Dataset{}, domain.Invalid("wishlist[%d] has no title", i)
		}
		switch e.Status {
		case "":
			e.Status = domain.StatusOpen
		case domain.StatusOpen, domain.StatusDone:
		default:
			return domain.Dataset{}, domain.Invalid("wishlist[%d] has unknown status %q", i, e.Status)
		}
		if err := unique(seen, "wishlist", e.ID); err != nil {
			return domain.Dataset{}, err
		}
	}

	for i, b := range ds.Acquired {
		b.Title = strings.TrimSpace(b.Title)
		if err := validate.Var(b.Title, "required"); err != nil {
			return domain.Dataset{}, domain.Invalid("acquired[%d] has no title", i)
		}
		if b.ReadDates == nil {
			b.ReadDates = domain.ReadDates{}
		}
		if b.Notes == nil {
			b.Notes = []domain.Note{}
		}
		if err := unique(seen, "acquired", b.ID); err != nil {
			return domain.Dataset{}, err
		}
	}

	return ds, nil
}

// unique rejects ids used twice in one collection
func unique(seen map[string]string, collection, id string) error {
	key := collection + "/" + id
	if _, dup := seen[key]; dup {
		return domain.Invalid("duplicate %s id %q", collection, id)
	}
	seen[key] = id
	return nil
}
