// Package query narrows the acquired collection for display.
//
// Filters compose conjunctively and each step runs on the set left by the
// previous one, so the option lists offered to the user always reflect the
// current selection.
package query

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// Criteria selects acquired books for the overview.
// Empty fields and the "Alle" sentinel mean no constraint.
type Criteria struct {
	Search string
	Author string
	Genre  string
	From   string
	To     string

	// Where is an expr predicate over Record, e.g. Author contains 'King'
	Where string
}

// Row is one acquired book as shown in the overview table.
type Row struct {
	Book             *domain.AcquiredBook `json:"book"`
	ReadDatesDisplay string               `json:"readDatesDisplay"`
}

// Overview is the filtered view plus the option lists derived from it.
type Overview struct {
	Rows  []Row `json:"rows"`
	Count int   `json:"count"`

	AuthorOptions  []string `json:"authorOptions"`
	GenreOptions   []string `json:"genreOptions"`
	SelectedAuthor string   `json:"selectedAuthor"`
	SelectedGenre  string   `json:"selectedGenre"`

	// QueryError is set when the predicate failed; the predicate step was skipped.
	QueryError string `json:"queryError,omitempty"`
}

// Filter runs the overview chain over books.
// A malformed From/To date fails with ErrValidation; a failing predicate does not.
func Filter(books []*domain.AcquiredBook, c Criteria) (Overview, error) {
	from, to, ranged, err := parseRange(c.From, c.To)
	if err != nil {
		return Overview{}, err
	}

	author := selection(c.Author)
	genre := selection(c.Genre)

	set := search(books, c.Search)

	authorOptions := options(set, func(b *domain.AcquiredBook) string { return b.Author })

	// a genre the selected author never wrote resets the author
	if author != domain.AllSentinel && genre != domain.AllSentinel && !hasPair(set, author, genre) {
		author = domain.AllSentinel
	}

	set = keep(set, func(b *domain.AcquiredBook) bool {
		return author == domain.AllSentinel || b.Author == author
	})

	genreOptions := options(set, func(b *domain.AcquiredBook) string { return b.Genre })

	set = keep(set, func(b *domain.AcquiredBook) bool {
		return genre == domain.AllSentinel || b.Genre == genre
	})

	if ranged {
		set = keep(set, func(b *domain.AcquiredBook) bool {
			return b.ReadDates.AnyWithin(from, to)
		})
	}

	var queryErr string
	if strings.TrimSpace(c.Where) != "" {
		narrowed, err := where(set, c.Where)
		if err != nil {
			queryErr = err.Error()
		} else {
			set = narrowed
		}
	}

	rows := make([]Row, 0, len(set))
	for _, b := range set {
		rows = append(rows, Row{Book: b, ReadDatesDisplay: b.ReadDates.Display()})
	}

	return Overview{
		Rows:           rows,
		Count:          len(rows),
		AuthorOptions:  authorOptions,
		GenreOptions:   genreOptions,
		SelectedAuthor: author,
		SelectedGenre:  genre,
		QueryError:     queryErr,
	}, nil
}

func search(books []*domain.AcquiredBook, term string) []*domain.AcquiredBook {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]*domain.AcquiredBook{}, books...)
	}
	return keep(books, func(b *domain.AcquiredBook) bool {
		return strings.Contains(strings.ToLower(b.Title), term) ||
			strings.Contains(strings.ToLower(b.Author), term)
	})
}

// where applies the predicate to every book; any failure discards the whole step.
func where(books []*domain.AcquiredBook, src string) ([]*domain.AcquiredBook, error) {
	p, err := Compile(src)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AcquiredBook, 0, len(books))
	for _, b := range books {
		ok, err := p.Match(b)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, bool, error) {
	fromStr, toStr = strings.TrimSpace(fromStr), strings.TrimSpace(toStr)
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	from, err := domain.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, false, domain.Invalid("from date %q is not a YYYY-MM-DD date", fromStr)
	}
	to, err := domain.ParseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, false, domain.Invalid("to date %q is not a YYYY-MM-DD date", toStr)
	}

	return from, to, true, nil
}

func hasPair(books []*domain.AcquiredBook, author, genre string) bool {
	for _, b := range books {
		if b.Author == author && b.Genre == genre {
			return true
		}
	}
	return false
}

func keep(books []*domain.AcquiredBook, pred func(*domain.AcquiredBook) bool) []*domain.AcquiredBook {
	out := make([]*domain.AcquiredBook, 0, len(books))
	for _, b := range books {
		if pred(b) {
			out = append(out, b)
		}
	}
	return out
}

// options lists distinct non-empty values in first-appearance order, after "Alle".
func options(books []*domain.AcquiredBook, field func(*domain.AcquiredBook) string) []string {
	seen := make(map[string]struct{}, len(books))
	out := []string{domain.AllSentinel}
	for _, b := range books {
		v := field(b)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func selection(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.AllSentinel
	}
	return v
}
