package query

import (
	"sort"
	"strconv"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// Count is one bucket of a statistic.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarises both collections.
type Stats struct {
	Wishlist int `json:"wishlist"`
	Acquired int `json:"acquired"`
	Bought   int `json:"bought"`
	Borrowed int `json:"borrowed"`
	Unread   int `json:"unread"`
	Reads    int `json:"reads"`
	Notes    int `json:"notes"`

	Genres        []Count `json:"genres"`
	Nationalities []Count `json:"nationalities"`
	ReadsPerYear  []Count `json:"readsPerYear"`
}

// Summarize counts the dataset. Malformed read dates are left out of ReadsPerYear.
func Summarize(ds domain.Dataset) Stats {
	st := Stats{
		Wishlist: len(ds.Wishlist),
		Acquired: len(ds.Acquired),
	}

	genres := map[string]int{}
	nationalities := map[string]int{}
	years := map[string]int{}

	for _, b := range ds.Acquired {
		switch b.AcquiredVia {
		case domain.ViaBought:
			st.Bought++
		case domain.ViaBorrowed:
			st.Borrowed++
		}
		if len(b.ReadDates) == 0 {
			st.Unread++
		}
		st.Reads += len(b.ReadDates)
		st.Notes += len(b.Notes)

		if b.Genre != "" {
			genres[b.Genre]++
		}
		if b.Nationality != "" {
			nationalities[b.Nationality]++
		}
		for _, d := range b.ReadDates {
			t, err := domain.ParseDate(d)
			if err != nil {
				continue
			}
			years[strconv.Itoa(t.Year())]++
		}
	}

	st.Genres = byCountDesc(genres)
	st.Nationalities = byCountDesc(nationalities)

	st.ReadsPerYear = make([]Count, 0, len(years))
	for y, n := range years {
		st.ReadsPerYear = append(st.ReadsPerYear, Count{Label: y, Count: n})
	}
	sort.Slice(st.ReadsPerYear, func(i, j int) bool {
		return st.ReadsPerYear[i].Label < st.ReadsPerYear[j].Label
	})

	return st
}

func byCountDesc(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
