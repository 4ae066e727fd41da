package query

import (
	"sort"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

// DetailsCriteria selects one author/title pair. "Alle" on either axis means any.
type DetailsCriteria struct {
	Author string
	Title  string
}

// Details is the annotation view.
type Details struct {
	AuthorOptions  []string               `json:"authorOptions"`
	TitleOptions   []string               `json:"titleOptions"`
	SelectedAuthor string                 `json:"selectedAuthor"`
	SelectedTitle  string                 `json:"selectedTitle"`
	Books          []*domain.AcquiredBook `json:"books"`
}

// ViewDetails narrows books to the selected author and title.
// The title domain depends on the author: a title the selected author
// did not write is reset to "Alle".
func ViewDetails(books []*domain.AcquiredBook, c DetailsCriteria) Details {
	author := selection(c.Author)
	title := selection(c.Title)

	authorOptions := sortedOptions(books, func(b *domain.AcquiredBook) string { return b.Author })

	byAuthor := keep(books, func(b *domain.AcquiredBook) bool {
		return author == domain.AllSentinel || b.Author == author
	})
	titleOptions := sortedOptions(byAuthor, func(b *domain.AcquiredBook) string { return b.Title })

	if title != domain.AllSentinel && !contains(titleOptions, title) {
		title = domain.AllSentinel
	}

	selected := keep(byAuthor, func(b *domain.AcquiredBook) bool {
		return title == domain.AllSentinel || b.Title == title
	})

	return Details{
		AuthorOptions:  authorOptions,
		TitleOptions:   titleOptions,
		SelectedAuthor: author,
		SelectedTitle:  title,
		Books:          selected,
	}
}

func sortedOptions(books []*domain.AcquiredBook, field func(*domain.AcquiredBook) string) []string {
	values := options(books, field)[1:]
	sort.Strings(values)
	return append([]string{domain.AllSentinel}, values...)
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
