package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

func books() []*domain.AcquiredBook {
	return []*domain.AcquiredBook{
		{ID: "1", Title: "Es", Author: "Stephen King", Genre: "Horror & Mystery", Nationality: "USA", AcquiredVia: domain.ViaBought,
			ReadDates: domain.ReadDates{"2024-01-05", "2024-06-01"}, Notes: []domain.Note{{Text: "gut"}}},
		{ID: "2", Title: "The Kingmaker", Author: "Kennedy Ryan", Genre: "Liebesgeschichte", Nationality: "USA", AcquiredVia: domain.ViaBorrowed,
			ReadDates: domain.ReadDates{}},
		{ID: "3", Title: "Shining", Author: "Stephen King", Genre: "Krimi & Thriller", AcquiredVia: domain.ViaBought,
			ReadDates: domain.ReadDates{"2023-11-11"}},
		{ID: "4", Title: "Momo", Author: "Michael Ende", Genre: "Klassiker", Nationality: "Deutschland", AcquiredVia: domain.ViaBought,
			ReadDates: domain.ReadDates{"not-a-date", "2024-01-20"}},
	}
}

func ids(o Overview) []string {
	out := make([]string, 0, len(o.Rows))
	for _, r := range o.Rows {
		out = append(out, r.Book.ID)
	}
	return out
}

func TestFilterTextSearchMatchesTitleOrAuthor(t *testing.T) {
	o, err := Filter(books(), Criteria{Search: "KING"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(o))
	assert.Equal(t, 3, o.Count)
}

func TestFilterAuthorAndGenre(t *testing.T) {
	tests := []struct {
		name       string
		criteria   Criteria
		expected   []string
		wantAuthor string
	}{
		{name: "no constraint", criteria: Criteria{Author: "Alle", Genre: "Alle"}, expected: []string{"1", "2", "3", "4"}, wantAuthor: "Alle"},
		{name: "author", criteria: Criteria{Author: "Stephen King"}, expected: []string{"1", "3"}, wantAuthor: "Stephen King"},
		{name: "author and genre", criteria: Criteria{Author: "Stephen King", Genre: "Krimi & Thriller"}, expected: []string{"3"}, wantAuthor: "Stephen King"},
		{name: "genre the author never wrote resets author", criteria: Criteria{Author: "Stephen King", Genre: "Klassiker"}, expected: []string{"4"}, wantAuthor: "Alle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Filter(books(), tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(o))
			assert.Equal(t, tt.wantAuthor, o.SelectedAuthor)
		})
	}
}

func TestFilterOptionsFollowNarrowing(t *testing.T) {
	o, err := Filter(books(), Criteria{Search: "king", Author: "Stephen King"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alle", "Stephen King", "Kennedy Ryan"}, o.AuthorOptions)
	assert.Equal(t, []string{"Alle", "Horror & Mystery", "Krimi & Thriller"}, o.GenreOptions)
}

func TestFilterDateRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		expected []string
	}{
		{name: "january", from: "2024-01-01", to: "2024-01-31", expected: []string{"1", "4"}},
		{name: "february", from: "2024-02-01", to: "2024-02-28", expected: []string{}},
		{name: "inclusive bounds", from: "2024-06-01", to: "2024-06-01", expected: []string{"1"}},
		{name: "only one bound is ignored", from: "2024-02-01", to: "", expected: []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Filter(books(), Criteria{From: tt.from, To: tt.to})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(o))
		})
	}
}

func TestFilterRejectsMalformedRange(t *testing.T) {
	_, err := Filter(books(), Criteria{From: "01.01.2024", To: "2024-01-31"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestFilterPredicate(t *testing.T) {
	o, err := Filter(books(), Criteria{Where: "Genre == 'Krimi & Thriller' or (Author contains 'Ende' and ReadCount > 1)"})
	require.NoError(t, err)
	assert.Empty(t, o.QueryError)
	assert.Equal(t, []string{"3", "4"}, ids(o))
}

func TestFilterPredicateErrorSkipsStep(t *testing.T) {
	for _, where := range []string{"Publisher == 'x'", "Title", "Genre == "} {
		o, err := Filter(books(), Criteria{Author: "Stephen King", Where: where})
		require.NoError(t, err)
		assert.NotEmpty(t, o.QueryError, where)
		assert.Equal(t, []string{"1", "3"}, ids(o), where)
	}
}

func TestFilterReadDatesDisplay(t *testing.T) {
	o, err := Filter(books(), Criteria{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05, 2024-06-01", o.Rows[0].ReadDatesDisplay)
	assert.Equal(t, "-", o.Rows[1].ReadDatesDisplay)
}

func TestCompileRejectsLongExpressions(t *testing.T) {
	long := "Title == '"
	for len(long) <= MaxExpressionLength {
		long += "x"
	}
	_, err := Compile(long + "'")
	assert.True(t, errors.Is(err, domain.ErrQueryEvaluation))
}

func TestPredicateStringOperators(t *testing.T) {
	o, err := Filter(books(), Criteria{Where: "Genre == 'Krimi & Thriller' and Author contains 'King'"})
	require.NoError(t, err)
	assert.Empty(t, o.QueryError)
	assert.Equal(t, []string{"3"}, ids(o))

	o, err = Filter(books(), Criteria{Where: "Title startsWith 'The' or Author endsWith 'Ende'"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(o))
}

func TestCompileExplainsMethodStyleCalls(t *testing.T) {
	_, err := Compile("Genre == 'Krimi & Thriller' and Author.contains('King')")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrQueryEvaluation))
	assert.Contains(t, err.Error(), "Author contains 'King'")

	o, err := Filter(books(), Criteria{Where: "Author.startsWith('Stephen')"})
	require.NoError(t, err)
	assert.Contains(t, o.QueryError, "startsWith")
	assert.Len(t, o.Rows, 4)
}

func TestPredicateRuntimeError(t *testing.T) {
	p, err := Compile("ReadDates[3] == '2024-01-01'")
	require.NoError(t, err)

	_, err = p.Match(books()[1])
	assert.True(t, errors.Is(err, domain.ErrQueryEvaluation))
}

func TestViewDetails(t *testing.T) {
	tests := []struct {
		name      string
		criteria  DetailsCriteria
		expected  []string
		wantTitle string
		titles    []string
	}{
		{name: "all", criteria: DetailsCriteria{}, expected: []string{"1", "2", "3", "4"}, wantTitle: "Alle",
			titles: []string{"Alle", "Es", "Momo", "Shining", "The Kingmaker"}},
		{name: "author", criteria: DetailsCriteria{Author: "Stephen King"}, expected: []string{"1", "3"}, wantTitle: "Alle",
			titles: []string{"Alle", "Es", "Shining"}},
		{name: "author and title", criteria: DetailsCriteria{Author: "Stephen King", Title: "Shining"}, expected: []string{"3"}, wantTitle: "Shining",
			titles: []string{"Alle", "Es", "Shining"}},
		{name: "title outside author resets", criteria: DetailsCriteria{Author: "Stephen King", Title: "Momo"}, expected: []string{"1", "3"}, wantTitle: "Alle",
			titles: []string{"Alle", "Es", "Shining"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ViewDetails(books(), tt.criteria)

			got := make([]string, 0, len(d.Books))
			for _, b := range d.Books {
				got = append(got, b.ID)
			}
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.wantTitle, d.SelectedTitle)
			assert.Equal(t, tt.titles, d.TitleOptions)
			assert.Equal(t, []string{"Alle", "Kennedy Ryan", "Michael Ende", "Stephen King"}, d.AuthorOptions)
		})
	}
}

func TestSummarize(t *testing.T) {
	st := Summarize(domain.Dataset{
		Wishlist: []*domain.WishlistEntry{{ID: "w"}},
		Acquired: books(),
	})

	assert.Equal(t, 1, st.Wishlist)
	assert.Equal(t, 4, st.Acquired)
	assert.Equal(t, 3, st.Bought)
	assert.Equal(t, 1, st.Borrowed)
	assert.Equal(t, 1, st.Unread)
	assert.Equal(t, 5, st.Reads)
	assert.Equal(t, 1, st.Notes)
	assert.Equal(t, []Count{{Label: "USA", Count: 2}, {Label: "Deutschland", Count: 1}}, st.Nationalities)
	assert.Equal(t, []Count{{Label: "2023", Count: 1}, {Label: "2024", Count: 3}}, st.ReadsPerYear)
	assert.Len(t, st.Genres, 4)
}
