package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/store/memory"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	require.NoError(t, src.ReplaceAll(ctx, domain.Dataset{
		Wishlist: []*domain.WishlistEntry{
			{ID: "w1", Title: "Momo", Author: "Michael Ende", WishDate: "2024-01-01", Status: domain.StatusOpen},
			{ID: "w2", Title: "Liegengeblieben", Status: domain.StatusDone, AcquiredVia: domain.ViaBought},
		},
		Acquired: []*domain.AcquiredBook{
			{ID: "b1", Title: "Es", AcquiredVia: domain.ViaBought,
				ReadDates: domain.ReadDates{"2024-01-05"},
				Notes:     []domain.Note{{Text: "gut", Time: "2024-01-05 20:00:00"}}},
		},
	}))

	exporter := New(src, nil)
	exporter.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	doc, err := exporter.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Len(t, doc.Wishlist, 2)
	assert.Equal(t, "2024-02-01 12:00:00", doc.ExportedAt)
	assert.Contains(t, buf.String(), "2024-02-01 12:00:00")

	dst := memory.New()
	ds, err := New(dst, nil).Import(ctx, &buf)
	require.NoError(t, err)
	assert.Len(t, ds.Wishlist, 2)

	loaded, err := dst.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Wishlist, 1)
	assert.Equal(t, "w1", loaded.Wishlist[0].ID)
	require.Len(t, loaded.Acquired, 1)
	assert.Equal(t, domain.ReadDates{"2024-01-05"}, loaded.Acquired[0].ReadDates)

	stranded, err := dst.LoadStranded(ctx)
	require.NoError(t, err)
	require.Len(t, stranded, 1)
}

func TestDecodeNormalises(t *testing.T) {
	input := `
wishlist:
  - title: " Faust "
    author: Goethe
acquired:
  - title: Es
    acquiredVia: bought
    readDates: "2023-03-03"
`
	n := 0
	ds, err := Decode(strings.NewReader(input), func() string { n++; return fmt.Sprintf("gen-%d", n) })
	require.NoError(t, err)

	require.Len(t, ds.Wishlist, 1)
	assert.Equal(t, "gen-1", ds.Wishlist[0].ID)
	assert.Equal(t, "Faust", ds.Wishlist[0].Title)
	assert.Equal(t, domain.StatusOpen, ds.Wishlist[0].Status)

	require.Len(t, ds.Acquired, 1)
	assert.Equal(t, "gen-2", ds.Acquired[0].ID)
	assert.Equal(t, domain.ReadDates{"2023-03-03"}, ds.Acquired[0].ReadDates)
	assert.NotNil(t, ds.Acquired[0].Notes)
}

func TestDecodeRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "not yaml", input: "wishlist: [unclosed"},
		{name: "missing title", input: "wishlist:\n  - author: x\n"},
		{name: "unknown status", input: "wishlist:\n  - title: x\n    status: lost\n"},
		{name: "duplicate id", input: "acquired:\n  - id: a\n    title: x\n  - id: a\n    title: y\n"},
		{name: "future version", input: "version: 99\n"},
		{name: "null wishlist item", input: "version: 1\nwishlist:\n  - ~\n"},
		{name: "null acquired item", input: "acquired:\n  - title: x\n  - ~\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), func() string { return "id" })
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestImportInvalidFileKeepsStore(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.ReplaceAll(ctx, domain.Dataset{
		Wishlist: []*domain.WishlistEntry{{ID: "w1", Title: "Momo", Status: domain.StatusOpen}},
	}))

	_, err := New(st, nil).Import(ctx, strings.NewReader("wishlist:\n  - author: x\n"))
	require.Error(t, err)

	wishlist, _ := st.Count()
	assert.Equal(t, 1, wishlist)
}
