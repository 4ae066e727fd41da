package maintenance

import (
	"context"
	"testing"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/store/memory"
)

func TestRepairer_Run(t *testing.T) {
	log := logger.NewNop()
	st := memory.New()

	err := st.ReplaceAll(context.Background(), domain.Dataset{
		Wishlist: []*domain.WishlistEntry{
			{ID: "open", Title: "Momo", Status: domain.StatusOpen},
			{ID: "bought", Title: "Es", Status: domain.StatusDone, AcquiredVia: domain.ViaBought},
			{ID: "undecided", Title: "Faust", Status: domain.StatusDone, AcquiredVia: domain.ViaUndecided},
			{ID: "dup", Title: "Shining", Status: domain.StatusDone, AcquiredVia: domain.ViaBorrowed},
		},
		Acquired: []*domain.AcquiredBook{
			{ID: "dup", Title: "Shining", AcquiredVia: domain.ViaBorrowed, ReadDates: domain.ReadDates{"2024-01-01"}},
		},
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	r := NewRepairer(st, nil, log, 0)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Migrated != 1 || report.Reopened != 1 || report.Duplicates != 1 {
		t.Errorf("unexpected report: %+v", report)
	}

	stranded, err := st.LoadStranded(context.Background())
	if err != nil {
		t.Fatalf("LoadStranded failed: %v", err)
	}
	if len(stranded) != 0 {
		t.Errorf("expected no stranded entries, got %d", len(stranded))
	}

	ds, err := st.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if len(ds.Wishlist) != 2 {
		t.Fatalf("expected 2 open entries, got %d", len(ds.Wishlist))
	}
	for _, e := range ds.Wishlist {
		if e.ID == "undecided" && e.AcquiredVia != "" {
			t.Errorf("reopened entry kept AcquiredVia %q", e.AcquiredVia)
		}
	}

	if len(ds.Acquired) != 2 {
		t.Fatalf("expected 2 acquired books, got %d", len(ds.Acquired))
	}
	for _, b := range ds.Acquired {
		// the existing record must not be overwritten
		if b.ID == "dup" && len(b.ReadDates) != 1 {
			t.Errorf("existing acquired book was overwritten: %+v", b)
		}
		if b.ID == "bought" && b.AcquiredVia != domain.ViaBought {
			t.Errorf("migrated book has AcquiredVia %q", b.AcquiredVia)
		}
	}

	// second run finds nothing
	report, err = r.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if report.Total() != 0 {
		t.Errorf("second run repaired %d entries", report.Total())
	}
}

func TestRepairer_StartWithoutInterval(t *testing.T) {
	st := memory.New()
	r := NewRepairer(st, nil, logger.NewNop(), 0)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.Stop()
	r.Stop()
}
