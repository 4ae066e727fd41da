package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/bookshelf/internal/config"
	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/shelf"
	"github.com/MrSnakeDoc/bookshelf/internal/workingset"
)

func testConfig(store string) *config.Config {
	return &config.Config{
		ListenPort:      ":0",
		ShutdownTimeout: time.Second,
		Store:           store,
		ConnectTimeout:  2 * time.Second,
		RetryInterval:   10 * time.Millisecond,
		MaxWait:         40 * time.Millisecond,
		PingTimeout:     100 * time.Millisecond,
		WarnThreshold:   3,
	}
}

func TestOpenBackendRedisSurvivesReconnect(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StoreRedis)
	cfg.RedisAddr = mr.Addr()
	ctx := context.Background()

	backend, err := OpenBackend(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend() error = %v", err)
	}
	svc := shelf.New(backend.Store, logger.NewNop())
	entry, err := svc.AddToWishlist(ctx, workingset.NewEntry{Title: "Momo", Author: "Michael Ende"})
	if err != nil {
		t.Fatalf("AddToWishlist() error = %v", err)
	}
	if _, err := svc.Promote(ctx, entry.ID, domain.ViaBorrowed); err != nil {
		t.Fatalf("Promote() error = %v", err)
	}
	if err := backend.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBackend(ctx, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend() error = %v", err)
	}
	defer func() { _ = reopened.Close(ctx) }()

	ds, err := reopened.Store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(ds.Wishlist) != 0 || len(ds.Acquired) != 1 {
		t.Fatalf("got %d wishlist / %d acquired, want 0 / 1", len(ds.Wishlist), len(ds.Acquired))
	}
	if got := ds.Acquired[0]; got.ID != entry.ID || got.AcquiredVia != domain.ViaBorrowed {
		t.Errorf("unexpected book %+v", got)
	}
}

func TestOpenBackendUnknownStore(t *testing.T) {
	if _, err := OpenBackend(context.Background(), testConfig("sqlite"), logger.NewNop()); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}

func TestNewWithMemoryStore(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.StoreMemory), logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.backend.Name != config.StoreMemory {
		t.Errorf("backend = %q, want memory", a.backend.Name)
	}
	if a.server == nil || a.repairer == nil || a.shelf == nil {
		t.Error("app is not fully wired")
	}
}

func TestNewRejectsBrokenGenreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genres.yaml")
	if err := os.WriteFile(path, []byte("genres: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(config.StoreMemory)
	cfg.GenreFile = path

	if _, err := New(context.Background(), cfg, logger.NewNop()); err == nil {
		t.Error("expected an error for an unparsable genre file")
	}
}
