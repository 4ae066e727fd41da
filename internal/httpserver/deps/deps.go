package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/bookshelf/internal/catalog"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/shelf"
	"github.com/MrSnakeDoc/bookshelf/internal/version"
)

// Pinger reports whether the store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Build        version.Info
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS []string         // IPs allowed to access the readyz endpoint
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Backend      string           // store backend name, reported by readyz
	Store        Pinger           // store connection, pinged by readyz
	PingTimeout  time.Duration    // timeout of the readyz ping
	Shelf        *shelf.Service   // every book interaction goes through here
	Catalog      catalog.Catalog  // genres offered by the API
}
