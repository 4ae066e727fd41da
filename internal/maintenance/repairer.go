// Package maintenance repairs wishlist entries left in the done state
// without a matching acquired record. Such entries are invisible on
// load, since only open entries are read back.
package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/store"
)

// Report counts what one run changed
type Report struct {
	Migrated   int
	Reopened   int
	Duplicates int
}

// Total is the number of repaired entries
func (r Report) Total() int { return r.Migrated + r.Reopened + r.Duplicates }

// Repairer migrates or reopens stranded entries.
type Repairer struct {
	store    store.Store
	lock     sync.Locker
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRepairer creates a repairer. lock is held during a run; interval 0
// disables the periodic runs started by Start.
func NewRepairer(st store.Store, lock sync.Locker, log logger.Logger, interval time.Duration) *Repairer {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Repairer{
		store:    st,
		lock:     lock,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs once immediately, then on every interval tick
func (r *Repairer) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := r.Run(ctx); err != nil {
		r.logger.Warn("initial repair failed",
			logger.Error(err))
	}

	if r.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := r.Run(ctx); err != nil {
					r.logger.Error("repair failed",
						logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the periodic runs
func (r *Repairer) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Run repairs every stranded entry in one Apply.
//
// An entry with a real acquisition channel is migrated into the acquired
// collection. If a book with the same id already exists the entry is only
// deleted. Entries without a channel are reopened.
func (r *Repairer) Run(ctx context.Context) (Report, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	stranded, err := r.store.LoadStranded(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(stranded) == 0 {
		r.logger.Debug("no stranded wishlist entries")
		return Report{}, nil
	}

	ds, err := r.store.LoadAll(ctx)
	if err != nil {
		return Report{}, err
	}
	acquired := make(map[string]struct{}, len(ds.Acquired))
	for _, b := range ds.Acquired {
		acquired[b.ID] = struct{}{}
	}

	var (
		cs     domain.Changeset
		report Report
	)
	for _, e := range stranded {
		switch {
		case !e.AcquiredVia.Valid():
			reopened := *e
			reopened.Status = domain.StatusOpen
			reopened.AcquiredVia = ""
			cs.UpsertWishlist = append(cs.UpsertWishlist, &reopened)
			report.Reopened++

			r.logger.Info("reopened stranded wishlist entry",
				logger.String("id", e.ID),
				logger.String("title", e.Title))
		default:
			if _, exists := acquired[e.ID]; exists {
				report.Duplicates++
			} else {
				cs.UpsertAcquired = append(cs.UpsertAcquired, e.Promote())
				acquired[e.ID] = struct{}{}
				report.Migrated++
			}
			cs.DeleteWishlist = append(cs.DeleteWishlist, e.ID)

			r.logger.Info("migrated stranded wishlist entry",
				logger.String("id", e.ID),
				logger.String("title", e.Title),
				logger.String("via", string(e.AcquiredVia)))
		}
	}

	if err := r.store.Apply(ctx, cs); err != nil {
		return Report{}, err
	}

	r.logger.Info("repair completed",
		logger.Int("migrated", report.Migrated),
		logger.Int("reopened", report.Reopened),
		logger.Int("duplicates", report.Duplicates))

	return report, nil
}
