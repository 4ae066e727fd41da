package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/store"
)

// Store keeps each record as a JSON document under its own key,
// plus one sorted set of IDs per collection. Scores come from a shared
// counter, so a load returns records in insertion order.
type Store struct {
	client *redis.Client
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// LoadAll retrieves the open wishlist entries and all acquired books
func (s *Store) LoadAll(ctx context.Context) (domain.Dataset, error) {
	wishlist, err := s.loadWishlist(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}

	books, err := loadDocs[domain.AcquiredBook](ctx, s.client, AllBooksKey(), BookKey)
	if err != nil {
		return domain.Dataset{}, domain.Unreachable("load acquired books", err)
	}

	ds := domain.Dataset{Wishlist: wishlist, Acquired: books}
	return domain.Dataset{Wishlist: ds.OpenWishlist(), Acquired: ds.Acquired}, nil
}

// LoadStranded retrieves wishlist entries marked done
func (s *Store) LoadStranded(ctx context.Context) ([]*domain.WishlistEntry, error) {
	all, err := s.loadWishlist(ctx)
	if err != nil {
		return nil, err
	}

	var stranded []*domain.WishlistEntry
	for _, e := range all {
		if e.Status == domain.StatusDone {
			stranded = append(stranded, e)
		}
	}
	return stranded, nil
}

func (s *Store) loadWishlist(ctx context.Context) ([]*domain.WishlistEntry, error) {
	entries, err := loadDocs[domain.WishlistEntry](ctx, s.client, AllWishlistKey(), WishKey)
	if err != nil {
		return nil, domain.Unreachable("load wishlist", err)
	}
	return entries, nil
}

// ReplaceAll deletes every record and writes ds inside one MULTI/EXEC,
// so readers never observe the empty intermediate state.
// Records keep the order of ds; those without an id get one.
func (s *Store) ReplaceAll(ctx context.Context, ds domain.Dataset) error {
	ds.EnsureIDs(uuid.NewString)

	wishDocs, err := marshalAll(ds.Wishlist, func(e *domain.WishlistEntry) string { return e.ID })
	if err != nil {
		return err
	}
	bookDocs, err := marshalAll(ds.Acquired, func(b *domain.AcquiredBook) string { return b.ID })
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		oldWish, err := tx.ZRange(ctx, AllWishlistKey(), 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to get wishlist IDs: %w", err)
		}
		oldBooks, err := tx.ZRange(ctx, AllBooksKey(), 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to get book IDs: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range oldWish {
				pipe.Del(ctx, WishKey(id))
			}
			for _, id := range oldBooks {
				pipe.Del(ctx, BookKey(id))
			}
			pipe.Del(ctx, AllWishlistKey(), AllBooksKey())

			// empty collections get no insert
			for i, d := range wishDocs {
				pipe.Set(ctx, WishKey(d.id), d.data, 0)
				pipe.ZAdd(ctx, AllWishlistKey(), redis.Z{Score: float64(i + 1), Member: d.id})
			}
			for i, d := range bookDocs {
				pipe.Set(ctx, BookKey(d.id), d.data, 0)
				pipe.ZAdd(ctx, AllBooksKey(), redis.Z{Score: float64(i + 1), Member: d.id})
			}
			pipe.Set(ctx, SequenceKey(), max(len(wishDocs), len(bookDocs)), 0)
			return nil
		})
		return err
	}, AllWishlistKey(), AllBooksKey(), SequenceKey())
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("failed to replace dataset: concurrent modification: %w", err)
		}
		return domain.Unreachable("replace dataset", err)
	}

	return nil
}

// Apply writes one interaction's records in a single transaction.
// New records are appended; updated ones keep their position.
func (s *Store) Apply(ctx context.Context, cs domain.Changeset) error {
	if cs.Empty() {
		return nil
	}

	wishDocs, err := marshalAll(cs.UpsertWishlist, func(e *domain.WishlistEntry) string { return e.ID })
	if err != nil {
		return err
	}
	bookDocs, err := marshalAll(cs.UpsertAcquired, func(b *domain.AcquiredBook) string { return b.ID })
	if err != nil {
		return err
	}

	// Reserve one score per upsert; scores of existing members are left alone
	var seq int64
	if n := int64(len(bookDocs) + len(wishDocs)); n > 0 {
		last, err := s.client.IncrBy(ctx, SequenceKey(), n).Result()
		if err != nil {
			return domain.Unreachable("reserve sequence", err)
		}
		seq = last - n
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range bookDocs {
			seq++
			pipe.Set(ctx, BookKey(d.id), d.data, 0)
			pipe.ZAddNX(ctx, AllBooksKey(), redis.Z{Score: float64(seq), Member: d.id})
		}
		for _, d := range wishDocs {
			seq++
			pipe.Set(ctx, WishKey(d.id), d.data, 0)
			pipe.ZAddNX(ctx, AllWishlistKey(), redis.Z{Score: float64(seq), Member: d.id})
		}
		for _, id := range cs.DeleteWishlist {
			pipe.Del(ctx, WishKey(id))
			pipe.ZRem(ctx, AllWishlistKey(), id)
		}
		return nil
	})
	if err != nil {
		return domain.Unreachable("apply changes", err)
	}

	return nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return domain.Unreachable("ping", err)
	}
	return nil
}

type doc struct {
	id   string
	data []byte
}

func marshalAll[T any](records []*T, id func(*T) string) ([]doc, error) {
	docs := make([]doc, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record %s: %w", id(r), err)
		}
		docs = append(docs, doc{id: id(r), data: data})
	}
	return docs, nil
}

// loadDocs reads every document referenced by the sorted set at setKey, in score order.
// IDs whose document is missing or unreadable are skipped.
func loadDocs[T any](ctx context.Context, client *redis.Client, setKey string, key func(string) string) ([]*T, error) {
	ids, err := client.ZRange(ctx, setKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get IDs from %s: %w", setKey, err)
	}

	if len(ids) == 0 {
		return []*T{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}

	out := make([]*T, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Skip dangling IDs
			continue
		}
		var rec T
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		out = append(out, &rec)
	}

	return out, nil
}
