// Package mongo stores the collections in MongoDB, the backend the
// application originally ran on.
package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
	"github.com/MrSnakeDoc/bookshelf/internal/store"
)

const (
	// CollectionWishlist holds wishlist entries
	CollectionWishlist = "wishlist"
	// CollectionBooks holds acquired books
	CollectionBooks = "read_books"
	// CollectionCounters holds the insertion sequence
	CollectionCounters = "counters"

	sequenceID = "records"
)

// Store reads and writes the two collections of one database.
type Store struct {
	client   *mongo.Client
	wishlist *mongo.Collection
	books    *mongo.Collection
	counters *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// NewStore binds the store to database db
func NewStore(client *mongo.Client, db string) *Store {
	database := client.Database(db)
	return &Store{
		client:   client,
		wishlist: database.Collection(CollectionWishlist),
		books:    database.Collection(CollectionBooks),
		counters: database.Collection(CollectionCounters),
	}
}

// bySeq returns records in insertion order
func bySeq() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
}

// LoadAll finds open wishlist entries and all acquired books
func (s *Store) LoadAll(ctx context.Context) (domain.Dataset, error) {
	wishlist, err := s.findWishlist(ctx, bson.M{"status": string(domain.StatusOpen)})
	if err != nil {
		return domain.Dataset{}, err
	}

	cur, err := s.books.Find(ctx, bson.M{}, bySeq())
	if err != nil {
		return domain.Dataset{}, domain.Unreachable("find acquired books", err)
	}
	var docs []bookDoc
	if err := cur.All(ctx, &docs); err != nil {
		return domain.Dataset{}, domain.Unreachable("decode acquired books", err)
	}

	books := make([]*domain.AcquiredBook, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toDomain())
	}

	return domain.Dataset{Wishlist: wishlist, Acquired: books}, nil
}

// LoadStranded finds wishlist entries marked done
func (s *Store) LoadStranded(ctx context.Context) ([]*domain.WishlistEntry, error) {
	return s.findWishlist(ctx, bson.M{"status": string(domain.StatusDone)})
}

func (s *Store) findWishlist(ctx context.Context, filter bson.M) ([]*domain.WishlistEntry, error) {
	cur, err := s.wishlist.Find(ctx, filter, bySeq())
	if err != nil {
		return nil, domain.Unreachable("find wishlist", err)
	}
	var docs []wishDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unreachable("decode wishlist", err)
	}

	entries := make([]*domain.WishlistEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.toDomain())
	}
	return entries, nil
}

// ReplaceAll empties both collections, then inserts ds in its order.
// Records without an id get one before anything is deleted.
//
// MongoDB gives no atomicity across the delete and insert phases here:
// a failure after the first delete returns ErrPartialWrite and may leave
// the collections empty.
func (s *Store) ReplaceAll(ctx context.Context, ds domain.Dataset) error {
	wishDocs, bookDocs := replaceDocs(ds)

	if _, err := s.wishlist.DeleteMany(ctx, bson.M{}); err != nil {
		return domain.Unreachable("clear wishlist", err)
	}
	if _, err := s.books.DeleteMany(ctx, bson.M{}); err != nil {
		return partialWrite("clear acquired books", err)
	}

	if len(wishDocs) > 0 {
		if _, err := s.wishlist.InsertMany(ctx, wishDocs); err != nil {
			return partialWrite("insert wishlist", err)
		}
	}
	if len(bookDocs) > 0 {
		if _, err := s.books.InsertMany(ctx, bookDocs); err != nil {
			return partialWrite("insert acquired books", err)
		}
	}

	// later inserts must sort after everything written here
	last := int64(max(len(wishDocs), len(bookDocs)))
	_, err := s.counters.UpdateOne(ctx,
		bson.M{"_id": sequenceID},
		bson.M{"$max": bson.M{"seq": last}},
		options.Update().SetUpsert(true))
	if err != nil {
		return partialWrite("update sequence", err)
	}

	return nil
}

// replaceDocs assigns missing ids and numbers both collections from 1
func replaceDocs(ds domain.Dataset) (wishDocs, bookDocs []interface{}) {
	ds.EnsureIDs(uuid.NewString)

	wishDocs = make([]interface{}, 0, len(ds.Wishlist))
	for i, e := range ds.Wishlist {
		wishDocs = append(wishDocs, toWishDoc(e, int64(i+1)))
	}
	bookDocs = make([]interface{}, 0, len(ds.Acquired))
	for i, b := range ds.Acquired {
		bookDocs = append(bookDocs, toBookDoc(b, int64(i+1)))
	}
	return wishDocs, bookDocs
}

// reserve hands out n sequence numbers and returns the one before the first
func (s *Store) reserve(ctx context.Context, n int) (int64, error) {
	var c counterDoc
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": sequenceID},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq - int64(n), nil
}

// Apply upserts and deletes records one by one.
// Acquired books are written before wishlist deletions, so an interrupted
// promotion leaves a duplicate rather than losing the book.
// New records are appended; updated ones keep their position.
func (s *Store) Apply(ctx context.Context, cs domain.Changeset) error {
	if cs.Empty() {
		return nil
	}

	var seq int64
	if n := len(cs.UpsertAcquired) + len(cs.UpsertWishlist); n > 0 {
		first, err := s.reserve(ctx, n)
		if err != nil {
			return domain.Unreachable("reserve sequence", err)
		}
		seq = first
	}

	written := 0
	fail := func(op string, err error) error {
		if written == 0 {
			return domain.Unreachable(op, err)
		}
		return partialWrite(op, err)
	}

	upsert := options.Update().SetUpsert(true)

	for _, b := range cs.UpsertAcquired {
		seq++
		update, err := upsertUpdate(toBookDoc(b, seq), seq)
		if err != nil {
			return fail("upsert acquired book "+b.ID, err)
		}
		if _, err := s.books.UpdateOne(ctx, bson.M{"_id": b.ID}, update, upsert); err != nil {
			return fail("upsert acquired book "+b.ID, err)
		}
		written++
	}
	for _, e := range cs.UpsertWishlist {
		seq++
		update, err := upsertUpdate(toWishDoc(e, seq), seq)
		if err != nil {
			return fail("upsert wishlist entry "+e.ID, err)
		}
		if _, err := s.wishlist.UpdateOne(ctx, bson.M{"_id": e.ID}, update, upsert); err != nil {
			return fail("upsert wishlist entry "+e.ID, err)
		}
		written++
	}
	for _, id := range cs.DeleteWishlist {
		if _, err := s.wishlist.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			return fail("delete wishlist entry "+id, err)
		}
		written++
	}

	return nil
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return domain.Unreachable("ping", err)
	}
	return nil
}

func partialWrite(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPartialWrite, op, err)
}
