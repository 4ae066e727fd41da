package redis

const (
	// KeyPrefixWish is the prefix for wishlist entry keys
	KeyPrefixWish = "bookshelf:wish:"
	// KeyPrefixBook is the prefix for acquired book keys
	KeyPrefixBook = "bookshelf:book:"
	// KeyAllWishlist is the key for the sorted set of all wishlist entry IDs
	KeyAllWishlist = "bookshelf:wishlist:all"
	// KeyAllBooks is the key for the sorted set of all acquired book IDs
	KeyAllBooks = "bookshelf:books:all"
	// KeySequence is the counter that scores new members of both sorted sets
	KeySequence = "bookshelf:seq"
)

// WishKey returns the Redis key for a wishlist entry by ID
func WishKey(id string) string {
	return KeyPrefixWish + id
}

// BookKey returns the Redis key for an acquired book by ID
func BookKey(id string) string {
	return KeyPrefixBook + id
}

// AllWishlistKey returns the key for the sorted set of all wishlist entry IDs
func AllWishlistKey() string {
	return KeyAllWishlist
}

// AllBooksKey returns the key for the sorted set of all acquired book IDs
func AllBooksKey() string {
	return KeyAllBooks
}

// SequenceKey returns the key of the insertion counter
func SequenceKey() string {
	return KeySequence
}
