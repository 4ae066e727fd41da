package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/MrSnakeDoc/bookshelf/internal/domain"
)

type wishDoc struct {
	ID          string `bson:"_id"`
	Title       string `bson:"title"`
	Author      string `bson:"author"`
	Genre       string `bson:"genre"`
	Nationality string `bson:"nationality,omitempty"`
	WishDate    string `bson:"wishDate"`
	Status      string `bson:"status"`
	AcquiredVia string `bson:"acquiredVia,omitempty"`
	Seq         int64  `bson:"seq"`
}

type noteDoc struct {
	Text string `bson:"text"`
	Time string `bson:"time"`
}

type bookDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Author      string    `bson:"author"`
	Genre       string    `bson:"genre"`
	Nationality string    `bson:"nationality,omitempty"`
	WishDate    string    `bson:"wishDate,omitempty"`
	AcquiredVia string    `bson:"acquiredVia"`
	ReadDates   readDates `bson:"readDates"`
	Notes       []noteDoc `bson:"notes"`
	Seq         int64     `bson:"seq"`
}

// counterDoc holds the last insertion sequence handed out
type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// readDates decodes either a single date string or an array of them.
type readDates []string

func (r *readDates) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*r = readDates{}
		return nil
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("readDates: malformed string value")
		}
		if s == "" {
			*r = readDates{}
			return nil
		}
		*r = readDates{s}
		return nil
	case bsontype.Array:
		var list []string
		if err := raw.Unmarshal(&list); err != nil {
			return fmt.Errorf("readDates: %w", err)
		}
		*r = readDates(list)
		return nil
	default:
		return fmt.Errorf("readDates: unsupported bson type %s", t)
	}
}

func toWishDoc(e *domain.WishlistEntry, seq int64) wishDoc {
	return wishDoc{
		ID:          e.ID,
		Title:       e.Title,
		Author:      e.Author,
		Genre:       e.Genre,
		Nationality: e.Nationality,
		WishDate:    e.WishDate,
		Status:      string(e.Status),
		AcquiredVia: string(e.AcquiredVia),
		Seq:         seq,
	}
}

func (d wishDoc) toDomain() *domain.WishlistEntry {
	return &domain.WishlistEntry{
		ID:          d.ID,
		Title:       d.Title,
		Author:      d.Author,
		Genre:       d.Genre,
		Nationality: d.Nationality,
		WishDate:    d.WishDate,
		Status:      domain.Status(d.Status),
		AcquiredVia: domain.AcquiredVia(d.AcquiredVia),
	}
}

func toBookDoc(b *domain.AcquiredBook, seq int64) bookDoc {
	notes := make([]noteDoc, 0, len(b.Notes))
	for _, n := range b.Notes {
		notes = append(notes, noteDoc{Text: n.Text, Time: n.Time})
	}
	return bookDoc{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Nationality: b.Nationality,
		WishDate:    b.WishDate,
		AcquiredVia: string(b.AcquiredVia),
		ReadDates:   append(readDates{}, b.ReadDates...),
		Notes:       notes,
		Seq:         seq,
	}
}

func (d bookDoc) toDomain() *domain.AcquiredBook {
	notes := make([]domain.Note, 0, len(d.Notes))
	for _, n := range d.Notes {
		notes = append(notes, domain.Note{Text: n.Text, Time: n.Time})
	}
	return &domain.AcquiredBook{
		ID:          d.ID,
		Title:       d.Title,
		Author:      d.Author,
		Genre:       d.Genre,
		Nationality: d.Nationality,
		WishDate:    d.WishDate,
		AcquiredVia: domain.AcquiredVia(d.AcquiredVia),
		ReadDates:   append(domain.ReadDates{}, d.ReadDates...),
		Notes:       notes,
	}
}

// upsertUpdate writes every field of doc but only sets seq on insert,
// so an updated record keeps its position.
func upsertUpdate(doc interface{}, seq int64) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	delete(fields, "_id")
	delete(fields, "seq")

	return bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"seq": seq},
	}, nil
}
