package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazypower/rememberme/internal/store"
)

type eventDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"eventName"`
	Date        time.Time          `bson:"eventDate"`
	Description string             `bson:"eventDescription,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d eventDoc) model() store.Event {
	return store.Event{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Date:        d.Date.UTC(),
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type events struct{ c *mongo.Collection }

func (r events) Create(ctx context.Context, e *store.Event) (*store.Event, error) {
	doc := eventDoc{
		ID:          primitive.NewObjectID(),
		Name:        e.Name,
		Date:        e.Date.UTC().Truncate(time.Millisecond),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.CreatedAt = doc.CreatedAt.UTC().Truncate(time.Millisecond)

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	out := doc.model()
	return &out, nil
}

func (r events) List(ctx context.Context, f store.EventFilter) ([]store.Event, error) {
	filter := bson.M{}
	if !f.From.IsZero() {
		filter["eventDate"] = bson.M{"$gte": f.From}
	}
	opts := options.Find().SetSort(bson.D{{Key: "eventDate", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]store.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}
