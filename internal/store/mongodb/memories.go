package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazypower/rememberme/internal/store"
)

type memoryDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PersonName   string             `bson:"personName"`
	Relationship string             `bson:"relationship"`
	MemoryText   string             `bson:"memoryText"`
	Tags         []string           `bson:"tags"`
}

func (d memoryDoc) model() *store.Memory {
	return &store.Memory{
		ID:           d.ID.Hex(),
		PersonName:   d.PersonName,
		Relationship: d.Relationship,
		MemoryText:   d.MemoryText,
		Tags:         d.Tags,
	}
}

type memories struct{ c *mongo.Collection }

func (r memories) Create(ctx context.Context, m *store.Memory) (*store.Memory, error) {
	doc := memoryDoc{
		ID:           primitive.NewObjectID(),
		PersonName:   m.PersonName,
		Relationship: m.Relationship,
		MemoryText:   m.MemoryText,
		Tags:         m.Tags,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	return doc.model(), nil
}

func (r memories) Get(ctx context.Context, id string) (*store.Memory, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc memoryDoc
	err = r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find memory: %w", err)
	}
	return doc.model(), nil
}

func (r memories) List(ctx context.Context, f store.MemoryFilter) ([]store.Memory, error) {
	filter := bson.M{}
	if f.PersonName != "" {
		filter["personName"] = f.PersonName
	}
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find memories: %w", err)
	}
	var docs []memoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}

	out := make([]store.Memory, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.model())
	}
	return out, nil
}

// Update sets only the supplied fields and returns the document after the change.
func (r memories) Update(ctx context.Context, id string, p store.MemoryPatch) (*store.Memory, error) {
	if p.Empty() {
		return r.Get(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if p.PersonName != nil {
		set["personName"] = *p.PersonName
	}
	if p.Relationship != nil {
		set["relationship"] = *p.Relationship
	}
	if p.MemoryText != nil {
		set["memoryText"] = *p.MemoryText
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}

	var doc memoryDoc
	err = r.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}
	return doc.model(), nil
}

func (r memories) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Random lets the server pick with $sample instead of counting then skipping.
func (r memories) Random(ctx context.Context) (*store.Memory, error) {
	cur, err := r.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("sample memory: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("sample memory: %w", err)
		}
		return nil, store.ErrNotFound
	}
	var doc memoryDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sampled memory: %w", err)
	}
	return doc.model(), nil
}
