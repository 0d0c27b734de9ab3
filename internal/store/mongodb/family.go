package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazypower/rememberme/internal/store"
)

type familyDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PersonName   string             `bson:"personName"`
	Relationship string             `bson:"relationship"`
}

type family struct{ c *mongo.Collection }

func (r family) Create(ctx context.Context, m *store.FamilyMember) (*store.FamilyMember, error) {
	doc := familyDoc{
		ID:           primitive.NewObjectID(),
		PersonName:   m.PersonName,
		Relationship: m.Relationship,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}
	return &store.FamilyMember{ID: doc.ID.Hex(), PersonName: doc.PersonName, Relationship: doc.Relationship}, nil
}

// List returns members in insertion order (ObjectIDs are time-ordered).
func (r family) List(ctx context.Context) ([]store.FamilyMember, error) {
	cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find family members: %w", err)
	}
	var docs []familyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode family members: %w", err)
	}

	out := make([]store.FamilyMember, 0, len(docs))
	for _, d := range docs {
		out = append(out, store.FamilyMember{ID: d.ID.Hex(), PersonName: d.PersonName, Relationship: d.Relationship})
	}
	return out, nil
}
