package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lazypower/rememberme/internal/store"
)

// patientDoc is keyed by store.PatientKey rather than an ObjectID.
type patientDoc struct {
	ID                 string   `bson:"_id"`
	Name               string   `bson:"name"`
	Age                *int     `bson:"age,omitempty"`
	FavoriteActivities []string `bson:"favoriteActivities"`
	NotableLifeEvents  []string `bson:"notableLifeEvents"`
	Hobbies            []string `bson:"hobbies"`
	MedicalNotes       string   `bson:"medicalNotes,omitempty"`
}

type patient struct{ c *mongo.Collection }

func (r patient) Get(ctx context.Context) (*store.PatientInfo, error) {
	var doc patientDoc
	err := r.c.FindOne(ctx, bson.M{"_id": store.PatientKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find patient info: %w", err)
	}
	return &store.PatientInfo{
		ID:                 doc.ID,
		Name:               doc.Name,
		Age:                doc.Age,
		FavoriteActivities: doc.FavoriteActivities,
		NotableLifeEvents:  doc.NotableLifeEvents,
		Hobbies:            doc.Hobbies,
		MedicalNotes:       doc.MedicalNotes,
	}, nil
}

// Save replaces the keyed document wholesale. Asking for the pre-image tells
// us whether the upsert inserted.
func (r patient) Save(ctx context.Context, p *store.PatientInfo) (*store.PatientInfo, bool, error) {
	doc := patientDoc{
		ID:                 store.PatientKey,
		Name:               p.Name,
		Age:                p.Age,
		FavoriteActivities: p.FavoriteActivities,
		NotableLifeEvents:  p.NotableLifeEvents,
		Hobbies:            p.Hobbies,
		MedicalNotes:       p.MedicalNotes,
	}

	created := false
	err := r.c.FindOneAndReplace(ctx,
		bson.M{"_id": store.PatientKey},
		doc,
		options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.Before),
	).Err()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("save patient info: %w", err)
	}

	out := *p
	out.ID = store.PatientKey
	return &out, created, nil
}
