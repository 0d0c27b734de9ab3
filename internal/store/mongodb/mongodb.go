// Package mongodb is the document-store backend. Collection and field names
// match the ones the mongoose models used, so existing data stays readable.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lazypower/rememberme/internal/store"
)

const (
	eventsCollection   = "events"
	familyCollection   = "familytrees"
	memoryCollection   = "memories"
	patientCollection  = "patientinfos"
	defaultDialTimeout = 10 * time.Second
)

// Store is a store.Store backed by one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Open connects to uri, verifies the connection and ensures indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventDate", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create eventDate index: %w", err)
	}
	_, err = s.db.Collection(memoryCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "personName", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create personName index: %w", err)
	}
	return nil
}

func (s *Store) Events() store.Events     { return events{s.db.Collection(eventsCollection)} }
func (s *Store) Family() store.Family     { return family{s.db.Collection(familyCollection)} }
func (s *Store) Memories() store.Memories { return memories{s.db.Collection(memoryCollection)} }
func (s *Store) Patient() store.Patient   { return patient{s.db.Collection(patientCollection)} }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// objectID parses a hex identifier. Malformed ids cannot match any
// document, so they surface as store.ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}
