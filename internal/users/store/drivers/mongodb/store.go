// Package mongodb implements store.Store on MongoDB. Documents use the ULID
// string as _id, so id order is creation order.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/userapi/internal/users/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names
const (
	ColUsers = "users"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri and selects dbName. The connection is verified
// with a ping before returning.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Users() store.Users { return &usersRepo{col: s.col(ColUsers)} }

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ApplyMigrations creates the indexes the repos depend on. CreateMany is a
// no-op for indexes that already exist with the same keys and options.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	type index struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []index{
		{ColUsers, bson.D{{Key: "username", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "role", Value: 1}}, false},
	}

	for _, ix := range indexes {
		model := mongo.IndexModel{
			Keys:    ix.keys,
			Options: options.Index().SetUnique(ix.unique),
		}
		if _, err := s.col(ix.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("mongo: create index on %s: %w", ix.col, err)
		}
	}
	return nil
}

// drop removes the whole database. Tests only.
func (s *Store) drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}
