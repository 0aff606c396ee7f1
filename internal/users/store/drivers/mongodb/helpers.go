package mongodb

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/userapi/internal/users/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// wrapError maps driver errors to store errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (T, error) {
	var result T
	err := col.FindOne(ctx, filter).Decode(&result)
	return result, wrapError(err)
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(err)
	}

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func insertOne(ctx context.Context, col *mongo.Collection, doc any) error {
	_, err := col.InsertOne(ctx, doc)
	return wrapError(err)
}

// updateFields applies $set to the document with the given _id and returns
// the document after the update.
func updateFields[T any](ctx context.Context, col *mongo.Collection, id string, set bson.D) (T, error) {
	var result T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := col.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&result)
	return result, wrapError(err)
}

// deleteByID removes the document with the given _id and returns it.
func deleteByID[T any](ctx context.Context, col *mongo.Collection, id string) (T, error) {
	var result T
	err := col.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&result)
	return result, wrapError(err)
}
