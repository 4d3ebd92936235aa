// Package document implements the generic document-store repository: the
// cursor-based pagination engine and the CRUD resource it powers.
package document

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edunote/edunote/internal/store/mongodb"
)

// Condition is a single structural predicate contributed by resource-specific
// logic (field equality, regex match, OR-group). Conditions combine with the
// page request to form the effective filter.
type Condition = bson.M

// FindOptions carries projection, sort, and limit for a Find call.
// A Limit of zero means no limit.
type FindOptions struct {
	Projection bson.M
	Sort       bson.D
	Limit      int64
}

// Executor is the minimal document execution contract the repository needs.
// FindOne returns mongo.ErrNoDocuments when nothing matches.
type Executor interface {
	Find(ctx context.Context, collection string, filter bson.M, opts FindOptions) ([]bson.M, error)
	FindOne(ctx context.Context, collection string, filter bson.M, projection bson.M) (bson.M, error)
	InsertOne(ctx context.Context, collection string, doc bson.M) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, collection string, filter bson.M, update bson.M) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error)
}

// MongoDBExecutor adapts the store/mongodb adapter to the Executor contract.
type MongoDBExecutor struct {
	adapter *mongodb.Adapter
}

// NewMongoDBExecutor creates a new MongoDBExecutor instance.
func NewMongoDBExecutor(adapter *mongodb.Adapter) (*MongoDBExecutor, error) {
	if adapter == nil {
		return nil, mongo.ErrNilDocument
	}
	return &MongoDBExecutor{adapter: adapter}, nil
}

// Find runs the query and drains the cursor into a slice.
func (e *MongoDBExecutor) Find(ctx context.Context, collection string, filter bson.M, opts FindOptions) ([]bson.M, error) {
	findOpts := options.Find()
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := e.adapter.Find(ctx, collection, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []bson.M
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne finds a single document matching the filter.
func (e *MongoDBExecutor) FindOne(ctx context.Context, collection string, filter bson.M, projection bson.M) (bson.M, error) {
	var opts []*options.FindOneOptions
	if len(projection) > 0 {
		opts = append(opts, options.FindOne().SetProjection(projection))
	}
	out := bson.M{}
	if err := e.adapter.FindOne(ctx, collection, filter, &out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertOne inserts the document and returns its assigned identifier.
func (e *MongoDBExecutor) InsertOne(ctx context.Context, collection string, doc bson.M) (primitive.ObjectID, error) {
	result, err := e.adapter.InsertOne(ctx, collection, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, mongo.ErrUnacknowledgedWrite
	}
	return id, nil
}

// UpdateOne updates a single document and returns the matched count.
func (e *MongoDBExecutor) UpdateOne(ctx context.Context, collection string, filter bson.M, update bson.M) (int64, error) {
	result, err := e.adapter.UpdateOne(ctx, collection, filter, update)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

// DeleteOne deletes a single document and returns the deleted count.
func (e *MongoDBExecutor) DeleteOne(ctx context.Context, collection string, filter bson.M) (int64, error) {
	result, err := e.adapter.DeleteOne(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
