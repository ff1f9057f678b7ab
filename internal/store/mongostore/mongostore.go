// Package mongostore keeps tasks in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

var _ store.TaskStore = (*Store)(nil)

// Options locate the collection and bound every call.
type Options struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	OpTimeout      time.Duration
}

// Store is a TaskStore over one MongoDB collection.
type Store struct {
	client    *mongo.Client
	coll      *mongo.Collection
	opTimeout time.Duration
}

// New connects and pings the server before returning.
func New(ctx context.Context, opt Options) (*Store, error) {
	clientOpts := options.Client().ApplyURI(opt.URI)
	if opt.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opt.ConnectTimeout).
			SetServerSelectionTimeout(opt.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	pingCtx := ctx
	if opt.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opt.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &Store{
		client:    client,
		coll:      client.Database(opt.Database).Collection(opt.Collection),
		opTimeout: opt.OpTimeout,
	}, nil
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Store) Add(ctx context.Context, t *model.Task) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, newDocument(*t))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert task: unexpected id type %T", res.InsertedID)
	}

	t.ID = oid.Hex()
	t.Completed = false
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]model.Task, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]model.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.task())
	}
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, completed bool) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{{Key: Key(model.FieldCompleted), Value: completed}}}}
	res, err := s.coll.UpdateOne(ctx, byID(oid), update)
	if err != nil {
		return false, fmt.Errorf("update status of %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, f model.Fields) (bool, error) {
	if f.Empty() {
		return false, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx, byID(oid), bson.D{{Key: "$set", Value: setFields(f)}})
	if err != nil {
		return false, fmt.Errorf("update fields of %s: %w", id, err)
	}
	return res.ModifiedCount == 1, nil
}

// ToggleStatus negates the flag server-side in a single update pipeline.
// A missing flag counts as false.
func (s *Store) ToggleStatus(ctx context.Context, id string) (model.Task, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Task{}, false, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	key := Key(model.FieldCompleted)
	flip := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: key, Value: bson.D{{Key: "$not", Value: bson.A{"$" + key}}}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document
	err = s.coll.FindOneAndUpdate(ctx, byID(oid), flip, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, fmt.Errorf("toggle status of %s: %w", id, err)
	}
	return doc.task(), true, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, byID(oid))
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", id, err)
	}
	return res.DeletedCount == 1, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
