package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// DefaultDatabase and Collection name where MongoStore keeps runs.
const (
	DefaultDatabase = "antscheduler"
	Collection      = "runs"
)

// MongoStore persists records in MongoDB, one document per run.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects to uri and ensures the created_at index exists.
// An empty database name selects DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	runs := client.Database(database).Collection(Collection)
	if _, err := runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, runs: runs}, nil
}

func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	_, err := s.runs.ReplaceOne(ctx,
		bson.M{"_id": rec.ID},
		rec,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save run %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, apperrors.Wrap(apperrors.ErrCodeNotFound, ErrNotFound, "run %s", id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.runs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer cur.Close(ctx)

	out := []Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
