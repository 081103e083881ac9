package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "datasprout"
	DefaultMongoCollection = "runs"

	mongoConnectTimeout = 10 * time.Second
)

// MongoStore keeps records in a MongoDB collection, one document per run.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses collection runs of database
// datasprout. The connection is verified with a ping and the listing
// index is created if missing.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	s := NewMongoStoreFromCollection(client.Database(DefaultMongoDatabase).Collection(DefaultMongoCollection))
	s.client = client
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromCollection wraps an existing collection. Close does not
// disconnect the caller's client.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "summary.dataset", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create mongo index")
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save record %s", rec.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get record %s", id)
	}
	return &rec, nil
}

func (s *MongoStore) List(ctx context.Context, q Query) ([]*Record, error) {
	filter := bson.M{}
	if q.Dataset != "" {
		filter["summary.dataset"] = q.Dataset
	}
	if q.Mode != "" {
		filter["summary.mode"] = q.Mode
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(q.limit()))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list records")
	}

	var out []*Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode records")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete record %s", id)
	}
	return nil
}

// Close disconnects the client when the store owns it.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
