package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// Collection is the MongoDB collection holding layouts.
const Collection = "table_layouts"

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "seatmap"

// MongoStore stores layouts in MongoDB.
type MongoStore struct {
	base
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri and uses database db. The connection is
// verified with a ping and the owner index is created if missing.
func NewMongoStore(ctx context.Context, uri, db string, opts ...Option) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	s, err := NewMongoStoreFromClient(ctx, client, db, opts...)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close leaves the client
// connected.
func NewMongoStoreFromClient(ctx context.Context, client *mongo.Client, db string, opts ...Option) (*MongoStore, error) {
	if db == "" {
		db = DefaultDatabase
	}
	coll := client.Database(db).Collection(Collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create owner index")
	}
	return &MongoStore{base: newBase(opts), client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, ownerID, name string, tables []floor.Table) (string, error) {
	doc, err := s.prepare(ownerID, name, tables)
	if err != nil {
		return "", err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "insert layout")
	}
	return doc.ID, nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*document.Document, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	res := s.coll.FindOne(ctx, bson.M{"_id": id})
	raw, err := res.Raw()
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find layout")
	}

	var doc document.Document
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, err, "decode layout")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns summaries using a projection that leaves the tables on the
// server and counts them there.
func (s *MongoStore) List(ctx context.Context, ownerID string) ([]document.Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerId": ownerID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"ownerId":    1,
			"name":       1,
			"createdAt":  1,
			"updatedAt":  1,
			"tableCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$tables", bson.A{}}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	defer cur.Close(ctx)

	out := []document.Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layout summaries")
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout")
	}
	if res.DeletedCount > 0 {
		return nil
	}

	// Nothing matched: tell a missing layout apart from someone else's.
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout")
	}
	if n == 0 {
		return notFound(id)
	}
	return forbidden(id)
}

// Close disconnects the client if this store created it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
