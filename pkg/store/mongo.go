package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultDatabase   = "screenflow"
	DefaultCollection = "diagrams"
)

// MongoStore keeps records in a MongoDB collection keyed by name. The
// diagram itself is stored as JSON so its wire shape stays the same across
// backends.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Name      string    `bson:"_id"`
	ID        string    `bson:"id"`
	Tier      string    `bson:"tier"`
	Diagram   []byte    `bson:"diagram"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and verifies the connection. An empty
// database selects [DefaultDatabase].
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if database == "" {
		database = DefaultDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}, nil
}

// Put implements [Store] with an upsert on the name.
func (s *MongoStore) Put(ctx context.Context, r Record) (Record, bool, error) {
	r, err := prepare(r)
	if err != nil {
		return Record{}, false, err
	}
	data, err := json.Marshal(r.Diagram)
	if err != nil {
		return Record{}, false, fmt.Errorf("marshal diagram: %w", err)
	}
	doc := mongoRecord{Name: r.Name, ID: r.ID, Tier: r.Tier, Diagram: data, UpdatedAt: r.UpdatedAt}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, false, fmt.Errorf("store diagram %q: %w", r.Name, err)
	}
	return r, res.MatchedCount > 0, nil
}

// Get implements [Store].
func (s *MongoStore) Get(ctx context.Context, name string) (Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load diagram %q: %w", name, err)
	}
	return doc.record()
}

// Delete implements [Store].
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete diagram %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List implements [Store].
func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		r, err := d.record()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (d mongoRecord) record() (Record, error) {
	r := Record{ID: d.ID, Name: d.Name, Tier: d.Tier, UpdatedAt: d.UpdatedAt}
	if err := json.Unmarshal(d.Diagram, &r.Diagram); err != nil {
		return Record{}, fmt.Errorf("decode diagram %q: %w", d.Name, err)
	}
	return r, nil
}

var _ Store = (*MongoStore)(nil)
