package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	BaseURL    string
	// TTL removes bundles this long after creation via a TTL index; 0 keeps them.
	TTL time.Duration
}

// MongoStore keeps bundles as documents in a MongoDB collection.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	baseURL string
}

// NewMongoStore connects to MongoDB, pings it and ensures the TTL index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo store: uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = "zbuilder"
	}
	if cfg.Collection == "" {
		cfg.Collection = "bundles"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	if cfg.TTL > 0 {
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cfg.TTL / time.Second)),
		})
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("create ttl index: %w", err)
		}
	}
	return &MongoStore{client: client, coll: coll, baseURL: cfg.BaseURL}, nil
}

// Publish inserts data as a new document.
func (s *MongoStore) Publish(ctx context.Context, filename string, data []byte) (string, error) {
	b := newBlob(filename, data)
	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		return "", fmt.Errorf("insert bundle: %w", err)
	}
	return DownloadURL(s.baseURL, b.ID), nil
}

// Get loads the document with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Blob, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	var b Blob
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find bundle: %w", err)
	}
	return &b, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
