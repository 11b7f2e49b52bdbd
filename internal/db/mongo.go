package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB at uri and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// stateDocument is one persisted key. The value is kept as JSON text so the
// stored shape matches what the other stores hold.
type stateDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore is a KeyValue over a MongoDB collection. It backs local-scoped
// state that must survive restarts: the session and the reception form draft.
type MongoStore struct {
	Collection *mongo.Collection
}

// NewMongoStore uses the portal_state collection of database dbName.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{Collection: client.Database(dbName).Collection("portal_state")}
}

// Get decodes the value under key into out.
func (s *MongoStore) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	if s.Collection == nil {
		return false, ErrNilStore
	}
	var doc stateDocument
	err := s.Collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc.Value), out); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set upserts value under key.
func (s *MongoStore) Set(ctx context.Context, key string, value interface{}) error {
	if s.Collection == nil {
		return ErrNilStore
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	doc := stateDocument{Key: key, Value: string(raw), UpdatedAt: time.Now()}
	_, err = s.Collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete removes key.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if s.Collection == nil {
		return ErrNilStore
	}
	_, err := s.Collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
