// Package mongo implementa el Repository contra MongoDB (Atlas o self-hosted).
// El estado vive en un único documento {_id: "main"} de la colección states.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Gabichuelo/estudio-dj-api/internal/store"
)

const collectionName = "states"

// Timeouts de conexión heredados del despliegue original (mongoose):
// serverSelectionTimeoutMS=5000, connectTimeoutMS=10000.
const (
	serverSelectionTimeout = 5 * time.Second
	connectTimeout         = 10 * time.Second
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// stateDoc es el documento persistido: StateRecord más la clave fija.
type stateDoc struct {
	ID string `bson:"_id"`
	store.StateRecord `bson:",inline"`
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = "estudio"
	}
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	s := &Store{
		client: client,
		coll:   client.Database(database).Collection(collectionName),
	}
	return s, nil
}

func (s *Store) Read(ctx context.Context) (store.StateRecord, error) {
	var doc stateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": store.StateID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.DefaultState(), nil
	}
	if err != nil {
		return store.StateRecord{}, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return doc.StateRecord.Normalize(), nil
}

func (s *Store) Replace(ctx context.Context, rec store.StateRecord) error {
	doc := stateDoc{ID: store.StateID, StateRecord: rec.Normalize()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": store.StateID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
