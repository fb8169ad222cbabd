package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/tripboard/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps records as documents in one collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore uses collection in db. The client is closed by Close.
func NewMongoStore(client *mongo.Client, db, collection string) *MongoStore {
	return &MongoStore{client: client, coll: client.Database(db).Collection(collection)}
}

// ListAll returns every document sorted by created_at descending.
func (s *MongoStore) ListAll(ctx context.Context) ([]model.FeedbackRecord, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	var out []model.FeedbackRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return out, nil
}

// Insert stores rec.
func (s *MongoStore) Insert(ctx context.Context, rec model.FeedbackRecord) error {
	if _, err := s.coll.InsertOne(ctx, mongoDocument(rec, time.Now())); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// mongoDocument fills in what a Postgres column default would: the id and
// created_at. Sections are always stored as an array.
func mongoDocument(rec model.FeedbackRecord, now time.Time) model.FeedbackRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
	if rec.SectionFeedback == nil {
		rec.SectionFeedback = []model.SectionFeedback{}
	}
	return rec
}
