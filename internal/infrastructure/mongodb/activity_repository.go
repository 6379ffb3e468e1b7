package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/materials-service/internal/domain"
)

// ActivityRepository implements domain.ActivityRepository using MongoDB
type ActivityRepository struct {
	collection *mongo.Collection
}

var _ domain.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	collection := db.Collection("activity_log")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "referenceId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ActivityRepository{collection: collection}
}

// Append adds one record
func (r *ActivityRepository) Append(ctx context.Context, record domain.ActivityRecord) error {
	if _, err := r.collection.InsertOne(ctx, toActivityDocument(record)); err != nil {
		return fmt.Errorf("append activity %s: %w", record.ID, err)
	}
	return nil
}

// List returns the most recent records, newest first
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.ActivityRecord
	for cursor.Next(ctx) {
		var doc activityDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		records = append(records, doc.toDomain())
	}
	return records, cursor.Err()
}
