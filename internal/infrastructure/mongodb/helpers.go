package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/materials-service/internal/domain"
)

// saveVersioned inserts or replaces a document guarded by an optimistic
// version check. currentVersion is the version the aggregate was loaded
// with; the stored document must carry currentVersion+1. A zero
// currentVersion means first insert.
func saveVersioned(ctx context.Context, coll *mongo.Collection, id string, currentVersion int64, doc any) error {
	if currentVersion == 0 {
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrVersionConflict
			}
			return fmt.Errorf("insert %s: %w", id, err)
		}
		return nil
	}

	filter := bson.M{"_id": id, "version": currentVersion}
	result, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("replace %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		count, err := coll.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("verify %s: %w", id, err)
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}
