package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/materials-service/internal/domain"
)

// WarehouseRepository implements domain.WarehouseRepository using MongoDB
type WarehouseRepository struct {
	collection *mongo.Collection
}

var _ domain.WarehouseRepository = (*WarehouseRepository)(nil)

// NewWarehouseRepository creates a new WarehouseRepository
func NewWarehouseRepository(db *mongo.Database) *WarehouseRepository {
	return &WarehouseRepository{collection: db.Collection("warehouses")}
}

// Save persists the warehouse with an optimistic version check
func (r *WarehouseRepository) Save(ctx context.Context, wh *domain.Warehouse) error {
	current := wh.Version
	wh.Version = current + 1
	doc := toWarehouseDocument(wh)
	if err := saveVersioned(ctx, r.collection, wh.ID, current, doc); err != nil {
		wh.Version = current
		return err
	}
	return nil
}

// FindByID returns the warehouse or domain.ErrNotFound
func (r *WarehouseRepository) FindByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	var doc warehouseDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find warehouse %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// List returns warehouses, optionally including archived ones
func (r *WarehouseRepository) List(ctx context.Context, includeArchived bool) ([]*domain.Warehouse, error) {
	query := bson.M{}
	if !includeArchived {
		query["state"] = string(domain.WarehouseActive)
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer cursor.Close(ctx)

	var whs []*domain.Warehouse
	for cursor.Next(ctx) {
		var doc warehouseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode warehouse: %w", err)
		}
		whs = append(whs, doc.toDomain())
	}
	return whs, cursor.Err()
}

// Delete removes the warehouse outright
func (r *WarehouseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete warehouse %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
