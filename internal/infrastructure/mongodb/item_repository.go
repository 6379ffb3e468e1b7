package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/materials-service/internal/domain"
)

// ItemRepository implements domain.ItemRepository using MongoDB
type ItemRepository struct {
	collection *mongo.Collection
}

var _ domain.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository
func NewItemRepository(db *mongo.Database) *ItemRepository {
	collection := db.Collection("items")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "supplierId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &ItemRepository{collection: collection}
}

// Save persists the item with an optimistic version check
func (r *ItemRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	current := item.Version
	item.Version = current + 1
	doc := toItemDocument(item)
	if err := saveVersioned(ctx, r.collection, item.ID, current, doc); err != nil {
		item.Version = current
		return err
	}
	return nil
}

// SaveAll persists several items. Each save carries its own version check;
// a conflict aborts the remainder.
func (r *ItemRepository) SaveAll(ctx context.Context, items []*domain.InventoryItem) error {
	for _, item := range items {
		if err := r.Save(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// FindByID returns the item or domain.ErrNotFound
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var doc itemDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find item %s: %w", id, err)
	}
	return doc.toDomain()
}

// FindBySKU returns the item with the given SKU or domain.ErrNotFound
func (r *ItemRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	var doc itemDocument
	if err := r.collection.FindOne(ctx, bson.M{"sku": sku}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find item by sku %s: %w", sku, err)
	}
	return doc.toDomain()
}

// FindByIDs returns the items present, keyed by id; missing ids are omitted
func (r *ItemRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.InventoryItem, error) {
	if len(ids) == 0 {
		return map[string]*domain.InventoryItem{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer cursor.Close(ctx)

	found := make(map[string]*domain.InventoryItem, len(ids))
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		item, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		found[item.ID] = item
	}
	return found, cursor.Err()
}

// List returns items matching the filter
func (r *ItemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]*domain.InventoryItem, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.SupplierID != "" {
		query["supplierId"] = filter.SupplierID
	}
	if filter.WarehouseID != "" {
		query["stockByWarehouse."+filter.WarehouseID] = bson.M{"$gt": 0}
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.InventoryItem
	for cursor.Next(ctx) {
		var doc itemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		item, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		// low-stock depends on a computed total, filtered in memory
		if filter.LowStock && !item.IsLowStock() {
			continue
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}

// Delete removes the item outright
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
