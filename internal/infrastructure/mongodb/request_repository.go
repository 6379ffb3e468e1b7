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

// RequestRepository implements domain.RequestRepository using MongoDB
type RequestRepository struct {
	collection *mongo.Collection
}

var _ domain.RequestRepository = (*RequestRepository)(nil)

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *mongo.Database) *RequestRepository {
	collection := db.Collection("material_requests")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdDate", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "siteWarehouseId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &RequestRepository{collection: collection}
}

// Save persists the request with an optimistic version check
func (r *RequestRepository) Save(ctx context.Context, req *domain.MaterialRequest) error {
	current := req.Version
	req.Version = current + 1
	doc := toRequestDocument(req)
	if err := saveVersioned(ctx, r.collection, req.ID, current, doc); err != nil {
		req.Version = current
		return err
	}
	return nil
}

// FindByID returns the request or domain.ErrNotFound
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	var doc requestDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find request %s: %w", id, err)
	}
	return doc.toDomain(), nil
}

// List returns requests matching the filter, newest first
func (r *RequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.MaterialRequest, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.SiteWarehouseID != "" {
		query["siteWarehouseId"] = filter.SiteWarehouseID
	}
	if filter.RequesterID != "" {
		query["requesterId"] = filter.RequesterID
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdDate", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []*domain.MaterialRequest
	for cursor.Next(ctx) {
		var doc requestDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode request: %w", err)
		}
		reqs = append(reqs, doc.toDomain())
	}
	return reqs, cursor.Err()
}
