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

// TransactionRepository implements domain.TransactionRepository using MongoDB
type TransactionRepository struct {
	collection *mongo.Collection
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	collection := db.Collection("transactions")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "type", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "relatedRequestId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &TransactionRepository{collection: collection}
}

// Save persists the transaction with an optimistic version check
func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	current := tx.Version
	tx.Version = current + 1
	tx.UpdatedAt = time.Now().UTC()
	doc := toTransactionDocument(tx)
	if err := saveVersioned(ctx, r.collection, tx.ID, current, doc); err != nil {
		tx.Version = current
		return err
	}
	return nil
}

// FindByID returns the transaction or domain.ErrNotFound
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var doc transactionDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	return doc.toDomain()
}

// List returns transactions matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.WarehouseID != "" {
		query["$or"] = []bson.M{
			{"sourceWarehouseId": filter.WarehouseID},
			{"targetWarehouseId": filter.WarehouseID},
		}
	}
	if filter.RequesterID != "" {
		query["requesterId"] = filter.RequesterID
	}
	if filter.RelatedRequestID != "" {
		query["relatedRequestId"] = filter.RelatedRequestID
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []*domain.Transaction
	for cursor.Next(ctx) {
		var doc transactionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		tx, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, cursor.Err()
}
