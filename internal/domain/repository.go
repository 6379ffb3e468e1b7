package domain

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by repositories when a save loses an
// optimistic concurrency race; the transition must not be retried blindly.
var ErrVersionConflict = errors.New("document was modified concurrently")

// ErrNotFound is returned by repositories when a document does not exist
var ErrNotFound = errors.New("document not found")

// ItemFilter narrows item listings
type ItemFilter struct {
	Category    string
	SupplierID  string
	WarehouseID string
	LowStock    bool
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	Type             TransactionType
	Status           TransactionStatus
	WarehouseID      string
	RequesterID      string
	RelatedRequestID string
}

// RequestFilter narrows material request listings
type RequestFilter struct {
	Status          RequestStatus
	SiteWarehouseID string
	RequesterID     string
}

// ItemRepository persists inventory items
type ItemRepository interface {
	Save(ctx context.Context, item *InventoryItem) error
	SaveAll(ctx context.Context, items []*InventoryItem) error
	FindByID(ctx context.Context, id string) (*InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*InventoryItem, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*InventoryItem, error)
	List(ctx context.Context, filter ItemFilter) ([]*InventoryItem, error)
	Delete(ctx context.Context, id string) error
}

// WarehouseRepository persists warehouses
type WarehouseRepository interface {
	Save(ctx context.Context, warehouse *Warehouse) error
	FindByID(ctx context.Context, id string) (*Warehouse, error)
	List(ctx context.Context, includeArchived bool) ([]*Warehouse, error)
	Delete(ctx context.Context, id string) error
}

// TransactionRepository persists transactions
type TransactionRepository interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
}

// RequestRepository persists material requests
type RequestRepository interface {
	Save(ctx context.Context, request *MaterialRequest) error
	FindByID(ctx context.Context, id string) (*MaterialRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]*MaterialRequest, error)
}

// UserRepository resolves actors
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// ActivityRepository appends audit records
type ActivityRepository interface {
	Append(ctx context.Context, record ActivityRecord) error
	List(ctx context.Context, limit int) ([]ActivityRecord, error)
}

// ActivityPublisher emits activity records to the event stream
type ActivityPublisher interface {
	Publish(ctx context.Context, record ActivityRecord) error
}
