package memory

import (
	"context"
	"sync"

	"github.com/wms-platform/materials-service/internal/domain"
)

// ItemRepository is an in-memory domain.ItemRepository with optimistic
// version checks, used in tests and local development
type ItemRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.InventoryItem
}

var _ domain.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates an empty ItemRepository
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[string]*domain.InventoryItem)}
}

func cloneItem(item *domain.InventoryItem) *domain.InventoryItem {
	clone := *item
	clone.StockByWarehouse = make(map[string]int, len(item.StockByWarehouse))
	for wh, qty := range item.StockByWarehouse {
		clone.StockByWarehouse[wh] = qty
	}
	clone.ClearDomainEvents()
	return &clone
}

// Save stores the item, failing on a stale version
func (r *ItemRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(item)
}

// SaveAll stores several items as one unit: every version is checked before
// anything is written
func (r *ItemRepository) SaveAll(ctx context.Context, items []*domain.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if existing, ok := r.items[item.ID]; ok && existing.Version != item.Version {
			return domain.ErrVersionConflict
		}
	}
	for _, item := range items {
		if err := r.saveLocked(item); err != nil {
			return err
		}
	}
	return nil
}

func (r *ItemRepository) saveLocked(item *domain.InventoryItem) error {
	if existing, ok := r.items[item.ID]; ok && existing.Version != item.Version {
		return domain.ErrVersionConflict
	}
	item.Version++
	r.items[item.ID] = cloneItem(item)
	return nil
}

// FindByID returns the item or domain.ErrNotFound
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneItem(item), nil
}

// FindBySKU returns the item with the given SKU or domain.ErrNotFound
func (r *ItemRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SKU == sku {
			return cloneItem(item), nil
		}
	}
	return nil, domain.ErrNotFound
}

// FindByIDs returns the items present, keyed by id; missing ids are omitted
func (r *ItemRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[string]*domain.InventoryItem, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			found[id] = cloneItem(item)
		}
	}
	return found, nil
}

// List returns items matching the filter
func (r *ItemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]*domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.InventoryItem
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.SupplierID != "" && item.SupplierID != filter.SupplierID {
			continue
		}
		if filter.WarehouseID != "" && item.StockAt(filter.WarehouseID) == 0 {
			continue
		}
		if filter.LowStock && !item.IsLowStock() {
			continue
		}
		items = append(items, cloneItem(item))
	}
	return items, nil
}

// Delete removes the item outright
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
