package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/materials-service/internal/domain"
)

// WarehouseRepository is an in-memory domain.WarehouseRepository
type WarehouseRepository struct {
	mu  sync.RWMutex
	whs map[string]*domain.Warehouse
}

var _ domain.WarehouseRepository = (*WarehouseRepository)(nil)

// NewWarehouseRepository creates an empty WarehouseRepository
func NewWarehouseRepository() *WarehouseRepository {
	return &WarehouseRepository{whs: make(map[string]*domain.Warehouse)}
}

// Save stores the warehouse, failing on a stale version
func (r *WarehouseRepository) Save(ctx context.Context, wh *domain.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.whs[wh.ID]; ok && existing.Version != wh.Version {
		return domain.ErrVersionConflict
	}
	wh.Version++
	clone := *wh
	r.whs[wh.ID] = &clone
	return nil
}

// FindByID returns the warehouse or domain.ErrNotFound
func (r *WarehouseRepository) FindByID(ctx context.Context, id string) (*domain.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wh, ok := r.whs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *wh
	return &clone, nil
}

// List returns warehouses, optionally including archived ones
func (r *WarehouseRepository) List(ctx context.Context, includeArchived bool) ([]*domain.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var whs []*domain.Warehouse
	for _, wh := range r.whs {
		if !includeArchived && !wh.IsActive() {
			continue
		}
		clone := *wh
		whs = append(whs, &clone)
	}

	sort.Slice(whs, func(i, j int) bool {
		return whs[i].Name < whs[j].Name
	})
	return whs, nil
}

// Delete removes the warehouse outright
func (r *WarehouseRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.whs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.whs, id)
	return nil
}
