package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/materials-service/internal/domain"
)

// RequestRepository is an in-memory domain.RequestRepository
type RequestRepository struct {
	mu   sync.RWMutex
	reqs map[string]*domain.MaterialRequest
}

var _ domain.RequestRepository = (*RequestRepository)(nil)

// NewRequestRepository creates an empty RequestRepository
func NewRequestRepository() *RequestRepository {
	return &RequestRepository{reqs: make(map[string]*domain.MaterialRequest)}
}

func cloneRequest(req *domain.MaterialRequest) *domain.MaterialRequest {
	clone := *req
	clone.Items = append([]domain.RequestItem(nil), req.Items...)
	clone.Logs = append([]domain.RequestLog(nil), req.Logs...)
	clone.ClearDomainEvents()
	return &clone
}

// Save stores the request, failing on a stale version
func (r *RequestRepository) Save(ctx context.Context, req *domain.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.reqs[req.ID]; ok && existing.Version != req.Version {
		return domain.ErrVersionConflict
	}
	req.Version++
	r.reqs[req.ID] = cloneRequest(req)
	return nil
}

// FindByID returns the request or domain.ErrNotFound
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.reqs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneRequest(req), nil
}

// List returns requests matching the filter, newest first
func (r *RequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reqs []*domain.MaterialRequest
	for _, req := range r.reqs {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.SiteWarehouseID != "" && req.SiteWarehouseID != filter.SiteWarehouseID {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		reqs = append(reqs, cloneRequest(req))
	}

	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedDate.After(reqs[j].CreatedDate)
	})
	return reqs, nil
}
