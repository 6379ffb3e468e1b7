package memory

import (
	"context"
	"sync"

	"github.com/wms-platform/materials-service/internal/domain"
)

// ActivityRepository is an in-memory domain.ActivityRepository
type ActivityRepository struct {
	mu      sync.RWMutex
	records []domain.ActivityRecord
}

var _ domain.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates an empty ActivityRepository
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

// Append adds one record
func (r *ActivityRepository) Append(ctx context.Context, record domain.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

// List returns the most recent records, newest first
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.ActivityRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		records = append(records, r.records[i])
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// NopPublisher drops every record; used where no event stream is configured
type NopPublisher struct{}

var _ domain.ActivityPublisher = (*NopPublisher)(nil)

// Publish discards the record
func (NopPublisher) Publish(ctx context.Context, record domain.ActivityRecord) error {
	return nil
}
