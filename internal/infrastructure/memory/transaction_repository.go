package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/materials-service/internal/domain"
)

// TransactionRepository is an in-memory domain.TransactionRepository
type TransactionRepository struct {
	mu  sync.RWMutex
	txs map[string]*domain.Transaction
}

var _ domain.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository creates an empty TransactionRepository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{txs: make(map[string]*domain.Transaction)}
}

func cloneTransaction(tx *domain.Transaction) *domain.Transaction {
	clone := *tx
	clone.Items = append([]domain.TransactionItem(nil), tx.Items...)
	clone.PendingItems = append([]domain.PendingItem(nil), tx.PendingItems...)
	clone.ClearDomainEvents()
	return &clone
}

// Save stores the transaction, failing on a stale version
func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.txs[tx.ID]; ok && existing.Version != tx.Version {
		return domain.ErrVersionConflict
	}
	tx.Version++
	r.txs[tx.ID] = cloneTransaction(tx)
	return nil
}

// FindByID returns the transaction or domain.ErrNotFound
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTransaction(tx), nil
}

// List returns transactions matching the filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var txs []*domain.Transaction
	for _, tx := range r.txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		if filter.WarehouseID != "" && tx.SourceWarehouseID != filter.WarehouseID && tx.TargetWarehouseID != filter.WarehouseID {
			continue
		}
		if filter.RequesterID != "" && tx.RequesterID != filter.RequesterID {
			continue
		}
		if filter.RelatedRequestID != "" && tx.RelatedRequestID != filter.RelatedRequestID {
			continue
		}
		txs = append(txs, cloneTransaction(tx))
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}
