package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock-moving transaction
type TransactionType string

const (
	TypeImport      TransactionType = "IMPORT"
	TypeExport      TransactionType = "EXPORT"
	TypeTransfer    TransactionType = "TRANSFER"
	TypeAdjustment  TransactionType = "ADJUSTMENT"
	TypeLiquidation TransactionType = "LIQUIDATION"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeImport, TypeExport, TypeTransfer, TypeAdjustment, TypeLiquidation:
		return true
	default:
		return false
	}
}

// NeedsReceive reports whether the type requires a separate destination-side
// receive step after approval. Goods physically hand off at a destination for
// imports and transfers; the other types complete in one step.
func (t TransactionType) NeedsReceive() bool {
	return t == TypeImport || t == TypeTransfer
}

// usesSource reports whether the type debits a source warehouse
func (t TransactionType) usesSource() bool {
	switch t {
	case TypeExport, TypeTransfer, TypeLiquidation:
		return true
	default:
		return false
	}
}

// usesTarget reports whether the type credits a target warehouse
func (t TransactionType) usesTarget() bool {
	switch t {
	case TypeImport, TypeTransfer, TypeAdjustment:
		return true
	default:
		return false
	}
}

// TransactionStatus represents the transaction lifecycle state
type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxApproved  TransactionStatus = "APPROVED"
	TxCompleted TransactionStatus = "COMPLETED"
	TxCancelled TransactionStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are accepted
func (s TransactionStatus) IsTerminal() bool {
	return s == TxCompleted || s == TxCancelled
}

// TransactionItem is one line of a transaction. For ADJUSTMENT transactions
// Quantity is a signed delta; for all other types it must be positive.
type TransactionItem struct {
	ItemID   string          `json:"itemId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PendingItem carries full catalog metadata for a SKU introduced by a
// transaction. It is materialized into the catalog exactly once, when the
// transaction reaches APPROVED or COMPLETED.
type PendingItem struct {
	ItemID     string          `json:"itemId"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Category   string          `json:"category,omitempty"`
	Unit       string          `json:"unit"`
	PriceIn    decimal.Decimal `json:"priceIn"`
	PriceOut   decimal.Decimal `json:"priceOut"`
	MinStock   int             `json:"minStock"`
	SupplierID string          `json:"supplierId,omitempty"`
}

// Transaction is the aggregate root for a stock movement document
type Transaction struct {
	ID                string            `json:"id"`
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	Items             []TransactionItem `json:"items"`
	SourceWarehouseID string            `json:"sourceWarehouseId,omitempty"`
	TargetWarehouseID string            `json:"targetWarehouseId,omitempty"`
	SupplierID        string            `json:"supplierId,omitempty"`
	RequesterID       string            `json:"requesterId"`
	ApproverID        string            `json:"approverId,omitempty"`
	Note              string            `json:"note,omitempty"`
	RelatedRequestID  string            `json:"relatedRequestId,omitempty"`
	PendingItems      []PendingItem     `json:"pendingItems,omitempty"`
	StockApplied      bool              `json:"stockApplied"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Version           int64             `json:"version"`

	domainEvents []DomainEvent
}

// NewTransaction creates a PENDING transaction, validating type, items and
// warehouse references against the type's shape
func NewTransaction(txType TransactionType, items []TransactionItem, sourceWarehouseID, targetWarehouseID, supplierID, requesterID, note string, pendingItems []PendingItem) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, ErrInvalidTransactionType
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if requesterID == "" {
		return nil, fmt.Errorf("requester is required")
	}
	for _, item := range items {
		if item.ItemID == "" {
			return nil, fmt.Errorf("transaction item is missing an item id")
		}
		if txType != TypeAdjustment && item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if txType == TypeAdjustment && item.Quantity == 0 {
			return nil, ErrInvalidQuantity
		}
	}

	if txType.usesSource() && sourceWarehouseID == "" {
		return nil, ErrMissingWarehouse
	}
	if txType.usesTarget() && targetWarehouseID == "" {
		return nil, ErrMissingWarehouse
	}
	if !txType.usesSource() && sourceWarehouseID != "" {
		return nil, ErrUnexpectedWarehouse
	}
	if !txType.usesTarget() && targetWarehouseID != "" {
		return nil, ErrUnexpectedWarehouse
	}
	if txType == TypeTransfer && sourceWarehouseID == targetWarehouseID {
		return nil, fmt.Errorf("transfer source and target must differ")
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:                fmt.Sprintf("TXN-%s", uuid.New().String()[:8]),
		Type:              txType,
		Status:            TxPending,
		Items:             items,
		SourceWarehouseID: sourceWarehouseID,
		TargetWarehouseID: targetWarehouseID,
		SupplierID:        supplierID,
		RequesterID:       requesterID,
		Note:              note,
		PendingItems:      pendingItems,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Approve advances a PENDING transaction. Types with a destination hand-off
// move to APPROVED and wait for Receive; the rest complete immediately.
func (t *Transaction) Approve(approverID string) error {
	if t.Status != TxPending {
		return ErrInvalidStatus
	}

	t.ApproverID = approverID
	if t.Type.NeedsReceive() {
		t.Status = TxApproved
	} else {
		t.complete()
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject cancels a PENDING transaction. Terminal, no ledger effect.
func (t *Transaction) Reject(approverID string) error {
	if t.Status != TxPending {
		return ErrInvalidStatus
	}

	t.Status = TxCancelled
	t.ApproverID = approverID
	t.UpdatedAt = time.Now().UTC()
	t.addDomainEvent(TransactionCancelledEvent{
		baseEvent:     newBaseEvent(),
		TransactionID: t.ID,
		Type:          t.Type,
	})
	return nil
}

// ApprovePartial filters the line items down to selectedItemIDs, discarding
// the rest, then advances like Approve over the filtered list. The note
// records the reduction when items were dropped.
func (t *Transaction) ApprovePartial(selectedItemIDs []string, approverID string) error {
	if t.Status != TxPending {
		return ErrInvalidStatus
	}

	selected := make(map[string]bool, len(selectedItemIDs))
	for _, id := range selectedItemIDs {
		selected[id] = true
	}

	var kept []TransactionItem
	for _, item := range t.Items {
		if selected[item.ItemID] {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return ErrNoItemsSelected
	}

	if len(kept) < len(t.Items) {
		annotation := fmt.Sprintf("approved %d of %d items", len(kept), len(t.Items))
		if t.Note == "" {
			t.Note = annotation
		} else {
			t.Note = fmt.Sprintf("%s (%s)", t.Note, annotation)
		}
	}
	t.Items = kept

	var keptPending []PendingItem
	for _, p := range t.PendingItems {
		if selected[p.ItemID] {
			keptPending = append(keptPending, p)
		}
	}
	t.PendingItems = keptPending

	return t.Approve(approverID)
}

// Receive completes an APPROVED transaction at its destination
func (t *Transaction) Receive(actorID string) error {
	if t.Status != TxApproved {
		return ErrInvalidStatus
	}

	if t.ApproverID == "" {
		t.ApproverID = actorID
	}
	t.complete()
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Transaction) complete() {
	t.Status = TxCompleted
	t.addDomainEvent(TransactionCompletedEvent{
		baseEvent:     newBaseEvent(),
		TransactionID: t.ID,
		Type:          t.Type,
		ItemCount:     len(t.Items),
	})
}

// TakePendingItems returns the pending catalog entries and clears them so
// materialization happens at most once
func (t *Transaction) TakePendingItems() []PendingItem {
	pending := t.PendingItems
	t.PendingItems = nil
	return pending
}

func (t *Transaction) addDomainEvent(event DomainEvent) {
	t.domainEvents = append(t.domainEvents, event)
}

// DomainEvents returns accumulated events
func (t *Transaction) DomainEvents() []DomainEvent {
	return t.domainEvents
}

// ClearDomainEvents resets the event list after publishing
func (t *Transaction) ClearDomainEvents() {
	t.domainEvents = nil
}
