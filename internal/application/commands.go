package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms-platform/materials-service/internal/domain"
)

// TransactionItemInput is one submitted transaction line
type TransactionItemInput struct {
	ItemID   string
	Quantity int
	Price    decimal.Decimal
}

// PendingItemInput carries catalog metadata for a SKU introduced by the
// transaction itself
type PendingItemInput struct {
	ItemID     string
	SKU        string
	Name       string
	Category   string
	Unit       string
	PriceIn    decimal.Decimal
	PriceOut   decimal.Decimal
	MinStock   int
	SupplierID string
}

// SubmitTransactionCommand creates a PENDING transaction
type SubmitTransactionCommand struct {
	ActorID           string
	Type              domain.TransactionType
	Items             []TransactionItemInput
	SourceWarehouseID string
	TargetWarehouseID string
	SupplierID        string
	Note              string
	PendingItems      []PendingItemInput
}

// Decision is an approve/reject choice
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// IsValid checks if the decision is valid
func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// DecideTransactionCommand approves or rejects a PENDING transaction
type DecideTransactionCommand struct {
	TransactionID string
	ActorID       string
	Decision      Decision
}

// ApprovePartialCommand approves a subset of a transaction's items
type ApprovePartialCommand struct {
	TransactionID   string
	ActorID         string
	SelectedItemIDs []string
}

// ReceiveTransactionCommand confirms destination receipt
type ReceiveTransactionCommand struct {
	TransactionID string
	ActorID       string
}

// RequestItemInput is one demand line of a material request
type RequestItemInput struct {
	ItemID     string
	RequestQty int
}

// CreateRequestCommand creates a PENDING material request
type CreateRequestCommand struct {
	ActorID           string
	SiteWarehouseID   string
	SourceWarehouseID string
	Items             []RequestItemInput
	Note              string
	ExpectedDate      time.Time
}

// ApprovalLineInput is the approver's proposed quantity for one line
type ApprovalLineInput struct {
	ItemID      string
	ApprovedQty int
}

// DecideRequestCommand approves or rejects a PENDING request
type DecideRequestCommand struct {
	RequestID         string
	ActorID           string
	Decision          Decision
	Lines             []ApprovalLineInput
	SourceWarehouseID string
	Note              string
	ConfirmExcess     bool
}

// MarkRequestInTransitCommand records the physical shipment from the source
type MarkRequestInTransitCommand struct {
	RequestID string
	ActorID   string
}

// MarkRequestCompletedCommand confirms receipt at the site
type MarkRequestCompletedCommand struct {
	RequestID string
	ActorID   string
}

// CreateItemCommand creates a catalog entry
type CreateItemCommand struct {
	ActorID    string
	SKU        string
	Name       string
	Category   string
	Unit       string
	PriceIn    decimal.Decimal
	PriceOut   decimal.Decimal
	MinStock   int
	SupplierID string
}

// UpdateItemCommand updates a catalog entry
type UpdateItemCommand struct {
	ActorID    string
	ItemID     string
	Name       string
	Category   string
	Unit       string
	PriceIn    decimal.Decimal
	PriceOut   decimal.Decimal
	MinStock   int
	SupplierID string
}

// CreateWarehouseCommand creates a warehouse
type CreateWarehouseCommand struct {
	ActorID string
	Name    string
	Address string
	Type    domain.WarehouseType
}

// UpdateWarehouseCommand updates a warehouse
type UpdateWarehouseCommand struct {
	ActorID     string
	WarehouseID string
	Name        string
	Address     string
	Type        domain.WarehouseType
}

func (c SubmitTransactionCommand) toDomainItems() []domain.TransactionItem {
	items := make([]domain.TransactionItem, 0, len(c.Items))
	for _, in := range c.Items {
		items = append(items, domain.TransactionItem{
			ItemID:   in.ItemID,
			Quantity: in.Quantity,
			Price:    in.Price,
		})
	}
	return items
}

func (c SubmitTransactionCommand) toDomainPendingItems() []domain.PendingItem {
	if len(c.PendingItems) == 0 {
		return nil
	}
	pending := make([]domain.PendingItem, 0, len(c.PendingItems))
	for _, in := range c.PendingItems {
		pending = append(pending, domain.PendingItem{
			ItemID:     in.ItemID,
			SKU:        in.SKU,
			Name:       in.Name,
			Category:   in.Category,
			Unit:       in.Unit,
			PriceIn:    in.PriceIn,
			PriceOut:   in.PriceOut,
			MinStock:   in.MinStock,
			SupplierID: in.SupplierID,
		})
	}
	return pending
}

func (c CreateRequestCommand) toDomainItems() []domain.RequestItem {
	items := make([]domain.RequestItem, 0, len(c.Items))
	for _, in := range c.Items {
		items = append(items, domain.RequestItem{
			ItemID:     in.ItemID,
			RequestQty: in.RequestQty,
		})
	}
	return items
}

func (c DecideRequestCommand) toDomainLines() []domain.ApprovalLine {
	lines := make([]domain.ApprovalLine, 0, len(c.Lines))
	for _, in := range c.Lines {
		lines = append(lines, domain.ApprovalLine{
			ItemID:      in.ItemID,
			ApprovedQty: in.ApprovedQty,
		})
	}
	return lines
}
