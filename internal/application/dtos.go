package application

import (
	"time"

	"github.com/wms-platform/materials-service/internal/domain"
)

// TransactionItemDTO is one transaction line in responses
type TransactionItemDTO struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// TransactionDTO is the transaction representation exposed over HTTP
type TransactionDTO struct {
	ID                string               `json:"id"`
	Type              string               `json:"type"`
	Status            string               `json:"status"`
	Items             []TransactionItemDTO `json:"items"`
	SourceWarehouseID string               `json:"sourceWarehouseId,omitempty"`
	TargetWarehouseID string               `json:"targetWarehouseId,omitempty"`
	SupplierID        string               `json:"supplierId,omitempty"`
	RequesterID       string               `json:"requesterId"`
	ApproverID        string               `json:"approverId,omitempty"`
	Note              string               `json:"note,omitempty"`
	RelatedRequestID  string               `json:"relatedRequestId,omitempty"`
	StockApplied      bool                 `json:"stockApplied"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// TransactionResult is the structured outcome of a transaction transition.
// Movements is populated only when the transition applied the ledger.
type TransactionResult struct {
	Transaction TransactionDTO         `json:"transaction"`
	Movements   []domain.StockMovement `json:"movements,omitempty"`
}

// RequestItemDTO is one demand line in responses
type RequestItemDTO struct {
	ItemID      string `json:"itemId"`
	RequestQty  int    `json:"requestQty"`
	ApprovedQty int    `json:"approvedQty"`
}

// RequestLogDTO is one audit entry in responses
type RequestLogDTO struct {
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// RequestDTO is the material request representation exposed over HTTP
type RequestDTO struct {
	ID                string           `json:"id"`
	Code              string           `json:"code"`
	SiteWarehouseID   string           `json:"siteWarehouseId"`
	SourceWarehouseID string           `json:"sourceWarehouseId,omitempty"`
	RequesterID       string           `json:"requesterId"`
	Status            string           `json:"status"`
	Items             []RequestItemDTO `json:"items"`
	Note              string           `json:"note,omitempty"`
	CreatedDate       time.Time        `json:"createdDate"`
	ExpectedDate      time.Time        `json:"expectedDate,omitempty"`
	Logs              []RequestLogDTO  `json:"logs"`
}

// DecideRequestResult is the structured outcome of a request decision.
// ClampedLines reports approvals reduced to available stock; when
// ConfirmationRequired is set the decision did not commit and must be
// resubmitted with ConfirmExcess.
type DecideRequestResult struct {
	Request              *RequestDTO          `json:"request,omitempty"`
	ClampedLines         []domain.ClampedLine `json:"clampedLines,omitempty"`
	ConfirmationRequired bool                 `json:"confirmationRequired"`
	ExcessLines          []domain.ClampedLine `json:"excessLines,omitempty"`
}

// RequestTransitionResult couples a request transition with its companion
// stock transaction, when one was generated
type RequestTransitionResult struct {
	Request     RequestDTO      `json:"request"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
}

// ItemDTO is the catalog item representation exposed over HTTP
type ItemDTO struct {
	ID               string         `json:"id"`
	SKU              string         `json:"sku"`
	Name             string         `json:"name"`
	Category         string         `json:"category,omitempty"`
	Unit             string         `json:"unit"`
	PriceIn          string         `json:"priceIn"`
	PriceOut         string         `json:"priceOut"`
	MinStock         int            `json:"minStock"`
	SupplierID       string         `json:"supplierId,omitempty"`
	StockByWarehouse map[string]int `json:"stockByWarehouse"`
	TotalStock       int            `json:"totalStock"`
	LowStock         bool           `json:"lowStock"`
}

// WarehouseDTO is the warehouse representation exposed over HTTP
type WarehouseDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Type    string `json:"type"`
	State   string `json:"state"`
}

// RemoveWarehouseResult reports whether the warehouse was archived (stock
// remained) or deleted outright
type RemoveWarehouseResult struct {
	WarehouseID string `json:"warehouseId"`
	Archived    bool   `json:"archived"`
}

// UserDTO is the user representation exposed over HTTP
type UserDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Role                string `json:"role"`
	AssignedWarehouseID string `json:"assignedWarehouseId,omitempty"`
}

// StatsDTO is the dashboard summary
type StatsDTO struct {
	TotalItems          int    `json:"totalItems"`
	TotalStockValuation string `json:"totalStockValuation"`
	LowStockItems       int    `json:"lowStockItems"`
	PendingTransactions int    `json:"pendingTransactions"`
	PendingRequests     int    `json:"pendingRequests"`
	ActiveWarehouses    int    `json:"activeWarehouses"`
}
