package dto

import "time"

// SubmitTransactionRequest creates a new stock transaction
type SubmitTransactionRequest struct {
	Type              string                   `json:"type" binding:"required,txtype"`
	SourceWarehouseID string                   `json:"sourceWarehouseId,omitempty"`
	TargetWarehouseID string                   `json:"targetWarehouseId,omitempty"`
	SupplierID        string                   `json:"supplierId,omitempty"`
	Note              string                   `json:"note,omitempty"`
	Items             []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	PendingItems      []PendingItemRequest     `json:"pendingItems,omitempty" binding:"omitempty,dive"`
}

// TransactionItemRequest is one submitted transaction line. Quantity may be
// negative for adjustments.
type TransactionItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Price    string `json:"price,omitempty" binding:"omitempty,money"`
}

// PendingItemRequest carries catalog metadata for a SKU that does not exist
// yet and will be created when the transaction is approved
type PendingItemRequest struct {
	ItemID     string `json:"itemId" binding:"required"`
	SKU        string `json:"sku" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category,omitempty"`
	Unit       string `json:"unit" binding:"required"`
	PriceIn    string `json:"priceIn,omitempty" binding:"omitempty,money"`
	PriceOut   string `json:"priceOut,omitempty" binding:"omitempty,money"`
	MinStock   int    `json:"minStock" binding:"min=0"`
	SupplierID string `json:"supplierId,omitempty"`
}

// DecideTransactionRequest approves or rejects a pending transaction
type DecideTransactionRequest struct {
	Decision string `json:"decision" binding:"required,decision"`
}

// ApprovePartialRequest approves a subset of a transaction's items
type ApprovePartialRequest struct {
	SelectedItemIDs []string `json:"selectedItemIds" binding:"required,min=1"`
}

// CreateRequestRequest creates a material request for a site
type CreateRequestRequest struct {
	SiteWarehouseID   string               `json:"siteWarehouseId" binding:"required"`
	SourceWarehouseID string               `json:"sourceWarehouseId,omitempty"`
	Items             []RequestItemRequest `json:"items" binding:"required,min=1,dive"`
	Note              string               `json:"note,omitempty"`
	ExpectedDate      time.Time            `json:"expectedDate,omitempty"`
}

// RequestItemRequest is one demand line
type RequestItemRequest struct {
	ItemID     string `json:"itemId" binding:"required"`
	RequestQty int    `json:"requestQty" binding:"required,min=1"`
}

// DecideRequestRequest approves or rejects a pending material request
type DecideRequestRequest struct {
	Decision          string                `json:"decision" binding:"required,decision"`
	Lines             []ApprovalLineRequest `json:"lines,omitempty" binding:"omitempty,dive"`
	SourceWarehouseID string                `json:"sourceWarehouseId,omitempty"`
	Note              string                `json:"note,omitempty"`
	ConfirmExcess     bool                  `json:"confirmExcess,omitempty"`
}

// ApprovalLineRequest is the approver's proposed quantity for one line
type ApprovalLineRequest struct {
	ItemID      string `json:"itemId" binding:"required"`
	ApprovedQty int    `json:"approvedQty" binding:"min=0"`
}

// CreateItemRequest creates a catalog item
type CreateItemRequest struct {
	SKU        string `json:"sku" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category,omitempty"`
	Unit       string `json:"unit" binding:"required"`
	PriceIn    string `json:"priceIn,omitempty" binding:"omitempty,money"`
	PriceOut   string `json:"priceOut,omitempty" binding:"omitempty,money"`
	MinStock   int    `json:"minStock" binding:"min=0"`
	SupplierID string `json:"supplierId,omitempty"`
}

// UpdateItemRequest updates a catalog item. The SKU is immutable.
type UpdateItemRequest struct {
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category,omitempty"`
	Unit       string `json:"unit" binding:"required"`
	PriceIn    string `json:"priceIn,omitempty" binding:"omitempty,money"`
	PriceOut   string `json:"priceOut,omitempty" binding:"omitempty,money"`
	MinStock   int    `json:"minStock" binding:"min=0"`
	SupplierID string `json:"supplierId,omitempty"`
}

// CreateWarehouseRequest creates a warehouse
type CreateWarehouseRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
	Type    string `json:"type" binding:"required,warehousetype"`
}

// UpdateWarehouseRequest updates a warehouse
type UpdateWarehouseRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
	Type    string `json:"type" binding:"required,warehousetype"`
}
