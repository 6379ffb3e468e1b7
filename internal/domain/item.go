package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a catalog entry with per-warehouse stock counters.
// Absence of a warehouse key in StockByWarehouse is equivalent to zero.
type InventoryItem struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Category         string          `json:"category,omitempty"`
	Unit             string          `json:"unit"`
	PriceIn          decimal.Decimal `json:"priceIn"`
	PriceOut         decimal.Decimal `json:"priceOut"`
	MinStock         int             `json:"minStock"`
	SupplierID       string          `json:"supplierId,omitempty"`
	StockByWarehouse map[string]int  `json:"stockByWarehouse"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	Version          int64           `json:"version"`

	domainEvents []DomainEvent
}

// NewInventoryItem creates a catalog entry with zero stock everywhere
func NewInventoryItem(sku, name, category, unit string, priceIn, priceOut decimal.Decimal, minStock int, supplierID string) (*InventoryItem, error) {
	if sku == "" {
		return nil, fmt.Errorf("item sku is required")
	}
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if unit == "" {
		return nil, fmt.Errorf("item unit is required")
	}
	if priceIn.IsNegative() || priceOut.IsNegative() {
		return nil, fmt.Errorf("item prices must not be negative")
	}
	if minStock < 0 {
		return nil, fmt.Errorf("minimum stock must not be negative")
	}

	now := time.Now().UTC()
	return &InventoryItem{
		ID:               fmt.Sprintf("ITM-%s", uuid.New().String()[:8]),
		SKU:              sku,
		Name:             name,
		Category:         category,
		Unit:             unit,
		PriceIn:          priceIn,
		PriceOut:         priceOut,
		MinStock:         minStock,
		SupplierID:       supplierID,
		StockByWarehouse: make(map[string]int),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// StockAt returns the quantity at a warehouse, zero when absent
func (i *InventoryItem) StockAt(warehouseID string) int {
	return i.StockByWarehouse[warehouseID]
}

// TotalStock returns the quantity summed over all warehouses
func (i *InventoryItem) TotalStock() int {
	total := 0
	for _, qty := range i.StockByWarehouse {
		total += qty
	}
	return total
}

// AddStock credits quantity at a warehouse
func (i *InventoryItem) AddStock(warehouseID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if i.StockByWarehouse == nil {
		i.StockByWarehouse = make(map[string]int)
	}
	i.StockByWarehouse[warehouseID] += quantity
	i.UpdatedAt = time.Now().UTC()
	i.checkLowStock()
	return nil
}

// RemoveStock debits quantity at a warehouse, floor-clamped at zero.
// Returns the quantity actually deducted.
func (i *InventoryItem) RemoveStock(warehouseID string, quantity int) (int, error) {
	if quantity < 0 {
		return 0, ErrInvalidQuantity
	}
	if i.StockByWarehouse == nil {
		i.StockByWarehouse = make(map[string]int)
	}
	available := i.StockByWarehouse[warehouseID]
	deducted := quantity
	if deducted > available {
		deducted = available
	}
	i.StockByWarehouse[warehouseID] = available - deducted
	i.UpdatedAt = time.Now().UTC()
	i.checkLowStock()
	return deducted, nil
}

// AdjustStock applies a signed delta at a warehouse, floor-clamped at zero.
// Returns the delta actually applied.
func (i *InventoryItem) AdjustStock(warehouseID string, delta int) int {
	if i.StockByWarehouse == nil {
		i.StockByWarehouse = make(map[string]int)
	}
	current := i.StockByWarehouse[warehouseID]
	next := current + delta
	if next < 0 {
		next = 0
	}
	i.StockByWarehouse[warehouseID] = next
	i.UpdatedAt = time.Now().UTC()
	i.checkLowStock()
	return next - current
}

// IsLowStock reports whether total stock is at or below the minimum threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.MinStock > 0 && i.TotalStock() <= i.MinStock
}

func (i *InventoryItem) checkLowStock() {
	if i.IsLowStock() {
		i.addDomainEvent(LowStockAlertEvent{
			baseEvent:  newBaseEvent(),
			ItemID:     i.ID,
			SKU:        i.SKU,
			TotalStock: i.TotalStock(),
			MinStock:   i.MinStock,
		})
	}
}

// UpdateDetails changes descriptive and pricing fields
func (i *InventoryItem) UpdateDetails(name, category, unit string, priceIn, priceOut decimal.Decimal, minStock int, supplierID string) error {
	if name == "" {
		return fmt.Errorf("item name is required")
	}
	if unit == "" {
		return fmt.Errorf("item unit is required")
	}
	if priceIn.IsNegative() || priceOut.IsNegative() {
		return fmt.Errorf("item prices must not be negative")
	}
	if minStock < 0 {
		return fmt.Errorf("minimum stock must not be negative")
	}
	i.Name = name
	i.Category = category
	i.Unit = unit
	i.PriceIn = priceIn
	i.PriceOut = priceOut
	i.MinStock = minStock
	i.SupplierID = supplierID
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// ValuationAt returns stock value (quantity * priceIn) at a warehouse
func (i *InventoryItem) ValuationAt(warehouseID string) decimal.Decimal {
	return i.PriceIn.Mul(decimal.NewFromInt(int64(i.StockAt(warehouseID))))
}

// TotalValuation returns stock value across all warehouses
func (i *InventoryItem) TotalValuation() decimal.Decimal {
	return i.PriceIn.Mul(decimal.NewFromInt(int64(i.TotalStock())))
}

func (i *InventoryItem) addDomainEvent(event DomainEvent) {
	i.domainEvents = append(i.domainEvents, event)
}

// DomainEvents returns accumulated events
func (i *InventoryItem) DomainEvents() []DomainEvent {
	return i.domainEvents
}

// ClearDomainEvents resets the event list after publishing
func (i *InventoryItem) ClearDomainEvents() {
	i.domainEvents = nil
}
