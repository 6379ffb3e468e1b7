package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WarehouseType classifies a warehouse
type WarehouseType string

const (
	WarehouseGeneral WarehouseType = "GENERAL"
	WarehouseSite    WarehouseType = "SITE"
	WarehouseOffice  WarehouseType = "OFFICE"
)

// IsValid checks if the warehouse type is valid
func (t WarehouseType) IsValid() bool {
	switch t {
	case WarehouseGeneral, WarehouseSite, WarehouseOffice:
		return true
	default:
		return false
	}
}

// WarehouseState is a tagged lifecycle state. Archived warehouses stay
// visible in history but are excluded from new operations.
type WarehouseState string

const (
	WarehouseActive   WarehouseState = "ACTIVE"
	WarehouseArchived WarehouseState = "ARCHIVED"
)

// Warehouse is a physical storage location
type Warehouse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address,omitempty"`
	Type      WarehouseType  `json:"type"`
	State     WarehouseState `json:"state"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Version   int64          `json:"version"`
}

// NewWarehouse creates an active warehouse
func NewWarehouse(name, address string, whType WarehouseType) (*Warehouse, error) {
	if name == "" {
		return nil, fmt.Errorf("warehouse name is required")
	}
	if !whType.IsValid() {
		return nil, ErrInvalidWarehouseType
	}

	now := time.Now().UTC()
	return &Warehouse{
		ID:        fmt.Sprintf("WH-%s", uuid.New().String()[:8]),
		Name:      name,
		Address:   address,
		Type:      whType,
		State:     WarehouseActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive reports whether the warehouse accepts new operations
func (w *Warehouse) IsActive() bool {
	return w.State == WarehouseActive
}

// Archive soft-deletes the warehouse. Idempotent.
func (w *Warehouse) Archive() {
	if w.State == WarehouseArchived {
		return
	}
	w.State = WarehouseArchived
	w.UpdatedAt = time.Now().UTC()
}

// Update changes the descriptive fields
func (w *Warehouse) Update(name, address string, whType WarehouseType) error {
	if name == "" {
		return fmt.Errorf("warehouse name is required")
	}
	if !whType.IsValid() {
		return ErrInvalidWarehouseType
	}
	w.Name = name
	w.Address = address
	w.Type = whType
	w.UpdatedAt = time.Now().UTC()
	return nil
}
