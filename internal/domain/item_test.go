package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestItem(t *testing.T) *InventoryItem {
	t.Helper()

	item, err := NewInventoryItem("SKU-001", "Portland Cement", "binder", "bag",
		decimal.NewFromInt(95), decimal.NewFromInt(110), 10, "SUP-1")
	require.NoError(t, err)
	return item
}

func TestNewInventoryItem_Validation(t *testing.T) {
	tests := []struct {
		name    string
		sku     string
		itemN   string
		unit    string
		priceIn decimal.Decimal
		wantErr bool
	}{
		{"valid", "SKU-001", "Cement", "bag", decimal.NewFromInt(95), false},
		{"missing sku", "", "Cement", "bag", decimal.NewFromInt(95), true},
		{"missing name", "SKU-001", "", "bag", decimal.NewFromInt(95), true},
		{"missing unit", "SKU-001", "Cement", "", decimal.NewFromInt(95), true},
		{"negative price", "SKU-001", "Cement", "bag", decimal.NewFromInt(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInventoryItem(tt.sku, tt.itemN, "", tt.unit, tt.priceIn, decimal.Zero, 0, "")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemRemoveStock_ReportsDeducted(t *testing.T) {
	item := createTestItem(t)
	require.NoError(t, item.AddStock("WH-MAIN", 7))

	deducted, err := item.RemoveStock("WH-MAIN", 10)

	require.NoError(t, err)
	assert.Equal(t, 7, deducted)
	assert.Equal(t, 0, item.StockAt("WH-MAIN"))
}

func TestItemRemoveStock_MissingWarehouseIsZero(t *testing.T) {
	item := createTestItem(t)

	deducted, err := item.RemoveStock("WH-NEVER", 5)

	require.NoError(t, err)
	assert.Zero(t, deducted)
	assert.Zero(t, item.StockAt("WH-NEVER"))
}

func TestItemAdjustStock(t *testing.T) {
	item := createTestItem(t)
	require.NoError(t, item.AddStock("WH-MAIN", 5))

	applied := item.AdjustStock("WH-MAIN", -8)

	assert.Equal(t, -5, applied)
	assert.Equal(t, 0, item.StockAt("WH-MAIN"))
}

func TestItemLowStockEvent(t *testing.T) {
	item := createTestItem(t)
	require.NoError(t, item.AddStock("WH-MAIN", 50))
	item.ClearDomainEvents()

	_, err := item.RemoveStock("WH-MAIN", 45)
	require.NoError(t, err)

	events := item.DomainEvents()
	require.NotEmpty(t, events)
	alert, ok := events[len(events)-1].(LowStockAlertEvent)
	require.True(t, ok)
	assert.Equal(t, 5, alert.TotalStock)
	assert.Equal(t, 10, alert.MinStock)
}

func TestItemValuation(t *testing.T) {
	item := createTestItem(t)
	require.NoError(t, item.AddStock("WH-MAIN", 3))
	require.NoError(t, item.AddStock("WH-SITE", 2))

	assert.True(t, item.ValuationAt("WH-MAIN").Equal(decimal.NewFromInt(285)))
	assert.True(t, item.TotalValuation().Equal(decimal.NewFromInt(475)))
}

func TestWarehouseArchive(t *testing.T) {
	wh, err := NewWarehouse("Central Depot", "12 Dock Rd", WarehouseGeneral)
	require.NoError(t, err)
	assert.True(t, wh.IsActive())

	wh.Archive()

	assert.Equal(t, WarehouseArchived, wh.State)
	assert.False(t, wh.IsActive())

	wh.Archive() // idempotent
	assert.Equal(t, WarehouseArchived, wh.State)
}

func TestNewWarehouse_InvalidType(t *testing.T) {
	_, err := NewWarehouse("Depot", "", WarehouseType("FLOATING"))
	assert.ErrorIs(t, err, ErrInvalidWarehouseType)
}
