package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStockedItem(t *testing.T, id string, stock map[string]int) *InventoryItem {
	t.Helper()

	item, err := NewInventoryItem("SKU-"+id, "Item "+id, "", "pcs", decimal.NewFromInt(10), decimal.NewFromInt(15), 0, "")
	require.NoError(t, err)
	item.ID = id
	for wh, qty := range stock {
		item.StockByWarehouse[wh] = qty
	}
	return item
}

func completedTransaction(t *testing.T, txType TransactionType, items []TransactionItem, source, target string) *Transaction {
	t.Helper()

	tx, err := NewTransaction(txType, items, source, target, "", "user-1", "", nil)
	require.NoError(t, err)
	require.NoError(t, tx.Approve("admin-1"))
	if tx.Status == TxApproved {
		require.NoError(t, tx.Receive("keeper-1"))
	}
	require.Equal(t, TxCompleted, tx.Status)
	return tx
}

func TestLedgerApply_Import(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 4})
	tx := completedTransaction(t, TypeImport,
		[]TransactionItem{{ItemID: "ITM-A", Quantity: 6}}, "", "WH-MAIN")

	movements, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

	require.NoError(t, err)
	assert.Equal(t, 10, item.StockAt("WH-MAIN"))
	require.Len(t, movements, 1)
	assert.Equal(t, DirectionIn, movements[0].Direction)
	assert.Equal(t, 6, movements[0].Quantity)
	assert.True(t, tx.StockApplied)
}

func TestLedgerApply_ExportClampsAtZero(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 4})
	tx := completedTransaction(t, TypeExport,
		[]TransactionItem{{ItemID: "ITM-A", Quantity: 9}}, "WH-MAIN", "")

	movements, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

	require.NoError(t, err)
	assert.Equal(t, 0, item.StockAt("WH-MAIN"))
	require.Len(t, movements, 1)
	assert.Equal(t, 4, movements[0].Quantity)
}

func TestLedgerApply_TransferConservesClampedQuantity(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 7, "WH-SITE": 2})
	tx := completedTransaction(t, TypeTransfer,
		[]TransactionItem{{ItemID: "ITM-A", Quantity: 10}}, "WH-MAIN", "WH-SITE")

	movements, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

	require.NoError(t, err)
	// only 7 were available, so exactly 7 move
	assert.Equal(t, 0, item.StockAt("WH-MAIN"))
	assert.Equal(t, 9, item.StockAt("WH-SITE"))
	require.Len(t, movements, 2)
	assert.Equal(t, movements[0].Quantity, movements[1].Quantity)
	assert.Equal(t, 7, movements[0].Quantity)
}

func TestLedgerApply_AdjustmentSignedDelta(t *testing.T) {
	tests := []struct {
		name          string
		initial       int
		delta         int
		expectedStock int
		expectedQty   int
		direction     MovementDirection
	}{
		{"positive delta", 5, 3, 8, 3, DirectionIn},
		{"negative delta", 5, -2, 3, 2, DirectionOut},
		{"negative delta clamped", 5, -9, 0, 5, DirectionOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewStockLedger()
			item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": tt.initial})
			tx := completedTransaction(t, TypeAdjustment,
				[]TransactionItem{{ItemID: "ITM-A", Quantity: tt.delta}}, "", "WH-MAIN")

			movements, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStock, item.StockAt("WH-MAIN"))
			require.Len(t, movements, 1)
			assert.Equal(t, tt.expectedQty, movements[0].Quantity)
			assert.Equal(t, tt.direction, movements[0].Direction)
		})
	}
}

func TestLedgerApply_RejectsNonCompleted(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 5})
	tx, err := NewTransaction(TypeExport,
		[]TransactionItem{{ItemID: "ITM-A", Quantity: 2}}, "WH-MAIN", "", "", "user-1", "", nil)
	require.NoError(t, err)

	_, err = ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

	assert.ErrorIs(t, err, ErrStockNotApplicable)
	assert.Equal(t, 5, item.StockAt("WH-MAIN"))
}

func TestLedgerApply_RejectsDoubleApplication(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 10})
	tx := completedTransaction(t, TypeExport,
		[]TransactionItem{{ItemID: "ITM-A", Quantity: 4}}, "WH-MAIN", "")

	_, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})
	require.NoError(t, err)
	require.Equal(t, 6, item.StockAt("WH-MAIN"))

	_, err = ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

	assert.ErrorIs(t, err, ErrStockAlreadyApplied)
	assert.Equal(t, 6, item.StockAt("WH-MAIN"))
}

func TestLedgerApply_UnknownItemLeavesEverythingUntouched(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 10})
	tx := completedTransaction(t, TypeExport, []TransactionItem{
		{ItemID: "ITM-A", Quantity: 4},
		{ItemID: "ITM-MISSING", Quantity: 1},
	}, "WH-MAIN", "")

	_, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})

	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Equal(t, 10, item.StockAt("WH-MAIN"))
	assert.False(t, tx.StockApplied)
}

func TestLedgerApply_FloorInvariantOverSequence(t *testing.T) {
	ledger := NewStockLedger()
	item := createStockedItem(t, "ITM-A", map[string]int{"WH-MAIN": 3, "WH-SITE": 0})

	sequence := []*Transaction{
		completedTransaction(t, TypeExport, []TransactionItem{{ItemID: "ITM-A", Quantity: 10}}, "WH-MAIN", ""),
		completedTransaction(t, TypeImport, []TransactionItem{{ItemID: "ITM-A", Quantity: 5}}, "", "WH-MAIN"),
		completedTransaction(t, TypeTransfer, []TransactionItem{{ItemID: "ITM-A", Quantity: 8}}, "WH-MAIN", "WH-SITE"),
		completedTransaction(t, TypeAdjustment, []TransactionItem{{ItemID: "ITM-A", Quantity: -20}}, "", "WH-SITE"),
		completedTransaction(t, TypeLiquidation, []TransactionItem{{ItemID: "ITM-A", Quantity: 1}}, "WH-SITE", ""),
	}

	for _, tx := range sequence {
		_, err := ledger.Apply(tx, map[string]*InventoryItem{"ITM-A": item})
		require.NoError(t, err)
		for wh, qty := range item.StockByWarehouse {
			assert.GreaterOrEqual(t, qty, 0, "stock at %s went negative", wh)
		}
	}
}
