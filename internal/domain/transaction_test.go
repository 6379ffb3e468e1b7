package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures
func createTestTransactionItems() []TransactionItem {
	return []TransactionItem{
		{ItemID: "ITM-A", Quantity: 5, Price: decimal.NewFromInt(120)},
		{ItemID: "ITM-B", Quantity: 3, Price: decimal.NewFromInt(75)},
	}
}

func createTestTransaction(t *testing.T, txType TransactionType) *Transaction {
	t.Helper()

	source, target := "", ""
	switch txType {
	case TypeImport, TypeAdjustment:
		target = "WH-MAIN"
	case TypeExport, TypeLiquidation:
		source = "WH-MAIN"
	case TypeTransfer:
		source = "WH-MAIN"
		target = "WH-SITE"
	}

	tx, err := NewTransaction(txType, createTestTransactionItems(), source, target, "", "user-1", "", nil)
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name        string
		txType      TransactionType
		items       []TransactionItem
		source      string
		target      string
		requesterID string
		expectError error
	}{
		{
			name:        "valid import",
			txType:      TypeImport,
			items:       createTestTransactionItems(),
			target:      "WH-MAIN",
			requesterID: "user-1",
		},
		{
			name:        "invalid type",
			txType:      TransactionType("REFUND"),
			items:       createTestTransactionItems(),
			target:      "WH-MAIN",
			requesterID: "user-1",
			expectError: ErrInvalidTransactionType,
		},
		{
			name:        "no items",
			txType:      TypeImport,
			items:       []TransactionItem{},
			target:      "WH-MAIN",
			requesterID: "user-1",
			expectError: ErrNoItems,
		},
		{
			name:        "export without source",
			txType:      TypeExport,
			items:       createTestTransactionItems(),
			requesterID: "user-1",
			expectError: ErrMissingWarehouse,
		},
		{
			name:        "import with source set",
			txType:      TypeImport,
			items:       createTestTransactionItems(),
			source:      "WH-OTHER",
			target:      "WH-MAIN",
			requesterID: "user-1",
			expectError: ErrUnexpectedWarehouse,
		},
		{
			name:        "zero quantity",
			txType:      TypeExport,
			items:       []TransactionItem{{ItemID: "ITM-A", Quantity: 0}},
			source:      "WH-MAIN",
			requesterID: "user-1",
			expectError: ErrInvalidQuantity,
		},
		{
			name:        "adjustment allows negative quantity",
			txType:      TypeAdjustment,
			items:       []TransactionItem{{ItemID: "ITM-A", Quantity: -4}},
			target:      "WH-MAIN",
			requesterID: "user-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.txType, tt.items, tt.source, tt.target, "", tt.requesterID, "", nil)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, tx)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, TxPending, tx.Status)
			assert.NotEmpty(t, tx.ID)
			assert.False(t, tx.StockApplied)
		})
	}
}

func TestTransactionApprove_TwoPhaseSplit(t *testing.T) {
	tests := []struct {
		txType         TransactionType
		expectedStatus TransactionStatus
	}{
		{TypeImport, TxApproved},
		{TypeTransfer, TxApproved},
		{TypeExport, TxCompleted},
		{TypeLiquidation, TxCompleted},
		{TypeAdjustment, TxCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			tx := createTestTransaction(t, tt.txType)

			err := tx.Approve("admin-1")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, tx.Status)
			assert.Equal(t, "admin-1", tx.ApproverID)
		})
	}
}

func TestTransactionApprove_NotPending(t *testing.T) {
	tx := createTestTransaction(t, TypeImport)
	require.NoError(t, tx.Approve("admin-1"))

	err := tx.Approve("admin-1")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransactionReject(t *testing.T) {
	tx := createTestTransaction(t, TypeImport)

	err := tx.Reject("admin-1")

	require.NoError(t, err)
	assert.Equal(t, TxCancelled, tx.Status)
	assert.True(t, tx.Status.IsTerminal())

	assert.ErrorIs(t, tx.Approve("admin-1"), ErrInvalidStatus)
	assert.ErrorIs(t, tx.Receive("keeper-1"), ErrInvalidStatus)
}

func TestTransactionReceive(t *testing.T) {
	tx := createTestTransaction(t, TypeTransfer)
	require.NoError(t, tx.Approve("admin-1"))

	err := tx.Receive("keeper-1")

	require.NoError(t, err)
	assert.Equal(t, TxCompleted, tx.Status)
	assert.Equal(t, "admin-1", tx.ApproverID)
}

func TestTransactionReceive_RequiresApproved(t *testing.T) {
	tx := createTestTransaction(t, TypeImport)

	err := tx.Receive("keeper-1")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, TxPending, tx.Status)
}

func TestTransactionApprovePartial(t *testing.T) {
	t.Run("filters items and completes one-phase type", func(t *testing.T) {
		tx := createTestTransaction(t, TypeExport)

		err := tx.ApprovePartial([]string{"ITM-A"}, "admin-1")

		require.NoError(t, err)
		assert.Equal(t, TxCompleted, tx.Status)
		require.Len(t, tx.Items, 1)
		assert.Equal(t, "ITM-A", tx.Items[0].ItemID)
		assert.Equal(t, 5, tx.Items[0].Quantity)
		assert.Contains(t, tx.Note, "approved 1 of 2 items")
	})

	t.Run("two-phase type lands on approved", func(t *testing.T) {
		tx := createTestTransaction(t, TypeTransfer)

		err := tx.ApprovePartial([]string{"ITM-B"}, "admin-1")

		require.NoError(t, err)
		assert.Equal(t, TxApproved, tx.Status)
		require.Len(t, tx.Items, 1)
		assert.Equal(t, "ITM-B", tx.Items[0].ItemID)
	})

	t.Run("keeps existing note", func(t *testing.T) {
		tx, err := NewTransaction(TypeExport, createTestTransactionItems(), "WH-MAIN", "", "", "user-1", "urgent", nil)
		require.NoError(t, err)

		require.NoError(t, tx.ApprovePartial([]string{"ITM-A"}, "admin-1"))

		assert.Equal(t, "urgent (approved 1 of 2 items)", tx.Note)
	})

	t.Run("all items selected leaves note alone", func(t *testing.T) {
		tx := createTestTransaction(t, TypeExport)

		require.NoError(t, tx.ApprovePartial([]string{"ITM-A", "ITM-B"}, "admin-1"))

		assert.Empty(t, tx.Note)
		assert.Len(t, tx.Items, 2)
	})

	t.Run("no matching items", func(t *testing.T) {
		tx := createTestTransaction(t, TypeExport)

		err := tx.ApprovePartial([]string{"ITM-MISSING"}, "admin-1")

		assert.ErrorIs(t, err, ErrNoItemsSelected)
		assert.Equal(t, TxPending, tx.Status)
		assert.Len(t, tx.Items, 2)
	})

	t.Run("filters pending items to the selection", func(t *testing.T) {
		pending := []PendingItem{
			{ItemID: "ITM-A", SKU: "SKU-A", Name: "Cement", Unit: "bag"},
			{ItemID: "ITM-B", SKU: "SKU-B", Name: "Sand", Unit: "m3"},
		}
		tx, err := NewTransaction(TypeImport, createTestTransactionItems(), "", "WH-MAIN", "", "user-1", "", pending)
		require.NoError(t, err)

		require.NoError(t, tx.ApprovePartial([]string{"ITM-A"}, "admin-1"))

		materialized := tx.TakePendingItems()
		require.Len(t, materialized, 1)
		assert.Equal(t, "SKU-A", materialized[0].SKU)
	})
}

func TestTransactionTakePendingItems(t *testing.T) {
	pending := []PendingItem{{ItemID: "ITM-N", SKU: "SKU-N", Name: "Gravel", Unit: "m3"}}
	tx, err := NewTransaction(TypeImport, []TransactionItem{{ItemID: "ITM-N", Quantity: 10}}, "", "WH-MAIN", "", "user-1", "", pending)
	require.NoError(t, err)

	first := tx.TakePendingItems()
	second := tx.TakePendingItems()

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}

func TestTransactionDomainEvents(t *testing.T) {
	tx := createTestTransaction(t, TypeExport)
	require.NoError(t, tx.Approve("admin-1"))

	events := tx.DomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(TransactionCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, tx.ID, completed.TransactionID)

	tx.ClearDomainEvents()
	assert.Empty(t, tx.DomainEvents())
}
