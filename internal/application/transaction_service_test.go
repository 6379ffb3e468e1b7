package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/materials-service/internal/domain"
	apperrors "github.com/wms-platform/materials-service/pkg/errors"
)

func TestTransactionServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("admin submits an import", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", nil)

		dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "admin-1",
			Type:              domain.TypeImport,
			Items:             []TransactionItemInput{{ItemID: "ITM-A", Quantity: 5, Price: decimal.NewFromInt(10)}},
			TargetWarehouseID: "WH-MAIN",
		})

		require.NoError(t, err)
		assert.Equal(t, "PENDING", dto.Status)
		assert.Equal(t, "admin-1", dto.RequesterID)
	})

	t.Run("keeper warehouse is forced onto the moving side", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 10})

		dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "keeper-main",
			Type:              domain.TypeExport,
			Items:             []TransactionItemInput{{ItemID: "ITM-A", Quantity: 2}},
			SourceWarehouseID: "WH-SITE", // ignored, keeper is pinned to WH-MAIN
		})

		require.NoError(t, err)
		assert.Equal(t, "WH-MAIN", dto.SourceWarehouseID)
	})

	t.Run("employee cannot submit", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", nil)

		_, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "emp-1",
			Type:              domain.TypeImport,
			Items:             []TransactionItemInput{{ItemID: "ITM-A", Quantity: 5}},
			TargetWarehouseID: "WH-MAIN",
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})

	t.Run("unknown item is a data integrity failure", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "admin-1",
			Type:              domain.TypeImport,
			Items:             []TransactionItemInput{{ItemID: "ITM-GHOST", Quantity: 5}},
			TargetWarehouseID: "WH-MAIN",
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeDataIntegrity))
	})

	t.Run("unknown warehouse is a data integrity failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", nil)

		_, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "admin-1",
			Type:              domain.TypeImport,
			Items:             []TransactionItemInput{{ItemID: "ITM-A", Quantity: 5}},
			TargetWarehouseID: "WH-GHOST",
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeDataIntegrity))
	})

	t.Run("new sku travels as a pending item", func(t *testing.T) {
		env := newTestEnv(t)

		dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "admin-1",
			Type:              domain.TypeImport,
			Items:             []TransactionItemInput{{ItemID: "ITM-NEW", Quantity: 5}},
			TargetWarehouseID: "WH-MAIN",
			PendingItems: []PendingItemInput{{
				ItemID: "ITM-NEW", SKU: "SKU-NEW", Name: "Rebar", Unit: "ton",
				PriceIn: decimal.NewFromInt(500), PriceOut: decimal.NewFromInt(550),
			}},
		})

		require.NoError(t, err)
		assert.Equal(t, "PENDING", dto.Status)

		// not yet in the catalog
		_, err = env.itemRepo.FindByID(ctx, "ITM-NEW")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTransactionServiceDecide(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, env *testEnv, txType domain.TransactionType, items []TransactionItemInput, source, target string) string {
		t.Helper()
		dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "admin-1",
			Type:              txType,
			Items:             items,
			SourceWarehouseID: source,
			TargetWarehouseID: target,
		})
		require.NoError(t, err)
		return dto.ID
	}

	t.Run("approved import waits for receipt before stock moves", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 3})
		id := submit(t, env, domain.TypeImport,
			[]TransactionItemInput{{ItemID: "ITM-A", Quantity: 7}}, "", "WH-MAIN")

		result, err := env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: id, ActorID: "admin-1", Decision: DecisionApprove,
		})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", result.Transaction.Status)
		assert.Empty(t, result.Movements)
		assert.Equal(t, 3, env.stockAt(t, "ITM-A", "WH-MAIN"))

		received, err := env.transactions.Receive(ctx, ReceiveTransactionCommand{
			TransactionID: id, ActorID: "keeper-main",
		})

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", received.Transaction.Status)
		assert.Equal(t, 10, env.stockAt(t, "ITM-A", "WH-MAIN"))
	})

	t.Run("approved export completes and moves stock in the same call", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 10})
		id := submit(t, env, domain.TypeExport,
			[]TransactionItemInput{{ItemID: "ITM-A", Quantity: 4}}, "WH-MAIN", "")

		result, err := env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: id, ActorID: "admin-1", Decision: DecisionApprove,
		})

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", result.Transaction.Status)
		require.Len(t, result.Movements, 1)
		assert.Equal(t, 6, env.stockAt(t, "ITM-A", "WH-MAIN"))
	})

	t.Run("rejected transaction leaves stock untouched", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-Y", "SKU-Y", map[string]int{"WH-SITE": 0})
		id := submit(t, env, domain.TypeImport,
			[]TransactionItemInput{{ItemID: "ITM-Y", Quantity: 50}}, "", "WH-SITE")

		result, err := env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: id, ActorID: "admin-1", Decision: DecisionReject,
		})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Transaction.Status)
		assert.Equal(t, 0, env.stockAt(t, "ITM-Y", "WH-SITE"))
	})

	t.Run("keeper cannot decide", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 10})
		id := submit(t, env, domain.TypeExport,
			[]TransactionItemInput{{ItemID: "ITM-A", Quantity: 1}}, "WH-MAIN", "")

		_, err := env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: id, ActorID: "keeper-main", Decision: DecisionApprove,
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})

	t.Run("deciding twice is a state conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 10})
		id := submit(t, env, domain.TypeExport,
			[]TransactionItemInput{{ItemID: "ITM-A", Quantity: 1}}, "WH-MAIN", "")

		_, err := env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: id, ActorID: "admin-1", Decision: DecisionApprove,
		})
		require.NoError(t, err)

		_, err = env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: id, ActorID: "admin-1", Decision: DecisionApprove,
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeStateConflict))
	})

	t.Run("pending items are materialized at approval", func(t *testing.T) {
		env := newTestEnv(t)

		dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
			ActorID:           "admin-1",
			Type:              domain.TypeImport,
			Items:             []TransactionItemInput{{ItemID: "ITM-NEW", Quantity: 5}},
			TargetWarehouseID: "WH-MAIN",
			PendingItems: []PendingItemInput{{
				ItemID: "ITM-NEW", SKU: "SKU-NEW", Name: "Rebar", Unit: "ton",
				PriceIn: decimal.NewFromInt(500), PriceOut: decimal.NewFromInt(550),
			}},
		})
		require.NoError(t, err)

		result, err := env.transactions.Decide(ctx, DecideTransactionCommand{
			TransactionID: dto.ID, ActorID: "admin-1", Decision: DecisionApprove,
		})
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", result.Transaction.Status)

		// catalog entry exists but no stock until receipt
		item, err := env.itemRepo.FindByID(ctx, "ITM-NEW")
		require.NoError(t, err)
		assert.Equal(t, "SKU-NEW", item.SKU)
		assert.Equal(t, 0, item.StockAt("WH-MAIN"))

		_, err = env.transactions.Receive(ctx, ReceiveTransactionCommand{
			TransactionID: dto.ID, ActorID: "keeper-main",
		})
		require.NoError(t, err)
		assert.Equal(t, 5, env.stockAt(t, "ITM-NEW", "WH-MAIN"))
	})
}

func TestTransactionServiceApprovePartial(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 20})
	env.seedItem(t, "ITM-B", "SKU-B", map[string]int{"WH-MAIN": 20})

	dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
		ActorID: "admin-1",
		Type:    domain.TypeExport,
		Items: []TransactionItemInput{
			{ItemID: "ITM-A", Quantity: 5},
			{ItemID: "ITM-B", Quantity: 3},
		},
		SourceWarehouseID: "WH-MAIN",
	})
	require.NoError(t, err)

	result, err := env.transactions.ApprovePartial(ctx, ApprovePartialCommand{
		TransactionID:   dto.ID,
		ActorID:         "admin-1",
		SelectedItemIDs: []string{"ITM-A"},
	})

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Transaction.Status)
	require.Len(t, result.Transaction.Items, 1)
	assert.Equal(t, "ITM-A", result.Transaction.Items[0].ItemID)
	assert.Equal(t, 15, env.stockAt(t, "ITM-A", "WH-MAIN"))
	assert.Equal(t, 20, env.stockAt(t, "ITM-B", "WH-MAIN"))
	assert.Contains(t, result.Transaction.Note, "approved 1 of 2 items")
}

func TestTransactionServiceReceive_Authorization(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedItem(t, "ITM-A", "SKU-A", nil)

	dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
		ActorID:           "admin-1",
		Type:              domain.TypeImport,
		Items:             []TransactionItemInput{{ItemID: "ITM-A", Quantity: 5}},
		TargetWarehouseID: "WH-MAIN",
	})
	require.NoError(t, err)

	_, err = env.transactions.Decide(ctx, DecideTransactionCommand{
		TransactionID: dto.ID, ActorID: "admin-1", Decision: DecisionApprove,
	})
	require.NoError(t, err)

	_, err = env.transactions.Receive(ctx, ReceiveTransactionCommand{
		TransactionID: dto.ID, ActorID: "keeper-site",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	result, err := env.transactions.Receive(ctx, ReceiveTransactionCommand{
		TransactionID: dto.ID, ActorID: "keeper-main",
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", result.Transaction.Status)

	// a second receipt must not re-apply the ledger
	_, err = env.transactions.Receive(ctx, ReceiveTransactionCommand{
		TransactionID: dto.ID, ActorID: "keeper-main",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeStateConflict))
	assert.Equal(t, 5, env.stockAt(t, "ITM-A", "WH-MAIN"))
}

func TestTransactionServiceTransfer_Clamped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedItem(t, "ITM-A", "SKU-A", map[string]int{"WH-MAIN": 7})

	dto, err := env.transactions.Submit(ctx, SubmitTransactionCommand{
		ActorID:           "admin-1",
		Type:              domain.TypeTransfer,
		Items:             []TransactionItemInput{{ItemID: "ITM-A", Quantity: 10}},
		SourceWarehouseID: "WH-MAIN",
		TargetWarehouseID: "WH-SITE",
	})
	require.NoError(t, err)

	_, err = env.transactions.Decide(ctx, DecideTransactionCommand{
		TransactionID: dto.ID, ActorID: "admin-1", Decision: DecisionApprove,
	})
	require.NoError(t, err)

	result, err := env.transactions.Receive(ctx, ReceiveTransactionCommand{
		TransactionID: dto.ID, ActorID: "keeper-site",
	})
	require.NoError(t, err)

	// the credited amount matches what was actually deducted
	assert.Equal(t, 0, env.stockAt(t, "ITM-A", "WH-MAIN"))
	assert.Equal(t, 7, env.stockAt(t, "ITM-A", "WH-SITE"))
	require.Len(t, result.Movements, 2)
	assert.Equal(t, result.Movements[0].Quantity, result.Movements[1].Quantity)
}
