package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wms-platform/materials-service/pkg/errors"
)

func createRequest(t *testing.T, env *testEnv, items []RequestItemInput) *RequestDTO {
	t.Helper()

	dto, err := env.requests.Create(context.Background(), CreateRequestCommand{
		ActorID:         "emp-1",
		SiteWarehouseID: "WH-SITE",
		Items:           items,
	})
	require.NoError(t, err)
	return dto
}

func TestRequestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("employee creates a pending request", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-X", "SKU-X", nil)

		dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 20}})

		assert.Equal(t, "PENDING", dto.Status)
		assert.NotEmpty(t, dto.Code)
		require.Len(t, dto.Logs, 1)
		assert.Equal(t, "CREATED", dto.Logs[0].Action)
	})

	t.Run("unknown item rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.requests.Create(ctx, CreateRequestCommand{
			ActorID:         "emp-1",
			SiteWarehouseID: "WH-SITE",
			Items:           []RequestItemInput{{ItemID: "ITM-GHOST", RequestQty: 1}},
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeDataIntegrity))
	})

	t.Run("keeper of another warehouse cannot create for the site", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-X", "SKU-X", nil)

		_, err := env.requests.Create(ctx, CreateRequestCommand{
			ActorID:         "keeper-main",
			SiteWarehouseID: "WH-SITE",
			Items:           []RequestItemInput{{ItemID: "ITM-X", RequestQty: 1}},
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})
}

func TestRequestServiceDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("approval clamps to live source stock", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-X", "SKU-X", map[string]int{"WH-MAIN": 12})
		dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 20}})

		result, err := env.requests.Decide(ctx, DecideRequestCommand{
			RequestID:         dto.ID,
			ActorID:           "acct-1",
			Decision:          DecisionApprove,
			Lines:             []ApprovalLineInput{{ItemID: "ITM-X", ApprovedQty: 20}},
			SourceWarehouseID: "WH-MAIN",
		})

		require.NoError(t, err)
		assert.False(t, result.ConfirmationRequired)
		assert.Equal(t, "APPROVED", result.Request.Status)
		assert.Equal(t, 12, result.Request.Items[0].ApprovedQty)
		require.Len(t, result.ClampedLines, 1)
		assert.Equal(t, 20, result.ClampedLines[0].ProposedQty)
		assert.Equal(t, 12, result.ClampedLines[0].ApprovedQty)
	})

	t.Run("excess over requested needs explicit confirmation", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-X", "SKU-X", map[string]int{"WH-MAIN": 100})
		dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 20}})

		result, err := env.requests.Decide(ctx, DecideRequestCommand{
			RequestID:         dto.ID,
			ActorID:           "acct-1",
			Decision:          DecisionApprove,
			Lines:             []ApprovalLineInput{{ItemID: "ITM-X", ApprovedQty: 25}},
			SourceWarehouseID: "WH-MAIN",
		})

		require.NoError(t, err)
		assert.True(t, result.ConfirmationRequired)
		require.Len(t, result.ExcessLines, 1)

		// nothing committed
		stored, err := env.requests.Get(ctx, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", stored.Status)

		confirmed, err := env.requests.Decide(ctx, DecideRequestCommand{
			RequestID:         dto.ID,
			ActorID:           "acct-1",
			Decision:          DecisionApprove,
			Lines:             []ApprovalLineInput{{ItemID: "ITM-X", ApprovedQty: 25}},
			SourceWarehouseID: "WH-MAIN",
			ConfirmExcess:     true,
		})

		require.NoError(t, err)
		assert.False(t, confirmed.ConfirmationRequired)
		assert.Equal(t, 25, confirmed.Request.Items[0].ApprovedQty)
	})

	t.Run("reject is terminal", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-X", "SKU-X", nil)
		dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 5}})

		result, err := env.requests.Decide(ctx, DecideRequestCommand{
			RequestID: dto.ID, ActorID: "acct-1", Decision: DecisionReject, Note: "no budget",
		})
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", result.Request.Status)

		_, err = env.requests.Decide(ctx, DecideRequestCommand{
			RequestID: dto.ID, ActorID: "acct-1", Decision: DecisionApprove,
			Lines:             []ApprovalLineInput{{ItemID: "ITM-X", ApprovedQty: 5}},
			SourceWarehouseID: "WH-MAIN",
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeStateConflict))
	})

	t.Run("keeper cannot decide", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedItem(t, "ITM-X", "SKU-X", nil)
		dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 5}})

		_, err := env.requests.Decide(ctx, DecideRequestCommand{
			RequestID: dto.ID, ActorID: "keeper-main", Decision: DecisionReject,
		})

		assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	})
}

func TestRequestServiceLifecycle_EndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedItem(t, "ITM-X", "SKU-X", map[string]int{"WH-MAIN": 12})

	dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 20}})

	decided, err := env.requests.Decide(ctx, DecideRequestCommand{
		RequestID:         dto.ID,
		ActorID:           "acct-1",
		Decision:          DecisionApprove,
		Lines:             []ApprovalLineInput{{ItemID: "ITM-X", ApprovedQty: 20}},
		SourceWarehouseID: "WH-MAIN",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, decided.Request.Items[0].ApprovedQty)

	// wrong keeper cannot ship
	_, err = env.requests.MarkInTransit(ctx, MarkRequestInTransitCommand{
		RequestID: dto.ID, ActorID: "keeper-site",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	shipped, err := env.requests.MarkInTransit(ctx, MarkRequestInTransitCommand{
		RequestID: dto.ID, ActorID: "keeper-main",
	})
	require.NoError(t, err)
	assert.Equal(t, "IN_TRANSIT", shipped.Request.Status)

	// companion export decremented the source at ship time
	require.NotNil(t, shipped.Transaction)
	assert.Equal(t, "EXPORT", shipped.Transaction.Type)
	assert.Equal(t, "COMPLETED", shipped.Transaction.Status)
	assert.Equal(t, dto.ID, shipped.Transaction.RelatedRequestID)
	assert.Equal(t, 0, env.stockAt(t, "ITM-X", "WH-MAIN"))

	// wrong keeper cannot complete
	_, err = env.requests.MarkCompleted(ctx, MarkRequestCompletedCommand{
		RequestID: dto.ID, ActorID: "keeper-main",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	completed, err := env.requests.MarkCompleted(ctx, MarkRequestCompletedCommand{
		RequestID: dto.ID, ActorID: "keeper-site",
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", completed.Request.Status)

	// companion import credited the site with the shipped quantity
	require.NotNil(t, completed.Transaction)
	assert.Equal(t, "IMPORT", completed.Transaction.Type)
	assert.Equal(t, 12, env.stockAt(t, "ITM-X", "WH-SITE"))

	logs := completed.Request.Logs
	actions := make([]string, 0, len(logs))
	for _, log := range logs {
		actions = append(actions, log.Action)
	}
	assert.Equal(t, []string{"CREATED", "APPROVED", "IN_TRANSIT", "COMPLETED"}, actions)
}

func TestRequestServiceMarkInTransit_StateConflicts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedItem(t, "ITM-X", "SKU-X", map[string]int{"WH-MAIN": 10})
	dto := createRequest(t, env, []RequestItemInput{{ItemID: "ITM-X", RequestQty: 5}})

	// cannot ship a pending request
	_, err := env.requests.MarkInTransit(ctx, MarkRequestInTransitCommand{
		RequestID: dto.ID, ActorID: "admin-1",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeStateConflict))

	// cannot complete a pending request either
	_, err = env.requests.MarkCompleted(ctx, MarkRequestCompletedCommand{
		RequestID: dto.ID, ActorID: "admin-1",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeStateConflict))
}

func TestRequestServiceShipDropsZeroApprovals(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedItem(t, "ITM-X", "SKU-X", map[string]int{"WH-MAIN": 10})
	env.seedItem(t, "ITM-Y", "SKU-Y", map[string]int{"WH-MAIN": 10})

	dto := createRequest(t, env, []RequestItemInput{
		{ItemID: "ITM-X", RequestQty: 5},
		{ItemID: "ITM-Y", RequestQty: 5},
	})

	_, err := env.requests.Decide(ctx, DecideRequestCommand{
		RequestID: dto.ID,
		ActorID:   "acct-1",
		Decision:  DecisionApprove,
		Lines: []ApprovalLineInput{
			{ItemID: "ITM-X", ApprovedQty: 5},
			{ItemID: "ITM-Y", ApprovedQty: 0},
		},
		SourceWarehouseID: "WH-MAIN",
	})
	require.NoError(t, err)

	shipped, err := env.requests.MarkInTransit(ctx, MarkRequestInTransitCommand{
		RequestID: dto.ID, ActorID: "keeper-main",
	})
	require.NoError(t, err)

	require.Len(t, shipped.Transaction.Items, 1)
	assert.Equal(t, "ITM-X", shipped.Transaction.Items[0].ItemID)
	assert.Equal(t, 10, env.stockAt(t, "ITM-Y", "WH-MAIN"))
}
