package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRequest(t *testing.T) *MaterialRequest {
	t.Helper()

	req, err := NewMaterialRequest(
		"WH-SITE",
		"",
		"emp-1",
		[]RequestItem{{ItemID: "ITM-X", RequestQty: 20}},
		"",
		time.Now().Add(7*24*time.Hour),
	)
	require.NoError(t, err)
	return req
}

func fixedStock(stock map[string]int) StockLookup {
	return func(itemID string) int { return stock[itemID] }
}

func TestNewMaterialRequest(t *testing.T) {
	tests := []struct {
		name        string
		siteID      string
		items       []RequestItem
		requesterID string
		expectError error
	}{
		{
			name:        "valid request",
			siteID:      "WH-SITE",
			items:       []RequestItem{{ItemID: "ITM-X", RequestQty: 5}},
			requesterID: "emp-1",
		},
		{
			name:        "missing site warehouse",
			items:       []RequestItem{{ItemID: "ITM-X", RequestQty: 5}},
			requesterID: "emp-1",
			expectError: ErrMissingWarehouse,
		},
		{
			name:        "no items",
			siteID:      "WH-SITE",
			items:       []RequestItem{},
			requesterID: "emp-1",
			expectError: ErrNoItems,
		},
		{
			name:        "zero request quantity",
			siteID:      "WH-SITE",
			items:       []RequestItem{{ItemID: "ITM-X", RequestQty: 0}},
			requesterID: "emp-1",
			expectError: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewMaterialRequest(tt.siteID, "", tt.requesterID, tt.items, "", time.Time{})

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, ReqPending, req.Status)
			assert.NotEmpty(t, req.Code)
			require.Len(t, req.Logs, 1)
			assert.Equal(t, "CREATED", req.Logs[0].Action)
			for _, item := range req.Items {
				assert.Zero(t, item.ApprovedQty)
			}
		})
	}
}

func TestRequestApprove_ClampsToSourceStock(t *testing.T) {
	req := createTestRequest(t)
	stock := fixedStock(map[string]int{"ITM-X": 12})

	clamped, err := req.Approve(
		[]ApprovalLine{{ItemID: "ITM-X", ApprovedQty: 20}},
		"WH-MAIN", "acct-1", "", stock, false,
	)

	require.NoError(t, err)
	assert.Equal(t, ReqApproved, req.Status)
	assert.Equal(t, "WH-MAIN", req.SourceWarehouseID)
	assert.Equal(t, 12, req.Items[0].ApprovedQty)
	require.Len(t, clamped, 1)
	assert.Equal(t, 20, clamped[0].ProposedQty)
	assert.Equal(t, 12, clamped[0].ApprovedQty)
}

func TestRequestApprove_ExcessRequiresConfirmation(t *testing.T) {
	req := createTestRequest(t)
	stock := fixedStock(map[string]int{"ITM-X": 100})

	_, err := req.Approve(
		[]ApprovalLine{{ItemID: "ITM-X", ApprovedQty: 25}},
		"WH-MAIN", "acct-1", "", stock, false,
	)

	var excessErr *ExcessApprovalError
	require.ErrorAs(t, err, &excessErr)
	require.Len(t, excessErr.Lines, 1)
	assert.Equal(t, 25, excessErr.Lines[0].ApprovedQty)

	// nothing mutated before confirmation
	assert.Equal(t, ReqPending, req.Status)
	assert.Empty(t, req.SourceWarehouseID)
	assert.Zero(t, req.Items[0].ApprovedQty)

	_, err = req.Approve(
		[]ApprovalLine{{ItemID: "ITM-X", ApprovedQty: 25}},
		"WH-MAIN", "acct-1", "", stock, true,
	)

	require.NoError(t, err)
	assert.Equal(t, ReqApproved, req.Status)
	assert.Equal(t, 25, req.Items[0].ApprovedQty)
}

func TestRequestApprove_ClampedExcessNeedsNoConfirmation(t *testing.T) {
	// proposed 30 exceeds requested 20 but stock clamps it back to 15,
	// below requested, so no override confirmation applies
	req := createTestRequest(t)
	stock := fixedStock(map[string]int{"ITM-X": 15})

	clamped, err := req.Approve(
		[]ApprovalLine{{ItemID: "ITM-X", ApprovedQty: 30}},
		"WH-MAIN", "acct-1", "", stock, false,
	)

	require.NoError(t, err)
	assert.Equal(t, 15, req.Items[0].ApprovedQty)
	require.Len(t, clamped, 1)
}

func TestRequestApprove_RequiresSourceWarehouse(t *testing.T) {
	req := createTestRequest(t)

	_, err := req.Approve(nil, "", "acct-1", "", fixedStock(nil), false)

	assert.ErrorIs(t, err, ErrSourceNotSet)
}

func TestRequestApprove_NotPending(t *testing.T) {
	req := createTestRequest(t)
	require.NoError(t, req.Reject("acct-1", ""))

	_, err := req.Approve(nil, "WH-MAIN", "acct-1", "", fixedStock(nil), false)

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRequestReject(t *testing.T) {
	req := createTestRequest(t)

	err := req.Reject("acct-1", "budget freeze")

	require.NoError(t, err)
	assert.Equal(t, ReqRejected, req.Status)
	assert.True(t, req.Status.IsTerminal())
	last := req.Logs[len(req.Logs)-1]
	assert.Equal(t, "REJECTED", last.Action)
	assert.Equal(t, "budget freeze", last.Note)
}

func TestRequestLifecycle_EndToEnd(t *testing.T) {
	req := createTestRequest(t)
	stock := fixedStock(map[string]int{"ITM-X": 12})

	_, err := req.Approve(
		[]ApprovalLine{{ItemID: "ITM-X", ApprovedQty: 20}},
		"WH-MAIN", "acct-1", "", stock, false,
	)
	require.NoError(t, err)
	assert.Equal(t, 12, req.Items[0].ApprovedQty)

	require.NoError(t, req.MarkInTransit("keeper-main"))
	assert.Equal(t, ReqInTransit, req.Status)

	require.NoError(t, req.MarkCompleted("keeper-site"))
	assert.Equal(t, ReqCompleted, req.Status)

	actions := make([]string, 0, len(req.Logs))
	for _, log := range req.Logs {
		actions = append(actions, log.Action)
	}
	assert.Equal(t, []string{"CREATED", "APPROVED", "IN_TRANSIT", "COMPLETED"}, actions)
}

func TestRequestTransitions_StateConflicts(t *testing.T) {
	t.Run("in transit requires approved", func(t *testing.T) {
		req := createTestRequest(t)
		assert.ErrorIs(t, req.MarkInTransit("keeper-1"), ErrInvalidStatus)
	})

	t.Run("completed requires in transit", func(t *testing.T) {
		req := createTestRequest(t)
		assert.ErrorIs(t, req.MarkCompleted("keeper-1"), ErrInvalidStatus)
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		req := createTestRequest(t)
		require.NoError(t, req.Reject("acct-1", ""))

		assert.ErrorIs(t, req.MarkInTransit("keeper-1"), ErrInvalidStatus)
		assert.ErrorIs(t, req.MarkCompleted("keeper-1"), ErrInvalidStatus)
		assert.ErrorIs(t, req.Reject("acct-1", ""), ErrInvalidStatus)
	})
}

func TestRequestApprovedLines(t *testing.T) {
	req, err := NewMaterialRequest("WH-SITE", "", "emp-1", []RequestItem{
		{ItemID: "ITM-X", RequestQty: 10},
		{ItemID: "ITM-Y", RequestQty: 5},
	}, "", time.Time{})
	require.NoError(t, err)

	stock := fixedStock(map[string]int{"ITM-X": 100, "ITM-Y": 100})
	_, err = req.Approve([]ApprovalLine{
		{ItemID: "ITM-X", ApprovedQty: 10},
		{ItemID: "ITM-Y", ApprovedQty: 0},
	}, "WH-MAIN", "acct-1", "", stock, false)
	require.NoError(t, err)

	lines := req.ApprovedLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "ITM-X", lines[0].ItemID)
}
