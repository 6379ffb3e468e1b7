package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/wms-platform/materials-service/internal/domain"
	apperrors "github.com/wms-platform/materials-service/pkg/errors"
	"github.com/wms-platform/materials-service/pkg/logging"
	"github.com/wms-platform/materials-service/pkg/metrics"
)

// TransactionService handles the stock transaction lifecycle
type TransactionService struct {
	txRepo        domain.TransactionRepository
	itemRepo      domain.ItemRepository
	warehouseRepo domain.WarehouseRepository
	userRepo      domain.UserRepository
	ledger        *domain.StockLedger
	recorder      *ActivityRecorder
	logger        *logging.Logger
	metrics       *metrics.Metrics
}

// NewTransactionService creates a TransactionService
func NewTransactionService(
	txRepo domain.TransactionRepository,
	itemRepo domain.ItemRepository,
	warehouseRepo domain.WarehouseRepository,
	userRepo domain.UserRepository,
	recorder *ActivityRecorder,
	logger *logging.Logger,
	m *metrics.Metrics,
) *TransactionService {
	return &TransactionService{
		txRepo:        txRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		userRepo:      userRepo,
		ledger:        domain.NewStockLedger(),
		recorder:      recorder,
		logger:        logger.WithComponent("transaction-service"),
		metrics:       m,
	}
}

// Submit creates a PENDING transaction. A keeper's warehouse on the moving
// side is forced to their assignment regardless of what was submitted.
func (s *TransactionService) Submit(ctx context.Context, cmd SubmitTransactionCommand) (*TransactionDTO, error) {
	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleKeeper {
		forceSource, forceTarget := domain.KeeperWarehouseFor(cmd.Type)
		if forceSource {
			cmd.SourceWarehouseID = actor.AssignedWarehouseID
		}
		if forceTarget {
			cmd.TargetWarehouseID = actor.AssignedWarehouseID
		}
	}

	tx, err := domain.NewTransaction(
		cmd.Type,
		cmd.toDomainItems(),
		cmd.SourceWarehouseID,
		cmd.TargetWarehouseID,
		cmd.SupplierID,
		actor.ID,
		cmd.Note,
		cmd.toDomainPendingItems(),
	)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if !domain.CanTransition(actor, tx, domain.ActionTransactionSubmit) {
		return nil, apperrors.ErrForbidden("not allowed to submit this transaction")
	}

	if err := s.checkWarehouses(ctx, tx, true); err != nil {
		return nil, err
	}
	if _, err := s.resolveItems(ctx, tx, nil); err != nil {
		return nil, err
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		s.logger.WithError(err).Error("Failed to save transaction", "transactionId", tx.ID)
		return nil, mapSaveError(err, "transaction", tx.ID)
	}

	s.metrics.TransactionsSubmitted.WithLabelValues(string(tx.Type)).Inc()
	s.recorder.Record(ctx, domain.NewActivityRecord(
		"TRANSACTION", "SUBMITTED",
		fmt.Sprintf("%s transaction %s submitted with %d item(s)", tx.Type, tx.ID, len(tx.Items)),
		actor.ID, s.movingWarehouse(tx), tx.ID, domain.SeverityInfo,
	))
	s.logger.Event(ctx, "stock.transaction.submitted", map[string]any{
		"transactionId": tx.ID,
		"type":          string(tx.Type),
	})

	return ToTransactionDTO(tx), nil
}

// Decide approves or rejects a PENDING transaction. Approval of import and
// transfer types lands on APPROVED pending receipt; all other types complete
// immediately with the ledger applied in the same call.
func (s *TransactionService) Decide(ctx context.Context, cmd DecideTransactionCommand) (*TransactionResult, error) {
	if !cmd.Decision.IsValid() {
		return nil, apperrors.ErrValidation("decision must be APPROVE or REJECT")
	}

	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.loadTransaction(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(actor, tx, domain.ActionTransactionDecide) {
		return nil, apperrors.ErrForbidden("not allowed to decide transactions")
	}

	if cmd.Decision == DecisionReject {
		if err := tx.Reject(actor.ID); err != nil {
			return nil, mapTransitionError(err)
		}
		if err := s.txRepo.Save(ctx, tx); err != nil {
			return nil, mapSaveError(err, "transaction", tx.ID)
		}

		s.metrics.TransactionsDecided.WithLabelValues(string(tx.Type), "reject").Inc()
		s.recorder.Record(ctx, domain.NewActivityRecord(
			"TRANSACTION", "REJECTED",
			fmt.Sprintf("%s transaction %s rejected", tx.Type, tx.ID),
			actor.ID, s.movingWarehouse(tx), tx.ID, domain.SeverityWarning,
		))
		return &TransactionResult{Transaction: *ToTransactionDTO(tx)}, nil
	}

	return s.advance(ctx, tx, actor, func() error { return tx.Approve(actor.ID) }, "APPROVED")
}

// ApprovePartial approves a subset of a PENDING transaction's items,
// discarding the rest
func (s *TransactionService) ApprovePartial(ctx context.Context, cmd ApprovePartialCommand) (*TransactionResult, error) {
	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.loadTransaction(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(actor, tx, domain.ActionTransactionDecide) {
		return nil, apperrors.ErrForbidden("not allowed to decide transactions")
	}

	selected := make(map[string]bool, len(cmd.SelectedItemIDs))
	for _, id := range cmd.SelectedItemIDs {
		selected[id] = true
	}

	return s.advance(ctx, tx, actor,
		func() error { return tx.ApprovePartial(cmd.SelectedItemIDs, actor.ID) },
		"PARTIALLY_APPROVED",
		withSelection(selected),
	)
}

// Receive completes an APPROVED transaction at its destination and applies
// the ledger
func (s *TransactionService) Receive(ctx context.Context, cmd ReceiveTransactionCommand) (*TransactionResult, error) {
	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.loadTransaction(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(actor, tx, domain.ActionTransactionReceive) {
		return nil, apperrors.ErrForbidden("not allowed to receive this transaction")
	}

	return s.advance(ctx, tx, actor, func() error { return tx.Receive(actor.ID) }, "RECEIVED")
}

// Get returns one transaction
func (s *TransactionService) Get(ctx context.Context, id string) (*TransactionDTO, error) {
	tx, err := s.loadTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTransactionDTO(tx), nil
}

// List returns transactions matching the filter
func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) ([]*TransactionDTO, error) {
	txs, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list transactions").WithCause(err)
	}

	dtos := make([]*TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, ToTransactionDTO(tx))
	}
	return dtos, nil
}

type advanceOptions struct {
	selection map[string]bool
}

type advanceOption func(*advanceOptions)

// withSelection restricts the pre-transition integrity check to the items
// that will survive a partial approval
func withSelection(selected map[string]bool) advanceOption {
	return func(o *advanceOptions) { o.selection = selected }
}

// advance runs a transition that may complete the transaction: referential
// integrity is checked before the transition commits, pending catalog
// entries are materialized on approval, and the ledger is applied when the
// transaction lands on COMPLETED.
func (s *TransactionService) advance(ctx context.Context, tx *domain.Transaction, actor *domain.User, transition func() error, action string, opts ...advanceOption) (*TransactionResult, error) {
	options := advanceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if err := s.checkWarehouses(ctx, tx, false); err != nil {
		return nil, err
	}
	resolved, err := s.resolveItems(ctx, tx, options.selection)
	if err != nil {
		return nil, err
	}

	if err := transition(); err != nil {
		return nil, mapTransitionError(err)
	}

	newItems := s.materializePendingItems(tx, resolved)

	var movements []domain.StockMovement
	changed := newItems
	if tx.Status == domain.TxCompleted {
		movements, err = s.ledger.Apply(tx, resolved)
		if err != nil {
			return nil, mapTransitionError(err)
		}
		changed = changedItems(tx, resolved, newItems)
	}

	if len(changed) > 0 {
		if err := s.itemRepo.SaveAll(ctx, changed); err != nil {
			s.logger.WithError(err).Error("Failed to save items", "transactionId", tx.ID)
			return nil, mapSaveError(err, "items", tx.ID)
		}
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		s.logger.WithError(err).Error("Failed to save transaction", "transactionId", tx.ID)
		return nil, mapSaveError(err, "transaction", tx.ID)
	}

	s.recordAdvance(ctx, tx, actor, action, movements, changed)
	return &TransactionResult{Transaction: *ToTransactionDTO(tx), Movements: movements}, nil
}

func (s *TransactionService) recordAdvance(ctx context.Context, tx *domain.Transaction, actor *domain.User, action string, movements []domain.StockMovement, changed []*domain.InventoryItem) {
	if action == "APPROVED" || action == "PARTIALLY_APPROVED" {
		s.metrics.TransactionsDecided.WithLabelValues(string(tx.Type), "approve").Inc()
	}
	if tx.Status == domain.TxCompleted {
		s.metrics.TransactionsCompleted.WithLabelValues(string(tx.Type)).Inc()
		for _, mv := range movements {
			s.metrics.StockMovements.WithLabelValues(string(tx.Type), string(mv.Direction)).Inc()
		}
	}

	for _, item := range changed {
		for _, event := range item.DomainEvents() {
			if alert, ok := event.(domain.LowStockAlertEvent); ok {
				s.metrics.LowStockAlerts.Inc()
				s.logger.Warn("Low stock threshold crossed",
					"itemId", alert.ItemID, "sku", alert.SKU,
					"totalStock", alert.TotalStock, "minStock", alert.MinStock)
			}
		}
		item.ClearDomainEvents()
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"TRANSACTION", action,
		fmt.Sprintf("%s transaction %s %s (status %s)", tx.Type, tx.ID, action, tx.Status),
		actor.ID, s.movingWarehouse(tx), tx.ID, domain.SeverityInfo,
	))
	s.logger.Event(ctx, "stock.transaction."+string(tx.Status), map[string]any{
		"transactionId": tx.ID,
		"type":          string(tx.Type),
		"action":        action,
	})
	tx.ClearDomainEvents()
}

// checkWarehouses verifies every referenced warehouse exists; on submit an
// archived warehouse is rejected as well
func (s *TransactionService) checkWarehouses(ctx context.Context, tx *domain.Transaction, requireActive bool) error {
	for _, id := range []string{tx.SourceWarehouseID, tx.TargetWarehouseID} {
		if id == "" {
			continue
		}
		wh, err := s.warehouseRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperrors.ErrDataIntegrity(fmt.Sprintf("warehouse %s does not exist", id))
			}
			return apperrors.ErrInternal("failed to resolve warehouse").WithCause(err)
		}
		if requireActive && !wh.IsActive() {
			return apperrors.ErrValidation(fmt.Sprintf("warehouse %s is archived", id))
		}
	}
	return nil
}

// resolveItems loads every referenced catalog item. An item id absent from
// the catalog must be covered by a pending entry on the transaction; anything
// else is a data-integrity failure. When selection is non-nil only the
// selected lines are considered.
func (s *TransactionService) resolveItems(ctx context.Context, tx *domain.Transaction, selection map[string]bool) (map[string]*domain.InventoryItem, error) {
	pending := make(map[string]bool, len(tx.PendingItems))
	for _, p := range tx.PendingItems {
		pending[p.ItemID] = true
	}

	var ids []string
	for _, line := range tx.Items {
		if selection != nil && !selection[line.ItemID] {
			continue
		}
		ids = append(ids, line.ItemID)
	}

	resolved, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to resolve items").WithCause(err)
	}

	for _, id := range ids {
		if _, ok := resolved[id]; !ok && !pending[id] {
			return nil, apperrors.ErrDataIntegrity(fmt.Sprintf("item %s does not exist", id))
		}
	}
	return resolved, nil
}

// materializePendingItems turns the transaction's pending catalog entries
// into real items, keyed by the ids its lines already reference
func (s *TransactionService) materializePendingItems(tx *domain.Transaction, resolved map[string]*domain.InventoryItem) []*domain.InventoryItem {
	var created []*domain.InventoryItem
	for _, p := range tx.TakePendingItems() {
		item, err := domain.NewInventoryItem(p.SKU, p.Name, p.Category, p.Unit, p.PriceIn, p.PriceOut, p.MinStock, p.SupplierID)
		if err != nil {
			s.logger.WithError(err).Warn("Skipping invalid pending item", "sku", p.SKU, "transactionId", tx.ID)
			continue
		}
		if p.ItemID != "" {
			item.ID = p.ItemID
		}
		resolved[item.ID] = item
		created = append(created, item)
	}
	return created
}

// changedItems collects the items touched by the ledger plus newly
// materialized ones, without duplicates
func changedItems(tx *domain.Transaction, resolved map[string]*domain.InventoryItem, newItems []*domain.InventoryItem) []*domain.InventoryItem {
	seen := make(map[string]bool)
	var changed []*domain.InventoryItem
	for _, item := range newItems {
		seen[item.ID] = true
		changed = append(changed, item)
	}
	for _, line := range tx.Items {
		if item, ok := resolved[line.ItemID]; ok && !seen[item.ID] {
			seen[item.ID] = true
			changed = append(changed, item)
		}
	}
	return changed
}

func (s *TransactionService) movingWarehouse(tx *domain.Transaction) string {
	if tx.SourceWarehouseID != "" {
		return tx.SourceWarehouseID
	}
	return tx.TargetWarehouseID
}

func (s *TransactionService) loadTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrNotFound("transaction", id)
		}
		return nil, apperrors.ErrInternal("failed to load transaction").WithCause(err)
	}
	return tx, nil
}
