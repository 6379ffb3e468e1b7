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

// RequestService handles the material request workflow. Shipping and
// receipt generate companion stock transactions so the ledger and the
// request stay mechanically linked.
type RequestService struct {
	requestRepo   domain.RequestRepository
	txRepo        domain.TransactionRepository
	itemRepo      domain.ItemRepository
	warehouseRepo domain.WarehouseRepository
	userRepo      domain.UserRepository
	ledger        *domain.StockLedger
	recorder      *ActivityRecorder
	logger        *logging.Logger
	metrics       *metrics.Metrics
}

// NewRequestService creates a RequestService
func NewRequestService(
	requestRepo domain.RequestRepository,
	txRepo domain.TransactionRepository,
	itemRepo domain.ItemRepository,
	warehouseRepo domain.WarehouseRepository,
	userRepo domain.UserRepository,
	recorder *ActivityRecorder,
	logger *logging.Logger,
	m *metrics.Metrics,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		txRepo:        txRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		userRepo:      userRepo,
		ledger:        domain.NewStockLedger(),
		recorder:      recorder,
		logger:        logger.WithComponent("request-service"),
		metrics:       m,
	}
}

// Create creates a PENDING material request
func (s *RequestService) Create(ctx context.Context, cmd CreateRequestCommand) (*RequestDTO, error) {
	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	req, err := domain.NewMaterialRequest(
		cmd.SiteWarehouseID,
		cmd.SourceWarehouseID,
		actor.ID,
		cmd.toDomainItems(),
		cmd.Note,
		cmd.ExpectedDate,
	)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if !domain.CanTransition(actor, req, domain.ActionRequestCreate) {
		return nil, apperrors.ErrForbidden("not allowed to create this request")
	}

	if err := s.checkWarehouse(ctx, req.SiteWarehouseID, true); err != nil {
		return nil, err
	}
	if req.SourceWarehouseID != "" {
		if err := s.checkWarehouse(ctx, req.SourceWarehouseID, true); err != nil {
			return nil, err
		}
	}
	if err := s.checkItemsExist(ctx, req); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		s.logger.WithError(err).Error("Failed to save request", "requestId", req.ID)
		return nil, mapSaveError(err, "request", req.ID)
	}

	s.metrics.RequestsCreated.Inc()
	s.recorder.Record(ctx, domain.NewActivityRecord(
		"REQUEST", "CREATED",
		fmt.Sprintf("material request %s created with %d item(s)", req.Code, len(req.Items)),
		actor.ID, req.SiteWarehouseID, req.ID, domain.SeverityInfo,
	))

	return ToRequestDTO(req), nil
}

// Decide approves or rejects a PENDING request. On approval each proposed
// quantity is clamped to live stock at the source warehouse; clamped lines
// are reported in the result. An approval exceeding the requested quantity
// returns a confirmation-required result without committing anything.
func (s *RequestService) Decide(ctx context.Context, cmd DecideRequestCommand) (*DecideRequestResult, error) {
	if !cmd.Decision.IsValid() {
		return nil, apperrors.ErrValidation("decision must be APPROVE or REJECT")
	}

	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	req, err := s.loadRequest(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(actor, req, domain.ActionRequestDecide) {
		return nil, apperrors.ErrForbidden("not allowed to decide requests")
	}

	if cmd.Decision == DecisionReject {
		if err := req.Reject(actor.ID, cmd.Note); err != nil {
			return nil, mapTransitionError(err)
		}
		if err := s.requestRepo.Save(ctx, req); err != nil {
			return nil, mapSaveError(err, "request", req.ID)
		}

		s.metrics.RequestsDecided.WithLabelValues("reject").Inc()
		s.recorder.Record(ctx, domain.NewActivityRecord(
			"REQUEST", "REJECTED",
			fmt.Sprintf("material request %s rejected", req.Code),
			actor.ID, req.SiteWarehouseID, req.ID, domain.SeverityWarning,
		))
		return &DecideRequestResult{Request: ToRequestDTO(req)}, nil
	}

	if err := s.checkWarehouse(ctx, cmd.SourceWarehouseID, true); err != nil {
		return nil, err
	}

	items, err := s.resolveRequestItems(ctx, req)
	if err != nil {
		return nil, err
	}
	stockAt := func(itemID string) int {
		if item, ok := items[itemID]; ok {
			return item.StockAt(cmd.SourceWarehouseID)
		}
		return 0
	}

	clamped, err := req.Approve(cmd.toDomainLines(), cmd.SourceWarehouseID, actor.ID, cmd.Note, stockAt, cmd.ConfirmExcess)
	if err != nil {
		var excessErr *domain.ExcessApprovalError
		if errors.As(err, &excessErr) {
			return &DecideRequestResult{
				ConfirmationRequired: true,
				ExcessLines:          excessErr.Lines,
			}, nil
		}
		return nil, mapTransitionError(err)
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, mapSaveError(err, "request", req.ID)
	}

	s.metrics.RequestsDecided.WithLabelValues("approve").Inc()
	s.recorder.Record(ctx, domain.NewActivityRecord(
		"REQUEST", "APPROVED",
		fmt.Sprintf("material request %s approved from warehouse %s", req.Code, req.SourceWarehouseID),
		actor.ID, req.SourceWarehouseID, req.ID, domain.SeverityInfo,
	))
	req.ClearDomainEvents()

	return &DecideRequestResult{
		Request:      ToRequestDTO(req),
		ClampedLines: clamped,
	}, nil
}

// MarkInTransit records the physical shipment from the source warehouse and
// generates a completed EXPORT transaction decrementing source stock. The
// companion's line quantities record what was actually deducted.
func (s *RequestService) MarkInTransit(ctx context.Context, cmd MarkRequestInTransitCommand) (*RequestTransitionResult, error) {
	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	req, err := s.loadRequest(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(actor, req, domain.ActionRequestShip) {
		return nil, apperrors.ErrForbidden("not allowed to ship this request")
	}

	lines := req.ApprovedLines()
	if len(lines) == 0 {
		return nil, apperrors.ErrStateConflict("request has no approved quantities to ship")
	}

	items, err := s.resolveRequestItems(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := req.MarkInTransit(actor.ID); err != nil {
		return nil, mapTransitionError(err)
	}

	txItems := make([]domain.TransactionItem, 0, len(lines))
	for _, line := range lines {
		price := items[line.ItemID].PriceOut
		txItems = append(txItems, domain.TransactionItem{
			ItemID:   line.ItemID,
			Quantity: line.ApprovedQty,
			Price:    price,
		})
	}

	companion, err := s.completeCompanion(ctx, domain.TypeExport, txItems, req.SourceWarehouseID, "", req, actor, items)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, mapSaveError(err, "request", req.ID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"REQUEST", "IN_TRANSIT",
		fmt.Sprintf("material request %s shipped from warehouse %s", req.Code, req.SourceWarehouseID),
		actor.ID, req.SourceWarehouseID, req.ID, domain.SeverityInfo,
	))

	return &RequestTransitionResult{
		Request:     *ToRequestDTO(req),
		Transaction: ToTransactionDTO(companion),
	}, nil
}

// MarkCompleted confirms receipt at the site warehouse and generates a
// completed IMPORT transaction crediting site stock with the quantities the
// companion export actually shipped.
func (s *RequestService) MarkCompleted(ctx context.Context, cmd MarkRequestCompletedCommand) (*RequestTransitionResult, error) {
	actor, err := resolveActor(ctx, s.userRepo, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	req, err := s.loadRequest(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(actor, req, domain.ActionRequestComplete) {
		return nil, apperrors.ErrForbidden("not allowed to complete this request")
	}

	txItems, err := s.shippedItems(ctx, req)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveRequestItems(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := req.MarkCompleted(actor.ID); err != nil {
		return nil, mapTransitionError(err)
	}

	companion, err := s.completeCompanion(ctx, domain.TypeImport, txItems, "", req.SiteWarehouseID, req, actor, items)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, mapSaveError(err, "request", req.ID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"REQUEST", "COMPLETED",
		fmt.Sprintf("material request %s received at warehouse %s", req.Code, req.SiteWarehouseID),
		actor.ID, req.SiteWarehouseID, req.ID, domain.SeverityInfo,
	))
	req.ClearDomainEvents()

	return &RequestTransitionResult{
		Request:     *ToRequestDTO(req),
		Transaction: ToTransactionDTO(companion),
	}, nil
}

// Get returns one request
func (s *RequestService) Get(ctx context.Context, id string) (*RequestDTO, error) {
	req, err := s.loadRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRequestDTO(req), nil
}

// List returns requests matching the filter
func (s *RequestService) List(ctx context.Context, filter domain.RequestFilter) ([]*RequestDTO, error) {
	reqs, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list requests").WithCause(err)
	}

	dtos := make([]*RequestDTO, 0, len(reqs))
	for _, req := range reqs {
		dtos = append(dtos, ToRequestDTO(req))
	}
	return dtos, nil
}

// completeCompanion builds a transaction for the request, walks it straight
// to COMPLETED, applies the ledger and rewrites its line quantities to the
// amounts actually moved.
func (s *RequestService) completeCompanion(ctx context.Context, txType domain.TransactionType, txItems []domain.TransactionItem, source, target string, req *domain.MaterialRequest, actor *domain.User, items map[string]*domain.InventoryItem) (*domain.Transaction, error) {
	companion, err := domain.NewTransaction(txType, txItems, source, target, "",
		actor.ID, fmt.Sprintf("generated for request %s", req.Code), nil)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to build companion transaction").WithCause(err)
	}
	companion.RelatedRequestID = req.ID

	if err := companion.Approve(actor.ID); err != nil {
		return nil, mapTransitionError(err)
	}
	if companion.Status == domain.TxApproved {
		if err := companion.Receive(actor.ID); err != nil {
			return nil, mapTransitionError(err)
		}
	}

	movements, err := s.ledger.Apply(companion, items)
	if err != nil {
		return nil, mapTransitionError(err)
	}

	deducted := make(map[string]int, len(movements))
	for _, mv := range movements {
		if mv.Direction == domain.DirectionOut {
			deducted[mv.ItemID] = mv.Quantity
		}
	}
	if txType == domain.TypeExport {
		for i := range companion.Items {
			if qty, ok := deducted[companion.Items[i].ItemID]; ok {
				companion.Items[i].Quantity = qty
			}
		}
	}

	var changed []*domain.InventoryItem
	for _, line := range companion.Items {
		if item, ok := items[line.ItemID]; ok {
			changed = append(changed, item)
			item.ClearDomainEvents()
		}
	}
	if err := s.itemRepo.SaveAll(ctx, changed); err != nil {
		return nil, mapSaveError(err, "items", companion.ID)
	}
	if err := s.txRepo.Save(ctx, companion); err != nil {
		return nil, mapSaveError(err, "transaction", companion.ID)
	}

	s.metrics.TransactionsCompleted.WithLabelValues(string(txType)).Inc()
	for _, mv := range movements {
		s.metrics.StockMovements.WithLabelValues(string(txType), string(mv.Direction)).Inc()
	}
	companion.ClearDomainEvents()

	return companion, nil
}

// shippedItems recovers the quantities the companion export actually moved;
// when no companion exists the approved lines are used as a fallback
func (s *RequestService) shippedItems(ctx context.Context, req *domain.MaterialRequest) ([]domain.TransactionItem, error) {
	exports, err := s.txRepo.List(ctx, domain.TransactionFilter{
		Type:             domain.TypeExport,
		RelatedRequestID: req.ID,
	})
	if err != nil {
		return nil, apperrors.ErrInternal("failed to resolve companion export").WithCause(err)
	}
	if len(exports) > 0 {
		return exports[0].Items, nil
	}

	items, err := s.resolveRequestItems(ctx, req)
	if err != nil {
		return nil, err
	}
	var txItems []domain.TransactionItem
	for _, line := range req.ApprovedLines() {
		txItems = append(txItems, domain.TransactionItem{
			ItemID:   line.ItemID,
			Quantity: line.ApprovedQty,
			Price:    items[line.ItemID].PriceOut,
		})
	}
	if len(txItems) == 0 {
		return nil, apperrors.ErrStateConflict("request has no approved quantities to receive")
	}
	return txItems, nil
}

func (s *RequestService) resolveRequestItems(ctx context.Context, req *domain.MaterialRequest) (map[string]*domain.InventoryItem, error) {
	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ItemID)
	}

	items, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to resolve items").WithCause(err)
	}
	for _, id := range ids {
		if _, ok := items[id]; !ok {
			return nil, apperrors.ErrDataIntegrity(fmt.Sprintf("item %s does not exist", id))
		}
	}
	return items, nil
}

func (s *RequestService) checkWarehouse(ctx context.Context, id string, requireActive bool) error {
	if id == "" {
		return apperrors.ErrValidation("source warehouse is required")
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
	return nil
}

func (s *RequestService) checkItemsExist(ctx context.Context, req *domain.MaterialRequest) error {
	_, err := s.resolveRequestItems(ctx, req)
	return err
}

func (s *RequestService) loadRequest(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrNotFound("request", id)
		}
		return nil, apperrors.ErrInternal("failed to load request").WithCause(err)
	}
	return req, nil
}
