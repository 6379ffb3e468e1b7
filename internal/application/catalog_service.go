package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wms-platform/materials-service/internal/domain"
	apperrors "github.com/wms-platform/materials-service/pkg/errors"
	"github.com/wms-platform/materials-service/pkg/logging"
)

// CatalogService handles catalog administration: items, warehouses, users
// and the dashboard summary
type CatalogService struct {
	itemRepo      domain.ItemRepository
	warehouseRepo domain.WarehouseRepository
	userRepo      domain.UserRepository
	txRepo        domain.TransactionRepository
	requestRepo   domain.RequestRepository
	recorder      *ActivityRecorder
	logger        *logging.Logger
}

// NewCatalogService creates a CatalogService
func NewCatalogService(
	itemRepo domain.ItemRepository,
	warehouseRepo domain.WarehouseRepository,
	userRepo domain.UserRepository,
	txRepo domain.TransactionRepository,
	requestRepo domain.RequestRepository,
	recorder *ActivityRecorder,
	logger *logging.Logger,
) *CatalogService {
	return &CatalogService{
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		userRepo:      userRepo,
		txRepo:        txRepo,
		requestRepo:   requestRepo,
		recorder:      recorder,
		logger:        logger.WithComponent("catalog-service"),
	}
}

// CreateItem adds a catalog entry. Admin only.
func (s *CatalogService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*ItemDTO, error) {
	actor, err := s.requireAdmin(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.itemRepo.FindBySKU(ctx, cmd.SKU); err == nil && existing != nil {
		return nil, apperrors.ErrConflict(fmt.Sprintf("sku %s already exists", cmd.SKU))
	}

	item, err := domain.NewInventoryItem(cmd.SKU, cmd.Name, cmd.Category, cmd.Unit,
		cmd.PriceIn, cmd.PriceOut, cmd.MinStock, cmd.SupplierID)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, mapSaveError(err, "item", item.ID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"INVENTORY", "ITEM_CREATED",
		fmt.Sprintf("item %s (%s) added to catalog", item.Name, item.SKU),
		actor.ID, "", item.ID, domain.SeverityInfo,
	))
	return ToItemDTO(item), nil
}

// UpdateItem updates a catalog entry. Admin only.
func (s *CatalogService) UpdateItem(ctx context.Context, cmd UpdateItemCommand) (*ItemDTO, error) {
	actor, err := s.requireAdmin(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	item, err := s.loadItem(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateDetails(cmd.Name, cmd.Category, cmd.Unit,
		cmd.PriceIn, cmd.PriceOut, cmd.MinStock, cmd.SupplierID); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, mapSaveError(err, "item", item.ID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"INVENTORY", "ITEM_UPDATED",
		fmt.Sprintf("item %s (%s) updated", item.Name, item.SKU),
		actor.ID, "", item.ID, domain.SeverityInfo,
	))
	return ToItemDTO(item), nil
}

// DeleteItem removes a catalog entry and discards its stock entries.
// Admin only.
func (s *CatalogService) DeleteItem(ctx context.Context, actorID, itemID string) error {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return mapSaveError(err, "item", itemID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"INVENTORY", "ITEM_DELETED",
		fmt.Sprintf("item %s (%s) removed, %d unit(s) of stock discarded", item.Name, item.SKU, item.TotalStock()),
		actor.ID, "", itemID, domain.SeverityWarning,
	))
	return nil
}

// GetItem returns one catalog entry
func (s *CatalogService) GetItem(ctx context.Context, id string) (*ItemDTO, error) {
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToItemDTO(item), nil
}

// ListItems returns catalog entries matching the filter
func (s *CatalogService) ListItems(ctx context.Context, filter domain.ItemFilter) ([]*ItemDTO, error) {
	items, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list items").WithCause(err)
	}

	dtos := make([]*ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToItemDTO(item))
	}
	return dtos, nil
}

// CreateWarehouse adds a warehouse. Admin only.
func (s *CatalogService) CreateWarehouse(ctx context.Context, cmd CreateWarehouseCommand) (*WarehouseDTO, error) {
	actor, err := s.requireAdmin(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	wh, err := domain.NewWarehouse(cmd.Name, cmd.Address, cmd.Type)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.warehouseRepo.Save(ctx, wh); err != nil {
		return nil, mapSaveError(err, "warehouse", wh.ID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"WAREHOUSE", "CREATED",
		fmt.Sprintf("warehouse %s created", wh.Name),
		actor.ID, wh.ID, wh.ID, domain.SeverityInfo,
	))
	return ToWarehouseDTO(wh), nil
}

// UpdateWarehouse updates a warehouse. Admin only.
func (s *CatalogService) UpdateWarehouse(ctx context.Context, cmd UpdateWarehouseCommand) (*WarehouseDTO, error) {
	actor, err := s.requireAdmin(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	wh, err := s.loadWarehouse(ctx, cmd.WarehouseID)
	if err != nil {
		return nil, err
	}

	if err := wh.Update(cmd.Name, cmd.Address, cmd.Type); err != nil {
		return nil, apperrors.ErrValidation(err.Error())
	}

	if err := s.warehouseRepo.Save(ctx, wh); err != nil {
		return nil, mapSaveError(err, "warehouse", wh.ID)
	}

	s.recorder.Record(ctx, domain.NewActivityRecord(
		"WAREHOUSE", "UPDATED",
		fmt.Sprintf("warehouse %s updated", wh.Name),
		actor.ID, wh.ID, wh.ID, domain.SeverityInfo,
	))
	return ToWarehouseDTO(wh), nil
}

// RemoveWarehouse archives the warehouse when any item still holds stock
// there, and deletes it outright otherwise. Admin only.
func (s *CatalogService) RemoveWarehouse(ctx context.Context, actorID, warehouseID string) (*RemoveWarehouseResult, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	wh, err := s.loadWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	stocked, err := s.warehouseHoldsStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	if stocked {
		wh.Archive()
		if err := s.warehouseRepo.Save(ctx, wh); err != nil {
			return nil, mapSaveError(err, "warehouse", warehouseID)
		}
		s.recorder.Record(ctx, domain.NewActivityRecord(
			"WAREHOUSE", "ARCHIVED",
			fmt.Sprintf("warehouse %s archived, stock remains on hand", wh.Name),
			actor.ID, warehouseID, warehouseID, domain.SeverityWarning,
		))
		return &RemoveWarehouseResult{WarehouseID: warehouseID, Archived: true}, nil
	}

	if err := s.warehouseRepo.Delete(ctx, warehouseID); err != nil {
		return nil, mapSaveError(err, "warehouse", warehouseID)
	}
	s.recorder.Record(ctx, domain.NewActivityRecord(
		"WAREHOUSE", "DELETED",
		fmt.Sprintf("warehouse %s deleted", wh.Name),
		actor.ID, warehouseID, warehouseID, domain.SeverityWarning,
	))
	return &RemoveWarehouseResult{WarehouseID: warehouseID, Archived: false}, nil
}

// ListWarehouses returns warehouses, optionally including archived ones
func (s *CatalogService) ListWarehouses(ctx context.Context, includeArchived bool) ([]*WarehouseDTO, error) {
	whs, err := s.warehouseRepo.List(ctx, includeArchived)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list warehouses").WithCause(err)
	}

	dtos := make([]*WarehouseDTO, 0, len(whs))
	for _, wh := range whs {
		dtos = append(dtos, ToWarehouseDTO(wh))
	}
	return dtos, nil
}

// ListUsers returns all users
func (s *CatalogService) ListUsers(ctx context.Context) ([]*UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list users").WithCause(err)
	}

	dtos := make([]*UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, ToUserDTO(user))
	}
	return dtos, nil
}

// Stats computes the dashboard summary: total inventory valuation at cost,
// low stock and pending workflow counts
func (s *CatalogService) Stats(ctx context.Context) (*StatsDTO, error) {
	items, err := s.itemRepo.List(ctx, domain.ItemFilter{})
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list items").WithCause(err)
	}

	valuation := decimal.Zero
	lowStock := 0
	for _, item := range items {
		valuation = valuation.Add(item.TotalValuation())
		if item.IsLowStock() {
			lowStock++
		}
	}

	pendingTxs, err := s.txRepo.List(ctx, domain.TransactionFilter{Status: domain.TxPending})
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list transactions").WithCause(err)
	}
	pendingReqs, err := s.requestRepo.List(ctx, domain.RequestFilter{Status: domain.ReqPending})
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list requests").WithCause(err)
	}
	warehouses, err := s.warehouseRepo.List(ctx, false)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to list warehouses").WithCause(err)
	}

	return &StatsDTO{
		TotalItems:          len(items),
		TotalStockValuation: valuation.String(),
		LowStockItems:       lowStock,
		PendingTransactions: len(pendingTxs),
		PendingRequests:     len(pendingReqs),
		ActiveWarehouses:    len(warehouses),
	}, nil
}

func (s *CatalogService) warehouseHoldsStock(ctx context.Context, warehouseID string) (bool, error) {
	items, err := s.itemRepo.List(ctx, domain.ItemFilter{WarehouseID: warehouseID})
	if err != nil {
		return false, apperrors.ErrInternal("failed to inspect warehouse stock").WithCause(err)
	}
	for _, item := range items {
		if item.StockAt(warehouseID) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *CatalogService) requireAdmin(ctx context.Context, actorID string) (*domain.User, error) {
	actor, err := resolveActor(ctx, s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden("administrator role required")
	}
	return actor, nil
}

func (s *CatalogService) loadItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrNotFound("item", id)
		}
		return nil, apperrors.ErrInternal("failed to load item").WithCause(err)
	}
	return item, nil
}

func (s *CatalogService) loadWarehouse(ctx context.Context, id string) (*domain.Warehouse, error) {
	wh, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.ErrNotFound("warehouse", id)
		}
		return nil, apperrors.ErrInternal("failed to load warehouse").WithCause(err)
	}
	return wh, nil
}
