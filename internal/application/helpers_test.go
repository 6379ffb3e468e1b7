package application

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/materials-service/internal/domain"
	"github.com/wms-platform/materials-service/internal/infrastructure/memory"
	"github.com/wms-platform/materials-service/pkg/logging"
	"github.com/wms-platform/materials-service/pkg/metrics"
)

type testEnv struct {
	itemRepo      *memory.ItemRepository
	warehouseRepo *memory.WarehouseRepository
	txRepo        *memory.TransactionRepository
	requestRepo   *memory.RequestRepository
	userRepo      *memory.UserRepository
	activityRepo  *memory.ActivityRepository

	transactions *TransactionService
	requests     *RequestService
	catalog      *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logging.New(&logging.Config{
		Level:       logging.LevelError,
		ServiceName: "materials-service-test",
		Output:      io.Discard,
	})
	m := metrics.New("materials-service-test")

	env := &testEnv{
		itemRepo:      memory.NewItemRepository(),
		warehouseRepo: memory.NewWarehouseRepository(),
		txRepo:        memory.NewTransactionRepository(),
		requestRepo:   memory.NewRequestRepository(),
		activityRepo:  memory.NewActivityRepository(),
		userRepo: memory.NewUserRepository(
			&domain.User{ID: "admin-1", Name: "Admin", Role: domain.RoleAdmin},
			&domain.User{ID: "keeper-main", Name: "Main Keeper", Role: domain.RoleKeeper, AssignedWarehouseID: "WH-MAIN"},
			&domain.User{ID: "keeper-site", Name: "Site Keeper", Role: domain.RoleKeeper, AssignedWarehouseID: "WH-SITE"},
			&domain.User{ID: "acct-1", Name: "Accountant", Role: domain.RoleAccountant},
			&domain.User{ID: "emp-1", Name: "Employee", Role: domain.RoleEmployee},
		),
	}

	recorder := NewActivityRecorder(env.activityRepo, memory.NopPublisher{}, logger, m)
	env.transactions = NewTransactionService(env.txRepo, env.itemRepo, env.warehouseRepo, env.userRepo, recorder, logger, m)
	env.requests = NewRequestService(env.requestRepo, env.txRepo, env.itemRepo, env.warehouseRepo, env.userRepo, recorder, logger, m)
	env.catalog = NewCatalogService(env.itemRepo, env.warehouseRepo, env.userRepo, env.txRepo, env.requestRepo, recorder, logger)

	env.seedWarehouse(t, "WH-MAIN", "Central Depot", domain.WarehouseGeneral)
	env.seedWarehouse(t, "WH-SITE", "Riverside Site", domain.WarehouseSite)

	return env
}

func (env *testEnv) seedWarehouse(t *testing.T, id, name string, whType domain.WarehouseType) {
	t.Helper()

	wh, err := domain.NewWarehouse(name, "", whType)
	require.NoError(t, err)
	wh.ID = id
	require.NoError(t, env.warehouseRepo.Save(context.Background(), wh))
}

func (env *testEnv) seedItem(t *testing.T, id, sku string, stock map[string]int) *domain.InventoryItem {
	t.Helper()

	item, err := domain.NewInventoryItem(sku, "Item "+sku, "general", "pcs",
		decimal.NewFromInt(10), decimal.NewFromInt(15), 0, "")
	require.NoError(t, err)
	item.ID = id
	for wh, qty := range stock {
		item.StockByWarehouse[wh] = qty
	}
	item.ClearDomainEvents()
	require.NoError(t, env.itemRepo.Save(context.Background(), item))
	return item
}

func (env *testEnv) stockAt(t *testing.T, itemID, warehouseID string) int {
	t.Helper()

	item, err := env.itemRepo.FindByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.StockAt(warehouseID)
}
