package services

import (
	"fmt"
	"testing"
	"time"

	"taller_manager/internal/models"
	"taller_manager/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	clients   ClientService
	catalog   CatalogService
	allocator AllocationService
	ledger    LedgerService
	orders    OrderService
	status    StatusService
	returns   ReturnService

	hem    models.Adjustment
	takeIn models.AdjustmentAction
	combo  models.Combination

	drawerD models.Drawer
	codesD  []models.Code
	drawerE models.Drawer
	codesE  []models.Code
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Order{},
		&models.Garment{},
		&models.AdjustmentLineItem{},
		&models.Adjustment{},
		&models.AdjustmentAction{},
		&models.Combination{},
		&models.Drawer{},
		&models.Code{},
		&models.AbonoRecord{},
		&models.CashMovement{},
		&models.StorageAudit{},
	)
	require.NoError(t, err)
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	env := &testEnv{db: db}

	env.hem = models.Adjustment{Name: "Hem", Price: 30000}
	require.NoError(t, db.Create(&env.hem).Error)
	env.takeIn = models.AdjustmentAction{Name: "Take in", Price: 20000}
	require.NoError(t, db.Create(&env.takeIn).Error)
	env.combo = models.Combination{AdjustmentID: env.hem.ID, ActionID: env.takeIn.ID, Price: 50000}
	require.NoError(t, db.Create(&env.combo).Error)

	env.drawerD, env.codesD = seedDrawer(t, db, "D", 2)
	env.drawerE, env.codesE = seedDrawer(t, db, "E", 2)

	env.clients = NewClientService(db)
	env.catalog = NewCatalogService(repository.NewCatalogRepository(db), nil, time.Minute)
	env.allocator = NewAllocationService(db)
	env.ledger = NewLedgerService(db, nil)
	env.orders = NewOrderService(db, env.clients, env.catalog, env.allocator, nil, time.Minute, 30)
	env.status = NewStatusService(db, env.allocator, nil)
	env.returns = NewReturnService(db, nil)
	return env
}

func seedDrawer(t *testing.T, db *gorm.DB, label string, codeCount int) (models.Drawer, []models.Code) {
	t.Helper()

	drawer := models.Drawer{Label: label, State: models.DrawerAvailable}
	require.NoError(t, db.Create(&drawer).Error)

	codes := make([]models.Code, 0, codeCount)
	for i := 1; i <= codeCount; i++ {
		code := models.Code{
			DrawerID: drawer.ID,
			Label:    fmt.Sprintf("%s-%d", label, i),
			State:    models.CodeAvailable,
		}
		require.NoError(t, db.Create(&code).Error)
		codes = append(codes, code)
	}
	return drawer, codes
}

func testClient() ClientInput {
	return ClientInput{
		Name:       "Maria Lopez",
		NationalID: "1020304050",
		Phone:      "3001234567",
		Address:    "Calle 1 # 2-3",
		Email:      "maria@example.com",
	}
}

// testOrderInput builds an order worth 100000: one garment, quantity 2, one
// combination line item priced 50000.
func (env *testEnv) testOrderInput(initialAbono float64, codeIDs []uint) CreateOrderInput {
	return CreateOrderInput{
		Client: testClient(),
		Garments: []GarmentInput{
			{
				Type:     "pants",
				Quantity: 2,
				Selections: []LineItemSelection{
					{CombinationID: &env.combo.ID},
				},
			},
		},
		CodeIDs:      codeIDs,
		InitialAbono: initialAbono,
	}
}

func (env *testEnv) createOrder(t *testing.T, initialAbono float64, codeIDs []uint) *CreateOrderResult {
	t.Helper()

	result, err := env.orders.CreateOrder(env.testOrderInput(initialAbono, codeIDs))
	require.NoError(t, err)
	return result
}

func (env *testEnv) reloadOrder(t *testing.T, orderID uint) *models.Order {
	t.Helper()

	var order models.Order
	require.NoError(t, env.db.First(&order, orderID).Error)
	return &order
}

func (env *testEnv) reloadCode(t *testing.T, codeID uint) *models.Code {
	t.Helper()

	var code models.Code
	require.NoError(t, env.db.First(&code, codeID).Error)
	return &code
}

func (env *testEnv) reloadDrawer(t *testing.T, drawerID uint) *models.Drawer {
	t.Helper()

	var drawer models.Drawer
	require.NoError(t, env.db.First(&drawer, drawerID).Error)
	return &drawer
}
