package services

import (
	"strings"
	"testing"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"

	"github.com/stretchr/testify/require"
)

func TestCreateOrderComputesTotals(t *testing.T) {
	env := newTestEnv(t)

	result := env.createOrder(t, 30000, nil)
	require.True(t, strings.HasPrefix(result.ReceiptNumber, "ORD-"))
	require.Equal(t, float64(100000), result.Total)
	require.Equal(t, float64(30000), result.Paid)
	require.Equal(t, float64(70000), result.Outstanding)

	order := env.reloadOrder(t, result.OrderID)
	require.Equal(t, models.OrderInProgress, order.Status)
	require.Equal(t, order.Total, order.Paid+order.Outstanding)

	var garments []models.Garment
	require.NoError(t, env.db.Preload("LineItems").Where("order_id = ?", result.OrderID).Find(&garments).Error)
	require.Len(t, garments, 1)
	require.Len(t, garments[0].LineItems, 1)
	require.Equal(t, float64(50000), garments[0].LineItems[0].Price)
	require.Equal(t, "Hem - Take in", garments[0].LineItems[0].Description)
	require.Equal(t, float64(100000), garments[0].Subtotal())
}

func TestCreateOrderWritesInitialLedgerEntries(t *testing.T) {
	env := newTestEnv(t)
	result := env.createOrder(t, 30000, nil)

	var abonos []models.AbonoRecord
	require.NoError(t, env.db.Where("order_id = ?", result.OrderID).Find(&abonos).Error)
	require.Len(t, abonos, 1)
	require.Equal(t, float64(30000), abonos[0].Amount)

	var movements []models.CashMovement
	require.NoError(t, env.db.Where("order_id = ?", result.OrderID).Find(&movements).Error)
	require.Len(t, movements, 1)
	require.Equal(t, models.MovementIn, movements[0].Type)
}

func TestCreateOrderWithoutAbonoWritesNoLedgerEntries(t *testing.T) {
	env := newTestEnv(t)
	result := env.createOrder(t, 0, nil)

	var count int64
	require.NoError(t, env.db.Model(&models.CashMovement{}).Where("order_id = ?", result.OrderID).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreateOrderUpsertsClientByNaturalID(t *testing.T) {
	env := newTestEnv(t)
	first := env.createOrder(t, 0, nil)

	input := env.testOrderInput(0, nil)
	input.Client.Phone = "3119998888"
	second, err := env.orders.CreateOrder(input)
	require.NoError(t, err)
	require.Equal(t, first.ClientID, second.ClientID)

	var clientCount int64
	require.NoError(t, env.db.Model(&models.Client{}).Count(&clientCount).Error)
	require.Equal(t, int64(1), clientCount)

	var client models.Client
	require.NoError(t, env.db.First(&client, first.ClientID).Error)
	require.Equal(t, "3119998888", client.Phone)
}

func TestCreateOrderAbonoOverTotalFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.CreateOrder(env.testOrderInput(150000, nil))
	require.ErrorIs(t, err, apperrors.ErrInvalidPayment)

	var orderCount int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.Equal(t, int64(0), orderCount)
}

func TestCreateOrderAllocationConflictRollsBackEverything(t *testing.T) {
	env := newTestEnv(t)
	codeID := env.codesD[0].ID
	require.NoError(t, env.allocator.AllocateTx(env.db, 999, []uint{codeID}, nil))

	_, err := env.orders.CreateOrder(env.testOrderInput(30000, []uint{codeID}))
	require.ErrorIs(t, err, apperrors.ErrResourceConflict)

	// The whole aggregate rolls back, client upsert included.
	for model, want := range map[interface{}]int64{
		&models.Order{}:        0,
		&models.Client{}:       0,
		&models.AbonoRecord{}:  0,
		&models.CashMovement{}: 0,
	} {
		var count int64
		require.NoError(t, env.db.Model(model).Count(&count).Error)
		require.Equal(t, want, count)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"missing client phone", func(in *CreateOrderInput) { in.Client.Phone = "" }},
		{"missing client name", func(in *CreateOrderInput) { in.Client.Name = "" }},
		{"missing national id", func(in *CreateOrderInput) { in.Client.NationalID = "" }},
		{"no garments", func(in *CreateOrderInput) { in.Garments = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Garments[0].Quantity = 0 }},
		{"no selections", func(in *CreateOrderInput) { in.Garments[0].Selections = nil }},
		{"ambiguous selection", func(in *CreateOrderInput) {
			in.Garments[0].Selections[0].AdjustmentID = &env.hem.ID
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := env.testOrderInput(0, nil)
			tc.mutate(&input)
			_, err := env.orders.CreateOrder(input)
			require.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestUpdateOrderReplacesGarmentsWholesale(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t, 30000, nil)

	update := UpdateOrderInput{
		Client: testClient(),
		Notes:  "rush job",
		Garments: []GarmentInput{
			{Type: "jacket", Quantity: 1, Selections: []LineItemSelection{{AdjustmentID: &env.hem.ID}}},
			{Type: "skirt", Quantity: 1, Selections: []LineItemSelection{{ActionID: &env.takeIn.ID}}},
		},
	}
	require.NoError(t, env.orders.UpdateOrder(created.OrderID, update))

	var garments []models.Garment
	require.NoError(t, env.db.Where("order_id = ?", created.OrderID).Find(&garments).Error)
	require.Len(t, garments, 2)

	// Balances are the ledger's business; update leaves them alone.
	order := env.reloadOrder(t, created.OrderID)
	require.Equal(t, float64(100000), order.Total)
	require.Equal(t, float64(30000), order.Paid)
	require.Equal(t, float64(70000), order.Outstanding)
	require.Equal(t, "rush job", order.Notes)
}

func TestUpdateOrderUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	err := env.orders.UpdateOrder(9999, UpdateOrderInput{
		Client: testClient(),
		Garments: []GarmentInput{
			{Type: "pants", Quantity: 1, Selections: []LineItemSelection{{AdjustmentID: &env.hem.ID}}},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetOrderAggregate(t *testing.T) {
	env := newTestEnv(t)
	codeIDs := []uint{env.codesD[0].ID}
	created := env.createOrder(t, 30000, codeIDs)

	aggregate, err := env.orders.GetOrderAggregate(created.OrderID)
	require.NoError(t, err)
	require.Equal(t, created.OrderID, aggregate.Order.ID)
	require.Equal(t, "In progress", aggregate.StatusLabel)
	require.Equal(t, "Maria Lopez", aggregate.Client.Name)
	require.Len(t, aggregate.Garments, 1)
	require.Equal(t, float64(100000), aggregate.Garments[0].Subtotal)
	require.Len(t, aggregate.Codes, 1)
	require.Equal(t, codeIDs[0], aggregate.Codes[0].ID)
	require.Len(t, aggregate.Abonos, 1)
}

func TestGetOrderAggregateNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.GetOrderAggregate(9999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
