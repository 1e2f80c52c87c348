package services

import (
	"errors"
	"testing"
	"time"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"

	"github.com/stretchr/testify/require"
)

func TestRecordAbonoSettlesOutstanding(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t, 30000, nil)
	require.Equal(t, float64(70000), created.Outstanding)

	summary, err := env.ledger.RecordAbono(created.OrderID, 70000, "final payment", nil)
	require.NoError(t, err)
	require.Equal(t, float64(100000), summary.Paid)
	require.Equal(t, float64(0), summary.Outstanding)

	order := env.reloadOrder(t, created.OrderID)
	require.Equal(t, order.Total, order.Paid+order.Outstanding)
	require.Equal(t, float64(0), order.Outstanding)

	// Ledger holds the initial abono and the second one, both inflows.
	var movements []models.CashMovement
	require.NoError(t, env.db.Where("order_id = ?", created.OrderID).Find(&movements).Error)
	require.Len(t, movements, 2)
	var sum float64
	for _, movement := range movements {
		require.Equal(t, models.MovementIn, movement.Type)
		sum += movement.Amount
	}
	require.Equal(t, float64(100000), sum)
}

func TestRecordAbonoOverOutstandingFails(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t, 30000, nil)

	_, err := env.ledger.RecordAbono(created.OrderID, 80000, "", nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidPayment)

	var paymentErr *apperrors.PaymentError
	require.True(t, errors.As(err, &paymentErr))
	require.Equal(t, float64(80000), paymentErr.Requested)
	require.Equal(t, float64(70000), paymentErr.Available)

	// Nothing was written.
	order := env.reloadOrder(t, created.OrderID)
	require.Equal(t, float64(70000), order.Outstanding)

	var abonoCount int64
	require.NoError(t, env.db.Model(&models.AbonoRecord{}).Where("order_id = ?", created.OrderID).Count(&abonoCount).Error)
	require.Equal(t, int64(1), abonoCount)
}

func TestRecordAbonoRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t, 0, nil)

	for _, amount := range []float64{0, -500} {
		_, err := env.ledger.RecordAbono(created.OrderID, amount, "", nil)
		require.ErrorIs(t, err, apperrors.ErrInvalidPayment)
	}
}

func TestRecordAbonoRequiresInProgress(t *testing.T) {
	env := newTestEnv(t)
	created := env.createOrder(t, 0, nil)

	_, err := env.status.ChangeStatus(created.OrderID, StatusChangeInput{Status: models.OrderCancelled})
	require.NoError(t, err)

	_, err = env.ledger.RecordAbono(created.OrderID, 10000, "", nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestRecordAbonoUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RecordAbono(9999, 10000, "", nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecordMovementStandalone(t *testing.T) {
	env := newTestEnv(t)
	userID := uint(7)

	movement, err := env.ledger.RecordMovement(models.MovementOut, 25000, "thread and needles", nil, &userID)
	require.NoError(t, err)
	require.Equal(t, models.MovementOut, movement.Type)
	require.Nil(t, movement.OrderID)
	require.Equal(t, userID, *movement.UserID)
}

func TestRecordMovementValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RecordMovement("sideways", 1000, "x", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.ledger.RecordMovement(models.MovementIn, -1, "x", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrInvalidPayment)

	_, err = env.ledger.RecordMovement(models.MovementIn, 1000, "", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetMovementsByDateRange(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.RecordMovement(models.MovementIn, 1000, "a", nil, nil)
	require.NoError(t, err)
	_, err = env.ledger.RecordMovement(models.MovementOut, 2000, "b", nil, nil)
	require.NoError(t, err)

	movements, err := env.ledger.GetMovements(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, movements, 2)

	movements, err = env.ledger.GetMovements(time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.Empty(t, movements)
}
