package services

import (
	"errors"
	"testing"

	"taller_manager/internal/apperrors"
	"taller_manager/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAllocateMarksCodesAndDrawerOccupied(t *testing.T) {
	env := newTestEnv(t)
	codeIDs := []uint{env.codesD[0].ID, env.codesD[1].ID}

	err := env.allocator.AllocateTx(env.db, 42, codeIDs, nil)
	require.NoError(t, err)

	for _, id := range codeIDs {
		code := env.reloadCode(t, id)
		require.Equal(t, models.CodeOccupied, code.State)
		require.NotNil(t, code.OrderID)
		require.Equal(t, uint(42), *code.OrderID)
	}
	require.Equal(t, models.DrawerOccupied, env.reloadDrawer(t, env.drawerD.ID).State)
}

func TestAllocatePartialDrawerStaysAvailable(t *testing.T) {
	env := newTestEnv(t)

	err := env.allocator.AllocateTx(env.db, 42, []uint{env.codesD[0].ID}, nil)
	require.NoError(t, err)

	require.Equal(t, models.DrawerAvailable, env.reloadDrawer(t, env.drawerD.ID).State)
}

func TestAllocateOccupiedCodeConflicts(t *testing.T) {
	env := newTestEnv(t)
	codeID := env.codesD[0].ID

	require.NoError(t, env.allocator.AllocateTx(env.db, 42, []uint{codeID}, nil))

	err := env.allocator.AllocateTx(env.db, 43, []uint{codeID}, nil)
	require.ErrorIs(t, err, apperrors.ErrResourceConflict)

	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, codeID, conflict.CodeID)

	// Original owner keeps the code.
	code := env.reloadCode(t, codeID)
	require.Equal(t, uint(42), *code.OrderID)
}

func TestAllocateRollsBackOnConflict(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.allocator.AllocateTx(env.db, 42, []uint{env.codesD[1].ID}, nil))

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.allocator.AllocateTx(tx, 43, []uint{env.codesD[0].ID, env.codesD[1].ID}, nil)
	})
	require.ErrorIs(t, err, apperrors.ErrResourceConflict)

	// The free code must not stay bound after the rollback.
	code := env.reloadCode(t, env.codesD[0].ID)
	require.Equal(t, models.CodeAvailable, code.State)
	require.Nil(t, code.OrderID)
}

func TestAllocateWrongDrawerFailsValidation(t *testing.T) {
	env := newTestEnv(t)

	err := env.allocator.AllocateTx(env.db, 42, []uint{env.codesD[0].ID}, &env.drawerE.ID)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAllocateUnknownCode(t *testing.T) {
	env := newTestEnv(t)

	err := env.allocator.AllocateTx(env.db, 42, []uint{9999}, nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReleaseIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	codeIDs := []uint{env.codesD[0].ID, env.codesD[1].ID}
	require.NoError(t, env.allocator.AllocateTx(env.db, 42, codeIDs, nil))

	freed, err := env.allocator.ReleaseTx(env.db, 42)
	require.NoError(t, err)
	require.Equal(t, 2, freed)

	for _, id := range codeIDs {
		code := env.reloadCode(t, id)
		require.Equal(t, models.CodeAvailable, code.State)
		require.Nil(t, code.OrderID)
	}
	require.Equal(t, models.DrawerAvailable, env.reloadDrawer(t, env.drawerD.ID).State)

	// Second release finds nothing and succeeds.
	freed, err = env.allocator.ReleaseTx(env.db, 42)
	require.NoError(t, err)
	require.Equal(t, 0, freed)
}

func TestRecordReleaseAuditWritesRow(t *testing.T) {
	env := newTestEnv(t)

	env.allocator.RecordReleaseAudit(42, 2)

	var audits []models.StorageAudit
	require.NoError(t, env.db.Find(&audits).Error)
	require.Len(t, audits, 1)
	require.Equal(t, uint(42), audits[0].OrderID)
	require.Equal(t, 2, audits[0].FreedCodes)

	// Zero freed codes is not worth a row.
	env.allocator.RecordReleaseAudit(43, 0)
	require.NoError(t, env.db.Find(&audits).Error)
	require.Len(t, audits, 1)
}
