package usecase

import (
	"context"
	"net/http"
	"testing"

	"ride-hailing/internal/data/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDriverWallet_Idempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.service().Wallet
	ctx := context.Background()
	driver := f.addUser(entity.RoleDriver)

	first, err := svc.CreateDriverWallet(ctx, driver.ID)
	require.NoError(t, err)
	second, err := svc.CreateDriverWallet(ctx, driver.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.wallets.wallets, 1)
}

func TestWalletCredit(t *testing.T) {
	f := newFixture(t)
	svc := f.service().Wallet
	ctx := context.Background()
	driver := f.addUser(entity.RoleDriver)
	wallet := f.addWallet(driver.ID)

	_, err := svc.Credit(ctx, wallet.ID, decimal.Zero)
	assertAppError(t, err, http.StatusBadRequest, "")

	_, err = svc.Credit(ctx, uuid.New(), decimal.NewFromInt(10))
	assertAppError(t, err, http.StatusNotFound, "Wallet not found or inactive")

	// commission owed exceeds the first credit and is settled by the second
	f.wallets.wallets[wallet.ID].PendingDeduction = decimal.NewFromInt(50)

	got, err := svc.Credit(ctx, wallet.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, got.ActualBalance.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.PendingDeduction.Equal(decimal.NewFromInt(50)))

	got, err = svc.Credit(ctx, wallet.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, got.TotalBalance.Equal(decimal.NewFromInt(70)))
	assert.True(t, got.ActualBalance.Equal(decimal.NewFromInt(20)))
	assert.True(t, got.PendingDeduction.IsZero())

	resp, err := svc.GetByDriver(ctx, driver.ID)
	require.NoError(t, err)
	assert.True(t, resp.ActualBalance.Equal(decimal.NewFromInt(20)))

	_, err = svc.GetByDriver(ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound, "Wallet not found")
}
