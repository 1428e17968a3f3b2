package logic

import (
	"sync"
	"testing"

	"github.com/blues/lms/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementPartnerBalance(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, nil)

	require.NoError(t, b.IncrementPartnerBalance(partner.ID, 25.5, 25.5))

	updated, err := b.GetPartner(partner.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.5, updated.PendingBalance)
	assert.Equal(t, 25.5, updated.TotalEarnings)
	assert.Equal(t, 0.0, updated.AvailableBalance)
}

func TestIncrementPartnerBalanceUnknownPartner(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	err := b.IncrementPartnerBalance(999, 10, 10)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

// TestIncrementPartnerBalanceConcurrent 并发入账不丢失更新：
// N 个并发调用各增加 A，最终余额必须恰好是 B + N*A
func TestIncrementPartnerBalanceConcurrent(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, &model.Partner{PendingBalance: 100, TotalEarnings: 100})

	const n = 50
	const delta = 10.0

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = b.IncrementPartnerBalance(partner.ID, delta, delta)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	updated, err := b.GetPartner(partner.ID)
	require.NoError(t, err)
	assert.Equal(t, 100+n*delta, updated.PendingBalance)
	assert.Equal(t, 100+n*delta, updated.TotalEarnings)
}

func TestMovePendingToAvailable(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, &model.Partner{PendingBalance: 80, TotalEarnings: 80})

	require.NoError(t, b.MovePendingToAvailable(partner.ID, 50))

	updated, err := b.GetPartner(partner.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.PendingBalance)
	assert.Equal(t, 50.0, updated.AvailableBalance)
	assert.Equal(t, 80.0, updated.TotalEarnings)
}

func TestMovePendingToAvailableInsufficient(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, &model.Partner{PendingBalance: 20, TotalEarnings: 20})

	err := b.MovePendingToAvailable(partner.ID, 50)
	assert.ErrorIs(t, err, ErrInsufficientPendingBalance)

	// 失败后余额完全不变
	updated, getErr := b.GetPartner(partner.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 20.0, updated.PendingBalance)
	assert.Equal(t, 0.0, updated.AvailableBalance)
}

func TestDeductAvailableBalance(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, &model.Partner{AvailableBalance: 100, TotalEarnings: 100})

	require.NoError(t, b.DeductAvailableBalance(partner.ID, 60))

	updated, err := b.GetPartner(partner.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.AvailableBalance)
	assert.Equal(t, 60.0, updated.TotalPaidOut)
}

func TestDeductAvailableBalanceInsufficient(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, &model.Partner{AvailableBalance: 30, TotalEarnings: 30})

	err := b.DeductAvailableBalance(partner.ID, 50)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// 不允许悄悄扣到零：失败时余额保持原值
	updated, getErr := b.GetPartner(partner.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 30.0, updated.AvailableBalance)
	assert.Equal(t, 0.0, updated.TotalPaidOut)
}

func TestDeductAvailableBalanceUnknownPartner(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	err := b.DeductAvailableBalance(999, 10)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

// TestBalanceInvariantUnderMixedOperations 混合操作后账本恒等式保持：
// total_earnings == pending + available + total_paid_out
func TestBalanceInvariantUnderMixedOperations(t *testing.T) {
	db := newTestDB(t)
	b := NewBalanceLogic(db)

	partner := createTestPartner(t, db, nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.IncrementPartnerBalance(partner.ID, 10, 10)
		}()
	}
	wg.Wait()

	require.NoError(t, b.MovePendingToAvailable(partner.ID, 150))
	require.NoError(t, b.DeductAvailableBalance(partner.ID, 40))

	updated, err := b.GetPartner(partner.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.PendingBalance)
	assert.Equal(t, 110.0, updated.AvailableBalance)
	assert.Equal(t, 40.0, updated.TotalPaidOut)
	assert.Equal(t, updated.TotalEarnings,
		updated.PendingBalance+updated.AvailableBalance+updated.TotalPaidOut)
}
