package logic

import (
	"context"
	"testing"

	"github.com/blues/lms/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPayout(t *testing.T) {
	db := newTestDB(t)
	p := NewPayoutLogic(db)

	partner := createTestPartner(t, db, &model.Partner{AvailableBalance: 200, TotalEarnings: 200})

	payout, err := p.RequestPayout(context.Background(), partner.ID, 120, "bank")
	require.NoError(t, err)
	assert.Equal(t, string(model.PayoutStatusPending), payout.Status)
	assert.Equal(t, 120.0, payout.Amount)

	var updated model.Partner
	require.NoError(t, db.First(&updated, partner.ID).Error)
	assert.Equal(t, 80.0, updated.AvailableBalance)
	assert.Equal(t, 120.0, updated.TotalPaidOut)

	// 审计事件已写入
	var eventCount int64
	require.NoError(t, db.Model(&model.CommissionEvent{}).
		Where("payout_id = ? AND event_type = ?", payout.ID, model.EventPayoutRequested).
		Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)
}

func TestRequestPayoutInsufficient(t *testing.T) {
	db := newTestDB(t)
	p := NewPayoutLogic(db)

	partner := createTestPartner(t, db, &model.Partner{AvailableBalance: 50, TotalEarnings: 50})

	_, err := p.RequestPayout(context.Background(), partner.ID, 120, "bank")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// 整体回滚：余额不变，无提现记录，无审计事件
	var updated model.Partner
	require.NoError(t, db.First(&updated, partner.ID).Error)
	assert.Equal(t, 50.0, updated.AvailableBalance)
	assert.Equal(t, 0.0, updated.TotalPaidOut)

	var payoutCount int64
	require.NoError(t, db.Model(&model.PayoutRecord{}).Count(&payoutCount).Error)
	assert.Equal(t, int64(0), payoutCount)

	var eventCount int64
	require.NoError(t, db.Model(&model.CommissionEvent{}).Count(&eventCount).Error)
	assert.Equal(t, int64(0), eventCount)
}

func TestCompletePayout(t *testing.T) {
	db := newTestDB(t)
	p := NewPayoutLogic(db)

	partner := createTestPartner(t, db, &model.Partner{AvailableBalance: 200, TotalEarnings: 200})

	payout, err := p.RequestPayout(context.Background(), partner.ID, 100, "bank")
	require.NoError(t, err)

	require.NoError(t, p.CompletePayout(context.Background(), payout.ID, "tx-abc"))

	var updated model.PayoutRecord
	require.NoError(t, db.First(&updated, payout.ID).Error)
	assert.Equal(t, string(model.PayoutStatusCompleted), updated.Status)
	assert.Equal(t, "tx-abc", updated.TxRef)
	assert.NotNil(t, updated.PaidAt)

	// 状态只能向前：重复完成被拒绝
	assert.Error(t, p.CompletePayout(context.Background(), payout.ID, "tx-abc"))
}

func TestFailPayoutRefundsBalance(t *testing.T) {
	db := newTestDB(t)
	p := NewPayoutLogic(db)

	partner := createTestPartner(t, db, &model.Partner{AvailableBalance: 200, TotalEarnings: 200})

	payout, err := p.RequestPayout(context.Background(), partner.ID, 100, "bank")
	require.NoError(t, err)

	require.NoError(t, p.FailPayout(context.Background(), payout.ID, "渠道拒绝"))

	// 金额退回可提现余额，已提现金额扣回
	var updated model.Partner
	require.NoError(t, db.First(&updated, partner.ID).Error)
	assert.Equal(t, 200.0, updated.AvailableBalance)
	assert.Equal(t, 0.0, updated.TotalPaidOut)

	var failedPayout model.PayoutRecord
	require.NoError(t, db.First(&failedPayout, payout.ID).Error)
	assert.Equal(t, string(model.PayoutStatusFailed), failedPayout.Status)

	// 已失败的提现不能再标记完成
	assert.Error(t, p.CompletePayout(context.Background(), payout.ID, "tx-late"))
}
