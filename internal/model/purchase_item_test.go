package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionStatusTransitions(t *testing.T) {
	// 只允许向前流转
	assert.True(t, CommissionStatusPendingHoldback.CanTransitionTo(CommissionStatusPayable))
	assert.True(t, CommissionStatusPayable.CanTransitionTo(CommissionStatusPaid))

	// 禁止回退和跳跃
	assert.False(t, CommissionStatusPendingHoldback.CanTransitionTo(CommissionStatusPaid))
	assert.False(t, CommissionStatusPayable.CanTransitionTo(CommissionStatusPendingHoldback))
	assert.False(t, CommissionStatusPaid.CanTransitionTo(CommissionStatusPayable))
	assert.False(t, CommissionStatusPaid.CanTransitionTo(CommissionStatusPendingHoldback))
}

func TestPurchaseItemBonusList(t *testing.T) {
	var item PurchaseItem

	assert.Nil(t, item.BonusList())

	item.SetBonusList([]string{"fresh_sale", "volume_bonus"})
	assert.Equal(t, "fresh_sale,volume_bonus", item.Bonuses)
	assert.Equal(t, []string{"fresh_sale", "volume_bonus"}, item.BonusList())
}
