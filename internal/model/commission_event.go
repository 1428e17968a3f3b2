package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommissionEvent 佣金审计事件，只追加不修改，用于对账
type CommissionEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"size:36;uniqueIndex"` // 对外引用的事件标识
	CreatedAt time.Time `json:"created_at"`

	PartnerID      uint    `json:"partner_id" gorm:"index;not null"`
	PurchaseItemID uint    `json:"purchase_item_id" gorm:"index"`
	PayoutID       uint    `json:"payout_id" gorm:"index"`
	EventType      string  `json:"event_type" gorm:"not null"` // commission_recorded, commission_matured, payout_requested, payout_completed, payout_failed
	Amount         float64 `json:"amount" gorm:"not null"`
	RateApplied    float64 `json:"rate_applied"`
	Detail         string  `json:"detail"`
}

// BeforeCreate 落库前生成事件标识
func (e *CommissionEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	return nil
}

// CommissionEventType 审计事件类型
type CommissionEventType string

const (
	EventCommissionRecorded CommissionEventType = "commission_recorded" // 记录佣金
	EventCommissionMatured  CommissionEventType = "commission_matured"  // 冻结期结束
	EventPayoutRequested    CommissionEventType = "payout_requested"    // 发起提现
	EventPayoutCompleted    CommissionEventType = "payout_completed"    // 提现完成
	EventPayoutFailed       CommissionEventType = "payout_failed"       // 提现失败
)
