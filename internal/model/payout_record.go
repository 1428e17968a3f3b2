package model

import (
	"time"

	"gorm.io/gorm"
)

// PayoutRecord 提现记录
type PayoutRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	PartnerID uint       `json:"partner_id" gorm:"index;not null"`
	Amount    float64    `json:"amount" gorm:"not null"`
	Method    string     `json:"method"`                          // bank, paypal, stripe
	Status    string     `json:"status" gorm:"default:'pending'"` // pending, completed, failed
	TxRef     string     `json:"tx_ref"`                          // 支付渠道流水号
	PaidAt    *time.Time `json:"paid_at"`

	// 关联
	Partner Partner `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
}

// PayoutStatus 提现状态
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"   // 处理中
	PayoutStatusCompleted PayoutStatus = "completed" // 已完成
	PayoutStatusFailed    PayoutStatus = "failed"    // 失败（金额已退回可提现余额）
)
