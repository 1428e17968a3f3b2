package model

import (
	"time"

	"gorm.io/gorm"
)

// Partner 合作伙伴（卖方账户）
type Partner struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Name   string `json:"name" gorm:"not null"`
	Email  string `json:"email" gorm:"uniqueIndex;not null"`
	Status string `json:"status" gorm:"default:'active'"` // active, suspended

	BaseCommissionRate   float64 `json:"base_commission_rate" gorm:"default:0"`   // 基础佣金比例，0表示使用平台默认
	BonusCommissionRate  float64 `json:"bonus_commission_rate" gorm:"default:0"`  // 量级加成比例
	VerificationPassRate float64 `json:"verification_pass_rate" gorm:"default:0"` // 线索验证通过率（百分比）

	// 余额字段只能通过 BalanceLogic 的原子操作修改，任何代码不得读改写回
	PendingBalance   float64 `json:"pending_balance" gorm:"default:0"`   // 冻结期内余额
	AvailableBalance float64 `json:"available_balance" gorm:"default:0"` // 可提现余额
	TotalEarnings    float64 `json:"total_earnings" gorm:"default:0"`    // 累计收入
	TotalPaidOut     float64 `json:"total_paid_out" gorm:"default:0"`    // 累计已提现
}

// PartnerStatus 合作伙伴状态
type PartnerStatus string

const (
	PartnerStatusActive    PartnerStatus = "active"    // 正常
	PartnerStatusSuspended PartnerStatus = "suspended" // 已停用
)
