package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PurchaseItem 购买明细（含佣金字段）
type PurchaseItem struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// 外部订单号。唯一索引让重放的支付回调在插入时就被拦下，不会二次计酬
	PurchaseID string  `json:"purchase_id" gorm:"uniqueIndex;not null"`
	LeadID     uint    `json:"lead_id" gorm:"index"`
	PartnerID  uint    `json:"partner_id" gorm:"index;not null"`
	SalePrice  float64 `json:"sale_price" gorm:"not null"`

	CommissionRate   float64    `json:"commission_rate" gorm:"default:0"`
	CommissionAmount float64    `json:"commission_amount" gorm:"default:0"`
	Bonuses          string     `json:"bonuses"`                                  // 逗号分隔的加成项，按计算顺序
	Status           string     `json:"status" gorm:"default:'pending_holdback'"` // pending_holdback, payable, paid
	PayableAt        *time.Time `json:"payable_at" gorm:"index"`
	PaidAt           *time.Time `json:"paid_at"`

	// 关联
	Partner Partner `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
	Lead    Lead    `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
}

// CommissionStatus 佣金状态
type CommissionStatus string

const (
	CommissionStatusPendingHoldback CommissionStatus = "pending_holdback" // 冻结期内
	CommissionStatusPayable         CommissionStatus = "payable"          // 可提现
	CommissionStatusPaid            CommissionStatus = "paid"             // 已支付
)

// CanTransitionTo 佣金状态只允许向前流转：pending_holdback -> payable -> paid
func (s CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	switch s {
	case CommissionStatusPendingHoldback:
		return next == CommissionStatusPayable
	case CommissionStatusPayable:
		return next == CommissionStatusPaid
	default:
		return false
	}
}

// BonusList 拆出加成项列表
func (p *PurchaseItem) BonusList() []string {
	if p.Bonuses == "" {
		return nil
	}
	return strings.Split(p.Bonuses, ",")
}

// SetBonusList 写入加成项列表
func (p *PurchaseItem) SetBonusList(bonuses []string) {
	p.Bonuses = strings.Join(bonuses, ",")
}
