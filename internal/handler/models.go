package handler

import (
	"github.com/blues/lms/internal/logic"
)

// CreatePartnerRequest 创建合作伙伴请求
type CreatePartnerRequest struct {
	Name                 string  `json:"name" binding:"required"`
	Email                string  `json:"email" binding:"required,email"`
	BaseCommissionRate   float64 `json:"base_commission_rate"`
	BonusCommissionRate  float64 `json:"bonus_commission_rate"`
	VerificationPassRate float64 `json:"verification_pass_rate"`
}

// LeadBatchRequest 批量线索请求（去重检查和导入共用）
type LeadBatchRequest struct {
	PartnerID uint               `json:"partner_id"`
	Records   []logic.RawContact `json:"records" binding:"required"`
}

// SaleWebhookRequest 支付回调请求
type SaleWebhookRequest struct {
	PurchaseID string  `json:"purchase_id" binding:"required"`
	LeadID     uint    `json:"lead_id" binding:"required"`
	PartnerID  uint    `json:"partner_id" binding:"required"`
	SalePrice  float64 `json:"sale_price" binding:"required"`
}

// PayoutRequest 提现请求
type PayoutRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method"`
}
