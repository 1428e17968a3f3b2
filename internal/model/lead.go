package model

import (
	"time"

	"gorm.io/gorm"
)

// Lead 线索记录
type Lead struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	WorkspaceID string `json:"workspace_id" gorm:"not null;uniqueIndex:idx_workspace_fingerprint"`
	PartnerID   uint   `json:"partner_id" gorm:"index"`

	Email         string `json:"email"`
	Phone         string `json:"phone"`
	CompanyDomain string `json:"company_domain"`
	CompanyName   string `json:"company_name"`

	// Fingerprint 由规范化后的 email/domain/phone 计算得出，写入后不再变更；
	// 唯一索引保证并发导入时同一指纹只会落库一次
	Fingerprint string `json:"fingerprint" gorm:"size:64;not null;uniqueIndex:idx_workspace_fingerprint"`

	Price  float64 `json:"price" gorm:"default:0"`
	Status string  `json:"status" gorm:"default:'available'"` // available, sold
}

// LeadStatus 线索状态
type LeadStatus string

const (
	LeadStatusAvailable LeadStatus = "available" // 可售
	LeadStatusSold      LeadStatus = "sold"      // 已售出
)
