package logic

import (
	"errors"
	"fmt"
	"math"

	"github.com/blues/lms/internal/model"
	"gorm.io/gorm"
)

// BalanceSummary 伙伴余额汇总
type BalanceSummary struct {
	PartnerID        uint    `json:"partner_id"`
	PendingBalance   float64 `json:"pending_balance"`
	AvailableBalance float64 `json:"available_balance"`
	TotalEarnings    float64 `json:"total_earnings"`
	TotalPaidOut     float64 `json:"total_paid_out"`
	Consistent       bool    `json:"consistent"` // total_earnings == pending + available + total_paid_out
}

// PartnerLogic 合作伙伴业务逻辑
type PartnerLogic struct {
	db *gorm.DB
}

// NewPartnerLogic 创建合作伙伴业务逻辑
func NewPartnerLogic(db *gorm.DB) *PartnerLogic {
	return &PartnerLogic{db: db}
}

// CreatePartner 创建合作伙伴
func (p *PartnerLogic) CreatePartner(partner *model.Partner) error {
	if err := p.validatePartner(partner); err != nil {
		return err
	}

	if partner.Status == "" {
		partner.Status = string(model.PartnerStatusActive)
	}

	if err := p.db.Create(partner).Error; err != nil {
		return fmt.Errorf("创建合作伙伴失败: %w", err)
	}

	return nil
}

// GetPartner 获取合作伙伴
func (p *PartnerLogic) GetPartner(partnerID uint) (*model.Partner, error) {
	var partner model.Partner
	if err := p.db.First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("获取合作伙伴失败: %w", err)
	}
	return &partner, nil
}

// GetPartners 分页获取合作伙伴列表
func (p *PartnerLogic) GetPartners(page, pageSize int) ([]model.Partner, int64, error) {
	var partners []model.Partner
	var total int64

	if err := p.db.Model(&model.Partner{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取合作伙伴总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := p.db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&partners).Error; err != nil {
		return nil, 0, fmt.Errorf("获取合作伙伴列表失败: %w", err)
	}

	return partners, total, nil
}

// GetBalanceSummary 获取余额汇总并校验账本一致性
func (p *PartnerLogic) GetBalanceSummary(partnerID uint) (*BalanceSummary, error) {
	partner, err := p.GetPartner(partnerID)
	if err != nil {
		return nil, err
	}

	diff := partner.TotalEarnings - (partner.PendingBalance + partner.AvailableBalance + partner.TotalPaidOut)

	return &BalanceSummary{
		PartnerID:        partner.ID,
		PendingBalance:   partner.PendingBalance,
		AvailableBalance: partner.AvailableBalance,
		TotalEarnings:    partner.TotalEarnings,
		TotalPaidOut:     partner.TotalPaidOut,
		Consistent:       math.Abs(diff) < 1e-6,
	}, nil
}

// validatePartner 验证合作伙伴数据
func (p *PartnerLogic) validatePartner(partner *model.Partner) error {
	if partner.Name == "" {
		return errors.New("伙伴名称不能为空")
	}
	if partner.Email == "" {
		return errors.New("伙伴邮箱不能为空")
	}
	if partner.BaseCommissionRate < 0 || partner.BaseCommissionRate > 1 {
		return errors.New("基础佣金比例必须在0到1之间")
	}
	if partner.BonusCommissionRate < 0 || partner.BonusCommissionRate > 1 {
		return errors.New("量级加成比例必须在0到1之间")
	}
	if partner.VerificationPassRate < 0 || partner.VerificationPassRate > 100 {
		return errors.New("验证通过率必须在0到100之间")
	}
	return nil
}
