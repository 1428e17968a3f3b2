package logic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSaleAlreadyRecorded 该订单的佣金已入账（支付回调重放）
	ErrSaleAlreadyRecorded = errors.New("该订单佣金已入账")
	// ErrLeadAlreadySold 线索已售出，不能重复售出
	ErrLeadAlreadySold = errors.New("线索已售出")
)

// 加成项名称，按计算顺序写入佣金记录
const (
	BonusFreshSale        = "fresh_sale"        // 线索售出时间距创建不超过 fresh_sale_days
	BonusHighVerification = "high_verification" // 验证通过率达到门槛
	BonusVolume           = "volume_bonus"      // 伙伴配置的量级加成
)

// CommissionResult 佣金计算结果
type CommissionResult struct {
	Rate    float64  `json:"rate"`
	Amount  float64  `json:"amount"`
	Bonuses []string `json:"bonuses"`
}

// SaleRequest 售出完成事件（来自支付回调）
type SaleRequest struct {
	PurchaseID string  `json:"purchase_id"`
	LeadID     uint    `json:"lead_id"`
	PartnerID  uint    `json:"partner_id"`
	SalePrice  float64 `json:"sale_price"`
}

// CommissionLogic 佣金业务逻辑
type CommissionLogic struct {
	db  *gorm.DB
	cfg config.MarketplaceConfig
	now func() time.Time
}

// NewCommissionLogic 创建佣金业务逻辑
func NewCommissionLogic(db *gorm.DB, cfg config.MarketplaceConfig) *CommissionLogic {
	return &CommissionLogic{db: db, cfg: cfg, now: time.Now}
}

// CalculateCommission 计算佣金比例和金额。纯函数：相同输入必然得到相同输出，
// 不读库不写库。partner 缺失是唯一的错误情形。
func (c *CommissionLogic) CalculateCommission(salePrice float64, partner *model.Partner, leadCreatedAt, saleDate time.Time) (*CommissionResult, error) {
	if partner == nil {
		return nil, errors.New("合作伙伴参数不能为空")
	}
	if salePrice < 0 {
		return nil, errors.New("售价不能为负数")
	}

	rate := partner.BaseCommissionRate
	if rate <= 0 {
		rate = c.cfg.BaseCommissionRate
	}

	var bonuses []string

	// 新鲜线索加成：售出距线索创建不超过配置天数
	freshWindow := time.Duration(c.cfg.FreshSaleDays) * 24 * time.Hour
	if saleDate.Sub(leadCreatedAt) <= freshWindow {
		rate += c.cfg.FreshSaleBonus
		bonuses = append(bonuses, BonusFreshSale)
	}

	// 高验证率加成
	if partner.VerificationPassRate >= c.cfg.VerificationThreshold {
		rate += c.cfg.VerificationBonus
		bonuses = append(bonuses, BonusHighVerification)
	}

	// 伙伴量级加成
	if partner.BonusCommissionRate > 0 {
		rate += partner.BonusCommissionRate
		bonuses = append(bonuses, BonusVolume)
	}

	// 比例封顶
	if rate > c.cfg.MaxCommissionRate {
		rate = c.cfg.MaxCommissionRate
	}

	amount := round4(salePrice * rate)

	return &CommissionResult{
		Rate:    rate,
		Amount:  amount,
		Bonuses: bonuses,
	}, nil
}

// PayableDate 计算佣金出冻结期的日期
func (c *CommissionLogic) PayableDate(saleDate time.Time) time.Time {
	return saleDate.AddDate(0, 0, c.cfg.HoldbackDays)
}

// RecordSale 记录一笔售出：计算佣金，创建购买明细和审计事件，原子增加伙伴余额。
// 全部写入在同一事务内完成，任何一步失败都会整体回滚，
// 不允许余额已入账而购买明细或审计事件缺失的中间状态。
// 订单号唯一索引保证同一订单的回调重放不会二次计酬，重放时返回已有明细
// 和 ErrSaleAlreadyRecorded；线索状态翻转带守卫，同一线索只能售出一次。
func (c *CommissionLogic) RecordSale(ctx context.Context, req *SaleRequest) (*model.PurchaseItem, error) {
	if req.PurchaseID == "" {
		return nil, errors.New("订单号不能为空")
	}
	if req.SalePrice <= 0 {
		return nil, errors.New("售价必须大于0")
	}

	var partner model.Partner
	if err := c.db.First(&partner, req.PartnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("获取合作伙伴失败: %w", err)
	}

	var lead model.Lead
	if err := c.db.First(&lead, req.LeadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("线索不存在")
		}
		return nil, fmt.Errorf("获取线索失败: %w", err)
	}

	saleDate := c.now()
	commission, err := c.CalculateCommission(req.SalePrice, &partner, lead.CreatedAt, saleDate)
	if err != nil {
		return nil, err
	}

	payableAt := c.PayableDate(saleDate)

	item := &model.PurchaseItem{
		PurchaseID:       req.PurchaseID,
		LeadID:           lead.ID,
		PartnerID:        partner.ID,
		SalePrice:        req.SalePrice,
		CommissionRate:   commission.Rate,
		CommissionAmount: commission.Amount,
		Status:           string(model.CommissionStatusPendingHoldback),
		PayableAt:        &payableAt,
	}
	item.SetBonusList(commission.Bonuses)

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 创建购买明细，订单号冲突视为回调重放而不是异常
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "purchase_id"}},
			DoNothing: true,
		}).Create(item)
		if res.Error != nil {
			return fmt.Errorf("创建购买明细失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSaleAlreadyRecorded
		}

		// 状态守卫的线索翻转：只能从可售变为已售一次，
		// 零行受影响说明线索已被售出，整个事务回滚
		res = tx.Model(&model.Lead{}).
			Where("id = ? AND status = ?", lead.ID, model.LeadStatusAvailable).
			Update("status", string(model.LeadStatusSold))
		if res.Error != nil {
			return fmt.Errorf("更新线索状态失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLeadAlreadySold
		}

		// 审计事件写入失败必须使整个操作失败，否则无法对账
		event := &model.CommissionEvent{
			PartnerID:      partner.ID,
			PurchaseItemID: item.ID,
			EventType:      string(model.EventCommissionRecorded),
			Amount:         commission.Amount,
			RateApplied:    commission.Rate,
			Detail:         item.Bonuses,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("写入佣金审计事件失败: %w", err)
		}

		// 原子增加冻结余额和累计收入
		if err := incrementPartnerBalance(tx, partner.ID, commission.Amount, commission.Amount); err != nil {
			return err
		}

		return nil
	})
	if errors.Is(err, ErrSaleAlreadyRecorded) {
		// 重放的回调：返回第一次入账的明细，余额不再变动
		var existing model.PurchaseItem
		if lookupErr := c.db.Where("purchase_id = ?", req.PurchaseID).First(&existing).Error; lookupErr != nil {
			return nil, fmt.Errorf("查询已有购买明细失败: %w", lookupErr)
		}
		return &existing, ErrSaleAlreadyRecorded
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

// GetPurchaseItem 获取购买明细
func (c *CommissionLogic) GetPurchaseItem(id uint) (*model.PurchaseItem, error) {
	var item model.PurchaseItem
	if err := c.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("购买明细不存在")
		}
		return nil, fmt.Errorf("获取购买明细失败: %w", err)
	}
	return &item, nil
}

// round4 金额保留4位小数
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
