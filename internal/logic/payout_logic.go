package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blues/lms/internal/model"
	"gorm.io/gorm"
)

// PayoutLogic 提现业务逻辑
type PayoutLogic struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPayoutLogic 创建提现业务逻辑
func NewPayoutLogic(db *gorm.DB) *PayoutLogic {
	return &PayoutLogic{db: db, now: time.Now}
}

// RequestPayout 发起提现：原子扣减可提现余额，创建提现记录和审计事件。
// 余额不足返回 ErrInsufficientBalance，余额不发生任何变化。
// 扣减、提现记录、审计事件在同一事务内，整体成功或整体失败。
func (p *PayoutLogic) RequestPayout(ctx context.Context, partnerID uint, amount float64, method string) (*model.PayoutRecord, error) {
	if amount <= 0 {
		return nil, errors.New("提现金额必须大于0")
	}

	payout := &model.PayoutRecord{
		PartnerID: partnerID,
		Amount:    amount,
		Method:    method,
		Status:    string(model.PayoutStatusPending),
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 条件 UPDATE 扣减余额，不足时零行受影响、整个事务回滚
		if err := deductAvailableBalance(tx, partnerID, amount); err != nil {
			return err
		}

		if err := tx.Create(payout).Error; err != nil {
			return fmt.Errorf("创建提现记录失败: %w", err)
		}

		event := &model.CommissionEvent{
			PartnerID: partnerID,
			PayoutID:  payout.ID,
			EventType: string(model.EventPayoutRequested),
			Amount:    amount,
			Detail:    method,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("写入提现审计事件失败: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payout, nil
}

// CompletePayout 标记提现完成。状态守卫在 WHERE 条件里，重复调用是无效操作
func (p *PayoutLogic) CompletePayout(ctx context.Context, payoutID uint, txRef string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paidAt := p.now()
		result := tx.Model(&model.PayoutRecord{}).
			Where("id = ? AND status = ?", payoutID, model.PayoutStatusPending).
			Updates(map[string]interface{}{
				"status":  string(model.PayoutStatusCompleted),
				"tx_ref":  txRef,
				"paid_at": &paidAt,
			})
		if result.Error != nil {
			return fmt.Errorf("更新提现状态失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("提现记录不存在或状态不允许完成")
		}

		var payout model.PayoutRecord
		if err := tx.First(&payout, payoutID).Error; err != nil {
			return fmt.Errorf("获取提现记录失败: %w", err)
		}

		event := &model.CommissionEvent{
			PartnerID: payout.PartnerID,
			PayoutID:  payout.ID,
			EventType: string(model.EventPayoutCompleted),
			Amount:    payout.Amount,
			Detail:    txRef,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("写入提现审计事件失败: %w", err)
		}

		return nil
	})
}

// FailPayout 标记提现失败并把金额原子退回可提现余额
func (p *PayoutLogic) FailPayout(ctx context.Context, payoutID uint, reason string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payout model.PayoutRecord
		if err := tx.First(&payout, payoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("提现记录不存在")
			}
			return fmt.Errorf("获取提现记录失败: %w", err)
		}

		result := tx.Model(&model.PayoutRecord{}).
			Where("id = ? AND status = ?", payoutID, model.PayoutStatusPending).
			Update("status", string(model.PayoutStatusFailed))
		if result.Error != nil {
			return fmt.Errorf("更新提现状态失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errors.New("提现记录状态不允许标记失败")
		}

		if err := refundAvailableBalance(tx, payout.PartnerID, payout.Amount); err != nil {
			return err
		}

		event := &model.CommissionEvent{
			PartnerID: payout.PartnerID,
			PayoutID:  payout.ID,
			EventType: string(model.EventPayoutFailed),
			Amount:    payout.Amount,
			Detail:    reason,
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("写入提现审计事件失败: %w", err)
		}

		return nil
	})
}

// GetPartnerPayouts 分页获取伙伴提现记录
func (p *PayoutLogic) GetPartnerPayouts(partnerID uint, page, pageSize int) ([]model.PayoutRecord, int64, error) {
	var payouts []model.PayoutRecord
	var total int64

	if err := p.db.Model(&model.PayoutRecord{}).Where("partner_id = ?", partnerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取提现记录总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := p.db.Where("partner_id = ?", partnerID).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&payouts).Error; err != nil {
		return nil, 0, fmt.Errorf("获取提现记录失败: %w", err)
	}

	return payouts, total, nil
}
