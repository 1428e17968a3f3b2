package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/logger"
	"github.com/blues/lms/internal/logic"
	"github.com/blues/lms/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// HoldbackJob 佣金冻结期到期任务：把冻结期已满的佣金转为可提现状态，
// 并按伙伴聚合后一次性转移余额
type HoldbackJob struct {
	db     *gorm.DB
	config *config.Config
	now    func() time.Time
}

// NewHoldbackJob 创建佣金冻结期到期任务
func NewHoldbackJob(db *gorm.DB, cfg *config.Config) *HoldbackJob {
	return &HoldbackJob{
		db:     db,
		config: cfg,
		now:    time.Now,
	}
}

// GetName 获取任务名称
func (j *HoldbackJob) GetName() string {
	return "commission_holdback_maturer"
}

// GetSchedule 获取调度配置
func (j *HoldbackJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *HoldbackJob) Execute() {
	logger.Info("Starting commission holdback maturation task")

	matured, moved, err := j.Run(context.Background())
	if err != nil {
		logger.Error("Holdback maturation task failed: %v", err)
		return
	}

	logger.Info("Holdback maturation completed. Matured %d commissions, moved %.4f to available", matured, moved)
}

// Run 执行一轮冻结期到期处理，返回转换的佣金条数和转移的总金额。
// 按伙伴聚合后逐伙伴处理，状态翻转和余额转移放在同一个事务里：
// 转移失败时翻转一并回滚，佣金保持 pending_holdback 状态等待下一轮重试，
// 不会出现状态已是 payable 而余额仍冻结的情况。每条翻转的 WHERE 都带
// 当前状态守卫，紧接着重复执行一次不会产生任何额外转移。
func (j *HoldbackJob) Run(ctx context.Context) (int, float64, error) {
	now := j.now()

	// 找出冻结期已满的佣金
	var items []model.PurchaseItem
	err := j.db.WithContext(ctx).
		Where("status = ? AND payable_at <= ?", model.CommissionStatusPendingHoldback, now).
		Find(&items).Error
	if err != nil {
		return 0, 0, fmt.Errorf("查询到期佣金失败: %w", err)
	}

	if len(items) == 0 {
		return 0, 0, nil
	}

	itemsByPartner := make(map[uint][]model.PurchaseItem)
	for i := range items {
		itemsByPartner[items[i].PartnerID] = append(itemsByPartner[items[i].PartnerID], items[i])
	}

	matured := 0
	var moved float64
	for partnerID, partnerItems := range itemsByPartner {
		if err := ctx.Err(); err != nil {
			return matured, moved, err
		}

		var flipped int
		var amount float64
		err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			flipped = 0
			amount = 0
			for i := range partnerItems {
				result := tx.Model(&model.PurchaseItem{}).
					Where("id = ? AND status = ?", partnerItems[i].ID, model.CommissionStatusPendingHoldback).
					Update("status", string(model.CommissionStatusPayable))
				if result.Error != nil {
					return fmt.Errorf("翻转佣金 %d 状态失败: %w", partnerItems[i].ID, result.Error)
				}
				if result.RowsAffected == 0 {
					// 已被并发的另一轮处理过
					continue
				}
				flipped++
				amount += partnerItems[i].CommissionAmount
			}

			if flipped == 0 {
				return nil
			}

			if err := logic.NewBalanceLogic(tx).MovePendingToAvailable(partnerID, amount); err != nil {
				return err
			}

			event := &model.CommissionEvent{
				PartnerID: partnerID,
				EventType: string(model.EventCommissionMatured),
				Amount:    amount,
			}
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("写入到期审计事件失败: %w", err)
			}

			return nil
		})
		if err != nil {
			logger.Error("Failed to mature commissions for partner %d: %v", partnerID, err)
			continue
		}

		matured += flipped
		moved += amount
	}

	return matured, moved, nil
}
