package logic

import (
	"errors"
	"fmt"

	"github.com/blues/lms/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrPartnerNotFound 合作伙伴不存在
	ErrPartnerNotFound = errors.New("合作伙伴不存在")
	// ErrInsufficientBalance 可提现余额不足
	ErrInsufficientBalance = errors.New("可提现余额不足")
	// ErrInsufficientPendingBalance 冻结余额不足
	ErrInsufficientPendingBalance = errors.New("冻结余额不足")
)

// BalanceLogic 余额账本。合作伙伴的余额字段只能经由这里的三个原子操作修改，
// 读取-计算-写回的更新路径一律不允许，串行化完全交给存储层的条件 UPDATE。
type BalanceLogic struct {
	db *gorm.DB
}

// NewBalanceLogic 创建余额账本
func NewBalanceLogic(db *gorm.DB) *BalanceLogic {
	return &BalanceLogic{db: db}
}

// IncrementPartnerBalance 原子增加冻结余额和累计收入，记录佣金时调用
func (b *BalanceLogic) IncrementPartnerBalance(partnerID uint, pendingDelta, earningsDelta float64) error {
	return incrementPartnerBalance(b.db, partnerID, pendingDelta, earningsDelta)
}

// MovePendingToAvailable 原子地把冻结余额转入可提现余额，冻结余额不足时失败
func (b *BalanceLogic) MovePendingToAvailable(partnerID uint, amount float64) error {
	return movePendingToAvailable(b.db, partnerID, amount)
}

// DeductAvailableBalance 原子扣减可提现余额并累加已提现金额，余额不足时失败且不产生任何变更
func (b *BalanceLogic) DeductAvailableBalance(partnerID uint, amount float64) error {
	return deductAvailableBalance(b.db, partnerID, amount)
}

// GetPartner 获取合作伙伴
func (b *BalanceLogic) GetPartner(partnerID uint) (*model.Partner, error) {
	var partner model.Partner
	if err := b.db.First(&partner, partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("获取合作伙伴失败: %w", err)
	}
	return &partner, nil
}

// incrementPartnerBalance 单条 UPDATE 完成两个字段的增量，读改写都发生在存储引擎内
func incrementPartnerBalance(db *gorm.DB, partnerID uint, pendingDelta, earningsDelta float64) error {
	result := db.Model(&model.Partner{}).
		Where("id = ?", partnerID).
		Updates(map[string]interface{}{
			"pending_balance": gorm.Expr("pending_balance + ?", pendingDelta),
			"total_earnings":  gorm.Expr("total_earnings + ?", earningsDelta),
		})
	if result.Error != nil {
		return fmt.Errorf("增加余额失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPartnerNotFound
	}
	return nil
}

// movePendingToAvailable WHERE 条件携带余额充足性检查，不足时零行受影响、余额不变
func movePendingToAvailable(db *gorm.DB, partnerID uint, amount float64) error {
	if amount <= 0 {
		return errors.New("转移金额必须大于0")
	}

	result := db.Model(&model.Partner{}).
		Where("id = ? AND pending_balance >= ?", partnerID, amount).
		Updates(map[string]interface{}{
			"pending_balance":   gorm.Expr("pending_balance - ?", amount),
			"available_balance": gorm.Expr("available_balance + ?", amount),
		})
	if result.Error != nil {
		return fmt.Errorf("转移余额失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return classifyBalanceFailure(db, partnerID, ErrInsufficientPendingBalance)
	}
	return nil
}

// deductAvailableBalance 扣减可提现余额的同时累加已提现金额，
// 保证 total_earnings == pending + available + total_paid_out 在任意时刻成立
func deductAvailableBalance(db *gorm.DB, partnerID uint, amount float64) error {
	if amount <= 0 {
		return errors.New("扣减金额必须大于0")
	}

	result := db.Model(&model.Partner{}).
		Where("id = ? AND available_balance >= ?", partnerID, amount).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance - ?", amount),
			"total_paid_out":    gorm.Expr("total_paid_out + ?", amount),
		})
	if result.Error != nil {
		return fmt.Errorf("扣减余额失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return classifyBalanceFailure(db, partnerID, ErrInsufficientBalance)
	}
	return nil
}

// refundAvailableBalance 提现失败时回退：可提现余额加回、已提现金额扣回
func refundAvailableBalance(db *gorm.DB, partnerID uint, amount float64) error {
	result := db.Model(&model.Partner{}).
		Where("id = ?", partnerID).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance + ?", amount),
			"total_paid_out":    gorm.Expr("total_paid_out - ?", amount),
		})
	if result.Error != nil {
		return fmt.Errorf("回退余额失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPartnerNotFound
	}
	return nil
}

// classifyBalanceFailure 零行受影响时区分"伙伴不存在"与"余额不足"
func classifyBalanceFailure(db *gorm.DB, partnerID uint, insufficientErr error) error {
	var count int64
	if err := db.Model(&model.Partner{}).Where("id = ?", partnerID).Count(&count).Error; err != nil {
		return fmt.Errorf("检查合作伙伴失败: %w", err)
	}
	if count == 0 {
		return ErrPartnerNotFound
	}
	return insufficientErr
}
