package logic

import (
	"testing"

	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDB 创建内存数据库。单连接池让并发调用在存储层串行，
// 与生产环境中数据库对单行 UPDATE 的串行化语义一致。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Partner{},
		&model.Lead{},
		&model.PurchaseItem{},
		&model.PayoutRecord{},
		&model.CommissionEvent{},
	))

	return db
}

// testMarketplaceConfig 测试用佣金配置，与生产默认值一致
func testMarketplaceConfig() config.MarketplaceConfig {
	return config.MarketplaceConfig{
		BaseCommissionRate:    0.30,
		FreshSaleBonus:        0.10,
		FreshSaleDays:         7,
		VerificationBonus:     0.05,
		VerificationThreshold: 95,
		MaxCommissionRate:     0.50,
		HoldbackDays:          14,
		IngestChunkSize:       500,
		IngestWorkers:         4,
	}
}

// createTestPartner 创建测试伙伴
func createTestPartner(t *testing.T, db *gorm.DB, partner *model.Partner) *model.Partner {
	t.Helper()

	if partner == nil {
		partner = &model.Partner{}
	}
	if partner.Name == "" {
		partner.Name = "测试伙伴"
	}
	if partner.Email == "" {
		partner.Email = "partner@example.com"
	}
	if partner.Status == "" {
		partner.Status = string(model.PartnerStatusActive)
	}
	require.NoError(t, db.Create(partner).Error)

	return partner
}
