package router

import (
	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "lead-marketplace-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 合作伙伴相关路由
		partnerHandler := handler.NewPartnerHandler(db)
		payoutHandler := handler.NewPayoutHandler(db)
		partners := v1.Group("/partners")
		{
			partners.POST("", partnerHandler.CreatePartner)
			partners.GET("", partnerHandler.GetPartners)
			partners.GET("/:id", partnerHandler.GetPartner)
			partners.GET("/:id/balance", partnerHandler.GetPartnerBalance)
			partners.POST("/:id/payouts", payoutHandler.RequestPayout)
			partners.GET("/:id/payouts", payoutHandler.GetPartnerPayouts)
		}

		// 提现状态回调
		payouts := v1.Group("/payouts")
		{
			payouts.POST("/:id/complete", payoutHandler.CompletePayout)
			payouts.POST("/:id/fail", payoutHandler.FailPayout)
		}

		// 线索相关路由
		leadHandler := handler.NewLeadHandler(db, cfg.Marketplace)
		workspaces := v1.Group("/workspaces")
		{
			workspaces.POST("/:id/leads/check", leadHandler.CheckLeads)
			workspaces.POST("/:id/leads", leadHandler.IngestLeads)
			workspaces.GET("/:id/leads", leadHandler.GetWorkspaceLeads)
		}

		// 售出回调与购买明细
		saleHandler := handler.NewSaleHandler(db, cfg.Marketplace)
		v1.POST("/sales/webhook", saleHandler.HandleSaleWebhook)
		v1.GET("/purchase-items/:id", saleHandler.GetPurchaseItem)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
