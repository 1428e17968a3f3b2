package handler

import (
	"errors"
	"net/http"

	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/logger"
	"github.com/blues/lms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SaleHandler 售出回调处理器
type SaleHandler struct {
	commissionLogic *logic.CommissionLogic
}

// NewSaleHandler 创建售出回调处理器
func NewSaleHandler(db *gorm.DB, cfg config.MarketplaceConfig) *SaleHandler {
	return &SaleHandler{
		commissionLogic: logic.NewCommissionLogic(db, cfg),
	}
}

// HandleSaleWebhook 处理支付完成回调：计算佣金并入账
func (h *SaleHandler) HandleSaleWebhook(c *gin.Context) {
	var req SaleWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	item, err := h.commissionLogic.RecordSale(c.Request.Context(), &logic.SaleRequest{
		PurchaseID: req.PurchaseID,
		LeadID:     req.LeadID,
		PartnerID:  req.PartnerID,
		SalePrice:  req.SalePrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, logic.ErrSaleAlreadyRecorded):
			// 回调重放：幂等确认，返回第一次入账的明细
			SuccessResponse(c, http.StatusOK, "佣金已入账", item)
		case errors.Is(err, logic.ErrLeadAlreadySold):
			ErrorResponse(c, http.StatusConflict, err.Error())
		case errors.Is(err, logic.ErrPartnerNotFound):
			ErrorResponse(c, http.StatusNotFound, err.Error())
		default:
			logger.Error("Failed to record sale %s: %v", req.PurchaseID, err)
			ErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	SuccessResponse(c, http.StatusCreated, "佣金已入账", item)
}

// GetPurchaseItem 获取购买明细
func (h *SaleHandler) GetPurchaseItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的明细ID")
		return
	}

	item, err := h.commissionLogic.GetPurchaseItem(id)
	if err != nil {
		ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", item)
}
