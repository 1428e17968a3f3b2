package handler

import (
	"errors"
	"net/http"

	"github.com/blues/lms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PayoutHandler 提现处理器
type PayoutHandler struct {
	payoutLogic *logic.PayoutLogic
}

// NewPayoutHandler 创建提现处理器
func NewPayoutHandler(db *gorm.DB) *PayoutHandler {
	return &PayoutHandler{
		payoutLogic: logic.NewPayoutLogic(db),
	}
}

// RequestPayout 发起提现
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	partnerID, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	payout, err := h.payoutLogic.RequestPayout(c.Request.Context(), partnerID, req.Amount, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, logic.ErrInsufficientBalance):
			ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, logic.ErrPartnerNotFound):
			ErrorResponse(c, http.StatusNotFound, err.Error())
		default:
			ErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	SuccessResponse(c, http.StatusCreated, "提现已发起", payout)
}

// GetPartnerPayouts 获取伙伴提现记录
func (h *PayoutHandler) GetPartnerPayouts(c *gin.Context) {
	partnerID, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	page, pageSize := parsePagination(c)

	payouts, total, err := h.payoutLogic.GetPartnerPayouts(partnerID, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": payouts,
		"pagination": gin.H{
			"page":       page,
			"page_size":  pageSize,
			"total":      total,
			"total_page": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// CompletePayout 标记提现完成（支付渠道回调）
func (h *PayoutHandler) CompletePayout(c *gin.Context) {
	payoutID, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的提现ID")
		return
	}

	var req struct {
		TxRef string `json:"tx_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	if err := h.payoutLogic.CompletePayout(c.Request.Context(), payoutID, req.TxRef); err != nil {
		ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "提现已完成", nil)
}

// FailPayout 标记提现失败并退回余额（支付渠道回调）
func (h *PayoutHandler) FailPayout(c *gin.Context) {
	payoutID, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的提现ID")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	if err := h.payoutLogic.FailPayout(c.Request.Context(), payoutID, req.Reason); err != nil {
		ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "提现已标记失败", nil)
}
