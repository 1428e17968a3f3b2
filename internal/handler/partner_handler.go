package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blues/lms/internal/logic"
	"github.com/blues/lms/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PartnerHandler 合作伙伴处理器
type PartnerHandler struct {
	partnerLogic *logic.PartnerLogic
}

// NewPartnerHandler 创建合作伙伴处理器
func NewPartnerHandler(db *gorm.DB) *PartnerHandler {
	return &PartnerHandler{
		partnerLogic: logic.NewPartnerLogic(db),
	}
}

// CreatePartner 创建合作伙伴
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	partner := &model.Partner{
		Name:                 req.Name,
		Email:                req.Email,
		BaseCommissionRate:   req.BaseCommissionRate,
		BonusCommissionRate:  req.BonusCommissionRate,
		VerificationPassRate: req.VerificationPassRate,
	}

	if err := h.partnerLogic.CreatePartner(partner); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "创建成功", partner)
}

// GetPartners 获取合作伙伴列表
func (h *PartnerHandler) GetPartners(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	partners, total, err := h.partnerLogic.GetPartners(page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": partners,
		"pagination": gin.H{
			"page":       page,
			"page_size":  pageSize,
			"total":      total,
			"total_page": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

// GetPartner 获取合作伙伴详情
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	partnerID, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	partner, err := h.partnerLogic.GetPartner(partnerID)
	if err != nil {
		if errors.Is(err, logic.ErrPartnerNotFound) {
			ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", partner)
}

// GetPartnerBalance 获取伙伴余额汇总
func (h *PartnerHandler) GetPartnerBalance(c *gin.Context) {
	partnerID, err := parseIDParam(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的伙伴ID")
		return
	}

	summary, err := h.partnerLogic.GetBalanceSummary(partnerID)
	if err != nil {
		if errors.Is(err, logic.ErrPartnerNotFound) {
			ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取成功", summary)
}

// parseIDParam 解析路径中的数字ID
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
