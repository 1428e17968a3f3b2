package handler

import (
	"net/http"

	"github.com/blues/lms/internal/config"
	"github.com/blues/lms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LeadHandler 线索处理器
type LeadHandler struct {
	leadLogic *logic.LeadLogic
}

// NewLeadHandler 创建线索处理器
func NewLeadHandler(db *gorm.DB, cfg config.MarketplaceConfig) *LeadHandler {
	return &LeadHandler{
		leadLogic: logic.NewLeadLogic(db, cfg),
	}
}

// CheckLeads 批量去重检查，只报告不落库
func (h *LeadHandler) CheckLeads(c *gin.Context) {
	workspaceID := c.Param("id")
	if workspaceID == "" {
		ErrorResponse(c, http.StatusBadRequest, "工作区ID不能为空")
		return
	}

	var req LeadBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.leadLogic.DetectDuplicates(c.Request.Context(), workspaceID, req.Records)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "检查完成", result)
}

// IngestLeads 批量导入线索
func (h *LeadHandler) IngestLeads(c *gin.Context) {
	workspaceID := c.Param("id")
	if workspaceID == "" {
		ErrorResponse(c, http.StatusBadRequest, "工作区ID不能为空")
		return
	}

	var req LeadBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.leadLogic.IngestLeads(c.Request.Context(), workspaceID, req.PartnerID, req.Records)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "导入完成", result)
}

// GetWorkspaceLeads 获取工作区线索列表
func (h *LeadHandler) GetWorkspaceLeads(c *gin.Context) {
	workspaceID := c.Param("id")
	if workspaceID == "" {
		ErrorResponse(c, http.StatusBadRequest, "工作区ID不能为空")
		return
	}

	page, pageSize := parsePagination(c)

	leads, total, err := h.leadLogic.GetWorkspaceLeads(workspaceID, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": leads,
		"pagination": gin.H{
			"page":       page,
			"page_size":  pageSize,
			"total":      total,
			"total_page": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}
