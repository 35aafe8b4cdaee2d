package handler

import (
	"context"
	"strconv"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// HistoryService 保存历史查询
type HistoryService interface {
	List(ctx context.Context, userID, universeID string, limit int) ([]*entity.AuditEvent, error)
}

// HistoryHandler 宇宙保存历史处理器
type HistoryHandler struct {
	svc HistoryService
}

// NewHistoryHandler 创建历史处理器
func NewHistoryHandler(svc HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// List 获取宇宙保存历史
// @Summary 获取保存历史
// @Tags Universes
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Param limit query int false "条数" default(50)
// @Success 200 {object} dto.Response[dto.HistoryResponse]
// @Router /v1/universes/{uid}/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	events, err := h.svc.List(c.Request.Context(), userID, dto.BindUniverseID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, &dto.HistoryResponse{Events: events})
}
