package handler

import (
	"context"

	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// ShareService 共享用例
type ShareService interface {
	List(ctx context.Context, ownerID, universeID string) ([]*entity.UniverseShare, error)
	Share(ctx context.Context, ownerID, universeID, targetUserID string, level entity.PermissionLevel) (*entity.UniverseShare, error)
	UpdateLevel(ctx context.Context, ownerID, universeID, shareID string, level entity.PermissionLevel) (*entity.UniverseShare, error)
	Revoke(ctx context.Context, ownerID, universeID, shareID string) error
}

// ShareHandler 宇宙共享处理器
type ShareHandler struct {
	svc ShareService
}

// NewShareHandler 创建共享处理器
func NewShareHandler(svc ShareService) *ShareHandler {
	return &ShareHandler{svc: svc}
}

// List 列出宇宙的共享记录
// @Summary 获取共享列表
// @Tags Shares
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Success 200 {object} dto.Response[dto.ShareListResponse]
// @Router /v1/universes/{uid}/shares [get]
func (h *ShareHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	shares, err := h.svc.List(c.Request.Context(), userID, dto.BindUniverseID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToShareListResponse(shares))
}

// Create 共享宇宙给其他用户
// @Summary 共享宇宙
// @Tags Shares
// @Accept json
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Param body body dto.CreateShareRequest true "共享对象与权限"
// @Success 201 {object} dto.Response[dto.ShareResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/universes/{uid}/shares [post]
func (h *ShareHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateShareRequest
	if !bindJSON(c, &req) {
		return
	}
	share, err := h.svc.Share(c.Request.Context(), userID, dto.BindUniverseID(c), req.UserID, entity.PermissionLevel(req.PermissionLevel))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToShareResponse(share))
}

// Update 修改共享权限
// @Summary 修改共享权限
// @Tags Shares
// @Accept json
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Param sid path string true "共享 ID"
// @Success 200 {object} dto.Response[dto.ShareResponse]
// @Router /v1/universes/{uid}/shares/{sid} [put]
func (h *ShareHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateShareRequest
	if !bindJSON(c, &req) {
		return
	}
	share, err := h.svc.UpdateLevel(c.Request.Context(), userID, dto.BindUniverseID(c), dto.BindShareID(c), entity.PermissionLevel(req.PermissionLevel))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToShareResponse(share))
}

// Delete 撤销共享
// @Summary 撤销共享
// @Tags Shares
// @Param uid path string true "宇宙 ID"
// @Param sid path string true "共享 ID"
// @Success 204
// @Router /v1/universes/{uid}/shares/{sid} [delete]
func (h *ShareHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Revoke(c.Request.Context(), userID, dto.BindUniverseID(c), dto.BindShareID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
