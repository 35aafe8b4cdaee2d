package handler

import (
	"context"

	"mana-universe-api/internal/application/prompttemplate"
	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// PromptTemplateService 模板用例
type PromptTemplateService interface {
	List(ctx context.Context, userID string) ([]*entity.PromptTemplate, error)
	Get(ctx context.Context, userID, id string) (*entity.PromptTemplate, error)
	Create(ctx context.Context, userID string, in prompttemplate.CreateInput) (*entity.PromptTemplate, error)
	Update(ctx context.Context, userID, id string, in prompttemplate.UpdateInput) (*entity.PromptTemplate, error)
	Delete(ctx context.Context, userID, id string) error
}

// ModelCatalog 模型白名单
type ModelCatalog interface {
	Default() string
	Options() []config.ModelOption
}

// PromptTemplateHandler 提示词模板与模型处理器
type PromptTemplateHandler struct {
	svc    PromptTemplateService
	models ModelCatalog
}

// NewPromptTemplateHandler 创建模板处理器
func NewPromptTemplateHandler(svc PromptTemplateService, models ModelCatalog) *PromptTemplateHandler {
	return &PromptTemplateHandler{svc: svc, models: models}
}

// ListModels 列出可用模型
// @Summary 获取可用模型
// @Tags Models
// @Produce json
// @Success 200 {object} dto.Response[dto.ModelListResponse]
// @Router /v1/models [get]
func (h *PromptTemplateHandler) ListModels(c *gin.Context) {
	dto.Success(c, &dto.ModelListResponse{
		Default: h.models.Default(),
		Models:  h.models.Options(),
	})
}

// List 列出用户模板，首次访问时创建默认模板
// @Summary 获取模板列表
// @Tags PromptTemplates
// @Produce json
// @Success 200 {object} dto.Response[dto.PromptTemplateListResponse]
// @Router /v1/prompt-templates [get]
func (h *PromptTemplateHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPromptTemplateListResponse(items))
}

// Create 创建模板
// @Summary 创建模板
// @Tags PromptTemplates
// @Accept json
// @Produce json
// @Param body body dto.CreatePromptTemplateRequest true "模板内容"
// @Success 201 {object} dto.Response[dto.PromptTemplateResponse]
// @Router /v1/prompt-templates [post]
func (h *PromptTemplateHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreatePromptTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.svc.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToPromptTemplateResponse(tpl))
}

// Get 获取模板
// @Summary 获取模板
// @Tags PromptTemplates
// @Produce json
// @Param tid path string true "模板 ID"
// @Success 200 {object} dto.Response[dto.PromptTemplateResponse]
// @Router /v1/prompt-templates/{tid} [get]
func (h *PromptTemplateHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tpl, err := h.svc.Get(c.Request.Context(), userID, dto.BindTemplateID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPromptTemplateResponse(tpl))
}

// Update 更新模板，内容变化时版本号递增
// @Summary 更新模板
// @Tags PromptTemplates
// @Accept json
// @Produce json
// @Param tid path string true "模板 ID"
// @Param body body dto.UpdatePromptTemplateRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.PromptTemplateResponse]
// @Router /v1/prompt-templates/{tid} [put]
func (h *PromptTemplateHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdatePromptTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := h.svc.Update(c.Request.Context(), userID, dto.BindTemplateID(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToPromptTemplateResponse(tpl))
}

// Delete 删除模板，最后一个模板不可删除
// @Summary 删除模板
// @Tags PromptTemplates
// @Param tid path string true "模板 ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/prompt-templates/{tid} [delete]
func (h *PromptTemplateHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, dto.BindTemplateID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
