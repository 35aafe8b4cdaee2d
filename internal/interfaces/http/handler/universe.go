package handler

import (
	"context"

	"mana-universe-api/internal/application/universe"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/interfaces/http/dto"
	wfmodel "mana-universe-api/internal/workflow/model"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UniverseService 宇宙用例
type UniverseService interface {
	Generate(ctx context.Context, req universe.GenerateRequest) (*wfmodel.Draft, error)
	SaveDraft(ctx context.Context, userID, universeID, draftID, name string) (*universe.SaveResult, error)
	Save(ctx context.Context, req universe.SaveRequest) (*universe.SaveResult, error)
	Get(ctx context.Context, userID, universeID string) (*universe.View, error)
	ListAccessible(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Universe], error)
	Delete(ctx context.Context, userID, universeID string) error
	Content(ctx context.Context, userID, universeID string) (*universe.View, *universe.Content, error)
}

// UniverseHandler 宇宙处理器
type UniverseHandler struct {
	svc UniverseService
}

// NewUniverseHandler 创建宇宙处理器
func NewUniverseHandler(svc UniverseService) *UniverseHandler {
	return &UniverseHandler{svc: svc}
}

// Generate 为新宇宙生成内容
// @Summary 生成宇宙内容
// @Tags Universes
// @Accept json
// @Produce json
// @Param body body dto.GenerateUniverseRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.DraftResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/universes/generate [post]
func (h *UniverseHandler) Generate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.GenerateUniverseRequest
	if !bindJSON(c, &req) {
		return
	}

	draft, err := h.svc.Generate(c.Request.Context(), universe.GenerateRequest{
		ActingUserID: userID,
		Prompt:       req.Prompt,
		ModelID:      req.Model,
		TemplateID:   req.TemplateID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToDraftResponse(draft))
}

// Regenerate 为已有宇宙重新生成内容，不落库
// @Summary 重新生成宇宙内容
// @Tags Universes
// @Accept json
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Param body body dto.GenerateUniverseRequest false "生成参数"
// @Success 200 {object} dto.Response[dto.DraftResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/universes/{uid}/regenerate [post]
func (h *UniverseHandler) Regenerate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.GenerateUniverseRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	universeID := dto.BindUniverseID(c)
	ctx := logger.WithContext(c.Request.Context(), logger.UniverseIDKey, universeID)

	draft, err := h.svc.Generate(ctx, universe.GenerateRequest{
		ActingUserID: userID,
		UniverseID:   universeID,
		Prompt:       req.Prompt,
		ModelID:      req.Model,
		TemplateID:   req.TemplateID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToDraftResponse(draft))
}

// Create 保存生成结果为新宇宙
// @Summary 保存新宇宙
// @Tags Universes
// @Accept json
// @Produce json
// @Param body body dto.SaveUniverseRequest true "草稿 ID 或生成结果"
// @Success 201 {object} dto.Response[dto.SaveUniverseResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/universes [post]
func (h *UniverseHandler) Create(c *gin.Context) {
	h.save(c, "")
}

// SaveContent 整体替换已有宇宙的内容
// @Summary 保存宇宙内容
// @Tags Universes
// @Accept json
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Param body body dto.SaveUniverseRequest true "草稿 ID 或生成结果"
// @Success 200 {object} dto.Response[dto.SaveUniverseResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/universes/{uid}/content [put]
func (h *UniverseHandler) SaveContent(c *gin.Context) {
	h.save(c, dto.BindUniverseID(c))
}

func (h *UniverseHandler) save(c *gin.Context, universeID string) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.SaveUniverseRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.HasSource() {
		respondError(c, apperrors.ErrInvalidParam.WithDetail("exactly one of draft_id or result is required"))
		return
	}

	ctx := c.Request.Context()
	if universeID != "" {
		ctx = logger.WithContext(ctx, logger.UniverseIDKey, universeID)
	}

	var (
		res *universe.SaveResult
		err error
	)
	if req.DraftID != "" {
		res, err = h.svc.SaveDraft(ctx, userID, universeID, req.DraftID, req.Name)
	} else {
		res, err = h.svc.Save(ctx, req.ToSaveRequest(userID, universeID))
	}
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ToSaveUniverseResponse(userID, res)
	if res.Created {
		dto.Created(c, resp)
		return
	}
	dto.Success(c, resp)
}

// List 列出可访问的宇宙
// @Summary 获取宇宙列表
// @Tags Universes
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.UniverseListResponse]
// @Router /v1/universes [get]
func (h *UniverseHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	pageReq := dto.BindPage(c)

	result, err := h.svc.ListAccessible(c.Request.Context(), userID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		respondError(c, err)
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ToUniverseListResponse(userID, result.Items), meta)
}

// Get 获取宇宙详情
// @Summary 获取宇宙详情
// @Tags Universes
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Success 200 {object} dto.Response[dto.UniverseResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/universes/{uid} [get]
func (h *UniverseHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.svc.Get(c.Request.Context(), userID, dto.BindUniverseID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUniverseResponse(view.Universe, string(view.Permission)))
}

// Content 获取宇宙内容树
// @Summary 获取宇宙内容
// @Tags Universes
// @Produce json
// @Param uid path string true "宇宙 ID"
// @Success 200 {object} dto.Response[dto.UniverseContentResponse]
// @Router /v1/universes/{uid}/content [get]
func (h *UniverseHandler) Content(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, content, err := h.svc.Content(c.Request.Context(), userID, dto.BindUniverseID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToUniverseContentResponse(view, content))
}

// Delete 删除宇宙，仅所有者
// @Summary 删除宇宙
// @Tags Universes
// @Param uid path string true "宇宙 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Router /v1/universes/{uid} [delete]
func (h *UniverseHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, dto.BindUniverseID(c)); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
