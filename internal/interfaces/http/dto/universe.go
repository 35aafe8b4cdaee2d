package dto

import (
	"time"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/application/universe"
	"mana-universe-api/internal/domain/entity"
	wfmodel "mana-universe-api/internal/workflow/model"
)

// GenerateUniverseRequest 生成请求
type GenerateUniverseRequest struct {
	Prompt     string `json:"prompt" binding:"max=20000"`
	Model      string `json:"model,omitempty" binding:"max=128"`
	TemplateID string `json:"template_id,omitempty"`
}

// SaveUniverseRequest 保存请求，draft_id 与 result 二选一
type SaveUniverseRequest struct {
	DraftID    string                    `json:"draft_id,omitempty"`
	Name       string                    `json:"name,omitempty" binding:"max=255"`
	Result     *wfmodel.GenerationResult `json:"result,omitempty"`
	TemplateID string                    `json:"template_id,omitempty"`
}

// HasSource 检查是否恰好提供了一个内容来源
func (r *SaveUniverseRequest) HasSource() bool {
	return (r.DraftID == "") != (r.Result == nil)
}

// ToSaveRequest 转换为保存参数
func (r *SaveUniverseRequest) ToSaveRequest(userID, universeID string) universe.SaveRequest {
	return universe.SaveRequest{
		ActingUserID: userID,
		UniverseID:   universeID,
		Name:         r.Name,
		Result:       r.Result,
		TemplateID:   r.TemplateID,
	}
}

// DraftResponse 生成草稿响应
type DraftResponse struct {
	DraftID    string                    `json:"draft_id"`
	UniverseID string                    `json:"universe_id,omitempty"`
	TemplateID string                    `json:"template_id,omitempty"`
	Result     *wfmodel.GenerationResult `json:"result"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// ToDraftResponse 转换草稿
func ToDraftResponse(d *wfmodel.Draft) *DraftResponse {
	return &DraftResponse{
		DraftID:    d.ID,
		UniverseID: d.UniverseID,
		TemplateID: d.TemplateID,
		Result:     d.Result,
		CreatedAt:  d.CreatedAt,
	}
}

// UniverseResponse 宇宙响应
type UniverseResponse struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	Prompt           string    `json:"prompt,omitempty"`
	PromptTemplateID string    `json:"prompt_template_id,omitempty"`
	Model            string    `json:"model,omitempty"`
	Permission       string    `json:"permission,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToUniverseResponse 转换宇宙实体
func ToUniverseResponse(u *entity.Universe, perm string) *UniverseResponse {
	if u == nil {
		return nil
	}
	resp := &UniverseResponse{
		ID:         u.ID,
		OwnerID:    u.UserID,
		Name:       u.Name,
		Prompt:     u.Prompt,
		Model:      u.Model,
		Permission: perm,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.PromptTemplateID != nil {
		resp.PromptTemplateID = *u.PromptTemplateID
	}
	return resp
}

// UniverseListResponse 宇宙列表响应
type UniverseListResponse struct {
	Universes []*UniverseResponse `json:"universes"`
}

// ToUniverseListResponse 转换列表，非所有者的条目标记为 shared
func ToUniverseListResponse(userID string, items []*entity.Universe) *UniverseListResponse {
	out := make([]*UniverseResponse, 0, len(items))
	for _, u := range items {
		perm := "shared"
		if u.IsOwnedBy(userID) {
			perm = string(access.PermissionOwner)
		}
		out = append(out, ToUniverseResponse(u, perm))
	}
	return &UniverseListResponse{Universes: out}
}

// SaveUniverseResponse 保存结果响应
type SaveUniverseResponse struct {
	Universe *UniverseResponse            `json:"universe"`
	Counts   *universe.MaterializedCounts `json:"counts"`
	Created  bool                         `json:"created"`
}

// ToSaveUniverseResponse 转换保存结果
func ToSaveUniverseResponse(userID string, res *universe.SaveResult) *SaveUniverseResponse {
	perm := access.PermissionEdit
	if res.Universe.IsOwnedBy(userID) {
		perm = access.PermissionOwner
	}
	return &SaveUniverseResponse{
		Universe: ToUniverseResponse(res.Universe, string(perm)),
		Counts:   res.Counts,
		Created:  res.Created,
	}
}

// UniverseContentResponse 宇宙内容响应
type UniverseContentResponse struct {
	Universe   *UniverseResponse         `json:"universe"`
	Characters []*entity.Character       `json:"characters"`
	Locations  []*entity.Location        `json:"locations"`
	Chapters   []universe.ChapterContent `json:"chapters"`
	Beats      []*entity.Beat            `json:"beats"`
}

// ToUniverseContentResponse 转换内容树
func ToUniverseContentResponse(view *universe.View, content *universe.Content) *UniverseContentResponse {
	return &UniverseContentResponse{
		Universe:   ToUniverseResponse(view.Universe, string(view.Permission)),
		Characters: content.Characters,
		Locations:  content.Locations,
		Chapters:   content.Chapters,
		Beats:      content.Beats,
	}
}

// HistoryResponse 保存历史响应
type HistoryResponse struct {
	Events []*entity.AuditEvent `json:"events"`
}
