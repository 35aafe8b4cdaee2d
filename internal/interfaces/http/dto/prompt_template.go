package dto

import (
	"time"

	"mana-universe-api/internal/application/prompttemplate"
	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/entity"
)

// CreatePromptTemplateRequest 创建模板请求
type CreatePromptTemplateRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Content   string `json:"content" binding:"required"`
	Model     string `json:"model,omitempty" binding:"max=128"`
	IsDefault bool   `json:"is_default"`
}

// ToInput 转换为服务参数
func (r *CreatePromptTemplateRequest) ToInput() prompttemplate.CreateInput {
	return prompttemplate.CreateInput{
		Name:      r.Name,
		Content:   r.Content,
		Model:     r.Model,
		IsDefault: r.IsDefault,
	}
}

// UpdatePromptTemplateRequest 更新模板请求
type UpdatePromptTemplateRequest struct {
	Name      string `json:"name,omitempty" binding:"max=255"`
	Content   string `json:"content,omitempty"`
	Model     string `json:"model,omitempty" binding:"max=128"`
	IsDefault *bool  `json:"is_default,omitempty"`
}

// ToInput 转换为服务参数
func (r *UpdatePromptTemplateRequest) ToInput() prompttemplate.UpdateInput {
	return prompttemplate.UpdateInput{
		Name:      r.Name,
		Content:   r.Content,
		Model:     r.Model,
		IsDefault: r.IsDefault,
	}
}

// PromptTemplateResponse 模板响应
type PromptTemplateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	Version   int       `json:"version"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPromptTemplateResponse 转换模板
func ToPromptTemplateResponse(t *entity.PromptTemplate) *PromptTemplateResponse {
	return &PromptTemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Content:   t.Content,
		Model:     t.Model,
		Version:   t.Version,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// PromptTemplateListResponse 模板列表响应
type PromptTemplateListResponse struct {
	Templates []*PromptTemplateResponse `json:"templates"`
}

// ToPromptTemplateListResponse 转换模板列表
func ToPromptTemplateListResponse(items []*entity.PromptTemplate) *PromptTemplateListResponse {
	out := make([]*PromptTemplateResponse, 0, len(items))
	for _, t := range items {
		out = append(out, ToPromptTemplateResponse(t))
	}
	return &PromptTemplateListResponse{Templates: out}
}

// ModelListResponse 可用模型响应
type ModelListResponse struct {
	Default string               `json:"default"`
	Models  []config.ModelOption `json:"models"`
}
