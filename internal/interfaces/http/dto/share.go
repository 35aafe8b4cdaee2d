package dto

import (
	"time"

	"mana-universe-api/internal/domain/entity"
)

// CreateShareRequest 共享请求
type CreateShareRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	PermissionLevel string `json:"permission_level" binding:"required,oneof=view edit"`
}

// UpdateShareRequest 修改共享权限请求
type UpdateShareRequest struct {
	PermissionLevel string `json:"permission_level" binding:"required,oneof=view edit"`
}

// ShareResponse 共享记录响应
type ShareResponse struct {
	ID              string    `json:"id"`
	UniverseID      string    `json:"universe_id"`
	UserID          string    `json:"user_id"`
	PermissionLevel string    `json:"permission_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToShareResponse 转换共享记录
func ToShareResponse(s *entity.UniverseShare) *ShareResponse {
	return &ShareResponse{
		ID:              s.ID,
		UniverseID:      s.UniverseID,
		UserID:          s.UserID,
		PermissionLevel: string(s.PermissionLevel),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ShareListResponse 共享列表响应
type ShareListResponse struct {
	Shares []*ShareResponse `json:"shares"`
}

// ToShareListResponse 转换共享列表
func ToShareListResponse(items []*entity.UniverseShare) *ShareListResponse {
	out := make([]*ShareResponse, 0, len(items))
	for _, s := range items {
		out = append(out, ToShareResponse(s))
	}
	return &ShareListResponse{Shares: out}
}
