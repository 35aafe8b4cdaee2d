package model

import "time"

// Draft 已生成但尚未保存的结果
type Draft struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	// UniverseID 为空表示新宇宙的草稿
	UniverseID string            `json:"universe_id,omitempty"`
	TemplateID string            `json:"template_id,omitempty"`
	Result     *GenerationResult `json:"result"`
	CreatedAt  time.Time         `json:"created_at"`
}
