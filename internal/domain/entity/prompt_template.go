package entity

import (
	"time"

	"gorm.io/gorm"
)

// PromptTemplate 用户自有的提示词模板，内容中的 {USER_PROMPT} 会被替换
type PromptTemplate struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Model     string    `json:"model" gorm:"type:varchar(128)"`
	Version   int       `json:"version" gorm:"not null;default:1"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (PromptTemplate) TableName() string {
	return "prompt_templates"
}

// BeforeCreate 分配主键
func (p *PromptTemplate) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Version < 1 {
		p.Version = 1
	}
	return nil
}

// NewPromptTemplate 创建模板
func NewPromptTemplate(userID, name, content, model string) *PromptTemplate {
	return &PromptTemplate{
		UserID:  userID,
		Name:    name,
		Content: content,
		Model:   model,
		Version: 1,
	}
}

// Revise 更新内容并递增版本
func (p *PromptTemplate) Revise(name, content, model string) {
	if name != "" {
		p.Name = name
	}
	if content != "" {
		p.Content = content
	}
	if model != "" {
		p.Model = model
	}
	p.Version++
}

// Validate 校验
func (p *PromptTemplate) Validate() error {
	if blank(p.UserID) {
		return ErrOwnerRequired
	}
	if blank(p.Name) {
		return ErrNameRequired
	}
	if blank(p.Content) {
		return ErrContentRequired
	}
	return nil
}
